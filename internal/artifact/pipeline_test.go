// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package artifact

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"nucleus-gateway/internal/model"
	"nucleus-gateway/internal/storage/metadata"
	"nucleus-gateway/pkg/log"
)

type fakeProvider struct {
	types   []string
	content string
	mime    string
	err     error
	calls   int
	closed  *bool
}

func (p *fakeProvider) Name() string                     { return "fake" }
func (p *fakeProvider) SupportedReferenceTypes() []string { return p.types }

func (p *fakeProvider) Fetch(ctx context.Context, ref model.ArtifactReference) (*model.ArtifactContent, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &model.ArtifactContent{
		Reference:   ref,
		Data:        &trackingCloser{Reader: strings.NewReader(p.content), closed: p.closed},
		ContentType: p.mime,
	}, nil
}

type trackingCloser struct {
	io.Reader
	closed *bool
}

func (c *trackingCloser) Close() error {
	if c.closed != nil {
		*c.closed = true
	}
	return nil
}

type failingExtractor struct{}

func (failingExtractor) Name() string                 { return "failing" }
func (failingExtractor) SupportedMimeTypes() []string { return []string{"text/plain"} }
func (failingExtractor) Extract(context.Context, *model.ArtifactContent) (string, error) {
	return "", errors.New("corrupt stream")
}

func ref(id, refType string) model.ArtifactReference {
	return model.ArtifactReference{
		ReferenceID:   id,
		ReferenceType: refType,
		SourceURI:     "https://files.example.com/" + id,
		TenantID:      "tenant-1",
		FileName:      id + ".txt",
	}
}

func TestPipelineExtractsAndRecordsMetadata(t *testing.T) {
	ctx := context.Background()
	store := metadata.NewMemoryStore()
	provider := &fakeProvider{types: []string{"url"}, content: "hello world", mime: "text/plain; charset=utf-8"}
	p := NewPipeline(store, []Provider{provider}, []Extractor{NewPlainTextExtractor()}, log.Nop())

	got := p.Process(ctx, "slack", []model.ArtifactReference{ref("F1", "url")})
	if len(got) != 1 {
		t.Fatalf("expected 1 extracted artifact, got %d", len(got))
	}
	if got[0].Text != "hello world" || got[0].Status != model.ExtractionSuccess {
		t.Fatalf("unexpected extraction: %+v", got[0])
	}

	id := SourceIdentifier("slack", "tenant-1", "F1")
	rec, err := store.GetBySourceIdentifier(ctx, id)
	if err != nil || rec == nil {
		t.Fatalf("metadata not recorded: rec=%v err=%v", rec, err)
	}
	if rec.MimeType != "text/plain" {
		t.Fatalf("mime type not normalized: %q", rec.MimeType)
	}
}

func TestPipelineDedupSkipsFetch(t *testing.T) {
	ctx := context.Background()
	store := metadata.NewMemoryStore()
	provider := &fakeProvider{types: []string{"url"}, content: "hello", mime: "text/plain"}
	p := NewPipeline(store, []Provider{provider}, []Extractor{NewPlainTextExtractor()}, log.Nop())

	refs := []model.ArtifactReference{ref("F1", "url")}
	first := p.Process(ctx, "slack", refs)
	if len(first) != 1 || provider.calls != 1 {
		t.Fatalf("first pass: extracted=%d calls=%d", len(first), provider.calls)
	}

	second := p.Process(ctx, "slack", refs)
	if len(second) != 0 {
		t.Fatalf("dedup hit should yield no artifacts, got %d", len(second))
	}
	if provider.calls != 1 {
		t.Fatalf("provider re-invoked after dedup hit: %d calls", provider.calls)
	}
}

func TestPipelineSkipsWithoutProvider(t *testing.T) {
	p := NewPipeline(metadata.NewMemoryStore(), nil, []Extractor{NewPlainTextExtractor()}, log.Nop())
	got := p.Process(context.Background(), "slack", []model.ArtifactReference{ref("F1", "gridfs")})
	if len(got) != 0 {
		t.Fatalf("expected no artifacts, got %d", len(got))
	}
}

func TestPipelineSkipsOnFetchFailure(t *testing.T) {
	ctx := context.Background()
	store := metadata.NewMemoryStore()
	provider := &fakeProvider{types: []string{"url"}, err: errors.New("connection refused")}
	p := NewPipeline(store, []Provider{provider}, []Extractor{NewPlainTextExtractor()}, log.Nop())

	got := p.Process(ctx, "slack", []model.ArtifactReference{ref("F1", "url")})
	if len(got) != 0 {
		t.Fatalf("expected no artifacts, got %d", len(got))
	}
	if rec, _ := store.GetBySourceIdentifier(ctx, SourceIdentifier("slack", "tenant-1", "F1")); rec != nil {
		t.Fatalf("failed fetch must not record metadata: %+v", rec)
	}
}

func TestPipelineSkipsUnsupportedContentType(t *testing.T) {
	closed := false
	provider := &fakeProvider{types: []string{"url"}, content: "\x00\x01", mime: "application/octet-stream", closed: &closed}
	p := NewPipeline(metadata.NewMemoryStore(), []Provider{provider}, []Extractor{NewPlainTextExtractor()}, log.Nop())

	got := p.Process(context.Background(), "slack", []model.ArtifactReference{ref("F1", "url")})
	if len(got) != 0 {
		t.Fatalf("expected no artifacts, got %d", len(got))
	}
	if !closed {
		t.Fatal("content stream leaked on extractor-miss path")
	}
}

func TestPipelineSkipsOnExtractFailure(t *testing.T) {
	ctx := context.Background()
	store := metadata.NewMemoryStore()
	closed := false
	provider := &fakeProvider{types: []string{"url"}, content: "x", mime: "text/plain", closed: &closed}
	p := NewPipeline(store, []Provider{provider}, []Extractor{failingExtractor{}}, log.Nop())

	got := p.Process(ctx, "slack", []model.ArtifactReference{ref("F1", "url")})
	if len(got) != 0 {
		t.Fatalf("expected no artifacts, got %d", len(got))
	}
	if !closed {
		t.Fatal("content stream leaked on extract-failure path")
	}
	if rec, _ := store.GetBySourceIdentifier(ctx, SourceIdentifier("slack", "tenant-1", "F1")); rec != nil {
		t.Fatalf("failed extraction must not record metadata: %+v", rec)
	}
}

func TestPipelinePreservesReferenceOrder(t *testing.T) {
	provider := &fakeProvider{types: []string{"url"}, content: "text", mime: "text/plain"}
	p := NewPipeline(metadata.NewMemoryStore(), []Provider{provider}, []Extractor{NewPlainTextExtractor()}, log.Nop())

	got := p.Process(context.Background(), "slack", []model.ArtifactReference{
		ref("F1", "url"),
		ref("F2", "gridfs"), // no provider, skipped
		ref("F3", "url"),
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(got))
	}
	if got[0].Reference.ReferenceID != "F1" || got[1].Reference.ReferenceID != "F3" {
		t.Fatalf("order not preserved: %s, %s", got[0].Reference.ReferenceID, got[1].Reference.ReferenceID)
	}
}

func TestProviderTypeMatchingIsCaseInsensitive(t *testing.T) {
	provider := &fakeProvider{types: []string{"URL"}}
	if selectProvider([]Provider{provider}, "url") == nil {
		t.Fatal("expected case-insensitive match")
	}
	if selectProvider([]Provider{provider}, "gridfs") != nil {
		t.Fatal("expected no match for unknown type")
	}
}
