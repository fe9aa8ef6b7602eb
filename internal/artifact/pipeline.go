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
	"time"

	"nucleus-gateway/internal/model"
	"nucleus-gateway/internal/storage/metadata"
	"nucleus-gateway/pkg/config"
	"nucleus-gateway/pkg/log"
	"nucleus-gateway/pkg/metrics"
	"nucleus-gateway/pkg/tracing"
)

// Pipeline runs fetch and extraction for the artifact references of one
// interaction. Every per-reference failure is logged and skipped; the
// pipeline itself never fails the interaction.
type Pipeline struct {
	store      metadata.Store
	providers  []Provider
	extractors []Extractor
	logger     *log.Logger
}

// NewPipeline assembles the artifact pipeline. Provider and extractor
// order matters: the first match wins.
func NewPipeline(store metadata.Store, providers []Provider, extractors []Extractor, logger *log.Logger) *Pipeline {
	return &Pipeline{
		store:      store,
		providers:  providers,
		extractors: extractors,
		logger:     logger,
	}
}

// NewPipelineFromConfig builds the default provider and extractor set
// from configuration. The file provider is only registered when a root
// directory is configured.
func NewPipelineFromConfig(cfg config.ArtifactsConfig, store metadata.Store, logger *log.Logger) *Pipeline {
	timeout := config.ParseDuration(cfg.HTTPTimeout, 30*time.Second)
	providers := []Provider{NewHTTPProvider(timeout, cfg.MaxSizeBytes)}
	if cfg.FileRoot != "" {
		providers = append(providers, NewFileProvider(cfg.FileRoot, cfg.MaxSizeBytes))
	}
	extractors := []Extractor{
		NewPlainTextExtractor(),
		NewHTMLExtractor(),
		NewPDFExtractor(),
	}
	return NewPipeline(store, providers, extractors, logger)
}

// Process resolves each reference in order and returns the successfully
// extracted artifacts. References already recorded in the metadata
// store are skipped without re-fetching.
func (p *Pipeline) Process(ctx context.Context, platformType string, refs []model.ArtifactReference) []model.ExtractedArtifact {
	out := make([]model.ExtractedArtifact, 0, len(refs))
	for _, ref := range refs {
		if extracted := p.processOne(ctx, platformType, ref); extracted != nil {
			out = append(out, *extracted)
		}
	}
	return out
}

func (p *Pipeline) processOne(ctx context.Context, platformType string, ref model.ArtifactReference) *model.ExtractedArtifact {
	logger := p.logger.With("reference_id", ref.ReferenceID, "reference_type", ref.ReferenceType)
	ctx, span := tracing.StartArtifactSpan(ctx, ref.ReferenceID, ref.ReferenceType)
	defer span.End()

	sourceID := SourceIdentifier(platformType, ref.TenantID, ref.ReferenceID)
	existing, err := p.store.GetBySourceIdentifier(ctx, sourceID)
	if err != nil {
		// Dedup is an optimization; a broken lookup falls through to fetch.
		logger.Warn("metadata lookup failed, fetching anyway", "error", err)
	} else if existing != nil {
		logger.Info("artifact already recorded, skipping", "source_identifier", sourceID)
		metrics.ArtifactDedupHitTotal.Inc()
		return nil
	}

	provider := selectProvider(p.providers, ref.ReferenceType)
	if provider == nil {
		logger.Warn("no provider for reference type, skipping")
		metrics.ArtifactSkippedTotal.WithLabelValues("no_provider").Inc()
		return nil
	}

	content, err := provider.Fetch(ctx, ref)
	if err != nil {
		logger.Warn("artifact fetch failed, skipping", "provider", provider.Name(), "error", err)
		metrics.ArtifactSkippedTotal.WithLabelValues("fetch_failed").Inc()
		return nil
	}
	defer content.Close()

	ext := selectExtractor(p.extractors, content.ContentType)
	if ext == nil {
		logger.Warn("no extractor for content type, skipping", "content_type", content.ContentType)
		metrics.ArtifactSkippedTotal.WithLabelValues("no_extractor").Inc()
		return nil
	}

	start := time.Now()
	text, err := ext.Extract(ctx, content)
	metrics.ArtifactExtractDuration.WithLabelValues(ext.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Warn("artifact extraction failed, skipping", "extractor", ext.Name(), "error", err)
		metrics.ArtifactSkippedTotal.WithLabelValues("extract_failed").Inc()
		return nil
	}

	if _, err := p.store.Save(ctx, &metadata.ArtifactMetadata{
		SourceIdentifier: sourceID,
		TenantID:         ref.TenantID,
		MimeType:         normalizeMime(content.ContentType),
		FileName:         ref.FileName,
	}); err != nil {
		// The extracted text is still usable this run; only dedup for
		// future runs is lost.
		logger.Warn("metadata save failed", "error", err)
	}

	return &model.ExtractedArtifact{
		Reference:   ref,
		ContentType: content.ContentType,
		Status:      model.ExtractionSuccess,
		Text:        text,
		Metadata:    content.Metadata,
	}
}
