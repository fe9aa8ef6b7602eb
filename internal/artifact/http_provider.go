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
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"nucleus-gateway/internal/model"
	"nucleus-gateway/pkg/metrics"
)

const defaultMaxArtifactBytes = 32 << 20

// HTTPProvider fetches artifacts whose reference type is a downloadable
// URL. Responses larger than MaxSizeBytes are rejected before extraction
// ever sees them.
type HTTPProvider struct {
	client  *resty.Client
	maxSize int64
}

// NewHTTPProvider builds an HTTP artifact provider. maxSize <= 0 falls
// back to 32MB.
func NewHTTPProvider(timeout time.Duration, maxSize int64) *HTTPProvider {
	if maxSize <= 0 {
		maxSize = defaultMaxArtifactBytes
	}
	client := resty.New().
		SetTimeout(timeout).
		SetDoNotParseResponse(true)
	return &HTTPProvider{client: client, maxSize: maxSize}
}

func (p *HTTPProvider) Name() string { return "http" }

func (p *HTTPProvider) SupportedReferenceTypes() []string {
	return []string{"url", "http", "https"}
}

// Fetch downloads the referenced URI. The whole body is buffered so the
// size cap can be enforced before handing content downstream.
func (p *HTTPProvider) Fetch(ctx context.Context, ref model.ArtifactReference) (*model.ArtifactContent, error) {
	uri := strings.TrimSpace(ref.SourceURI)
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		return nil, fmt.Errorf("http provider: reference %s has non-http uri %q", ref.ReferenceID, uri)
	}

	start := time.Now()
	resp, err := p.client.R().SetContext(ctx).Get(uri)
	if err != nil {
		return nil, fmt.Errorf("http provider: GET %s: %w", uri, err)
	}
	raw := resp.RawBody()
	defer raw.Close()
	metrics.ArtifactFetchDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("http provider: GET %s returned %d", uri, resp.StatusCode())
	}

	data, err := io.ReadAll(io.LimitReader(raw, p.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("http provider: read %s: %w", uri, err)
	}
	if int64(len(data)) > p.maxSize {
		return nil, fmt.Errorf("http provider: %s exceeds size cap of %d bytes", uri, p.maxSize)
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = ref.MimeTypeHint
	}
	return &model.ArtifactContent{
		Reference:   ref,
		Data:        io.NopCloser(bytes.NewReader(data)),
		ContentType: contentType,
		Metadata: map[string]string{
			"source_uri": uri,
		},
	}, nil
}
