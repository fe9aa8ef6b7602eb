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
	"mime"
	"strings"

	"nucleus-gateway/internal/model"
)

// Extractor converts fetched artifact content into plain text.
type Extractor interface {
	// Name identifies the extractor in logs and metrics.
	Name() string
	// SupportedMimeTypes lists the content types this extractor handles,
	// compared against the media type without parameters.
	SupportedMimeTypes() []string
	// Extract reads the content stream and returns the extracted text.
	Extract(ctx context.Context, content *model.ArtifactContent) (string, error)
}

// normalizeMime strips parameters like "; charset=utf-8" and lowercases
// the media type.
func normalizeMime(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

// selectExtractor returns the first extractor supporting the content
// type, or nil when none does.
func selectExtractor(extractors []Extractor, contentType string) Extractor {
	mt := normalizeMime(contentType)
	for _, e := range extractors {
		for _, t := range e.SupportedMimeTypes() {
			if strings.EqualFold(t, mt) {
				return e
			}
		}
	}
	return nil
}
