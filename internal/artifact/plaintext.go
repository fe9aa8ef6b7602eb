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
	"fmt"
	"io"
	"strings"

	"nucleus-gateway/internal/model"
)

// PlainTextExtractor passes textual content through unchanged.
type PlainTextExtractor struct{}

func NewPlainTextExtractor() *PlainTextExtractor { return &PlainTextExtractor{} }

func (e *PlainTextExtractor) Name() string { return "plaintext" }

func (e *PlainTextExtractor) SupportedMimeTypes() []string {
	return []string{"text/plain", "text/markdown", "text/csv", "application/json"}
}

func (e *PlainTextExtractor) Extract(ctx context.Context, content *model.ArtifactContent) (string, error) {
	data, err := io.ReadAll(content.Data)
	if err != nil {
		return "", fmt.Errorf("plaintext extract %s: %w", content.Reference.ReferenceID, err)
	}
	return strings.TrimSpace(string(data)), nil
}
