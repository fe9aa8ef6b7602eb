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
	"strings"

	"golang.org/x/net/html"

	"nucleus-gateway/internal/model"
)

// HTMLExtractor extracts visible text from HTML documents. Script and
// style contents are dropped.
type HTMLExtractor struct{}

func NewHTMLExtractor() *HTMLExtractor { return &HTMLExtractor{} }

func (e *HTMLExtractor) Name() string { return "html" }

func (e *HTMLExtractor) SupportedMimeTypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

func (e *HTMLExtractor) Extract(ctx context.Context, content *model.ArtifactContent) (string, error) {
	doc, err := html.Parse(content.Data)
	if err != nil {
		return "", fmt.Errorf("html extract %s: %w", content.Reference.ReferenceID, err)
	}
	var buf strings.Builder
	collectText(doc, &buf)
	return strings.TrimSpace(buf.String()), nil
}

func collectText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if text != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(text)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, buf)
	}
}
