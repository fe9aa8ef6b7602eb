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
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	pdfmodel "github.com/unidoc/unipdf/v3/model"

	"nucleus-gateway/internal/model"
)

// PDFExtractor extracts body text from PDF documents, pages joined in
// order.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor { return &PDFExtractor{} }

func (e *PDFExtractor) Name() string { return "pdf" }

func (e *PDFExtractor) SupportedMimeTypes() []string {
	return []string{"application/pdf", "application/x-pdf"}
}

func (e *PDFExtractor) Extract(ctx context.Context, content *model.ArtifactContent) (string, error) {
	data, err := io.ReadAll(content.Data)
	if err != nil {
		return "", fmt.Errorf("pdf extract %s: read: %w", content.Reference.ReferenceID, err)
	}
	if len(data) == 0 {
		return "", nil
	}

	reader, err := pdfmodel.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("pdf extract %s: open: %w", content.Reference.ReferenceID, err)
	}
	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("pdf extract %s: page count: %w", content.Reference.ReferenceID, err)
	}

	var buf strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			return "", fmt.Errorf("pdf extract %s: page %d: %w", content.Reference.ReferenceID, i, err)
		}
		ex, err := extractor.New(page)
		if err != nil {
			return "", fmt.Errorf("pdf extract %s: page %d extractor: %w", content.Reference.ReferenceID, i, err)
		}
		text, err := ex.ExtractText()
		if err != nil {
			return "", fmt.Errorf("pdf extract %s: page %d text: %w", content.Reference.ReferenceID, i, err)
		}
		if text != "" {
			buf.WriteString(text)
			if i < numPages {
				buf.WriteString("\n\n")
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}
