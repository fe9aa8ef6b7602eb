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
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nucleus-gateway/internal/model"
	"nucleus-gateway/pkg/metrics"
)

// FileProvider serves artifacts from a local directory, used for
// platforms that drop attachments onto shared storage. References must
// stay inside the configured root.
type FileProvider struct {
	root    string
	maxSize int64
}

// NewFileProvider builds a file provider rooted at dir.
func NewFileProvider(dir string, maxSize int64) *FileProvider {
	if maxSize <= 0 {
		maxSize = defaultMaxArtifactBytes
	}
	return &FileProvider{root: filepath.Clean(dir), maxSize: maxSize}
}

func (p *FileProvider) Name() string { return "file" }

func (p *FileProvider) SupportedReferenceTypes() []string {
	return []string{"file", "local"}
}

// Fetch opens the referenced file. Paths that escape the root are
// rejected.
func (p *FileProvider) Fetch(ctx context.Context, ref model.ArtifactReference) (*model.ArtifactContent, error) {
	rel := strings.TrimPrefix(strings.TrimSpace(ref.SourceURI), "file://")
	rel = filepath.Clean(strings.TrimPrefix(rel, "/"))
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return nil, fmt.Errorf("file provider: reference %s escapes root", ref.ReferenceID)
	}
	full := filepath.Join(p.root, rel)

	start := time.Now()
	info, err := os.Stat(full)
	if err != nil {
		return nil, fmt.Errorf("file provider: stat %s: %w", rel, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("file provider: %s is a directory", rel)
	}
	if info.Size() > p.maxSize {
		return nil, fmt.Errorf("file provider: %s exceeds size cap of %d bytes", rel, p.maxSize)
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("file provider: open %s: %w", rel, err)
	}
	metrics.ArtifactFetchDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())

	contentType := ref.MimeTypeHint
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(full))
	}
	return &model.ArtifactContent{
		Reference:   ref,
		Data:        f,
		ContentType: contentType,
		Metadata: map[string]string{
			"path": rel,
		},
	}, nil
}
