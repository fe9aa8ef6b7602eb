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

package model

import "io"

// ArtifactContent is the fetched stream for one reference. It is owned
// by the fetch step; the pipeline closes it on every exit path after
// extraction.
type ArtifactContent struct {
	Reference   ArtifactReference
	Data        io.ReadCloser
	ContentType string
	Encoding    string
	Metadata    map[string]string
}

// Close releases the underlying stream. Safe on a nil receiver or a nil
// stream.
func (c *ArtifactContent) Close() error {
	if c == nil || c.Data == nil {
		return nil
	}
	return c.Data.Close()
}

// ExtractionStatus is the outcome of a single extraction attempt.
type ExtractionStatus string

const (
	ExtractionSuccess         ExtractionStatus = "success"
	ExtractionFailure         ExtractionStatus = "failure"
	ExtractionUnsupportedType ExtractionStatus = "unsupported_type"
)

// ExtractedArtifact is the extraction outcome for one artifact.
// Immutable once produced.
type ExtractedArtifact struct {
	Reference   ArtifactReference
	ContentType string
	Status      ExtractionStatus
	Text        string
	Metadata    map[string]string
}
