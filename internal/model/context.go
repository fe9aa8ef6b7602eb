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

// InteractionContext aggregates everything a strategy handler may read:
// the original request, the resolved persona, and the artifacts that
// were successfully extracted. Built once per work item and passed by
// reference; handlers must treat it as read-only.
type InteractionContext struct {
	Request       AdapterRequest
	PersonaID     string
	CorrelationID string
	Artifacts     []ExtractedArtifact
}

// ArtifactText returns the extracted text of all successful artifacts in
// reference order.
func (c *InteractionContext) ArtifactText() []string {
	texts := make([]string, 0, len(c.Artifacts))
	for _, a := range c.Artifacts {
		if a.Status == ExtractionSuccess {
			texts = append(texts, a.Text)
		}
	}
	return texts
}
