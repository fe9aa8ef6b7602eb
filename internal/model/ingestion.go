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

import (
	"time"

	"github.com/google/uuid"
)

// IngestionRequest is the queued work item: the adapter request plus the
// resolved persona, a correlation id, and the enqueue timestamp. It is
// the only type that crosses the queue boundary and serializes to flat
// JSON.
type IngestionRequest struct {
	AdapterRequest
	PersonaID     string    `json:"persona_id"`
	CorrelationID string    `json:"correlation_id"`
	EnqueuedAt    time.Time `json:"enqueued_at"`
}

// NewIngestionRequest builds the work item for an activated request. The
// correlation id is carried through logs and traces end-to-end.
func NewIngestionRequest(req AdapterRequest, personaID string) *IngestionRequest {
	return &IngestionRequest{
		AdapterRequest: req,
		PersonaID:      personaID,
		CorrelationID:  uuid.New().String(),
		EnqueuedAt:     time.Now().UTC(),
	}
}
