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

// Package metadata persists per-artifact records keyed by source
// identifier. The existence of a record is the dedup signal that lets
// the pipeline skip re-fetching an artifact it has already extracted.
package metadata

import (
	"context"
	"time"
)

// Store is the artifact metadata store contract.
type Store interface {
	// GetBySourceIdentifier returns the record for id, or nil when none
	// exists.
	GetBySourceIdentifier(ctx context.Context, id string) (*ArtifactMetadata, error)
	// Save persists a new record and returns it with timestamps set.
	Save(ctx context.Context, m *ArtifactMetadata) (*ArtifactMetadata, error)
	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)
	// Close releases the backing connection.
	Close() error
}

// ArtifactMetadata is one persisted artifact record.
type ArtifactMetadata struct {
	SourceIdentifier string    `json:"source_identifier"`
	TenantID         string    `json:"tenant_id"`
	MimeType         string    `json:"mime_type"`
	FileName         string    `json:"file_name"`
	CreatedAt        time.Time `json:"created_at"`
	ModifiedAt       time.Time `json:"modified_at"`
}
