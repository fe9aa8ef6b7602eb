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

package metadata

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is the in-memory Store implementation.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*ArtifactMetadata
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*ArtifactMetadata)}
}

// GetBySourceIdentifier implements Store; absence is (nil, nil).
func (s *MemoryStore) GetBySourceIdentifier(ctx context.Context, id string) (*ArtifactMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, m *ArtifactMetadata) (*ArtifactMetadata, error) {
	if m == nil || m.SourceIdentifier == "" {
		return nil, fmt.Errorf("metadata requires a source identifier")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	cp := *m
	cp.ModifiedAt = now
	if existing, ok := s.records[m.SourceIdentifier]; ok {
		cp.CreatedAt = existing.CreatedAt
	} else {
		cp.CreatedAt = now
	}
	s.records[m.SourceIdentifier] = &cp
	out := cp
	return &out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
