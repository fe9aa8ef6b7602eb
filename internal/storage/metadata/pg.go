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
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore is the Postgres Store implementation, used when multiple
// gateway instances must share dedup state.
type PgStore struct {
	pool *pgxpool.Pool
}

const createArtifactMetadataTable = `
CREATE TABLE IF NOT EXISTS artifact_metadata (
	source_identifier TEXT PRIMARY KEY,
	tenant_id         TEXT NOT NULL DEFAULT '',
	mime_type         TEXT NOT NULL DEFAULT '',
	file_name         TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	modified_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// NewPgStore connects to Postgres and ensures the schema exists.
// poolSize <= 0 keeps the driver default.
func NewPgStore(ctx context.Context, dsn string, poolSize int) (*PgStore, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if poolSize > 0 {
		pcfg.MaxConns = int32(poolSize)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, createArtifactMetadataTable); err != nil {
		pool.Close()
		return nil, err
	}
	return &PgStore{pool: pool}, nil
}

// GetBySourceIdentifier implements Store; absence is (nil, nil).
func (s *PgStore) GetBySourceIdentifier(ctx context.Context, id string) (*ArtifactMetadata, error) {
	var m ArtifactMetadata
	err := s.pool.QueryRow(ctx,
		`SELECT source_identifier, tenant_id, mime_type, file_name, created_at, modified_at
		   FROM artifact_metadata WHERE source_identifier = $1`,
		id,
	).Scan(&m.SourceIdentifier, &m.TenantID, &m.MimeType, &m.FileName, &m.CreatedAt, &m.ModifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// Save implements Store; a second save for the same identifier only
// refreshes modified_at.
func (s *PgStore) Save(ctx context.Context, m *ArtifactMetadata) (*ArtifactMetadata, error) {
	if m == nil || m.SourceIdentifier == "" {
		return nil, errors.New("metadata requires a source identifier")
	}
	now := time.Now().UTC()
	var out ArtifactMetadata
	err := s.pool.QueryRow(ctx,
		`INSERT INTO artifact_metadata (source_identifier, tenant_id, mime_type, file_name, created_at, modified_at)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 ON CONFLICT (source_identifier)
		 DO UPDATE SET tenant_id = $2, mime_type = $3, file_name = $4, modified_at = $5
		 RETURNING source_identifier, tenant_id, mime_type, file_name, created_at, modified_at`,
		m.SourceIdentifier, m.TenantID, m.MimeType, m.FileName, now,
	).Scan(&out.SourceIdentifier, &out.TenantID, &out.MimeType, &out.FileName, &out.CreatedAt, &out.ModifiedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Count implements Store.
func (s *PgStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM artifact_metadata`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Close implements Store.
func (s *PgStore) Close() error {
	s.pool.Close()
	return nil
}
