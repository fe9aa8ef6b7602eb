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

// Package app holds the shared initialization used by the api and
// worker processes so cmd stays free of wiring.
package app

import (
	"context"
	"fmt"

	"nucleus-gateway/internal/persona"
	"nucleus-gateway/internal/queue"
	"nucleus-gateway/internal/storage/metadata"
	"nucleus-gateway/pkg/config"
	"nucleus-gateway/pkg/log"
	"nucleus-gateway/pkg/secrets"
)

// Bootstrap is the shared dependency set for both processes.
type Bootstrap struct {
	Config        *config.Config
	Logger        *log.Logger
	Secrets       secrets.Store
	MetadataStore metadata.Store
	Queue         queue.Queue
	Personas      *persona.MemoryProvider
}

// NewBootstrap builds the shared dependencies: logger, secret store,
// secret resolution over the config, metadata store, queue, and the
// persona provider.
func NewBootstrap(ctx context.Context, cfg *config.Config) (*Bootstrap, error) {
	logger, err := log.NewLogger(&log.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	secretStore, err := secrets.NewStore(secrets.Config{
		Provider: cfg.Secrets.Provider,
		Config:   cfg.Secrets.Config,
	})
	if err != nil {
		return nil, fmt.Errorf("init secret store: %w", err)
	}
	if err := resolveSecrets(ctx, secretStore, cfg); err != nil {
		return nil, err
	}

	metaStore, err := metadata.NewStore(ctx, cfg.Storage.Metadata)
	if err != nil {
		return nil, fmt.Errorf("init metadata store: %w", err)
	}

	q, err := queue.New(cfg.Queue, logger)
	if err != nil {
		_ = metaStore.Close()
		return nil, fmt.Errorf("init queue: %w", err)
	}

	return &Bootstrap{
		Config:        cfg,
		Logger:        logger,
		Secrets:       secretStore,
		MetadataStore: metaStore,
		Queue:         q,
		Personas:      persona.NewMemoryProviderFromConfig(cfg.Personas),
	}, nil
}

// resolveSecrets replaces secret:// indirections in config values that
// carry credentials.
func resolveSecrets(ctx context.Context, store secrets.Store, cfg *config.Config) error {
	var err error
	if cfg.API.Middleware.JWTKey, err = secrets.Resolve(ctx, store, cfg.API.Middleware.JWTKey); err != nil {
		return fmt.Errorf("resolve jwt key: %w", err)
	}
	if cfg.Queue.Redis.Password, err = secrets.Resolve(ctx, store, cfg.Queue.Redis.Password); err != nil {
		return fmt.Errorf("resolve redis password: %w", err)
	}
	if cfg.Storage.Metadata.DSN, err = secrets.Resolve(ctx, store, cfg.Storage.Metadata.DSN); err != nil {
		return fmt.Errorf("resolve metadata dsn: %w", err)
	}
	for platform, nc := range cfg.Notify.Platforms {
		if nc.Token, err = secrets.Resolve(ctx, store, nc.Token); err != nil {
			return fmt.Errorf("resolve notifier token for %s: %w", platform, err)
		}
		cfg.Notify.Platforms[platform] = nc
	}
	return nil
}

// Close releases bootstrap-owned resources.
func (b *Bootstrap) Close() error {
	var first error
	if err := b.Queue.Close(); err != nil {
		first = err
	}
	if err := b.MetadataStore.Close(); err != nil && first == nil {
		first = err
	}
	return first
}
