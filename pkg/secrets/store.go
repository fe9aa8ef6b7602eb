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

// Package secrets provides the secret store used to resolve sensitive
// configuration values (queue passwords, store DSNs, JWT keys, webhook
// tokens) out of the config file.
package secrets

import (
	"context"
	"fmt"
	"strings"
)

// Store is the secret store contract.
type Store interface {
	// Get returns the secret value for key.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a secret value.
	Set(ctx context.Context, key string, value string) error

	// Delete removes a secret.
	Delete(ctx context.Context, key string) error

	// List returns all secret keys with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Config secret store configuration.
type Config struct {
	Provider string            `yaml:"provider"` // memory | env | vault | k8s
	Config   map[string]string `yaml:"config"`   // provider-specific settings
}

// NewStore creates a Store for the configured provider. An empty provider
// falls back to the environment store.
func NewStore(config Config) (Store, error) {
	switch config.Provider {
	case "memory":
		return NewMemoryStore(), nil
	case "", "env":
		return NewEnvStore(), nil
	case "vault":
		return NewVaultStore(VaultConfig{
			Address:    config.Config["address"],
			Token:      config.Config["token"],
			PathPrefix: config.Config["path_prefix"],
		})
	case "k8s":
		return NewK8sStore(K8sConfig{
			SecretsPath: config.Config["secrets_path"],
			Namespace:   config.Config["namespace"],
		})
	default:
		return nil, fmt.Errorf("unsupported secret provider: %s", config.Provider)
	}
}

// secretScheme marks a config value as an indirection into the store.
const secretScheme = "secret://"

// Resolve resolves value through the store when it carries the secret://
// prefix; plain values pass through unchanged.
func Resolve(ctx context.Context, store Store, value string) (string, error) {
	if !strings.HasPrefix(value, secretScheme) {
		return value, nil
	}
	key := strings.TrimPrefix(value, secretScheme)
	if key == "" {
		return "", fmt.Errorf("empty secret key in %q", value)
	}
	resolved, err := store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("resolve secret %q: %w", key, err)
	}
	return resolved, nil
}
