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

package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// K8sConfig Kubernetes secret mount settings.
type K8sConfig struct {
	// SecretsPath is the directory secrets are mounted under
	// (default /etc/secrets).
	SecretsPath string `yaml:"secrets_path"`

	// Namespace the pod runs in (default "default").
	Namespace string `yaml:"namespace"`
}

type k8sStore struct {
	secretsPath string
	namespace   string
	mu          sync.RWMutex
	cache       map[string]string
}

// NewK8sStore creates a secret store reading Kubernetes secret mounts.
// Secrets are files under the mount directory; writes only touch the
// in-pod cache since mounts are read-only.
func NewK8sStore(config K8sConfig) (Store, error) {
	secretsPath := "/etc/secrets"
	if config.SecretsPath != "" {
		secretsPath = config.SecretsPath
	}
	if _, err := os.Stat(secretsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("kubernetes secrets path not found: %s (not running in Kubernetes?)", secretsPath)
	}

	namespace := "default"
	if config.Namespace != "" {
		namespace = config.Namespace
	}

	return &k8sStore{
		secretsPath: secretsPath,
		namespace:   namespace,
		cache:       make(map[string]string),
	}, nil
}

func (k *k8sStore) Get(ctx context.Context, key string) (string, error) {
	k.mu.RLock()
	if val, ok := k.cache[key]; ok {
		k.mu.RUnlock()
		return val, nil
	}
	k.mu.RUnlock()

	for _, path := range []string{
		filepath.Join(k.secretsPath, key),
		fmt.Sprintf("/run/secrets/kubernetes.io/%s/%s", k.namespace, key),
	} {
		if data, err := os.ReadFile(path); err == nil {
			value := strings.TrimSpace(string(data))
			k.mu.Lock()
			k.cache[key] = value
			k.mu.Unlock()
			return value, nil
		}
	}

	return "", fmt.Errorf("secret not found: %s", key)
}

func (k *k8sStore) Set(ctx context.Context, key string, value string) error {
	// Mounted secrets are read-only from inside the pod; keep the value
	// in the cache for in-process use only.
	k.mu.Lock()
	defer k.mu.Unlock()
	k.cache[key] = value
	return nil
}

func (k *k8sStore) Delete(ctx context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.cache, key)
	return nil
}

func (k *k8sStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	if entries, err := os.ReadDir(k.secretsPath); err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				key := e.Name()
				if prefix == "" || strings.HasPrefix(key, prefix) {
					keys = append(keys, key)
				}
			}
		}
	}
	return keys, nil
}
