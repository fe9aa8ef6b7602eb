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

package persona

import (
	"context"
	"sync"

	"nucleus-gateway/pkg/config"
)

// MemoryProvider is an in-memory ConfigProvider seeded from the config
// file's personas section.
type MemoryProvider struct {
	mu       sync.RWMutex
	personas map[string]*Configuration
	order    []string
}

// NewMemoryProvider creates an empty provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{personas: make(map[string]*Configuration)}
}

// NewMemoryProviderFromConfig seeds a provider from configured personas.
func NewMemoryProviderFromConfig(entries []config.PersonaConfig) *MemoryProvider {
	p := NewMemoryProvider()
	for _, e := range entries {
		p.Put(&Configuration{
			ID:             e.ID,
			Enabled:        e.Enabled,
			Trigger:        e.Trigger,
			Tenants:        e.Tenants,
			StrategyKey:    e.StrategyKey,
			StrategyParams: e.StrategyParams,
		})
	}
	return p
}

// Put adds or replaces a configuration.
func (p *MemoryProvider) Put(cfg *Configuration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.personas[cfg.ID]; !exists {
		p.order = append(p.order, cfg.ID)
	}
	p.personas[cfg.ID] = cfg
}

// Get implements ConfigProvider; absent ids return (nil, nil).
func (p *MemoryProvider) Get(ctx context.Context, id string) (*Configuration, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.personas[id], nil
}

// GetAll implements ConfigProvider; insertion order is preserved so
// activation checks are deterministic.
func (p *MemoryProvider) GetAll(ctx context.Context) ([]*Configuration, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*Configuration, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.personas[id])
	}
	return out, nil
}
