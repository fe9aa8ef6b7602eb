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

package strategy

import (
	"sort"
	"sync"
)

// Registry maps strategy keys to handlers. Registration happens at
// startup; lookups are concurrent-safe.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler to a key, replacing any previous binding.
func (r *Registry) Register(key string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[key] = h
}

// Get returns the handler for key, or nil.
func (r *Registry) Get(key string) Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers[key]
}

// Keys returns the registered strategy keys, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewDefaultRegistry returns a registry with the built-in strategies.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("echo", NewEchoStrategy())
	r.Register("canned", NewCannedStrategy())
	return r
}
