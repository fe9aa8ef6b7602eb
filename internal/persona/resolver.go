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
	"nucleus-gateway/internal/model"
)

// DefaultPersonaID is returned when no platform-specific rule applies.
const DefaultPersonaID = "default"

// Resolver maps platform-specific sender context to a canonical persona
// id. Rules are keyed by platform type; a missing rule falls back to
// the fixed default id.
type Resolver struct {
	fallback string
	rules    map[string]func(model.AdapterRequest) string
}

// NewResolver creates a Resolver with the given fallback persona id;
// empty falls back to DefaultPersonaID.
func NewResolver(fallback string) *Resolver {
	if fallback == "" {
		fallback = DefaultPersonaID
	}
	return &Resolver{
		fallback: fallback,
		rules:    make(map[string]func(model.AdapterRequest) string),
	}
}

// AddRule registers a platform-specific resolution rule. A rule
// returning "" defers to the fallback.
func (r *Resolver) AddRule(platformType string, rule func(model.AdapterRequest) string) {
	r.rules[platformType] = rule
}

// Resolve returns the canonical persona id for a request.
func (r *Resolver) Resolve(platformType string, req model.AdapterRequest) string {
	if rule, ok := r.rules[platformType]; ok {
		if id := rule(req); id != "" {
			return id
		}
	}
	return r.fallback
}
