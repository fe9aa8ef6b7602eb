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

// Package persona holds persona configuration, the configuration
// provider contract, and the resolver that maps platform requests to a
// canonical persona id.
package persona

import (
	"slices"
)

// Configuration is one persona: identity, scoping, activation trigger,
// and the strategy selector. Loaded from an external store and treated
// as read-only per request.
type Configuration struct {
	ID             string
	Enabled        bool
	Trigger        string
	Tenants        []string // empty = all tenants
	StrategyKey    string
	StrategyParams map[string]interface{}
}

// AppliesToTenant reports whether this persona is in scope for the
// given tenant. An empty scoping list matches every tenant.
func (c *Configuration) AppliesToTenant(tenantID string) bool {
	if len(c.Tenants) == 0 {
		return true
	}
	return slices.Contains(c.Tenants, tenantID)
}
