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

// Package activation decides whether any configured persona should
// react to an inbound request.
package activation

import (
	"strings"

	"nucleus-gateway/internal/model"
	"nucleus-gateway/internal/persona"
)

// Result is the activation decision. When ShouldActivate is false the
// caller ignores the request silently; it is not an error.
type Result struct {
	ShouldActivate bool
	PersonaID      string
	Config         *persona.Configuration
}

// Checker evaluates activation rules. It is a pure function of its
// inputs; richer rule sets (mention detection, per-tenant triggers)
// slot in behind the same contract.
type Checker struct{}

// NewChecker creates a Checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Check returns the first enabled, tenant-scoped persona whose trigger
// token appears in the query text (case-insensitive). Configs are
// evaluated in order, so provider ordering decides ties.
func (c *Checker) Check(req model.AdapterRequest, configs []*persona.Configuration) Result {
	query := strings.ToLower(req.QueryText)
	tenant := req.Metadata["tenant_id"]
	for _, cfg := range configs {
		if cfg == nil || !cfg.Enabled || cfg.Trigger == "" {
			continue
		}
		if !cfg.AppliesToTenant(tenant) {
			continue
		}
		if strings.Contains(query, strings.ToLower(cfg.Trigger)) {
			return Result{ShouldActivate: true, PersonaID: cfg.ID, Config: cfg}
		}
	}
	return Result{}
}
