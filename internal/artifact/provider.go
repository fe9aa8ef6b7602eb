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

package artifact

import (
	"context"
	"strings"

	"nucleus-gateway/internal/model"
)

// Provider resolves an artifact reference into its raw content.
// The caller owns the returned content and must Close it.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// SupportedReferenceTypes lists the reference types this provider
	// can resolve. Matching is case-insensitive.
	SupportedReferenceTypes() []string
	// Fetch retrieves the content for a reference.
	Fetch(ctx context.Context, ref model.ArtifactReference) (*model.ArtifactContent, error)
}

// selectProvider returns the first provider supporting the reference
// type, or nil when none does.
func selectProvider(providers []Provider, refType string) Provider {
	for _, p := range providers {
		for _, t := range p.SupportedReferenceTypes() {
			if strings.EqualFold(t, refType) {
				return p
			}
		}
	}
	return nil
}
