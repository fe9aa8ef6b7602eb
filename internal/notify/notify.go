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

// Package notify delivers strategy responses back to the originating
// platform. Delivery failure is the caller's to log, never to retry the
// whole interaction over.
package notify

import (
	"context"
	"fmt"

	"nucleus-gateway/pkg/config"
	"nucleus-gateway/pkg/log"
)

// Notifier sends one response message to a conversation on a specific
// platform. replyToID may be empty.
type Notifier interface {
	Send(ctx context.Context, conversationID, text, replyToID string) (sentID string, err error)
}

// Registry maps platform types to notifiers. Lookups for unknown
// platforms return nil.
type Registry struct {
	notifiers map[string]Notifier
}

// NewRegistry builds platform notifiers from configuration. Unknown
// notifier types are an error so a typo fails at startup, not at first
// delivery.
func NewRegistry(cfg config.NotifyConfig, logger *log.Logger) (*Registry, error) {
	r := &Registry{notifiers: make(map[string]Notifier)}
	for platform, nc := range cfg.Platforms {
		switch nc.Type {
		case "", "console":
			r.notifiers[platform] = NewConsoleNotifier(platform, logger)
		case "webhook":
			n, err := NewWebhookNotifier(platform, nc)
			if err != nil {
				return nil, fmt.Errorf("notifier for platform %s: %w", platform, err)
			}
			r.notifiers[platform] = n
		default:
			return nil, fmt.Errorf("notifier for platform %s: unsupported type %q", platform, nc.Type)
		}
	}
	return r, nil
}

// NewRegistryWith wraps pre-built notifiers, bypassing configuration.
func NewRegistryWith(notifiers map[string]Notifier) *Registry {
	if notifiers == nil {
		notifiers = make(map[string]Notifier)
	}
	return &Registry{notifiers: notifiers}
}

// For returns the notifier for a platform, or nil when none is
// configured.
func (r *Registry) For(platformType string) Notifier {
	return r.notifiers[platformType]
}
