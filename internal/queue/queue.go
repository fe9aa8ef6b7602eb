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

// Package queue provides the durable background work queue: the
// at-least-once message lifecycle contract and its two backends, an
// in-process bounded channel and a Redis Streams consumer group.
package queue

import (
	"context"
	"fmt"

	"nucleus-gateway/internal/model"
	"nucleus-gateway/pkg/config"
	"nucleus-gateway/pkg/log"
)

// Handle is the opaque lifecycle handle returned by Dequeue. Every
// dequeued item must end in exactly one Complete or exactly one
// Abandon on its handle.
type Handle interface {
	// ID identifies the broker message, for diagnostics only.
	ID() string
}

// Queue is the background work queue contract. Implementations are safe
// for concurrent producers and consumers.
type Queue interface {
	// Enqueue submits a work item. It may block under backpressure and
	// honors ctx cancellation.
	Enqueue(ctx context.Context, item *model.IngestionRequest) error

	// Dequeue blocks until an item is available or ctx is cancelled. A
	// cancelled dequeue returns ctx.Err() with nothing dequeued.
	Dequeue(ctx context.Context) (*model.IngestionRequest, Handle, error)

	// Complete acknowledges successful processing; the item is never
	// redelivered.
	Complete(ctx context.Context, h Handle) error

	// Abandon signals failed processing so the broker can retry or
	// dead-letter the item.
	Abandon(ctx context.Context, h Handle, reason error) error

	// Close releases the backend. Blocked Enqueue/Dequeue calls return
	// ErrQueueClosed.
	Close() error
}

// New creates the configured queue backend.
func New(cfg config.QueueConfig, logger *log.Logger) (Queue, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemoryQueue(cfg.Capacity, logger), nil
	case "redis":
		return NewRedisQueue(cfg.Redis, logger)
	default:
		return nil, fmt.Errorf("unsupported queue type: %s", cfg.Type)
	}
}
