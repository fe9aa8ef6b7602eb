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

package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"nucleus-gateway/internal/model"
	"nucleus-gateway/pkg/errors"
	"nucleus-gateway/pkg/log"
	"nucleus-gateway/pkg/metrics"
)

// MemoryQueue is the single-instance backend: a bounded FIFO channel.
// A full queue blocks producers (backpressure) instead of dropping.
// Abandon has no native redelivery; the item is logged and dropped,
// which is the documented limitation of this backend. FIFO holds only
// under a single consumer.
type MemoryQueue struct {
	ch        chan *model.IngestionRequest
	logger    *log.Logger
	closeOnce sync.Once
	closed    chan struct{}
}

// NewMemoryQueue creates a bounded in-process queue; capacity <= 0
// defaults to 256.
func NewMemoryQueue(capacity int, logger *log.Logger) *MemoryQueue {
	if capacity <= 0 {
		capacity = 256
	}
	return &MemoryQueue{
		ch:     make(chan *model.IngestionRequest, capacity),
		logger: logger,
		closed: make(chan struct{}),
	}
}

type memoryHandle struct {
	id      string
	settled atomic.Bool
}

func (h *memoryHandle) ID() string { return h.id }

// Enqueue implements Queue. Blocks while the buffer is full.
func (q *MemoryQueue) Enqueue(ctx context.Context, item *model.IngestionRequest) error {
	select {
	case <-q.closed:
		return errors.ErrQueueClosed
	default:
	}
	select {
	case q.ch <- item:
		metrics.QueueEnqueueTotal.WithLabelValues("memory").Inc()
		metrics.QueueDepth.Set(float64(len(q.ch)))
		return nil
	case <-q.closed:
		return errors.ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue implements Queue.
func (q *MemoryQueue) Dequeue(ctx context.Context) (*model.IngestionRequest, Handle, error) {
	select {
	case item := <-q.ch:
		metrics.QueueDequeueTotal.WithLabelValues("memory").Inc()
		metrics.QueueDepth.Set(float64(len(q.ch)))
		h := &memoryHandle{id: item.CorrelationID}
		return item, h, nil
	case <-q.closed:
		// Drain anything still buffered before reporting closed.
		select {
		case item := <-q.ch:
			metrics.QueueDequeueTotal.WithLabelValues("memory").Inc()
			return item, &memoryHandle{id: item.CorrelationID}, nil
		default:
			return nil, nil, errors.ErrQueueClosed
		}
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
}

// Complete implements Queue. The channel already removed the item; this
// only enforces lifecycle exclusivity.
func (q *MemoryQueue) Complete(ctx context.Context, h Handle) error {
	mh, ok := h.(*memoryHandle)
	if !ok {
		return errors.New("handle does not belong to the memory queue")
	}
	if !mh.settled.CompareAndSwap(false, true) {
		return errors.ErrHandleCompleted
	}
	metrics.QueueCompleteTotal.WithLabelValues("memory").Inc()
	return nil
}

// Abandon implements Queue. The memory backend cannot redeliver; the
// failure is logged and the item dropped.
func (q *MemoryQueue) Abandon(ctx context.Context, h Handle, reason error) error {
	mh, ok := h.(*memoryHandle)
	if !ok {
		return errors.New("handle does not belong to the memory queue")
	}
	if !mh.settled.CompareAndSwap(false, true) {
		return errors.ErrHandleCompleted
	}
	metrics.QueueAbandonTotal.WithLabelValues("memory").Inc()
	q.logger.Error("abandoning work item without redelivery",
		"correlation_id", mh.id, "reason", reason)
	return nil
}

// Close implements Queue.
func (q *MemoryQueue) Close() error {
	q.closeOnce.Do(func() { close(q.closed) })
	return nil
}

// Len returns the current buffered depth; for tests and metrics.
func (q *MemoryQueue) Len() int {
	return len(q.ch)
}
