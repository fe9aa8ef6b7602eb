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
	"fmt"
	"testing"
	"time"

	"nucleus-gateway/internal/model"
	"nucleus-gateway/pkg/errors"
	"nucleus-gateway/pkg/log"
)

func newItem(id string) *model.IngestionRequest {
	return &model.IngestionRequest{
		AdapterRequest: model.AdapterRequest{PlatformType: "Test", ConversationID: "c1", QueryText: "hi"},
		PersonaID:      "p1",
		CorrelationID:  id,
		EnqueuedAt:     time.Now().UTC(),
	}
}

func TestMemoryQueue_FIFO(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue(4, log.Nop())
	defer q.Close()

	for i := 0; i < 3; i++ {
		if err := q.Enqueue(ctx, newItem(fmt.Sprintf("c-%d", i))); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		item, h, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("Dequeue: %v", err)
		}
		if want := fmt.Sprintf("c-%d", i); item.CorrelationID != want {
			t.Errorf("dequeued %s, want %s", item.CorrelationID, want)
		}
		if err := q.Complete(ctx, h); err != nil {
			t.Errorf("Complete: %v", err)
		}
	}
}

func TestMemoryQueue_BackpressureBlocks(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue(1, log.Nop())
	defer q.Close()

	if err := q.Enqueue(ctx, newItem("a")); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	blocked := make(chan error, 1)
	go func() {
		blocked <- q.Enqueue(ctx, newItem("b"))
	}()

	select {
	case err := <-blocked:
		t.Fatalf("Enqueue should block on a full queue, returned %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	// Draining one slot unblocks the producer; nothing was dropped.
	if _, _, err := q.Dequeue(ctx); err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	select {
	case err := <-blocked:
		if err != nil {
			t.Fatalf("blocked Enqueue: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Enqueue did not unblock after space freed")
	}

	item, _, err := q.Dequeue(ctx)
	if err != nil || item.CorrelationID != "b" {
		t.Fatalf("Dequeue after unblock = %v, %v", item, err)
	}
}

func TestMemoryQueue_EnqueueHonorsCancellation(t *testing.T) {
	q := NewMemoryQueue(1, log.Nop())
	defer q.Close()
	_ = q.Enqueue(context.Background(), newItem("a"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := q.Enqueue(ctx, newItem("b")); err != context.DeadlineExceeded {
		t.Errorf("Enqueue on full queue with expiring ctx = %v", err)
	}
}

func TestMemoryQueue_DequeueHonorsCancellation(t *testing.T) {
	q := NewMemoryQueue(1, log.Nop())
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()
	_, _, err := q.Dequeue(ctx)
	if err != context.Canceled {
		t.Errorf("cancelled Dequeue = %v, want context.Canceled", err)
	}
}

func TestMemoryQueue_LifecycleExclusivity(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue(1, log.Nop())
	defer q.Close()

	_ = q.Enqueue(ctx, newItem("a"))
	_, h, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if err := q.Complete(ctx, h); err != nil {
		t.Fatalf("first Complete: %v", err)
	}
	if err := q.Complete(ctx, h); !errors.Is(err, errors.ErrHandleCompleted) {
		t.Errorf("second Complete = %v, want ErrHandleCompleted", err)
	}
	if err := q.Abandon(ctx, h, errors.New("late")); !errors.Is(err, errors.ErrHandleCompleted) {
		t.Errorf("Abandon after Complete = %v, want ErrHandleCompleted", err)
	}
}

func TestMemoryQueue_AbandonDropsWithoutRedelivery(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue(1, log.Nop())
	defer q.Close()

	_ = q.Enqueue(ctx, newItem("a"))
	_, h, _ := q.Dequeue(ctx)
	if err := q.Abandon(ctx, h, errors.New("strategy failed")); err != nil {
		t.Fatalf("Abandon: %v", err)
	}
	if q.Len() != 0 {
		t.Error("memory queue must not redeliver abandoned items")
	}
}

func TestMemoryQueue_Close(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue(2, log.Nop())
	_ = q.Enqueue(ctx, newItem("a"))
	if err := q.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// A buffered item is still drained after close.
	if item, _, err := q.Dequeue(ctx); err != nil || item.CorrelationID != "a" {
		t.Fatalf("Dequeue after Close = %v, %v", item, err)
	}
	if _, _, err := q.Dequeue(ctx); !errors.Is(err, errors.ErrQueueClosed) {
		t.Errorf("Dequeue on drained closed queue = %v", err)
	}
	if err := q.Enqueue(ctx, newItem("b")); !errors.Is(err, errors.ErrQueueClosed) {
		t.Errorf("Enqueue on closed queue = %v", err)
	}
}

func TestNew_Factory(t *testing.T) {
	q, err := New(configQueue("memory"), log.Nop())
	if err != nil {
		t.Fatalf("New(memory): %v", err)
	}
	if _, ok := q.(*MemoryQueue); !ok {
		t.Errorf("New(memory) = %T", q)
	}
	_ = q.Close()

	if _, err := New(configQueue("rabbitmq"), log.Nop()); err == nil {
		t.Error("unknown backend should error")
	}
}
