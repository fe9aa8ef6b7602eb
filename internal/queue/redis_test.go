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
	"os"
	"testing"
	"time"

	"nucleus-gateway/pkg/config"
	"nucleus-gateway/pkg/errors"
	"nucleus-gateway/pkg/log"
)

func configQueue(typ string) config.QueueConfig {
	return config.QueueConfig{Type: typ, Capacity: 4}
}

func testRedisQueue(t *testing.T) *RedisQueue {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping Redis queue tests")
	}
	q, err := NewRedisQueue(config.RedisConfig{
		Addr:          addr,
		Stream:        "nucleus:test:" + t.Name(),
		ConsumerGroup: "nucleus-test",
		BlockInterval: "200ms",
		MaxAttempts:   2,
		MinIdle:       "1h", // keep reclaim out of the way unless a test wants it
	}, log.Nop())
	if err != nil {
		t.Fatalf("NewRedisQueue: %v", err)
	}
	t.Cleanup(func() {
		ctx := context.Background()
		q.client.Del(ctx, q.stream, q.stream+deadLetterSuffix)
		_ = q.Close()
	})
	return q
}

func TestRedisQueue_RoundTrip(t *testing.T) {
	ctx := context.Background()
	q := testRedisQueue(t)

	if err := q.Enqueue(ctx, newItem("rt-1")); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	item, h, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if item.CorrelationID != "rt-1" || item.PersonaID != "p1" {
		t.Errorf("dequeued %+v", item)
	}
	if err := q.Complete(ctx, h); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	dctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	if _, _, err := q.Dequeue(dctx); err == nil {
		t.Error("completed item must not be redelivered")
	}
}

func TestRedisQueue_AbandonRedelivers(t *testing.T) {
	ctx := context.Background()
	q := testRedisQueue(t)

	_ = q.Enqueue(ctx, newItem("ab-1"))
	_, h, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if err := q.Abandon(ctx, h, errors.New("transient")); err != nil {
		t.Fatalf("Abandon: %v", err)
	}

	item, h2, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Dequeue after abandon: %v", err)
	}
	if item.CorrelationID != "ab-1" {
		t.Errorf("redelivered %s", item.CorrelationID)
	}
	rh := h2.(*redisHandle)
	if rh.attempt != 2 {
		t.Errorf("attempt = %d, want 2", rh.attempt)
	}
}

func TestRedisQueue_DeadLetterAfterBudget(t *testing.T) {
	ctx := context.Background()
	q := testRedisQueue(t) // maxAttempts = 2

	_ = q.Enqueue(ctx, newItem("dl-1"))
	for i := 0; i < 2; i++ {
		_, h, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("Dequeue %d: %v", i, err)
		}
		if err := q.Abandon(ctx, h, errors.New("persistent failure")); err != nil {
			t.Fatalf("Abandon %d: %v", i, err)
		}
	}

	dctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	if _, _, err := q.Dequeue(dctx); err == nil {
		t.Fatal("dead-lettered item must not be redelivered")
	}
	n, err := q.client.XLen(ctx, q.stream+deadLetterSuffix).Result()
	if err != nil || n != 1 {
		t.Errorf("dead-letter stream length = %d, %v", n, err)
	}
}

func TestRedisQueue_LifecycleExclusivity(t *testing.T) {
	ctx := context.Background()
	q := testRedisQueue(t)

	_ = q.Enqueue(ctx, newItem("ex-1"))
	_, h, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if err := q.Complete(ctx, h); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := q.Abandon(ctx, h, errors.New("late")); !errors.Is(err, errors.ErrHandleCompleted) {
		t.Errorf("Abandon after Complete = %v", err)
	}
}

func TestRedisQueue_DequeueHonorsCancellation(t *testing.T) {
	q := testRedisQueue(t)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if _, _, err := q.Dequeue(ctx); err != context.DeadlineExceeded {
		t.Errorf("cancelled Dequeue = %v", err)
	}
}
