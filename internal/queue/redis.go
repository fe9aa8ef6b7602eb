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
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"nucleus-gateway/internal/model"
	"nucleus-gateway/pkg/config"
	"nucleus-gateway/pkg/errors"
	"nucleus-gateway/pkg/log"
	"nucleus-gateway/pkg/metrics"
)

const (
	fieldPayload       = "payload"
	fieldCorrelationID = "correlation_id"
	fieldAttempt       = "attempt"
	deadLetterSuffix   = ":dead"
)

// RedisQueue is the multi-instance backend: a Redis Stream consumed
// through a consumer group. A dequeued message stays pending (invisible
// to other consumers) until it is acknowledged; Complete acknowledges
// and deletes it, Abandon re-adds the item immediately for redelivery
// or moves it to the dead-letter stream once the delivery budget is
// spent. Messages stuck pending on a dead consumer are reclaimed via
// XAutoClaim after minIdle.
type RedisQueue struct {
	client      *redis.Client
	stream      string
	group       string
	consumer    string
	block       time.Duration
	maxAttempts int
	minIdle     time.Duration
	logger      *log.Logger
	closed      atomic.Bool
}

// NewRedisQueue connects to Redis and ensures the consumer group exists.
func NewRedisQueue(cfg config.RedisConfig, logger *log.Logger) (*RedisQueue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	q := &RedisQueue{
		client:      client,
		stream:      cfg.Stream,
		group:       cfg.ConsumerGroup,
		consumer:    fmt.Sprintf("nucleus-%s", uuid.New().String()[:8]),
		block:       config.ParseDuration(cfg.BlockInterval, 5*time.Second),
		maxAttempts: cfg.MaxAttempts,
		minIdle:     config.ParseDuration(cfg.MinIdle, time.Minute),
		logger:      logger,
	}
	if q.maxAttempts <= 0 {
		q.maxAttempts = 3
	}
	if err := q.ensureGroup(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return q, nil
}

// ensureGroup creates the consumer group from the stream start;
// BUSYGROUP means it already exists and is not an error.
func (q *RedisQueue) ensureGroup(ctx context.Context) error {
	err := q.client.XGroupCreateMkStream(ctx, q.stream, q.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group: %w", err)
	}
	return nil
}

type redisHandle struct {
	messageID string
	attempt   int
	item      *model.IngestionRequest
	settled   atomic.Bool
}

func (h *redisHandle) ID() string { return h.messageID }

// Enqueue implements Queue. Fire-and-forget to the broker; backpressure
// is the broker's capacity, not ours.
func (q *RedisQueue) Enqueue(ctx context.Context, item *model.IngestionRequest) error {
	if q.closed.Load() {
		return errors.ErrQueueClosed
	}
	return q.add(ctx, item, 1)
}

func (q *RedisQueue) add(ctx context.Context, item *model.IngestionRequest, attempt int) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return errors.Wrap(err, "marshal work item")
	}
	err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]interface{}{
			fieldPayload:       string(payload),
			fieldCorrelationID: item.CorrelationID,
			fieldAttempt:       attempt,
		},
	}).Err()
	if err != nil {
		return errors.Wrap(err, "xadd")
	}
	metrics.QueueEnqueueTotal.WithLabelValues("redis").Inc()
	return nil
}

// Dequeue implements Queue. Loops on the block interval so ctx
// cancellation is observed promptly; each pass first tries to reclaim
// a message stuck pending on a dead consumer.
func (q *RedisQueue) Dequeue(ctx context.Context) (*model.IngestionRequest, Handle, error) {
	for {
		if q.closed.Load() {
			return nil, nil, errors.ErrQueueClosed
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		if item, h, ok := q.reclaim(ctx); ok {
			return item, h, nil
		}

		streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    q.group,
			Consumer: q.consumer,
			Streams:  []string{q.stream, ">"},
			Count:    1,
			Block:    q.block,
		}).Result()
		if err != nil {
			if err == redis.Nil {
				continue // nothing within the block interval
			}
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			return nil, nil, errors.Wrap(err, "xreadgroup")
		}
		if len(streams) == 0 || len(streams[0].Messages) == 0 {
			continue
		}
		item, h, err := q.parseMessage(streams[0].Messages[0])
		if err != nil {
			// Poison message: it can never parse, park it in the
			// dead-letter stream instead of redelivering forever.
			q.logger.Error("unparseable queue message, dead-lettering",
				"message_id", streams[0].Messages[0].ID, "error", err)
			q.deadLetter(ctx, streams[0].Messages[0].ID, streams[0].Messages[0].Values, err)
			continue
		}
		metrics.QueueDequeueTotal.WithLabelValues("redis").Inc()
		return item, h, nil
	}
}

// reclaim claims one message whose consumer went away (pending longer
// than minIdle) for this consumer.
func (q *RedisQueue) reclaim(ctx context.Context) (*model.IngestionRequest, Handle, bool) {
	msgs, _, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   q.stream,
		Group:    q.group,
		Consumer: q.consumer,
		MinIdle:  q.minIdle,
		Start:    "0-0",
		Count:    1,
	}).Result()
	if err != nil || len(msgs) == 0 {
		return nil, nil, false
	}
	item, h, err := q.parseMessage(msgs[0])
	if err != nil {
		q.logger.Error("unparseable reclaimed message, dead-lettering",
			"message_id", msgs[0].ID, "error", err)
		q.deadLetter(ctx, msgs[0].ID, msgs[0].Values, err)
		return nil, nil, false
	}
	q.logger.Info("reclaimed stale pending message",
		"message_id", msgs[0].ID, "correlation_id", item.CorrelationID)
	metrics.QueueDequeueTotal.WithLabelValues("redis").Inc()
	return item, h, true
}

func (q *RedisQueue) parseMessage(msg redis.XMessage) (*model.IngestionRequest, *redisHandle, error) {
	raw, ok := msg.Values[fieldPayload].(string)
	if !ok {
		return nil, nil, fmt.Errorf("message %s has no payload field", msg.ID)
	}
	var item model.IngestionRequest
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, nil, errors.Wrapf(err, "unmarshal message %s", msg.ID)
	}
	attempt := 1
	if s, ok := msg.Values[fieldAttempt].(string); ok {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			attempt = n
		}
	}
	return &item, &redisHandle{messageID: msg.ID, attempt: attempt, item: &item}, nil
}

// Complete implements Queue: acknowledge and delete.
func (q *RedisQueue) Complete(ctx context.Context, h Handle) error {
	rh, ok := h.(*redisHandle)
	if !ok {
		return errors.New("handle does not belong to the redis queue")
	}
	if !rh.settled.CompareAndSwap(false, true) {
		return errors.ErrHandleCompleted
	}
	if err := q.ack(ctx, rh.messageID); err != nil {
		return err
	}
	metrics.QueueCompleteTotal.WithLabelValues("redis").Inc()
	return nil
}

// Abandon implements Queue. Within the delivery budget the item is
// re-added for immediate redelivery, which is faster than waiting for
// the pending-entry idle threshold; past the budget it goes to the
// dead-letter stream with the reason attached.
func (q *RedisQueue) Abandon(ctx context.Context, h Handle, reason error) error {
	rh, ok := h.(*redisHandle)
	if !ok {
		return errors.New("handle does not belong to the redis queue")
	}
	if !rh.settled.CompareAndSwap(false, true) {
		return errors.ErrHandleCompleted
	}
	metrics.QueueAbandonTotal.WithLabelValues("redis").Inc()

	if rh.attempt >= q.maxAttempts {
		q.logger.Error("delivery budget spent, dead-lettering work item",
			"correlation_id", rh.item.CorrelationID, "attempt", rh.attempt, "reason", reason)
		payload, _ := json.Marshal(rh.item)
		err := q.client.XAdd(ctx, &redis.XAddArgs{
			Stream: q.stream + deadLetterSuffix,
			Values: map[string]interface{}{
				fieldPayload:       string(payload),
				fieldCorrelationID: rh.item.CorrelationID,
				fieldAttempt:       rh.attempt,
				"original_message": rh.messageID,
				"reason":           fmt.Sprint(reason),
				"dead_lettered_at": time.Now().UTC().Format(time.RFC3339),
				"consumer":         q.consumer,
			},
		}).Err()
		if err != nil {
			return errors.Wrap(err, "dead-letter xadd")
		}
		return q.ack(ctx, rh.messageID)
	}

	q.logger.Warn("abandoning work item for redelivery",
		"correlation_id", rh.item.CorrelationID, "attempt", rh.attempt, "reason", reason)
	if err := q.add(ctx, rh.item, rh.attempt+1); err != nil {
		// Leave the original pending; lock-expiry reclaim will retry it.
		return err
	}
	return q.ack(ctx, rh.messageID)
}

func (q *RedisQueue) ack(ctx context.Context, messageID string) error {
	if err := q.client.XAck(ctx, q.stream, q.group, messageID).Err(); err != nil {
		return errors.Wrap(err, "xack")
	}
	if err := q.client.XDel(ctx, q.stream, messageID).Err(); err != nil {
		return errors.Wrap(err, "xdel")
	}
	return nil
}

// deadLetter parks an unparseable raw message and acknowledges it.
func (q *RedisQueue) deadLetter(ctx context.Context, messageID string, values map[string]interface{}, reason error) {
	fields := map[string]interface{}{
		"original_message": messageID,
		"reason":           fmt.Sprint(reason),
		"dead_lettered_at": time.Now().UTC().Format(time.RFC3339),
		"consumer":         q.consumer,
	}
	if raw, ok := values[fieldPayload].(string); ok {
		fields[fieldPayload] = raw
	}
	if err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream + deadLetterSuffix,
		Values: fields,
	}).Err(); err != nil {
		q.logger.Error("dead-letter xadd failed", "message_id", messageID, "error", err)
		return
	}
	_ = q.ack(ctx, messageID)
}

// Close implements Queue.
func (q *RedisQueue) Close() error {
	if !q.closed.CompareAndSwap(false, true) {
		return nil
	}
	return q.client.Close()
}
