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

// Package processor runs the worker loop: dequeue an interaction,
// resolve its persona, fetch and extract artifacts, execute the
// strategy, notify the platform, and settle the queue message.
package processor

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"nucleus-gateway/internal/artifact"
	"nucleus-gateway/internal/model"
	"nucleus-gateway/internal/notify"
	"nucleus-gateway/internal/persona"
	"nucleus-gateway/internal/queue"
	"nucleus-gateway/internal/strategy"
	"nucleus-gateway/pkg/errors"
	"nucleus-gateway/pkg/log"
	"nucleus-gateway/pkg/metrics"
	"nucleus-gateway/pkg/tracing"
)

// Processor ties the pipeline stages together per dequeued item. Every
// item ends in exactly one Complete or Abandon; no failure crosses the
// loop boundary.
type Processor struct {
	queue       queue.Queue
	personas    persona.ConfigProvider
	artifacts   *artifact.Pipeline
	runtime     *strategy.Runtime
	notifiers   *notify.Registry
	logger      *log.Logger
	concurrency int
	errorPause  time.Duration
}

// Options bundles the processor collaborators.
type Options struct {
	Queue       queue.Queue
	Personas    persona.ConfigProvider
	Artifacts   *artifact.Pipeline
	Runtime     *strategy.Runtime
	Notifiers   *notify.Registry
	Logger      *log.Logger
	Concurrency int           // consumer goroutines, <=0 = 1
	ErrorPause  time.Duration // pause after a dequeue error or abandoned item, <=0 = 1s
}

// New creates a processor.
func New(opts Options) *Processor {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.ErrorPause <= 0 {
		opts.ErrorPause = time.Second
	}
	return &Processor{
		queue:       opts.Queue,
		personas:    opts.Personas,
		artifacts:   opts.Artifacts,
		runtime:     opts.Runtime,
		notifiers:   opts.Notifiers,
		logger:      opts.Logger,
		concurrency: opts.Concurrency,
		errorPause:  opts.ErrorPause,
	}
}

// Run starts the consumer goroutines and blocks until ctx is cancelled
// or the queue closes. In-flight items finish before Run returns.
func (p *Processor) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < p.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			p.consume(ctx, workerID)
		}(i)
	}
	wg.Wait()
}

// consume is one worker loop.
func (p *Processor) consume(ctx context.Context, workerID int) {
	logger := p.logger.With("worker", workerID)
	logger.Info("worker started")
	for {
		item, handle, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("worker stopping", "reason", "shutdown")
				return
			}
			if errors.Is(err, errors.ErrQueueClosed) {
				logger.Info("worker stopping", "reason", "queue closed")
				return
			}
			logger.Error("dequeue failed", "error", err)
			select {
			case <-time.After(p.errorPause):
			case <-ctx.Done():
				return
			}
			continue
		}
		p.processItem(ctx, workerID, item, handle)
	}
}

// processItem runs the per-item state machine. A panic anywhere inside
// abandons the message and the loop continues.
func (p *Processor) processItem(ctx context.Context, workerID int, item *model.IngestionRequest, handle queue.Handle) {
	logger := p.logger.With(
		"worker", workerID,
		"correlation_id", item.CorrelationID,
		"persona_id", item.PersonaID,
		"platform", item.PlatformType,
	)
	workerLabel := strconv.Itoa(workerID)
	metrics.WorkerBusy.WithLabelValues(workerLabel).Inc()
	defer metrics.WorkerBusy.WithLabelValues(workerLabel).Dec()

	ctx, span := tracing.StartInteractionSpan(ctx, item.CorrelationID, item.PersonaID)
	defer span.End()

	start := time.Now()
	status := p.runItem(ctx, logger, item, handle)
	metrics.InteractionDuration.WithLabelValues(item.PersonaID).Observe(time.Since(start).Seconds())
	metrics.InteractionTotal.WithLabelValues(status.String()).Inc()
	logger.Info("interaction finished", "status", status.String(), "elapsed", time.Since(start))
}

func (p *Processor) runItem(ctx context.Context, logger *log.Logger, item *model.IngestionRequest, handle queue.Handle) (status model.ExecutionStatus) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("interaction panicked", "panic", rec)
			p.abandon(ctx, logger, handle, fmt.Errorf("interaction panicked: %v", rec))
			status = model.StatusFailed
		}
	}()

	cfg, err := p.personas.Get(ctx, item.PersonaID)
	if err != nil {
		p.abandon(ctx, logger, handle, errors.Wrapf(err, "load persona %s", item.PersonaID))
		return model.StatusErrorInPersonaLogic
	}
	if cfg == nil {
		p.abandon(ctx, logger, handle, errors.Wrapf(errors.ErrPersonaNotFound, "persona %s", item.PersonaID))
		return model.StatusErrorInPersonaLogic
	}
	if !cfg.Enabled {
		p.abandon(ctx, logger, handle, fmt.Errorf("persona %s is disabled", item.PersonaID))
		return model.StatusErrorInPersonaLogic
	}

	// Best effort: a bad attachment never blocks the response.
	extracted := p.artifacts.Process(ctx, item.PlatformType, item.ArtifactReferences)

	ic := &model.InteractionContext{
		Request:       item.AdapterRequest,
		PersonaID:     item.PersonaID,
		CorrelationID: item.CorrelationID,
		Artifacts:     extracted,
	}
	resp, status := p.runtime.Execute(ctx, cfg, ic)

	if !status.IsTerminalSuccess() {
		reason := fmt.Errorf("strategy %s finished with status %s: %s", cfg.StrategyKey, status, resp.ErrorMessage)
		p.abandon(ctx, logger, handle, reason)
		return status
	}

	if resp.ResponseMessage != "" {
		p.deliver(ctx, logger, item, resp.ResponseMessage)
	}

	if err := p.queue.Complete(ctx, handle); err != nil {
		logger.Error("complete failed", "message_id", handle.ID(), "error", err)
	}
	return status
}

// deliver sends the response back to the originating platform. Failure
// is logged only; the persona's work already succeeded.
func (p *Processor) deliver(ctx context.Context, logger *log.Logger, item *model.IngestionRequest, text string) {
	notifier := p.notifiers.For(item.PlatformType)
	if notifier == nil {
		logger.Warn("no notifier for platform, response dropped")
		metrics.NotifyFailTotal.WithLabelValues(item.PlatformType).Inc()
		return
	}
	sentID, err := notifier.Send(ctx, item.ConversationID, text, item.MessageID)
	if err != nil {
		logger.Warn("notification failed", "error", err)
		return
	}
	logger.Info("notification sent", "sent_id", sentID)
}

func (p *Processor) abandon(ctx context.Context, logger *log.Logger, handle queue.Handle, reason error) {
	logger.Warn("abandoning interaction", "message_id", handle.ID(), "reason", reason)
	if err := p.queue.Abandon(ctx, handle, reason); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("abandon failed", "message_id", handle.ID(), "error", err)
	}
	// Redelivery can be immediate; pause so a persistently failing item
	// cannot hot-loop through its delivery budget.
	select {
	case <-time.After(p.errorPause):
	case <-ctx.Done():
	}
}
