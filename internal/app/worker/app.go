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

// Package worker assembles the worker process that dequeues and
// processes interactions.
package worker

import (
	"context"
	"fmt"
	"time"

	"nucleus-gateway/internal/app"
	"nucleus-gateway/internal/artifact"
	"nucleus-gateway/internal/notify"
	"nucleus-gateway/internal/processor"
	"nucleus-gateway/internal/strategy"
	"nucleus-gateway/pkg/config"
	"nucleus-gateway/pkg/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// App is the worker process.
type App struct {
	bootstrap      *app.Bootstrap
	processor      *processor.Processor
	tracerProvider *sdktrace.TracerProvider
	cancel         context.CancelFunc
	done           chan struct{}
}

// NewApp assembles the worker application from the bootstrap. Extra
// strategies can be registered on the returned registry before Run.
func NewApp(bootstrap *app.Bootstrap) (*App, *strategy.Registry, error) {
	cfg := bootstrap.Config

	registry := strategy.NewDefaultRegistry()
	notifiers, err := notify.NewRegistry(cfg.Notify, bootstrap.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init notifiers: %w", err)
	}

	pipeline := artifact.NewPipelineFromConfig(cfg.Artifacts, bootstrap.MetadataStore, bootstrap.Logger)

	proc := processor.New(processor.Options{
		Queue:       bootstrap.Queue,
		Personas:    bootstrap.Personas,
		Artifacts:   pipeline,
		Runtime:     strategy.NewRuntime(registry, bootstrap.Logger),
		Notifiers:   notifiers,
		Logger:      bootstrap.Logger,
		Concurrency: cfg.Worker.Concurrency,
		ErrorPause:  config.ParseDuration(cfg.Worker.ErrorPause, time.Second),
	})

	a := &App{bootstrap: bootstrap, processor: proc, done: make(chan struct{})}

	if cfg.Monitoring.Tracing.Enable && cfg.Monitoring.Tracing.ExportEndpoint != "" {
		serviceName := cfg.Monitoring.Tracing.ServiceName
		if serviceName == "" {
			serviceName = "nucleus-worker"
		}
		tp, err := tracing.InitTracer(tracing.OTelConfig{
			ServiceName:    serviceName,
			ExportEndpoint: cfg.Monitoring.Tracing.ExportEndpoint,
			Insecure:       cfg.Monitoring.Tracing.Insecure,
		})
		if err != nil {
			bootstrap.Logger.Warn("tracing init failed, continuing without", "error", err)
		} else {
			a.tracerProvider = tp
			bootstrap.Logger.Info("tracing enabled", "service_name", serviceName)
		}
	}

	return a, registry, nil
}

// Run starts the worker loop and blocks until Shutdown.
func (a *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.bootstrap.Logger.Info("worker starting",
		"concurrency", a.bootstrap.Config.Worker.Concurrency,
		"queue", a.bootstrap.Config.Queue.Type,
	)
	a.processor.Run(ctx)
	close(a.done)
}

// Shutdown cancels the worker loop, waits for in-flight items up to the
// drain timeout, and releases resources.
func (a *App) Shutdown(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}
	drain := config.ParseDuration(a.bootstrap.Config.Worker.DrainTimeout, 30*time.Second)
	select {
	case <-a.done:
	case <-time.After(drain):
		a.bootstrap.Logger.Warn("drain timeout reached, forcing shutdown")
	case <-ctx.Done():
	}
	if a.tracerProvider != nil {
		_ = a.tracerProvider.Shutdown(ctx)
	}
	return a.bootstrap.Close()
}
