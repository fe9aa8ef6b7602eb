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

// Package tracing sets up OpenTelemetry for the worker process and holds
// the span helpers used around interaction processing. The API process
// uses the hertz obs-opentelemetry middleware instead.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "nucleus-gateway"

// OTelConfig OpenTelemetry settings.
type OTelConfig struct {
	ServiceName    string
	ExportEndpoint string
	Insecure       bool
}

// InitTracer initializes the global tracer provider with an OTLP/HTTP exporter.
func InitTracer(config OTelConfig) (*sdktrace.TracerProvider, error) {
	ctx := context.Background()

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(config.ExportEndpoint),
	}
	if config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	return tp, nil
}

// StartInteractionSpan starts the span covering one dequeued interaction.
func StartInteractionSpan(ctx context.Context, correlationID, personaID string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "interaction.process",
		trace.WithAttributes(
			attribute.String("interaction.correlation_id", correlationID),
			attribute.String("persona.id", personaID),
		),
	)
	return ctx, span
}

// StartArtifactSpan starts the span covering the fetch+extract of one reference.
func StartArtifactSpan(ctx context.Context, referenceID, referenceType string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "artifact.resolve",
		trace.WithAttributes(
			attribute.String("artifact.reference_id", referenceID),
			attribute.String("artifact.reference_type", referenceType),
		),
	)
	return ctx, span
}

// StartStrategySpan starts the span covering strategy execution.
func StartStrategySpan(ctx context.Context, strategyKey string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "strategy.execute",
		trace.WithAttributes(
			attribute.String("strategy.key", strategyKey),
		),
	)
	return ctx, span
}
