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

// Package api assembles the ingress process: HTTP router, middleware,
// and the activation/enqueue path.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzslog "github.com/hertz-contrib/logger/slog"
	"github.com/hertz-contrib/obs-opentelemetry/provider"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"

	"nucleus-gateway/internal/activation"
	apihttp "nucleus-gateway/internal/api/http"
	"nucleus-gateway/internal/api/http/middleware"
	"nucleus-gateway/internal/app"
	"nucleus-gateway/internal/persona"
	"nucleus-gateway/pkg/config"
)

// otelProviderShutdown is what we need from the otel provider at
// shutdown.
type otelProviderShutdown interface {
	Shutdown(ctx context.Context) error
}

// App is the API process.
type App struct {
	bootstrap    *app.Bootstrap
	router       *apihttp.Router
	hertz        *server.Hertz
	otelProvider otelProviderShutdown
}

// NewApp assembles the API application from the bootstrap.
func NewApp(bootstrap *app.Bootstrap) (*App, error) {
	cfg := bootstrap.Config

	resolver := persona.NewResolver("")
	handler := apihttp.NewHandler(
		activation.NewChecker(),
		resolver,
		bootstrap.Personas,
		bootstrap.Queue,
		bootstrap.Logger,
	)
	router := apihttp.NewRouter(handler, bootstrap.Logger)

	if cfg.API.Middleware.Auth && cfg.API.Middleware.JWTKey != "" {
		timeout := config.ParseDuration(cfg.API.Middleware.JWTTimeout, time.Hour)
		maxRefresh := config.ParseDuration(cfg.API.Middleware.JWTMaxRefresh, time.Hour)
		jwtAuth, err := middleware.NewJWTAuth([]byte(cfg.API.Middleware.JWTKey), timeout, maxRefresh)
		if err != nil {
			bootstrap.Logger.Warn("jwt init failed, auth disabled", "error", err)
		} else {
			router.SetJWT(jwtAuth)
			bootstrap.Logger.Info("jwt auth enabled")
		}
	}

	return &App{bootstrap: bootstrap, router: router}, nil
}

// Run starts the HTTP server and blocks until it stops.
func (a *App) Run() error {
	cfg := a.bootstrap.Config
	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	a.bootstrap.Logger.Info("api starting", "addr", addr)

	// Route hertz's own logging through slog, aligned with pkg/log.
	output := os.Stdout
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		output = f
	}
	levelVar := &slog.LevelVar{}
	switch cfg.Log.Level {
	case "debug":
		levelVar.Set(slog.LevelDebug)
	case "warn":
		levelVar.Set(slog.LevelWarn)
	case "error":
		levelVar.Set(slog.LevelError)
	default:
		levelVar.Set(slog.LevelInfo)
	}
	hlog.SetLogger(hertzslog.NewLogger(
		hertzslog.WithOutput(output),
		hertzslog.WithLevel(levelVar),
	))

	if cfg.Monitoring.Tracing.Enable && cfg.Monitoring.Tracing.ExportEndpoint != "" {
		serviceName := cfg.Monitoring.Tracing.ServiceName
		if serviceName == "" {
			serviceName = "nucleus-api"
		}
		opts := []provider.Option{
			provider.WithServiceName(serviceName),
			provider.WithExportEndpoint(cfg.Monitoring.Tracing.ExportEndpoint),
		}
		if cfg.Monitoring.Tracing.Insecure {
			opts = append(opts, provider.WithInsecure())
		}
		a.otelProvider = provider.NewOpenTelemetryProvider(opts...)
		tracerOpt, tracerCfg := hertztracing.NewServerTracer()
		a.hertz = a.router.Build(addr, tracerOpt)
		a.hertz.Use(hertztracing.ServerMiddleware(tracerCfg))
		a.bootstrap.Logger.Info("tracing enabled", "service_name", serviceName, "endpoint", cfg.Monitoring.Tracing.ExportEndpoint)
	} else {
		a.hertz = a.router.Build(addr)
	}

	return a.hertz.Run()
}

// Shutdown stops the server and releases bootstrap resources.
func (a *App) Shutdown(ctx context.Context) error {
	if a.otelProvider != nil {
		_ = a.otelProvider.Shutdown(ctx)
	}
	if a.hertz != nil {
		if err := a.hertz.Shutdown(ctx); err != nil {
			return err
		}
	}
	return a.bootstrap.Close()
}
