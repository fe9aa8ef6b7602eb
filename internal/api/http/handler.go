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

// Package http is the ingress surface: platform adapters POST
// interactions here, activation is checked synchronously, and activated
// requests are queued for the worker.
package http

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"nucleus-gateway/internal/activation"
	"nucleus-gateway/internal/model"
	"nucleus-gateway/internal/persona"
	"nucleus-gateway/internal/queue"
	"nucleus-gateway/pkg/log"
	"nucleus-gateway/pkg/metrics"
)

// Handler carries the ingress dependencies.
type Handler struct {
	checker  *activation.Checker
	resolver *persona.Resolver
	personas persona.ConfigProvider
	queue    queue.Queue
	logger   *log.Logger
}

// NewHandler creates the ingress handler.
func NewHandler(checker *activation.Checker, resolver *persona.Resolver, personas persona.ConfigProvider, q queue.Queue, logger *log.Logger) *Handler {
	return &Handler{
		checker:  checker,
		resolver: resolver,
		personas: personas,
		queue:    q,
		logger:   logger,
	}
}

// HealthCheck GET /api/health
func (h *Handler) HealthCheck(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": "nucleus-gateway",
	})
}

// Metrics GET /api/system/metrics exposes the Prometheus registry in
// text exposition format.
func (h *Handler) Metrics(ctx context.Context, c *app.RequestContext) {
	c.Response.Header.Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	if err := metrics.WritePrometheus(c.Response.BodyWriter()); err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// ListPersonas GET /api/personas returns the configured personas for
// operator visibility, secrets-free.
func (h *Handler) ListPersonas(ctx context.Context, c *app.RequestContext) {
	configs, err := h.personas.GetAll(ctx)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	out := make([]map[string]interface{}, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, map[string]interface{}{
			"id":           cfg.ID,
			"enabled":      cfg.Enabled,
			"trigger":      cfg.Trigger,
			"tenants":      cfg.Tenants,
			"strategy_key": cfg.StrategyKey,
		})
	}
	c.JSON(consts.StatusOK, map[string]interface{}{"personas": out})
}

// PostInteraction POST /api/interactions is the adapter ingress.
// Activation runs synchronously; activated requests are enqueued and
// answered with 202 plus the correlation id, everything else is a 200
// no-op so adapters never retry silence.
func (h *Handler) PostInteraction(ctx context.Context, c *app.RequestContext) {
	var req model.AdapterRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.PlatformType == "" || req.ConversationID == "" {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "platform_type and conversation_id are required"})
		return
	}

	configs, err := h.personas.GetAll(ctx)
	if err != nil {
		h.logger.Error("persona lookup failed", "error", err)
		c.JSON(consts.StatusInternalServerError, map[string]string{"error": "persona lookup failed"})
		return
	}

	result := h.checker.Check(req, configs)
	if !result.ShouldActivate {
		c.JSON(consts.StatusOK, map[string]interface{}{"activated": false})
		return
	}

	// A platform-specific rule may map the sender to a more specific
	// persona than the one whose trigger matched.
	personaID := result.PersonaID
	if resolved := h.resolver.Resolve(req.PlatformType, req); resolved != persona.DefaultPersonaID && resolved != personaID {
		if cfg, err := h.personas.Get(ctx, resolved); err == nil && cfg != nil && cfg.Enabled {
			personaID = resolved
		}
	}

	item := model.NewIngestionRequest(req, personaID)
	if err := h.queue.Enqueue(ctx, item); err != nil {
		h.logger.Error("enqueue failed", "correlation_id", item.CorrelationID, "error", err)
		c.JSON(consts.StatusServiceUnavailable, map[string]string{"error": "queue unavailable"})
		return
	}

	h.logger.Info("interaction queued",
		"correlation_id", item.CorrelationID,
		"persona_id", personaID,
		"platform", req.PlatformType,
		"conversation_id", req.ConversationID,
	)
	c.JSON(consts.StatusAccepted, map[string]interface{}{
		"activated":      true,
		"persona_id":     personaID,
		"correlation_id": item.CorrelationID,
	})
}
