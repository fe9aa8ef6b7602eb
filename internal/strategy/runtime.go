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

package strategy

import (
	"context"
	"fmt"

	"nucleus-gateway/internal/model"
	"nucleus-gateway/internal/persona"
	"nucleus-gateway/pkg/errors"
	"nucleus-gateway/pkg/log"
	"nucleus-gateway/pkg/tracing"
)

// Runtime resolves a persona's strategy key against the registry and
// delegates execution. Configuration problems and handler panics are
// reported as a failed response, never as an error crossing this
// boundary.
type Runtime struct {
	registry *Registry
	logger   *log.Logger
}

// NewRuntime creates the strategy runtime.
func NewRuntime(registry *Registry, logger *log.Logger) *Runtime {
	return &Runtime{registry: registry, logger: logger}
}

// Execute runs the strategy named by cfg.StrategyKey.
func (r *Runtime) Execute(ctx context.Context, cfg *persona.Configuration, ic *model.InteractionContext) (resp *model.AdapterResponse, status model.ExecutionStatus) {
	if cfg.StrategyKey == "" {
		r.logger.Error("persona has no strategy key", "persona_id", cfg.ID)
		return model.FailedResponse(fmt.Sprintf("persona %s has no strategy configured", cfg.ID)), model.StatusErrorInPersonaLogic
	}
	handler := r.registry.Get(cfg.StrategyKey)
	if handler == nil {
		err := errors.Wrapf(errors.ErrNoHandler, "strategy %q", cfg.StrategyKey)
		r.logger.Error("strategy key not registered", "persona_id", cfg.ID, "strategy_key", cfg.StrategyKey)
		return model.FailedResponse(err.Error()), model.StatusErrorInPersonaLogic
	}

	ctx, span := tracing.StartStrategySpan(ctx, cfg.StrategyKey)
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("strategy handler panicked", "persona_id", cfg.ID, "strategy_key", cfg.StrategyKey, "panic", rec)
			resp = model.FailedResponse(fmt.Sprintf("strategy %q panicked: %v", cfg.StrategyKey, rec))
			status = model.StatusErrorInPersonaLogic
		}
	}()

	resp, status = handler.Handle(ctx, cfg, cfg.StrategyParams, ic)
	if resp == nil {
		// A handler may legally return a status with no response body;
		// callers must never see a nil response.
		resp = &model.AdapterResponse{Success: status.IsTerminalSuccess()}
	}
	return resp, status
}
