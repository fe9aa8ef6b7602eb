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

	"nucleus-gateway/internal/model"
	"nucleus-gateway/internal/persona"
)

// Handler executes one named agentic strategy. Parameters come from the
// persona configuration; the context must be treated as read-only.
type Handler interface {
	// Handle produces the response and execution status for one
	// interaction.
	Handle(ctx context.Context, cfg *persona.Configuration, params map[string]interface{}, ic *model.InteractionContext) (*model.AdapterResponse, model.ExecutionStatus)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, cfg *persona.Configuration, params map[string]interface{}, ic *model.InteractionContext) (*model.AdapterResponse, model.ExecutionStatus)

func (f HandlerFunc) Handle(ctx context.Context, cfg *persona.Configuration, params map[string]interface{}, ic *model.InteractionContext) (*model.AdapterResponse, model.ExecutionStatus) {
	return f(ctx, cfg, params, ic)
}
