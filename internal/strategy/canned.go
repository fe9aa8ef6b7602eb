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

// CannedStrategy replies with a fixed message taken from the persona's
// strategy parameters ("message"). A persona with no message configured
// is a configuration error.
type CannedStrategy struct{}

func NewCannedStrategy() *CannedStrategy { return &CannedStrategy{} }

func (s *CannedStrategy) Handle(ctx context.Context, cfg *persona.Configuration, params map[string]interface{}, ic *model.InteractionContext) (*model.AdapterResponse, model.ExecutionStatus) {
	msg, ok := params["message"].(string)
	if !ok || msg == "" {
		return model.FailedResponse("canned strategy requires a string \"message\" parameter"), model.StatusErrorInPersonaLogic
	}
	return &model.AdapterResponse{
		Success:         true,
		ResponseMessage: msg,
	}, model.StatusSuccess
}
