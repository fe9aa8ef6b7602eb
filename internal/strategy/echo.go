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
	"strings"

	"nucleus-gateway/internal/model"
	"nucleus-gateway/internal/persona"
)

// EchoStrategy repeats the query text back, with a summary line for any
// extracted artifacts. Useful for wiring checks and as the reference
// handler implementation.
type EchoStrategy struct{}

func NewEchoStrategy() *EchoStrategy { return &EchoStrategy{} }

func (s *EchoStrategy) Handle(ctx context.Context, cfg *persona.Configuration, params map[string]interface{}, ic *model.InteractionContext) (*model.AdapterResponse, model.ExecutionStatus) {
	query := strings.TrimSpace(ic.Request.QueryText)
	if query == "" && len(ic.Artifacts) == 0 {
		return &model.AdapterResponse{Success: true}, model.StatusNoActionTaken
	}

	var b strings.Builder
	b.WriteString(query)
	if texts := ic.ArtifactText(); len(texts) > 0 {
		fmt.Fprintf(&b, "\n\n[%d attachment(s) processed, %d characters of text extracted]",
			len(texts), totalLen(texts))
	}
	return &model.AdapterResponse{
		Success:         true,
		ResponseMessage: b.String(),
	}, model.StatusSuccess
}

func totalLen(texts []string) int {
	n := 0
	for _, t := range texts {
		n += len(t)
	}
	return n
}
