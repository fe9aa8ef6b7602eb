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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nucleus-gateway/internal/model"
	"nucleus-gateway/internal/persona"
	"nucleus-gateway/pkg/errors"
	"nucleus-gateway/pkg/log"
)

func testContext(query string) *model.InteractionContext {
	return &model.InteractionContext{
		Request:       model.AdapterRequest{QueryText: query, ConversationID: "c1"},
		PersonaID:     "default",
		CorrelationID: "corr-1",
	}
}

func TestRuntimeExecutesRegisteredHandler(t *testing.T) {
	rt := NewRuntime(NewDefaultRegistry(), log.Nop())
	cfg := &persona.Configuration{ID: "default", StrategyKey: "echo"}

	resp, status := rt.Execute(context.Background(), cfg, testContext("hello"))
	require.Equal(t, model.StatusSuccess, status)
	assert.True(t, resp.Success)
	assert.Equal(t, "hello", resp.ResponseMessage)
}

func TestRuntimeMissingStrategyKey(t *testing.T) {
	rt := NewRuntime(NewDefaultRegistry(), log.Nop())
	cfg := &persona.Configuration{ID: "p1"}

	resp, status := rt.Execute(context.Background(), cfg, testContext("hi"))
	require.Equal(t, model.StatusErrorInPersonaLogic, status)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.ErrorMessage)
}

func TestRuntimeUnknownStrategyKey(t *testing.T) {
	rt := NewRuntime(NewDefaultRegistry(), log.Nop())
	cfg := &persona.Configuration{ID: "p1", StrategyKey: "does-not-exist"}

	resp, status := rt.Execute(context.Background(), cfg, testContext("hi"))
	require.Equal(t, model.StatusErrorInPersonaLogic, status)
	assert.Contains(t, resp.ErrorMessage, "does-not-exist")
	assert.Contains(t, resp.ErrorMessage, errors.ErrNoHandler.Error())
}

func TestRuntimeNormalizesNilHandlerResponse(t *testing.T) {
	reg := NewRegistry()
	reg.Register("headless", HandlerFunc(func(context.Context, *persona.Configuration, map[string]interface{}, *model.InteractionContext) (*model.AdapterResponse, model.ExecutionStatus) {
		return nil, model.StatusSuccess
	}))
	rt := NewRuntime(reg, log.Nop())

	resp, status := rt.Execute(context.Background(), &persona.Configuration{ID: "p1", StrategyKey: "headless"}, testContext("hi"))
	require.Equal(t, model.StatusSuccess, status)
	require.NotNil(t, resp)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.ResponseMessage)
}

func TestRuntimeRecoversHandlerPanic(t *testing.T) {
	reg := NewRegistry()
	reg.Register("boom", HandlerFunc(func(context.Context, *persona.Configuration, map[string]interface{}, *model.InteractionContext) (*model.AdapterResponse, model.ExecutionStatus) {
		panic("handler bug")
	}))
	rt := NewRuntime(reg, log.Nop())

	resp, status := rt.Execute(context.Background(), &persona.Configuration{ID: "p1", StrategyKey: "boom"}, testContext("hi"))
	require.Equal(t, model.StatusErrorInPersonaLogic, status)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.ErrorMessage, "panicked")
}

func TestEchoStrategyNoActionOnEmptyInput(t *testing.T) {
	resp, status := NewEchoStrategy().Handle(context.Background(), &persona.Configuration{ID: "p"}, nil, testContext("   "))
	require.Equal(t, model.StatusNoActionTaken, status)
	// No-action is still a successful outcome.
	assert.True(t, resp.Success)
}

func TestEchoStrategyReportsArtifacts(t *testing.T) {
	ic := testContext("summarize this")
	ic.Artifacts = []model.ExtractedArtifact{
		{Status: model.ExtractionSuccess, Text: "doc text"},
	}
	resp, status := NewEchoStrategy().Handle(context.Background(), &persona.Configuration{ID: "p"}, nil, ic)
	require.Equal(t, model.StatusSuccess, status)
	assert.Contains(t, resp.ResponseMessage, "1 attachment")
}

func TestCannedStrategy(t *testing.T) {
	resp, status := NewCannedStrategy().Handle(context.Background(), &persona.Configuration{ID: "p"},
		map[string]interface{}{"message": "We got your request."}, testContext("anything"))
	require.Equal(t, model.StatusSuccess, status)
	assert.Equal(t, "We got your request.", resp.ResponseMessage)

	resp, status = NewCannedStrategy().Handle(context.Background(), &persona.Configuration{ID: "p"}, nil, testContext("anything"))
	require.Equal(t, model.StatusErrorInPersonaLogic, status)
	assert.False(t, resp.Success)
}

func TestRegistryKeys(t *testing.T) {
	reg := NewDefaultRegistry()
	assert.Equal(t, []string{"canned", "echo"}, reg.Keys())
}
