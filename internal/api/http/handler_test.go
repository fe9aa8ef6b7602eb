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

package http

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"

	"nucleus-gateway/internal/activation"
	"nucleus-gateway/internal/persona"
	"nucleus-gateway/internal/queue"
	"nucleus-gateway/pkg/log"
)

func buildServerForTest(t *testing.T, personas *persona.MemoryProvider, q queue.Queue) *server.Hertz {
	t.Helper()
	handler := NewHandler(activation.NewChecker(), persona.NewResolver(""), personas, q, log.Nop())
	return NewRouter(handler, log.Nop()).Build(":0")
}

func postInteraction(t *testing.T, s *server.Hertz, payload map[string]interface{}) (int, map[string]interface{}) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	w := ut.PerformRequest(s.Engine, "POST", "/api/interactions",
		&ut.Body{Body: bytes.NewReader(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/json"},
	)
	var out map[string]interface{}
	if len(w.Result().Body()) > 0 {
		if err := json.Unmarshal(w.Result().Body(), &out); err != nil {
			t.Fatalf("bad response body %q: %v", w.Result().Body(), err)
		}
	}
	return w.Result().StatusCode(), out
}

func triggeredPersonas() *persona.MemoryProvider {
	p := persona.NewMemoryProvider()
	p.Put(&persona.Configuration{ID: "default", Enabled: true, Trigger: "@Nucleus", StrategyKey: "echo"})
	return p
}

func TestPostInteractionQueuesActivatedRequest(t *testing.T) {
	q := queue.NewMemoryQueue(8, log.Nop())
	defer q.Close()
	s := buildServerForTest(t, triggeredPersonas(), q)

	status, resp := postInteraction(t, s, map[string]interface{}{
		"platform_type":   "testchat",
		"conversation_id": "c1",
		"user_id":         "u1",
		"query_text":      "@Nucleus summarize attached files",
	})
	if status != 202 {
		t.Fatalf("status = %d, want 202", status)
	}
	if resp["activated"] != true || resp["correlation_id"] == "" {
		t.Fatalf("unexpected response: %v", resp)
	}
	if q.Len() != 1 {
		t.Fatalf("queue depth = %d, want 1", q.Len())
	}
}

func TestPostInteractionIgnoresUntriggeredRequest(t *testing.T) {
	q := queue.NewMemoryQueue(8, log.Nop())
	defer q.Close()
	s := buildServerForTest(t, triggeredPersonas(), q)

	status, resp := postInteraction(t, s, map[string]interface{}{
		"platform_type":   "testchat",
		"conversation_id": "c1",
		"query_text":      "just chatting with a colleague",
	})
	if status != 200 {
		t.Fatalf("status = %d, want 200", status)
	}
	if resp["activated"] != false {
		t.Fatalf("unexpected response: %v", resp)
	}
	if q.Len() != 0 {
		t.Fatalf("untriggered request was queued")
	}
}

func TestPostInteractionValidatesRequiredFields(t *testing.T) {
	q := queue.NewMemoryQueue(8, log.Nop())
	defer q.Close()
	s := buildServerForTest(t, triggeredPersonas(), q)

	status, _ := postInteraction(t, s, map[string]interface{}{
		"query_text": "@Nucleus hello",
	})
	if status != 400 {
		t.Fatalf("status = %d, want 400", status)
	}
}

func TestHealthAndPersonaRoutes(t *testing.T) {
	q := queue.NewMemoryQueue(8, log.Nop())
	defer q.Close()
	s := buildServerForTest(t, triggeredPersonas(), q)

	w := ut.PerformRequest(s.Engine, "GET", "/api/health", &ut.Body{Body: bytes.NewReader(nil), Len: 0})
	if got := w.Result().StatusCode(); got != 200 {
		t.Fatalf("GET /api/health status = %d, want 200", got)
	}

	w = ut.PerformRequest(s.Engine, "GET", "/api/personas", &ut.Body{Body: bytes.NewReader(nil), Len: 0})
	if got := w.Result().StatusCode(); got != 200 {
		t.Fatalf("GET /api/personas status = %d, want 200", got)
	}
	if !bytes.Contains(w.Result().Body(), []byte(`"default"`)) {
		t.Fatalf("persona listing missing configured persona: %s", w.Result().Body())
	}
}

func TestMetricsRoute(t *testing.T) {
	q := queue.NewMemoryQueue(8, log.Nop())
	defer q.Close()
	s := buildServerForTest(t, triggeredPersonas(), q)

	w := ut.PerformRequest(s.Engine, "GET", "/api/system/metrics", &ut.Body{Body: bytes.NewReader(nil), Len: 0})
	if got := w.Result().StatusCode(); got != 200 {
		t.Fatalf("GET /api/system/metrics status = %d, want 200", got)
	}
	if !bytes.Contains(w.Result().Body(), []byte("nucleus_")) {
		t.Fatalf("metrics exposition missing nucleus metrics: %.200s", w.Result().Body())
	}
}

func TestTenantScopedActivation(t *testing.T) {
	p := persona.NewMemoryProvider()
	p.Put(&persona.Configuration{
		ID: "scoped", Enabled: true, Trigger: "@Nucleus",
		Tenants: []string{"tenant-a"}, StrategyKey: "echo",
	})
	q := queue.NewMemoryQueue(8, log.Nop())
	defer q.Close()
	s := buildServerForTest(t, p, q)

	status, _ := postInteraction(t, s, map[string]interface{}{
		"platform_type":   "testchat",
		"conversation_id": "c1",
		"query_text":      "@Nucleus hello",
		"metadata":        map[string]string{"tenant_id": "tenant-b"},
	})
	if status != 200 {
		t.Fatalf("out-of-tenant request should be ignored, status = %d", status)
	}

	status, _ = postInteraction(t, s, map[string]interface{}{
		"platform_type":   "testchat",
		"conversation_id": "c1",
		"query_text":      "@Nucleus hello",
		"metadata":        map[string]string{"tenant_id": "tenant-a"},
	})
	if status != 202 {
		t.Fatalf("in-tenant request should queue, status = %d", status)
	}
}
