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

package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"nucleus-gateway/pkg/config"
	"nucleus-gateway/pkg/log"
)

func TestRegistryBuildsConfiguredNotifiers(t *testing.T) {
	reg, err := NewRegistry(config.NotifyConfig{
		Platforms: map[string]config.NotifierConfig{
			"slack": {Type: "console"},
			"teams": {Type: "webhook", Endpoint: "https://callback.example.com/notify"},
		},
	}, log.Nop())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if reg.For("slack") == nil || reg.For("teams") == nil {
		t.Fatal("configured platforms missing")
	}
	if reg.For("discord") != nil {
		t.Fatal("unconfigured platform should be nil")
	}
}

func TestRegistryRejectsUnknownType(t *testing.T) {
	_, err := NewRegistry(config.NotifyConfig{
		Platforms: map[string]config.NotifierConfig{
			"slack": {Type: "carrier-pigeon"},
		},
	}, log.Nop())
	if err == nil {
		t.Fatal("expected error for unknown notifier type")
	}
}

func TestWebhookNotifierRequiresEndpoint(t *testing.T) {
	if _, err := NewWebhookNotifier("slack", config.NotifierConfig{Type: "webhook"}); err == nil {
		t.Fatal("expected error for missing endpoint")
	}
}

func TestWebhookNotifierDelivers(t *testing.T) {
	var got webhookPayload
	var auth string
	// The server deliberately omits the JSON content-type header; real
	// platforms do too, and the sent id must survive that.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(webhookResult{SentID: "msg-42"})
	}))
	defer srv.Close()

	n, err := NewWebhookNotifier("slack", config.NotifierConfig{
		Type:     "webhook",
		Endpoint: srv.URL,
		Token:    "tok-1",
		RPS:      100,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	sentID, err := n.Send(context.Background(), "c1", "hello back", "m9")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sentID != "msg-42" {
		t.Fatalf("unexpected sent id: %q", sentID)
	}
	if got.ConversationID != "c1" || got.Text != "hello back" || got.ReplyToID != "m9" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if auth != "Bearer tok-1" {
		t.Fatalf("auth token not sent: %q", auth)
	}
}

func TestWebhookNotifierToleratesEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n, err := NewWebhookNotifier("slack", config.NotifierConfig{Type: "webhook", Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	sentID, err := n.Send(context.Background(), "c1", "x", "")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sentID != "" {
		t.Fatalf("expected empty sent id, got %q", sentID)
	}
}

func TestWebhookNotifierFailsOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	n, err := NewWebhookNotifier("slack", config.NotifierConfig{Type: "webhook", Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := n.Send(context.Background(), "c1", "x", ""); err == nil {
		t.Fatal("expected delivery error for 502")
	}
}

func TestConsoleNotifierReturnsSentID(t *testing.T) {
	n := NewConsoleNotifier("slack", log.Nop())
	sentID, err := n.Send(context.Background(), "c1", "hi", "")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sentID == "" {
		t.Fatal("expected generated sent id")
	}
}
