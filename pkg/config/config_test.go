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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "api:\n  port: 9090\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d", cfg.API.Port)
	}
	if cfg.Queue.Type != "memory" || cfg.Queue.Capacity != 256 {
		t.Errorf("queue defaults = %+v", cfg.Queue)
	}
	if cfg.Queue.Redis.Stream != "nucleus:interactions" {
		t.Errorf("stream default = %q", cfg.Queue.Redis.Stream)
	}
	if cfg.Worker.Concurrency != 1 {
		t.Errorf("worker concurrency default = %d", cfg.Worker.Concurrency)
	}
}

func TestLoadConfig_Personas(t *testing.T) {
	path := writeConfig(t, `
personas:
  - id: helper
    enabled: true
    trigger: "@Nucleus"
    strategy_key: echo
    strategy_params:
      prefix: "you said"
  - id: dormant
    enabled: false
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Personas) != 2 {
		t.Fatalf("personas = %d", len(cfg.Personas))
	}
	p := cfg.Personas[0]
	if p.ID != "helper" || !p.Enabled || p.Trigger != "@Nucleus" || p.StrategyKey != "echo" {
		t.Errorf("persona = %+v", p)
	}
	if p.StrategyParams["prefix"] != "you said" {
		t.Errorf("strategy_params = %+v", p.StrategyParams)
	}
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"redis queue without addr", "queue:\n  type: redis\n"},
		{"postgres metadata without dsn", "storage:\n  metadata:\n    type: postgres\n"},
		{"unknown queue type", "queue:\n  type: kafka\n"},
		{"enabled persona without strategy", "personas:\n  - id: p1\n    enabled: true\n"},
		{"duplicate persona id", "personas:\n  - id: p1\n  - id: p1\n"},
		{"webhook notifier without endpoint", "notify:\n  platforms:\n    teams:\n      type: webhook\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.yaml)
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	if ParseDuration("", time.Second) != time.Second {
		t.Error("empty should fall back")
	}
	if ParseDuration("bogus", time.Second) != time.Second {
		t.Error("invalid should fall back")
	}
	if ParseDuration("250ms", time.Second) != 250*time.Millisecond {
		t.Error("valid duration not parsed")
	}
}
