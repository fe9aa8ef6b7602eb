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

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

func apiBaseURL() string {
	if u := os.Getenv("NUCLEUS_API_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func newClient() *resty.Client {
	c := resty.New().
		SetBaseURL(apiBaseURL()).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json")
	if token := os.Getenv("NUCLEUS_API_TOKEN"); token != "" {
		c.SetAuthToken(token)
	}
	return c
}

func getHealth() (map[string]interface{}, error) {
	var out map[string]interface{}
	resp, err := newClient().R().
		SetResult(&out).
		Get("/api/health")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("GET /api/health: %s", resp.String())
	}
	return out, nil
}

func listPersonas() ([]map[string]interface{}, error) {
	var out struct {
		Personas []map[string]interface{} `json:"personas"`
	}
	resp, err := newClient().R().
		SetResult(&out).
		Get("/api/personas")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("GET /api/personas: %s", resp.String())
	}
	return out.Personas, nil
}

func sendInteraction(platform, conversation, text string) (map[string]interface{}, error) {
	body := map[string]interface{}{
		"platform_type":   platform,
		"conversation_id": conversation,
		"user_id":         "cli",
		"query_text":      text,
	}
	var out map[string]interface{}
	resp, err := newClient().R().
		SetBody(body).
		SetResult(&out).
		Post("/api/interactions")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusAccepted {
		return nil, fmt.Errorf("POST /api/interactions: %s", resp.String())
	}
	return out, nil
}

func getMetrics() (string, error) {
	resp, err := newClient().R().Get("/api/system/metrics")
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("GET /api/system/metrics: %s", resp.String())
	}
	return resp.String(), nil
}

func login(adapterID, secret string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	resp, err := newClient().R().
		SetBody(map[string]string{"adapter_id": adapterID, "secret": secret}).
		SetResult(&out).
		Post("/api/auth/login")
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("POST /api/auth/login: %s", resp.String())
	}
	return out.Token, nil
}

func prettyJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
