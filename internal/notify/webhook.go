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
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"nucleus-gateway/pkg/config"
	"nucleus-gateway/pkg/metrics"
)

// WebhookNotifier POSTs the response to a platform callback endpoint.
// Outbound calls are rate limited so a burst of completions cannot
// hammer the platform.
type WebhookNotifier struct {
	platform string
	endpoint string
	client   *resty.Client
	limiter  *rate.Limiter
}

// webhookPayload is the delivery body. sent_id is generated by the
// receiving platform and echoed back in the response.
type webhookPayload struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
	ReplyToID      string `json:"reply_to_id,omitempty"`
}

type webhookResult struct {
	SentID string `json:"sent_id"`
}

// NewWebhookNotifier builds a webhook notifier for one platform.
func NewWebhookNotifier(platform string, cfg config.NotifierConfig) (*WebhookNotifier, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("webhook notifier requires an endpoint")
	}
	client := resty.New().SetTimeout(config.ParseDuration(cfg.Timeout, 10*time.Second))
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	limit := rate.Inf
	burst := 1
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
		if b := int(cfg.RPS); b > 1 {
			burst = b
		}
	}
	return &WebhookNotifier{
		platform: platform,
		endpoint: cfg.Endpoint,
		client:   client,
		limiter:  rate.NewLimiter(limit, burst),
	}, nil
}

func (n *WebhookNotifier) Send(ctx context.Context, conversationID, text, replyToID string) (string, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("webhook notify %s: %w", n.platform, err)
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(webhookPayload{ConversationID: conversationID, Text: text, ReplyToID: replyToID}).
		Post(n.endpoint)
	if err != nil {
		metrics.NotifyFailTotal.WithLabelValues(n.platform).Inc()
		return "", fmt.Errorf("webhook notify %s: %w", n.platform, err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		metrics.NotifyFailTotal.WithLabelValues(n.platform).Inc()
		return "", fmt.Errorf("webhook notify %s: endpoint returned %d", n.platform, resp.StatusCode())
	}

	// Decode the body directly; platforms do not reliably set a JSON
	// content type and the sent id must survive that. An empty body
	// means the platform does not echo ids.
	var result webhookResult
	if body := resp.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			return "", fmt.Errorf("webhook notify %s: decode response: %w", n.platform, err)
		}
	}
	return result.SentID, nil
}
