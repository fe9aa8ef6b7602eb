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

	"github.com/google/uuid"

	"nucleus-gateway/pkg/log"
)

// ConsoleNotifier writes deliveries to the structured log. Used in
// development and as the fallback when a platform has no real channel.
type ConsoleNotifier struct {
	platform string
	logger   *log.Logger
}

func NewConsoleNotifier(platform string, logger *log.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{platform: platform, logger: logger}
}

func (n *ConsoleNotifier) Send(ctx context.Context, conversationID, text, replyToID string) (string, error) {
	sentID := uuid.NewString()
	n.logger.Info("notification delivered",
		"platform", n.platform,
		"conversation_id", conversationID,
		"reply_to", replyToID,
		"sent_id", sentID,
		"text", text,
	)
	return sentID, nil
}
