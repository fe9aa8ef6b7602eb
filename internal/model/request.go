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

// Package model holds the shared data types that flow through the
// interaction pipeline: the inbound adapter request, artifact
// references and contents, the queued ingestion request, and the
// terminal adapter response.
package model

// AdapterRequest is one inbound interaction as delivered by a client
// adapter. Created once per request and never mutated.
type AdapterRequest struct {
	PlatformType       string              `json:"platform_type"`
	ConversationID     string              `json:"conversation_id"`
	UserID             string              `json:"user_id"`
	QueryText          string              `json:"query_text"`
	MessageID          string              `json:"message_id,omitempty"`
	ReplyToMessageID   string              `json:"reply_to_message_id,omitempty"`
	ArtifactReferences []ArtifactReference `json:"artifact_references,omitempty"`
	Metadata           map[string]string   `json:"metadata,omitempty"`
}

// ArtifactReference identifies an attachment without fetching it. The
// reference type selects which provider can resolve it.
type ArtifactReference struct {
	ReferenceID   string `json:"reference_id"`
	ReferenceType string `json:"reference_type"`
	SourceURI     string `json:"source_uri"`
	TenantID      string `json:"tenant_id,omitempty"`
	FileName      string `json:"file_name,omitempty"`
	MimeTypeHint  string `json:"mime_type_hint,omitempty"`
}
