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

package model

// AdapterResponse is the terminal output of the pipeline for one
// interaction.
type AdapterResponse struct {
	Success           bool               `json:"success"`
	ResponseMessage   string             `json:"response_message,omitempty"`
	ErrorMessage      string             `json:"error_message,omitempty"`
	GeneratedArtifact *ArtifactReference `json:"generated_artifact,omitempty"`
}

// FailedResponse builds the standard failure response used when a
// strategy cannot run (configuration errors, handler panics).
func FailedResponse(errMsg string) *AdapterResponse {
	return &AdapterResponse{Success: false, ErrorMessage: errMsg}
}

// ExecutionStatus drives the queue completion decision after a strategy
// runs: the first three statuses complete the message, the rest abandon
// it for broker retry or dead-letter.
type ExecutionStatus int

const (
	StatusSuccess ExecutionStatus = iota
	StatusFiltered
	StatusNoActionTaken
	StatusFailed
	StatusErrorInResourceFetch
	StatusErrorInExtraction
	StatusErrorInPersonaLogic
)

var statusNames = map[ExecutionStatus]string{
	StatusSuccess:              "success",
	StatusFiltered:             "filtered",
	StatusNoActionTaken:        "no_action_taken",
	StatusFailed:               "failed",
	StatusErrorInResourceFetch: "error_in_resource_fetch",
	StatusErrorInExtraction:    "error_in_extraction",
	StatusErrorInPersonaLogic:  "error_in_persona_logic",
}

func (s ExecutionStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminalSuccess reports whether the status completes the queued
// message rather than abandoning it.
func (s ExecutionStatus) IsTerminalSuccess() bool {
	switch s {
	case StatusSuccess, StatusFiltered, StatusNoActionTaken:
		return true
	default:
		return false
	}
}
