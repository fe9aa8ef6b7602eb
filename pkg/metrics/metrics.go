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

package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// DefaultRegistry is shared by the API and the worker for registration
// and exposition.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(
		InteractionDuration, InteractionTotal,
		QueueEnqueueTotal, QueueDequeueTotal, QueueCompleteTotal, QueueAbandonTotal, QueueDepth,
		ArtifactFetchDuration, ArtifactExtractDuration, ArtifactSkippedTotal, ArtifactDedupHitTotal,
		NotifyFailTotal, WorkerBusy,
	)
}

// InteractionDuration time spent processing one dequeued interaction (seconds).
var InteractionDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "nucleus_interaction_duration_seconds",
		Help:    "Time spent processing one dequeued interaction.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"persona_id"},
)

// InteractionTotal processed interactions by terminal status.
var InteractionTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "nucleus_interaction_total",
		Help: "Processed interactions by execution status.",
	},
	[]string{"status"},
)

// QueueEnqueueTotal items enqueued, by queue backend.
var QueueEnqueueTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "nucleus_queue_enqueue_total",
		Help: "Items enqueued.",
	},
	[]string{"backend"},
)

// QueueDequeueTotal items dequeued, by queue backend.
var QueueDequeueTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "nucleus_queue_dequeue_total",
		Help: "Items dequeued.",
	},
	[]string{"backend"},
)

// QueueCompleteTotal completed message lifecycles.
var QueueCompleteTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "nucleus_queue_complete_total",
		Help: "Messages acknowledged as successfully processed.",
	},
	[]string{"backend"},
)

// QueueAbandonTotal abandoned message lifecycles.
var QueueAbandonTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "nucleus_queue_abandon_total",
		Help: "Messages abandoned for broker retry or dead-letter.",
	},
	[]string{"backend"},
)

// QueueDepth current depth of the in-process queue.
var QueueDepth = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "nucleus_queue_depth",
		Help: "Current depth of the in-process queue.",
	},
)

// ArtifactFetchDuration artifact fetch time by provider (seconds).
var ArtifactFetchDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "nucleus_artifact_fetch_duration_seconds",
		Help:    "Artifact fetch time by provider.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"provider"},
)

// ArtifactExtractDuration artifact text extraction time by extractor (seconds).
var ArtifactExtractDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "nucleus_artifact_extract_duration_seconds",
		Help:    "Artifact text extraction time by extractor.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"extractor"},
)

// ArtifactSkippedTotal references skipped, by reason
// (no_provider | fetch_error | no_extractor | extract_error).
var ArtifactSkippedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "nucleus_artifact_skipped_total",
		Help: "Artifact references skipped, by reason.",
	},
	[]string{"reason"},
)

// ArtifactDedupHitTotal metadata short-circuits that avoided re-fetch.
var ArtifactDedupHitTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "nucleus_artifact_dedup_hit_total",
		Help: "Metadata lookups that short-circuited fetch and extraction.",
	},
)

// NotifyFailTotal notification deliveries that failed, by platform.
var NotifyFailTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "nucleus_notify_fail_total",
		Help: "Outbound notifications that failed to deliver.",
	},
	[]string{"platform"},
)

// WorkerBusy interactions currently being processed, per worker.
var WorkerBusy = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "nucleus_worker_busy",
		Help: "Interactions currently being processed.",
	},
	[]string{"worker_id"},
)

// WritePrometheus writes the registry in Prometheus text format
// (served by the API's metrics endpoint).
func WritePrometheus(w io.Writer) error {
	metrics, err := DefaultRegistry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range metrics {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
