/*
 * Copyright 2025 JinHeap Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package metrics exposes the keep-alive subsystem's Prometheus
// instrumentation. Heartbeat satisfies keepalive.Recorder.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Heartbeat holds the Prometheus collectors for one client process. The
// collectors are process-wide; per-session granularity is not worth the
// label cardinality for a liveness signal.
type Heartbeat struct {
	Sent        prometheus.Counter
	Replies     prometheus.Counter
	Skipped     prometheus.Counter
	Faults      prometheus.Counter
	Outstanding prometheus.Gauge
}

// NewHeartbeat builds and registers the heartbeat collectors on reg; nil
// registers on the default registry.
func NewHeartbeat(reg prometheus.Registerer) *Heartbeat {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	h := &Heartbeat{
		Sent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ssh_heartbeats_sent_total",
			Help: "Total number of keep-alive probes sent.",
		}),
		Replies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ssh_heartbeat_replies_total",
			Help: "Total number of keep-alive replies received, success or not.",
		}),
		Skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ssh_heartbeats_skipped_total",
			Help: "Total number of keep-alive ticks skipped during key exchange.",
		}),
		Faults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ssh_heartbeat_faults_total",
			Help: "Total number of keep-alive faults reported to the session.",
		}),
		Outstanding: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ssh_heartbeat_outstanding",
			Help: "Probes sent since the last reply of any kind.",
		}),
	}
	reg.MustRegister(h.Sent, h.Replies, h.Skipped, h.Faults, h.Outstanding)
	return h
}

// ProbeSent implements keepalive.Recorder.
func (h *Heartbeat) ProbeSent(total uint64, outstanding int) {
	h.Sent.Inc()
	h.Outstanding.Set(float64(outstanding))
}

// ProbeSkipped implements keepalive.Recorder.
func (h *Heartbeat) ProbeSkipped() {
	h.Skipped.Inc()
}

// ReplyReceived implements keepalive.Recorder.
func (h *Heartbeat) ReplyReceived() {
	h.Replies.Inc()
	h.Outstanding.Set(0)
}

// Fault implements keepalive.Recorder.
func (h *Heartbeat) Fault(err error) {
	h.Faults.Inc()
}
