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

package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JinHeap/mina-sshd/pkg/keepalive"
)

func counterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	_ = c.Write(m)
	return m.GetCounter().GetValue()
}

func gaugeValue(g prometheus.Gauge) float64 {
	m := &dto.Metric{}
	_ = g.Write(m)
	return m.GetGauge().GetValue()
}

func TestHeartbeatRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewHeartbeat(reg)

	// Heartbeat must satisfy the subsystem's recorder contract.
	var _ keepalive.Recorder = h

	h.ProbeSent(1, 1)
	h.ProbeSent(2, 2)
	assert.Equal(t, float64(2), counterValue(h.Sent))
	assert.Equal(t, float64(2), gaugeValue(h.Outstanding))

	h.ReplyReceived()
	assert.Equal(t, float64(1), counterValue(h.Replies))
	assert.Equal(t, float64(0), gaugeValue(h.Outstanding))

	h.ProbeSkipped()
	assert.Equal(t, float64(1), counterValue(h.Skipped))

	h.Fault(errors.New("dead peer"))
	assert.Equal(t, float64(1), counterValue(h.Faults))
}

func TestCollectorsRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = NewHeartbeat(reg)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"ssh_heartbeats_sent_total",
		"ssh_heartbeat_replies_total",
		"ssh_heartbeats_skipped_total",
		"ssh_heartbeat_faults_total",
		"ssh_heartbeat_outstanding",
	} {
		assert.True(t, names[want], "collector %s not registered", want)
	}
}
