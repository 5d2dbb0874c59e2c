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

package keepalive

// Recorder receives liveness events. Implementations live in pkg/metrics
// (Prometheus) and adapter (OpenTelemetry); a nil Recorder disables
// recording. Callbacks may run on tick or transport goroutines and must be
// cheap and non-blocking.
type Recorder interface {
	// ProbeSent fires after a probe was handed to the session.
	ProbeSent(total uint64, outstanding int)
	// ProbeSkipped fires when a tick was skipped because of a running key
	// exchange.
	ProbeSkipped()
	// ReplyReceived fires when any reply resets the outstanding count.
	ReplyReceived()
	// Fault fires when an error is reported to the session's fault sink.
	Fault(err error)
}

// MultiRecorder fans events out to every non-nil recorder in rs.
func MultiRecorder(rs ...Recorder) Recorder {
	out := make(multiRecorder, 0, len(rs))
	for _, r := range rs {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

type multiRecorder []Recorder

func (m multiRecorder) ProbeSent(total uint64, outstanding int) {
	for _, r := range m {
		r.ProbeSent(total, outstanding)
	}
}

func (m multiRecorder) ProbeSkipped() {
	for _, r := range m {
		r.ProbeSkipped()
	}
}

func (m multiRecorder) ReplyReceived() {
	for _, r := range m {
		r.ReplyReceived()
	}
}

func (m multiRecorder) Fault(err error) {
	for _, r := range m {
		r.Fault(err)
	}
}
