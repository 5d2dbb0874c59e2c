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

import (
	"math"
	"time"
)

const (
	// DefaultRequest is the global request name used for probes when none
	// is configured.
	DefaultRequest = "keepalive@sshd.apache.org"

	// DefaultMaxNoReply is the fallback maximum of consecutive unanswered
	// probes when neither an explicit maximum nor the deprecated reply
	// timeout is configured.
	DefaultMaxNoReply = 3
)

// Config is the resolved heartbeat configuration, immutable for the
// lifetime of one connection-service instance.
type Config struct {
	// Request is the global request name sent as the probe. Empty disables
	// the mechanism.
	Request string

	// Interval is the gap between probes. Zero or negative disables the
	// mechanism.
	Interval time.Duration

	// MaxNoReply is the maximum number of consecutive unanswered probes
	// tolerated before the session is considered dead. Zero means probes
	// are sent fire-and-forget and replies are neither requested nor
	// tracked.
	MaxNoReply int
}

// Disabled reports whether the probe mechanism is off entirely.
func (c Config) Disabled() bool {
	return c.Request == "" || c.Interval <= 0
}

// Resolve combines the configured probe request name and interval with the
// explicit unanswered-probe maximum and the deprecated reply timeout into a
// resolved Config. It is pure and total: malformed inputs degrade to a
// disabled or fire-and-forget configuration rather than failing.
//
// An explicit maximum always wins. Otherwise a positive replyWait is
// converted: replyWait >= interval yields floor(replyWait/interval)+1
// (clamped to MaxInt32), approximating the old "kill after timeout"
// behavior as "kill after that many missed intervals"; a replyWait shorter
// than the interval yields 1; a non-positive replyWait yields 0. With no
// replyWait configured the plain defaultMax applies.
func Resolve(request string, interval time.Duration, explicitMax *int, replyWait *time.Duration, defaultMax int) Config {
	return Config{
		Request:    request,
		Interval:   interval,
		MaxNoReply: resolveMaxNoReply(request, interval, explicitMax, replyWait, defaultMax),
	}
}

func resolveMaxNoReply(request string, interval time.Duration, explicitMax *int, replyWait *time.Duration, defaultMax int) int {
	if replyWait == nil || interval <= 0 || request == "" {
		if explicitMax != nil {
			return clampNonNegative(*explicitMax)
		}
		return clampNonNegative(defaultMax)
	}
	// The deprecated timeout is configured. It only applies when the
	// maximum is not itself explicitly set.
	if explicitMax != nil {
		return clampNonNegative(*explicitMax)
	}
	wait := *replyWait
	if wait <= 0 {
		return 0
	}
	if wait >= interval {
		// The old mechanism killed the session once the timeout expired.
		// Sending at the configured interval, that is roughly
		// timeout/interval unanswered probes.
		multiple := float64(wait) / float64(interval)
		if multiple >= float64(math.MaxInt32-1) {
			return math.MaxInt32
		}
		return int(multiple) + 1
	}
	// Timeout shorter than the interval: every probe must be answered
	// before the next one goes out.
	return 1
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
