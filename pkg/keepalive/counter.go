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
	"sync"
	"sync/atomic"

	"github.com/JinHeap/mina-sshd/api"
)

// LivenessCounter tracks probes sent since the last reply, the total ever
// sent, and the single schedule handle of the mechanism. A tick increments
// the outstanding count while a reply callback may concurrently reset it;
// both paths are atomic. The handle slot is mutex-guarded because start and
// stop serialize through it.
type LivenessCounter struct {
	outstanding atomic.Int64
	total       atomic.Uint64

	mu     sync.Mutex
	handle api.Cancelable
}

// MarkSent bumps the monotonic total-probes counter and returns the new
// value. Diagnostics only; never reset.
func (c *LivenessCounter) MarkSent() uint64 {
	return c.total.Add(1)
}

// TryIncrement bumps the outstanding count and checks it against max. The
// returned count includes this probe; ok is false when max is positive and
// the count exceeds it, meaning the probe must not be sent and the session
// is dead. With max <= 0 the count is unchecked.
func (c *LivenessCounter) TryIncrement(max int) (outstanding int, ok bool) {
	n := c.outstanding.Add(1)
	if max > 0 && n > int64(max) {
		return int(n), false
	}
	return int(n), true
}

// Reset clears the outstanding count. Called whenever a reply of any kind
// arrives, and when a schedule (re)starts.
func (c *LivenessCounter) Reset() {
	c.outstanding.Store(0)
}

// Outstanding returns the current count of unanswered probes.
func (c *LivenessCounter) Outstanding() int {
	return int(c.outstanding.Load())
}

// Total returns the number of probes ever sent by this instance.
func (c *LivenessCounter) Total() uint64 {
	return c.total.Load()
}

// SwapHandle installs h as the sole schedule handle and returns the
// previous one (nil when nothing was installed).
func (c *LivenessCounter) SwapHandle(h api.Cancelable) api.Cancelable {
	c.mu.Lock()
	old := c.handle
	c.handle = h
	c.mu.Unlock()
	return old
}

// Handle returns the current schedule handle, nil when the mechanism is
// not active.
func (c *LivenessCounter) Handle() api.Cancelable {
	c.mu.Lock()
	h := c.handle
	c.mu.Unlock()
	return h
}
