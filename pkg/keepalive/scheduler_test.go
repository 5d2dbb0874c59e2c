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
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleFirstTickAfterFullInterval(t *testing.T) {
	s, err := NewPoolScheduler(4)
	require.NoError(t, err)
	defer s.Close()

	var ticks atomic.Int32
	h, err := s.ScheduleAtFixedRate(100*time.Millisecond, 100*time.Millisecond, func() {
		ticks.Add(1)
	})
	require.NoError(t, err)
	defer h.Cancel()

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), ticks.Load(), "tick fired before the initial delay")

	time.Sleep(120 * time.Millisecond)
	assert.GreaterOrEqual(t, ticks.Load(), int32(1))
}

func TestScheduleRepeats(t *testing.T) {
	s, err := NewPoolScheduler(4)
	require.NoError(t, err)
	defer s.Close()

	var ticks atomic.Int32
	h, err := s.ScheduleAtFixedRate(10*time.Millisecond, 20*time.Millisecond, func() {
		ticks.Add(1)
	})
	require.NoError(t, err)
	defer h.Cancel()

	time.Sleep(150 * time.Millisecond)
	assert.GreaterOrEqual(t, ticks.Load(), int32(3))
}

func TestCancelStopsTicksAndIsIdempotent(t *testing.T) {
	s, err := NewPoolScheduler(4)
	require.NoError(t, err)
	defer s.Close()

	var ticks atomic.Int32
	h, err := s.ScheduleAtFixedRate(10*time.Millisecond, 10*time.Millisecond, func() {
		ticks.Add(1)
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	assert.True(t, h.Cancel())
	assert.False(t, h.Cancel(), "second cancel must report already cancelled")
	assert.True(t, h.IsCancelled())

	// Let a tick dispatched just before the cancel drain.
	time.Sleep(20 * time.Millisecond)
	seen := ticks.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, seen, ticks.Load(), "ticks continued after cancel")
}

func TestTicksNeverOverlap(t *testing.T) {
	s, err := NewPoolScheduler(4)
	require.NoError(t, err)
	defer s.Close()

	var inFlight atomic.Int32
	var overlapped atomic.Bool
	h, err := s.ScheduleAtFixedRate(10*time.Millisecond, 10*time.Millisecond, func() {
		if inFlight.Add(1) > 1 {
			overlapped.Store(true)
		}
		time.Sleep(35 * time.Millisecond)
		inFlight.Add(-1)
	})
	require.NoError(t, err)
	defer h.Cancel()

	time.Sleep(200 * time.Millisecond)
	assert.False(t, overlapped.Load(), "two ticks of one schedule ran concurrently")
}

func TestScheduleValidation(t *testing.T) {
	s, err := NewPoolScheduler(4)
	require.NoError(t, err)

	_, err = s.ScheduleAtFixedRate(0, 0, func() {})
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	s.Close()
	_, err = s.ScheduleAtFixedRate(0, time.Second, func() {})
	assert.ErrorIs(t, err, ErrSchedulerClosed)
}
