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
	"errors"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/JinHeap/mina-sshd/api"
	"github.com/JinHeap/mina-sshd/internal/logging"
)

var (
	// ErrSchedulerClosed is returned when scheduling on a closed scheduler.
	ErrSchedulerClosed = errors.New("keepalive: scheduler closed")
	// ErrInvalidPeriod is returned for non-positive schedule periods.
	ErrInvalidPeriod = errors.New("keepalive: non-positive period")
)

// PoolScheduler implements api.Scheduler on a shared goroutine pool. Each
// schedule owns one timing goroutine; the task body runs on the pool so a
// slow tick never stalls the timing of other sessions. Ticks of one
// schedule never overlap: a tick that fires while the previous body is
// still running is dropped.
type PoolScheduler struct {
	pool   *ants.Pool
	log    *logging.Logger
	closed atomic.Bool
}

// NewPoolScheduler creates a scheduler backed by a pool of size workers;
// size <= 0 means an unbounded pool. The pool is non-blocking: ticks that
// find no free worker are skipped rather than queued.
func NewPoolScheduler(size int) (*PoolScheduler, error) {
	if size <= 0 {
		size = ants.DefaultAntsPoolSize
	}
	pool, err := ants.NewPool(size, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	return &PoolScheduler{
		pool: pool,
		log:  logging.New("scheduler"),
	}, nil
}

// ScheduleAtFixedRate implements api.Scheduler. The first run happens after
// initialDelay, then every period. The handle cancels future runs only.
func (s *PoolScheduler) ScheduleAtFixedRate(initialDelay, period time.Duration, fn func()) (api.Cancelable, error) {
	if s.closed.Load() {
		return nil, ErrSchedulerClosed
	}
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if initialDelay < 0 {
		initialDelay = 0
	}
	h := &scheduleHandle{stop: make(chan struct{})}
	go s.run(h, initialDelay, period, fn)
	return h, nil
}

// Close cancels nothing that is already scheduled but refuses new
// schedules and releases the worker pool once outstanding tasks drain.
func (s *PoolScheduler) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.pool.Release()
	}
}

func (s *PoolScheduler) run(h *scheduleHandle, initialDelay, period time.Duration, fn func()) {
	timer := time.NewTimer(initialDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-h.stop:
		return
	}
	s.dispatch(h, fn)

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.dispatch(h, fn)
		case <-h.stop:
			return
		}
	}
}

func (s *PoolScheduler) dispatch(h *scheduleHandle, fn func()) {
	if h.IsCancelled() {
		return
	}
	if !h.running.CompareAndSwap(false, true) {
		// Previous tick still executing; keep the period gate.
		s.log.Debugf("tick overlapped previous execution, skipping")
		return
	}
	err := s.pool.Submit(func() {
		defer h.running.Store(false)
		fn()
	})
	if err != nil {
		h.running.Store(false)
		s.log.Warnf("tick dispatch failed: %v", err)
	}
}

type scheduleHandle struct {
	cancelled atomic.Bool
	running   atomic.Bool
	stop      chan struct{}
}

func (h *scheduleHandle) Cancel() bool {
	if h.cancelled.CompareAndSwap(false, true) {
		close(h.stop)
		return true
	}
	return false
}

func (h *scheduleHandle) IsCancelled() bool {
	return h.cancelled.Load()
}
