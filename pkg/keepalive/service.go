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
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/JinHeap/mina-sshd/api"
	"github.com/JinHeap/mina-sshd/internal/logging"
	"github.com/JinHeap/mina-sshd/pkg/sshd"
)

// State is the coarse lifecycle state of the mechanism.
type State int32

const (
	// StateDisabled means configuration resolved to "no probes".
	StateDisabled State = iota
	// StateIdle means configured but not currently scheduled.
	StateIdle
	// StateActive means the repeating probe schedule is installed.
	StateActive
	// StateFaulted means the liveness threshold was breached or a fatal
	// send error occurred; terminal for this instance.
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateFaulted:
		return "faulted"
	default:
		return "disabled"
	}
}

// Service runs the keep-alive mechanism for one session. Start and Stop are
// idempotent and serialize against each other; ticks run on the scheduler's
// pool and reply callbacks on the transport's goroutine, coordinated only
// through the LivenessCounter.
type Service struct {
	session api.Session
	sched   api.Scheduler
	cfg     Config

	counter *LivenessCounter
	hb      heartbeat
	state   atomic.Int32

	// serializes Start/Stop; never held across a send
	mu sync.Mutex

	rec Recorder
	log *logging.Logger
}

// NewService builds the keep-alive service for session with the resolved
// cfg. The probe-vs-plain strategy is chosen here, once, from cfg; a
// disabled configuration yields a service whose Start and ticks are no-ops.
func NewService(session api.Session, sched api.Scheduler, cfg Config) *Service {
	s := &Service{
		session: session,
		sched:   sched,
		cfg:     cfg,
		counter: &LivenessCounter{},
		log:     logging.New("keepalive"),
	}
	if cfg.Disabled() {
		s.hb = plainHeartbeat{}
		s.state.Store(int32(StateDisabled))
	} else {
		s.hb = probeHeartbeat{}
		s.state.Store(int32(StateIdle))
	}
	return s
}

// SetRecorder installs rec. Call before Start; not synchronized with a
// running schedule.
func (s *Service) SetRecorder(rec Recorder) {
	s.rec = rec
}

// Config returns the resolved configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	return State(s.state.Load())
}

// Outstanding returns the number of probes without a reply so far.
func (s *Service) Outstanding() int {
	return s.counter.Outstanding()
}

// TotalSent returns the number of probes ever sent by this instance.
func (s *Service) TotalSent() uint64 {
	return s.counter.Total()
}

// Start installs the repeating probe schedule. Any existing schedule is
// stopped first and the outstanding count reset, so calling Start twice
// leaves exactly one live timer. With a disabled configuration Start is the
// base no-op behavior and returns nil.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hb.start(s)
}

// Stop cancels the current schedule if one is installed. Safe to call when
// nothing is running and safe to call concurrently with Start. A tick
// already dispatched before Stop observes the cleared handle and no-ops.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Service) stopLocked() {
	if old := s.counter.SwapHandle(nil); old != nil {
		old.Cancel()
		s.log.Debugf("heartbeat schedule stopped")
	}
	// Faulted and Disabled are sticky.
	s.state.CompareAndSwap(int32(StateActive), int32(StateIdle))
}

// sendHeartbeat is the per-tick unit of work. It reports whether a probe
// was sent.
func (s *Service) sendHeartbeat() bool {
	return s.hb.tick(s)
}

// heartbeat is the once-at-construction strategy split: a plain no-op
// heartbeat when the probe mechanism is disabled, reply-tracking probes
// otherwise.
type heartbeat interface {
	start(s *Service) error
	tick(s *Service) bool
}

type plainHeartbeat struct{}

func (plainHeartbeat) start(*Service) error { return nil }
func (plainHeartbeat) tick(*Service) bool   { return false }

type probeHeartbeat struct{}

func (probeHeartbeat) start(s *Service) error {
	s.stopLocked()
	s.counter.Reset()
	h, err := s.sched.ScheduleAtFixedRate(s.cfg.Interval, s.cfg.Interval, func() {
		s.sendHeartbeat()
	})
	if err != nil {
		return fmt.Errorf("keepalive: schedule failed: %w", err)
	}
	s.counter.SwapHandle(h)
	s.state.Store(int32(StateActive))
	s.log.Debugf("heartbeat started, interval=%v request=%s maxNoReply=%d",
		s.cfg.Interval, s.cfg.Request, s.cfg.MaxNoReply)
	return nil
}

func (probeHeartbeat) tick(s *Service) (sent bool) {
	if s.counter.Handle() == nil {
		// A stop raced this tick; behave like the plain heartbeat.
		return plainHeartbeat{}.tick(s)
	}
	if s.session.KexState() != api.KexDone {
		// Global requests are delayed until the key exchange is over.
		// Counting here could kill a healthy but busy session.
		s.log.Tracef("skipping heartbeat during key exchange")
		if s.rec != nil {
			s.rec.ProbeSkipped()
		}
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			s.sendFailed(fmt.Errorf("keepalive: heartbeat panic: %v", r))
			sent = false
		}
	}()

	total := s.counter.MarkSent()
	withReply := s.cfg.MaxNoReply > 0
	outstanding, ok := s.counter.TryIncrement(s.cfg.MaxNoReply)
	if withReply && !ok {
		err := &LivenessError{Missed: outstanding - 1}
		s.state.Store(int32(StateFaulted))
		s.log.Warnf("liveness threshold breached: %v", err)
		if s.rec != nil {
			s.rec.Fault(err)
		}
		s.session.ExceptionCaught(err)
		return false
	}

	buf := s.session.CreateBuffer(sshd.MsgGlobalRequest, len(s.cfg.Request)+8)
	buf.PutString(s.cfg.Request)
	buf.PutBoolean(withReply)

	// Even when a reply is requested, the tick never waits for it.
	var fut api.Future
	var err error
	if withReply {
		fut, err = s.session.Request(buf, s.cfg.Request, func(cmd byte, payload []byte) {
			// Anything back proves liveness, SSH_MSG_UNIMPLEMENTED
			// included.
			s.counter.Reset()
			if s.rec != nil {
				s.rec.ReplyReceived()
			}
		})
	} else {
		fut, err = s.session.WritePacket(buf)
	}
	if err != nil {
		buf.Free()
		s.sendFailed(fmt.Errorf("keepalive: failed to send heartbeat #%d: %w", total, err))
		return false
	}
	fut.AddListener(s.futureDone)
	if s.rec != nil {
		s.rec.ProbeSent(total, outstanding)
	}
	s.log.Tracef("sent heartbeat #%d, outstanding=%d withReply=%v", total, outstanding, withReply)
	return true
}

// sendFailed reports a transport-level probe failure. Scheduling continues;
// the next tick retries naturally.
func (s *Service) sendFailed(err error) {
	s.log.Warnf("heartbeat send failed: %v", err)
	if s.rec != nil {
		s.rec.Fault(err)
	}
	s.session.ExceptionCaught(err)
}

// futureDone surfaces asynchronous transport failures of the probe write.
func (s *Service) futureDone(f api.Future) {
	if err := f.Err(); err != nil {
		s.sendFailed(fmt.Errorf("keepalive: heartbeat write failed: %w", err))
	}
}
