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

package session

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Workiva/go-datastructures/queue"
	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/JinHeap/mina-sshd/api"
	"github.com/JinHeap/mina-sshd/internal/logging"
	"github.com/JinHeap/mina-sshd/pkg/sshd"
)

var (
	// ErrSessionClosed is returned when sending on a closed session.
	ErrSessionClosed = errors.New("session: closed")
	// ErrWriteQueueFull is returned when the outbound queue backlog
	// exceeds its configured capacity.
	ErrWriteQueueFull = errors.New("session: write queue full")
)

// Packets larger than this are treated as a protocol error.
const maxPacketSize = 256 << 10

const defaultWriteQueueCap = 64

// Config carries the session tuning knobs. The zero value is usable.
type Config struct {
	// WriteQueueCap bounds the outbound packet backlog. Default 64.
	WriteQueueCap int

	// WriteTimeout is the per-packet write deadline; zero means none.
	WriteTimeout time.Duration
}

type writeItem struct {
	buf *sshd.Buffer
	fut *writeFuture
}

type pendingRequest struct {
	id      string
	name    string
	handler api.ReplyHandler
}

// Session is the client side of an established connection: it owns the
// outbound write queue, tracks global requests awaiting replies, and holds
// the key-exchange tri-state the keep-alive core consults. It implements
// api.Session.
//
// Global request replies arrive in request order, so pending requests are
// kept both in a concurrent map (by id, for diagnostics and teardown) and
// an ordered FIFO that pairs incoming replies with their requests.
type Session struct {
	id   string
	conn net.Conn
	cfg  Config

	kex atomic.Int32

	pending cmap.ConcurrentMap[string, *pendingRequest]
	fifoMu  sync.Mutex
	fifo    []string

	writeQ *queue.Queue

	closed   atomic.Bool
	closeMu  sync.Mutex
	firstErr error
	onClose  []func(error)

	log  *logging.Logger
	wire *logging.Logger
}

// New wraps an established, authenticated connection. It starts the writer
// and reader loops; the caller owns conn's lifetime through Close.
func New(conn net.Conn, cfg Config) *Session {
	if cfg.WriteQueueCap <= 0 {
		cfg.WriteQueueCap = defaultWriteQueueCap
	}
	s := &Session{
		id:      uuid.NewString(),
		conn:    conn,
		cfg:     cfg,
		pending: cmap.New[*pendingRequest](),
		writeQ:  queue.New(int64(cfg.WriteQueueCap)),
		log:     logging.New("session"),
		wire:    logging.New("wire trace"),
	}
	go s.writeLoop()
	go s.readLoop()
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// KexState implements api.Session.
func (s *Session) KexState() api.KexState {
	return api.KexState(s.kex.Load())
}

// StartKex marks a key exchange as running. Global requests keep flowing
// but the keep-alive core stops counting probes until FinishKex.
func (s *Session) StartKex() {
	s.kex.Store(int32(api.KexRun))
}

// FinishKex marks the key exchange as complete.
func (s *Session) FinishKex() {
	s.kex.Store(int32(api.KexDone))
}

// CreateBuffer implements api.Session.
func (s *Session) CreateBuffer(msg byte, sizeHint int) *sshd.Buffer {
	return sshd.NewBuffer(msg, sizeHint)
}

// Request implements api.Session: buf is enqueued as a global request named
// name and reply fires once when the peer answers it. On error the caller
// keeps ownership of buf.
func (s *Session) Request(buf *sshd.Buffer, name string, reply api.ReplyHandler) (api.Future, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	p := &pendingRequest{id: uuid.NewString(), name: name, handler: reply}
	s.pending.Set(p.id, p)
	s.fifoMu.Lock()
	s.fifo = append(s.fifo, p.id)
	s.fifoMu.Unlock()

	fut, err := s.enqueue(buf)
	if err != nil {
		s.removePending(p.id)
		return nil, err
	}
	return fut, nil
}

// WritePacket implements api.Session: fire-and-forget send. On error the
// caller keeps ownership of buf.
func (s *Session) WritePacket(buf *sshd.Buffer) (api.Future, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	return s.enqueue(buf)
}

func (s *Session) enqueue(buf *sshd.Buffer) (*writeFuture, error) {
	if s.writeQ.Len() >= int64(s.cfg.WriteQueueCap) {
		return nil, ErrWriteQueueFull
	}
	it := &writeItem{buf: buf, fut: newWriteFuture()}
	if err := s.writeQ.Put(it); err != nil {
		return nil, ErrSessionClosed
	}
	return it.fut, nil
}

// ExceptionCaught implements api.Session: it records the first fatal error
// and tears the session down.
func (s *Session) ExceptionCaught(err error) {
	s.log.Warnf("session %s fault: %v", s.id, err)
	s.close(err)
}

// Close shuts the session down. Idempotent; pending writes fail with
// ErrSessionClosed and registered OnClose callbacks run once.
func (s *Session) Close() error {
	s.close(nil)
	return nil
}

// OnClose registers fn to run when the session closes, with the fault that
// caused it (nil for an orderly close). If the session is already closed fn
// runs immediately.
func (s *Session) OnClose(fn func(error)) {
	s.closeMu.Lock()
	if s.closed.Load() {
		err := s.firstErr
		s.closeMu.Unlock()
		fn(err)
		return
	}
	s.onClose = append(s.onClose, fn)
	s.closeMu.Unlock()
}

func (s *Session) close(cause error) {
	s.closeMu.Lock()
	if s.closed.Load() {
		s.closeMu.Unlock()
		return
	}
	s.firstErr = cause
	s.closed.Store(true)
	callbacks := s.onClose
	s.onClose = nil
	s.closeMu.Unlock()

	// Fail everything still queued.
	for _, it := range s.writeQ.Dispose() {
		w := it.(*writeItem)
		w.fut.complete(ErrSessionClosed)
		w.buf.Free()
	}
	_ = s.conn.Close()

	// Pending reply handlers are dropped, not invoked: only peer responses
	// count as proof of liveness.
	s.fifoMu.Lock()
	s.fifo = nil
	s.fifoMu.Unlock()
	s.pending.Clear()

	for _, fn := range callbacks {
		fn(cause)
	}
	s.log.Infof("session %s closed, cause=%v", s.id, cause)
}

func (s *Session) writeLoop() {
	for {
		items, err := s.writeQ.Get(16)
		if err != nil {
			// Queue disposed on close.
			return
		}
		for i, it := range items {
			w := it.(*writeItem)
			werr := s.writeFrame(w.buf)
			w.fut.complete(werr)
			w.buf.Free()
			if werr != nil {
				for _, rest := range items[i+1:] {
					r := rest.(*writeItem)
					r.fut.complete(ErrSessionClosed)
					r.buf.Free()
				}
				s.ExceptionCaught(fmt.Errorf("session: packet write failed: %w", werr))
				return
			}
		}
	}
}

func (s *Session) writeFrame(buf *sshd.Buffer) error {
	if s.cfg.WriteTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	}
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(buf.Len()))
	if _, err := s.conn.Write(l[:]); err != nil {
		return err
	}
	_, err := s.conn.Write(buf.Bytes())
	if s.wire.Enabled(logging.LevelTrace) {
		s.wire.Tracef("sent %s len=%d err=%v", sshd.MsgName(buf.Msg()), buf.Len(), err)
	}
	return err
}

func (s *Session) readLoop() {
	for {
		payload, err := s.readFrame()
		if err != nil {
			if !s.closed.Load() {
				s.ExceptionCaught(fmt.Errorf("session: read failed: %w", err))
			}
			return
		}
		s.handlePacket(payload[0], payload[1:])
	}
}

func (s *Session) readFrame() ([]byte, error) {
	var l [4]byte
	if _, err := io.ReadFull(s.conn, l[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(l[:])
	if n == 0 || n > maxPacketSize {
		return nil, fmt.Errorf("session: bad packet length %d", n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(s.conn, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *Session) handlePacket(msg byte, body []byte) {
	if s.wire.Enabled(logging.LevelTrace) {
		s.wire.Tracef("received %s len=%d", sshd.MsgName(msg), len(body)+1)
	}
	switch msg {
	case sshd.MsgRequestSuccess, sshd.MsgRequestFailure, sshd.MsgUnimplemented:
		s.dispatchReply(msg, body)
	case sshd.MsgGlobalRequest:
		s.handleGlobalRequest(body)
	case sshd.MsgDisconnect:
		s.close(nil)
	default:
		s.log.Debugf("ignoring unexpected message %s", sshd.MsgName(msg))
	}
}

// dispatchReply pairs a reply with the oldest pending global request.
// Replies to requests sent with want-reply false do not exist at this
// layer, so FIFO pairing matches the protocol's ordering guarantee.
func (s *Session) dispatchReply(msg byte, body []byte) {
	s.fifoMu.Lock()
	var id string
	if len(s.fifo) > 0 {
		id = s.fifo[0]
		s.fifo = s.fifo[1:]
	}
	s.fifoMu.Unlock()
	if id == "" {
		s.log.Debugf("reply %s with no pending request", sshd.MsgName(msg))
		return
	}
	p, exists := s.pending.Get(id)
	s.pending.Remove(id)
	if !exists || p.handler == nil {
		return
	}
	p.handler(msg, body)
}

// handleGlobalRequest answers peer-initiated global requests. None are
// supported client-side, so anything that wants a reply gets a failure.
func (s *Session) handleGlobalRequest(body []byte) {
	name, rest, err := sshd.GetString(body)
	if err != nil {
		s.log.Debugf("malformed global request: %v", err)
		return
	}
	wantReply, _, err := sshd.GetBoolean(rest)
	if err != nil {
		s.log.Debugf("malformed global request %q: %v", name, err)
		return
	}
	s.log.Debugf("peer global request %q wantReply=%v", name, wantReply)
	if !wantReply {
		return
	}
	buf := s.CreateBuffer(sshd.MsgRequestFailure, 0)
	if _, err := s.WritePacket(buf); err != nil {
		buf.Free()
		s.log.Debugf("failed to refuse global request %q: %v", name, err)
	}
}

func (s *Session) removePending(id string) {
	s.pending.Remove(id)
	s.fifoMu.Lock()
	for i, v := range s.fifo {
		if v == id {
			s.fifo = append(s.fifo[:i], s.fifo[i+1:]...)
			break
		}
	}
	s.fifoMu.Unlock()
}
