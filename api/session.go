package api

import (
	"github.com/JinHeap/mina-sshd/pkg/sshd"
)

// KexState is the session key-exchange tri-state. Global requests are
// deferred while a key exchange runs, so the keep-alive core must not count
// probes during that window.
type KexState int32

const (
	// KexUnknown means no key exchange has completed yet.
	KexUnknown KexState = iota
	// KexRun means a key exchange is in progress.
	KexRun
	// KexDone means keys are established and global requests flow normally.
	KexDone
)

func (s KexState) String() string {
	switch s {
	case KexRun:
		return "RUN"
	case KexDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// ReplyHandler is invoked exactly once when the peer answers a global
// request. cmd is the reply message number (SSH_MSG_REQUEST_SUCCESS,
// SSH_MSG_REQUEST_FAILURE or SSH_MSG_UNIMPLEMENTED); for liveness purposes
// all three prove the peer is alive.
type ReplyHandler func(cmd byte, payload []byte)

// Future is the completion handle for an asynchronous send. Listeners added
// after completion fire immediately on the caller's goroutine.
type Future interface {
	// AddListener registers fn to run once when the send completes.
	AddListener(fn func(Future))

	// IsDone reports whether the send has completed.
	IsDone() bool

	// Err returns the completion error, nil on success. Meaningful only
	// once IsDone reports true.
	Err() error
}

// Session is the slice of the client session the keep-alive core consumes.
type Session interface {
	// KexState returns the current key-exchange state.
	KexState() KexState

	// CreateBuffer allocates an outgoing packet buffer for the given
	// message number. sizeHint is advisory.
	CreateBuffer(msg byte, sizeHint int) *sshd.Buffer

	// Request sends buf as a global request named name and registers reply
	// to fire when the peer answers. The send is asynchronous; the returned
	// future completes when the packet hits the wire.
	Request(buf *sshd.Buffer, name string, reply ReplyHandler) (Future, error)

	// WritePacket sends buf without expecting any reply. The future
	// completes when the packet hits the wire (or the write fails).
	WritePacket(buf *sshd.Buffer) (Future, error)

	// ExceptionCaught reports a fatal condition to the session. The session
	// is expected to shut down as a result.
	ExceptionCaught(err error)
}
