// Package api defines the collaborator contracts consumed by the keep-alive
// core: the scheduling facility, the session, and the completion futures the
// session hands back for asynchronous sends.
package api

import "time"

// Cancelable is a handle to scheduled repeating work.
type Cancelable interface {
	// Cancel stops future executions. It reports whether this call performed
	// the cancellation (false when already cancelled).
	Cancel() bool

	// IsCancelled reports whether the handle has been cancelled.
	IsCancelled() bool
}

// Scheduler schedules repeating background work. Implementations are shared
// between sessions; each schedule is independent and period-gated (two
// executions of the same task never overlap).
type Scheduler interface {
	// ScheduleAtFixedRate runs fn every period, the first run after
	// initialDelay. The returned handle cancels future runs only; a run
	// already dispatched completes on its own.
	ScheduleAtFixedRate(initialDelay, period time.Duration, fn func()) (Cancelable, error)
}
