// Package adapter bridges the keep-alive subsystem to external systems:
// an HTTP health endpoint and OpenTelemetry instrumentation.
package adapter

import (
	"fmt"

	"github.com/heptiolabs/healthcheck"

	"github.com/JinHeap/mina-sshd/pkg/keepalive"
)

// PeerLivenessCheck fails once the keep-alive service has declared the
// connection dead.
func PeerLivenessCheck(svc *keepalive.Service) healthcheck.Check {
	return func() error {
		if svc.State() == keepalive.StateFaulted {
			return fmt.Errorf("peer declared dead after %d unanswered probes", svc.Outstanding())
		}
		return nil
	}
}

// ProbeBacklogCheck fails while the peer is lagging: the outstanding probe
// count has reached the configured maximum and the next unanswered probe
// will fault the session. In fire-and-forget mode it never fails.
func ProbeBacklogCheck(svc *keepalive.Service) healthcheck.Check {
	return func() error {
		max := svc.Config().MaxNoReply
		if max <= 0 {
			return nil
		}
		if n := svc.Outstanding(); n >= max {
			return fmt.Errorf("%d of %d tolerated probes unanswered", n, max)
		}
		return nil
	}
}

// NewHealthHandler wires the keep-alive state of svc into a healthcheck
// handler: liveness flips on a declared-dead peer, readiness flips while
// the probe backlog is at the threshold.
func NewHealthHandler(svc *keepalive.Service) healthcheck.Handler {
	h := healthcheck.NewHandler()
	h.AddLivenessCheck("ssh-peer-alive", PeerLivenessCheck(svc))
	h.AddReadinessCheck("ssh-probe-backlog", ProbeBacklogCheck(svc))
	return h
}
