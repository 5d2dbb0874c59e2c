// Package keepalive detects a silently dead SSH peer. A per-session service
// periodically sends a named global request ("keepalive@..." by default) and
// declares the connection dead when too many consecutive requests go
// unanswered, reporting the failure through the session's fault sink.
//
// The mechanism reconciles three configuration knobs (probe interval, an
// explicit maximum of unanswered probes, and a deprecated single reply
// timeout) into one resolved Config, see Resolve. Probes are skipped while
// a key exchange is running, since global requests are legitimately delayed
// during that window.
//
// Typical wiring:
//
//	sched, _ := keepalive.NewPoolScheduler(0)
//	cfg := keepalive.Resolve("keepalive@sshd.apache.org", 30*time.Second, nil, nil, keepalive.DefaultMaxNoReply)
//	svc := keepalive.NewService(session, sched, cfg)
//	svc.Start()
//	defer svc.Stop()
package keepalive
