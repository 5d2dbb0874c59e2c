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

// Package transport dials the underlying TCP connection for a client
// session. It configures OS-level TCP keep-alive on the socket, a lower
// layer than the protocol-level probes in pkg/keepalive covering the case
// where the remote host itself is gone, and retries the dial with
// exponential backoff.
package transport

import (
	"context"
	"net"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Options tunes dialing and the TCP-level keep-alive of the resulting
// socket. The zero value dials once with no socket tuning.
type Options struct {
	// ConnectTimeout bounds a single dial attempt. Zero means the
	// net.Dialer default.
	ConnectTimeout time.Duration

	// KeepAliveIdle is the idle time before the kernel sends the first
	// TCP keep-alive probe. Zero leaves the kernel default.
	KeepAliveIdle time.Duration

	// KeepAliveInterval is the gap between kernel keep-alive probes.
	KeepAliveInterval time.Duration

	// KeepAliveCount is the number of unanswered kernel probes before the
	// connection is dropped. Zero leaves the kernel default.
	KeepAliveCount int

	// NoDelay disables Nagle's algorithm on the socket.
	NoDelay bool

	// MaxRetries is the number of dial retries after the first attempt.
	// Zero means no retries.
	MaxRetries uint64

	// RetryInterval is the initial backoff between retries. Default 500ms.
	RetryInterval time.Duration
}

// Dial connects to addr on network, retrying with exponential backoff and
// honoring ctx cancellation between attempts.
func Dial(ctx context.Context, network, addr string, opts Options) (net.Conn, error) {
	dialer := &net.Dialer{
		Timeout: opts.ConnectTimeout,
		Control: func(network, address string, c syscall.RawConn) error {
			var soErr error
			err := c.Control(func(fd uintptr) {
				soErr = setSocketOptions(fd, opts)
			})
			if err != nil {
				return err
			}
			return soErr
		},
	}

	attempt := func() (net.Conn, error) {
		return dialer.DialContext(ctx, network, addr)
	}

	if opts.MaxRetries == 0 {
		return attempt()
	}
	interval := opts.RetryInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = interval
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, opts.MaxRetries), ctx)
	return backoff.RetryWithData(attempt, policy)
}
