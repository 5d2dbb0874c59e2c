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

//go:build linux

package transport

import (
	"golang.org/x/sys/unix"
)

func setSocketOptions(fd uintptr, opts Options) error {
	s := int(fd)
	if opts.KeepAliveIdle > 0 || opts.KeepAliveInterval > 0 || opts.KeepAliveCount > 0 {
		if err := unix.SetsockoptInt(s, unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1); err != nil {
			return err
		}
	}
	if opts.KeepAliveIdle > 0 {
		if err := unix.SetsockoptInt(s, unix.IPPROTO_TCP, unix.TCP_KEEPIDLE, seconds(opts.KeepAliveIdle)); err != nil {
			return err
		}
	}
	if opts.KeepAliveInterval > 0 {
		if err := unix.SetsockoptInt(s, unix.IPPROTO_TCP, unix.TCP_KEEPINTVL, seconds(opts.KeepAliveInterval)); err != nil {
			return err
		}
	}
	if opts.KeepAliveCount > 0 {
		if err := unix.SetsockoptInt(s, unix.IPPROTO_TCP, unix.TCP_KEEPCNT, opts.KeepAliveCount); err != nil {
			return err
		}
	}
	if opts.NoDelay {
		if err := unix.SetsockoptInt(s, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1); err != nil {
			return err
		}
	}
	return nil
}
