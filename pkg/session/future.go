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
	"sync"

	"github.com/JinHeap/mina-sshd/api"
)

// writeFuture completes exactly once when a queued packet hits the wire or
// the write fails. Listeners added after completion fire immediately on the
// caller's goroutine.
type writeFuture struct {
	mu        sync.Mutex
	done      bool
	err       error
	listeners []func(api.Future)
}

func newWriteFuture() *writeFuture {
	return &writeFuture{}
}

func (f *writeFuture) AddListener(fn func(api.Future)) {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		fn(f)
		return
	}
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
}

func (f *writeFuture) IsDone() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

func (f *writeFuture) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// complete resolves the future. Second and later calls are ignored.
func (f *writeFuture) complete(err error) {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return
	}
	f.done = true
	f.err = err
	listeners := f.listeners
	f.listeners = nil
	f.mu.Unlock()
	for _, fn := range listeners {
		fn(f)
	}
}
