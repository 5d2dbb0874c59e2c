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

package sshd

import (
	"encoding/binary"
	"errors"

	"github.com/valyala/bytebufferpool"
)

var (
	// ErrShortPayload is returned when a decode runs past the payload end.
	ErrShortPayload = errors.New("sshd: payload too short")
)

// Buffer is an outgoing SSH packet payload: the message number followed by
// the message body. The backing storage comes from a shared pool; callers
// must Free after the packet has been handed to the wire (the session's
// writer loop does this for enqueued packets).
type Buffer struct {
	bb *bytebufferpool.ByteBuffer
}

// NewBuffer allocates a pooled buffer for the given message number.
// sizeHint is advisory only.
func NewBuffer(msg byte, sizeHint int) *Buffer {
	bb := bytebufferpool.Get()
	_ = bb.WriteByte(msg)
	return &Buffer{bb: bb}
}

// Msg returns the message number this buffer was created for.
func (b *Buffer) Msg() byte {
	return b.bb.B[0]
}

// Len returns the payload length, message byte included.
func (b *Buffer) Len() int {
	return b.bb.Len()
}

// Bytes returns the full payload. Valid until Free.
func (b *Buffer) Bytes() []byte {
	return b.bb.B
}

// PutString appends a uint32-length-prefixed string (RFC 4251 "string").
func (b *Buffer) PutString(s string) {
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(s)))
	_, _ = b.bb.Write(l[:])
	_, _ = b.bb.WriteString(s)
}

// PutBoolean appends an RFC 4251 "boolean" (one byte, 0 or 1).
func (b *Buffer) PutBoolean(v bool) {
	var c byte
	if v {
		c = 1
	}
	_ = b.bb.WriteByte(c)
}

// PutUint32 appends a big-endian uint32.
func (b *Buffer) PutUint32(v uint32) {
	var u [4]byte
	binary.BigEndian.PutUint32(u[:], v)
	_, _ = b.bb.Write(u[:])
}

// Free returns the backing storage to the pool. The buffer must not be
// used afterwards.
func (b *Buffer) Free() {
	if b.bb != nil {
		bytebufferpool.Put(b.bb)
		b.bb = nil
	}
}

// GetString decodes a length-prefixed string from p and returns it together
// with the remaining bytes.
func GetString(p []byte) (string, []byte, error) {
	if len(p) < 4 {
		return "", nil, ErrShortPayload
	}
	n := binary.BigEndian.Uint32(p)
	if uint32(len(p)-4) < n {
		return "", nil, ErrShortPayload
	}
	return string(p[4 : 4+n]), p[4+n:], nil
}

// GetBoolean decodes a boolean from p and returns the remaining bytes.
func GetBoolean(p []byte) (bool, []byte, error) {
	if len(p) < 1 {
		return false, nil, ErrShortPayload
	}
	return p[0] != 0, p[1:], nil
}

// GetUint32 decodes a big-endian uint32 from p and returns the remaining
// bytes.
func GetUint32(p []byte) (uint32, []byte, error) {
	if len(p) < 4 {
		return 0, nil, ErrShortPayload
	}
	return binary.BigEndian.Uint32(p), p[4:], nil
}
