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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalRequestEncoding(t *testing.T) {
	buf := NewBuffer(MsgGlobalRequest, 32)
	defer buf.Free()
	buf.PutString("keepalive@sshd.apache.org")
	buf.PutBoolean(true)

	assert.Equal(t, MsgGlobalRequest, buf.Msg())
	payload := buf.Bytes()
	require.Equal(t, MsgGlobalRequest, payload[0])

	name, rest, err := GetString(payload[1:])
	require.NoError(t, err)
	assert.Equal(t, "keepalive@sshd.apache.org", name)

	wantReply, rest, err := GetBoolean(rest)
	require.NoError(t, err)
	assert.True(t, wantReply)
	assert.Empty(t, rest)
}

func TestShortPayloadDecoding(t *testing.T) {
	_, _, err := GetString([]byte{0, 0})
	assert.ErrorIs(t, err, ErrShortPayload)

	// Length prefix claims more bytes than present.
	_, _, err = GetString([]byte{0, 0, 0, 9, 'a'})
	assert.ErrorIs(t, err, ErrShortPayload)

	_, _, err = GetBoolean(nil)
	assert.ErrorIs(t, err, ErrShortPayload)

	_, _, err = GetUint32([]byte{1})
	assert.ErrorIs(t, err, ErrShortPayload)
}

func TestMsgName(t *testing.T) {
	assert.Equal(t, "SSH_MSG_GLOBAL_REQUEST", MsgName(MsgGlobalRequest))
	assert.Equal(t, "SSH_MSG_UNKNOWN", MsgName(200))
}
