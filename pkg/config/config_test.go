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

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JinHeap/mina-sshd/pkg/keepalive"
)

func TestParseFullSurface(t *testing.T) {
	p, err := Parse(strings.NewReader(`
heartbeat_request = "keepalive@example.com"
heartbeat_interval = "30s"
heartbeat_no_reply_max = 5
heartbeat_reply_wait = "2m"
`))
	require.NoError(t, err)
	assert.Equal(t, "keepalive@example.com", p.HeartbeatRequest)
	assert.Equal(t, 30*time.Second, p.HeartbeatInterval.Duration)
	require.NotNil(t, p.HeartbeatNoReplyMax)
	assert.Equal(t, 5, *p.HeartbeatNoReplyMax)
	require.NotNil(t, p.HeartbeatReplyWait)
	assert.Equal(t, 2*time.Minute, p.HeartbeatReplyWait.Duration)

	// The explicit maximum wins over the deprecated timeout.
	cfg := p.Heartbeat()
	assert.Equal(t, 5, cfg.MaxNoReply)
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	p, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, keepalive.DefaultRequest, p.HeartbeatRequest)
	assert.Nil(t, p.HeartbeatNoReplyMax)
	assert.Nil(t, p.HeartbeatReplyWait)

	cfg := p.Heartbeat()
	assert.True(t, cfg.Disabled(), "no interval means the mechanism stays off")
	assert.Equal(t, keepalive.DefaultMaxNoReply, cfg.MaxNoReply)
}

func TestParseLegacyTimeoutConversion(t *testing.T) {
	p, err := Parse(strings.NewReader(`
heartbeat_interval = "10s"
heartbeat_reply_wait = "25s"
`))
	require.NoError(t, err)
	cfg := p.Heartbeat()
	assert.False(t, cfg.Disabled())
	assert.Equal(t, 3, cfg.MaxNoReply)
}

func TestParseBadDuration(t *testing.T) {
	_, err := Parse(strings.NewReader(`heartbeat_interval = "soon"`))
	assert.Error(t, err)
}
