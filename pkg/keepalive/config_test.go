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

package keepalive

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int                     { return &v }
func durPtr(d time.Duration) *time.Duration { return &d }

func TestResolveMaxNoReply(t *testing.T) {
	tests := []struct {
		name     string
		request  string
		interval time.Duration
		explicit *int
		wait     *time.Duration
		want     int
	}{
		{
			name:     "no legacy timeout uses default",
			request:  DefaultRequest,
			interval: 10 * time.Second,
			want:     DefaultMaxNoReply,
		},
		{
			name:     "explicit max wins without timeout",
			request:  DefaultRequest,
			interval: 10 * time.Second,
			explicit: intPtr(7),
			want:     7,
		},
		{
			name:     "explicit max wins over timeout",
			request:  DefaultRequest,
			interval: 10 * time.Second,
			explicit: intPtr(5),
			wait:     durPtr(25 * time.Second),
			want:     5,
		},
		{
			name:     "timeout longer than interval",
			request:  DefaultRequest,
			interval: 10 * time.Second,
			wait:     durPtr(25 * time.Second),
			want:     3,
		},
		{
			name:     "timeout equal to interval",
			request:  DefaultRequest,
			interval: 10 * time.Second,
			wait:     durPtr(10 * time.Second),
			want:     2,
		},
		{
			name:     "timeout shorter than interval",
			request:  DefaultRequest,
			interval: 30 * time.Second,
			wait:     durPtr(5 * time.Second),
			want:     1,
		},
		{
			name:     "zero timeout disables tracking",
			request:  DefaultRequest,
			interval: 10 * time.Second,
			wait:     durPtr(0),
			want:     0,
		},
		{
			name:     "negative timeout disables tracking",
			request:  DefaultRequest,
			interval: 10 * time.Second,
			wait:     durPtr(-time.Second),
			want:     0,
		},
		{
			name:     "huge timeout clamps to max int32",
			request:  DefaultRequest,
			interval: time.Nanosecond,
			wait:     durPtr(time.Duration(math.MaxInt64)),
			want:     math.MaxInt32,
		},
		{
			name:     "timeout ignored when interval disabled",
			request:  DefaultRequest,
			interval: 0,
			wait:     durPtr(25 * time.Second),
			want:     DefaultMaxNoReply,
		},
		{
			name:     "timeout ignored when request empty",
			request:  "",
			interval: 10 * time.Second,
			wait:     durPtr(25 * time.Second),
			explicit: intPtr(4),
			want:     4,
		},
		{
			name:     "negative explicit clamps to zero",
			request:  DefaultRequest,
			interval: 10 * time.Second,
			explicit: intPtr(-2),
			want:     0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Resolve(tt.request, tt.interval, tt.explicit, tt.wait, DefaultMaxNoReply)
			assert.Equal(t, tt.want, cfg.MaxNoReply)
			assert.Equal(t, tt.request, cfg.Request)
			assert.Equal(t, tt.interval, cfg.Interval)
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	a := Resolve(DefaultRequest, 10*time.Second, nil, durPtr(25*time.Second), DefaultMaxNoReply)
	b := Resolve(DefaultRequest, 10*time.Second, nil, durPtr(25*time.Second), DefaultMaxNoReply)
	assert.Equal(t, a, b)
}

func TestConfigDisabled(t *testing.T) {
	assert.True(t, Config{}.Disabled())
	assert.True(t, Config{Request: DefaultRequest}.Disabled())
	assert.True(t, Config{Request: DefaultRequest, Interval: -time.Second}.Disabled())
	assert.True(t, Config{Interval: time.Second}.Disabled())
	assert.False(t, Config{Request: DefaultRequest, Interval: time.Second}.Disabled())
}
