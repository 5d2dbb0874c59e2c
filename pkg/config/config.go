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

// Package config reads the client properties file. Only the keep-alive
// surface is modeled here; absent values keep their defaults, and optional
// values are pointers so "unset" is distinguishable from zero.
package config

import (
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/JinHeap/mina-sshd/pkg/keepalive"
)

// Duration is a time.Duration that TOML-decodes from strings like "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Properties is the client configuration surface consumed by the keep-alive
// subsystem, mirroring the heartbeat properties of the original client.
type Properties struct {
	// HeartbeatRequest is the probe request name. Empty string disables
	// the mechanism.
	HeartbeatRequest string `toml:"heartbeat_request"`

	// HeartbeatInterval is the gap between probes. Unset or non-positive
	// disables the mechanism.
	HeartbeatInterval Duration `toml:"heartbeat_interval"`

	// HeartbeatNoReplyMax is the explicit maximum of consecutive
	// unanswered probes. Nil means unset.
	HeartbeatNoReplyMax *int `toml:"heartbeat_no_reply_max"`

	// HeartbeatReplyWait is the deprecated single reply timeout, kept for
	// compatibility. Nil means unset. Ignored when HeartbeatNoReplyMax is
	// set.
	HeartbeatReplyWait *Duration `toml:"heartbeat_reply_wait"`
}

// Defaults returns the properties as the original client ships them: the
// standard request name and the mechanism disabled until an interval is
// configured.
func Defaults() Properties {
	return Properties{
		HeartbeatRequest: keepalive.DefaultRequest,
	}
}

// Load reads properties from a TOML file at path, on top of Defaults.
func Load(path string) (Properties, error) {
	f, err := os.Open(path)
	if err != nil {
		return Properties{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads properties from TOML on r, on top of Defaults.
func Parse(r io.Reader) (Properties, error) {
	p := Defaults()
	if _, err := toml.NewDecoder(r).Decode(&p); err != nil {
		return Properties{}, err
	}
	return p, nil
}

// Heartbeat resolves the properties into the keep-alive configuration.
func (p Properties) Heartbeat() keepalive.Config {
	var wait *time.Duration
	if p.HeartbeatReplyWait != nil {
		w := p.HeartbeatReplyWait.Duration
		wait = &w
	}
	return keepalive.Resolve(
		p.HeartbeatRequest,
		p.HeartbeatInterval.Duration,
		p.HeartbeatNoReplyMax,
		wait,
		keepalive.DefaultMaxNoReply,
	)
}
