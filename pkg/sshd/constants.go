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

// SSH message numbers (RFC 4253 sections 11 and 12). Only the ones the
// connection-layer keep-alive deals with.
const (
	MsgDisconnect     byte = 1
	MsgUnimplemented  byte = 3
	MsgGlobalRequest  byte = 80
	MsgRequestSuccess byte = 81
	MsgRequestFailure byte = 82
)

// MsgName returns a printable name for a message number, for logging.
func MsgName(msg byte) string {
	switch msg {
	case MsgDisconnect:
		return "SSH_MSG_DISCONNECT"
	case MsgUnimplemented:
		return "SSH_MSG_UNIMPLEMENTED"
	case MsgGlobalRequest:
		return "SSH_MSG_GLOBAL_REQUEST"
	case MsgRequestSuccess:
		return "SSH_MSG_REQUEST_SUCCESS"
	case MsgRequestFailure:
		return "SSH_MSG_REQUEST_FAILURE"
	default:
		return "SSH_MSG_UNKNOWN"
	}
}
