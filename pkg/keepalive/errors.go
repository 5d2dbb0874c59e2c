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
	"errors"
	"fmt"
)

// LivenessError is reported to the session's fault sink when the peer has
// failed to answer more than the tolerated number of consecutive probes.
// It is the terminal failure signal of this subsystem and is
// distinguishable from generic transport errors with errors.As.
type LivenessError struct {
	// Missed is the number of probes that went unanswered before the
	// breach was detected.
	Missed int
}

func (e *LivenessError) Error() string {
	return fmt.Sprintf("got %d heartbeat requests without reply", e.Missed)
}

// IsLivenessError reports whether err (or anything it wraps) is a liveness
// threshold breach.
func IsLivenessError(err error) bool {
	var le *LivenessError
	return errors.As(err, &le)
}
