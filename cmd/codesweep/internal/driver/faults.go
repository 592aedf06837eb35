// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package driver

import (
	"fmt"
)

// ProtocolViolation is an oracle response matching neither the no-match
// nor the success shape. It carries the full response for diagnosis.
//
// The search never retries past a violation: the oracle's contract has
// changed and further attempts cannot be interpreted.
type ProtocolViolation struct {
	// ExitCode is the oracle's exit status.
	ExitCode int

	// Stdout is the oracle's standard output.
	Stdout string

	// Stderr is the oracle's standard error.
	Stderr string
}

// Error returns a one-line description of the violation.
func (e *ProtocolViolation) Error() string {
	return fmt.Sprintf("unexpected oracle response (exit %d): stdout %q, stderr %q", e.ExitCode, e.Stdout, e.Stderr)
}

// DecodeFault is an oracle response that is not valid UTF-8.
type DecodeFault struct {
	// Stream is "stdout" or "stderr".
	Stream string

	// ExitCode is the oracle's exit status.
	ExitCode int

	// Stdout and Stderr are the raw streams, undecodable one included.
	Stdout []byte
	Stderr []byte
}

// Error returns a one-line description of the fault.
func (e *DecodeFault) Error() string {
	return fmt.Sprintf("oracle %s is not valid UTF-8 (exit %d, %d bytes)", e.Stream, e.ExitCode, len(e.Raw()))
}

// Raw returns the stream that failed to decode.
func (e *DecodeFault) Raw() []byte {
	if e.Stream == "stderr" {
		return e.Stderr
	}
	return e.Stdout
}

// InvocationFault means the oracle could not be run at all.
type InvocationFault struct {
	Err error
}

// Error returns the wrapped cause.
func (e *InvocationFault) Error() string {
	return fmt.Sprintf("oracle invocation failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *InvocationFault) Unwrap() error {
	return e.Err
}
