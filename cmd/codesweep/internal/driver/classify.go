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
	"strings"
	"unicode/utf8"

	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/oracle"
)

// Outcome is the classification of one oracle response.
type Outcome int

const (
	// OutcomeNoMatch is the benign "tried, did not decrypt" response.
	OutcomeNoMatch Outcome = iota

	// OutcomeMatch means the candidate decrypted the device.
	OutcomeMatch

	// OutcomeFault is any response the driver cannot interpret.
	OutcomeFault
)

// String returns the metrics label of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeMatch:
		return "match"
	case OutcomeFault:
		return "fault"
	default:
		return "unknown"
	}
}

// Classify maps a raw oracle response onto an Outcome.
//
// Both recognised shapes require exit status 0 and an empty stderr:
//
//   - stdout containing oracle.StdoutSuccess is a match;
//   - stdout equal to oracle.StdoutNormal is a no-match.
//
// Everything else is a fault, returned as *ProtocolViolation, or as
// *DecodeFault when either stream is not valid UTF-8.
func Classify(res oracle.Result) (Outcome, error) {
	if !utf8.Valid(res.Stdout) {
		return OutcomeFault, &DecodeFault{Stream: "stdout", ExitCode: res.ExitCode, Stdout: res.Stdout, Stderr: res.Stderr}
	}
	if !utf8.Valid(res.Stderr) {
		return OutcomeFault, &DecodeFault{Stream: "stderr", ExitCode: res.ExitCode, Stdout: res.Stdout, Stderr: res.Stderr}
	}

	stdout, stderr := string(res.Stdout), string(res.Stderr)
	if res.Succeeded() && stderr == "" {
		if strings.Contains(stdout, oracle.StdoutSuccess) {
			return OutcomeMatch, nil
		}
		if stdout == oracle.StdoutNormal {
			return OutcomeNoMatch, nil
		}
	}
	return OutcomeFault, &ProtocolViolation{ExitCode: res.ExitCode, Stdout: stdout, Stderr: stderr}
}
