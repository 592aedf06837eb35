// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"errors"
	"fmt"

	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/driver"
)

// Exit statuses outside the driver's own.
const (
	exitUsage = 2
)

// ExitError carries a process exit status out of a cobra RunE.
//
// # Description
//
// Commands report their outcome by returning an ExitError instead of
// calling os.Exit, so deferred cleanup (log files, the status listener) still
// runs. Err is optional: a nil Err means the command already printed
// everything the operator needs.
//
// # Example
//
//	if report.State == driver.StateFault {
//	    return &ExitError{Code: report.ExitCode(), Err: report.Err}
//	}
type ExitError struct {
	// Code is the process exit status.
	Code int

	// Err is the underlying error, may be nil.
	Err error
}

// Error returns the wrapped error text or the bare status.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// usageError marks err as a configuration or usage problem.
func usageError(err error) *ExitError {
	return &ExitError{Code: exitUsage, Err: err}
}

// exitCode maps a RunE error to the process status. Errors that are not
// ExitErrors come from cobra's own argument and flag parsing.
func exitCode(err error) int {
	if err == nil {
		return driver.ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return exitUsage
}
