// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

/*
Package oracle invokes the external decrypt command and captures its raw
response.

The oracle is a black box: it takes one passphrase, runs once, and reports
an exit status plus whatever it wrote to stdout and stderr. Interpreting
that response is the driver's job; this package only guarantees that the
triple is captured completely and that a failure to run the command at all
is reported as an error instead of a result.

All process execution goes through the Runner interface so tests never
spawn real processes.
*/
package oracle

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"sync"
	"time"
)

// -----------------------------------------------------------------------------
// Result
// -----------------------------------------------------------------------------

// Result is the complete response of one process run.
type Result struct {
	// ExitCode is the process exit status (0 on success).
	ExitCode int

	// Stdout is everything written to standard output.
	Stdout []byte

	// Stderr is everything written to standard error.
	Stderr []byte

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// Succeeded reports whether the process exited with status 0.
func (r Result) Succeeded() bool {
	return r.ExitCode == 0
}

// -----------------------------------------------------------------------------
// Runner
// -----------------------------------------------------------------------------

// Runner executes external processes.
//
// # Description
//
// Run starts the named program, waits for it to exit and returns its exit
// status together with captured stdout and stderr. A non-zero exit status
// is NOT an error: it is part of the Result. The error return is reserved
// for runs that could not happen at all (binary missing, permission
// denied, context already cancelled before start).
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)

	// LookPath resolves a binary name the way Run would.
	LookPath(name string) (string, error)
}

// ExecRunner implements Runner with os/exec.
type ExecRunner struct{}

// NewExecRunner creates a Runner that executes real processes.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes a command synchronously and captures its full response.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}
	if err != nil {
		// A process that ran and exited non-zero still produced a result.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}
	return res, nil
}

// LookPath resolves name against PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// -----------------------------------------------------------------------------
// Mock Implementation for Testing
// -----------------------------------------------------------------------------

// MockRunner is a test double for Runner.
//
// Configure it by setting the function fields. A nil RunFunc panics when
// Run is called; a nil LookPathFunc resolves every name to itself.
//
// # Examples
//
//	mock := &MockRunner{
//	    RunFunc: func(ctx context.Context, name string, args ...string) (Result, error) {
//	        return Result{Stdout: []byte(StdoutNormal)}, nil
//	    },
//	}
type MockRunner struct {
	// RunFunc is called when Run is invoked.
	RunFunc func(ctx context.Context, name string, args ...string) (Result, error)

	// LookPathFunc is called when LookPath is invoked.
	LookPathFunc func(name string) (string, error)

	// Calls records all Run invocations for verification.
	Calls []RunnerCall

	mu sync.Mutex
}

// RunnerCall records a single Run invocation.
type RunnerCall struct {
	Name string
	Args []string
}

// Run delegates to RunFunc and records the call.
func (m *MockRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, RunnerCall{Name: name, Args: append([]string(nil), args...)})
	fn := m.RunFunc
	m.mu.Unlock()
	if fn == nil {
		panic("MockRunner.RunFunc not set")
	}
	return fn(ctx, name, args...)
}

// LookPath delegates to LookPathFunc.
func (m *MockRunner) LookPath(name string) (string, error) {
	if m.LookPathFunc == nil {
		return name, nil
	}
	return m.LookPathFunc(name)
}

// GetCalls returns a copy of all recorded calls.
func (m *MockRunner) GetCalls() []RunnerCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RunnerCall, len(m.Calls))
	copy(out, m.Calls)
	return out
}

// Compile-time interface compliance check.
var (
	_ Runner = (*ExecRunner)(nil)
	_ Runner = (*MockRunner)(nil)
)
