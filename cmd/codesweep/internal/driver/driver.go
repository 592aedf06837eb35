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
Package driver runs the search: one candidate at a time, one oracle call
per candidate, one lockout pause between calls.

# State Machine

	            ┌──────────── no match ───────────┐
	            ▼                                 │
	       ┌─────────┐  pause (lockout window)    │
	 ─────►│ Probing │────────────────────────────┘
	       └─────────┘
	        │  │  │  │
	 match  │  │  │  └── ctx cancelled ──► Aborted
	        ▼  │  └──── sequence empty ──► Exhausted
	  Success  └─────── fault ───────────► Fault

All halted states are terminal. The driver never exits the process; it
returns a Report and the caller decides the exit code.

# Lockout

A second oracle call inside the device's lockout window is silently
rejected and looks exactly like a no-match, so the pause after a no-match
is never skipped. An in-flight oracle call is never cancelled either: its
response is always classified before the driver checks for cancellation.
*/
package driver

import (
	"context"
	"errors"
	"time"

	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/candidate"
	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/metrics"
	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/oracle"
	"github.com/AleutianAI/codesweep/pkg/logging"
)

// Exit codes for each terminal state.
const (
	ExitOK      = 0
	ExitFault   = 1
	ExitAborted = 130
)

// State is the driver's position in its state machine.
type State int

const (
	StateProbing State = iota
	StateSuccess
	StateExhausted
	StateFault
	StateAborted
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateProbing:
		return "probing"
	case StateSuccess:
		return "success"
	case StateExhausted:
		return "exhausted"
	case StateFault:
		return "fault"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is a halted state.
func (s State) Terminal() bool {
	return s != StateProbing
}

// Report is the result of a search run.
type Report struct {
	// State is the terminal state reached.
	State State

	// Candidate is the matching candidate for StateSuccess and the
	// candidate whose attempt failed for StateFault; nil otherwise.
	Candidate *candidate.Candidate

	// Attempts is the number of oracle invocations made.
	Attempts int

	// Pauses is the number of completed lockout pauses.
	Pauses int

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration

	// Err is the fault for StateFault and the context error for
	// StateAborted. It is nil otherwise.
	Err error
}

// ExitCode maps the terminal state to the process exit status.
func (r Report) ExitCode() int {
	switch r.State {
	case StateSuccess, StateExhausted:
		return ExitOK
	case StateAborted:
		return ExitAborted
	default:
		return ExitFault
	}
}

// Config holds the immutable run parameters.
type Config struct {
	// Pause is the wait between two attempts. It must cover the
	// oracle's lockout window.
	Pause time.Duration

	// StartAt skips candidates whose Index is below it.
	StartAt int

	// Total is the sequence length, reported to observers. Zero means
	// unknown.
	Total int
}

// Option customizes a Driver.
type Option func(*Driver)

// WithPauser replaces the timer-based pauser.
func WithPauser(p Pauser) Option {
	return func(d *Driver) { d.pauser = p }
}

// WithObserver registers the presentation observer.
func WithObserver(o Observer) Option {
	return func(d *Driver) { d.observer = o }
}

// WithMetrics replaces the in-memory metrics recorder.
func WithMetrics(m metrics.Recorder) Option {
	return func(d *Driver) { d.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) { d.now = now }
}

// Driver sequences oracle attempts over a candidate source.
//
// A Driver is single-use per Run call and not safe for concurrent Runs.
type Driver struct {
	source   candidate.Source
	oracle   oracle.Oracle
	cfg      Config
	pauser   Pauser
	observer Observer
	metrics  metrics.Recorder
	logger   *logging.Logger
	now      func() time.Time
}

// Errors returned by New.
var (
	ErrNoSource     = errors.New("driver: candidate source is nil")
	ErrNoOracle     = errors.New("driver: oracle is nil")
	ErrNegativeWait = errors.New("driver: pause must not be negative")
	ErrNegativeSkip = errors.New("driver: start index must not be negative")
)

// New builds a driver. Defaults: TimerPauser, NopObserver, an in-memory
// recorder and a discarding logger.
func New(src candidate.Source, orc oracle.Oracle, cfg Config, opts ...Option) (*Driver, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	if orc == nil {
		return nil, ErrNoOracle
	}
	if cfg.Pause < 0 {
		return nil, ErrNegativeWait
	}
	if cfg.StartAt < 0 {
		return nil, ErrNegativeSkip
	}

	d := &Driver{
		source:   src,
		oracle:   orc,
		cfg:      cfg,
		pauser:   TimerPauser{},
		observer: NopObserver{},
		metrics:  metrics.NewNoOpRecorder(),
		logger:   logging.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Run tries candidates until one matches, one faults, the sequence runs
// out, or ctx is cancelled between attempts.
func (d *Driver) Run(ctx context.Context) Report {
	start := d.now()
	report := Report{State: StateProbing}

	d.metrics.SetTotal(d.cfg.Total)
	d.observer.Started(d.cfg.Total, d.cfg.StartAt)
	d.logger.Info("search started",
		"kind", string(d.source.Kind()),
		"candidates", d.cfg.Total,
		"start_at", d.cfg.StartAt,
		"pause", d.cfg.Pause.String(),
	)

	halt := func(state State, c *candidate.Candidate, err error) Report {
		report.State = state
		report.Candidate = c
		report.Err = err
		report.Elapsed = d.now().Sub(start)
		d.metrics.RecordHalt(state.String())
		d.observer.Halted(report)
		d.logHalt(report)
		return report
	}

	pending := false
	for c := range candidate.From(d.source, d.cfg.StartAt) {
		if pending {
			d.observer.Pausing(d.cfg.Pause)
			if err := d.pauser.Pause(ctx, d.cfg.Pause); err != nil {
				return halt(StateAborted, nil, err)
			}
			report.Pauses++
			d.metrics.RecordPause(d.cfg.Pause)
		}
		if err := ctx.Err(); err != nil {
			return halt(StateAborted, nil, err)
		}

		d.metrics.SetPosition(c.Index)
		d.observer.Attempting(c)
		d.logger.Debug("attempting candidate", "index", c.Index)

		report.Attempts++
		began := d.now()
		// The attempt always runs to completion so its response can be
		// classified; cancellation is honoured between attempts.
		res, err := d.oracle.Attempt(context.WithoutCancel(ctx), c.Phrase)
		latency := d.now().Sub(began)
		if err != nil {
			d.metrics.RecordAttempt(OutcomeFault.String(), latency)
			d.observer.Attempted(c, OutcomeFault, latency)
			return halt(StateFault, &c, &InvocationFault{Err: err})
		}

		outcome, fault := Classify(res)
		d.metrics.RecordAttempt(outcome.String(), latency)
		d.observer.Attempted(c, outcome, latency)

		switch outcome {
		case OutcomeMatch:
			return halt(StateSuccess, &c, nil)
		case OutcomeFault:
			return halt(StateFault, &c, fault)
		}
		pending = true
	}

	return halt(StateExhausted, nil, nil)
}

func (d *Driver) logHalt(r Report) {
	args := []any{
		"state", r.State.String(),
		"attempts", r.Attempts,
		"pauses", r.Pauses,
		"elapsed", r.Elapsed.Round(time.Millisecond).String(),
	}
	if r.Candidate != nil {
		args = append(args, "index", r.Candidate.Index)
	}
	switch r.State {
	case StateFault:
		d.logger.Error("search halted on fault", append(args, "error", r.Err.Error())...)
	case StateAborted:
		d.logger.Warn("search aborted", args...)
	default:
		d.logger.Info("search finished", args...)
	}
}
