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
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/candidate"
	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/geometry"
	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/metrics"
	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/oracle"
)

// =============================================================================
// Test Helpers
// =============================================================================

// recordingPauser counts pauses without sleeping and honours cancellation.
type recordingPauser struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (p *recordingPauser) Pause(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waits = append(p.waits, d)
	return nil
}

func (p *recordingPauser) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.waits)
}

// eventLog records observer callbacks as short strings.
type eventLog struct {
	events []string
	report Report
}

func (l *eventLog) Started(total, startAt int) { l.events = append(l.events, "start") }
func (l *eventLog) Attempting(c candidate.Candidate) {
	l.events = append(l.events, "try:"+c.Phrase)
}
func (l *eventLog) Attempted(c candidate.Candidate, o Outcome, _ time.Duration) {
	l.events = append(l.events, o.String())
}
func (l *eventLog) Pausing(time.Duration) { l.events = append(l.events, "pause") }
func (l *eventLog) Halted(r Report) {
	l.events = append(l.events, "halt:"+r.State.String())
	l.report = r
}

func pinSource(t *testing.T, digits int) *candidate.PINSource {
	t.Helper()
	src, err := candidate.NewPINSource(digits)
	require.NoError(t, err)
	return src
}

// matchOn answers normally until the n-th call, which succeeds.
func matchOn(n int) *oracle.MockOracle {
	return &oracle.MockOracle{
		AttemptFunc: func(call int, _ string) (oracle.Result, error) {
			if call == n {
				return oracle.SuccessResult(), nil
			}
			return oracle.NormalResult(), nil
		},
	}
}

func newDriver(t *testing.T, src candidate.Source, orc oracle.Oracle, cfg Config, opts ...Option) *Driver {
	t.Helper()
	d, err := New(src, orc, cfg, opts...)
	require.NoError(t, err)
	return d
}

// =============================================================================
// New Tests
// =============================================================================

func TestNew_Validation(t *testing.T) {
	src := pinSource(t, 1)
	orc := matchOn(1)

	_, err := New(nil, orc, Config{})
	assert.ErrorIs(t, err, ErrNoSource)

	_, err = New(src, nil, Config{})
	assert.ErrorIs(t, err, ErrNoOracle)

	_, err = New(src, orc, Config{Pause: -time.Second})
	assert.ErrorIs(t, err, ErrNegativeWait)

	_, err = New(src, orc, Config{StartAt: -1})
	assert.ErrorIs(t, err, ErrNegativeSkip)
}

// =============================================================================
// Run Tests
// =============================================================================

func TestRun_SuccessOnFifthCandidate(t *testing.T) {
	pauser := &recordingPauser{}
	rec := metrics.NewNoOpRecorder()
	orc := matchOn(5)

	d := newDriver(t, pinSource(t, 4), orc, Config{Pause: 10500 * time.Millisecond, Total: 10000},
		WithPauser(pauser), WithMetrics(rec))
	report := d.Run(context.Background())

	assert.Equal(t, StateSuccess, report.State)
	assert.Equal(t, 5, report.Attempts)
	assert.Equal(t, 4, report.Pauses)
	assert.Equal(t, 4, pauser.count())
	assert.Equal(t, ExitOK, report.ExitCode())
	require.NotNil(t, report.Candidate)
	assert.Equal(t, "0004", report.Candidate.Phrase)
	assert.NoError(t, report.Err)

	assert.Equal(t, []string{"0000", "0001", "0002", "0003", "0004"}, orc.Phrases())
	for _, w := range pauser.waits {
		assert.Equal(t, 10500*time.Millisecond, w)
	}

	assert.Equal(t, int64(5), rec.Attempts())
	assert.Equal(t, int64(4), rec.AttemptsByOutcome("no_match"))
	assert.Equal(t, int64(1), rec.AttemptsByOutcome("match"))
	assert.Equal(t, int64(4), rec.Pauses())
	assert.Equal(t, 42*time.Second, rec.Paused())
	assert.Equal(t, int64(10000), rec.Total())
	assert.Equal(t, int64(4), rec.Position())
	assert.Equal(t, "success", rec.Halt())
}

func TestRun_SuccessOnFirstCandidateNeverPauses(t *testing.T) {
	pauser := &recordingPauser{}
	d := newDriver(t, pinSource(t, 2), matchOn(1), Config{Pause: time.Second}, WithPauser(pauser))

	report := d.Run(context.Background())

	assert.Equal(t, StateSuccess, report.State)
	assert.Equal(t, 1, report.Attempts)
	assert.Zero(t, report.Pauses)
	assert.Zero(t, pauser.count())
}

func TestRun_UnrecognizedOutputOnSecondAttempt(t *testing.T) {
	pauser := &recordingPauser{}
	orc := &oracle.MockOracle{
		AttemptFunc: func(call int, _ string) (oracle.Result, error) {
			if call == 2 {
				return oracle.Result{Stdout: []byte("E: Unable to mount /data\n")}, nil
			}
			return oracle.NormalResult(), nil
		},
	}

	d := newDriver(t, pinSource(t, 4), orc, Config{Pause: time.Second}, WithPauser(pauser))
	report := d.Run(context.Background())

	assert.Equal(t, StateFault, report.State)
	assert.Equal(t, 2, report.Attempts)
	assert.Equal(t, 1, report.Pauses)
	assert.Equal(t, ExitFault, report.ExitCode())
	assert.Equal(t, 2, orc.Calls())

	var pv *ProtocolViolation
	require.ErrorAs(t, report.Err, &pv)
	assert.Equal(t, "E: Unable to mount /data\n", pv.Stdout)
	require.NotNil(t, report.Candidate)
	assert.Equal(t, "0001", report.Candidate.Phrase)
}

func TestRun_Exhausted(t *testing.T) {
	pauser := &recordingPauser{}
	orc := &oracle.MockOracle{
		AttemptFunc: func(int, string) (oracle.Result, error) { return oracle.NormalResult(), nil },
	}

	d := newDriver(t, pinSource(t, 1), orc, Config{Pause: time.Second}, WithPauser(pauser))
	report := d.Run(context.Background())

	assert.Equal(t, StateExhausted, report.State)
	assert.Equal(t, 10, report.Attempts)
	assert.Equal(t, 9, report.Pauses)
	assert.Nil(t, report.Candidate)
	assert.NoError(t, report.Err)
	assert.Equal(t, ExitOK, report.ExitCode())
	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}, orc.Phrases())
}

func TestRun_PatternSequenceInOrder(t *testing.T) {
	src, err := candidate.NewPatternSource(candidate.PatternOptions{
		Grid:        geometry.MustGrid(3),
		Dots:        []int{0, 1, 2},
		LenMin:      2,
		LenMax:      2,
		MaxDistance: 1,
	})
	require.NoError(t, err)
	orc := &oracle.MockOracle{
		AttemptFunc: func(int, string) (oracle.Result, error) { return oracle.NormalResult(), nil },
	}

	d := newDriver(t, src, orc, Config{}, WithPauser(&recordingPauser{}))
	report := d.Run(context.Background())

	var want []string
	for c := range src.Candidates() {
		want = append(want, c.Phrase)
	}
	assert.Equal(t, StateExhausted, report.State)
	assert.Equal(t, want, orc.Phrases())
	assert.ElementsMatch(t, []string{"12", "21", "23", "32"}, orc.Phrases())
}

func TestRun_InvocationFault(t *testing.T) {
	boom := errors.New("adb: device offline")
	orc := &oracle.MockOracle{
		AttemptFunc: func(int, string) (oracle.Result, error) { return oracle.Result{}, boom },
	}

	d := newDriver(t, pinSource(t, 4), orc, Config{}, WithPauser(&recordingPauser{}))
	report := d.Run(context.Background())

	assert.Equal(t, StateFault, report.State)
	assert.Equal(t, 1, report.Attempts)
	assert.Zero(t, report.Pauses)

	var inv *InvocationFault
	require.ErrorAs(t, report.Err, &inv)
	assert.ErrorIs(t, report.Err, boom)
}

func TestRun_DecodeFault(t *testing.T) {
	orc := &oracle.MockOracle{
		AttemptFunc: func(int, string) (oracle.Result, error) {
			return oracle.Result{Stdout: []byte{0xff, 0xfe, '\n'}}, nil
		},
	}

	d := newDriver(t, pinSource(t, 4), orc, Config{}, WithPauser(&recordingPauser{}))
	report := d.Run(context.Background())

	assert.Equal(t, StateFault, report.State)
	var df *DecodeFault
	require.ErrorAs(t, report.Err, &df)
	assert.Equal(t, "stdout", df.Stream)
}

func TestRun_StartAtSkipsEarlierCandidates(t *testing.T) {
	orc := matchOn(3)
	pauser := &recordingPauser{}

	d := newDriver(t, pinSource(t, 2), orc, Config{StartAt: 42, Total: 100}, WithPauser(pauser))
	report := d.Run(context.Background())

	assert.Equal(t, StateSuccess, report.State)
	assert.Equal(t, []string{"42", "43", "44"}, orc.Phrases())
	require.NotNil(t, report.Candidate)
	assert.Equal(t, 44, report.Candidate.Index)
	assert.Equal(t, 2, report.Pauses)
}

func TestRun_StartAtPastEndExhaustsImmediately(t *testing.T) {
	orc := matchOn(1)
	d := newDriver(t, pinSource(t, 1), orc, Config{StartAt: 10}, WithPauser(&recordingPauser{}))

	report := d.Run(context.Background())

	assert.Equal(t, StateExhausted, report.State)
	assert.Zero(t, report.Attempts)
	assert.Zero(t, orc.Calls())
}

func TestRun_CancelledDuringAttemptAbortsAfterClassification(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orc := &oracle.MockOracle{
		AttemptFunc: func(call int, _ string) (oracle.Result, error) {
			if call == 2 {
				cancel()
			}
			return oracle.NormalResult(), nil
		},
	}
	rec := metrics.NewNoOpRecorder()

	d := newDriver(t, pinSource(t, 4), orc, Config{Pause: time.Second},
		WithPauser(&recordingPauser{}), WithMetrics(rec))
	report := d.Run(ctx)

	assert.Equal(t, StateAborted, report.State)
	assert.Equal(t, 2, report.Attempts)
	assert.Equal(t, 1, report.Pauses)
	assert.Equal(t, ExitAborted, report.ExitCode())
	assert.ErrorIs(t, report.Err, context.Canceled)
	assert.Equal(t, int64(2), rec.AttemptsByOutcome("no_match"))
	assert.Equal(t, "aborted", rec.Halt())
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	orc := matchOn(1)

	d := newDriver(t, pinSource(t, 4), orc, Config{}, WithPauser(&recordingPauser{}))
	report := d.Run(ctx)

	assert.Equal(t, StateAborted, report.State)
	assert.Zero(t, orc.Calls())
}

// cancelCheckingOracle fails the test if it ever sees a cancelled context.
type cancelCheckingOracle struct {
	t      *testing.T
	cancel context.CancelFunc
}

func (o *cancelCheckingOracle) Attempt(ctx context.Context, _ string) (oracle.Result, error) {
	o.cancel()
	assert.NoError(o.t, ctx.Err(), "in-flight attempt must not observe cancellation")
	return oracle.NormalResult(), nil
}

func TestRun_InFlightAttemptIsNotCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := newDriver(t, pinSource(t, 4), &cancelCheckingOracle{t: t, cancel: cancel}, Config{},
		WithPauser(&recordingPauser{}))
	report := d.Run(ctx)

	assert.Equal(t, StateAborted, report.State)
	assert.Equal(t, 1, report.Attempts)
}

func TestRun_ObserverEventOrder(t *testing.T) {
	log := &eventLog{}
	d := newDriver(t, pinSource(t, 1), matchOn(3), Config{Total: 10},
		WithPauser(&recordingPauser{}), WithObserver(log))

	report := d.Run(context.Background())

	assert.Equal(t, []string{
		"start",
		"try:0", "no_match",
		"pause",
		"try:1", "no_match",
		"pause",
		"try:2", "match",
		"halt:success",
	}, log.events)
	assert.Equal(t, report.State, log.report.State)
}

func TestRun_ElapsedUsesClock(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var ticks int
	clock := func() time.Time {
		ticks++
		return base.Add(time.Duration(ticks) * time.Second)
	}

	d := newDriver(t, pinSource(t, 1), matchOn(1), Config{},
		WithPauser(&recordingPauser{}), WithClock(clock))
	report := d.Run(context.Background())

	// start, attempt begin, attempt end, halt
	assert.Equal(t, 3*time.Second, report.Elapsed)
}

// =============================================================================
// State Tests
// =============================================================================

func TestState_StringAndTerminal(t *testing.T) {
	tests := []struct {
		state    State
		name     string
		terminal bool
	}{
		{StateProbing, "probing", false},
		{StateSuccess, "success", true},
		{StateExhausted, "exhausted", true},
		{StateFault, "fault", true},
		{StateAborted, "aborted", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.state.String())
			assert.Equal(t, tt.terminal, tt.state.Terminal())
		})
	}
}
