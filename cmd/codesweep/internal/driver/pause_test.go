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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerPauser_Elapses(t *testing.T) {
	start := time.Now()
	err := TimerPauser{}.Pause(context.Background(), 20*time.Millisecond)

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestTimerPauser_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := TimerPauser{}.Pause(ctx, time.Minute)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestPauserFunc(t *testing.T) {
	var got time.Duration
	p := PauserFunc(func(_ context.Context, d time.Duration) error {
		got = d
		return nil
	})

	assert.NoError(t, p.Pause(context.Background(), 3*time.Second))
	assert.Equal(t, 3*time.Second, got)
}

func TestObservers_FanOut(t *testing.T) {
	a, b := &eventLog{}, &eventLog{}
	obs := Observers{a, b}

	obs.Started(1, 0)
	obs.Pausing(time.Second)
	obs.Halted(Report{State: StateExhausted})

	want := []string{"start", "pause", "halt:exhausted"}
	assert.Equal(t, want, a.events)
	assert.Equal(t, want, b.events)
}
