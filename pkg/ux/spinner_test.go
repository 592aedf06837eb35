// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewSpinner_Defaults(t *testing.T) {
	s := NewSpinner("waiting")
	if s.message != "waiting" {
		t.Errorf("message = %q", s.message)
	}
	if s.spinType != SpinnerDots {
		t.Errorf("spinType = %v, want SpinnerDots", s.spinType)
	}
	if s.WithType(SpinnerClock).spinType != SpinnerClock {
		t.Error("WithType did not apply")
	}
}

func TestSpinner_MachineMode(t *testing.T) {
	out, _ := withLevel(t, PersonalityMachine)

	s := NewSpinner("lockout pause")
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()

	if got := out.String(); got != "PROGRESS: lockout pause\n" {
		t.Errorf("output = %q", got)
	}
}

func TestSpinner_FullModeAnimatesAndClears(t *testing.T) {
	out, _ := withLevel(t, PersonalityFull)

	s := NewSpinner("lockout pause").WithType(SpinnerClock)
	s.Start()
	if !s.Running() {
		t.Fatal("spinner not running after Start")
	}
	time.Sleep(3 * spinnerInterval)
	s.UpdateMessage("lockout pause 5s")
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	if s.Running() {
		t.Error("spinner still running after Stop")
	}
	got := out.String()
	if !strings.Contains(got, "lockout pause 5s") {
		t.Errorf("output %q missing updated message", got)
	}
	if !strings.HasSuffix(got, "\r\033[K") {
		t.Errorf("output %q does not end by clearing the line", got)
	}
}

func TestSpinner_Restart(t *testing.T) {
	withLevel(t, PersonalityFull)

	s := NewSpinner("again")
	for range 3 {
		s.Start()
		s.Stop()
	}
	if s.Running() {
		t.Error("spinner running after final Stop")
	}
}

func TestWithSpinner(t *testing.T) {
	out, errOut := withLevel(t, PersonalityMachine)

	if err := WithSpinner("checking device", func() error { return nil }); err != nil {
		t.Fatalf("WithSpinner() error = %v", err)
	}
	if !strings.Contains(out.String(), "OK: checking device") {
		t.Errorf("stdout = %q", out.String())
	}

	boom := errors.New("no device")
	if err := WithSpinner("checking device", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("WithSpinner() error = %v, want %v", err, boom)
	}
	if !strings.Contains(errOut.String(), "ERROR: checking device: no device") {
		t.Errorf("stderr = %q", errOut.String())
	}
}
