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
	"strings"
	"testing"
	"time"
)

func TestProgress_Fraction(t *testing.T) {
	p := NewProgress(200, 40)
	tests := []struct {
		done int
		want float64
	}{
		{0, 0},
		{50, 0.25},
		{200, 1},
		{250, 1},
		{-3, 0},
	}
	for _, tt := range tests {
		if got := p.Fraction(tt.done); got != tt.want {
			t.Errorf("Fraction(%d) = %v, want %v", tt.done, got, tt.want)
		}
	}

	if got := NewProgress(0, 40).Fraction(5); got != 0 {
		t.Errorf("Fraction with zero total = %v, want 0", got)
	}
}

func TestProgress_View(t *testing.T) {
	withLevel(t, PersonalityMachine)
	if got := NewProgress(10, 20).View(3); got != "3/10" {
		t.Errorf("View() = %q, want %q", got, "3/10")
	}

	withLevel(t, PersonalityFull)
	got := NewProgress(10, 20).View(5)
	if !strings.Contains(got, "5/10") || !strings.Contains(got, "50%") {
		t.Errorf("View() = %q, want counter and percentage", got)
	}
}

func TestEstimateRemaining(t *testing.T) {
	if got := EstimateRemaining(0, time.Second, time.Second); got != 0 {
		t.Errorf("EstimateRemaining(0) = %v", got)
	}
	// three attempts, two pauses between them
	got := EstimateRemaining(3, 10*time.Second, time.Second)
	if want := 23 * time.Second; got != want {
		t.Errorf("EstimateRemaining(3) = %v, want %v", got, want)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{38 * time.Second, "38s"},
		{90 * time.Second, "1m30s"},
		{4*time.Hour + 12*time.Minute, "4h12m"},
		{50 * time.Hour, "2d2h"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
