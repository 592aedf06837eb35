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
	"time"

	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/candidate"
)

// Observer receives driver events for presentation and monitoring.
//
// Callbacks run on the driver's goroutine, in order, and must not block
// for long: the lockout pause is the only intended wait.
type Observer interface {
	// Started is called once before the first attempt.
	Started(total, startAt int)

	// Attempting is called right before the oracle is invoked.
	Attempting(c candidate.Candidate)

	// Attempted is called with the classification of the response.
	Attempted(c candidate.Candidate, outcome Outcome, latency time.Duration)

	// Pausing is called before each lockout pause.
	Pausing(d time.Duration)

	// Halted is called once with the final report.
	Halted(r Report)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) Started(int, int) {}
func (NopObserver) Attempting(candidate.Candidate) {}
func (NopObserver) Attempted(candidate.Candidate, Outcome, time.Duration) {}
func (NopObserver) Pausing(time.Duration) {}
func (NopObserver) Halted(Report) {}

// Observers fans events out to several observers in order.
type Observers []Observer

func (o Observers) Started(total, startAt int) {
	for _, ob := range o {
		ob.Started(total, startAt)
	}
}

func (o Observers) Attempting(c candidate.Candidate) {
	for _, ob := range o {
		ob.Attempting(c)
	}
}

func (o Observers) Attempted(c candidate.Candidate, outcome Outcome, latency time.Duration) {
	for _, ob := range o {
		ob.Attempted(c, outcome, latency)
	}
}

func (o Observers) Pausing(d time.Duration) {
	for _, ob := range o {
		ob.Pausing(d)
	}
}

func (o Observers) Halted(r Report) {
	for _, ob := range o {
		ob.Halted(r)
	}
}

var (
	_ Observer = NopObserver{}
	_ Observer = Observers(nil)
)
