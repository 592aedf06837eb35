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
	"fmt"
	"sync"
	"time"

	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/candidate"
	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/driver"
	"github.com/AleutianAI/codesweep/pkg/ux"
)

const progressWidth = 40

// presenter prints driver events to the terminal. It also remembers the
// last attempted index so an aborted run can say where to resume.
type presenter struct {
	pause    time.Duration
	total    int
	progress *ux.Progress
	spinner  *ux.Spinner

	mu        sync.Mutex
	last      int
	attempts  int
	spentCall time.Duration
}

func newPresenter(total int, pause time.Duration) *presenter {
	return &presenter{
		pause:    pause,
		total:    total,
		progress: ux.NewProgress(total, progressWidth),
		spinner:  ux.NewSpinner("").WithType(ux.SpinnerClock),
		last:     -1,
	}
}

// resumeAt is the index a new run should start from.
func (p *presenter) resumeAt(startAt int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last < 0 {
		return startAt
	}
	return p.last + 1
}

func (p *presenter) Started(total, startAt int) {
	if ux.GetPersonality().Level == ux.PersonalityMachine {
		fmt.Fprintf(ux.Stdout(), "START\ttotal=%d\tstart_at=%d\n", total, startAt)
		return
	}
	remaining := max(total-startAt, 0)
	ux.Info(fmt.Sprintf("probing %d candidates, worst case %s", remaining,
		ux.FormatDuration(ux.EstimateRemaining(remaining, p.pause, 0))))
}

func (p *presenter) Attempting(candidate.Candidate) {
	p.spinner.Stop()
}

func (p *presenter) Attempted(c candidate.Candidate, outcome driver.Outcome, latency time.Duration) {
	p.mu.Lock()
	p.last = c.Index
	p.attempts++
	p.spentCall += latency
	p.mu.Unlock()

	level := ux.GetPersonality().Level
	if level == ux.PersonalityMachine {
		fmt.Fprintf(ux.Stdout(), "ATTEMPT\t%d\t%s\t%s\t%dms\n", c.Index, c.Phrase, outcome, latency.Milliseconds())
		return
	}

	icon := ux.IconPending
	switch outcome {
	case driver.OutcomeMatch:
		icon = ux.IconSuccess
	case driver.OutcomeFault:
		icon = ux.IconError
	}
	line := fmt.Sprintf("%s %6d  %-10s %s", icon.Render(), c.Index, c.Phrase,
		ux.Styles.Muted.Render(fmt.Sprintf("%s %s", outcome, latency.Round(time.Millisecond))))
	if level == ux.PersonalityFull {
		line += "  " + p.progress.View(c.Index+1)
	}
	fmt.Fprintln(ux.Stdout(), line)
}

func (p *presenter) Pausing(d time.Duration) {
	if ux.GetPersonality().Level == ux.PersonalityMachine {
		return
	}
	p.mu.Lock()
	remaining := p.total - (p.last + 1)
	perCall := time.Duration(0)
	if p.attempts > 0 {
		perCall = p.spentCall / time.Duration(p.attempts)
	}
	p.mu.Unlock()

	eta := ux.EstimateRemaining(remaining, p.pause, perCall) + d
	p.spinner.UpdateMessage(fmt.Sprintf("lockout pause %s, about %s left", d, ux.FormatDuration(eta)))
	p.spinner.Start()
}

func (p *presenter) Halted(driver.Report) {
	p.spinner.Stop()
}

var _ driver.Observer = (*presenter)(nil)
