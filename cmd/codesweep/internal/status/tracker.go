// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package status exposes run progress over HTTP.
//
// Tracker is a driver.Observer that keeps a mutex-guarded snapshot; Server
// serves it as JSON on /status next to the Prometheus /metrics handler.
package status

import (
	"sync"
	"time"

	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/candidate"
	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/driver"
)

// Snapshot is the JSON body of GET /status.
//
// The matching phrase is never included; only its index is.
type Snapshot struct {
	RunID       string    `json:"run_id"`
	Kind        string    `json:"kind"`
	State       string    `json:"state"`
	Total       int       `json:"total"`
	StartAt     int       `json:"start_at"`
	Position    int       `json:"position"`
	Attempts    int       `json:"attempts"`
	Pauses      int       `json:"pauses"`
	Pausing     bool      `json:"pausing"`
	LastOutcome string    `json:"last_outcome,omitempty"`
	LastLatency string    `json:"last_latency,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	HaltedAt    time.Time `json:"halted_at,omitzero"`
	MatchIndex  *int      `json:"match_index,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// Tracker records driver events for concurrent readers.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a tracker in the probing state.
func NewTracker(runID string, kind candidate.Kind) *Tracker {
	return &Tracker{
		snap: Snapshot{
			RunID:    runID,
			Kind:     string(kind),
			State:    driver.StateProbing.String(),
			Position: -1,
		},
		now: time.Now,
	}
}

// Snapshot returns a copy of the current progress.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	snap := t.snap
	if snap.MatchIndex != nil {
		idx := *snap.MatchIndex
		snap.MatchIndex = &idx
	}
	return snap
}

func (t *Tracker) update(fn func(s *Snapshot)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.snap)
	t.snap.UpdatedAt = t.now()
}

func (t *Tracker) Started(total, startAt int) {
	t.update(func(s *Snapshot) {
		s.Total = total
		s.StartAt = startAt
		s.StartedAt = t.now()
	})
}

func (t *Tracker) Attempting(c candidate.Candidate) {
	t.update(func(s *Snapshot) {
		s.Position = c.Index
		s.Pausing = false
	})
}

func (t *Tracker) Attempted(_ candidate.Candidate, outcome driver.Outcome, latency time.Duration) {
	t.update(func(s *Snapshot) {
		s.Attempts++
		s.LastOutcome = outcome.String()
		s.LastLatency = latency.Round(time.Millisecond).String()
	})
}

func (t *Tracker) Pausing(time.Duration) {
	t.update(func(s *Snapshot) {
		s.Pausing = true
		s.Pauses++
	})
}

func (t *Tracker) Halted(r driver.Report) {
	t.update(func(s *Snapshot) {
		s.State = r.State.String()
		s.Pausing = false
		s.HaltedAt = t.now()
		if r.State == driver.StateSuccess && r.Candidate != nil {
			idx := r.Candidate.Index
			s.MatchIndex = &idx
		}
		if r.Err != nil {
			s.Error = r.Err.Error()
		}
	})
}

var _ driver.Observer = (*Tracker)(nil)
