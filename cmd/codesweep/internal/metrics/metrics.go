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
Package metrics records attempt statistics for a search run.

Two recorders share one method set:

  - NoOpRecorder keeps counters in memory for tests and for runs without
    a status endpoint.
  - PrometheusRecorder exports the same values to a Prometheus registry.

# Metrics Exported

  - codesweep_attempts_total: Counter by outcome (no_match, match, fault)
  - codesweep_oracle_latency_seconds: Histogram of oracle call durations
  - codesweep_pauses_total: Counter of lockout pauses taken
  - codesweep_pause_seconds_total: Counter of time spent pausing
  - codesweep_candidates_total: Gauge of the sequence length
  - codesweep_candidate_position: Gauge of the last attempted index
  - codesweep_halted: Gauge set to 1 for the terminal state reached
*/
package metrics

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "codesweep"
)

// Recorder is the method set the attempt driver reports through.
type Recorder interface {
	// RecordAttempt counts one oracle call and its latency.
	RecordAttempt(outcome string, latency time.Duration)

	// RecordPause counts one lockout pause and its length.
	RecordPause(d time.Duration)

	// SetTotal publishes the candidate sequence length.
	SetTotal(n int)

	// SetPosition publishes the index of the candidate being attempted.
	SetPosition(index int)

	// RecordHalt publishes the terminal state.
	RecordHalt(state string)
}

// -----------------------------------------------------------------------------
// NoOpRecorder
// -----------------------------------------------------------------------------

// NoOpRecorder tracks totals in memory without exporting them.
//
// # Thread Safety
//
// NoOpRecorder is safe for concurrent use.
type NoOpRecorder struct {
	attempts  atomic.Int64
	pauses    atomic.Int64
	pausedNs  atomic.Int64
	total     atomic.Int64
	position  atomic.Int64
	mu        sync.Mutex
	byOutcome map[string]int64
	halt      string
}

// NewNoOpRecorder creates an in-memory recorder.
func NewNoOpRecorder() *NoOpRecorder {
	return &NoOpRecorder{byOutcome: make(map[string]int64)}
}

// RecordAttempt counts an attempt.
func (m *NoOpRecorder) RecordAttempt(outcome string, latency time.Duration) {
	m.attempts.Add(1)
	m.mu.Lock()
	m.byOutcome[outcome]++
	m.mu.Unlock()
}

// RecordPause counts a pause.
func (m *NoOpRecorder) RecordPause(d time.Duration) {
	m.pauses.Add(1)
	m.pausedNs.Add(int64(d))
}

// SetTotal stores the sequence length.
func (m *NoOpRecorder) SetTotal(n int) { m.total.Store(int64(n)) }

// SetPosition stores the current index.
func (m *NoOpRecorder) SetPosition(index int) { m.position.Store(int64(index)) }

// RecordHalt stores the terminal state.
func (m *NoOpRecorder) RecordHalt(state string) {
	m.mu.Lock()
	m.halt = state
	m.mu.Unlock()
}

// Attempts returns the number of attempts recorded.
func (m *NoOpRecorder) Attempts() int64 { return m.attempts.Load() }

// AttemptsByOutcome returns the attempt count for one outcome label.
func (m *NoOpRecorder) AttemptsByOutcome(outcome string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byOutcome[outcome]
}

// Pauses returns the number of pauses recorded.
func (m *NoOpRecorder) Pauses() int64 { return m.pauses.Load() }

// Paused returns the total pause time recorded.
func (m *NoOpRecorder) Paused() time.Duration { return time.Duration(m.pausedNs.Load()) }

// Total returns the last published sequence length.
func (m *NoOpRecorder) Total() int64 { return m.total.Load() }

// Position returns the last published index.
func (m *NoOpRecorder) Position() int64 { return m.position.Load() }

// Halt returns the terminal state, or "" while running.
func (m *NoOpRecorder) Halt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.halt
}

// -----------------------------------------------------------------------------
// PrometheusRecorder
// -----------------------------------------------------------------------------

// PrometheusRecorder exports attempt metrics to Prometheus.
//
// Call Register once after creation.
type PrometheusRecorder struct {
	attempts     *prometheus.CounterVec
	latency      prometheus.Histogram
	pauses       prometheus.Counter
	pauseSeconds prometheus.Counter
	total        prometheus.Gauge
	position     prometheus.Gauge
	halted       *prometheus.GaugeVec
}

// NewPrometheusRecorder creates the collectors without registering them.
func NewPrometheusRecorder() *PrometheusRecorder {
	return &PrometheusRecorder{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "attempts_total",
				Help:      "Oracle attempts by classified outcome",
			},
			[]string{"outcome"},
		),
		latency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "oracle_latency_seconds",
				Help:      "Duration of a single oracle invocation",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		pauses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "pauses_total",
				Help:      "Lockout pauses taken between attempts",
			},
		),
		pauseSeconds: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "pause_seconds_total",
				Help:      "Time spent waiting out the lockout window",
			},
		),
		total: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "candidates_total",
				Help:      "Number of candidates in the search sequence",
			},
		),
		position: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "candidate_position",
				Help:      "Index of the candidate most recently attempted",
			},
		),
		halted: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "halted",
				Help:      "Set to 1 for the terminal state the search reached",
			},
			[]string{"state"},
		),
	}
}

// Register adds every collector to reg.
func (m *PrometheusRecorder) Register(reg prometheus.Registerer) error {
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
	}
	return nil
}

func (m *PrometheusRecorder) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.attempts, m.latency, m.pauses, m.pauseSeconds, m.total, m.position, m.halted,
	}
}

// RecordAttempt counts an attempt and observes its latency.
func (m *PrometheusRecorder) RecordAttempt(outcome string, latency time.Duration) {
	m.attempts.WithLabelValues(outcome).Inc()
	m.latency.Observe(latency.Seconds())
}

// RecordPause counts a pause.
func (m *PrometheusRecorder) RecordPause(d time.Duration) {
	m.pauses.Inc()
	m.pauseSeconds.Add(d.Seconds())
}

// SetTotal publishes the sequence length.
func (m *PrometheusRecorder) SetTotal(n int) { m.total.Set(float64(n)) }

// SetPosition publishes the current index.
func (m *PrometheusRecorder) SetPosition(index int) { m.position.Set(float64(index)) }

// RecordHalt marks the terminal state.
func (m *PrometheusRecorder) RecordHalt(state string) {
	m.halted.WithLabelValues(state).Set(1)
}

// Compile-time interface compliance check.
var (
	_ Recorder = (*NoOpRecorder)(nil)
	_ Recorder = (*PrometheusRecorder)(nil)
)
