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
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
)

// Progress renders a static progress line from the bubbles progress bar.
// It never takes over the terminal; callers print View() where they like.
type Progress struct {
	bar   progress.Model
	total int
}

// NewProgress creates a progress line for total items.
func NewProgress(total, width int) *Progress {
	bar := progress.New(
		progress.WithGradient(string(ColorTealDeep), string(ColorTealBright)),
		progress.WithWidth(width),
	)
	return &Progress{bar: bar, total: total}
}

// Fraction returns done/total clamped to [0, 1].
func (p *Progress) Fraction(done int) float64 {
	if p.total <= 0 {
		return 0
	}
	return min(max(float64(done)/float64(p.total), 0), 1)
}

// View renders the bar with a done/total counter. Machine mode renders the
// counter alone.
func (p *Progress) View(done int) string {
	counter := fmt.Sprintf("%d/%d", done, p.total)
	if GetPersonality().Level == PersonalityMachine {
		return counter
	}
	return p.bar.ViewAs(p.Fraction(done)) + "  " + Styles.Muted.Render(counter)
}

// EstimateRemaining is the worst-case time left when every remaining
// candidate costs one pause plus one attempt.
func EstimateRemaining(remaining int, pause, perAttempt time.Duration) time.Duration {
	if remaining <= 0 {
		return 0
	}
	return time.Duration(remaining)*perAttempt + time.Duration(remaining-1)*pause
}

// FormatDuration renders d as a short human string such as "4h12m" or "38s".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	switch {
	case d >= 24*time.Hour:
		days := d / (24 * time.Hour)
		return fmt.Sprintf("%dd%dh", days, (d%(24*time.Hour))/time.Hour)
	case d >= time.Hour:
		return fmt.Sprintf("%dh%02dm", d/time.Hour, (d%time.Hour)/time.Minute)
	case d >= time.Minute:
		return fmt.Sprintf("%dm%02ds", d/time.Minute, (d%time.Minute)/time.Second)
	default:
		return fmt.Sprintf("%ds", d/time.Second)
	}
}
