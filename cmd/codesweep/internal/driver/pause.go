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
	"time"
)

// Pauser waits out the oracle's lockout window between attempts.
type Pauser interface {
	// Pause blocks for d, returning ctx.Err() early if ctx is cancelled.
	Pause(ctx context.Context, d time.Duration) error
}

// PauserFunc adapts a function to Pauser.
type PauserFunc func(ctx context.Context, d time.Duration) error

// Pause calls f.
func (f PauserFunc) Pause(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// TimerPauser sleeps on a timer.
type TimerPauser struct{}

// Pause blocks for d or until ctx is done.
func (TimerPauser) Pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
