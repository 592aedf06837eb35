// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package candidate

import (
	"fmt"
	"iter"
)

// PIN width limits.
const (
	DefaultPINDigits = 4
	MaxPINDigits     = 8
)

// PINSource yields every zero-padded code of a fixed width in ascending
// numeric order: "0000", "0001", ... "9999" for the default width.
type PINSource struct {
	digits int
	total  int
}

// NewPINSource returns a source over all codes with the given width.
func NewPINSource(digits int) (*PINSource, error) {
	if digits < 1 || digits > MaxPINDigits {
		return nil, fmt.Errorf("pin: digits must be in [1, %d], got %d", MaxPINDigits, digits)
	}
	total := 1
	for range digits {
		total *= 10
	}
	return &PINSource{digits: digits, total: total}, nil
}

// Kind returns KindPIN.
func (s *PINSource) Kind() Kind { return KindPIN }

// Digits returns the code width.
func (s *PINSource) Digits() int { return s.digits }

// Len returns the number of codes, 10^digits.
func (s *PINSource) Len() int { return s.total }

// Candidates returns the code sequence.
func (s *PINSource) Candidates() iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for v := 0; v < s.total; v++ {
			if !yield(Candidate{Index: v, Phrase: fmt.Sprintf("%0*d", s.digits, v)}) {
				return
			}
		}
	}
}

var (
	_ Source = (*PatternSource)(nil)
	_ Source = (*PINSource)(nil)
	_ Sized  = (*PINSource)(nil)
)
