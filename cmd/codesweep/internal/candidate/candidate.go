// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package candidate enumerates the unlock codes tried against the oracle.
//
// Two sources exist: PatternSource walks every dot path on a grid within
// length and distance bounds, PINSource walks fixed-width numeric codes.
// Both return lazy iter.Seq sequences that restart from the beginning on
// every call to Candidates, so counting and probing can share one source.
package candidate

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// Kind selects the candidate family.
type Kind string

const (
	// KindPattern is a dot pattern drawn on a grid.
	KindPattern Kind = "pattern"

	// KindPIN is a fixed-width numeric code.
	KindPIN Kind = "pin"
)

// ParseKind converts a config or flag value into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pattern", "p":
		return KindPattern, nil
	case "pin", "n":
		return KindPIN, nil
	default:
		return "", fmt.Errorf("unknown code kind %q (want pattern or pin)", s)
	}
}

// Candidate is one code to try. It is never mutated after the source
// yields it.
type Candidate struct {
	// Index is the 0-based position in the full ordered sequence.
	Index int

	// Dots is the pattern path; nil for PIN candidates.
	Dots []int

	// Phrase is the exact string handed to the oracle.
	Phrase string
}

// IsPattern reports whether the candidate is a dot pattern.
func (c Candidate) IsPattern() bool {
	return c.Dots != nil
}

// String returns a human readable slug: "0-4-8" for patterns, the PIN
// itself otherwise.
func (c Candidate) String() string {
	if !c.IsPattern() {
		return c.Phrase
	}
	parts := make([]string, len(c.Dots))
	for i, d := range c.Dots {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, "-")
}

// Source produces a finite, ordered, restartable candidate sequence.
// Every yielded candidate is already valid for the source's constraints.
type Source interface {
	// Kind reports which candidate family the source yields.
	Kind() Kind

	// Candidates returns the sequence, starting from the first candidate
	// on every call.
	Candidates() iter.Seq[Candidate]
}

// Sized is implemented by sources that know their length up front.
type Sized interface {
	Len() int
}

// Count returns the number of candidates src yields. Sources without a
// known length are walked once.
func Count(src Source) int {
	if s, ok := src.(Sized); ok {
		return s.Len()
	}
	n := 0
	for range src.Candidates() {
		n++
	}
	return n
}

// From returns the candidates of src whose Index is at least start.
func From(src Source, start int) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for c := range src.Candidates() {
			if c.Index < start {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}
