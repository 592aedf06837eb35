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
	"errors"
	"fmt"
	"iter"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/geometry"
)

// Pattern option errors.
var (
	ErrNoDots         = errors.New("pattern: dot set is empty")
	ErrDotOutsideGrid = errors.New("pattern: dot is outside the grid")
	ErrDuplicateDot   = errors.New("pattern: dot set contains a duplicate")
	ErrLengthRange    = errors.New("pattern: invalid length range")
	ErrMaxDistance    = errors.New("pattern: max distance must be at least 1")
)

// PatternOptions bound the patterns a PatternSource yields.
type PatternOptions struct {
	// Grid is the dot grid the pattern is drawn on.
	Grid geometry.Grid

	// Dots is the usable dot set. Its order drives combination order.
	Dots []int

	// LenMin and LenMax bound the pattern length, inclusive.
	LenMin int
	LenMax int

	// MaxDistance is the largest Chebyshev distance allowed between two
	// consecutive dots of a pattern.
	MaxDistance int
}

// Validate checks the options for internal consistency.
func (o PatternOptions) Validate() error {
	if len(o.Dots) == 0 {
		return ErrNoDots
	}
	seen := make(map[int]struct{}, len(o.Dots))
	for _, d := range o.Dots {
		if !o.Grid.Contains(d) {
			return fmt.Errorf("%w: %d on a %dx%d grid", ErrDotOutsideGrid, d, o.Grid.Size(), o.Grid.Size())
		}
		if _, dup := seen[d]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateDot, d)
		}
		seen[d] = struct{}{}
	}
	if o.LenMin < 1 || o.LenMin > o.LenMax {
		return fmt.Errorf("%w: [%d, %d]", ErrLengthRange, o.LenMin, o.LenMax)
	}
	if o.MaxDistance < 1 {
		return ErrMaxDistance
	}
	return nil
}

// PatternSource yields every dot path allowed by its options.
//
// Order is length ascending; within one length, combinations of the dot
// set in lexicographic position order come first and the permutations of
// each combination second. Paths with an adjacent pair further apart than
// MaxDistance are dropped. Lengths larger than the dot set yield nothing.
type PatternSource struct {
	opts PatternOptions
}

// NewPatternSource validates opts and returns a source over them.
func NewPatternSource(opts PatternOptions) (*PatternSource, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	dots := make([]int, len(opts.Dots))
	copy(dots, opts.Dots)
	opts.Dots = dots
	return &PatternSource{opts: opts}, nil
}

// Kind returns KindPattern.
func (s *PatternSource) Kind() Kind { return KindPattern }

// Options returns a copy of the source options.
func (s *PatternSource) Options() PatternOptions {
	o := s.opts
	o.Dots = append([]int(nil), s.opts.Dots...)
	return o
}

// Candidates returns the pattern sequence.
func (s *PatternSource) Candidates() iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		index := 0
		for n := s.opts.LenMin; n <= s.opts.LenMax; n++ {
			if n > len(s.opts.Dots) {
				return
			}
			for path := range s.paths(n) {
				if !s.opts.Grid.WithinDistance(path, s.opts.MaxDistance) {
					continue
				}
				if !yield(Candidate{Index: index, Dots: path, Phrase: EncodePhrase(path)}) {
					return
				}
				index++
			}
		}
	}
}

// paths yields every ordering of every n-dot combination, unfiltered.
// Each yielded slice is freshly allocated.
func (s *PatternSource) paths(n int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		chosen := make([]int, n)
		order := make([]int, n)
		combos := combin.NewCombinationGenerator(len(s.opts.Dots), n)
		for combos.Next() {
			combos.Combination(chosen)
			perms := combin.NewPermutationGenerator(n, n)
			for perms.Next() {
				perms.Permutation(order)
				path := make([]int, n)
				for i, p := range order {
					path[i] = s.opts.Dots[chosen[p]]
				}
				if !yield(path) {
					return
				}
			}
		}
	}
}
