// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package geometry

import (
	"errors"
	"fmt"
)

// MinSize is the smallest grid edge that can hold a pattern.
const MinSize = 2

// ErrInvalidSize is returned by NewGrid for edges below MinSize.
var ErrInvalidSize = errors.New("geometry: grid size must be at least 2")

// Position returns the (row, col) coordinate of dot on a size x size grid.
//
// # Examples
//
//	Position(6, 4) // (1, 2)
//	Position(3, 3) // (1, 0)
func Position(dot, size int) (row, col int) {
	return dot / size, dot % size
}

// Distance returns the Chebyshev distance between dots a and b.
//
// The result is symmetric and zero only when a == b.
func Distance(a, b, size int) int {
	ra, ca := Position(a, size)
	rb, cb := Position(b, size)
	return max(abs(ra-rb), abs(ca-cb))
}

// Grid is a square dot grid of a fixed edge length.
type Grid struct {
	size int
}

// NewGrid returns a grid with the given edge length.
func NewGrid(size int) (Grid, error) {
	if size < MinSize {
		return Grid{}, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	return Grid{size: size}, nil
}

// MustGrid is NewGrid for constant sizes; it panics on an invalid size.
func MustGrid(size int) Grid {
	g, err := NewGrid(size)
	if err != nil {
		panic(err)
	}
	return g
}

// Size returns the edge length.
func (g Grid) Size() int { return g.size }

// Cells returns the number of dots on the grid.
func (g Grid) Cells() int { return g.size * g.size }

// Contains reports whether dot is a valid index on the grid.
func (g Grid) Contains(dot int) bool {
	return dot >= 0 && dot < g.Cells()
}

// Position returns the (row, col) coordinate of dot.
func (g Grid) Position(dot int) (row, col int) {
	return Position(dot, g.size)
}

// Index is the inverse of Position.
func (g Grid) Index(row, col int) int {
	return row*g.size + col
}

// Distance returns the Chebyshev distance between two dots on the grid.
func (g Grid) Distance(a, b int) int {
	return Distance(a, b, g.size)
}

// Dots returns every dot index of the grid in row-major order.
func (g Grid) Dots() []int {
	dots := make([]int, g.Cells())
	for i := range dots {
		dots[i] = i
	}
	return dots
}

// WithinDistance reports whether every adjacent pair in path is at most
// maxDistance apart. Paths shorter than two dots always pass.
func (g Grid) WithinDistance(path []int, maxDistance int) bool {
	for i := 0; i+1 < len(path); i++ {
		if g.Distance(path[i], path[i+1]) > maxDistance {
			return false
		}
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
