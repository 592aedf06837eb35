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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosition_Corners(t *testing.T) {
	for _, size := range []int{2, 3, 4, 5, 6} {
		r, c := Position(0, size)
		assert.Equal(t, [2]int{0, 0}, [2]int{r, c}, "size %d origin", size)

		r, c = Position(size, size)
		assert.Equal(t, [2]int{1, 0}, [2]int{r, c}, "size %d second row", size)

		r, c = Position(size*2, size)
		assert.Equal(t, [2]int{2, 0}, [2]int{r, c}, "size %d third row", size)

		r, c = Position(size*size-1, size)
		assert.Equal(t, [2]int{size - 1, size - 1}, [2]int{r, c}, "size %d last dot", size)
	}
}

func TestPosition_Interior(t *testing.T) {
	r, c := Position(6, 4)
	assert.Equal(t, 1, r)
	assert.Equal(t, 2, c)

	r, c = Position(3+2, 3)
	assert.Equal(t, 1, r)
	assert.Equal(t, 2, c)
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b int
		size int
		want int
	}{
		{"same dot origin", 0, 0, 3, 0},
		{"same dot far", 99, 99, 10, 0},
		{"horizontal neighbour", 0, 1, 3, 1},
		{"vertical neighbour", 0, 3, 3, 1},
		{"diagonal neighbour", 0, 4, 3, 1},
		{"two columns", 0, 2, 3, 2},
		{"two rows", 0, 6, 3, 2},
		{"corner to corner 3x3", 0, 8, 3, 2},
		{"corner to corner 4x4", 0, 15, 4, 3},
		{"knight move", 0, 5, 3, 2},
		{"wraparound is not adjacent", 2, 3, 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b, tt.size))
			assert.Equal(t, tt.want, Distance(tt.b, tt.a, tt.size), "distance must be symmetric")
		})
	}
}

func TestDistance_ZeroOnlyForSameDot(t *testing.T) {
	g := MustGrid(4)
	for _, a := range g.Dots() {
		for _, b := range g.Dots() {
			d := g.Distance(a, b)
			if a == b {
				assert.Zero(t, d)
			} else {
				assert.Positive(t, d, "dots %d and %d", a, b)
			}
		}
	}
}

func TestNewGrid(t *testing.T) {
	_, err := NewGrid(1)
	require.ErrorIs(t, err, ErrInvalidSize)

	g, err := NewGrid(3)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Size())
	assert.Equal(t, 9, g.Cells())
	assert.True(t, g.Contains(0))
	assert.True(t, g.Contains(8))
	assert.False(t, g.Contains(9))
	assert.False(t, g.Contains(-1))
	assert.Equal(t, 7, g.Index(g.Position(7)))
}

func TestWithinDistance(t *testing.T) {
	g := MustGrid(3)

	assert.True(t, g.WithinDistance(nil, 1))
	assert.True(t, g.WithinDistance([]int{8}, 1))
	assert.True(t, g.WithinDistance([]int{0, 1, 2}, 1))
	assert.True(t, g.WithinDistance([]int{0, 4, 8}, 1))
	assert.False(t, g.WithinDistance([]int{0, 2}, 1))
	assert.True(t, g.WithinDistance([]int{0, 2}, 2))

	// Only adjacent pairs count: 0 and 2 are far apart but never adjacent here.
	assert.True(t, g.WithinDistance([]int{0, 1, 5, 2}, 1))
}
