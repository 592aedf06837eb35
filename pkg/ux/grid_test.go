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
	"strings"
	"testing"
)

func TestRenderGrid_Minimal(t *testing.T) {
	withLevel(t, PersonalityMinimal)

	got := RenderGrid(3, []int{0, 4, 8})
	want := "1 ○ ○\n○ 2 ○\n○ ○ 3"
	if got != want {
		t.Errorf("RenderGrid() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderGrid_Machine(t *testing.T) {
	withLevel(t, PersonalityMachine)

	got := RenderGrid(2, []int{3, 0})
	want := "2 ·\n· 1"
	if got != want {
		t.Errorf("RenderGrid() = %q, want %q", got, want)
	}
}

func TestRenderGrid_WideSteps(t *testing.T) {
	withLevel(t, PersonalityMinimal)

	path := []int{0, 1, 2, 3, 7, 6, 5, 4, 8, 9}
	got := RenderGrid(4, path)
	lines := strings.Split(got, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d rows, want 4", len(lines))
	}
	if lines[0] != " 1  2  3  4" {
		t.Errorf("row 0 = %q", lines[0])
	}
	if lines[2] != " 9 10  ○  ○" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestRenderGrid_Empty(t *testing.T) {
	if got := RenderGrid(0, nil); got != "" {
		t.Errorf("RenderGrid(0) = %q, want empty", got)
	}
}

func TestRenderPath(t *testing.T) {
	withLevel(t, PersonalityMinimal)
	if got := RenderPath([]int{0, 4, 8}); got != "1 → 5 → 9" {
		t.Errorf("RenderPath() = %q", got)
	}

	withLevel(t, PersonalityMachine)
	if got := RenderPath([]int{0, 4, 8}); got != "1-5-9" {
		t.Errorf("RenderPath() = %q", got)
	}
}
