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
	"strconv"
	"strings"
)

// RenderGrid draws a size x size lock grid with the dots of path numbered
// in the order they are swiped. Unused dots are drawn as ○ (· in machine
// mode).
//
//	1 ○ ○
//	○ 2 ○
//	○ ○ 3
func RenderGrid(size int, path []int) string {
	if size <= 0 {
		return ""
	}
	step := make(map[int]int, len(path))
	for i, d := range path {
		step[d] = i + 1
	}
	width := len(strconv.Itoa(len(path)))
	level := GetPersonality().Level
	machine := level == PersonalityMachine
	plain := !level.Styled()

	var b strings.Builder
	for row := range size {
		cells := make([]string, size)
		for col := range size {
			dot := row*size + col
			var cell string
			if n, ok := step[dot]; ok {
				cell = fmt.Sprintf("%*d", width, n)
				if !plain {
					cell = Styles.Highlight.Render(cell)
				}
			} else {
				empty := "○"
				if machine {
					empty = "·"
				}
				cell = strings.Repeat(" ", width-1) + empty
				if !plain {
					cell = Styles.Muted.Render(cell)
				}
			}
			cells[col] = cell
		}
		b.WriteString(strings.Join(cells, " "))
		if row < size-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// RenderPath lists the dots of path as 1-based numbers joined by arrows,
// e.g. "1 → 5 → 9".
func RenderPath(path []int) string {
	arrow := " " + string(IconArrow) + " "
	if GetPersonality().Level == PersonalityMachine {
		arrow = "-"
	}
	parts := make([]string, len(path))
	for i, d := range path {
		parts[i] = strconv.Itoa(d + 1)
	}
	return strings.Join(parts, arrow)
}
