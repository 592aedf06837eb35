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
	"strings"
)

// DotChar returns the passphrase character for a dot index.
//
// The oracle expects dot d as the character '1'+d, so indices past 8 run
// into punctuation: 9 is ':' and 15 is '@'.
func DotChar(dot int) rune {
	return rune('1' + dot)
}

// EncodePhrase serializes a dot path into the oracle's passphrase form.
func EncodePhrase(dots []int) string {
	var b strings.Builder
	b.Grow(len(dots))
	for _, d := range dots {
		b.WriteRune(DotChar(d))
	}
	return b.String()
}

// ErrBadPhrase is returned by DecodePhrase for characters below '1'.
var ErrBadPhrase = errors.New("candidate: phrase character is not a dot")

// DecodePhrase is the inverse of EncodePhrase. Repeated dots are rejected.
func DecodePhrase(phrase string) ([]int, error) {
	dots := make([]int, 0, len(phrase))
	seen := make(map[int]bool, len(phrase))
	for _, r := range phrase {
		if r < '1' {
			return nil, fmt.Errorf("%w: %q", ErrBadPhrase, r)
		}
		d := int(r - '1')
		if seen[d] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateDot, d)
		}
		seen[d] = true
		dots = append(dots, d)
	}
	return dots, nil
}
