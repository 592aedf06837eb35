// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package geometry maps unlock-pattern dots onto a square grid.
//
// Dots are identified by a row-major linear index. On a 4x4 grid the
// indices are laid out as:
//
//	00 01 02 03
//	04 05 06 07
//	08 09 10 11
//	12 13 14 15
//
// Distances between dots use the Chebyshev metric, so every dot touching
// another one (including diagonally) is at distance 1:
//
//	2 2 2 2 2
//	2 1 1 1 2
//	2 1 X 1 2
//	2 1 1 1 2
//	2 2 2 2 2
package geometry
