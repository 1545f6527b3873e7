// seehuhn.de/go/otfea - a compiler for the OpenType Feature File language
// Copyright (C) 2022  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package compile

import "seehuhn.de/go/otfea/glyph"

// enumerateSequences expands a rule position list, each position
// possibly a multi-glyph class, into every concrete glyph sequence the
// rule matches: the cartesian product of the positions, produced in
// lexicographic order (the last position varies fastest). A ligature
// rule's component list is expanded this way; a `from` alternate set
// is not.
//
// A single-glyph position contributes exactly one choice at its index,
// so positions that are not classes simply pass through unchanged.
func enumerateSequences(positions [][]glyph.ID) [][]glyph.ID {
	if len(positions) == 0 {
		return nil
	}
	for _, p := range positions {
		if len(p) == 0 {
			return nil
		}
	}

	total := 1
	for _, p := range positions {
		total *= len(p)
	}
	out := make([][]glyph.ID, 0, total)

	indices := make([]int, len(positions))
	for {
		seq := make([]glyph.ID, len(positions))
		for i, p := range positions {
			seq[i] = p[indices[i]]
		}
		out = append(out, seq)

		i := len(positions) - 1
		for i >= 0 {
			indices[i]++
			if indices[i] < len(positions[i]) {
				break
			}
			indices[i] = 0
			i--
		}
		if i < 0 {
			break
		}
	}
	return out
}
