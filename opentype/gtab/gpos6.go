// seehuhn.de/go/otfea - a compiler for the OpenType Feature File language
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>
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

package gtab

import (
	"seehuhn.de/go/otfea/opentype/anchor"
	"seehuhn.de/go/otfea/opentype/coverage"
	"seehuhn.de/go/otfea/opentype/markarray"
)

// Gpos6_1 is a Mark-to-Mark Attachment Positioning subtable (format 1).
// It has the same shape as [Gpos4_1] (mark-to-base) with both coverage
// tables drawn from mark glyphs instead of one mark and one base: the
// second ("base") mark is looked up by scanning backwards from the
// attaching mark for the nearest preceding covered mark.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/gpos#mark-to-mark-attachment-positioning-format-1-mark-to-mark-attachment
type Gpos6_1 struct {
	Mark1Cov  coverage.Table
	Mark2Cov  coverage.Table
	MarkArray []markarray.Record // indexed by mark1 coverage index
	Mark2Array [][]anchor.Table  // indexed by mark2 coverage index, then by mark class
}

// Type implements the [Subtable] interface.
func (l *Gpos6_1) Type() uint16 { return GposTypeMarkToMark }

// CountMarkClasses returns the number of mark classes referenced by the
// subtable, inferred from the width of Mark2Array's rows (or, if empty,
// from the highest class id used in MarkArray).
func (l *Gpos6_1) CountMarkClasses() int {
	if len(l.Mark2Array) > 0 {
		return len(l.Mark2Array[0])
	}

	var maxClass uint16
	for _, rec := range l.MarkArray {
		if rec.Class > maxClass {
			maxClass = rec.Class
		}
	}
	return int(maxClass) + 1
}
