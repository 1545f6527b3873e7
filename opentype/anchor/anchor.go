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

// Package anchor contains the Table type for OpenType anchor tables,
// the single-point attachment coordinates used by cursive and mark
// positioning lookups.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#anchor-tables
package anchor

import "seehuhn.de/go/otfea/opentype/device"

// Table represents an anchor point.  The zero value is the "no anchor"
// (null) anchor; callers test for this with [Table.IsEmpty].
//
// Format is 0 for the null anchor, and otherwise 1, 2 or 3 following the
// OpenType AnchorFormat field:
//
//	1: x, y only.
//	2: x, y, plus a contour point index (hinting hint, not used here).
//	3: x, y, plus optional x/y device tables.
type Table struct {
	Format int

	X, Y int16

	// ContourPoint is valid when Format == 2.
	ContourPoint uint16

	// XDevice and YDevice are valid when Format == 3.
	XDevice, YDevice device.Table
}

// IsEmpty reports whether the anchor is the null anchor.
func (t Table) IsEmpty() bool {
	return t.Format == 0
}
