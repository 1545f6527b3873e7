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

// Package device contains types for device (and variation) tables,
// the optional per-size/per-instance adjustments that can be attached
// to value records and anchors.
package device

// Table represents a device table, giving a small adjustment to apply
// to a value at specific pixels-per-em sizes.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#device-and-variationindex-tables
type Table struct {
	StartSize uint16
	EndSize   uint16
	// Values holds one delta per ppem in [StartSize, EndSize].
	Values []int8
}

// IsEmpty reports whether the table carries no adjustment at all.
func (t *Table) IsEmpty() bool {
	return t == nil || len(t.Values) == 0
}
