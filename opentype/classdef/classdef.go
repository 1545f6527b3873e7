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

// Package classdef contains the Table type for OpenType glyph class
// definitions, used to partition glyphs for class-based pair positioning
// and class-based contextual lookups.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#class-definition-table
package classdef

import "seehuhn.de/go/otfea/glyph"

// Table maps glyph ids to class numbers.  Glyphs absent from the map
// belong to class 0, the implicit default.
type Table map[glyph.ID]uint16

// NumClasses returns one more than the largest class id used, i.e. the
// number of classes including class 0.
func (t Table) NumClasses() int {
	var max uint16
	for _, class := range t {
		if class > max {
			max = class
		}
	}
	return int(max) + 1
}

// Glyphs returns every glyph assigned to the given class.
func (t Table) Glyphs(class uint16) []glyph.ID {
	var glyphs []glyph.ID
	for g, c := range t {
		if c == class {
			glyphs = append(glyphs, g)
		}
	}
	return glyphs
}
