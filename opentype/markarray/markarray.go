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

// Package markarray contains the Record type used by mark-to-base,
// mark-to-ligature and mark-to-mark positioning subtables to associate
// each mark glyph with a mark class and an anchor.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#mark-array-table
package markarray

import "seehuhn.de/go/otfea/opentype/anchor"

// Record is one entry of a mark array, indexed in parallel with the
// owning subtable's mark coverage table.
type Record struct {
	Class uint16
	Table anchor.Table
}
