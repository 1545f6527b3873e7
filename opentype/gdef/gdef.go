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

// Package gdef contains the in-memory representation of the OpenType
// Glyph Definition (GDEF) table.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/gdef
package gdef

import (
	"seehuhn.de/go/otfea/glyph"
	"seehuhn.de/go/otfea/opentype/classdef"
	"seehuhn.de/go/otfea/opentype/coverage"
)

// Glyph classes, as used in GlyphClassDef.
const (
	GlyphClassUnclassified = 0
	GlyphClassBase         = 1
	GlyphClassLigature     = 2
	GlyphClassMark         = 3
	GlyphClassComponent    = 4
)

// Table is the in-memory representation of a GDEF table.
type Table struct {
	// GlyphClass assigns each glyph to one of the Glyph Class constants
	// above.  Glyphs absent from the map are unclassified.
	GlyphClass classdef.Table

	// MarkAttachClass partitions mark glyphs into mutually exclusive
	// attachment classes, numbered from 1.
	MarkAttachClass classdef.Table

	// MarkGlyphSets holds the mark-filtering sets referenced by lookups'
	// UseMarkFilteringSet flag, in the order they were first observed.
	MarkGlyphSets []coverage.Set

	// AttachList records, per base glyph, the contour point indices that
	// are valid attachment points.
	AttachList map[glyph.ID][]uint16

	// LigCaretList records, per ligature glyph, the caret positions
	// splitting it into components.
	LigCaretList map[glyph.ID][]CaretValue
}

// CaretValue is a single ligature caret position.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/gdef#caretvalue-tables
type CaretValue struct {
	// Format is 1 (plain coordinate), 2 (contour point) or 3 (coordinate
	// plus device table, not modelled here since this table is never
	// serialized by this package).
	Format int

	Coordinate int16
	PointIndex uint16
}

// IsEmpty reports whether the table carries no information at all, and
// should therefore be omitted from the compiled font.
func (t *Table) IsEmpty() bool {
	if t == nil {
		return true
	}
	return len(t.GlyphClass) == 0 &&
		len(t.MarkAttachClass) == 0 &&
		len(t.MarkGlyphSets) == 0 &&
		len(t.AttachList) == 0 &&
		len(t.LigCaretList) == 0
}
