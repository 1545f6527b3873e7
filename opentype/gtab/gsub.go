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

package gtab

import (
	"seehuhn.de/go/otfea/glyph"
	"seehuhn.de/go/otfea/opentype/coverage"
)

// GSUB lookup type numbers, as used by [LookupMetaInfo.LookupType] when
// the owning lookup belongs to the GSUB table.
const (
	GsubTypeSingle              uint16 = 1
	GsubTypeMultiple            uint16 = 2
	GsubTypeAlternate           uint16 = 3
	GsubTypeLigature            uint16 = 4
	GsubTypeContext             uint16 = 5
	GsubTypeChainedContext      uint16 = 6
	GsubTypeReverseChainContext uint16 = 8
)

// Gsub1_1 is a Single Substitution subtable (GSUB type 1, format 1).
// Every covered glyph is replaced by the glyph Delta ids further up the
// font's glyph order; this compact encoding is chosen automatically for
// replacements that happen to form a constant shift.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/gsub#11-single-substitution-format-1
type Gsub1_1 struct {
	Cov   coverage.Set
	Delta glyph.ID
}

// Type implements the [Subtable] interface.
func (l *Gsub1_1) Type() uint16 { return GsubTypeSingle }

// Gsub1_2 is a Single Substitution subtable (GSUB type 1, format 2).
// The replacement for a covered glyph is looked up in SubstituteGlyphIDs,
// indexed by the glyph's coverage index.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/gsub#12-single-substitution-format-2
type Gsub1_2 struct {
	Cov                coverage.Table
	SubstituteGlyphIDs []glyph.ID // indexed by coverage index
}

// Type implements the [Subtable] interface.
func (l *Gsub1_2) Type() uint16 { return GsubTypeSingle }

// Gsub2_1 is a Multiple Substitution subtable (GSUB type 2, format 1).
// Each covered glyph expands into a sequence of one or more glyphs, found
// in Repl indexed by coverage index. An empty replacement sequence
// implements the "delete this glyph" idiom (`sub A by NULL;`).
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/gsub#21-multiple-substitution-format-1
type Gsub2_1 struct {
	Cov  coverage.Table
	Repl [][]glyph.ID // indexed by coverage index
}

// Type implements the [Subtable] interface.
func (l *Gsub2_1) Type() uint16 { return GsubTypeMultiple }

// Gsub3_1 is an Alternate Substitution subtable (GSUB type 3, format 1).
// Each covered glyph has an ordered list of alternate forms a consuming
// layout engine may choose among; this package only needs to carry the
// list, not choose from it.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/gsub#31-alternate-substitution-format-1
type Gsub3_1 struct {
	Cov        coverage.Table
	Alternates [][]glyph.ID // indexed by coverage index
}

// Type implements the [Subtable] interface.
func (l *Gsub3_1) Type() uint16 { return GsubTypeAlternate }

// Gsub4_1 is a Ligature Substitution subtable (GSUB type 4, format 1).
// Each covered glyph starts zero or more ligatures; within one coverage
// index the entries in Repl are tried in order, so "ffl" must precede
// "ff" for the longer match to win.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/gsub#41-ligature-substitution-format-1
type Gsub4_1 struct {
	Cov  coverage.Table
	Repl [][]Ligature // indexed by coverage index
}

// Type implements the [Subtable] interface.
func (l *Gsub4_1) Type() uint16 { return GsubTypeLigature }

// Ligature represents one substitution of a glyph sequence into a single
// glyph, as used by [Gsub4_1].
type Ligature struct {
	// In is the sequence of input glyphs that is replaced by Out,
	// excluding the first glyph of the sequence (which is implied by the
	// coverage index this Ligature is stored under).
	In []glyph.ID

	// Out is the glyph that replaces the input sequence.
	Out glyph.ID
}

// Gsub8_1 is a Reverse Chaining Contextual Single Substitution subtable
// (GSUB type 8, format 1). Unlike other GSUB lookups it is the only type
// that matches and replaces glyphs in a single pass without feeding
// nested lookups, and the only type that can see from the finished
// (already-substituted) side of earlier lookups via glyph-by-glyph
// scanning right to left.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/gsub#81-reverse-chaining-contextual-single-substitution-format-1-coverage-based-glyph-contexts
type Gsub8_1 struct {
	Input              coverage.Table
	Backtrack          []coverage.Table
	Lookahead          []coverage.Table
	SubstituteGlyphIDs []glyph.ID // indexed by input coverage index
}

// Type implements the [Subtable] interface.
func (l *Gsub8_1) Type() uint16 { return GsubTypeReverseChainContext }
