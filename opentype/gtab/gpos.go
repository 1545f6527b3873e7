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
	"seehuhn.de/go/otfea/opentype/anchor"
	"seehuhn.de/go/otfea/opentype/classdef"
	"seehuhn.de/go/otfea/opentype/coverage"
)

// GPOS lookup type numbers, as used by [LookupMetaInfo.LookupType] when
// the owning lookup belongs to the GPOS table.
const (
	GposTypeSingle         uint16 = 1
	GposTypePair           uint16 = 2
	GposTypeCursive        uint16 = 3
	GposTypeMarkToBase     uint16 = 4
	GposTypeMarkToLigature uint16 = 5
	GposTypeMarkToMark     uint16 = 6
	GposTypeContext        uint16 = 7
	GposTypeChainedContext uint16 = 8
)

// Gpos1_1 is a Single Adjustment Positioning subtable (GPOS type 1,
// format 1). It applies one fixed adjustment to every covered glyph;
// this is the shape produced by a value record that is constant across
// its whole coverage table.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/gpos#single-adjustment-positioning-format-1-single-positioning-value
type Gpos1_1 struct {
	Cov    coverage.Table
	Adjust *ValueRecord
}

// Type implements the [Subtable] interface.
func (l *Gpos1_1) Type() uint16 { return GposTypeSingle }

// Gpos1_2 is a Single Adjustment Positioning subtable (GPOS type 1,
// format 2). Each covered glyph gets its own adjustment, found in
// Adjust indexed by coverage index.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/gpos#single-adjustment-positioning-format-2-array-of-positioning-values
type Gpos1_2 struct {
	Cov    coverage.Table
	Adjust []*ValueRecord // indexed by coverage index
}

// Type implements the [Subtable] interface.
func (l *Gpos1_2) Type() uint16 { return GposTypeSingle }

// Gpos2_1 is a Pair Adjustment Positioning subtable (GPOS type 2,
// format 1), keyed directly by the glyph pair. This is the shape used
// for explicit `pos A B -40;` kerning rules naming individual glyphs.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/gpos#pair-adjustment-positioning-format-1-adjustments-for-glyph-pairs
type Gpos2_1 map[glyph.Pair]*PairAdjust

// Type implements the [Subtable] interface.
func (l Gpos2_1) Type() uint16 { return GposTypePair }

// PairAdjust represents the two value records attached to a glyph pair,
// for use in [Gpos2_1] and [Gpos2_2] subtables. Second is nil when the
// rule only adjusts the first glyph.
type PairAdjust struct {
	First, Second *ValueRecord
}

// Gpos2_2 is a Pair Adjustment Positioning subtable (GPOS type 2,
// format 2), keyed by glyph class rather than by individual glyph. This
// is the shape used for `pos @CLASS1 @CLASS2 -40;` kerning rules.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/gpos#pair-adjustment-positioning-format-2-class-pair-adjustment
type Gpos2_2 struct {
	Cov            coverage.Set
	Class1, Class2 classdef.Table
	Adjust         [][]*PairAdjust // indexed by class1 index, then class2 index
}

// Type implements the [Subtable] interface.
func (l *Gpos2_2) Type() uint16 { return GposTypePair }

// Gpos3_1 is a Cursive Attachment Positioning subtable (GPOS type 3,
// format 1). The exit anchor of a covered glyph is aligned with the
// entry anchor of the following glyph.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/gpos#cursive-attachment-positioning-format1-cursive-attachment
type Gpos3_1 struct {
	Cov     coverage.Table
	Records []EntryExitRecord // indexed by coverage index
}

// Type implements the [Subtable] interface.
func (l *Gpos3_1) Type() uint16 { return GposTypeCursive }

// EntryExitRecord pairs the entry and exit anchors of one glyph in a
// [Gpos3_1] subtable. Either anchor may be empty.
type EntryExitRecord struct {
	Entry anchor.Table
	Exit  anchor.Table
}
