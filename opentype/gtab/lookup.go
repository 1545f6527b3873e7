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

// Package gtab contains the in-memory representation of OpenType GSUB and
// GPOS lookups, the typed subtable kinds they carry, and the lookup-list
// and flag types shared between both tables.
package gtab

// LookupIndex enumerates lookups within one table (GSUB or GPOS).
// It is used as an index into a [LookupList]; ids are assigned densely
// in allocation order, one sequence per table.
type LookupIndex uint32

// LookupList contains the lookups belonging to one table (GSUB or GPOS),
// in the order they were assigned.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#lookup-list-table
type LookupList []*LookupTable

// LookupTable represents one lookup inside a GSUB or GPOS table.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#lookup-table
type LookupTable struct {
	Meta *LookupMetaInfo

	// Subtables holds the typed subtables belonging to this lookup, in
	// the order they were assembled.  An explicit subtable break in the
	// source starts a new entry; rules accumulated between breaks share
	// one subtable.
	//
	// The concrete type of every entry matches Meta.LookupType.
	Subtables []Subtable
}

// LookupMetaInfo contains the information associated with a [LookupTable]
// that is not specific to any one subtable.
type LookupMetaInfo struct {
	// LookupType identifies the kind of subtables inside this lookup.
	// GSUB and GPOS use independent numbering schemes.
	LookupType uint16

	// LookupFlags contains bits that modify how the lookup applies to a
	// glyph string.
	LookupFlags LookupFlags

	// MarkFilteringSet indexes into the GDEF table's mark glyph sets.
	// Only meaningful when LookupFlags has UseMarkFilteringSet set.
	MarkFilteringSet uint16

	// Name is set for lookups that were defined as a named lookup block
	// in the source.  Anonymous lookups (including inline sublookups
	// generated for contextual rules) leave this empty.
	Name string
}

// LookupFlags contains bits that modify application of a lookup to a
// glyph string.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#lookupFlags
type LookupFlags uint16

// Bit values for LookupFlags.
const (
	// RightToLeft indicates that for GPOS lookup type 3 (cursive
	// attachment), the last glyph in the sequence (rather than the
	// first) is positioned on the baseline.
	RightToLeft LookupFlags = 0x0001

	// IgnoreBaseGlyphs skips glyphs classified as base glyphs in GDEF.
	IgnoreBaseGlyphs LookupFlags = 0x0002

	// IgnoreLigatures skips glyphs classified as ligatures in GDEF.
	IgnoreLigatures LookupFlags = 0x0004

	// IgnoreMarks skips glyphs classified as marks in GDEF.
	IgnoreMarks LookupFlags = 0x0008

	// UseMarkFilteringSet restricts IgnoreMarks-style skipping to marks
	// outside the lookup's MarkFilteringSet.
	UseMarkFilteringSet LookupFlags = 0x0010

	// MarkAttachTypeMask, if nonzero, restricts matching marks to the
	// given mark attachment class, as assigned in the GDEF table.
	MarkAttachTypeMask LookupFlags = 0xFF00
)

// Subtable represents one subtable of a GSUB or GPOS lookup.
//
// The following concrete types are GSUB subtables:
//
//   - [*Gsub1_1]
//   - [*Gsub1_2]
//   - [*Gsub2_1]
//   - [*Gsub3_1]
//   - [*Gsub4_1]
//   - [*Gsub8_1]
//
// The following concrete types are GPOS subtables:
//
//   - [*Gpos1_1]
//   - [*Gpos1_2]
//   - [Gpos2_1]
//   - [*Gpos2_2]
//   - [*Gpos3_1]
//   - [*Gpos4_1]
//   - [*Gpos5_1]
//   - [*Gpos6_1]
//
// The following types can occur in both GSUB and GPOS lookups, for
// contextual and chained-contextual rules:
//
//   - [*SeqContext1]
//   - [*SeqContext2]
//   - [*SeqContext3]
//   - [*ChainedSeqContext1]
//   - [*ChainedSeqContext2]
//   - [*ChainedSeqContext3]
//
// The set of implementing types is closed; callers type-switch on it
// rather than relying on open-ended dispatch.
type Subtable interface {
	// Type returns the OpenType lookup type this subtable belongs to.
	// GSUB and GPOS use independent numbering, so a caller also needs
	// the owning LookupTable's table (GSUB/GPOS) to interpret this.
	Type() uint16
}
