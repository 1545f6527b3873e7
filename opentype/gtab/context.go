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
	"seehuhn.de/go/otfea/opentype/classdef"
	"seehuhn.de/go/otfea/opentype/coverage"
)

// SeqLookup is a nested lookup reference attached to one position of a
// contextual rule: apply the lookup LookupListIndex (in the same table,
// GSUB or GPOS, as the owning subtable) at sequence position
// SequenceIndex relative to the match.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#sequence-lookup-record
type SeqLookup struct {
	SequenceIndex   uint16
	LookupListIndex LookupIndex
}

// SeqRule is one rule of a [SeqContext1] subtable: Input is matched
// glyph-for-glyph against the input sequence (the first glyph is
// implied by the subtable's coverage table and is not repeated here).
type SeqRule struct {
	Input   []glyph.ID
	Actions []SeqLookup
}

// ClassSeqRule is one rule of a [SeqContext2] subtable: Input holds
// class ids to match against, resolved through the subtable's class
// definition.
type ClassSeqRule struct {
	Input   []uint16
	Actions []SeqLookup
}

// ChainedSeqRule is one rule of a [ChainedSeqContext1] subtable.
type ChainedSeqRule struct {
	Backtrack []glyph.ID // read towards the start of the text
	Input     []glyph.ID
	Lookahead []glyph.ID // read towards the end of the text
	Actions   []SeqLookup
}

// ChainedClassSeqRule is one rule of a [ChainedSeqContext2] subtable.
type ChainedClassSeqRule struct {
	Backtrack []uint16
	Input     []uint16
	Lookahead []uint16
	Actions   []SeqLookup
}

// SeqContext1 is a Sequence Context subtable (format 1): rules are
// grouped by the glyph at the first input position, found via Cov, and
// then matched glyph-by-glyph.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#sequence-context-format-1-simple-glyph-contexts
type SeqContext1 struct {
	Cov   coverage.Table
	Rules [][]*SeqRule // indexed by coverage index
}

// Type implements the [Subtable] interface. Because this subtable kind
// occurs in both GSUB (type 5) and GPOS (type 7) lookups, the returned
// constant is only meaningful together with the owning LookupTable's
// Meta.LookupType; use that field as the authoritative type number.
func (l *SeqContext1) Type() uint16 { return GsubTypeContext }

// SeqContext2 is a Sequence Context subtable (format 2): like
// [SeqContext1], but positions after the first are matched by class id
// rather than by glyph.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#sequence-context-format-2-class-based-glyph-contexts
type SeqContext2 struct {
	Cov   coverage.Table
	Input classdef.Table
	Rules [][]*ClassSeqRule // indexed by the class of the first input glyph
}

// Type implements the [Subtable] interface.
func (l *SeqContext2) Type() uint16 { return GsubTypeContext }

// SeqContext3 is a Sequence Context subtable (format 3): every input
// position has its own coverage set, with no separate rule list.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#sequence-context-format-3-coverage-based-glyph-contexts
type SeqContext3 struct {
	Input   []coverage.Set
	Actions []SeqLookup
}

// Type implements the [Subtable] interface.
func (l *SeqContext3) Type() uint16 { return GsubTypeContext }

// ChainedSeqContext1 is a Chained Sequence Context subtable (format 1).
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#chained-sequence-context-format-1-simple-glyph-contexts
type ChainedSeqContext1 struct {
	Cov   coverage.Table
	Rules [][]*ChainedSeqRule // indexed by coverage index
}

// Type implements the [Subtable] interface.
func (l *ChainedSeqContext1) Type() uint16 { return GsubTypeChainedContext }

// ChainedSeqContext2 is a Chained Sequence Context subtable (format 2).
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#chained-sequence-context-format-2-class-based-glyph-contexts
type ChainedSeqContext2 struct {
	Cov                           coverage.Table
	Backtrack, Input, Lookahead   classdef.Table
	Rules                         [][]*ChainedClassSeqRule // indexed by the class of the first input glyph
}

// Type implements the [Subtable] interface.
func (l *ChainedSeqContext2) Type() uint16 { return GsubTypeChainedContext }

// ChainedSeqContext3 is a Chained Sequence Context subtable (format 3).
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#chained-sequence-context-format-3-coverage-based-glyph-contexts
type ChainedSeqContext3 struct {
	Backtrack, Input, Lookahead []coverage.Set
	Actions                     []SeqLookup
}

// Type implements the [Subtable] interface.
func (l *ChainedSeqContext3) Type() uint16 { return GsubTypeChainedContext }
