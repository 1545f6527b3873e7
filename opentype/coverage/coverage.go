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

// Package coverage contains types representing OpenType coverage tables,
// the glyph sets that most GSUB/GPOS subtables key their per-glyph data on.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#coverage-table
package coverage

import "sort"

import "seehuhn.de/go/otfea/glyph"

// Table maps glyph ids to their coverage index.  A coverage table is
// always dense: the indices are exactly 0, 1, ..., len(Table)-1, assigned
// in increasing glyph-id order.
type Table map[glyph.ID]int

// Set is an unordered, index-free coverage table: it only records
// membership, not position.  Several subtable formats (e.g. chained
// contextual lookups) reference glyphs this way.
type Set map[glyph.ID]bool

// NewTable builds a coverage table from a list of glyphs, assigning
// indices in increasing glyph-id order.  Duplicate glyphs collapse to a
// single entry.
func NewTable(glyphs ...glyph.ID) Table {
	uniq := make(map[glyph.ID]bool, len(glyphs))
	for _, g := range glyphs {
		uniq[g] = true
	}
	table := make(Table, len(uniq))
	sorted := make([]glyph.ID, 0, len(uniq))
	for g := range uniq {
		sorted = append(sorted, g)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i, g := range sorted {
		table[g] = i
	}
	return table
}

// Glyphs returns the covered glyphs, ordered by coverage index.
func (table Table) Glyphs() []glyph.ID {
	glyphs := make([]glyph.ID, len(table))
	for g, idx := range table {
		if idx >= 0 && idx < len(glyphs) {
			glyphs[idx] = g
		}
	}
	return glyphs
}

// Prune removes all glyphs whose coverage index is >= n.  The remaining
// indices are left unchanged, so a dense table stays dense.  This mirrors the defensive
// truncation a binary reader performs when a subtable's arrays are
// shorter than its coverage table; the in-memory builder keeps it for
// symmetry when glyph inventories shrink.
func (table Table) Prune(n int) {
	if n < 0 {
		n = 0
	}
	for g, idx := range table {
		if idx >= n {
			delete(table, g)
		}
	}
}

// ToSet converts a coverage table to an unordered set.
func (table Table) ToSet() Set {
	set := make(Set, len(table))
	for g := range table {
		set[g] = true
	}
	return set
}

// ToTable converts a set to a coverage table, assigning indices in
// increasing glyph-id order.
func (set Set) ToTable() Table {
	glyphs := make([]glyph.ID, 0, len(set))
	for g := range set {
		glyphs = append(glyphs, g)
	}
	return NewTable(glyphs...)
}

// Glyphs returns the set's members in increasing glyph-id order.
func (set Set) Glyphs() []glyph.ID {
	glyphs := make([]glyph.ID, 0, len(set))
	for g := range set {
		glyphs = append(glyphs, g)
	}
	sort.Slice(glyphs, func(i, j int) bool { return glyphs[i] < glyphs[j] })
	return glyphs
}
