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

package compile

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"seehuhn.de/go/otfea/fea/ast"
	"seehuhn.de/go/otfea/glyph"
	"seehuhn.de/go/otfea/opentype/coverage"
	"seehuhn.de/go/otfea/opentype/gtab"
)

// activeFlags is the lookup-flag state threaded through a feature or
// named-lookup block: the most recent `lookupflag` (or equivalent
// individual flag keywords) statement stays in effect until the next
// one, or until the enclosing block ends.
type activeFlags struct {
	flags      gtab.LookupFlags
	markFilter uint16
}

// resolveFlagStatement turns a parsed flag statement into lookup flag
// bits plus a mark-filtering-set id, assigning the set id the first time
// a particular glyph class is used this way.
func (ctx *Context) resolveFlagStatement(s *ast.FlagStatement) activeFlags {
	var out activeFlags
	if s.RightToLeft {
		out.flags |= gtab.RightToLeft
	}
	if s.IgnoreBaseGlyphs {
		out.flags |= gtab.IgnoreBaseGlyphs
	}
	if s.IgnoreLigatures {
		out.flags |= gtab.IgnoreLigatures
	}
	if s.IgnoreMarks {
		out.flags |= gtab.IgnoreMarks
	}
	if s.MarkAttachmentClass != nil {
		classID := ctx.markAttachClassID(s.MarkAttachmentClass)
		out.flags |= gtab.LookupFlags(classID) << 8
	}
	if s.UseMarkFilteringSet != nil {
		out.flags |= gtab.UseMarkFilteringSet
		out.markFilter = ctx.markFilterSetID(s.UseMarkFilteringSet)
	}
	return out
}

// classKey canonicalizes a glyph set as a sort-and-dedup key, so that
// two classes naming the same glyphs (in any order, with any
// duplication) are recognized as the same mark-attachment class or
// mark-filtering set.
func classKey(glyphs []glyph.ID) string {
	sorted := dedupSorted(glyphs)
	var sb strings.Builder
	for _, g := range sorted {
		fmt.Fprintf(&sb, "%d,", g)
	}
	return sb.String()
}

// markAttachClassID assigns (or reuses) a mark-attachment class id for
// the glyph class named by a `MarkAttachmentType @CLASS` flag, numbering
// classes from 1 in first-observed order as GDEF requires.
func (ctx *Context) markAttachClassID(g ast.GlyphSet) uint16 {
	glyphs := ctx.resolveGlyphSet(g)
	key := classKey(glyphs)
	if id, ok := ctx.markAttachIndex[key]; ok {
		return id
	}
	id := uint16(len(ctx.markAttachIndex) + 1)
	ctx.markAttachIndex[key] = id
	for _, gl := range dedupSorted(glyphs) {
		ctx.markAttachClass[gl] = id
	}
	return id
}

// markFilterSetID assigns (or reuses) a mark-filtering-set id for the
// glyph class named by a `UseMarkFilteringSet @CLASS` flag, numbering
// sets from 0 in first-observed order.
func (ctx *Context) markFilterSetID(g ast.GlyphSet) uint16 {
	glyphs := ctx.resolveGlyphSet(g)
	key := classKey(glyphs)
	if id, ok := ctx.markFilterIndex[key]; ok {
		return id
	}
	id := uint16(len(ctx.markFilterSets))
	ctx.markFilterIndex[key] = id
	set := make(coverage.Set, len(glyphs))
	for _, gl := range glyphs {
		set[gl] = true
	}
	ctx.markFilterSets = append(ctx.markFilterSets, set)
	return id
}

// sortedGlyphKeys returns the keys of m in increasing glyph-id order.
// Nothing in this package calls it.
func sortedGlyphKeys(m map[glyph.ID]bool) []glyph.ID {
	out := maps.Keys(m)
	slices.Sort(out)
	return out
}
