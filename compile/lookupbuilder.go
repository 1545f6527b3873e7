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
	"seehuhn.de/go/otfea/fea/ast"
	"seehuhn.de/go/otfea/glyph"
	"seehuhn.de/go/otfea/opentype/anchor"
	"seehuhn.de/go/otfea/opentype/coverage"
	"seehuhn.de/go/otfea/opentype/gtab"
	"seehuhn.de/go/otfea/opentype/markarray"
)

// accumKind distinguishes the shape of rule a lookup is currently
// accumulating, so that a rule of a different shape (or an explicit
// subtable break) knows when it must flush the accumulator into a
// finished subtable rather than merge into it.
type accumKind int

const (
	accumNone accumKind = iota
	accumGsubSingle
	accumGsubMulti
	accumGsubAlt
	accumGsubLigature
	accumGsubReverse
	accumGsubContext
	accumGsubChainedContext
	accumGposSingle
	accumGposPair
	accumGposCursive
	accumGposMarkBase
	accumGposMarkLig
	accumGposMarkMark
	accumGposContext
	accumGposChainedContext
)

// lookupBuilder implements the "at most one current lookup" state
// machine: rules are folded into the current lookup's in-progress
// subtable until a subtable break, a change of rule shape, or a change
// of lookup flags forces a flush.
type lookupBuilder struct {
	isGpos bool

	lookups []*gtab.LookupTable
	byName  map[string]gtab.LookupIndex

	curMeta  *gtab.LookupMetaInfo
	curKind  accumKind
	curFlags gtab.LookupFlags
	curMark  uint16
	curName  string

	// curSubtables holds the subtables finished so far for the open
	// lookup; flushLookup moves them into the resulting LookupTable.
	curSubtables []gtab.Subtable

	singleSub map[glyph.ID]glyph.ID
	singleOrd []glyph.ID
	multiSub  map[glyph.ID][]glyph.ID
	altSub    map[glyph.ID][]glyph.ID
	ligSub    map[glyph.ID][]gtab.Ligature

	singlePos map[glyph.ID]*gtab.ValueRecord
	pairPos   gtab.Gpos2_1

	// markUsage records, for the mark-attachment lookup currently open,
	// which mark class each glyph seen so far was drawn from — so that a
	// glyph referenced from two different mark classes within the same
	// lookup can be diagnosed rather than silently overwritten.
	markUsage map[glyph.ID]*MarkClass
}

func newLookupBuilder() *lookupBuilder {
	return &lookupBuilder{byName: make(map[string]gtab.LookupIndex)}
}

// ensure switches the current lookup to one with the given shape,
// flags, and mark-filtering set, flushing and closing whatever lookup
// was open before if it differs. name is the explicit name of the
// enclosing `lookup NAME { ... }` block, or "" for a feature's own
// anonymous lookup.
func (b *lookupBuilder) ensure(kind accumKind, flags gtab.LookupFlags, markFilter uint16, name string) {
	if b.curMeta != nil && b.curKind == kind && b.curFlags == flags &&
		b.curMark == markFilter && b.curName == name {
		return
	}
	b.flushLookup()

	lookupType := lookupTypeFor(b.isGpos, kind)
	b.curMeta = &gtab.LookupMetaInfo{
		LookupType:       lookupType,
		LookupFlags:      flags,
		MarkFilteringSet: markFilter,
		Name:             name,
	}
	b.curKind = kind
	b.curFlags = flags
	b.curMark = markFilter
	b.curName = name
	b.curSubtables = nil
	b.markUsage = nil
	b.resetAccum(kind)
}

func lookupTypeFor(isGpos bool, kind accumKind) uint16 {
	if isGpos {
		switch kind {
		case accumGposSingle:
			return gtab.GposTypeSingle
		case accumGposPair:
			return gtab.GposTypePair
		case accumGposCursive:
			return gtab.GposTypeCursive
		case accumGposMarkBase:
			return gtab.GposTypeMarkToBase
		case accumGposMarkLig:
			return gtab.GposTypeMarkToLigature
		case accumGposMarkMark:
			return gtab.GposTypeMarkToMark
		case accumGposContext:
			return gtab.GposTypeContext
		case accumGposChainedContext:
			return gtab.GposTypeChainedContext
		}
		return 0
	}
	switch kind {
	case accumGsubSingle:
		return gtab.GsubTypeSingle
	case accumGsubMulti:
		return gtab.GsubTypeMultiple
	case accumGsubAlt:
		return gtab.GsubTypeAlternate
	case accumGsubLigature:
		return gtab.GsubTypeLigature
	case accumGsubReverse:
		return gtab.GsubTypeReverseChainContext
	case accumGsubContext:
		return gtab.GsubTypeContext
	case accumGsubChainedContext:
		return gtab.GsubTypeChainedContext
	}
	return 0
}

func (b *lookupBuilder) resetAccum(kind accumKind) {
	b.singleSub, b.singleOrd, b.multiSub, b.altSub, b.ligSub = nil, nil, nil, nil, nil
	b.singlePos, b.pairPos = nil, nil
	switch kind {
	case accumGsubSingle:
		b.singleSub = make(map[glyph.ID]glyph.ID)
	case accumGsubMulti:
		b.multiSub = make(map[glyph.ID][]glyph.ID)
	case accumGsubAlt:
		b.altSub = make(map[glyph.ID][]glyph.ID)
	case accumGsubLigature:
		b.ligSub = make(map[glyph.ID][]gtab.Ligature)
	case accumGposSingle:
		b.singlePos = make(map[glyph.ID]*gtab.ValueRecord)
	case accumGposPair:
		b.pairPos = make(gtab.Gpos2_1)
	}
}

// subtableBreak forces the in-progress accumulator into its own
// subtable, without closing the current lookup.
func (b *lookupBuilder) subtableBreak() {
	if b.curMeta == nil {
		return
	}
	st := b.flushAccum()
	if st != nil {
		b.curSubtables = append(b.curSubtables, st)
	}
	b.resetAccum(b.curKind)
}

// addRawSubtable appends a complete subtable directly, for lookup
// shapes (cursive, mark attachment, contextual, reverse chaining) that
// do not accumulate across rules: each source rule becomes its own
// subtable.
func (b *lookupBuilder) addRawSubtable(st gtab.Subtable) {
	if b.curMeta == nil {
		return
	}
	b.curSubtables = append(b.curSubtables, st)
}

func (b *lookupBuilder) flushAccum() gtab.Subtable {
	switch b.curKind {
	case accumGsubSingle:
		if len(b.singleSub) == 0 {
			return nil
		}
		cov := coverage.NewTable(b.singleOrd...)
		glyphs := cov.Glyphs()
		delta := glyph.ID(0)
		uniform := true
		for i, g := range glyphs {
			d := b.singleSub[g] - g
			if i == 0 {
				delta = d
			} else if d != delta {
				uniform = false
			}
		}
		if uniform {
			return &gtab.Gsub1_1{Cov: cov.ToSet(), Delta: delta}
		}
		subs := make([]glyph.ID, len(glyphs))
		for i, g := range glyphs {
			subs[i] = b.singleSub[g]
		}
		return &gtab.Gsub1_2{Cov: cov, SubstituteGlyphIDs: subs}
	case accumGsubMulti:
		if len(b.multiSub) == 0 {
			return nil
		}
		var keys []glyph.ID
		for g := range b.multiSub {
			keys = append(keys, g)
		}
		cov := coverage.NewTable(keys...)
		glyphs := cov.Glyphs()
		repl := make([][]glyph.ID, len(glyphs))
		for i, g := range glyphs {
			repl[i] = b.multiSub[g]
		}
		return &gtab.Gsub2_1{Cov: cov, Repl: repl}
	case accumGsubAlt:
		if len(b.altSub) == 0 {
			return nil
		}
		var keys []glyph.ID
		for g := range b.altSub {
			keys = append(keys, g)
		}
		cov := coverage.NewTable(keys...)
		glyphs := cov.Glyphs()
		alts := make([][]glyph.ID, len(glyphs))
		for i, g := range glyphs {
			alts[i] = b.altSub[g]
		}
		return &gtab.Gsub3_1{Cov: cov, Alternates: alts}
	case accumGsubLigature:
		if len(b.ligSub) == 0 {
			return nil
		}
		var keys []glyph.ID
		for g := range b.ligSub {
			keys = append(keys, g)
		}
		cov := coverage.NewTable(keys...)
		glyphs := cov.Glyphs()
		repl := make([][]gtab.Ligature, len(glyphs))
		for i, g := range glyphs {
			repl[i] = b.ligSub[g]
		}
		return &gtab.Gsub4_1{Cov: cov, Repl: repl}
	case accumGposSingle:
		if len(b.singlePos) == 0 {
			return nil
		}
		var keys []glyph.ID
		for g := range b.singlePos {
			keys = append(keys, g)
		}
		cov := coverage.NewTable(keys...)
		glyphs := cov.Glyphs()
		first := b.singlePos[glyphs[0]]
		uniform := true
		for _, g := range glyphs[1:] {
			if !valueRecordsEqual(b.singlePos[g], first) {
				uniform = false
				break
			}
		}
		if uniform {
			return &gtab.Gpos1_1{Cov: cov, Adjust: first}
		}
		adj := make([]*gtab.ValueRecord, len(glyphs))
		for i, g := range glyphs {
			adj[i] = b.singlePos[g]
		}
		return &gtab.Gpos1_2{Cov: cov, Adjust: adj}
	case accumGposPair:
		if len(b.pairPos) == 0 {
			return nil
		}
		return b.pairPos
	}
	return nil
}

func valueRecordsEqual(a, b *gtab.ValueRecord) bool {
	norm := func(p *int16) int16 {
		if p == nil {
			return 0
		}
		return *p
	}
	return norm(a.XPlacement) == norm(b.XPlacement) &&
		norm(a.YPlacement) == norm(b.YPlacement) &&
		norm(a.XAdvance) == norm(b.XAdvance) &&
		norm(a.YAdvance) == norm(b.YAdvance)
}

// flushLookup closes whatever lookup is currently open, registering it
// under its name (if any) and appending it to the finished lookup list.
// ok is false if there was no open lookup, or it accumulated no
// subtables (e.g. a `lookup NAME { } NAME;` block with an empty body).
func (b *lookupBuilder) flushLookup() (idx gtab.LookupIndex, ok bool) {
	if b.curMeta == nil {
		return 0, false
	}
	if st := b.flushAccum(); st != nil {
		b.curSubtables = append(b.curSubtables, st)
	}
	if len(b.curSubtables) > 0 {
		idx = gtab.LookupIndex(len(b.lookups))
		b.lookups = append(b.lookups, &gtab.LookupTable{Meta: b.curMeta, Subtables: b.curSubtables})
		if b.curName != "" {
			if _, exists := b.byName[b.curName]; !exists {
				b.byName[b.curName] = idx
			}
		}
		ok = true
	}
	b.curMeta, b.curKind, b.curName = nil, accumNone, ""
	b.curSubtables = nil
	return idx, ok
}

// addSingleSub folds one `sub from by to;` rule into the current
// lookup's accumulator.
func (ctx *Context) addSingleSub(builder *lookupBuilder, flags gtab.LookupFlags, mark uint16, name string, from, to glyph.ID) {
	ctx.useLookup(builder, accumGsubSingle, flags, mark, name)
	if _, seen := builder.singleSub[from]; !seen {
		builder.singleOrd = append(builder.singleOrd, from)
	}
	builder.singleSub[from] = to
}

func (ctx *Context) addMultiSub(builder *lookupBuilder, flags gtab.LookupFlags, mark uint16, name string, from glyph.ID, to []glyph.ID) {
	ctx.useLookup(builder, accumGsubMulti, flags, mark, name)
	builder.multiSub[from] = to
}

func (ctx *Context) addAltSub(builder *lookupBuilder, flags gtab.LookupFlags, mark uint16, name string, from glyph.ID, alts []glyph.ID) {
	ctx.useLookup(builder, accumGsubAlt, flags, mark, name)
	builder.altSub[from] = append(builder.altSub[from], alts...)
}

func (ctx *Context) addLigatureSub(builder *lookupBuilder, flags gtab.LookupFlags, mark uint16, name string, components []glyph.ID, to glyph.ID) {
	ctx.useLookup(builder, accumGsubLigature, flags, mark, name)
	first := components[0]
	builder.ligSub[first] = append(builder.ligSub[first], gtab.Ligature{
		In:  components[1:],
		Out: to,
	})
}

func (ctx *Context) addSinglePos(builder *lookupBuilder, flags gtab.LookupFlags, mark uint16, name string, g glyph.ID, vr *gtab.ValueRecord) {
	ctx.useLookup(builder, accumGposSingle, flags, mark, name)
	builder.singlePos[g] = vr
}

func (ctx *Context) addPairPos(builder *lookupBuilder, flags gtab.LookupFlags, mark uint16, name string, first, second glyph.ID, v1, v2 *gtab.ValueRecord) {
	ctx.useLookup(builder, accumGposPair, flags, mark, name)
	builder.pairPos[glyph.Pair{Left: first, Right: second}] = &gtab.PairAdjust{First: v1, Second: v2}
}

// addCursive folds one `pos cursive glyph <anchor entry> <anchor
// exit>;` rule into the current lookup as its own subtable: cursive
// attachment rules are not merged across statements the way single/pair
// rules are.
func (ctx *Context) addCursive(builder *lookupBuilder, flags gtab.LookupFlags, mark uint16, name string, glyphs []glyph.ID, entry, exit []anchor.Table) {
	ctx.useLookup(builder, accumGposCursive, flags, mark, name)
	type pair struct{ entry, exit anchor.Table }
	byGlyph := make(map[glyph.ID]pair, len(glyphs))
	for i, g := range glyphs {
		byGlyph[g] = pair{entry[i], exit[i]}
	}
	cov := coverage.NewTable(glyphs...)
	order := cov.Glyphs()
	records := make([]gtab.EntryExitRecord, len(order))
	for i, g := range order {
		p := byGlyph[g]
		records[i] = gtab.EntryExitRecord{Entry: p.entry, Exit: p.exit}
	}
	builder.addRawSubtable(&gtab.Gpos3_1{Cov: cov, Records: records})
}

// addMarkToBase folds one `pos base glyphs <anchor> mark @CLASS ...;`
// rule into the current lookup as its own subtable. classes is indexed
// by this rule's own mark-class numbering (not the font-wide mark class
// registry's insertion order), matching the per-lookup MarkArray
// [Context.buildMarkArray] builds.
func (ctx *Context) addMarkToBase(builder *lookupBuilder, flags gtab.LookupFlags, mark uint16, name string, pos ast.Pos, classes []*MarkClass, baseGlyphs []glyph.ID, baseAnchors [][]anchor.Table) {
	ctx.useLookup(builder, accumGposMarkBase, flags, mark, name)
	markGlyphs, markArray := ctx.buildMarkArray(builder, pos, classes)
	baseCov := coverage.NewTable(baseGlyphs...)
	order := baseCov.Glyphs()
	byGlyph := make(map[glyph.ID][]anchor.Table, len(baseGlyphs))
	for i, g := range baseGlyphs {
		byGlyph[g] = baseAnchors[i]
	}
	baseArray := make([][]anchor.Table, len(order))
	for i, g := range order {
		baseArray[i] = byGlyph[g]
	}
	builder.addRawSubtable(&gtab.Gpos4_1{
		MarkCov:   coverage.NewTable(markGlyphs...),
		BaseCov:   baseCov,
		MarkArray: markArray,
		BaseArray: baseArray,
	})
}

// addMarkToLigature folds one `pos ligature glyphs <anchor> mark
// @CLASS ligComponent <anchor> mark @CLASS ...;` rule into the current
// lookup as its own subtable. ligAnchors is indexed by ligature glyph,
// then by ligature component, then by this rule's mark-class numbering.
func (ctx *Context) addMarkToLigature(builder *lookupBuilder, flags gtab.LookupFlags, mark uint16, name string, pos ast.Pos, classes []*MarkClass, ligGlyphs []glyph.ID, ligAnchors [][][]anchor.Table) {
	ctx.useLookup(builder, accumGposMarkLig, flags, mark, name)
	markGlyphs, markArray := ctx.buildMarkArray(builder, pos, classes)
	ligCov := coverage.NewTable(ligGlyphs...)
	order := ligCov.Glyphs()
	byGlyph := make(map[glyph.ID][][]anchor.Table, len(ligGlyphs))
	for i, g := range ligGlyphs {
		byGlyph[g] = ligAnchors[i]
	}
	ligArray := make([][][]anchor.Table, len(order))
	for i, g := range order {
		ligArray[i] = byGlyph[g]
	}
	builder.addRawSubtable(&gtab.Gpos5_1{
		MarkCov:   coverage.NewTable(markGlyphs...),
		LigCov:    ligCov,
		MarkArray: markArray,
		LigArray:  ligArray,
	})
}

// addMarkToMark folds one `pos mark glyphs <anchor> mark @CLASS ...;`
// rule into the current lookup as its own subtable. Mark1 is the
// attaching mark, Mark2 the preceding mark it attaches to.
func (ctx *Context) addMarkToMark(builder *lookupBuilder, flags gtab.LookupFlags, mark uint16, name string, pos ast.Pos, classes []*MarkClass, mark2Glyphs []glyph.ID, mark2Anchors [][]anchor.Table) {
	ctx.useLookup(builder, accumGposMarkMark, flags, mark, name)
	mark1Glyphs, markArray := ctx.buildMarkArray(builder, pos, classes)
	mark2Cov := coverage.NewTable(mark2Glyphs...)
	order := mark2Cov.Glyphs()
	byGlyph := make(map[glyph.ID][]anchor.Table, len(mark2Glyphs))
	for i, g := range mark2Glyphs {
		byGlyph[g] = mark2Anchors[i]
	}
	mark2Array := make([][]anchor.Table, len(order))
	for i, g := range order {
		mark2Array[i] = byGlyph[g]
	}
	builder.addRawSubtable(&gtab.Gpos6_1{
		Mark1Cov:   coverage.NewTable(mark1Glyphs...),
		Mark2Cov:   mark2Cov,
		MarkArray:  markArray,
		Mark2Array: mark2Array,
	})
}

// addGsubReverse folds one `rsub backtrack input lookahead by
// replacement;` rule into the current lookup as its own subtable. This
// is the only GSUB shape that replaces glyphs directly rather than
// invoking nested lookups, so it carries no [gtab.SeqLookup] actions.
func (ctx *Context) addGsubReverse(builder *lookupBuilder, flags gtab.LookupFlags, mark uint16, name string, backtrack, lookahead []coverage.Table, inputGlyphs, outputGlyphs []glyph.ID) {
	ctx.useLookup(builder, accumGsubReverse, flags, mark, name)
	byGlyph := make(map[glyph.ID]glyph.ID, len(inputGlyphs))
	for i, g := range inputGlyphs {
		byGlyph[g] = outputGlyphs[i]
	}
	cov := coverage.NewTable(inputGlyphs...)
	order := cov.Glyphs()
	subs := make([]glyph.ID, len(order))
	for i, g := range order {
		subs[i] = byGlyph[g]
	}
	builder.addRawSubtable(&gtab.Gsub8_1{
		Input:              cov,
		Backtrack:          backtrack,
		Lookahead:          lookahead,
		SubstituteGlyphIDs: subs,
	})
}

// addContext folds one non-chained contextual rule (GSUB type 5 or
// GPOS type 7) into the current lookup as its own format-3 ("coverage
// based") subtable: every matched position gets its own coverage set,
// which is simpler to emit correctly than the glyph- or class-indexed
// formats 1/2 and is accepted by every consumer of this table.
func (ctx *Context) addContext(builder *lookupBuilder, kind accumKind, flags gtab.LookupFlags, mark uint16, name string, input []coverage.Set, actions []gtab.SeqLookup) {
	ctx.useLookup(builder, kind, flags, mark, name)
	builder.addRawSubtable(&gtab.SeqContext3{Input: input, Actions: actions})
}

// addChainedContext folds one chained contextual rule (GSUB type 6 or
// GPOS type 8) into the current lookup as its own format-3 subtable.
func (ctx *Context) addChainedContext(builder *lookupBuilder, kind accumKind, flags gtab.LookupFlags, mark uint16, name string, backtrack, input, lookahead []coverage.Set, actions []gtab.SeqLookup) {
	ctx.useLookup(builder, kind, flags, mark, name)
	builder.addRawSubtable(&gtab.ChainedSeqContext3{
		Backtrack: backtrack,
		Input:     input,
		Lookahead: lookahead,
		Actions:   actions,
	})
}

// buildMarkArray turns a mark class registry entry together with a
// position's referenced class list into a [markarray.Record] slice, in
// coverage order, plus the coverage set of the mark glyphs involved. It
// also checks, across every rule folded into the current lookup so far,
// that no glyph is claimed by more than one of the mark classes the
// lookup uses.
func (ctx *Context) buildMarkArray(builder *lookupBuilder, pos ast.Pos, classes []*MarkClass) ([]glyph.ID, []markarray.Record) {
	if builder.markUsage == nil {
		builder.markUsage = make(map[glyph.ID]*MarkClass)
	}
	type entry struct {
		class uint16
		anch  anchor.Table
	}
	byGlyph := make(map[glyph.ID]entry)
	var order []glyph.ID
	for classIdx, mc := range classes {
		if mc == nil {
			continue
		}
		for _, g := range mc.glyphs {
			if prev, seen := builder.markUsage[g]; seen && prev != mc {
				ctx.Diags.Errorf(pos, "glyph %q belongs to more than one mark class used by this lookup", ctx.Glyphs.Name(g))
			} else if !seen {
				builder.markUsage[g] = mc
			}
			if _, seen := byGlyph[g]; !seen {
				order = append(order, g)
			}
			byGlyph[g] = entry{class: uint16(classIdx), anch: mc.Members[g]}
		}
	}
	cov := coverage.NewTable(order...)
	glyphs := cov.Glyphs()
	recs := make([]markarray.Record, len(glyphs))
	for i, g := range glyphs {
		e := byGlyph[g]
		recs[i] = markarray.Record{Class: e.class, Table: e.anch}
	}
	return glyphs, recs
}
