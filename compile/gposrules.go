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
	"seehuhn.de/go/otfea/opentype/anchor"
	"seehuhn.de/go/otfea/opentype/coverage"
	"seehuhn.de/go/otfea/opentype/gtab"
)

// compilePosGpos dispatches one GPOS rule to the shape its fields
// describe.
func (ctx *Context) compilePosGpos(s *ast.PosGpos) {
	switch {
	case s.IsCursive:
		ctx.compileCursivePos(s)
	case s.IsMarkToBase:
		ctx.compileMarkToBasePos(s)
	case s.IsMarkToLigature:
		ctx.compileMarkToLigaturePos(s)
	case s.IsMarkToMark:
		ctx.compileMarkToMarkPos(s)
	case len(s.Backtrack) > 0 || len(s.Lookahead) > 0 || posHasActions(s.Input):
		ctx.compileContextualPos(s)
	default:
		ctx.compileDirectPos(s)
	}
}

// compileDirectPos handles single and pair positioning: `pos glyph
// <value>;`, `pos glyph1 glyph2 <value1> [<value2>];`, and their
// class-valued and cross-product forms.
func (ctx *Context) compileDirectPos(s *ast.PosGpos) {
	flags, mark := ctx.curFlags.flags, ctx.curFlags.markFilter
	name := ctx.curNamedLookup

	switch len(s.Input) {
	case 1:
		glyphs := ctx.resolveGlyphSet(s.Input[0].Glyphs)
		if len(s.Values) != 1 {
			ctx.Diags.Errorf(s.Pos, "single positioning rule needs exactly one value record")
			return
		}
		vr := ctx.buildValueRecord(s.Values[0])
		for _, g := range glyphs {
			ctx.addSinglePos(ctx.gpos, flags, mark, name, g, vr)
		}

	case 2:
		if len(s.Values) < 1 || len(s.Values) > 2 {
			ctx.Diags.Errorf(s.Pos, "pair positioning rule needs one or two value records")
			return
		}
		v1 := ctx.buildPairValueRecord(s.Values[0], ctx.curFeatureTag)
		var v2 *gtab.ValueRecord
		if len(s.Values) == 2 {
			v2 = ctx.buildPairValueRecord(s.Values[1], ctx.curFeatureTag)
		}
		firsts := ctx.resolveGlyphSet(s.Input[0].Glyphs)
		seconds := ctx.resolveGlyphSet(s.Input[1].Glyphs)
		for _, f := range firsts {
			for _, sec := range seconds {
				ctx.addPairPos(ctx.gpos, flags, mark, name, f, sec, v1, v2)
			}
		}

	default:
		ctx.Diags.Errorf(s.Pos, "positioning rule must have one or two input positions")
	}
}

func (ctx *Context) compileCursivePos(s *ast.PosGpos) {
	flags, mark := ctx.curFlags.flags, ctx.curFlags.markFilter
	name := ctx.curNamedLookup
	if len(s.Input) != 1 {
		ctx.Diags.Errorf(s.Pos, "cursive positioning rule needs exactly one glyph position")
		return
	}
	glyphs := ctx.resolveGlyphSet(s.Input[0].Glyphs)
	entry := ctx.resolveAnchor(derefAnchor(s.EntryAnchor))
	exit := ctx.resolveAnchor(derefAnchor(s.ExitAnchor))
	entries := make([]anchor.Table, len(glyphs))
	exits := make([]anchor.Table, len(glyphs))
	for i := range glyphs {
		entries[i] = entry
		exits[i] = exit
	}
	ctx.addCursive(ctx.gpos, flags, mark, name, glyphs, entries, exits)
}

func derefAnchor(a *ast.Anchor) ast.Anchor {
	if a == nil {
		return ast.Anchor{}
	}
	return *a
}

// resolveMarkClassesByName resolves a rule's referenced mark class names
// in declaration order, reporting undefined classes via ctx.Diags.
func (ctx *Context) resolveMarkClassesByName(names []string, pos ast.Pos) ([]*MarkClass, bool) {
	out := make([]*MarkClass, len(names))
	ok := true
	for i, n := range names {
		mc := ctx.lookupMarkClass(pos, n)
		if mc == nil {
			ok = false
			continue
		}
		out[i] = mc
	}
	return out, ok
}

// compileMarkToBasePos handles `pos base glyphs <anchor> mark @CLASS
// ...;`, broadcasting the same per-class anchor set across every base
// glyph named in the rule.
func (ctx *Context) compileMarkToBasePos(s *ast.PosGpos) {
	flags, mark := ctx.curFlags.flags, ctx.curFlags.markFilter
	name := ctx.curNamedLookup

	classes, ok := ctx.resolveMarkClassesByName(s.MarkClasses, s.Pos)
	if !ok {
		return
	}
	if len(s.BaseAnchors) != len(classes) {
		ctx.Diags.Errorf(s.Pos, "mark-to-base rule has %d anchors for %d mark classes", len(s.BaseAnchors), len(classes))
		return
	}
	anchors := make([]anchor.Table, len(s.BaseAnchors))
	for i, a := range s.BaseAnchors {
		anchors[i] = ctx.resolveAnchor(a)
	}

	baseGlyphs := ctx.resolveGlyphSet(s.BaseGlyphs)
	baseAnchors := make([][]anchor.Table, len(baseGlyphs))
	for i := range baseGlyphs {
		baseAnchors[i] = anchors
	}
	ctx.addMarkToBase(ctx.gpos, flags, mark, name, s.Pos, classes, baseGlyphs, baseAnchors)
}

// compileMarkToMarkPos handles `pos mark glyphs <anchor> mark @CLASS
// ...;`, the mark-to-mark analogue of [compileMarkToBasePos].
func (ctx *Context) compileMarkToMarkPos(s *ast.PosGpos) {
	flags, mark := ctx.curFlags.flags, ctx.curFlags.markFilter
	name := ctx.curNamedLookup

	classes, ok := ctx.resolveMarkClassesByName(s.MarkClasses, s.Pos)
	if !ok {
		return
	}
	if len(s.BaseAnchors) != len(classes) {
		ctx.Diags.Errorf(s.Pos, "mark-to-mark rule has %d anchors for %d mark classes", len(s.BaseAnchors), len(classes))
		return
	}
	anchors := make([]anchor.Table, len(s.BaseAnchors))
	for i, a := range s.BaseAnchors {
		anchors[i] = ctx.resolveAnchor(a)
	}

	mark2Glyphs := ctx.resolveGlyphSet(s.BaseGlyphs)
	mark2Anchors := make([][]anchor.Table, len(mark2Glyphs))
	for i := range mark2Glyphs {
		mark2Anchors[i] = anchors
	}
	ctx.addMarkToMark(ctx.gpos, flags, mark, name, s.Pos, classes, mark2Glyphs, mark2Anchors)
}

// compileMarkToLigaturePos handles `pos ligature glyphs <anchor> mark
// @CLASS ... ligComponent <anchor> mark @CLASS ...;`, broadcasting the
// same per-component anchor sets across every ligature glyph named in
// the rule.
func (ctx *Context) compileMarkToLigaturePos(s *ast.PosGpos) {
	flags, mark := ctx.curFlags.flags, ctx.curFlags.markFilter
	name := ctx.curNamedLookup

	classes, ok := ctx.resolveMarkClassesByName(s.MarkClasses, s.Pos)
	if !ok {
		return
	}
	components := make([][]anchor.Table, len(s.ComponentAnchors))
	for i, comp := range s.ComponentAnchors {
		if len(comp) != len(classes) {
			ctx.Diags.Errorf(s.Pos, "mark-to-ligature rule component %d has %d anchors for %d mark classes", i, len(comp), len(classes))
			return
		}
		anchors := make([]anchor.Table, len(comp))
		for j, a := range comp {
			anchors[j] = ctx.resolveAnchor(a)
		}
		components[i] = anchors
	}

	ligGlyphs := ctx.resolveGlyphSet(s.BaseGlyphs)
	ligAnchors := make([][][]anchor.Table, len(ligGlyphs))
	for i := range ligGlyphs {
		ligAnchors[i] = components
	}
	ctx.addMarkToLigature(ctx.gpos, flags, mark, name, s.Pos, classes, ligGlyphs, ligAnchors)
}

// compileContextualPos handles GPOS contextual rules (types 7 and 8).
func (ctx *Context) compileContextualPos(s *ast.PosGpos) {
	flags, mark := ctx.curFlags.flags, ctx.curFlags.markFilter
	name := ctx.curNamedLookup

	backtrack := ctx.resolveCoverageSets(s.Backtrack)
	lookahead := ctx.resolveCoverageSets(s.Lookahead)
	input := make([]coverage.Set, len(s.Input))
	var actions []gtab.SeqLookup
	for i, p := range s.Input {
		input[i] = glyphsToSet(ctx.resolveGlyphSet(p.Glyphs))
		for _, lname := range p.Lookups {
			idx, ok := ctx.gpos.byName[lname]
			if !ok {
				ctx.Diags.Errorf(s.Pos, "lookup %q is undefined or not a GPOS lookup", lname)
				continue
			}
			actions = append(actions, gtab.SeqLookup{SequenceIndex: uint16(i), LookupListIndex: idx})
		}
		if len(p.InlineRules) > 0 {
			isGpos, idx, ok := ctx.materializeInline(p.InlineRules)
			if !ok {
				continue
			}
			if !isGpos {
				ctx.Diags.Errorf(s.Pos, "cannot inline a substitution rule inside a positioning rule's contextual rule")
				continue
			}
			actions = append(actions, gtab.SeqLookup{SequenceIndex: uint16(i), LookupListIndex: idx})
		}
	}

	if len(backtrack) == 0 && len(lookahead) == 0 {
		ctx.addContext(ctx.gpos, accumGposContext, flags, mark, name, input, actions)
	} else {
		ctx.addChainedContext(ctx.gpos, accumGposChainedContext, flags, mark, name, backtrack, input, lookahead, actions)
	}
}
