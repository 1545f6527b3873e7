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
	"seehuhn.de/go/otfea/opentype/coverage"
	"seehuhn.de/go/otfea/opentype/gtab"
)

// isGlyphClass reports whether g denotes more than one glyph.
func isGlyphClass(g ast.GlyphSet) bool {
	switch g.(type) {
	case *ast.GlyphClassLiteral, *ast.GlyphClassRef, *ast.GlyphRange:
		return true
	}
	return false
}

// substHasActions reports whether any input position of a GSUB rule
// carries an inline nested-lookup action, the signal that the rule is
// contextual rather than a plain substitution.
func substHasActions(positions []ast.InputPosition) bool {
	for _, p := range positions {
		if len(p.Lookups) > 0 || len(p.InlineRules) > 0 {
			return true
		}
	}
	return false
}

// posHasActions is [substHasActions] for GPOS input positions.
func posHasActions(positions []ast.InputPosition) bool {
	return substHasActions(positions)
}

func glyphsToSet(glyphs []glyph.ID) coverage.Set {
	set := make(coverage.Set, len(glyphs))
	for _, g := range glyphs {
		set[g] = true
	}
	return set
}

// resolveCoverageSets resolves a list of backtrack or lookahead glyph
// expressions into their per-position coverage sets.
func (ctx *Context) resolveCoverageSets(gs []ast.GlyphSet) []coverage.Set {
	out := make([]coverage.Set, len(gs))
	for i, g := range gs {
		out[i] = glyphsToSet(ctx.resolveGlyphSet(g))
	}
	return out
}

// materializeInline compiles the body of an inline contextual action
// (the statements following a marked input position, as in `sub a
// lookup' by b;`) into its own anonymous lookup, closing it immediately
// without attaching it to the enclosing feature's scope — only the
// outer contextual lookup is exposed there; this one exists solely to
// be invoked by a [gtab.SeqLookup] action.
func (ctx *Context) materializeInline(stmts []ast.Statement) (isGpos bool, idx gtab.LookupIndex, ok bool) {
	if len(stmts) == 0 {
		return false, 0, false
	}
	switch stmts[0].(type) {
	case *ast.SubstGsub:
		isGpos = false
	case *ast.PosGpos:
		isGpos = true
	default:
		ctx.Diags.Errorf(stmts[0].Position(), "unsupported inline contextual rule %T", stmts[0])
		return false, 0, false
	}

	b := ctx.gsub
	if isGpos {
		b = ctx.gpos
	}
	ctx.closeLookup(b)

	savedName := ctx.curNamedLookup
	ctx.curNamedLookup = ""
	for _, st := range stmts {
		ctx.compileBodyStatement(st)
	}
	ctx.curNamedLookup = savedName

	idx, ok = b.flushLookup()
	return isGpos, idx, ok
}
