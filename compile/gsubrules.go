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

// compileSubstGsub dispatches one GSUB rule to the shape its fields
// describe: reverse chaining, contextual, or a plain substitution.
func (ctx *Context) compileSubstGsub(s *ast.SubstGsub) {
	switch {
	case s.Reverse:
		ctx.compileReverseSub(s)
	case len(s.Backtrack) > 0 || len(s.Lookahead) > 0 || substHasActions(s.Input):
		ctx.compileContextualSub(s)
	default:
		ctx.compileDirectSub(s)
	}
}

func (ctx *Context) compileDirectSub(s *ast.SubstGsub) {
	flags, mark := ctx.curFlags.flags, ctx.curFlags.markFilter
	name := ctx.curNamedLookup

	if len(s.Input) == 0 {
		ctx.Diags.Errorf(s.Pos, "substitution rule has no input glyph")
		return
	}

	switch {
	case s.FromAlternates:
		if len(s.Input) != 1 {
			ctx.Diags.Errorf(s.Pos, "alternate substitution takes exactly one input glyph")
			return
		}
		from, ok := ctx.resolveGlyph(s.Input[0].Glyphs)
		if !ok {
			return
		}
		var alts []glyph.ID
		for _, r := range s.Replacement {
			g, ok := ctx.resolveGlyph(r)
			if ok {
				alts = append(alts, g)
			}
		}
		ctx.addAltSub(ctx.gsub, flags, mark, name, from, alts)

	case len(s.Input) == 1 && !isGlyphClass(s.Input[0].Glyphs):
		from, ok := ctx.resolveGlyph(s.Input[0].Glyphs)
		if !ok {
			return
		}
		switch len(s.Replacement) {
		case 0: // `sub x by NULL;`, glyph deletion
			ctx.addMultiSub(ctx.gsub, flags, mark, name, from, nil)
		case 1:
			to, ok := ctx.resolveGlyph(s.Replacement[0])
			if !ok {
				return
			}
			ctx.addSingleSub(ctx.gsub, flags, mark, name, from, to)
		default:
			to := make([]glyph.ID, 0, len(s.Replacement))
			for _, r := range s.Replacement {
				g, ok := ctx.resolveGlyph(r)
				if ok {
					to = append(to, g)
				}
			}
			ctx.addMultiSub(ctx.gsub, flags, mark, name, from, to)
		}

	case len(s.Input) == 1 && isGlyphClass(s.Input[0].Glyphs):
		ctx.compileClassSingleSub(s, flags, mark, name)

	default:
		ctx.compileLigatureSub(s, flags, mark, name)
	}
}

// compileClassSingleSub handles `sub @CLASS by x;` (broadcast) and `sub
// @CLASS1 by @CLASS2;` (one-to-one, in source order) single
// substitutions.
func (ctx *Context) compileClassSingleSub(s *ast.SubstGsub, flags gtab.LookupFlags, mark uint16, name string) {
	from := ctx.resolveGlyphSet(s.Input[0].Glyphs)
	switch len(s.Replacement) {
	case 1:
		if isGlyphClass(s.Replacement[0]) {
			to := ctx.resolveGlyphSet(s.Replacement[0])
			if len(to) != len(from) {
				ctx.Diags.Errorf(s.Pos, "class substitution glyph count mismatch: %d input, %d output", len(from), len(to))
				return
			}
			for i, f := range from {
				ctx.addSingleSub(ctx.gsub, flags, mark, name, f, to[i])
			}
			return
		}
		to, ok := ctx.resolveGlyph(s.Replacement[0])
		if !ok {
			return
		}
		for _, f := range from {
			ctx.addSingleSub(ctx.gsub, flags, mark, name, f, to)
		}
	default:
		ctx.Diags.Errorf(s.Pos, "single substitution replacement must be exactly one glyph or one glyph class")
	}
}

// compileLigatureSub handles `sub a b c by abc;`, expanding any
// class-valued position into every concrete sequence it can form via
// [enumerateSequences].
func (ctx *Context) compileLigatureSub(s *ast.SubstGsub, flags gtab.LookupFlags, mark uint16, name string) {
	if len(s.Replacement) != 1 {
		ctx.Diags.Errorf(s.Pos, "ligature substitution needs exactly one output glyph")
		return
	}
	to, ok := ctx.resolveGlyph(s.Replacement[0])
	if !ok {
		return
	}
	positions := make([][]glyph.ID, len(s.Input))
	for i, p := range s.Input {
		positions[i] = ctx.resolveGlyphSet(p.Glyphs)
	}
	for _, seq := range enumerateSequences(positions) {
		ctx.addLigatureSub(ctx.gsub, flags, mark, name, seq, to)
	}
}

// compileReverseSub handles `rsub backtrack input lookahead by
// replacement;`.
func (ctx *Context) compileReverseSub(s *ast.SubstGsub) {
	flags, mark := ctx.curFlags.flags, ctx.curFlags.markFilter
	name := ctx.curNamedLookup

	if len(s.Input) != 1 {
		ctx.Diags.Errorf(s.Pos, "reverse chaining substitution takes exactly one input position")
		return
	}
	inputGlyphs := ctx.resolveGlyphSet(s.Input[0].Glyphs)

	var outputGlyphs []glyph.ID
	if len(s.Replacement) == 1 && !isGlyphClass(s.Replacement[0]) {
		to, ok := ctx.resolveGlyph(s.Replacement[0])
		if !ok {
			return
		}
		outputGlyphs = make([]glyph.ID, len(inputGlyphs))
		for i := range outputGlyphs {
			outputGlyphs[i] = to
		}
	} else {
		for _, r := range s.Replacement {
			outputGlyphs = append(outputGlyphs, ctx.resolveGlyphSet(r)...)
		}
		if len(outputGlyphs) != len(inputGlyphs) {
			ctx.Diags.Errorf(s.Pos, "reverse substitution glyph count mismatch: %d input, %d output", len(inputGlyphs), len(outputGlyphs))
			return
		}
	}

	backtrack := make([]coverage.Table, len(s.Backtrack))
	for i, g := range s.Backtrack {
		backtrack[i] = coverage.NewTable(ctx.resolveGlyphSet(g)...)
	}
	lookahead := make([]coverage.Table, len(s.Lookahead))
	for i, g := range s.Lookahead {
		lookahead[i] = coverage.NewTable(ctx.resolveGlyphSet(g)...)
	}
	ctx.addGsubReverse(ctx.gsub, flags, mark, name, backtrack, lookahead, inputGlyphs, outputGlyphs)
}

// compileContextualSub handles GSUB contextual rules (types 5 and 6),
// built from backtrack/input/lookahead coverage sets plus the
// [gtab.SeqLookup] actions attached to marked input positions.
func (ctx *Context) compileContextualSub(s *ast.SubstGsub) {
	flags, mark := ctx.curFlags.flags, ctx.curFlags.markFilter
	name := ctx.curNamedLookup

	backtrack := ctx.resolveCoverageSets(s.Backtrack)
	lookahead := ctx.resolveCoverageSets(s.Lookahead)
	input := make([]coverage.Set, len(s.Input))
	var actions []gtab.SeqLookup
	for i, p := range s.Input {
		input[i] = glyphsToSet(ctx.resolveGlyphSet(p.Glyphs))
		for _, lname := range p.Lookups {
			idx, ok := ctx.gsub.byName[lname]
			if !ok {
				ctx.Diags.Errorf(s.Pos, "lookup %q is undefined or not a GSUB lookup", lname)
				continue
			}
			actions = append(actions, gtab.SeqLookup{SequenceIndex: uint16(i), LookupListIndex: idx})
		}
		if len(p.InlineRules) > 0 {
			isGpos, idx, ok := ctx.materializeInline(p.InlineRules)
			if !ok {
				continue
			}
			if isGpos {
				ctx.Diags.Errorf(s.Pos, "cannot inline a positioning rule inside a substitution's contextual rule")
				continue
			}
			actions = append(actions, gtab.SeqLookup{SequenceIndex: uint16(i), LookupListIndex: idx})
		}
	}

	if len(backtrack) == 0 && len(lookahead) == 0 {
		ctx.addContext(ctx.gsub, accumGsubContext, flags, mark, name, input, actions)
	} else {
		ctx.addChainedContext(ctx.gsub, accumGsubChainedContext, flags, mark, name, backtrack, input, lookahead, actions)
	}
}
