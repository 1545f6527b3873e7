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
	"testing"

	"seehuhn.de/go/otfea/fea/ast"
	"seehuhn.de/go/otfea/glyph"
	"seehuhn.de/go/otfea/opentype/gdef"
	"seehuhn.de/go/otfea/opentype/gtab"
)

// gname and friends build small fragments of parse tree without needing
// a front end: every test in this file hand-assembles the ast.Statement
// values a parser would otherwise have produced.

func gname(n string) *ast.GlyphName { return &ast.GlyphName{Name: n} }

func gclass(names ...string) *ast.GlyphClassLiteral {
	members := make([]ast.GlyphSet, len(names))
	for i, n := range names {
		members[i] = gname(n)
	}
	return &ast.GlyphClassLiteral{Members: members}
}

func inputs(gs ...ast.GlyphSet) []ast.InputPosition {
	out := make([]ast.InputPosition, len(gs))
	for i, g := range gs {
		out[i] = ast.InputPosition{Glyphs: g}
	}
	return out
}

func singleValue(xAdvance int) *ast.ValueRecord {
	v := xAdvance
	return &ast.ValueRecord{XAdvance: &v}
}

func glyphOrder(names ...string) *GlyphOrder {
	return NewGlyphOrder(names)
}

func buildOK(t *testing.T, glyphs *GlyphOrder, stmts []ast.Statement) *Compilation {
	t.Helper()
	comp, diags, err := Build(glyphs, stmts)
	if err != nil {
		t.Fatalf("Build failed: %v\ndiagnostics: %v", err, diags)
	}
	return comp
}

// Scenario 1 (spec.md §8): a ligature rule compiled under two declared
// language systems reaches both, via the same lookup.
func TestLigatureReachesEveryLanguageSystem(t *testing.T) {
	glyphs := glyphOrder(".notdef", "f", "i", "f_i")
	stmts := []ast.Statement{
		&ast.LanguageSystem{Script: "DFLT", Language: "dflt"},
		&ast.LanguageSystem{Script: "latn", Language: "dflt"},
		&ast.FeatureBlock{
			Tag: "liga",
			Body: []ast.Statement{
				&ast.SubstGsub{
					Input:       inputs(gname("f"), gname("i")),
					Replacement: []ast.GlyphSet{gname("f_i")},
				},
			},
		},
	}
	comp := buildOK(t, glyphs, stmts)

	dfltKey := FeatureKey{Script: "DFLT", Language: "dflt", Tag: "liga"}
	latnKey := FeatureKey{Script: "latn", Language: "dflt", Tag: "liga"}
	dfltLookups, latnLookups := comp.Features[dfltKey], comp.Features[latnKey]
	if len(dfltLookups) != 1 || len(latnLookups) != 1 {
		t.Fatalf("want exactly one lookup per language system, got %v / %v", dfltLookups, latnLookups)
	}
	if dfltLookups[0] != latnLookups[0] {
		t.Fatalf("want the same lookup shared across language systems, got %v vs %v", dfltLookups[0], latnLookups[0])
	}

	lookup := comp.Gsub[dfltLookups[0].Index]
	if lookup.Meta.LookupType != gtab.GsubTypeLigature {
		t.Fatalf("want a ligature lookup, got type %d", lookup.Meta.LookupType)
	}
	sub, ok := lookup.Subtables[0].(*gtab.Gsub4_1)
	if !ok || len(sub.Repl) != 1 || len(sub.Repl[0]) != 1 {
		t.Fatalf("want a single ligature entry, got %#v", lookup.Subtables[0])
	}
	fi, _ := glyphs.GlyphID("f_i")
	if sub.Repl[0][0].Out != fi {
		t.Fatalf("want the ligature to replace with f_i, got %v", sub.Repl[0][0].Out)
	}
}

// Scenario 2 (spec.md §8): a kerning rule naming only the first glyph's
// value record produces a pair adjustment whose Second is nil, not an
// empty record — this is the bug fixed in compileDirectPos.
func TestKernPairLeavesSecondValueNil(t *testing.T) {
	glyphs := glyphOrder(".notdef", "A", "B")
	stmts := []ast.Statement{
		&ast.FeatureBlock{
			Tag: "kern",
			Body: []ast.Statement{
				&ast.PosGpos{
					Input:  inputs(gname("A"), gname("B")),
					Values: []*ast.ValueRecord{singleValue(-40)},
				},
			},
		},
	}
	comp := buildOK(t, glyphs, stmts)

	key := FeatureKey{Script: "DFLT", Language: "dflt", Tag: "kern"}
	lookups := comp.Features[key]
	if len(lookups) != 1 {
		t.Fatalf("want exactly one kern lookup, got %v", lookups)
	}
	lookup := comp.Gpos[lookups[0].Index]
	pairs, ok := lookup.Subtables[0].(gtab.Gpos2_1)
	if !ok {
		t.Fatalf("want a Gpos2_1 subtable, got %#v", lookup.Subtables[0])
	}
	a, _ := glyphs.GlyphID("A")
	b, _ := glyphs.GlyphID("B")
	adj := pairs[glyph.Pair{Left: a, Right: b}]
	if adj == nil {
		t.Fatalf("want a pair adjustment for A,B")
	}
	if adj.Second != nil {
		t.Fatalf("want Second nil for a one-sided kern rule, got %#v", adj.Second)
	}
	if adj.First == nil || adj.First.XAdvance == nil || *adj.First.XAdvance != -40 {
		t.Fatalf("want First.XAdvance == -40, got %#v", adj.First)
	}
}

// Scenario 3 (spec.md §8): aalt folds a referenced feature's alternates
// and prepends the materialized lookup in front of every earlier GSUB
// lookup, shifting the referenced feature's own lookup id.
func TestAaltMaterializesReferencedFeature(t *testing.T) {
	glyphs := glyphOrder(".notdef", "a", "a.alt1", "a.alt2")
	stmts := []ast.Statement{
		&ast.FeatureBlock{
			Tag: "salt",
			Body: []ast.Statement{
				&ast.SubstGsub{
					Input:          inputs(gname("a")),
					Replacement:    []ast.GlyphSet{gname("a.alt1"), gname("a.alt2")},
					FromAlternates: true,
				},
			},
		},
		&ast.FeatureBlock{
			Tag: "aalt",
			Body: []ast.Statement{
				&ast.FeatureRef{Tag: "salt"},
			},
		},
	}
	comp := buildOK(t, glyphs, stmts)

	saltKey := FeatureKey{Script: "DFLT", Language: "dflt", Tag: "salt"}
	aaltKey := FeatureKey{Script: "DFLT", Language: "dflt", Tag: "aalt"}
	saltLookups, aaltLookups := comp.Features[saltKey], comp.Features[aaltKey]
	if len(saltLookups) != 1 || len(aaltLookups) != 1 {
		t.Fatalf("want one lookup each for salt and aalt, got %v / %v", saltLookups, aaltLookups)
	}
	if aaltLookups[0].Index != 0 {
		t.Fatalf("want the materialized aalt lookup prepended at index 0, got %d", aaltLookups[0].Index)
	}
	if saltLookups[0].Index != 1 {
		t.Fatalf("want salt's own lookup shifted to index 1, got %d", saltLookups[0].Index)
	}

	lookup := comp.Gsub[0]
	if lookup.Meta.LookupType != gtab.GsubTypeAlternate {
		t.Fatalf("want an alternate-substitution lookup, got type %d", lookup.Meta.LookupType)
	}
	sub, ok := lookup.Subtables[0].(*gtab.Gsub3_1)
	if !ok || len(sub.Alternates) != 1 || len(sub.Alternates[0]) != 2 {
		t.Fatalf("want two alternates for the single covered glyph, got %#v", lookup.Subtables[0])
	}
}

// Scenario 4 (spec.md §8): `sub A by NULL;` compiles to a multiple
// substitution whose replacement sequence is empty, the glyph-deletion
// idiom.
func TestNullSubstitutionDeletesGlyph(t *testing.T) {
	glyphs := glyphOrder(".notdef", "A")
	stmts := []ast.Statement{
		&ast.FeatureBlock{
			Tag: "test",
			Body: []ast.Statement{
				&ast.SubstGsub{
					Input: inputs(gname("A")),
				},
			},
		},
	}
	comp := buildOK(t, glyphs, stmts)

	key := FeatureKey{Script: "DFLT", Language: "dflt", Tag: "test"}
	lookups := comp.Features[key]
	if len(lookups) != 1 {
		t.Fatalf("want exactly one lookup, got %v", lookups)
	}
	lookup := comp.Gsub[lookups[0].Index]
	if lookup.Meta.LookupType != gtab.GsubTypeMultiple {
		t.Fatalf("want a multiple-substitution lookup, got type %d", lookup.Meta.LookupType)
	}
	sub, ok := lookup.Subtables[0].(*gtab.Gsub2_1)
	if !ok || len(sub.Repl) != 1 {
		t.Fatalf("want one multiple-substitution entry, got %#v", lookup.Subtables[0])
	}
	if len(sub.Repl[0]) != 0 {
		t.Fatalf("want an empty replacement sequence, got %v", sub.Repl[0])
	}
}

// Scenario 5 (spec.md §8): a mark-to-base rule both produces the
// expected GPOS subtable and feeds GDEF inference: the base glyph is
// classified Base, the mark glyph Mark.
func TestMarkToBasePositioningAndGDEFInference(t *testing.T) {
	glyphs := glyphOrder(".notdef", "A", "acute")
	stmts := []ast.Statement{
		&ast.MarkClassDef{
			Glyphs:    gname("acute"),
			Anchor:    ast.Anchor{Format: 1, X: 300, Y: 500},
			ClassName: "TOP",
		},
		&ast.FeatureBlock{
			Tag: "mark",
			Body: []ast.Statement{
				&ast.PosGpos{
					IsMarkToBase: true,
					BaseGlyphs:   gname("A"),
					MarkClasses:  []string{"TOP"},
					BaseAnchors:  []ast.Anchor{{Format: 1, X: 250, Y: 450}},
				},
			},
		},
	}
	comp := buildOK(t, glyphs, stmts)

	key := FeatureKey{Script: "DFLT", Language: "dflt", Tag: "mark"}
	lookups := comp.Features[key]
	if len(lookups) != 1 {
		t.Fatalf("want exactly one lookup, got %v", lookups)
	}
	lookup := comp.Gpos[lookups[0].Index]
	if lookup.Meta.LookupType != gtab.GposTypeMarkToBase {
		t.Fatalf("want a mark-to-base lookup, got type %d", lookup.Meta.LookupType)
	}
	sub, ok := lookup.Subtables[0].(*gtab.Gpos4_1)
	if !ok {
		t.Fatalf("want a Gpos4_1 subtable, got %#v", lookup.Subtables[0])
	}
	if len(sub.MarkArray) != 1 || len(sub.BaseArray) != 1 || len(sub.BaseArray[0]) != 1 {
		t.Fatalf("want one mark and one base entry, got %#v", sub)
	}

	if comp.GDEF == nil {
		t.Fatal("want a non-nil GDEF table")
	}
	a, _ := glyphs.GlyphID("A")
	acute, _ := glyphs.GlyphID("acute")
	if comp.GDEF.GlyphClass[a] != gdef.GlyphClassBase {
		t.Fatalf("want A classified as Base, got %d", comp.GDEF.GlyphClass[a])
	}
	if comp.GDEF.GlyphClass[acute] != gdef.GlyphClassMark {
		t.Fatalf("want acute classified as Mark, got %d", comp.GDEF.GlyphClass[acute])
	}
}

// Scenario 6 (spec.md §8): a rule written before a `lookup NAME;`
// reference keeps its place ahead of the named lookup's id — the bug
// fixed in referenceLookup, which used to append the named lookup
// before flushing the one still accumulating.
func TestLookupReferenceOrdering(t *testing.T) {
	glyphs := glyphOrder(".notdef", "a", "b", "c", "d")
	stmts := []ast.Statement{
		&ast.LookupBlock{
			Name: "X",
			Body: []ast.Statement{
				&ast.SubstGsub{
					Input:       inputs(gname("a")),
					Replacement: []ast.GlyphSet{gname("b")},
				},
			},
		},
		&ast.FeatureBlock{
			Tag: "xyz",
			Body: []ast.Statement{
				&ast.SubstGsub{
					Input:       inputs(gname("c")),
					Replacement: []ast.GlyphSet{gname("d")},
				},
				&ast.LookupRef{Name: "X"},
			},
		},
	}
	comp := buildOK(t, glyphs, stmts)

	key := FeatureKey{Script: "DFLT", Language: "dflt", Tag: "xyz"}
	lookups := comp.Features[key]
	if len(lookups) != 2 {
		t.Fatalf("want two lookups registered for xyz, got %v", lookups)
	}
	if lookups[0].Index == lookups[1].Index {
		t.Fatalf("want two distinct lookups, got the same index twice: %v", lookups)
	}

	cToD, ok := comp.Gsub[lookups[0].Index].Subtables[0].(*gtab.Gsub1_1)
	if !ok {
		t.Fatalf("want the in-feature rule (c->d) to compile to a single-delta subtable, got %#v", comp.Gsub[lookups[0].Index].Subtables[0])
	}
	c, _ := glyphs.GlyphID("c")
	d, _ := glyphs.GlyphID("d")
	if !cToD.Cov[c] || cToD.Delta != d-c {
		t.Fatalf("want the in-feature rule (c->d) to be the first lookup, got %#v", cToD)
	}

	xLookup := comp.Gsub[lookups[1].Index]
	if xLookup.Meta.Name != "X" {
		t.Fatalf("want the second lookup to be the named lookup X, got %#v", xLookup.Meta)
	}
}

// SPEC_FULL.md §8: `language L exclude_dflt;` does not inherit the
// default language's lookups.
func TestExcludeDfltDoesNotInheritDefaultLookups(t *testing.T) {
	glyphs := glyphOrder(".notdef", "a", "b")
	stmts := []ast.Statement{
		&ast.FeatureBlock{
			Tag: "test",
			Body: []ast.Statement{
				&ast.ScriptStatement{Script: "latn"},
				&ast.SubstGsub{
					Input:       inputs(gname("a")),
					Replacement: []ast.GlyphSet{gname("b")},
				},
				&ast.LanguageStatement{Language: "TRK", ExcludeDflt: true},
			},
		},
	}
	comp := buildOK(t, glyphs, stmts)

	dfltKey := FeatureKey{Script: "latn", Language: "dflt", Tag: "test"}
	trkKey := FeatureKey{Script: "latn", Language: "TRK", Tag: "test"}
	if len(comp.Features[dfltKey]) != 1 {
		t.Fatalf("want the default language to keep its own rule, got %v", comp.Features[dfltKey])
	}
	if len(comp.Features[trkKey]) != 0 {
		t.Fatalf("want exclude_dflt to inherit nothing, got %v", comp.Features[trkKey])
	}
}

// SPEC_FULL.md §8: a bare `subtable;` with no lookup open is a silent
// no-op, never a diagnostic.
func TestBareSubtableBreakIsNoOp(t *testing.T) {
	glyphs := glyphOrder(".notdef")
	stmts := []ast.Statement{
		&ast.FeatureBlock{
			Tag: "test",
			Body: []ast.Statement{
				&ast.SubtableBreak{},
			},
		},
	}
	_, diags, err := Build(glyphs, stmts)
	if err != nil {
		t.Fatalf("want no error from a stray subtable break, got %v (%v)", err, diags)
	}
	if len(diags) != 0 {
		t.Fatalf("want no diagnostics at all, got %v", diags)
	}
}

// SPEC_FULL.md §8: markClass conflict detection fires only within a
// single lookup — the same glyph used by two different mark classes in
// two different lookups is not an error.
func TestMarkClassConflictScopedToLookup(t *testing.T) {
	glyphs := glyphOrder(".notdef", "A", "B", "acute")
	markClasses := []ast.Statement{
		&ast.MarkClassDef{Glyphs: gname("acute"), Anchor: ast.Anchor{Format: 1, X: 300, Y: 500}, ClassName: "TOP"},
		&ast.MarkClassDef{Glyphs: gname("acute"), Anchor: ast.Anchor{Format: 1, X: 0, Y: 0}, ClassName: "TOP2"},
	}
	markRule := func(base string, class string) *ast.PosGpos {
		return &ast.PosGpos{
			IsMarkToBase: true,
			BaseGlyphs:   gname(base),
			MarkClasses:  []string{class},
			BaseAnchors:  []ast.Anchor{{Format: 1, X: 250, Y: 450}},
		}
	}

	t.Run("sameLookupConflicts", func(t *testing.T) {
		stmts := append(append([]ast.Statement{}, markClasses...),
			&ast.FeatureBlock{
				Tag: "mark",
				Body: []ast.Statement{
					markRule("A", "TOP"),
					markRule("B", "TOP2"),
				},
			})
		_, _, err := Build(glyphs, stmts)
		if err == nil {
			t.Fatal("want an error when one lookup's mark classes both claim the glyph acute")
		}
	})

	t.Run("differentLookupsDoNotConflict", func(t *testing.T) {
		stmts := append(append([]ast.Statement{}, markClasses...),
			&ast.FeatureBlock{Tag: "mark1", Body: []ast.Statement{markRule("A", "TOP")}},
			&ast.FeatureBlock{Tag: "mark2", Body: []ast.Statement{markRule("B", "TOP2")}},
		)
		comp, diags, err := Build(glyphs, stmts)
		if err != nil {
			t.Fatalf("want no error across separate lookups, got %v (%v)", err, diags)
		}
		if comp.GDEF == nil || comp.GDEF.GlyphClass[mustGID(t, glyphs, "acute")] != gdef.GlyphClassMark {
			t.Fatalf("want acute still classified as a mark, got %#v", comp.GDEF)
		}
	})
}

func mustGID(t *testing.T, glyphs *GlyphOrder, name string) glyph.ID {
	t.Helper()
	gid, ok := glyphs.GlyphID(name)
	if !ok {
		t.Fatalf("undefined glyph %q in test fixture", name)
	}
	return gid
}

// Class-valued single substitution, exercising resolveGlyphSet's
// handling of a glyph class literal as both input and output.
func TestClassSingleSubstitutionOneToOne(t *testing.T) {
	glyphs := glyphOrder(".notdef", "a", "b", "a.sc", "b.sc")
	stmts := []ast.Statement{
		&ast.FeatureBlock{
			Tag: "smcp",
			Body: []ast.Statement{
				&ast.SubstGsub{
					Input:       inputs(gclass("a", "b")),
					Replacement: []ast.GlyphSet{gclass("a.sc", "b.sc")},
				},
			},
		},
	}
	comp := buildOK(t, glyphs, stmts)

	key := FeatureKey{Script: "DFLT", Language: "dflt", Tag: "smcp"}
	lookups := comp.Features[key]
	if len(lookups) != 1 {
		t.Fatalf("want one lookup, got %v", lookups)
	}
	lookup := comp.Gsub[lookups[0].Index]
	if lookup.Meta.LookupType != gtab.GsubTypeSingle {
		t.Fatalf("want a single-substitution lookup, got type %d", lookup.Meta.LookupType)
	}
}

// A bare glyph range (`glyph.01-glyph.03`) used as a substitution's
// input is treated as a class, broadcasting the single replacement
// glyph across every glyph the range expands to.
func TestGlyphRangeExpansion(t *testing.T) {
	glyphs := glyphOrder(".notdef", "glyph.01", "glyph.02", "glyph.03", "X")
	stmts := []ast.Statement{
		&ast.FeatureBlock{
			Tag: "test",
			Body: []ast.Statement{
				&ast.SubstGsub{
					Input: inputs(&ast.GlyphRange{
						From: &ast.GlyphName{Name: "glyph.01"},
						To:   &ast.GlyphName{Name: "glyph.03"},
					}),
					Replacement: []ast.GlyphSet{gname("X")},
				},
			},
		},
	}
	comp := buildOK(t, glyphs, stmts)
	key := FeatureKey{Script: "DFLT", Language: "dflt", Tag: "test"}
	lookups := comp.Features[key]
	if len(lookups) != 1 {
		t.Fatalf("want one lookup, got %v", lookups)
	}
	lookup := comp.Gsub[lookups[0].Index]
	if lookup.Meta.LookupType != gtab.GsubTypeSingle {
		t.Fatalf("want a single-substitution lookup, got type %d", lookup.Meta.LookupType)
	}
	sub, ok := lookup.Subtables[0].(*gtab.Gsub1_2)
	if !ok || len(sub.Cov.Glyphs()) != 3 {
		t.Fatalf("want the range to expand to three covered glyphs, got %#v", lookup.Subtables[0])
	}
	x, _ := glyphs.GlyphID("X")
	for _, out := range sub.SubstituteGlyphIDs {
		if out != x {
			t.Fatalf("want every range member replaced by X, got %#v", sub.SubstituteGlyphIDs)
		}
	}
}
