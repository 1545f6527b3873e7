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

// aaltEntry accumulates the alternates offered for one target glyph by
// the "access all alternates" feature, in first-seen order.
type aaltEntry struct {
	alts []glyph.ID
	seen map[glyph.ID]bool
}

// aaltBuilder assembles the aalt feature across the whole file: its own
// direct rules (added immediately as the feature block is walked) plus
// every feature it references via `feature TAG;` (expanded once the
// whole file has been compiled, since the referenced feature may not be
// finished yet at the point aalt names it).
type aaltBuilder struct {
	order    []glyph.ID
	byTarget map[glyph.ID]*aaltEntry
	features []string
	sawTag   map[string]bool
}

func newAaltBuilder() *aaltBuilder {
	return &aaltBuilder{byTarget: make(map[glyph.ID]*aaltEntry), sawTag: make(map[string]bool)}
}

func (b *aaltBuilder) add(target, alt glyph.ID) {
	if alt == target {
		return
	}
	e := b.byTarget[target]
	if e == nil {
		e = &aaltEntry{seen: make(map[glyph.ID]bool)}
		b.byTarget[target] = e
		b.order = append(b.order, target)
	}
	if e.seen[alt] {
		return
	}
	e.seen[alt] = true
	e.alts = append(e.alts, alt)
}

func (b *aaltBuilder) reference(tag string) {
	if b.sawTag[tag] {
		return
	}
	b.sawTag[tag] = true
	b.features = append(b.features, tag)
}

// compileAaltFeature walks an `feature aalt { ... } aalt;` block. Unlike
// an ordinary feature, its body is restricted to feature references and
// direct single/alternate substitutions naming alternate glyph forms;
// neither script/language scoping nor any other rule shape applies.
func (ctx *Context) compileAaltFeature(fb *ast.FeatureBlock) {
	if _, ok := ctx.features["aalt"]; !ok {
		ctx.features["aalt"] = &featureAccum{tag: "aalt"}
		ctx.featureOrder = append(ctx.featureOrder, "aalt")
	}

	for _, st := range fb.Body {
		switch s := st.(type) {
		case *ast.FeatureRef:
			ctx.aalt.reference(s.Tag)
		case *ast.SubstGsub:
			ctx.compileAaltDirectSub(s)
		default:
			ctx.Diags.Errorf(st.Position(), "statement %T is not valid inside the aalt feature", st)
		}
	}
}

func (ctx *Context) compileAaltDirectSub(s *ast.SubstGsub) {
	if len(s.Input) != 1 {
		ctx.Diags.Errorf(s.Pos, "aalt substitution rules take exactly one input glyph")
		return
	}
	from, ok := ctx.resolveGlyph(s.Input[0].Glyphs)
	if !ok {
		return
	}
	for _, r := range s.Replacement {
		alt, ok := ctx.resolveGlyph(r)
		if ok {
			ctx.aalt.add(from, alt)
		}
	}
}

// finishAalt expands every feature referenced by the aalt block into
// per-glyph alternates and materializes the result as zero, one, or two
// new GSUB lookups meant to be inserted at the front of the GSUB lookup
// list: a type-1 lookup for targets with exactly one alternate, and a
// type-3 lookup for targets with more than one. The returned entries use
// 0-based indices into the returned lookup slice, valid once the caller
// prepends that slice to the front of the GSUB lookup list — they need
// no shifting themselves, unlike every lookup id that existed before
// this call.
func (ctx *Context) finishAalt() ([]*gtab.LookupTable, []featureEntry) {
	visited := make(map[gtab.LookupIndex]bool)
	for _, tag := range ctx.aalt.features {
		accum := ctx.features[tag]
		if accum == nil {
			continue
		}
		for _, e := range accum.entries {
			if e.lookup.IsGpos || visited[e.lookup.Index] {
				continue
			}
			visited[e.lookup.Index] = true
			ctx.collectAaltAlternates(e.lookup.Index)
		}
	}

	if len(ctx.aalt.order) == 0 {
		return nil, nil
	}

	var singles, multi []glyph.ID
	for _, g := range ctx.aalt.order {
		switch len(ctx.aalt.byTarget[g].alts) {
		case 0:
		case 1:
			singles = append(singles, g)
		default:
			multi = append(multi, g)
		}
	}
	if len(singles) == 0 && len(multi) == 0 {
		return nil, nil
	}

	var newLookups []*gtab.LookupTable
	var entries []featureEntry
	scopes := ctx.defaultPhaseScopes()

	registerEntry := func(idx gtab.LookupIndex) {
		al := ActiveLookup{IsGpos: false, Index: idx}
		for _, sc := range scopes {
			entries = append(entries, featureEntry{scope: sc, lookup: al})
		}
	}

	if len(singles) > 0 {
		cov := coverage.NewTable(singles...)
		order := cov.Glyphs()
		subst := make([]glyph.ID, len(order))
		for i, g := range order {
			subst[i] = ctx.aalt.byTarget[g].alts[0]
		}
		registerEntry(gtab.LookupIndex(len(newLookups)))
		newLookups = append(newLookups, &gtab.LookupTable{
			Meta: &gtab.LookupMetaInfo{LookupType: gtab.GsubTypeSingle},
			Subtables: []gtab.Subtable{
				&gtab.Gsub1_2{Cov: cov, SubstituteGlyphIDs: subst},
			},
		})
	}

	if len(multi) > 0 {
		cov := coverage.NewTable(multi...)
		order := cov.Glyphs()
		alts := make([][]glyph.ID, len(order))
		for i, g := range order {
			alts[i] = ctx.aalt.byTarget[g].alts
		}
		registerEntry(gtab.LookupIndex(len(newLookups)))
		newLookups = append(newLookups, &gtab.LookupTable{
			Meta: &gtab.LookupMetaInfo{LookupType: gtab.GsubTypeAlternate},
			Subtables: []gtab.Subtable{
				&gtab.Gsub3_1{Cov: cov, Alternates: alts},
			},
		})
	}

	return newLookups, entries
}

// collectAaltAlternates pulls the per-glyph alternates a single GSUB
// lookup offers into the aalt builder: every glyph a type-1 (single)
// lookup maps to counts as one alternate of its source glyph, and every
// glyph a type-3 (alternate) lookup already lists is copied through
// unchanged.
func (ctx *Context) collectAaltAlternates(idx gtab.LookupIndex) {
	if int(idx) >= len(ctx.gsub.lookups) {
		return
	}
	lookup := ctx.gsub.lookups[idx]
	for _, st := range lookup.Subtables {
		switch sub := st.(type) {
		case *gtab.Gsub1_1:
			for _, g := range sub.Cov.Glyphs() {
				ctx.aalt.add(g, g+sub.Delta)
			}
		case *gtab.Gsub1_2:
			for i, g := range sub.Cov.Glyphs() {
				ctx.aalt.add(g, sub.SubstituteGlyphIDs[i])
			}
		case *gtab.Gsub3_1:
			for i, g := range sub.Cov.Glyphs() {
				for _, alt := range sub.Alternates[i] {
					ctx.aalt.add(g, alt)
				}
			}
		}
	}
}
