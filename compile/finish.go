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
	"seehuhn.de/go/otfea/glyph"
	"seehuhn.de/go/otfea/opentype/classdef"
	"seehuhn.de/go/otfea/opentype/gdef"
	"seehuhn.de/go/otfea/opentype/gtab"
)

// finish runs the two finalization passes (aalt lookup materialization
// with id remapping, then GDEF inference) and assembles the result into
// a [Compilation]. It is the only place that reads the context's
// registries into their final, exported shape.
func (ctx *Context) finish() *Compilation {
	ctx.closeLookup(ctx.gsub)
	ctx.closeLookup(ctx.gpos)

	ctx.finishAaltAndShift()

	return &Compilation{
		Gsub:            ctx.gsub.lookups,
		Gpos:            ctx.gpos.lookups,
		Features:        ctx.buildFeatureMap(),
		LanguageSystems: ctx.languageSystems,
		Required:        ctx.required,
		GDEF:            ctx.finishGDEF(),
		OS2:             ctx.os2,
		Head:            ctx.head,
		Hhea:            ctx.hhea,
		Vhea:            ctx.vhea,
		Vmtx:            ctx.vmtx,
		Name:            ctx.nameT,
		Base:            ctx.base,
		Stat:            ctx.stat,
		Size:            ctx.size,
		StylisticSets:   ctx.stylistic,
	}
}

// finishAaltAndShift materializes the aalt feature's lookups (if any),
// prepends them to the GSUB lookup list, and shifts every GSUB-side
// lookup id recorded before this point by the number of lookups
// inserted: feature entries, and the LookupListIndex of every GSUB
// contextual action (GSUB contextual rules only ever reference other
// GSUB lookups, so GPOS-side indices are never touched).
func (ctx *Context) finishAaltAndShift() {
	newLookups, aaltEntries := ctx.finishAalt()
	shift := gtab.LookupIndex(len(newLookups))
	if shift == 0 {
		return
	}

	ctx.gsub.lookups = append(newLookups, ctx.gsub.lookups...)

	for _, accum := range ctx.features {
		for i := range accum.entries {
			if !accum.entries[i].lookup.IsGpos {
				accum.entries[i].lookup.Index += shift
			}
		}
	}

	for _, lookup := range ctx.gsub.lookups[shift:] {
		for _, st := range lookup.Subtables {
			switch sub := st.(type) {
			case *gtab.SeqContext3:
				for i := range sub.Actions {
					sub.Actions[i].LookupListIndex += shift
				}
			case *gtab.ChainedSeqContext3:
				for i := range sub.Actions {
					sub.Actions[i].LookupListIndex += shift
				}
			}
		}
	}

	accum := ctx.features["aalt"]
	accum.entries = append(accum.entries, aaltEntries...)
}

// buildFeatureMap flattens every feature's accumulated (scope, lookup)
// entries into the exported [Compilation.Features] map, deduplicating
// repeated lookup ids per scope while preserving first-occurrence
// order, and adding an entry (possibly empty) for every scope a feature
// was forced to register under regardless of whether it accumulated any
// lookups.
func (ctx *Context) buildFeatureMap() map[FeatureKey][]ActiveLookup {
	out := make(map[FeatureKey][]ActiveLookup)
	for _, tag := range ctx.featureOrder {
		accum := ctx.features[tag]
		if accum == nil {
			continue
		}

		byScope := make(map[scope][]ActiveLookup)
		seenLookup := make(map[scope]map[ActiveLookup]bool)
		var scopeOrder []scope
		scopeSeen := make(map[scope]bool)

		addScope := func(sc scope) {
			if !scopeSeen[sc] {
				scopeSeen[sc] = true
				scopeOrder = append(scopeOrder, sc)
			}
		}

		for _, e := range accum.entries {
			addScope(e.scope)
			if seenLookup[e.scope] == nil {
				seenLookup[e.scope] = make(map[ActiveLookup]bool)
			}
			if seenLookup[e.scope][e.lookup] {
				continue
			}
			seenLookup[e.scope][e.lookup] = true
			byScope[e.scope] = append(byScope[e.scope], e.lookup)
		}
		for _, sc := range accum.forceScopes {
			addScope(sc)
		}

		for _, sc := range scopeOrder {
			key := FeatureKey{Script: sc.script, Language: sc.language, Tag: tag}
			out[key] = byScope[sc]
		}
	}
	return out
}

// finishGDEF builds the GDEF table: explicit DSL-provided state if any
// `table GDEF { ... } GDEF;` block was seen, inferred glyph classes
// otherwise, plus the mark-attachment-class and mark-filtering-set
// registries accumulated from lookup flags. It returns nil if the
// result would be entirely empty.
func (ctx *Context) finishGDEF() *gdef.Table {
	table := ctx.gdefExplicit
	if table == nil {
		table = &gdef.Table{
			AttachList:   make(map[glyph.ID][]uint16),
			LigCaretList: make(map[glyph.ID][]gdef.CaretValue),
		}
	}

	if len(ctx.gdefGlyphClass) > 0 {
		table.GlyphClass = ctx.gdefGlyphClass
	} else {
		table.GlyphClass = ctx.inferGDEFGlyphClass()
	}

	if len(ctx.markAttachClass) > 0 {
		table.MarkAttachClass = classdef.Table(ctx.markAttachClass)
	}
	if len(ctx.markFilterSets) > 0 {
		table.MarkGlyphSets = ctx.markFilterSets
	}

	if table.IsEmpty() {
		return nil
	}
	return table
}

// inferGDEFGlyphClass derives glyph classes from lookup contents when
// the source never gave explicit ones: marks from the mark-class
// registry, ligatures from GSUB type-4 output glyphs, bases from the
// base-glyph coverage of mark-to-base lookups, and components from the
// non-initial members of ligature input sequences that did not already
// receive a class from one of the other three rules.
func (ctx *Context) inferGDEFGlyphClass() classdef.Table {
	result := make(classdef.Table)

	for _, mc := range ctx.markClasses {
		for _, g := range mc.glyphs {
			if _, ok := result[g]; !ok {
				result[g] = gdef.GlyphClassMark
			}
		}
	}

	var componentCandidates []glyph.ID
	for _, lookup := range ctx.gsub.lookups {
		for _, st := range lookup.Subtables {
			lig, ok := st.(*gtab.Gsub4_1)
			if !ok {
				continue
			}
			for _, group := range lig.Repl {
				for _, l := range group {
					if _, ok := result[l.Out]; !ok {
						result[l.Out] = gdef.GlyphClassLigature
					}
					componentCandidates = append(componentCandidates, l.In...)
				}
			}
		}
	}

	for _, lookup := range ctx.gpos.lookups {
		for _, st := range lookup.Subtables {
			base, ok := st.(*gtab.Gpos4_1)
			if !ok {
				continue
			}
			for _, g := range base.BaseCov.Glyphs() {
				if _, ok := result[g]; !ok {
					result[g] = gdef.GlyphClassBase
				}
			}
		}
	}

	for _, g := range componentCandidates {
		if _, ok := result[g]; !ok {
			result[g] = gdef.GlyphClassComponent
		}
	}

	return result
}
