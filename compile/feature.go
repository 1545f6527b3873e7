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
	"seehuhn.de/go/otfea/opentype/gtab"
)

// useLookup is the single entry point every addXxx rule builder goes
// through to reach [lookupBuilder.ensure]. Unlike ensure, it knows about
// feature scope: when the shape change forces the previous lookup
// closed, the closed lookup is registered under every currently active
// (script, language) pair before the new one is opened.
func (ctx *Context) useLookup(b *lookupBuilder, kind accumKind, flags gtab.LookupFlags, mark uint16, name string) {
	ctx.lastBuilder = b
	if b.curMeta != nil && (b.curKind != kind || b.curFlags != flags || b.curMark != mark || b.curName != name) {
		ctx.closeLookup(b)
	}
	b.ensure(kind, flags, mark, name)
}

// closeLookup flushes whatever lookup is open in b, if any, and
// registers it under the feature scope active at the time of the call.
// Called with curFeatureTag == "" (a top-level named lookup block), the
// lookup is still closed and named but not attached to any feature.
func (ctx *Context) closeLookup(b *lookupBuilder) {
	if idx, ok := b.flushLookup(); ok {
		ctx.appendActiveLookup(b.isGpos, idx)
	}
}

// appendActiveLookup records one finished lookup against the feature
// tag and (script, language) scopes currently active.
func (ctx *Context) appendActiveLookup(isGpos bool, idx gtab.LookupIndex) {
	if ctx.curFeatureTag == "" {
		return
	}
	accum := ctx.features[ctx.curFeatureTag]
	al := ActiveLookup{IsGpos: isGpos, Index: idx}
	for _, sc := range ctx.curScopes {
		accum.entries = append(accum.entries, featureEntry{scope: sc, lookup: al})
	}
}

// defaultPhaseScopes is the scope list in effect before any `script`
// statement appears in a feature block's body: every declared
// languagesystem, so that rules written before the first script
// statement reach every script and language the font declares.
func (ctx *Context) defaultPhaseScopes() []scope {
	if len(ctx.languageSystems) == 0 {
		return []scope{{script: "DFLT", language: "dflt"}}
	}
	out := make([]scope, len(ctx.languageSystems))
	for i, ls := range ctx.languageSystems {
		out[i] = scope{script: ls.Script, language: ls.Language}
	}
	return out
}

// compileFeature assembles one `feature TAG { ... } TAG;` block. The
// two feature tags with bespoke internal structure, aalt and size, are
// delegated to their own assemblers; every other tag follows the
// ordinary script/language scoping rules.
func (ctx *Context) compileFeature(fb *ast.FeatureBlock) {
	switch fb.Tag {
	case "aalt":
		ctx.compileAaltFeature(fb)
		return
	case "size":
		ctx.compileSizeFeature(fb)
		return
	}

	prevTag := ctx.curFeatureTag
	prevScopes := ctx.curScopes
	prevScript := ctx.curScript
	prevLang := ctx.curLang
	prevFlags := ctx.curFlags

	ctx.curFeatureTag = fb.Tag
	if _, ok := ctx.features[fb.Tag]; !ok {
		ctx.features[fb.Tag] = &featureAccum{tag: fb.Tag}
		ctx.featureOrder = append(ctx.featureOrder, fb.Tag)
	}
	ctx.curScopes = ctx.defaultPhaseScopes()
	ctx.curScript = ""
	ctx.curLang = "dflt"
	ctx.curFlags = activeFlags{}

	for _, st := range fb.Body {
		ctx.compileBodyStatement(st)
	}
	ctx.closeLookup(ctx.gsub)
	ctx.closeLookup(ctx.gpos)

	ctx.curFeatureTag = prevTag
	ctx.curScopes = prevScopes
	ctx.curScript = prevScript
	ctx.curLang = prevLang
	ctx.curFlags = prevFlags
}

// setScript handles a `script TAG;` statement: it closes whatever
// lookup was accumulating under the old scope and narrows the active
// scope to that script's default language.
func (ctx *Context) setScript(s *ast.ScriptStatement) {
	ctx.closeLookup(ctx.gsub)
	ctx.closeLookup(ctx.gpos)
	ctx.curScript = s.Script
	ctx.curLang = "dflt"
	ctx.curScopes = []scope{{script: s.Script, language: "dflt"}}
}

// setLanguage handles a `language TAG [exclude_dflt] [required];`
// statement. Unless exclude_dflt is given, the lookups already
// registered for this script's default language are copied in as a
// prefix, so that every later-referenced (script, language) pair that
// did not ask to exclude the default carries its rules.
func (ctx *Context) setLanguage(s *ast.LanguageStatement) {
	ctx.closeLookup(ctx.gsub)
	ctx.closeLookup(ctx.gpos)
	ctx.curLang = s.Language
	newScope := scope{script: ctx.curScript, language: s.Language}
	ctx.curScopes = []scope{newScope}

	if s.Required {
		ctx.required[FeatureKey{Script: ctx.curScript, Language: s.Language, Tag: ctx.curFeatureTag}] = true
	}

	if !s.ExcludeDflt {
		accum := ctx.features[ctx.curFeatureTag]
		dfltScope := scope{script: ctx.curScript, language: "dflt"}
		var prefix []featureEntry
		for _, e := range accum.entries {
			if e.scope == dfltScope {
				prefix = append(prefix, featureEntry{scope: newScope, lookup: e.lookup})
			}
		}
		accum.entries = append(accum.entries, prefix...)
	}
}

// referenceLookup handles a `lookup NAME;` statement inside a feature
// or another named lookup: per the implicit state machine (closes the
// current lookup, appends the named id), whatever lookup was
// accumulating is flushed and registered first, so that a rule written
// before the reference keeps its place ahead of the named lookup in the
// feature's lookup list.
func (ctx *Context) referenceLookup(s *ast.LookupRef) {
	ctx.closeLookup(ctx.gsub)
	ctx.closeLookup(ctx.gpos)
	if idx, ok := ctx.gsub.byName[s.Name]; ok {
		ctx.appendActiveLookup(false, idx)
		return
	}
	if idx, ok := ctx.gpos.byName[s.Name]; ok {
		ctx.appendActiveLookup(true, idx)
		return
	}
	ctx.Diags.Errorf(s.Pos, "undefined lookup %q", s.Name)
}
