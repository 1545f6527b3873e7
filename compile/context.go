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

	"seehuhn.de/go/otfea/fea/ast"
	"seehuhn.de/go/otfea/fea/diag"
	"seehuhn.de/go/otfea/glyph"
	"seehuhn.de/go/otfea/opentype/anchor"
	"seehuhn.de/go/otfea/opentype/classdef"
	"seehuhn.de/go/otfea/opentype/coverage"
	"seehuhn.de/go/otfea/opentype/gdef"
	"seehuhn.de/go/otfea/opentype/gtab"
)

// FeatureKey identifies one (script, language, feature tag) combination
// a list of lookups is registered under.
type FeatureKey struct {
	Script   string
	Language string
	Tag      string
}

// Compilation is the result of compiling a parse tree: the finished
// lookup lists, the feature-to-lookup map, and the resolved auxiliary
// tables. It holds no wire-format encoding; turning it into font binary
// data is a downstream concern.
type Compilation struct {
	Gsub []*gtab.LookupTable
	Gpos []*gtab.LookupTable

	// Features maps each (script, language, tag) combination that was
	// declared or implied by a languagesystem statement to the lookups
	// it activates, in the order they were registered (GSUB and GPOS
	// entries may interleave), without duplicates.
	Features map[FeatureKey][]ActiveLookup

	// LanguageSystems lists every declared languagesystem, in source
	// order.
	LanguageSystems []ast.LanguageSystem

	// Required lists every (script, language, tag) key marked `required`
	// by a `language ... required;` statement.
	Required map[FeatureKey]bool

	GDEF *gdef.Table
	OS2  *OS2Block
	Head *HeadInfo
	Hhea *HheaInfo
	Vhea *VheaInfo
	Vmtx *VmtxInfo
	Name *NameTable
	Base *BaseInfo
	Stat *StatInfo

	// Size holds the `size` feature's parameters, or nil if the source
	// never declared one.
	Size *SizeFeature

	// StylisticSets holds the UI-label parameters declared for ssXX/cvXX
	// features, keyed by feature tag.
	StylisticSets map[string]*StylisticSet
}

// ActiveLookup is one entry of a feature's lookup list: which table the
// lookup belongs to and its index into [Compilation.Gsub] or
// [Compilation.Gpos].
type ActiveLookup struct {
	IsGpos bool
	Index  gtab.LookupIndex
}

// Context is the single mutable value threaded through a compile run.
// It owns every registry the individual components (name resolution,
// anchors, mark classes, lookup building, feature assembly, table
// resolution) read and write, so that those components can be plain
// methods on *Context rather than juggling their own copies of shared
// state.
type Context struct {
	Glyphs *GlyphOrder
	Diags  diag.Bag

	glyphClasses map[string]namedGlyphClass
	anchors      map[string]anchor.Table
	markClasses  map[string]*MarkClass

	gsub *lookupBuilder
	gpos *lookupBuilder

	// curFeatureTag is the feature block being walked ("" outside one);
	// features accumulates, per feature tag, the (script, language)
	// scopes and the lookups registered for each.
	curFeatureTag string
	featureOrder  []string // first-seen order of feature tags, for stable output
	features      map[string]*featureAccum

	languageSystems []ast.LanguageSystem
	sawLanguageSys  map[[2]string]bool

	// curNamedLookup is the name of the `lookup NAME { ... }` block
	// currently being walked, or "" outside of one. It guards against
	// nesting one named lookup block inside another, and is passed to
	// every addXxx call so the lookup it eventually closes is
	// registered under that name.
	curNamedLookup string

	// curScript/curLang track the script/language statement scope
	// active while walking a feature block's body; curScopes is the set
	// of (script, language) keys that a lookup closed right now would be
	// registered under.
	curScript string
	curLang   string
	curScopes []scope

	// curFlags is the most recently seen lookupflag state, applied to
	// every rule added until the next FlagStatement or the end of the
	// enclosing block.
	curFlags activeFlags

	// lastBuilder is whichever of gsub/gpos most recently accumulated a
	// rule, the target of a bare `subtable;` statement.
	lastBuilder *lookupBuilder

	// required collects every (script, language, tag) key marked
	// `required` by a `language ... required;` statement, staged here
	// until [Context.finish] copies it into [Compilation.Required].
	required map[FeatureKey]bool

	markAttachIndex map[string]uint16 // canonical glyph-class key -> class id, from 1
	markAttachClass map[glyph.ID]uint16
	markFilterIndex map[string]uint16 // canonical glyph-class key -> filter-set id, from 0
	markFilterSets  []coverage.Set

	gdefExplicit   *gdef.Table // non-nil once a `table GDEF { ... } GDEF;` block has been seen
	gdefGlyphClass classdef.Table

	aalt *aaltBuilder
	size *SizeFeature
	// stylistic holds accumulated UI-label parameters for ssXX/cvXX
	// features, keyed by feature tag.
	stylistic map[string]*StylisticSet

	head  *HeadInfo
	hhea  *HheaInfo
	vhea  *VheaInfo
	vmtx  *VmtxInfo
	nameT *NameTable
	base  *BaseInfo
	stat  *StatInfo
	os2   *OS2Block
}

type scope struct {
	script, language string
}

// featureAccum collects, for one feature tag, the lookups registered
// under each (script, language) scope that fed into it.
type featureAccum struct {
	tag     string
	entries []featureEntry

	// forceScopes lists scopes the feature must appear under in
	// [Compilation.Features] even if no lookup was ever registered for
	// it (the size feature, which may carry only parameters and no
	// rules).
	forceScopes []scope
}

type featureEntry struct {
	scope  scope
	lookup ActiveLookup
}

// NewContext creates a compile context over the given glyph order.
func NewContext(glyphs *GlyphOrder) *Context {
	gp := newLookupBuilder()
	gp.isGpos = true
	return &Context{
		Glyphs:          glyphs,
		glyphClasses:    make(map[string]namedGlyphClass),
		anchors:         make(map[string]anchor.Table),
		markClasses:     make(map[string]*MarkClass),
		gsub:            newLookupBuilder(),
		gpos:            gp,
		features:        make(map[string]*featureAccum),
		sawLanguageSys:  make(map[[2]string]bool),
		markAttachIndex: make(map[string]uint16),
		markAttachClass: make(map[glyph.ID]uint16),
		markFilterIndex: make(map[string]uint16),
		stylistic:       make(map[string]*StylisticSet),
		aalt:            newAaltBuilder(),
		required:        make(map[FeatureKey]bool),
		curLang:         "dflt",
	}
}

// Build compiles a full parse tree (the statements of one or more
// feature files, already concatenated in include order) into a
// [Compilation]. It returns a non-nil error, built from every recorded
// diagnostic, if any statement could not be compiled.
func Build(glyphs *GlyphOrder, stmts []ast.Statement) (*Compilation, []diag.Diagnostic, error) {
	ctx := NewContext(glyphs)
	ctx.compileTopLevel(stmts)
	comp := ctx.finish()
	return comp, ctx.Diags.All(), ctx.Diags.Err()
}

// compileTopLevel dispatches every top-level statement to its handler.
func (ctx *Context) compileTopLevel(stmts []ast.Statement) {
	for _, st := range stmts {
		switch s := st.(type) {
		case *ast.LanguageSystem:
			ctx.addLanguageSystem(s)
		case *ast.GlyphClassDef:
			ctx.defineGlyphClass(s)
		case *ast.AnchorDef:
			ctx.defineAnchor(s)
		case *ast.MarkClassDef:
			ctx.defineMarkClassEntry(s)
		case *ast.LookupBlock:
			ctx.compileNamedLookup(s)
		case *ast.FeatureBlock:
			ctx.compileFeature(s)
		case *ast.TableBlock:
			ctx.compileTable(s)
		case *ast.AnonymousBlock:
			// out of scope: carried verbatim by a downstream serializer
		default:
			ctx.Diags.Errorf(st.Position(), "unexpected top-level statement %T", st)
		}
	}
}

func (ctx *Context) addLanguageSystem(s *ast.LanguageSystem) {
	key := [2]string{s.Script, s.Language}
	if ctx.sawLanguageSys[key] {
		ctx.Diags.Warnf(s.Position(), "duplicate languagesystem %s/%s", s.Script, s.Language)
		return
	}
	ctx.sawLanguageSys[key] = true
	ctx.languageSystems = append(ctx.languageSystems, *s)
}

// resolveGlyph resolves a single glyph reference.
func (ctx *Context) resolveGlyph(g ast.GlyphSet) (glyph.ID, bool) {
	switch gg := g.(type) {
	case *ast.GlyphName:
		gid, ok := ctx.Glyphs.GlyphID(gg.Name)
		if !ok {
			ctx.Diags.Errorf(gg.Pos, "undefined glyph %q", gg.Name)
		}
		return gid, ok
	case *ast.GlyphCID:
		gid, ok := ctx.Glyphs.GlyphIDForCID(gg.CID)
		if !ok {
			ctx.Diags.Errorf(gg.Pos, "undefined CID \\%d", gg.CID)
		}
		return gid, ok
	case *ast.GlyphNull:
		return 0, true
	default:
		ctx.Diags.Errorf(g.Position(), "expected a single glyph, found a glyph class")
		return 0, false
	}
}

// resolveGlyphSet expands any [ast.GlyphSet] expression into its
// constituent glyphs, in source order (not de-duplicated or sorted —
// callers that need a set call [dedupSorted] themselves).
func (ctx *Context) resolveGlyphSet(g ast.GlyphSet) []glyph.ID {
	switch gg := g.(type) {
	case *ast.GlyphName:
		gid, ok := ctx.resolveGlyph(gg)
		if !ok {
			return nil
		}
		return []glyph.ID{gid}
	case *ast.GlyphCID:
		gid, ok := ctx.resolveGlyph(gg)
		if !ok {
			return nil
		}
		return []glyph.ID{gid}
	case *ast.GlyphNull:
		return []glyph.ID{0}
	case *ast.GlyphRange:
		return ctx.resolveGlyphRange(gg)
	case *ast.GlyphClassLiteral:
		var out []glyph.ID
		for _, m := range gg.Members {
			out = append(out, ctx.resolveGlyphSet(m)...)
		}
		return out
	case *ast.GlyphClassRef:
		cl, ok := ctx.glyphClasses[gg.Name]
		if !ok {
			ctx.Diags.Errorf(gg.Pos, "undefined glyph class @%s", gg.Name)
			return nil
		}
		return append([]glyph.ID(nil), cl.glyphs...)
	default:
		ctx.Diags.Errorf(g.Position(), "unsupported glyph expression %T", g)
		return nil
	}
}

func (ctx *Context) resolveGlyphRange(r *ast.GlyphRange) []glyph.ID {
	switch from := r.From.(type) {
	case *ast.GlyphCID:
		to, ok := r.To.(*ast.GlyphCID)
		if !ok {
			ctx.Diags.Errorf(r.Pos, "range endpoints must both be CIDs or both be names")
			return nil
		}
		if to.CID < from.CID {
			ctx.Diags.Errorf(r.Pos, "empty CID range \\%d-\\%d", from.CID, to.CID)
			return nil
		}
		var out []glyph.ID
		for cid := from.CID; cid <= to.CID; cid++ {
			if gid, ok := ctx.Glyphs.GlyphIDForCID(cid); ok {
				out = append(out, gid)
			} else {
				ctx.Diags.Errorf(r.Pos, "undefined CID \\%d in range", cid)
			}
		}
		return out
	case *ast.GlyphName:
		to, ok := r.To.(*ast.GlyphName)
		if !ok {
			ctx.Diags.Errorf(r.Pos, "range endpoints must both be CIDs or both be names")
			return nil
		}
		names, err := expandNameRange(from.Name, to.Name)
		if err != nil {
			ctx.Diags.Errorf(r.Pos, "%s", err)
			return nil
		}
		var out []glyph.ID
		for _, name := range names {
			if gid, ok := ctx.Glyphs.GlyphID(name); ok {
				out = append(out, gid)
			} else {
				ctx.Diags.Errorf(r.Pos, "undefined glyph %q in range", name)
			}
		}
		return out
	default:
		ctx.Diags.Errorf(r.Pos, "invalid range endpoint %T", r.From)
		return nil
	}
}

// expandNameRange expands a `fromName-toName` glyph name range, where
// both names share a common prefix and differ by a trailing decimal
// suffix (the common `glyph.001`-`glyph.099` idiom).
func expandNameRange(from, to string) ([]string, error) {
	fp, fn, ok1 := splitTrailingDigits(from)
	tp, tn, ok2 := splitTrailingDigits(to)
	if !ok1 || !ok2 || fp != tp {
		return nil, fmt.Errorf("cannot form a glyph range from %q to %q", from, to)
	}
	if tn < fn {
		return nil, fmt.Errorf("empty glyph range %q-%q", from, to)
	}
	width := len(from) - len(fp)
	out := make([]string, 0, tn-fn+1)
	for n := fn; n <= tn; n++ {
		out = append(out, fmt.Sprintf("%s%0*d", fp, width, n))
	}
	return out, nil
}

func splitTrailingDigits(s string) (prefix string, n int, ok bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return "", 0, false
	}
	digits := s[i:]
	val := 0
	for _, c := range digits {
		val = val*10 + int(c-'0')
	}
	return s[:i], val, true
}

func (ctx *Context) defineGlyphClass(s *ast.GlyphClassDef) {
	if _, exists := ctx.glyphClasses[s.Name]; exists {
		ctx.Diags.Errorf(s.Pos, "glyph class @%s redefined", s.Name)
		return
	}
	ctx.glyphClasses[s.Name] = namedGlyphClass{glyphs: ctx.resolveGlyphSet(s.Members)}
}
