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

import "seehuhn.de/go/otfea/fea/ast"

// NameRecordEntry is a platform/encoding/language-tagged string, shared
// by size-menu names, stylistic-set labels, and character-variant
// labels.
type NameRecordEntry struct {
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	Value      string
}

// SizeFeature accumulates the `size` feature's parameters: the optical
// design size in decipoints, the (optional) subfamily identifier and
// design-size range it applies to, and the menu names a size-aware
// font picker shows for the subfamily.
type SizeFeature struct {
	DesignSize  float64
	SubfamilyID int
	HasRange    bool
	RangeStart  float64
	RangeEnd    float64
	MenuNames   []NameRecordEntry
}

// compileSizeFeature walks a `feature size { ... } size;` block. Unlike
// an ordinary feature, size carries no substitution or positioning
// rules at all — only a `parameters` statement and zero or more
// `sizemenuname` entries — and registers itself under every default
// language system whether or not any statement was given.
func (ctx *Context) compileSizeFeature(fb *ast.FeatureBlock) {
	if _, ok := ctx.features["size"]; !ok {
		ctx.features["size"] = &featureAccum{tag: "size"}
		ctx.featureOrder = append(ctx.featureOrder, "size")
	}
	if ctx.size == nil {
		ctx.size = &SizeFeature{}
	}

	for _, st := range fb.Body {
		switch s := st.(type) {
		case *ast.SizeParameters:
			ctx.compileSizeParameters(s)
		case *ast.SizeMenuName:
			ctx.compileSizeMenuName(s)
		default:
			ctx.Diags.Errorf(st.Position(), "statement %T is not valid inside the size feature", st)
		}
	}

	accum := ctx.features["size"]
	accum.forceScopes = append(accum.forceScopes, ctx.defaultPhaseScopes()...)
}

func (ctx *Context) compileSizeParameters(s *ast.SizeParameters) {
	ctx.size.DesignSize = s.DesignSize
	ctx.size.SubfamilyID = s.SubfamilyID
	ctx.size.HasRange = s.HasRange
	ctx.size.RangeStart = s.RangeStart
	ctx.size.RangeEnd = s.RangeEnd
}

func (ctx *Context) compileSizeMenuName(s *ast.SizeMenuName) {
	plat, enc, lang := s.PlatformID, s.EncodingID, s.LanguageID
	if !s.HasPlat {
		ctx.size.MenuNames = append(ctx.size.MenuNames,
			NameRecordEntry{PlatformID: 3, EncodingID: 1, LanguageID: 0x0409, Value: s.Value},
			NameRecordEntry{PlatformID: 1, EncodingID: 0, LanguageID: 0, Value: s.Value},
		)
		return
	}
	ctx.size.MenuNames = append(ctx.size.MenuNames, NameRecordEntry{PlatformID: plat, EncodingID: enc, LanguageID: lang, Value: s.Value})
}

// StylisticSet accumulates the UI-facing parameters of a stylistic-set
// (ssXX) or character-variant (cvXX) feature: the feature's own rules
// still compile to ordinary lookups via the normal rule path, but these
// statements exist purely to label the feature for a text-layout
// application's menu.
type StylisticSet struct {
	Tag string

	// UINameLabels holds the `featureNames { ... };` entries (stylistic
	// sets) or the FeatUILabelNameID entries (character variants).
	UINameLabels []NameRecordEntry

	// The following are only meaningful for character variants.
	TooltipLabels []NameRecordEntry
	SampleLabels  []NameRecordEntry
	ParamLabels   []NameRecordEntry
	Characters    []rune
}

func (ctx *Context) stylisticSetFor(tag string) *StylisticSet {
	ss := ctx.stylistic[tag]
	if ss == nil {
		ss = &StylisticSet{Tag: tag}
		ctx.stylistic[tag] = ss
	}
	return ss
}

func convertNameEntries(entries []ast.FeatureNameStatement) []NameRecordEntry {
	out := make([]NameRecordEntry, 0, len(entries))
	for _, e := range entries {
		if !e.HasPlat {
			out = append(out,
				NameRecordEntry{PlatformID: 3, EncodingID: 1, LanguageID: 0x0409, Value: e.Value},
				NameRecordEntry{PlatformID: 1, EncodingID: 0, LanguageID: 0, Value: e.Value},
			)
			continue
		}
		out = append(out, NameRecordEntry{PlatformID: e.PlatformID, EncodingID: e.EncodingID, LanguageID: e.LanguageID, Value: e.Value})
	}
	return out
}

// compileFeatureNameBlock handles a stylistic set's `featureNames { name
// ...; }` block: the set of UI labels a text-layout application may
// show in a stylistic-alternates menu.
func (ctx *Context) compileFeatureNameBlock(s *ast.FeatureNameBlock) {
	ss := ctx.stylisticSetFor(ctx.curFeatureTag)
	ss.UINameLabels = append(ss.UINameLabels, convertNameEntries(s.Names)...)
}

// compileCVParameterBlock handles a character variant's `cvParameters {
// ... }` block: UI label, tooltip, sample text, and per-parameter labels,
// plus the Unicode code points the variant covers.
func (ctx *Context) compileCVParameterBlock(s *ast.CVParameterBlock) {
	ss := ctx.stylisticSetFor(ctx.curFeatureTag)
	ss.UINameLabels = append(ss.UINameLabels, convertNameEntries(s.FeatUILabelNames)...)
	ss.TooltipLabels = append(ss.TooltipLabels, convertNameEntries(s.FeatUITooltipNames)...)
	ss.SampleLabels = append(ss.SampleLabels, convertNameEntries(s.SampleTextNames)...)
	ss.ParamLabels = append(ss.ParamLabels, convertNameEntries(s.ParamLabelNames)...)
	ss.Characters = append(ss.Characters, s.Characters...)
}
