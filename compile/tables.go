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
	"strings"

	"golang.org/x/exp/slices"
	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/otfea/fea/ast"
	"seehuhn.de/go/otfea/glyph"
	"seehuhn.de/go/otfea/opentype/gdef"
	"seehuhn.de/go/otfea/os2"
)

// OS2Block is the subset of an "OS/2" table a feature file can set
// directly. It reuses the font-wide [os2.Info] representation so that a
// downstream serializer shares one definition of the table's fields
// with a font reader/writer built on this module.
type OS2Block = os2.Info

// HeadInfo is the feature-file-settable subset of the "head" table: the
// font revision number set via `FontRevision 1.002;`, stored as the
// float64 the source gives. It is not converted to the table's 16.16
// fixed-point form here.
type HeadInfo struct {
	FontRevision float64
}

// HheaInfo is the feature-file-settable subset of the "hhea" table.
type HheaInfo struct {
	Ascender    funit.Int16
	Descender   funit.Int16
	LineGap     funit.Int16
	CaretOffset funit.Int16
}

// VheaInfo is the feature-file-settable subset of the "vhea" table. It
// additionally carries the typographic ascender/descender pair AFDKO
// calls VertTypoAscender/VertTypoDescender, distinct from Ascender and
// Descender, which map to the table's own metrics.
type VheaInfo struct {
	Ascender          funit.Int16
	Descender         funit.Int16
	LineGap           funit.Int16
	CaretOffset       funit.Int16
	VertTypoAscender  funit.Int16
	VertTypoDescender funit.Int16
	VertTypoLineGap   funit.Int16
}

// VmtxInfo holds per-glyph overrides to the vertical metrics a
// downstream "vmtx"/"VORG" writer would otherwise derive automatically
// from the glyph outlines.
type VmtxInfo struct {
	Advance map[glyph.ID]funit.Int16
	Origin  map[glyph.ID]funit.Int16
}

// NameRecord is one entry of a "name" table, as produced by a
// `nameid ID "value";` or `nameid ID PLATFORM ENCODING LANGUAGE
// "value";` statement.
type NameRecord struct {
	NameID     uint16
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	Value      string
}

// NameTable accumulates the name records declared in a feature file's
// `table name { ... }` block.
type NameTable struct {
	Records []NameRecord
}

// defaultNameRecords expands a platform-less `nameid ID "value";`
// statement into the two records every font needs: the Windows
// (3, 1, 0x0409 en-US) record and the Macintosh (1, 0, 0 English)
// record, matching the convention AFDKO tools use when no explicit
// platform triple is given.
func defaultNameRecords(id uint16, value string) []NameRecord {
	return []NameRecord{
		{NameID: id, PlatformID: 3, EncodingID: 1, LanguageID: 0x0409, Value: value},
		{NameID: id, PlatformID: 1, EncodingID: 0, LanguageID: 0, Value: value},
	}
}

// BaseScriptRecord is one script's set of named baseline coordinates in
// a BASE table axis.
type BaseScriptRecord struct {
	Script          string
	DefaultBaseline string
	Coords          map[string]funit.Int16
}

// BaseInfo is the in-memory form of a feature file's `table BASE { ...
// } BASE;` block: the baseline tags used on each axis, and the
// per-script coordinate records naming them, one axis list each for
// horizontal and vertical text.
type BaseInfo struct {
	HorizAxisTags []string
	VertAxisTags  []string
	HorizScripts  []BaseScriptRecord // sorted by Script
	VertScripts   []BaseScriptRecord // sorted by Script
}

// StatAxis is one axis record of a STAT table.
type StatAxis struct {
	Tag      string
	Name     string
	Ordering uint16
}

// StatAxisValue is one axis-value record of a STAT table, in any of the
// four formats the table supports. Only the fields relevant to Format
// are meaningful.
type StatAxisValue struct {
	Format int

	AxisIndex int     // formats 1-3
	Value     float64 // formats 1, 3

	NominalValue float64 // format 2
	RangeMinValue float64 // format 2
	RangeMaxValue float64 // format 2

	LinkedValue float64 // format 3

	AxisValues map[int]float64 // format 4: axis index -> value

	Flags uint16
	Name  string
}

// StatInfo is the in-memory form of a feature file's `table STAT { ...
// } STAT;` block.
type StatInfo struct {
	Axes                 []StatAxis
	Values               []StatAxisValue
	ElidedFallbackNameID uint16
}

// compileTable dispatches a top-level table block to its typed
// resolver by keyword.
func (ctx *Context) compileTable(tb *ast.TableBlock) {
	switch tb.Tag {
	case "GDEF":
		ctx.compileGDEFTable(tb)
	case "BASE":
		ctx.compileBASETable(tb)
	case "OS/2":
		ctx.compileOS2Table(tb)
	case "STAT":
		ctx.compileSTATTable(tb)
	case "name":
		ctx.compileNameTable(tb)
	case "head":
		ctx.compileHeadTable(tb)
	case "hhea":
		ctx.compileHheaTable(tb)
	case "vhea":
		ctx.compileVheaTable(tb)
	case "vmtx":
		ctx.compileVmtxTable(tb)
	default:
		ctx.Diags.Warnf(tb.Pos, "unsupported table %q ignored", tb.Tag)
	}
}

func fieldInt(e ast.TableEntry, i int) (int, bool) {
	if i < 0 || i >= len(e.Fields) {
		return 0, false
	}
	v, ok := e.Fields[i].(int)
	return v, ok
}

func fieldFloat(e ast.TableEntry, i int) (float64, bool) {
	if i < 0 || i >= len(e.Fields) {
		return 0, false
	}
	switch v := e.Fields[i].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func fieldString(e ast.TableEntry, i int) (string, bool) {
	if i < 0 || i >= len(e.Fields) {
		return "", false
	}
	v, ok := e.Fields[i].(string)
	return v, ok
}

func (ctx *Context) compileHeadTable(tb *ast.TableBlock) {
	if ctx.head == nil {
		ctx.head = &HeadInfo{}
	}
	for _, e := range tb.Entries {
		switch e.Keyword {
		case "FontRevision":
			v, ok := fieldFloat(e, 0)
			if !ok {
				ctx.Diags.Errorf(e.Pos, "FontRevision expects a number")
				continue
			}
			ctx.head.FontRevision = v
		default:
			ctx.Diags.Warnf(e.Pos, "unsupported head table entry %q ignored", e.Keyword)
		}
	}
}

func (ctx *Context) compileHheaTable(tb *ast.TableBlock) {
	if ctx.hhea == nil {
		ctx.hhea = &HheaInfo{}
	}
	for _, e := range tb.Entries {
		v, ok := fieldInt(e, 0)
		if !ok {
			ctx.Diags.Errorf(e.Pos, "%s expects an integer", e.Keyword)
			continue
		}
		switch e.Keyword {
		case "Ascender":
			ctx.hhea.Ascender = funit.Int16(v)
		case "Descender":
			ctx.hhea.Descender = funit.Int16(v)
		case "LineGap":
			ctx.hhea.LineGap = funit.Int16(v)
		case "CaretOffset":
			ctx.hhea.CaretOffset = funit.Int16(v)
		default:
			ctx.Diags.Warnf(e.Pos, "unsupported hhea table entry %q ignored", e.Keyword)
		}
	}
}

func (ctx *Context) compileVheaTable(tb *ast.TableBlock) {
	if ctx.vhea == nil {
		ctx.vhea = &VheaInfo{}
	}
	for _, e := range tb.Entries {
		v, ok := fieldInt(e, 0)
		if !ok {
			ctx.Diags.Errorf(e.Pos, "%s expects an integer", e.Keyword)
			continue
		}
		switch e.Keyword {
		case "Ascender":
			ctx.vhea.Ascender = funit.Int16(v)
		case "Descender":
			ctx.vhea.Descender = funit.Int16(v)
		case "LineGap":
			ctx.vhea.LineGap = funit.Int16(v)
		case "CaretOffset":
			ctx.vhea.CaretOffset = funit.Int16(v)
		case "VertTypoAscender":
			ctx.vhea.VertTypoAscender = funit.Int16(v)
		case "VertTypoDescender":
			ctx.vhea.VertTypoDescender = funit.Int16(v)
		case "VertTypoLineGap":
			ctx.vhea.VertTypoLineGap = funit.Int16(v)
		default:
			ctx.Diags.Warnf(e.Pos, "unsupported vhea table entry %q ignored", e.Keyword)
		}
	}
}

func (ctx *Context) compileVmtxTable(tb *ast.TableBlock) {
	if ctx.vmtx == nil {
		ctx.vmtx = &VmtxInfo{Advance: make(map[glyph.ID]funit.Int16), Origin: make(map[glyph.ID]funit.Int16)}
	}
	for _, e := range tb.Entries {
		if len(e.Fields) < 2 {
			ctx.Diags.Errorf(e.Pos, "%s expects a glyph and a value", e.Keyword)
			continue
		}
		g, ok := e.Fields[0].(ast.GlyphSet)
		if !ok {
			ctx.Diags.Errorf(e.Pos, "%s expects a glyph name", e.Keyword)
			continue
		}
		gid, ok := ctx.resolveGlyph(g)
		if !ok {
			continue
		}
		v, ok := fieldInt(e, 1)
		if !ok {
			ctx.Diags.Errorf(e.Pos, "%s expects an integer value", e.Keyword)
			continue
		}
		switch e.Keyword {
		case "VertAdvanceY":
			ctx.vmtx.Advance[gid] = funit.Int16(v)
		case "VertOriginY":
			ctx.vmtx.Origin[gid] = funit.Int16(v)
		default:
			ctx.Diags.Warnf(e.Pos, "unsupported vmtx table entry %q ignored", e.Keyword)
		}
	}
}

func (ctx *Context) compileNameTable(tb *ast.TableBlock) {
	if ctx.nameT == nil {
		ctx.nameT = &NameTable{}
	}
	for _, e := range tb.Entries {
		if e.Keyword != "NameRecord" {
			ctx.Diags.Warnf(e.Pos, "unsupported name table entry %q ignored", e.Keyword)
			continue
		}
		switch len(e.Fields) {
		case 2:
			id, ok1 := fieldInt(e, 0)
			val, ok2 := fieldString(e, 1)
			if !ok1 || !ok2 {
				ctx.Diags.Errorf(e.Pos, "NameRecord expects (id, string)")
				continue
			}
			ctx.nameT.Records = append(ctx.nameT.Records, defaultNameRecords(uint16(id), val)...)
		case 5:
			id, ok1 := fieldInt(e, 0)
			plat, ok2 := fieldInt(e, 1)
			enc, ok3 := fieldInt(e, 2)
			lang, ok4 := fieldInt(e, 3)
			val, ok5 := fieldString(e, 4)
			if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
				ctx.Diags.Errorf(e.Pos, "NameRecord expects (id, platform, encoding, language, string)")
				continue
			}
			ctx.nameT.Records = append(ctx.nameT.Records, NameRecord{
				NameID: uint16(id), PlatformID: uint16(plat), EncodingID: uint16(enc),
				LanguageID: uint16(lang), Value: val,
			})
		default:
			ctx.Diags.Errorf(e.Pos, "NameRecord expects 2 or 5 fields, got %d", len(e.Fields))
		}
	}
}

func (ctx *Context) compileBASETable(tb *ast.TableBlock) {
	if ctx.base == nil {
		ctx.base = &BaseInfo{}
	}
	for _, e := range tb.Entries {
		switch e.Keyword {
		case "HorizAxis.BaseTagList":
			ctx.base.HorizAxisTags = stringFields(e)
		case "VertAxis.BaseTagList":
			ctx.base.VertAxisTags = stringFields(e)
		case "HorizAxis.BaseScriptList":
			ctx.base.HorizScripts = append(ctx.base.HorizScripts, parseBaseScriptRecord(e)...)
		case "VertAxis.BaseScriptList":
			ctx.base.VertScripts = append(ctx.base.VertScripts, parseBaseScriptRecord(e)...)
		default:
			ctx.Diags.Warnf(e.Pos, "unsupported BASE table entry %q ignored", e.Keyword)
		}
	}
	byScript := func(a, b BaseScriptRecord) int { return strings.Compare(a.Script, b.Script) }
	slices.SortFunc(ctx.base.HorizScripts, byScript)
	slices.SortFunc(ctx.base.VertScripts, byScript)
}

func stringFields(e ast.TableEntry) []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// parseBaseScriptRecord interprets one BaseScriptList entry, encoded as
// Fields = [script string, defaultBaseline string, coords map[string]int].
func parseBaseScriptRecord(e ast.TableEntry) []BaseScriptRecord {
	if len(e.Fields) < 3 {
		return nil
	}
	script, ok1 := e.Fields[0].(string)
	def, ok2 := e.Fields[1].(string)
	coordsRaw, ok3 := e.Fields[2].(map[string]int)
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	coords := make(map[string]funit.Int16, len(coordsRaw))
	for k, v := range coordsRaw {
		coords[k] = funit.Int16(v)
	}
	return []BaseScriptRecord{{Script: script, DefaultBaseline: def, Coords: coords}}
}

func (ctx *Context) compileOS2Table(tb *ast.TableBlock) {
	if ctx.os2 == nil {
		ctx.os2 = &OS2Block{}
	}
	o := ctx.os2
	for _, e := range tb.Entries {
		switch e.Keyword {
		case "FSType":
			v, _ := fieldInt(e, 0)
			o.PermUse = os2.Permissions(v)
		case "Panose":
			for i := 0; i < 10 && i < len(e.Fields); i++ {
				v, _ := fieldInt(e, i)
				o.Panose[i] = byte(v)
			}
		case "TypoAscender":
			v, _ := fieldInt(e, 0)
			o.Ascent = int16(v)
		case "TypoDescender":
			v, _ := fieldInt(e, 0)
			o.Descent = int16(v)
		case "WinAscent":
			v, _ := fieldInt(e, 0)
			o.WinAscent = int16(v)
		case "WinDescent":
			v, _ := fieldInt(e, 0)
			o.WinDescent = int16(v)
		case "XHeight":
			v, _ := fieldInt(e, 0)
			o.XHeight = int16(v)
		case "CapHeight":
			v, _ := fieldInt(e, 0)
			o.CapHeight = int16(v)
		case "WeightClass":
			v, _ := fieldInt(e, 0)
			o.WeightClass = os2.Weight(v)
		case "WidthClass":
			v, _ := fieldInt(e, 0)
			o.WidthClass = os2.Width(v)
		case "Vendor":
			s, _ := fieldString(e, 0)
			o.Vendor = s
		case "FamilyClass":
			v, _ := fieldInt(e, 0)
			o.FamilyClass = int16(v)
		case "UnicodeRange":
			for _, f := range e.Fields {
				if v, ok := f.(int); ok {
					o.UnicodeRange.Set(os2.UnicodeRangeBit(v))
				}
			}
		case "CodePageRange":
			for _, f := range e.Fields {
				if v, ok := f.(int); ok {
					o.CodePageRange.Set(os2.CodePage(v))
				}
			}
		default:
			ctx.Diags.Warnf(e.Pos, "unsupported OS/2 table entry %q ignored", e.Keyword)
		}
	}
}

func (ctx *Context) compileSTATTable(tb *ast.TableBlock) {
	if ctx.stat == nil {
		ctx.stat = &StatInfo{}
	}
	for _, e := range tb.Entries {
		switch e.Keyword {
		case "ElidedFallbackName":
			v, _ := fieldInt(e, 0)
			ctx.stat.ElidedFallbackNameID = uint16(v)
		case "DesignAxis":
			tag, _ := fieldString(e, 0)
			name, _ := fieldString(e, 1)
			ordering, _ := fieldInt(e, 2)
			ctx.stat.Axes = append(ctx.stat.Axes, StatAxis{Tag: tag, Name: name, Ordering: uint16(ordering)})
		case "AxisValue":
			av, ok := e.Fields[0].(StatAxisValue)
			if !ok {
				ctx.Diags.Errorf(e.Pos, "malformed AxisValue entry")
				continue
			}
			ctx.stat.Values = append(ctx.stat.Values, av)
		default:
			ctx.Diags.Warnf(e.Pos, "unsupported STAT table entry %q ignored", e.Keyword)
		}
	}
}

func (ctx *Context) compileGDEFTable(tb *ast.TableBlock) {
	if ctx.gdefExplicit == nil {
		ctx.gdefExplicit = &gdef.Table{
			AttachList:   make(map[glyph.ID][]uint16),
			LigCaretList: make(map[glyph.ID][]gdef.CaretValue),
		}
		ctx.gdefGlyphClass = make(classdefAlias)
	}
	for _, e := range tb.Entries {
		switch e.Keyword {
		case "GlyphClassDef":
			ctx.compileGDEFGlyphClassDef(e)
		case "Attach":
			ctx.compileGDEFAttach(e)
		case "LigatureCaretByPos", "LigatureCaretByIndex":
			ctx.compileGDEFLigCaret(e)
		default:
			ctx.Diags.Warnf(e.Pos, "unsupported GDEF table entry %q ignored", e.Keyword)
		}
	}
}

// compileGDEFGlyphClassDef interprets a `GlyphClassDef base, lig, mark,
// component;` entry: four glyph-set fields, any of which may be absent
// (represented as nil).
func (ctx *Context) compileGDEFGlyphClassDef(e ast.TableEntry) {
	classNames := []uint16{gdef.GlyphClassBase, gdef.GlyphClassLigature, gdef.GlyphClassMark, gdef.GlyphClassComponent}
	for i, class := range classNames {
		if i >= len(e.Fields) || e.Fields[i] == nil {
			continue
		}
		g, ok := e.Fields[i].(ast.GlyphSet)
		if !ok {
			continue
		}
		for _, gid := range ctx.resolveGlyphSet(g) {
			if prev, exists := ctx.gdefGlyphClass[gid]; exists && prev != class {
				ctx.Diags.Errorf(e.Pos, "glyph %q assigned to more than one GDEF glyph class", ctx.Glyphs.Name(gid))
				continue
			}
			ctx.gdefGlyphClass[gid] = class
		}
	}
}

func (ctx *Context) compileGDEFAttach(e ast.TableEntry) {
	if len(e.Fields) < 2 {
		return
	}
	g, ok := e.Fields[0].(ast.GlyphSet)
	if !ok {
		return
	}
	var points []uint16
	for _, f := range e.Fields[1:] {
		if v, ok := f.(int); ok {
			points = append(points, uint16(v))
		}
	}
	for _, gid := range ctx.resolveGlyphSet(g) {
		ctx.gdefExplicit.AttachList[gid] = append(ctx.gdefExplicit.AttachList[gid], points...)
	}
}

func (ctx *Context) compileGDEFLigCaret(e ast.TableEntry) {
	if len(e.Fields) < 2 {
		return
	}
	g, ok := e.Fields[0].(ast.GlyphSet)
	if !ok {
		return
	}
	format := 1
	if e.Keyword == "LigatureCaretByIndex" {
		format = 2
	}
	var carets []gdef.CaretValue
	for _, f := range e.Fields[1:] {
		if v, ok := f.(int); ok {
			if format == 2 {
				carets = append(carets, gdef.CaretValue{Format: 2, PointIndex: uint16(v)})
			} else {
				carets = append(carets, gdef.CaretValue{Format: 1, Coordinate: int16(v)})
			}
		}
	}
	for _, gid := range ctx.resolveGlyphSet(g) {
		ctx.gdefExplicit.LigCaretList[gid] = append(ctx.gdefExplicit.LigCaretList[gid], carets...)
	}
}

// classdefAlias lets compileGDEFTable build ctx.gdefGlyphClass without
// importing classdef twice under two names; classdef.Table is itself
// map[glyph.ID]uint16.
type classdefAlias = map[glyph.ID]uint16
