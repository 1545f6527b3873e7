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

// Package compile turns a feature-file parse tree (package
// seehuhn.de/go/otfea/fea/ast) into the OpenType layout tables it
// describes: GSUB, GPOS, GDEF, and a handful of related tables (BASE,
// OS/2, STAT, name, head, hhea, vhea, vmtx).
package compile

import (
	"golang.org/x/exp/slices"

	"seehuhn.de/go/otfea/glyph"
)

// GlyphOrder maps between glyph names, CIDs, and glyph IDs. Loading one
// from a font's glyph list (cmap, post table, or CIDFont charset) is a
// front-end concern; compile only consumes the finished mapping.
type GlyphOrder struct {
	names  []string // indexed by glyph.ID
	byName map[string]glyph.ID
	byCID  map[int]glyph.ID
}

// NewGlyphOrder builds a [GlyphOrder] from a glyph-index-to-name table,
// such as the one produced by a font's MakeGlyphNames method. names[0]
// is conventionally ".notdef".
func NewGlyphOrder(names []string) *GlyphOrder {
	g := &GlyphOrder{
		names:  names,
		byName: make(map[string]glyph.ID, len(names)),
	}
	for gid, name := range names {
		if name == "" {
			continue
		}
		if _, ok := g.byName[name]; !ok {
			g.byName[name] = glyph.ID(gid)
		}
	}
	return g
}

// SetCID records that CID cid is realized by glyph gid, for CID-keyed
// fonts that use `\cid` references in the feature file.
func (g *GlyphOrder) SetCID(cid int, gid glyph.ID) {
	if g.byCID == nil {
		g.byCID = make(map[int]glyph.ID)
	}
	g.byCID[cid] = gid
}

// GlyphID looks up a glyph by name.
func (g *GlyphOrder) GlyphID(name string) (glyph.ID, bool) {
	gid, ok := g.byName[name]
	return gid, ok
}

// GlyphIDForCID looks up a glyph by CID.
func (g *GlyphOrder) GlyphIDForCID(cid int) (glyph.ID, bool) {
	gid, ok := g.byCID[cid]
	return gid, ok
}

// NumGlyphs returns the number of glyphs in the order.
func (g *GlyphOrder) NumGlyphs() int { return len(g.names) }

// Name returns the name of gid, or "" if gid is out of range or
// unnamed.
func (g *GlyphOrder) Name(gid glyph.ID) string {
	if int(gid) < 0 || int(gid) >= len(g.names) {
		return ""
	}
	return g.names[gid]
}

// namedGlyphClass is a glyph class bound to a name via `@NAME = [...]`.
// Source order is preserved for features (e.g. aalt accumulation, class
// expansion) that are order-sensitive; de-duplication happens only where
// the caller needs a set.
type namedGlyphClass struct {
	glyphs []glyph.ID
}

// dedupSorted returns the sorted, de-duplicated glyphs of a class.
func dedupSorted(glyphs []glyph.ID) []glyph.ID {
	out := append([]glyph.ID(nil), glyphs...)
	slices.Sort(out)
	n := 0
	for i, g := range out {
		if i == 0 || g != out[n-1] {
			out[n] = g
			n++
		}
	}
	return out[:n]
}
