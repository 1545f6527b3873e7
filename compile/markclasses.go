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
	"reflect"

	"seehuhn.de/go/otfea/fea/ast"
	"seehuhn.de/go/otfea/glyph"
	"seehuhn.de/go/otfea/opentype/anchor"
)

// MarkClass is the accumulated state of a `markClass` definition: every
// glyph assigned to it, together with the anchor that glyph attaches
// with. A mark class is built incrementally — `markClass` statements
// for the same name may appear any number of times before the class is
// first referenced by a position rule.
type MarkClass struct {
	Name    string
	Order   int // not set by this package; GPOS mark-class ids come from each rule's own class list
	Members map[glyph.ID]anchor.Table
	glyphs  []glyph.ID // insertion order, for deterministic MarkArray construction
}

func (ctx *Context) defineMarkClassEntry(s *ast.MarkClassDef) {
	mc := ctx.markClasses[s.ClassName]
	if mc == nil {
		mc = &MarkClass{Name: s.ClassName, Members: make(map[glyph.ID]anchor.Table)}
		ctx.markClasses[s.ClassName] = mc
	}
	a := ctx.resolveAnchor(s.Anchor)
	for _, g := range ctx.resolveGlyphSet(s.Glyphs) {
		if prev, exists := mc.Members[g]; exists && !reflect.DeepEqual(prev, a) {
			ctx.Diags.Errorf(s.Pos, "glyph %q already in mark class %s with a different anchor",
				ctx.Glyphs.Name(g), s.ClassName)
			continue
		}
		if _, exists := mc.Members[g]; !exists {
			mc.glyphs = append(mc.glyphs, g)
		}
		mc.Members[g] = a
	}
}

// markClassIndex maps each mark class name to its position in names,
// the per-rule numbering a GPOS MarkArray uses for mark-class ids.
func (ctx *Context) markClassIndex(names []string) map[string]uint16 {
	idx := make(map[string]uint16, len(names))
	for i, name := range names {
		idx[name] = uint16(i)
	}
	return idx
}

// lookupMarkClass resolves a markClass reference, reporting an error at
// pos if the name was never defined.
func (ctx *Context) lookupMarkClass(pos ast.Pos, name string) *MarkClass {
	mc, ok := ctx.markClasses[name]
	if !ok {
		ctx.Diags.Errorf(pos, "undefined mark class @%s", name)
	}
	return mc
}
