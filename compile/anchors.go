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
	"seehuhn.de/go/otfea/opentype/anchor"
	"seehuhn.de/go/otfea/opentype/device"
)

// resolveAnchor turns an anchor literal into its binary-table
// representation, following whichever of the three anchor formats the
// literal's fields populate.
func (ctx *Context) resolveAnchor(a ast.Anchor) anchor.Table {
	if a.Format == 0 {
		return anchor.Table{}
	}
	t := anchor.Table{
		X: int16(a.X),
		Y: int16(a.Y),
	}
	switch {
	case len(a.XDevice) > 0 || len(a.YDevice) > 0:
		t.Format = 3
		t.XDevice = resolveDevice(a.XDevice)
		t.YDevice = resolveDevice(a.YDevice)
	case a.Format == 2:
		t.Format = 2
		t.ContourPoint = uint16(a.ContourPoint)
	default:
		t.Format = 1
	}
	return t
}

// resolveDevice turns a device-table literal's (ppem, delta) entries
// into a dense [device.Table] covering the range the entries span.
func resolveDevice(entries []ast.DeviceEntry) device.Table {
	if len(entries) == 0 {
		return device.Table{}
	}
	lo, hi := entries[0].PPEM, entries[0].PPEM
	for _, e := range entries[1:] {
		if e.PPEM < lo {
			lo = e.PPEM
		}
		if e.PPEM > hi {
			hi = e.PPEM
		}
	}
	vals := make([]int8, hi-lo+1)
	for _, e := range entries {
		vals[e.PPEM-lo] = int8(e.Delta)
	}
	return device.Table{
		StartSize: uint16(lo),
		EndSize:   uint16(hi),
		Values:    vals,
	}
}

func (ctx *Context) defineAnchor(s *ast.AnchorDef) {
	if _, exists := ctx.anchors[s.Name]; exists {
		ctx.Diags.Errorf(s.Pos, "anchor %s redefined", s.Name)
		return
	}
	ctx.anchors[s.Name] = ctx.resolveAnchor(s.Anchor)
}

// anchorByName resolves a named anchor reference. The compile package
// never sees bare `<anchor NAME>` references directly — a front end
// that supports them is expected to have already substituted in the
// definition's fields — so anchorByName only returns the table stored
// by an `anchorDef` statement. No rule in this package calls it.
func (ctx *Context) anchorByName(name string) (anchor.Table, bool) {
	t, ok := ctx.anchors[name]
	return t, ok
}
