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

// compileNamedLookup assembles a `lookup NAME { ... } NAME;` block.
// At the top level the finished lookup is only registered by name, for
// later `lookup NAME;` references; nested inside a feature block, it is
// additionally attached to the scope the enclosing feature is currently
// assembling, exactly as if its body had appeared inline.
func (ctx *Context) compileNamedLookup(lb *ast.LookupBlock) {
	if ctx.curNamedLookup != "" {
		ctx.Diags.Errorf(lb.Pos, "lookup %q: named lookup blocks cannot be nested", lb.Name)
		return
	}
	ctx.closeLookup(ctx.gsub)
	ctx.closeLookup(ctx.gpos)

	prevName := ctx.curNamedLookup
	prevFlags := ctx.curFlags
	ctx.curNamedLookup = lb.Name
	ctx.curFlags = activeFlags{}

	for _, st := range lb.Body {
		ctx.compileBodyStatement(st)
	}

	ctx.closeLookup(ctx.gsub)
	ctx.closeLookup(ctx.gpos)

	ctx.curNamedLookup = prevName
	ctx.curFlags = prevFlags
}
