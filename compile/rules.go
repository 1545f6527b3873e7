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

// compileBodyStatement dispatches one statement found inside a feature
// block or a (possibly nested) named lookup block.
func (ctx *Context) compileBodyStatement(st ast.Statement) {
	switch s := st.(type) {
	case *ast.FlagStatement:
		ctx.curFlags = ctx.resolveFlagStatement(s)
	case *ast.SubtableBreak:
		if ctx.lastBuilder != nil {
			ctx.lastBuilder.subtableBreak()
		}
	case *ast.ScriptStatement:
		ctx.setScript(s)
	case *ast.LanguageStatement:
		ctx.setLanguage(s)
	case *ast.LookupRef:
		ctx.referenceLookup(s)
	case *ast.LookupBlock:
		ctx.compileNamedLookup(s)
	case *ast.GlyphClassDef:
		ctx.defineGlyphClass(s)
	case *ast.MarkClassDef:
		ctx.defineMarkClassEntry(s)
	case *ast.AnchorDef:
		ctx.defineAnchor(s)
	case *ast.SubstGsub:
		ctx.compileSubstGsub(s)
	case *ast.PosGpos:
		ctx.compilePosGpos(s)
	case *ast.FeatureRef:
		ctx.Diags.Errorf(s.Position(), "feature reference %q is only valid inside the aalt feature", s.Tag)
	case *ast.FeatureBlock:
		ctx.Diags.Errorf(s.Position(), "feature %q cannot be nested inside another feature", s.Tag)
	case *ast.SizeParameters:
		ctx.compileSizeParameters(s)
	case *ast.SizeMenuName:
		ctx.compileSizeMenuName(s)
	case *ast.FeatureNameBlock:
		ctx.compileFeatureNameBlock(s)
	case *ast.CVParameterBlock:
		ctx.compileCVParameterBlock(s)
	case *ast.AnonymousBlock:
		// out of scope: carried verbatim by a downstream serializer
	default:
		ctx.Diags.Errorf(st.Position(), "unexpected statement %T", st)
	}
}
