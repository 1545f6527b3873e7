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

// verticalFeatures lists the feature tags whose rules measure advances
// along the vertical axis by default, matching the dominant-axis rule
// applied when an all-zero value record must still record a non-null
// adjustment in a pair positioning rule.
var verticalFeatures = map[string]bool{
	"vkrn": true,
	"vpal": true,
	"vhal": true,
	"valt": true,
}

// buildValueRecord converts a value-record literal into its runtime
// form. The explicit `<NULL>` literal and a literal with every field
// unset both produce a record that [gtab.ValueRecord.IsEmpty] reports
// true for; buildValueRecord does not itself distinguish them; callers
// that must (pair positioning) consult vr.Null on the source literal
// before calling this.
func (ctx *Context) buildValueRecord(vr *ast.ValueRecord) *gtab.ValueRecord {
	if vr == nil || vr.Null {
		return &gtab.ValueRecord{}
	}
	out := &gtab.ValueRecord{
		XPlaDevice: resolveDevice(vr.XPlaDevice),
		YPlaDevice: resolveDevice(vr.YPlaDevice),
		XAdvDevice: resolveDevice(vr.XAdvDevice),
		YAdvDevice: resolveDevice(vr.YAdvDevice),
	}
	if vr.XPlacement != nil {
		out.XPlacement = gtab.Int16(int16(*vr.XPlacement))
	}
	if vr.YPlacement != nil {
		out.YPlacement = gtab.Int16(int16(*vr.YPlacement))
	}
	if vr.XAdvance != nil {
		out.XAdvance = gtab.Int16(int16(*vr.XAdvance))
	}
	if vr.YAdvance != nil {
		out.YAdvance = gtab.Int16(int16(*vr.YAdvance))
	}
	return out
}

// buildPairValueRecord is [buildValueRecord] followed by the zero-value
// normalization pair positioning rules require: an all-zero, non-null
// record must still record a single zero advance on the feature's
// dominant axis, so that it is not mistaken for "no adjustment at this
// position" when only one side of a pair carries a value.
func (ctx *Context) buildPairValueRecord(vr *ast.ValueRecord, featureTag string) *gtab.ValueRecord {
	built := ctx.buildValueRecord(vr)
	return built.ForPairPos(verticalFeatures[featureTag])
}
