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

package gtab

import "seehuhn.de/go/otfea/opentype/device"

// ValueRecord represents a GPOS value record: a positioning adjustment
// applied to a single glyph. Each of the four numeric fields is a
// pointer so that "absent" (nil, elided from the eventual binary
// encoding) can be told apart from "present with value zero" — the
// distinction the pair-positioning zero convention depends on.
//
// A nil *ValueRecord is the "no adjustment" (null) value, distinct from
// a non-nil record every one of whose present fields is zero; see
// [ValueRecord.ForPairPos].
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#value-record
type ValueRecord struct {
	XPlacement *int16
	YPlacement *int16
	XAdvance   *int16
	YAdvance   *int16

	XPlaDevice device.Table
	YPlaDevice device.Table
	XAdvDevice device.Table
	YAdvDevice device.Table
}

// Int16 returns a pointer to v, for building ValueRecord fields from
// literal values.
func Int16(v int16) *int16 { return &v }

func isZeroOrNil(p *int16) bool { return p == nil || *p == 0 }

func hasDevice(vr *ValueRecord) bool {
	return !vr.XPlaDevice.IsEmpty() || !vr.YPlaDevice.IsEmpty() ||
		!vr.XAdvDevice.IsEmpty() || !vr.YAdvDevice.IsEmpty()
}

// IsEmpty reports whether the record carries no present fields at all,
// i.e. is equivalent to the null value record.
func (vr *ValueRecord) IsEmpty() bool {
	if vr == nil {
		return true
	}
	return vr.XPlacement == nil && vr.YPlacement == nil &&
		vr.XAdvance == nil && vr.YAdvance == nil && !hasDevice(vr)
}

// ClearZeros returns a copy of vr with every present-but-zero numeric
// field changed to absent. Device tables are left untouched. A nil
// receiver stays nil.
//
// Idempotent: ClearZeros(ClearZeros(vr)) is equal to ClearZeros(vr).
func (vr *ValueRecord) ClearZeros() *ValueRecord {
	if vr == nil {
		return nil
	}
	clone := *vr
	if isZeroOrNil(clone.XPlacement) {
		clone.XPlacement = nil
	}
	if isZeroOrNil(clone.YPlacement) {
		clone.YPlacement = nil
	}
	if isZeroOrNil(clone.XAdvance) {
		clone.XAdvance = nil
	}
	if isZeroOrNil(clone.YAdvance) {
		clone.YAdvance = nil
	}
	return &clone
}

// IsAllZeros reports whether vr is non-null, carries no device table,
// and every present numeric field reads as zero. This is true for a
// record with no fields at all set is excluded on purpose: such a
// record is already indistinguishable from "no adjustment" and does not
// need the pair-positioning zero-advance rewrite.
func (vr *ValueRecord) IsAllZeros() bool {
	if vr.IsEmpty() {
		return false
	}
	if hasDevice(vr) {
		return false
	}
	return isZeroOrNil(vr.XPlacement) && isZeroOrNil(vr.YPlacement) &&
		isZeroOrNil(vr.XAdvance) && isZeroOrNil(vr.YAdvance)
}

// ForPairPos applies the pair-positioning zero convention: a value
// record that is all-zero but not null is not discarded outright (which
// would make the rule indistinguishable from "no adjustment"), but
// instead rewritten to carry a single explicit zero advance on the
// dominant axis for the current feature context. vertical selects the y
// axis, for the vkrn/vpal/vhal/valt feature group; every other feature
// uses the x axis.
func (vr *ValueRecord) ForPairPos(vertical bool) *ValueRecord {
	if !vr.IsAllZeros() {
		return vr.ClearZeros()
	}
	out := vr.ClearZeros()
	zero := int16(0)
	if vertical {
		out.YAdvance = &zero
	} else {
		out.XAdvance = &zero
	}
	return out
}
