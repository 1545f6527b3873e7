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

package os2

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUnicodeRangeSet(t *testing.T) {
	var ur UnicodeRange
	ur.Set(URGreek)
	ur.Set(URCyrillic)

	var want UnicodeRange
	want[0] = 1<<URGreek | 1<<URCyrillic
	if diff := cmp.Diff(want, ur); diff != "" {
		t.Errorf("unexpected range (-want +got):\n%s", diff)
	}
}

func TestUnicodeRangeBool(t *testing.T) {
	var ur UnicodeRange
	ur.Bool(URArabic, true)
	if ur[0]&(1<<URArabic) == 0 {
		t.Fatal("bit not set")
	}
	ur.Bool(URArabic, false)
	if ur[0]&(1<<URArabic) != 0 {
		t.Fatal("bit not cleared")
	}
}

func TestCodePageRangeSet(t *testing.T) {
	var cpr CodePageRange
	cpr.Set(CP1252)
	cpr.Set(CPMacintosh)
	want := CodePageRange(1<<CP1252 | 1<<CPMacintosh)
	if cpr != want {
		t.Errorf("got %x, want %x", cpr, want)
	}
}

func TestPermissionsString(t *testing.T) {
	cases := []struct {
		perm Permissions
		want string
	}{
		{PermInstall, "can install"},
		{PermEdit, "can edit"},
		{PermView, "can view"},
		{PermRestricted, "restricted"},
	}
	for _, c := range cases {
		if got := c.perm.String(); got != c.want {
			t.Errorf("Permissions(%d).String() = %q, want %q", c.perm, got, c.want)
		}
	}
}
