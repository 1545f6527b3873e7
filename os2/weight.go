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

// Weight represents the "usWeightClass" field of the "OS/2" table.
// https://learn.microsoft.com/en-us/typography/opentype/spec/os2#usweightclass
type Weight uint16

// The weight classes defined by the OpenType specification.
const (
	WeightThin       Weight = 100
	WeightExtraLight Weight = 200
	WeightLight      Weight = 300
	WeightNormal     Weight = 400
	WeightMedium     Weight = 500
	WeightSemiBold   Weight = 600
	WeightBold       Weight = 700
	WeightExtraBold  Weight = 800
	WeightBlack      Weight = 900
)

// Width represents the "usWidthClass" field of the "OS/2" table.
// https://learn.microsoft.com/en-us/typography/opentype/spec/os2#uswidthclass
type Width uint16

// The width classes defined by the OpenType specification.
const (
	WidthUltraCondensed Width = 1
	WidthExtraCondensed Width = 2
	WidthCondensed      Width = 3
	WidthSemiCondensed  Width = 4
	WidthNormal         Width = 5
	WidthSemiExpanded   Width = 6
	WidthExpanded       Width = 7
	WidthExtraExpanded  Width = 8
	WidthUltraExpanded  Width = 9
)
