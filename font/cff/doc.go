// seehuhn.de/go/sfntsubset - a library for subsetting OpenType fonts
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
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

// Package cff subsets the "CFF " table of OpenType fonts.
//
// The package reads the Compact Font Format structures needed for
// subsetting, both for simple fonts and for CID-keyed fonts.  Charstrings
// are not decoded into outlines.  Instead, a Type 2 interpreter follows the
// subroutine calls of each retained glyph, and the charstrings are copied
// with only the subroutine numbers re-encoded.
//
// The CFF format is described in Adobe's Technical Note #5176, the
// charstring format in Technical Note #5177.
package cff
