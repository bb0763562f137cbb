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

// Package sfntsubset reduces OpenType fonts to the glyphs needed for a
// given set of characters or glyph IDs.
//
// The input is a complete sfnt font file, with either TrueType ("glyf")
// or CFF outlines.  The output is a new, structurally valid font file
// which contains only the requested glyphs, the glyphs these refer to,
// and glyph 0 (.notdef).  The retained glyphs are renumbered densely,
// in the order of their original glyph IDs:
//
//	data, err := os.ReadFile("font.ttf")
//	if err != nil {
//		log.Fatal(err)
//	}
//	subset, err := sfntsubset.Subset(data, &sfntsubset.Request{
//		Codepoints: []rune("Hello"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Per-glyph tables are rewritten, tables which do not depend on the glyphs
// are copied unchanged, and tables which cannot be rewritten are dropped.
// [Run] additionally returns a list of [Diagnostic] values which describe
// every such degradation.
//
// Errors can be classified using [font.IsMalformed], [font.IsUnsupported]
// and [font.IsReference].
package sfntsubset
