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

package fonttest

import (
	"encoding/binary"

	"seehuhn.de/go/sfnt/glyph"
)

// Glyph describes a glyph of a synthetic TrueType font.
// Glyphs with components are encoded as composite glyphs, glyphs with
// a zero box and no components have no outline.
type Glyph struct {
	Width        uint16
	Box          [4]int16 // xMin, yMin, xMax, yMax
	Components   []glyph.ID
	Instructions []byte
}

// TrueType describes a synthetic TrueType font.
type TrueType struct {
	Glyphs []Glyph
	CMap   map[rune]glyph.ID

	// MacCMap, if non-nil, adds a (1,0) format 0 subtable.
	MacCMap map[byte]glyph.ID

	// Names, if non-nil, gives the glyph names stored in a version 2 post
	// table.
	Names []string

	// Extra contains additional tables to include in the font.
	Extra map[string][]byte
}

// Build returns the binary font file.
func (f *TrueType) Build() []byte {
	numGlyphs := len(f.Glyphs)
	widths := make([]uint16, numGlyphs)
	lsbs := make([]int16, numGlyphs)
	var glyf []byte
	loca := make([]byte, 0, 4*(numGlyphs+1))
	bbox := [4]int16{}
	first := true
	maxInstructions := 0
	for i, g := range f.Glyphs {
		loca = binary.BigEndian.AppendUint32(loca, uint32(len(glyf)))
		widths[i] = g.Width
		if g.Box == [4]int16{} && len(g.Components) == 0 {
			continue
		}
		lsbs[i] = g.Box[0]
		glyf = append(glyf, EncodeGlyph(g)...)
		maxInstructions = max(maxInstructions, len(g.Instructions))
		if first {
			bbox = g.Box
			first = false
		} else {
			bbox[0] = min(bbox[0], g.Box[0])
			bbox[1] = min(bbox[1], g.Box[1])
			bbox[2] = max(bbox[2], g.Box[2])
			bbox[3] = max(bbox[3], g.Box[3])
		}
	}
	loca = binary.BigEndian.AppendUint32(loca, uint32(len(glyf)))

	tables := map[string][]byte{
		"head": makeHead(bbox, 1),
		"hhea": makeHhea(widths, lsbs),
		"hmtx": makeHmtx(widths, lsbs),
		"maxp": makeMaxp(numGlyphs, true, maxInstructions),
		"cmap": makeCmap(f.CMap, f.MacCMap),
		"name": makeName("Test"),
		"post": makePost(f.Names),
		"loca": loca,
		"glyf": glyf,
	}
	for name, data := range f.Extra {
		tables[name] = data
	}
	return assemble(0x00010000, tables)
}

// EncodeGlyph returns the glyf table record of a glyph.
// Simple glyphs consist of a single triangle inside the glyph box.
// Component offsets are zero.
func EncodeGlyph(g Glyph) []byte {
	var rec []byte
	if len(g.Components) > 0 {
		rec = binary.BigEndian.AppendUint16(rec, 0xFFFF) // numberOfContours = -1
	} else {
		rec = binary.BigEndian.AppendUint16(rec, 1)
	}
	for _, v := range g.Box {
		rec = binary.BigEndian.AppendUint16(rec, uint16(v))
	}

	if len(g.Components) > 0 {
		for i, comp := range g.Components {
			flags := uint16(0x0001 | 0x0002) // ARG_1_AND_2_ARE_WORDS, ARGS_ARE_XY_VALUES
			if i < len(g.Components)-1 {
				flags |= 0x0020 // MORE_COMPONENTS
			} else if g.Instructions != nil {
				flags |= 0x0100 // WE_HAVE_INSTRUCTIONS
			}
			rec = binary.BigEndian.AppendUint16(rec, flags)
			rec = binary.BigEndian.AppendUint16(rec, uint16(comp))
			rec = append(rec, 0, 0, 0, 0)
		}
		if g.Instructions != nil {
			rec = binary.BigEndian.AppendUint16(rec, uint16(len(g.Instructions)))
			rec = append(rec, g.Instructions...)
		}
	} else {
		rec = binary.BigEndian.AppendUint16(rec, 2) // endPtsOfContours
		rec = binary.BigEndian.AppendUint16(rec, uint16(len(g.Instructions)))
		rec = append(rec, g.Instructions...)
		rec = append(rec, 1, 1, 1) // on-curve, long coordinates
		xMin, yMin, xMax, yMax := g.Box[0], g.Box[1], g.Box[2], g.Box[3]
		for _, dx := range []int16{xMin, xMax - xMin, 0} {
			rec = binary.BigEndian.AppendUint16(rec, uint16(dx))
		}
		for _, dy := range []int16{yMin, 0, yMax - yMin} {
			rec = binary.BigEndian.AppendUint16(rec, uint16(dy))
		}
	}
	if len(rec)%2 != 0 {
		rec = append(rec, 0)
	}
	return rec
}
