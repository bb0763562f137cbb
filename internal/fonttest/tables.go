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

// Package fonttest constructs small synthetic fonts for use in unit tests.
package fonttest

import (
	"bytes"
	"encoding/binary"
	"slices"
	"unicode/utf16"

	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/sfntsubset/sfnt/header"
)

// UnitsPerEm is the design size of all generated fonts.
const UnitsPerEm = 1000

func assemble(scalerType uint32, tables map[string][]byte) []byte {
	buf := &bytes.Buffer{}
	_, err := header.Write(buf, scalerType, tables)
	if err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func makeHead(bbox [4]int16, locaFormat int16) []byte {
	head := make([]byte, 54)
	binary.BigEndian.PutUint32(head[0:], 0x00010000)
	binary.BigEndian.PutUint32(head[4:], 0x00010000)
	binary.BigEndian.PutUint32(head[12:], 0x5F0F3CF5)
	binary.BigEndian.PutUint16(head[16:], 0x000B)
	binary.BigEndian.PutUint16(head[18:], UnitsPerEm)
	binary.BigEndian.PutUint64(head[20:], 3600000000) // created
	binary.BigEndian.PutUint64(head[28:], 3700000000) // modified
	for i, v := range bbox {
		binary.BigEndian.PutUint16(head[36+2*i:], uint16(v))
	}
	binary.BigEndian.PutUint16(head[46:], 8) // lowestRecPPEM
	binary.BigEndian.PutUint16(head[48:], 2) // fontDirectionHint
	binary.BigEndian.PutUint16(head[50:], uint16(locaFormat))
	return head
}

func makeHhea(widths []uint16, lsbs []int16) []byte {
	hhea := make([]byte, 36)
	binary.BigEndian.PutUint32(hhea[0:], 0x00010000)
	binary.BigEndian.PutUint16(hhea[4:], 800)
	descender := int16(-200)
	binary.BigEndian.PutUint16(hhea[6:], uint16(descender))
	binary.BigEndian.PutUint16(hhea[10:], slices.Max(widths))
	binary.BigEndian.PutUint16(hhea[12:], uint16(slices.Min(lsbs)))
	binary.BigEndian.PutUint16(hhea[18:], 1) // caretSlopeRise
	binary.BigEndian.PutUint16(hhea[34:], uint16(len(widths)))
	return hhea
}

func makeHmtx(widths []uint16, lsbs []int16) []byte {
	hmtx := make([]byte, 4*len(widths))
	for i := range widths {
		binary.BigEndian.PutUint16(hmtx[4*i:], widths[i])
		binary.BigEndian.PutUint16(hmtx[4*i+2:], uint16(lsbs[i]))
	}
	return hmtx
}

// makeMaxp returns a version 0.5 table if ttf is false, otherwise a version
// 1.0 table.
func makeMaxp(numGlyphs int, ttf bool, maxInstructions int) []byte {
	if !ttf {
		maxp := make([]byte, 6)
		binary.BigEndian.PutUint32(maxp[0:], 0x00005000)
		binary.BigEndian.PutUint16(maxp[4:], uint16(numGlyphs))
		return maxp
	}
	maxp := make([]byte, 32)
	binary.BigEndian.PutUint32(maxp[0:], 0x00010000)
	binary.BigEndian.PutUint16(maxp[4:], uint16(numGlyphs))
	binary.BigEndian.PutUint16(maxp[6:], 64) // maxPoints
	binary.BigEndian.PutUint16(maxp[8:], 8)  // maxContours
	binary.BigEndian.PutUint16(maxp[14:], 2) // maxZones
	binary.BigEndian.PutUint16(maxp[26:], uint16(maxInstructions))
	binary.BigEndian.PutUint16(maxp[28:], 4) // maxComponentElements
	binary.BigEndian.PutUint16(maxp[30:], 1) // maxComponentDepth
	return maxp
}

func makeName(family string) []byte {
	str := utf16.Encode([]rune(family))
	name := make([]byte, 18+2*len(str))
	binary.BigEndian.PutUint16(name[2:], 1)  // count
	binary.BigEndian.PutUint16(name[4:], 18) // storage offset
	binary.BigEndian.PutUint16(name[6:], 3)
	binary.BigEndian.PutUint16(name[8:], 1)
	binary.BigEndian.PutUint16(name[10:], 0x0409)
	binary.BigEndian.PutUint16(name[12:], 1)
	binary.BigEndian.PutUint16(name[14:], uint16(2*len(str)))
	for i, c := range str {
		binary.BigEndian.PutUint16(name[18+2*i:], c)
	}
	return name
}

// makePost returns a version 3 table if names is nil, and a version 2 table
// otherwise.  All names are stored as custom names.
func makePost(names []string) []byte {
	post := make([]byte, 32)
	underlinePosition := int16(-100)
	binary.BigEndian.PutUint16(post[8:], uint16(underlinePosition))
	binary.BigEndian.PutUint16(post[10:], 50)
	if names == nil {
		binary.BigEndian.PutUint32(post[0:], 0x00030000)
		return post
	}
	binary.BigEndian.PutUint32(post[0:], 0x00020000)
	post = binary.BigEndian.AppendUint16(post, uint16(len(names)))
	for i := range names {
		post = binary.BigEndian.AppendUint16(post, uint16(258+i))
	}
	for _, name := range names {
		post = append(post, byte(len(name)))
		post = append(post, name...)
	}
	return post
}

// makeCmap returns a cmap table with a (3,1) format 4 subtable, a (3,10)
// format 12 subtable if any code point is outside the BMP, and a (1,0)
// format 0 subtable if mac is non-nil.
func makeCmap(m map[rune]glyph.ID, mac map[byte]glyph.ID) []byte {
	var bmp, all []rune
	for r := range m {
		all = append(all, r)
		if r <= 0xFFFF {
			bmp = append(bmp, r)
		}
	}
	slices.Sort(bmp)
	slices.Sort(all)

	type record struct {
		platform, encoding uint16
		data               []byte
	}
	var records []record
	if mac != nil {
		sub := make([]byte, 6+256)
		binary.BigEndian.PutUint16(sub[2:], uint16(len(sub)))
		for code, gid := range mac {
			sub[6+int(code)] = byte(gid)
		}
		records = append(records, record{1, 0, sub})
	}

	// one segment per code point, plus the final 0xFFFF segment
	segCount := len(bmp) + 1
	sub := make([]byte, 16+8*segCount)
	binary.BigEndian.PutUint16(sub[0:], 4)
	binary.BigEndian.PutUint16(sub[2:], uint16(len(sub)))
	binary.BigEndian.PutUint16(sub[6:], uint16(2*segCount))
	sel := 0
	for 2<<sel <= segCount {
		sel++
	}
	binary.BigEndian.PutUint16(sub[8:], uint16(2<<sel))
	binary.BigEndian.PutUint16(sub[10:], uint16(sel))
	binary.BigEndian.PutUint16(sub[12:], uint16(2*segCount-2<<sel))
	endCode := sub[14:]
	startCode := sub[16+2*segCount:]
	idDelta := sub[16+4*segCount:]
	for i, r := range bmp {
		binary.BigEndian.PutUint16(endCode[2*i:], uint16(r))
		binary.BigEndian.PutUint16(startCode[2*i:], uint16(r))
		binary.BigEndian.PutUint16(idDelta[2*i:], uint16(m[r])-uint16(r))
	}
	last := segCount - 1
	binary.BigEndian.PutUint16(endCode[2*last:], 0xFFFF)
	binary.BigEndian.PutUint16(startCode[2*last:], 0xFFFF)
	binary.BigEndian.PutUint16(idDelta[2*last:], 1)
	records = append(records, record{3, 1, sub})

	if len(all) > len(bmp) {
		sub := make([]byte, 16+12*len(all))
		binary.BigEndian.PutUint16(sub[0:], 12)
		binary.BigEndian.PutUint32(sub[4:], uint32(len(sub)))
		binary.BigEndian.PutUint32(sub[12:], uint32(len(all)))
		for i, r := range all {
			binary.BigEndian.PutUint32(sub[16+12*i:], uint32(r))
			binary.BigEndian.PutUint32(sub[20+12*i:], uint32(r))
			binary.BigEndian.PutUint32(sub[24+12*i:], uint32(m[r]))
		}
		records = append(records, record{3, 10, sub})
	}

	cmap := make([]byte, 4+8*len(records))
	binary.BigEndian.PutUint16(cmap[2:], uint16(len(records)))
	for i, rec := range records {
		binary.BigEndian.PutUint16(cmap[4+8*i:], rec.platform)
		binary.BigEndian.PutUint16(cmap[6+8*i:], rec.encoding)
		binary.BigEndian.PutUint32(cmap[8+8*i:], uint32(len(cmap)))
		cmap = append(cmap, rec.data...)
	}
	return cmap
}
