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
	"fmt"

	"seehuhn.de/go/sfnt/glyph"
)

// CFF describes a synthetic OpenType font with CFF outlines.
type CFF struct {
	CharStrings [][]byte
	GlobalSubrs [][]byte

	// Privates contains one entry for simple fonts, and one entry per
	// font DICT for CID-keyed fonts.
	Privates []Private

	// FDSelect gives the font DICT of every glyph.  If FDSelect is non-nil,
	// a CID-keyed font is generated.
	FDSelect []int

	// Names gives the glyph names of a simple font.  If Names is nil,
	// names of the form "g1", "g2", ... are used.
	Names []string

	CMap   map[rune]glyph.ID
	Widths []uint16
}

// Private describes a Private DICT together with its local subroutines.
type Private struct {
	Subrs         [][]byte
	DefaultWidthX int
	NominalWidthX int
}

// Build returns the binary font file.
func (f *CFF) Build() []byte {
	numGlyphs := len(f.CharStrings)
	widths := f.Widths
	if widths == nil {
		widths = make([]uint16, numGlyphs)
		for i := range widths {
			widths[i] = 500
		}
	}
	lsbs := make([]int16, numGlyphs)
	tables := map[string][]byte{
		"head": makeHead([4]int16{0, -200, 1000, 800}, 0),
		"hhea": makeHhea(widths, lsbs),
		"hmtx": makeHmtx(widths, lsbs),
		"maxp": makeMaxp(numGlyphs, false, 0),
		"cmap": makeCmap(f.CMap, nil),
		"name": makeName("Test"),
		"post": makePost(nil),
		"CFF ": f.Table(),
	}
	return assemble(0x4F54544F, tables)
}

// Table returns the contents of the "CFF " table.
func (f *CFF) Table() []byte {
	numGlyphs := len(f.CharStrings)
	isCID := f.FDSelect != nil

	var strings []string
	sid := func(s string) int {
		strings = append(strings, s)
		return 390 + len(strings)
	}

	topDict := &dictWriter{}
	if isCID {
		topDict.op([]int{sid("Adobe"), sid("Identity"), 0}, 12, 30) // ROS
	}
	charset := []byte{0}
	for gid := 1; gid < numGlyphs; gid++ {
		var val int
		if isCID {
			val = gid
		} else if f.Names != nil {
			val = sid(f.Names[gid])
		} else {
			val = sid(fmt.Sprintf("g%d", gid))
		}
		charset = binary.BigEndian.AppendUint16(charset, uint16(val))
	}

	privates := make([][]byte, len(f.Privates))
	subrs := make([][]byte, len(f.Privates))
	for i, p := range f.Privates {
		subrs[i] = EncodeIndex(p.Subrs)
		d := &dictWriter{}
		d.op([]int{p.DefaultWidthX}, 20)
		d.op([]int{p.NominalWidthX}, 21)
		if len(p.Subrs) > 0 {
			d.op([]int{0}, 19) // patched below
		}
		privates[i] = d.buf
		if len(p.Subrs) > 0 {
			binary.BigEndian.PutUint32(privates[i][len(privates[i])-5:], uint32(len(privates[i])))
		}
	}

	// The top DICT has a fixed size, since all operands use five bytes.
	// Compute the layout with placeholder offsets first.
	layout := func(charsetOffs, charStringsOffs, privateOffs, fdArrayOffs, fdSelectOffs int) []byte {
		d := &dictWriter{buf: append([]byte(nil), topDict.buf...)}
		if isCID {
			d.op([]int{numGlyphs}, 12, 34) // CIDCount
		}
		d.op([]int{charsetOffs}, 15)
		d.op([]int{charStringsOffs}, 17)
		if isCID {
			d.op([]int{fdArrayOffs}, 12, 36)
			d.op([]int{fdSelectOffs}, 12, 37)
		} else {
			d.op([]int{len(privates[0]), privateOffs}, 18)
		}
		return d.buf
	}

	head := []byte{1, 0, 4, 4}
	nameIndex := EncodeIndex([][]byte{[]byte("Test")})
	topSize := len(EncodeIndex([][]byte{layout(0, 0, 0, 0, 0)}))
	// the string INDEX is complete after the top DICT operands are known
	stringData := make([][]byte, len(strings))
	for i, s := range strings {
		stringData[i] = []byte(s)
	}
	stringIndex := EncodeIndex(stringData)
	gsubrIndex := EncodeIndex(f.GlobalSubrs)
	charStringIndex := EncodeIndex(f.CharStrings)

	pos := len(head) + len(nameIndex) + topSize + len(stringIndex) + len(gsubrIndex)
	charsetOffs := pos
	pos += len(charset)
	var fdSelect []byte
	fdSelectOffs := pos
	if isCID {
		fdSelect = []byte{0}
		for _, fd := range f.FDSelect {
			fdSelect = append(fdSelect, byte(fd))
		}
		pos += len(fdSelect)
	}
	charStringsOffs := pos
	pos += len(charStringIndex)

	var fdArray []byte
	fdArrayOffs := pos
	if isCID {
		// font DICTs have fixed size as well
		fontDictSize := len((&dictWriter{}).op([]int{0, 0}, 18).buf)
		fdArraySize := len(EncodeIndex(repeat(make([]byte, fontDictSize), len(privates))))
		pos += fdArraySize
		var fontDicts [][]byte
		for _, p := range privates {
			fontDicts = append(fontDicts, (&dictWriter{}).op([]int{len(p), pos}, 18).buf)
			pos += len(p) + len(subrs[len(fontDicts)-1])
		}
		fdArray = EncodeIndex(fontDicts)
	}
	privateOffs := pos

	out := append([]byte{}, head...)
	out = append(out, nameIndex...)
	out = append(out, EncodeIndex([][]byte{layout(charsetOffs, charStringsOffs, privateOffs, fdArrayOffs, fdSelectOffs)})...)
	out = append(out, stringIndex...)
	out = append(out, gsubrIndex...)
	out = append(out, charset...)
	out = append(out, fdSelect...)
	out = append(out, charStringIndex...)
	out = append(out, fdArray...)
	if !isCID {
		out = append(out, privates[0]...)
		out = append(out, subrs[0]...)
	} else {
		for i := range privates {
			out = append(out, privates[i]...)
			out = append(out, subrs[i]...)
		}
	}
	return out
}

func repeat(b []byte, n int) [][]byte {
	res := make([][]byte, n)
	for i := range res {
		res[i] = b
	}
	return res
}

// EncodeIndex encodes a CFF INDEX structure, using four-byte offsets.
func EncodeIndex(items [][]byte) []byte {
	res := binary.BigEndian.AppendUint16(nil, uint16(len(items)))
	if len(items) == 0 {
		return res
	}
	res = append(res, 4)
	offs := 1
	res = binary.BigEndian.AppendUint32(res, uint32(offs))
	for _, item := range items {
		offs += len(item)
		res = binary.BigEndian.AppendUint32(res, uint32(offs))
	}
	for _, item := range items {
		res = append(res, item...)
	}
	return res
}

type dictWriter struct {
	buf []byte
}

// op appends operands and an operator.  All operands are encoded using
// five bytes.
func (d *dictWriter) op(args []int, op ...byte) *dictWriter {
	for _, a := range args {
		d.buf = append(d.buf, 29)
		d.buf = binary.BigEndian.AppendUint32(d.buf, uint32(int32(a)))
	}
	d.buf = append(d.buf, op...)
	return d
}

var t2ops = map[string][]byte{
	"hstem":     {1},
	"vstem":     {3},
	"vmoveto":   {4},
	"rlineto":   {5},
	"hlineto":   {6},
	"vlineto":   {7},
	"rrcurveto": {8},
	"callsubr":  {10},
	"return":    {11},
	"endchar":   {14},
	"hstemhm":   {18},
	"hintmask":  {19},
	"cntrmask":  {20},
	"rmoveto":   {21},
	"hmoveto":   {22},
	"vstemhm":   {23},
	"callgsubr": {29},
	"add":       {12, 10},
	"sub":       {12, 11},
	"neg":       {12, 14},
	"drop":      {12, 18},
	"dup":       {12, 27},
	"exch":      {12, 28},
}

// T2 assembles a Type 2 charstring.  Arguments of type int are encoded as
// numbers, strings are operator names and []byte values are copied
// verbatim (for hint masks).
func T2(args ...any) []byte {
	var res []byte
	for _, a := range args {
		switch a := a.(type) {
		case int:
			res = AppendT2Int(res, a)
		case string:
			op, ok := t2ops[a]
			if !ok {
				panic("unknown operator " + a)
			}
			res = append(res, op...)
		case []byte:
			res = append(res, a...)
		default:
			panic(fmt.Sprintf("unexpected argument %v", a))
		}
	}
	return res
}

// AppendT2Int appends the shortest Type 2 encoding of an integer.
func AppendT2Int(buf []byte, x int) []byte {
	switch {
	case x >= -107 && x <= 107:
		return append(buf, byte(x+139))
	case x >= 108 && x <= 1131:
		x -= 108
		return append(buf, byte(x>>8+247), byte(x))
	case x >= -1131 && x <= -108:
		x = -x - 108
		return append(buf, byte(x>>8+251), byte(x))
	default:
		return append(buf, 28, byte(x>>8), byte(x))
	}
}
