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

// Package head reads and patches the "head" table.
// https://docs.microsoft.com/en-us/typography/opentype/spec/head
package head

import (
	"encoding/binary"
	"fmt"
	"slices"
	"time"

	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/sfntsubset/font"
)

const (
	headLength  = 54
	magicNumber = 0x5F0F3CF5

	offCheckSum   = 8
	offBBox       = 36
	offLocaFormat = 50
)

// Info contains information from the "head" table.
type Info struct {
	FontRevision Version
	UnitsPerEm   uint16
	Created      time.Time
	Modified     time.Time
	FontBBox     funit.Rect16

	// LocaFormat is 0 for short "loca" offsets and 1 for long offsets.
	LocaFormat int16
}

// Read decodes the "head" table.
func Read(data []byte) (*Info, error) {
	if len(data) < headLength {
		return nil, &font.InvalidFontError{
			SubSystem: "sfnt/head",
			Reason:    "table too short",
		}
	}
	if major := binary.BigEndian.Uint16(data); major != 1 {
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt/head",
			Feature:   fmt.Sprintf("table version %d", major),
		}
	}
	if magic := binary.BigEndian.Uint32(data[12:]); magic != magicNumber {
		return nil, &font.InvalidFontError{
			SubSystem: "sfnt/head",
			Reason:    fmt.Sprintf("invalid magic number 0x%08x", magic),
		}
	}

	i16 := func(off int) funit.Int16 {
		return funit.Int16(binary.BigEndian.Uint16(data[off:]))
	}
	info := &Info{
		FontRevision: Version(binary.BigEndian.Uint32(data[4:])),
		UnitsPerEm:   binary.BigEndian.Uint16(data[18:]),
		Created:      decodeTime(int64(binary.BigEndian.Uint64(data[20:]))),
		Modified:     decodeTime(int64(binary.BigEndian.Uint64(data[28:]))),
		FontBBox: funit.Rect16{
			LLx: i16(offBBox),
			LLy: i16(offBBox + 2),
			URx: i16(offBBox + 4),
			URy: i16(offBBox + 6),
		},
		LocaFormat: int16(binary.BigEndian.Uint16(data[offLocaFormat:])),
	}
	return info, nil
}

// Patch returns a copy of the "head" table data with the given loca format.
// If bbox is non-nil, the font bounding box is replaced as well.
// The checkSumAdjustment field is cleared, and the modification time is
// left unchanged.
func Patch(data []byte, bbox *funit.Rect16, locaFormat int16) []byte {
	res := slices.Clone(data)
	binary.BigEndian.PutUint32(res[offCheckSum:], 0)
	if bbox != nil {
		binary.BigEndian.PutUint16(res[offBBox:], uint16(bbox.LLx))
		binary.BigEndian.PutUint16(res[offBBox+2:], uint16(bbox.LLy))
		binary.BigEndian.PutUint16(res[offBBox+4:], uint16(bbox.URx))
		binary.BigEndian.PutUint16(res[offBBox+6:], uint16(bbox.URy))
	}
	binary.BigEndian.PutUint16(res[offLocaFormat:], uint16(locaFormat))
	return res
}

// Version represents the font revision in 16.16 fixed point format.
type Version uint32

func (v Version) String() string {
	return fmt.Sprintf("%.03f", float32(v)/65536)
}
