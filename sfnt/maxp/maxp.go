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

// Package maxp reads and writes "maxp" tables.
// https://docs.microsoft.com/en-us/typography/opentype/spec/maxp
package maxp

import (
	"encoding/binary"
	"fmt"

	"seehuhn.de/go/sfntsubset/font"
)

// Info contains information from the "maxp" table.
type Info struct {
	// NumGlyphs is number of glyphs in the font, in the range 1, ..., 65535.
	NumGlyphs int

	// TTF contains the additional fields of version 1.0 tables.
	// This is nil for version 0.5 tables, as used by CFF-based fonts.
	TTF *TTFInfo
}

// TTFInfo contains TrueType-specific information from the "maxp" table.
type TTFInfo struct {
	MaxPoints             uint16
	MaxContours           uint16
	MaxCompositePoints    uint16
	MaxCompositeContours  uint16
	MaxZones              uint16
	MaxTwilightPoints     uint16
	MaxStorage            uint16
	MaxFunctionDefs       uint16
	MaxInstructionDefs    uint16
	MaxStackElements      uint16
	MaxSizeOfInstructions uint16
	MaxComponentElements  uint16
	MaxComponentDepth     uint16
}

const (
	version05 = 0x00005000
	version10 = 0x00010000
)

// Decode reads the "maxp" table.
func Decode(data []byte) (*Info, error) {
	if len(data) < 6 {
		return nil, invalid("table too short")
	}
	version := binary.BigEndian.Uint32(data)
	if version != version05 && version != version10 {
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt/maxp",
			Feature:   fmt.Sprintf("table version 0x%08x", version),
		}
	}

	numGlyphs := int(binary.BigEndian.Uint16(data[4:]))
	if numGlyphs == 0 {
		return nil, invalid("numGlyphs is zero")
	}
	info := &Info{
		NumGlyphs: numGlyphs,
	}
	if version == version05 {
		return info, nil
	}

	if len(data) < 32 {
		return nil, invalid("table too short")
	}
	var v [13]uint16
	for i := range v {
		v[i] = binary.BigEndian.Uint16(data[6+2*i:])
	}
	info.TTF = &TTFInfo{
		MaxPoints:             v[0],
		MaxContours:           v[1],
		MaxCompositePoints:    v[2],
		MaxCompositeContours:  v[3],
		MaxZones:              v[4],
		MaxTwilightPoints:     v[5],
		MaxStorage:            v[6],
		MaxFunctionDefs:       v[7],
		MaxInstructionDefs:    v[8],
		MaxStackElements:      v[9],
		MaxSizeOfInstructions: v[10],
		MaxComponentElements:  v[11],
		MaxComponentDepth:     v[12],
	}
	return info, nil
}

// Subset returns a copy of info for a font with numGlyphs glyphs.
// If stripHinting is set, the maximum instruction size is set to zero.
// The remaining maxima are upper bounds and stay valid for a subset.
func (info *Info) Subset(numGlyphs int, stripHinting bool) *Info {
	res := &Info{NumGlyphs: numGlyphs}
	if info.TTF != nil {
		ttf := *info.TTF
		if stripHinting {
			ttf.MaxSizeOfInstructions = 0
		}
		res.TTF = &ttf
	}
	return res
}

// Encode encodes the "maxp" table.
func (info *Info) Encode() ([]byte, error) {
	numGlyphs := info.NumGlyphs
	if numGlyphs < 1 || numGlyphs >= 1<<16 {
		return nil, &font.InvalidFontError{
			SubSystem: "sfnt/maxp",
			Reason:    fmt.Sprintf("numGlyphs %d out of range", numGlyphs),
		}
	}
	if info.TTF == nil {
		buf := []byte{
			0x00, 0x00, 0x50, 0x00, byte(numGlyphs >> 8), byte(numGlyphs),
		}
		return buf, nil
	}

	ttf := info.TTF
	buf := make([]byte, 0, 32)
	buf = binary.BigEndian.AppendUint32(buf, version10)
	for _, v := range []uint16{
		uint16(numGlyphs),
		ttf.MaxPoints,
		ttf.MaxContours,
		ttf.MaxCompositePoints,
		ttf.MaxCompositeContours,
		ttf.MaxZones,
		ttf.MaxTwilightPoints,
		ttf.MaxStorage,
		ttf.MaxFunctionDefs,
		ttf.MaxInstructionDefs,
		ttf.MaxStackElements,
		ttf.MaxSizeOfInstructions,
		ttf.MaxComponentElements,
		ttf.MaxComponentDepth,
	} {
		buf = binary.BigEndian.AppendUint16(buf, v)
	}
	return buf, nil
}

func invalid(reason string) error {
	return &font.InvalidFontError{
		SubSystem: "sfnt/maxp",
		Reason:    reason,
	}
}
