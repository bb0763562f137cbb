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

// Package hdmx rewrites the per-glyph hinting tables "hdmx" and "LTSH".
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/hdmx
// https://docs.microsoft.com/en-us/typography/opentype/spec/ltsh
package hdmx

import (
	"encoding/binary"
	"fmt"

	"seehuhn.de/go/sfntsubset/font"
	"seehuhn.de/go/sfntsubset/sfnt/remap"
)

// Subset rewrites a "hdmx" table for a font with numGlyphs glyphs,
// keeping the device widths of the glyphs retained by m.
// The maximum width of each device record is recomputed.
func Subset(data []byte, numGlyphs int, m *remap.Table) ([]byte, error) {
	if len(data) < 8 {
		return nil, invalid("hdmx", "table too short")
	}
	if v := binary.BigEndian.Uint16(data); v != 0 {
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt/hdmx",
			Feature:   fmt.Sprintf("table version %d", v),
		}
	}
	numRecords := int(binary.BigEndian.Uint16(data[2:]))
	recSize := int(binary.BigEndian.Uint32(data[4:]))
	if recSize < 2+numGlyphs || 8+numRecords*recSize > len(data) {
		return nil, invalid("hdmx", "invalid device record size")
	}

	oldGIDs := m.OldGIDs()
	newSize := (2 + len(oldGIDs) + 3) &^ 3
	res := make([]byte, 8, 8+numRecords*newSize)
	copy(res, data[:4])
	binary.BigEndian.PutUint32(res[4:], uint32(newSize))
	for i := range numRecords {
		rec := data[8+i*recSize : 8+(i+1)*recSize]
		out := make([]byte, newSize)
		out[0] = rec[0] // pixel size
		for j, gid := range oldGIDs {
			if int(gid) < numGlyphs {
				w := rec[2+int(gid)]
				out[2+j] = w
				out[1] = max(out[1], w)
			}
		}
		res = append(res, out...)
	}
	return res, nil
}

// SubsetLTSH rewrites a "LTSH" table, keeping the linear threshold values
// of the glyphs retained by m.
func SubsetLTSH(data []byte, m *remap.Table) ([]byte, error) {
	if len(data) < 4 {
		return nil, invalid("LTSH", "table too short")
	}
	if v := binary.BigEndian.Uint16(data); v != 0 {
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt/LTSH",
			Feature:   fmt.Sprintf("table version %d", v),
		}
	}
	numGlyphs := int(binary.BigEndian.Uint16(data[2:]))
	if len(data) < 4+numGlyphs {
		return nil, invalid("LTSH", "table too short")
	}

	oldGIDs := m.OldGIDs()
	res := make([]byte, 4, 4+len(oldGIDs))
	binary.BigEndian.PutUint16(res[2:], uint16(len(oldGIDs)))
	for _, gid := range oldGIDs {
		var yPel byte = 1
		if int(gid) < numGlyphs {
			yPel = data[4+int(gid)]
		}
		res = append(res, yPel)
	}
	return res, nil
}

func invalid(table, reason string) error {
	return &font.InvalidFontError{
		SubSystem: "sfnt/" + table,
		Reason:    reason,
	}
}
