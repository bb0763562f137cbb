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

package cmap

import "seehuhn.de/go/sfnt/glyph"

// Format 6 is the trimmed table mapping.
// https://docs.microsoft.com/en-us/typography/opentype/spec/cmap#format-6-trimmed-table-mapping

func decodeFormat6(data []byte) (Mapping, error) {
	if len(data) < 10 {
		return nil, malformed("format 6: subtable too short")
	}
	firstCode := int(data[6])<<8 | int(data[7])
	count := int(data[8])<<8 | int(data[9])
	if firstCode+count > 0x10000 {
		return nil, malformed("format 6: code range too large")
	}
	if len(data) < 10+2*count {
		// Some fonts omit a final 0x0000 entry.
		if len(data) == 10+2*count-2 {
			count--
		} else {
			return nil, malformed("format 6: glyph array truncated")
		}
	}

	var m Mapping
	for i := 0; i < count; i++ {
		gid := glyph.ID(data[10+2*i])<<8 | glyph.ID(data[11+2*i])
		if gid != 0 {
			m = append(m, Pair{Code: uint32(firstCode + i), GID: gid})
		}
	}
	return m, nil
}

// encodeFormat6 writes the smallest code range which covers all mappings.
func encodeFormat6(language uint32, m Mapping) ([]byte, error) {
	if language > 0xFFFF {
		return nil, malformed("format 6: language out of range")
	}
	var firstCode, count uint32
	if len(m) > 0 {
		firstCode = m[0].Code
		count = m[len(m)-1].Code - firstCode + 1
	}
	if firstCode+count > 0x10000 {
		return nil, malformed("format 6: code out of range")
	}
	length := 10 + 2*count
	if length > 0xFFFF {
		return nil, malformed("format 6: subtable too large")
	}

	res := make([]byte, length)
	res[1] = 6
	res[2] = byte(length >> 8)
	res[3] = byte(length)
	res[4] = byte(language >> 8)
	res[5] = byte(language)
	res[6] = byte(firstCode >> 8)
	res[7] = byte(firstCode)
	res[8] = byte(count >> 8)
	res[9] = byte(count)
	for _, p := range m {
		i := 10 + 2*(p.Code-firstCode)
		res[i] = byte(p.GID >> 8)
		res[i+1] = byte(p.GID)
	}
	return res, nil
}
