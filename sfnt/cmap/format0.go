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

// Format 0 is the Apple byte encoding table.
// https://docs.microsoft.com/en-us/typography/opentype/spec/cmap#format-0-byte-encoding-table

func decodeFormat0(data []byte) (Mapping, error) {
	if len(data) != 6+256 {
		return nil, malformed("format 0: invalid length")
	}
	var m Mapping
	for code, gid := range data[6:] {
		if gid != 0 {
			m = append(m, Pair{Code: uint32(code), GID: glyph.ID(gid)})
		}
	}
	return m, nil
}

func encodeFormat0(language uint32, m Mapping) ([]byte, error) {
	if language > 0xFFFF {
		return nil, malformed("format 0: language out of range")
	}
	const length = 6 + 256
	res := make([]byte, length)
	res[2] = byte(length >> 8)
	res[3] = byte(length & 0xFF)
	res[4] = byte(language >> 8)
	res[5] = byte(language)
	for _, p := range m {
		if p.Code > 255 || p.GID > 255 {
			return nil, malformed("format 0: mapping out of range")
		}
		res[6+p.Code] = byte(p.GID)
	}
	return res, nil
}
