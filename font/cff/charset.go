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

package cff

import (
	"strconv"

	"seehuhn.de/go/sfntsubset/sfnt/parser"
)

// readCharset reads a charset at the current position of p.
// The result contains one SID (for simple fonts) or CID (for CID-keyed
// fonts) per glyph.
func readCharset(p *parser.Parser, nGlyphs int) ([]uint16, error) {
	format, err := p.ReadUint8()
	if err != nil {
		return nil, err
	}

	charset := make([]uint16, 1, nGlyphs)
	switch format {
	case 0:
		names, err := p.ReadUint16Slice(nGlyphs - 1)
		if err != nil {
			return nil, err
		}
		charset = append(charset, names...)
	case 1, 2:
		for len(charset) < nGlyphs {
			first, err := p.ReadUint16()
			if err != nil {
				return nil, err
			}
			var nLeft int
			if format == 1 {
				n, err := p.ReadUint8()
				if err != nil {
					return nil, err
				}
				nLeft = int(n)
			} else {
				n, err := p.ReadUint16()
				if err != nil {
					return nil, err
				}
				nLeft = int(n)
			}
			if int(first)+nLeft > 0xFFFF {
				return nil, invalid("charset range out of bounds")
			}
			for i := 0; i <= nLeft && len(charset) < nGlyphs; i++ {
				charset = append(charset, first+uint16(i))
			}
		}
	default:
		return nil, notSupported("charset format " + strconv.Itoa(int(format)))
	}

	return charset, nil
}

// appendCharset appends a format 0 charset to buf.
// The entry for glyph 0 is implicit and not written.
func appendCharset(buf []byte, charset []uint16) []byte {
	buf = append(buf, 0)
	for _, name := range charset[1:] {
		buf = append(buf, byte(name>>8), byte(name))
	}
	return buf
}
