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

// readFDSelect reads the FDSelect table at the current position of p.
// The result gives the font DICT index for every glyph.
func readFDSelect(p *parser.Parser, nGlyphs, nFDs int) ([]uint8, error) {
	format, err := p.ReadUint8()
	if err != nil {
		return nil, err
	}

	switch format {
	case 0:
		buf, err := p.ReadBytes(nGlyphs)
		if err != nil {
			return nil, err
		}
		for _, fd := range buf {
			if int(fd) >= nFDs {
				return nil, invalid("FDSelect out of range")
			}
		}
		return buf, nil
	case 3:
		nRanges, err := p.ReadUint16()
		if err != nil {
			return nil, err
		}
		if nGlyphs > 0 && nRanges == 0 {
			return nil, invalid("no FDSelect data found")
		}

		res := make([]uint8, nGlyphs)
		first, err := p.ReadUint16()
		if err != nil {
			return nil, err
		} else if first != 0 {
			return nil, invalid("FDSelect is invalid")
		}
		for i := 0; i < int(nRanges); i++ {
			fd, err := p.ReadUint8()
			if err != nil {
				return nil, err
			} else if int(fd) >= nFDs {
				return nil, invalid("FDSelect out of range")
			}
			next, err := p.ReadUint16()
			if err != nil {
				return nil, err
			} else if next <= first || int(next) > nGlyphs {
				return nil, invalid("FDSelect is invalid")
			}
			for gid := first; gid < next; gid++ {
				res[gid] = fd
			}
			first = next
		}
		if int(first) != nGlyphs {
			return nil, invalid("wrong FDSelect sentinel")
		}
		return res, nil
	default:
		return nil, notSupported("FDSelect format " + strconv.Itoa(int(format)))
	}
}

// appendFDSelect appends an FDSelect table to buf.  The shorter one
// of the formats 0 and 3 is used.
func appendFDSelect(buf []byte, fdSelect []uint8) []byte {
	nGlyphs := len(fdSelect)

	nSeg := 0
	for i, fd := range fdSelect {
		if i == 0 || fd != fdSelect[i-1] {
			nSeg++
		}
	}
	format0Length := 1 + nGlyphs
	format3Length := 5 + 3*nSeg

	if format0Length <= format3Length {
		buf = append(buf, 0)
		return append(buf, fdSelect...)
	}

	buf = append(buf, 3, byte(nSeg>>8), byte(nSeg))
	for i, fd := range fdSelect {
		if i == 0 || fd != fdSelect[i-1] {
			buf = append(buf, byte(i>>8), byte(i), fd)
		}
	}
	return append(buf, byte(nGlyphs>>8), byte(nGlyphs))
}
