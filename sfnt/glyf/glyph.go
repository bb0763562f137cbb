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

package glyf

import (
	"seehuhn.de/go/sfnt/glyph"
)

// Flags used in composite glyph component records.
const (
	flagArgsAreWords      = 0x0001 // ARG_1_AND_2_ARE_WORDS
	flagHaveScale         = 0x0008 // WE_HAVE_A_SCALE
	flagMoreComponents    = 0x0020 // MORE_COMPONENTS
	flagHaveXYScale       = 0x0040 // WE_HAVE_AN_X_AND_Y_SCALE
	flagHaveTwoByTwo      = 0x0080 // WE_HAVE_A_TWO_BY_TWO
	flagHaveInstructions  = 0x0100 // WE_HAVE_INSTRUCTIONS
	glyfAlign             = 2
	glyphHeaderSize       = 10
	componentHeaderLength = 4
)

// walkComponents calls fn for every component of the composite glyph
// record rec.  The argument pos is the position of the glyphIndex field
// within rec.  walkComponents returns the position just after the last
// component record, and whether instructions follow.
func walkComponents(rec []byte, fn func(pos int, flags uint16, gid glyph.ID) error) (int, bool, error) {
	pos := glyphHeaderSize
	haveInstructions := false
	for {
		if pos+componentHeaderLength > len(rec) {
			return 0, false, errIncompleteGlyph
		}
		flags := uint16(rec[pos])<<8 | uint16(rec[pos+1])
		gid := glyph.ID(rec[pos+2])<<8 | glyph.ID(rec[pos+3])
		if flags&flagHaveInstructions != 0 {
			haveInstructions = true
		}

		skip := 2
		if flags&flagArgsAreWords != 0 {
			skip = 4
		}
		switch {
		case flags&flagHaveScale != 0:
			skip += 2
		case flags&flagHaveXYScale != 0:
			skip += 4
		case flags&flagHaveTwoByTwo != 0:
			skip += 8
		}
		if pos+componentHeaderLength+skip > len(rec) {
			return 0, false, errIncompleteGlyph
		}

		err := fn(pos+2, flags, gid)
		if err != nil {
			return 0, false, err
		}
		pos += componentHeaderLength + skip

		if flags&flagMoreComponents == 0 {
			break
		}
	}
	return pos, haveInstructions, nil
}

// stripInstructions returns a copy of the glyph record with all TrueType
// instructions removed.
func stripInstructions(rec []byte) ([]byte, error) {
	if len(rec) == 0 {
		return nil, nil
	}
	if len(rec) < glyphHeaderSize {
		return nil, errIncompleteGlyph
	}

	if isComposite(rec) {
		end, haveInstructions, err := walkComponents(rec, func(int, uint16, glyph.ID) error {
			return nil
		})
		if err != nil {
			return nil, err
		}
		res := make([]byte, end)
		copy(res, rec)
		if haveInstructions {
			_, _, _ = walkComponents(res, func(pos int, flags uint16, _ glyph.ID) error {
				flags &^= flagHaveInstructions
				res[pos-2] = byte(flags >> 8)
				res[pos-1] = byte(flags)
				return nil
			})
		}
		return res, nil
	}

	numContours := int(rec[0])<<8 | int(rec[1])
	lenPos := glyphHeaderSize + 2*numContours
	if lenPos+2 > len(rec) {
		return nil, errIncompleteGlyph
	}
	instructionLength := int(rec[lenPos])<<8 | int(rec[lenPos+1])
	tail := lenPos + 2 + instructionLength
	if tail > len(rec) {
		return nil, errIncompleteGlyph
	}
	res := make([]byte, 0, len(rec)-instructionLength)
	res = append(res, rec[:lenPos]...)
	res = append(res, 0, 0)
	res = append(res, rec[tail:]...)
	return res, nil
}
