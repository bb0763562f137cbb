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

import (
	"slices"
	"strconv"

	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/sfntsubset/font"
)

// Pair maps a character code to a glyph.
type Pair struct {
	Code uint32
	GID  glyph.ID
}

// Mapping is a list of character code to glyph mappings, sorted by code.
// Codes which map to glyph 0 are never included.
type Mapping []Pair

// Lookup returns the glyph for the given code, or 0 if the code is not mapped.
func (m Mapping) Lookup(code uint32) glyph.ID {
	idx, found := slices.BinarySearchFunc(m, code, func(p Pair, code uint32) int {
		switch {
		case p.Code < code:
			return -1
		case p.Code > code:
			return 1
		}
		return 0
	})
	if !found {
		return 0
	}
	return m[idx].GID
}

// CanRewrite reports whether subtables of the given format can be
// decoded and re-encoded.
func CanRewrite(format uint16) bool {
	_, ok := decoders[format]
	return ok
}

// DecodeSubtable returns the mapping described by a cmap subtable.
func DecodeSubtable(data []byte) (Mapping, error) {
	format := Format(data)
	decode, ok := decoders[format]
	if !ok {
		return nil, unsupportedFormat(format)
	}
	return decode(data)
}

// EncodeSubtable encodes a mapping as a subtable of the given format.
// An error is returned if the mapping cannot be represented in this format.
func EncodeSubtable(format uint16, language uint32, m Mapping) ([]byte, error) {
	switch format {
	case 0:
		return encodeFormat0(language, m)
	case 4:
		return encodeFormat4(language, m)
	case 6:
		return encodeFormat6(language, m)
	case 12:
		return encodeFormat12(language, m)
	case 13:
		return encodeFormat13(language, m)
	}
	return nil, unsupportedFormat(format)
}

var decoders = map[uint16]func([]byte) (Mapping, error){
	0:  decodeFormat0,
	4:  decodeFormat4,
	6:  decodeFormat6,
	12: decodeFormat12,
	13: decodeFormat13,
}

// finish sorts the mapping and removes duplicate codes.  For duplicate
// codes the first entry wins.
func finish(m Mapping) Mapping {
	slices.SortStableFunc(m, func(a, b Pair) int {
		switch {
		case a.Code < b.Code:
			return -1
		case a.Code > b.Code:
			return 1
		}
		return 0
	})
	return slices.CompactFunc(m, func(a, b Pair) bool {
		return a.Code == b.Code
	})
}

func unsupportedFormat(format uint16) error {
	return &font.NotSupportedError{
		SubSystem: "sfnt/cmap",
		Feature:   "subtable format " + strconv.Itoa(int(format)),
	}
}
