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
	"golang.org/x/text/encoding/charmap"

	"seehuhn.de/go/sfnt/glyph"
)

// unicodeKeys lists the subtables which map Unicode code points,
// most preferred first.
var unicodeKeys = []Key{
	{PlatformID: 3, EncodingID: 10},
	{PlatformID: 0, EncodingID: 6},
	{PlatformID: 0, EncodingID: 4},
	{PlatformID: 3, EncodingID: 1},
	{PlatformID: 0, EncodingID: 3},
	{PlatformID: 0, EncodingID: 2},
	{PlatformID: 0, EncodingID: 1},
	{PlatformID: 0, EncodingID: 0},
}

var (
	macRomanKey = Key{PlatformID: 1, EncodingID: 0}
	symbolKey   = Key{PlatformID: 3, EncodingID: 0}
)

// Lookup maps Unicode code points to glyph IDs.
type Lookup func(r rune) glyph.ID

// Best returns a lookup function for the most suitable subtable of the
// cmap.  Unicode subtables are preferred, then the Macintosh Roman
// subtable, then a Windows symbol subtable.  The subtable key is
// returned alongside the lookup.  If no usable subtable exists,
// Best returns nil.
func (ss Table) Best() (Lookup, Key, error) {
	for _, key := range unicodeKeys {
		data, ok := ss[key]
		if !ok || !CanRewrite(Format(data)) {
			continue
		}
		m, err := DecodeSubtable(data)
		if err != nil {
			return nil, key, err
		}
		return func(r rune) glyph.ID {
			if r < 0 {
				return 0
			}
			return m.Lookup(uint32(r))
		}, key, nil
	}

	if data, ok := ss[macRomanKey]; ok && CanRewrite(Format(data)) {
		m, err := DecodeSubtable(data)
		if err != nil {
			return nil, macRomanKey, err
		}
		enc := charmap.Macintosh
		return func(r rune) glyph.ID {
			c, ok := enc.EncodeRune(r)
			if !ok {
				return 0
			}
			return m.Lookup(uint32(c))
		}, macRomanKey, nil
	}

	if data, ok := ss[symbolKey]; ok && CanRewrite(Format(data)) {
		m, err := DecodeSubtable(data)
		if err != nil {
			return nil, symbolKey, err
		}
		return func(r rune) glyph.ID {
			if r < 0 {
				return 0
			}
			if gid := m.Lookup(uint32(r)); gid != 0 {
				return gid
			}
			if r < 0x100 {
				return m.Lookup(0xF000 + uint32(r))
			}
			return 0
		}, symbolKey, nil
	}

	return nil, Key{}, nil
}
