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

// Package kern rewrites the "kern" table.
// https://docs.microsoft.com/en-us/typography/opentype/spec/kern
//
// Only version 0 tables are supported.  Subtables in format 0 (ordered
// lists of kerning pairs) are rewritten, all other subtables are dropped.
package kern

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/bits"
	"sort"

	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/sfntsubset/font"
	"seehuhn.de/go/sfntsubset/sfnt/parser"
	"seehuhn.de/go/sfntsubset/sfnt/remap"
)

const (
	headerLen    = 4
	subHeaderLen = 14
	pairLen      = 6
)

// Subset returns a "kern" table containing only the kerning pairs where
// both glyphs are retained by m.  The returned list gives the formats of
// subtables which could not be rewritten and have been dropped.
// If no subtables remain, the returned table data is nil.
func Subset(data []byte, m *remap.Table) ([]byte, []int, error) {
	p := parser.New("kern", data)

	version, err := p.ReadUint16()
	if err != nil {
		return nil, nil, invalid("table too short")
	}
	if version != 0 {
		return nil, nil, &font.NotSupportedError{
			SubSystem: "sfnt/kern",
			Feature:   fmt.Sprintf("table version %d", version),
		}
	}
	nTables, err := p.ReadUint16()
	if err != nil {
		return nil, nil, invalid("table too short")
	}

	var subtables [][]byte
	var dropped []int
	pos := p.Pos()
	for range int(nTables) {
		err := p.SeekPos(pos)
		if err != nil {
			return nil, nil, invalid("truncated subtable")
		}
		buf, err := p.ReadBytes(6)
		if err != nil {
			return nil, nil, invalid("truncated subtable")
		}
		length := int(buf[2])<<8 | int(buf[3])
		format := int(buf[4])
		coverage := buf[4:6]

		if format != 0 {
			if length < 6 {
				return nil, nil, invalid(fmt.Sprintf("invalid subtable length %d", length))
			}
			dropped = append(dropped, format)
			pos += length
			continue
		}

		nPairs, err := p.ReadUint16()
		if err != nil {
			return nil, nil, invalid("truncated subtable")
		}
		// The length field overflows for subtables with many pairs,
		// so the pair count is used to find the next subtable.
		pos += subHeaderLen + pairLen*int(nPairs)
		err = p.Discard(6) // skip searchRange, entrySelector and rangeShift
		if err != nil {
			return nil, nil, invalid("truncated subtable")
		}
		pairs, err := p.ReadBytes(pairLen * int(nPairs))
		if err != nil {
			return nil, nil, invalid("truncated subtable")
		}

		sub := subsetPairs(pairs, coverage, m)
		if sub != nil {
			subtables = append(subtables, sub)
		}
	}

	if len(subtables) == 0 {
		return nil, dropped, nil
	}
	res := make([]byte, headerLen, headerLen+len(subtables)*subHeaderLen)
	binary.BigEndian.PutUint16(res[2:], uint16(len(subtables)))
	for _, sub := range subtables {
		res = append(res, sub...)
	}
	return res, dropped, nil
}

// subsetPairs encodes a format 0 subtable with the retained pairs.
// If no pairs remain, nil is returned.
func subsetPairs(pairs, coverage []byte, m *remap.Table) []byte {
	var body []byte
	for i := 0; i+pairLen <= len(pairs); i += pairLen {
		left, ok1 := m.New(glyph.ID(pairs[i])<<8 | glyph.ID(pairs[i+1]))
		right, ok2 := m.New(glyph.ID(pairs[i+2])<<8 | glyph.ID(pairs[i+3]))
		if !ok1 || !ok2 {
			continue
		}
		body = append(body,
			byte(left>>8), byte(left),
			byte(right>>8), byte(right),
			pairs[i+4], pairs[i+5],
		)
	}
	if body == nil {
		return nil
	}
	sort.Stable(blocks(body))

	nPairs := len(body) / pairLen
	entrySelector := bits.Len(uint(nPairs)) - 1
	searchRange := pairLen * (1 << entrySelector)
	rangeShift := pairLen*nPairs - searchRange
	length := subHeaderLen + len(body)

	buf := make([]byte, 0, length)
	buf = append(buf,
		0, 0, // subtable version
		byte(length>>8), byte(length),
		coverage[0], coverage[1],
		byte(nPairs>>8), byte(nPairs),
		byte(searchRange>>8), byte(searchRange),
		byte(entrySelector>>8), byte(entrySelector),
		byte(rangeShift>>8), byte(rangeShift),
	)
	return append(buf, body...)
}

// blocks sorts kerning pairs by the combined (left, right) key.
type blocks []byte

func (a blocks) Len() int { return len(a) / pairLen }
func (a blocks) Swap(i, j int) {
	var tmp [pairLen]byte
	copy(tmp[:], a[i*pairLen:])
	copy(a[i*pairLen:], a[j*pairLen:(j+1)*pairLen])
	copy(a[j*pairLen:], tmp[:])
}
func (a blocks) Less(i, j int) bool {
	return bytes.Compare(a[i*pairLen:i*pairLen+4], a[j*pairLen:j*pairLen+4]) < 0
}

func invalid(reason string) error {
	return &font.InvalidFontError{
		SubSystem: "sfnt/kern",
		Reason:    reason,
	}
}
