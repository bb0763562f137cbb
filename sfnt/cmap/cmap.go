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

// Package cmap reads, subsets and writes "cmap" tables.
//
// Only the subtable formats 0, 4, 6, 12 and 13 can be rewritten.  Subtables
// in other formats are dropped when a table is subset.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/cmap
package cmap

import (
	"bytes"
	"cmp"
	"math"
	"slices"
	"sort"
	"strconv"

	"seehuhn.de/go/sfntsubset/font"
)

// Key selects a subtable of a cmap table.
type Key struct {
	PlatformID uint16 // Platform ID.
	EncodingID uint16 // Platform-specific encoding ID.
	Language   uint32
}

func (k Key) compare(other Key) int {
	if c := cmp.Compare(k.PlatformID, other.PlatformID); c != 0 {
		return c
	}
	if c := cmp.Compare(k.EncodingID, other.EncodingID); c != 0 {
		return c
	}
	return cmp.Compare(k.Language, other.Language)
}

// Table contains all subtables from a cmap table.
// Encoding records which share a subtable map to the same byte slice.
type Table map[Key][]byte

// Decode returns all subtables of the given "cmap" table.
//
// Subtables in one of the formats 0, 2, 4, 6, 8, 10, 12, 13 and 14 are
// returned in full.  For unknown formats only the two format bytes are
// kept, since the length of the subtable cannot be determined.
func Decode(data []byte) (Table, error) {
	const minLength = 6

	if len(data) < 4 || len(data) > math.MaxUint32 {
		return nil, malformed("table too short")
	}
	version := uint16(data[0])<<8 | uint16(data[1])
	if version != 0 {
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt/cmap",
			Feature:   "cmap table version " + strconv.Itoa(int(version)),
		}
	}
	numTables := int(data[2])<<8 | int(data[3])
	if len(data) < 4+8*numTables {
		return nil, malformed("encoding records truncated")
	}

	endOfHeader := uint32(4 + 8*numTables)
	endOfData := uint32(len(data))

	type seg struct {
		start, end uint32
	}
	var segs []seg

	res := make(Table)
	for i := 0; i < numTables; i++ {
		platformID := uint16(data[4+i*8])<<8 | uint16(data[5+i*8])
		encodingID := uint16(data[6+i*8])<<8 | uint16(data[7+i*8])

		o := uint32(data[8+i*8])<<24 |
			uint32(data[9+i*8])<<16 |
			uint32(data[10+i*8])<<8 |
			uint32(data[11+i*8])
		if o < endOfHeader || o > endOfData-minLength {
			return nil, malformed("subtable offset out of range")
		}

		var language uint32
		var length uint32
		format := uint16(data[o])<<8 | uint16(data[o+1])
		switch format {
		case 0, 2, 4, 6:
			length = uint32(data[o+2])<<8 | uint32(data[o+3])
			language = uint32(data[o+4])<<8 | uint32(data[o+5])
		case 8, 10, 12, 13:
			if o > endOfData-12 {
				return nil, malformed("subtable header truncated")
			}
			length = uint32(data[o+4])<<24 |
				uint32(data[o+5])<<16 |
				uint32(data[o+6])<<8 |
				uint32(data[o+7])
			language = uint32(data[o+8])<<24 |
				uint32(data[o+9])<<16 |
				uint32(data[o+10])<<8 |
				uint32(data[o+11])
		case 14:
			length = uint32(data[o+2])<<24 |
				uint32(data[o+3])<<16 |
				uint32(data[o+4])<<8 |
				uint32(data[o+5])
		default:
			length = 2
		}
		if length < 2 || length > endOfData-o {
			return nil, malformed("subtable length out of range")
		}

		// check that subtables are either disjoint or identical
		idx := sort.Search(len(segs), func(i int) bool {
			return o <= segs[i].start
		})
		if idx == len(segs) || o != segs[idx].start {
			if idx > 0 && o < segs[idx-1].end ||
				idx < len(segs) && o+length > segs[idx].start {
				return nil, malformed("overlapping subtables")
			}
			segs = slices.Insert(segs, idx, seg{o, o + length})
		}

		key := Key{
			PlatformID: platformID,
			EncodingID: encodingID,
			Language:   language,
		}
		if _, seen := res[key]; seen {
			continue
		}
		res[key] = data[o : o+length]
	}

	return res, nil
}

// Keys returns the keys of all subtables, in the order in which the encoding
// records appear in an encoded table.
func (ss Table) Keys() []Key {
	keys := make([]Key, 0, len(ss))
	for key := range ss {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, Key.compare)
	return keys
}

// Encode converts the cmap table into binary form.
// Encoding records are sorted by platform ID, encoding ID and language.
// Identical subtables are stored only once.
func (ss Table) Encode() []byte {
	keys := ss.Keys()

	numTables := len(keys)
	endOfHeader := uint32(4 + 8*numTables)

	offs := make([]uint32, numTables)
	var body [][]byte
	pos := endOfHeader
offsLoop:
	for i, key := range keys {
		data := ss[key]
		for j := 0; j < i; j++ {
			if bytes.Equal(data, ss[keys[j]]) {
				offs[i] = offs[j]
				continue offsLoop
			}
		}
		offs[i] = pos
		pos += uint32(len(data))
		body = append(body, data)
	}

	res := make([]byte, endOfHeader, pos)
	// header[0] = 0
	// header[1] = 0
	res[2] = byte(numTables >> 8)
	res[3] = byte(numTables)
	for i, key := range keys {
		res[4+i*8] = byte(key.PlatformID >> 8)
		res[5+i*8] = byte(key.PlatformID)
		res[6+i*8] = byte(key.EncodingID >> 8)
		res[7+i*8] = byte(key.EncodingID)
		res[8+i*8] = byte(offs[i] >> 24)
		res[9+i*8] = byte(offs[i] >> 16)
		res[10+i*8] = byte(offs[i] >> 8)
		res[11+i*8] = byte(offs[i])
	}
	for _, data := range body {
		res = append(res, data...)
	}
	return res
}

// Format returns the format of a cmap subtable.
func Format(data []byte) uint16 {
	if len(data) < 2 {
		return 0xFFFF
	}
	return uint16(data[0])<<8 | uint16(data[1])
}

func malformed(reason string) error {
	return &font.InvalidFontError{
		SubSystem: "sfnt/cmap",
		Reason:    reason,
	}
}
