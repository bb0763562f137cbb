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
	"strconv"

	"seehuhn.de/go/sfnt/glyph"
)

// Formats 12 and 13 share the same layout: a list of sequential map groups.
// In format 12 the glyph ID increases along with the code inside a group,
// in format 13 all codes of a group map to the same glyph.
// https://docs.microsoft.com/en-us/typography/opentype/spec/cmap#format-12-segmented-coverage
// https://docs.microsoft.com/en-us/typography/opentype/spec/cmap#format-13-many-to-one-range-mappings

// maxGroupCodes limits the total number of codes covered by a subtable.
const maxGroupCodes = 0x110000

type group struct {
	start, end uint32
	gid        uint32
}

func decodeGroups(data []byte, format int) ([]group, error) {
	if len(data) < 16 {
		return nil, malformed("format " + strconv.Itoa(format) + ": subtable too short")
	}
	numGroups := uint32(data[12])<<24 | uint32(data[13])<<16 |
		uint32(data[14])<<8 | uint32(data[15])
	if uint64(numGroups)*12 > uint64(len(data)-16) {
		return nil, malformed("format " + strconv.Itoa(format) + ": groups truncated")
	}

	groups := make([]group, numGroups)
	total := uint32(0)
	for i := range groups {
		base := 16 + 12*i
		g := group{
			start: getUint32(data[base:]),
			end:   getUint32(data[base+4:]),
			gid:   getUint32(data[base+8:]),
		}
		if g.end < g.start || g.end-g.start >= maxGroupCodes-total {
			return nil, malformed("format " + strconv.Itoa(format) + ": invalid group")
		}
		total += g.end - g.start + 1
		groups[i] = g
	}
	return groups, nil
}

func decodeFormat12(data []byte) (Mapping, error) {
	groups, err := decodeGroups(data, 12)
	if err != nil {
		return nil, err
	}
	var m Mapping
	for _, g := range groups {
		for code := g.start; ; code++ {
			gid := g.gid + (code - g.start)
			if gid > 0xFFFF {
				break
			}
			if gid != 0 {
				m = append(m, Pair{Code: code, GID: glyph.ID(gid)})
			}
			if code == g.end {
				break
			}
		}
	}
	return finish(m), nil
}

func decodeFormat13(data []byte) (Mapping, error) {
	groups, err := decodeGroups(data, 13)
	if err != nil {
		return nil, err
	}
	var m Mapping
	for _, g := range groups {
		if g.gid == 0 || g.gid > 0xFFFF {
			continue
		}
		for code := g.start; ; code++ {
			m = append(m, Pair{Code: code, GID: glyph.ID(g.gid)})
			if code == g.end {
				break
			}
		}
	}
	return finish(m), nil
}

func encodeFormat12(language uint32, m Mapping) ([]byte, error) {
	var groups []group
	for _, p := range m {
		n := len(groups)
		if n > 0 {
			last := &groups[n-1]
			if p.Code == last.end+1 && uint32(p.GID) == last.gid+(p.Code-last.start) {
				last.end = p.Code
				continue
			}
		}
		groups = append(groups, group{start: p.Code, end: p.Code, gid: uint32(p.GID)})
	}
	return encodeGroups(12, language, groups), nil
}

func encodeFormat13(language uint32, m Mapping) ([]byte, error) {
	var groups []group
	for _, p := range m {
		n := len(groups)
		if n > 0 {
			last := &groups[n-1]
			if p.Code == last.end+1 && uint32(p.GID) == last.gid {
				last.end = p.Code
				continue
			}
		}
		groups = append(groups, group{start: p.Code, end: p.Code, gid: uint32(p.GID)})
	}
	return encodeGroups(13, language, groups), nil
}

func encodeGroups(format uint16, language uint32, groups []group) []byte {
	length := 16 + 12*len(groups)
	res := make([]byte, length)
	res[0] = byte(format >> 8)
	res[1] = byte(format)
	putUint32(res[4:], uint32(length))
	putUint32(res[8:], language)
	putUint32(res[12:], uint32(len(groups)))
	for i, g := range groups {
		base := 16 + 12*i
		putUint32(res[base:], g.start)
		putUint32(res[base+4:], g.end)
		putUint32(res[base+8:], g.gid)
	}
	return res
}

func getUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func putUint32(b []byte, x uint32) {
	b[0] = byte(x >> 24)
	b[1] = byte(x >> 16)
	b[2] = byte(x >> 8)
	b[3] = byte(x)
}
