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

// Package vorg reads and rewrites the "VORG" table of CFF-based fonts.
// https://docs.microsoft.com/en-us/typography/opentype/spec/vorg
package vorg

import (
	"encoding/binary"
	"fmt"
	"slices"

	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/sfntsubset/font"
	"seehuhn.de/go/sfntsubset/sfnt/parser"
	"seehuhn.de/go/sfntsubset/sfnt/remap"
)

// Info contains the vertical origins of the glyphs.
type Info struct {
	Default funit.Int16
	Origins map[glyph.ID]funit.Int16
}

// Decode reads a "VORG" table.
func Decode(data []byte) (*Info, error) {
	p := parser.New("VORG", data)
	buf, err := p.ReadBytes(8)
	if err != nil {
		return nil, invalid("table too short")
	}
	major := binary.BigEndian.Uint16(buf)
	if major != 1 {
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt/vorg",
			Feature:   fmt.Sprintf("table version %d", major),
		}
	}
	info := &Info{
		Default: funit.Int16(binary.BigEndian.Uint16(buf[4:])),
		Origins: make(map[glyph.ID]funit.Int16),
	}
	n := int(binary.BigEndian.Uint16(buf[6:]))
	vals, err := p.ReadUint16Slice(2 * n)
	if err != nil {
		return nil, invalid("truncated table")
	}
	for i := range n {
		info.Origins[glyph.ID(vals[2*i])] = funit.Int16(vals[2*i+1])
	}
	return info, nil
}

// Subset returns the vertical origins of the glyphs retained by m.
func (info *Info) Subset(m *remap.Table) *Info {
	res := &Info{
		Default: info.Default,
		Origins: make(map[glyph.ID]funit.Int16),
	}
	for gid, y := range info.Origins {
		if newGID, ok := m.New(gid); ok {
			res.Origins[newGID] = y
		}
	}
	return res
}

// Encode returns the binary form of the table.
// Records which equal the default are omitted.
func (info *Info) Encode() []byte {
	var gids []glyph.ID
	for gid, y := range info.Origins {
		if y != info.Default {
			gids = append(gids, gid)
		}
	}
	slices.Sort(gids)

	buf := make([]byte, 8, 8+4*len(gids))
	buf[1] = 1 // majorVersion
	binary.BigEndian.PutUint16(buf[4:], uint16(info.Default))
	binary.BigEndian.PutUint16(buf[6:], uint16(len(gids)))
	for _, gid := range gids {
		buf = binary.BigEndian.AppendUint16(buf, uint16(gid))
		buf = binary.BigEndian.AppendUint16(buf, uint16(info.Origins[gid]))
	}
	return buf
}

func invalid(reason string) error {
	return &font.InvalidFontError{
		SubSystem: "sfnt/vorg",
		Reason:    reason,
	}
}
