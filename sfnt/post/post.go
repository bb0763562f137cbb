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

// Package post reads and rewrites the "post" table.
// https://docs.microsoft.com/en-us/typography/opentype/spec/post
package post

import (
	"encoding/binary"
	"fmt"

	"seehuhn.de/go/sfntsubset/font"
	"seehuhn.de/go/sfntsubset/sfnt/parser"
	"seehuhn.de/go/sfntsubset/sfnt/remap"
)

// Table versions.
const (
	Version1  = 0x00010000
	Version2  = 0x00020000
	Version25 = 0x00025000
	Version3  = 0x00030000
	Version4  = 0x00040000
)

const headerLength = 32

// Info contains the data of a "post" table.
type Info struct {
	Version uint32

	// Names lists the glyph names, indexed by glyph ID.
	// This is nil if the table carries no usable glyph names.
	Names []string

	// header holds the fixed fields following the version number.
	header []byte
}

// Decode reads a "post" table for a font with numGlyphs glyphs.
// Version 1.0 tables are converted to an explicit list of names from the
// standard Macintosh glyph order.
func Decode(data []byte, numGlyphs int) (*Info, error) {
	if len(data) < headerLength {
		return nil, invalid("table too short")
	}
	info := &Info{
		Version: binary.BigEndian.Uint32(data),
		header:  data[4:headerLength],
	}

	switch info.Version {
	case Version1:
		info.Names = make([]string, numGlyphs)
		for i := range info.Names {
			if i < len(macNames) {
				info.Names[i] = macNames[i]
			} else {
				info.Names[i] = macNames[0]
			}
		}

	case Version2:
		names, err := decodeNames(data, numGlyphs)
		if err != nil {
			return nil, err
		}
		info.Names = names

	case Version25, Version3, Version4:
		// pass

	default:
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt/post",
			Feature:   fmt.Sprintf("table version 0x%08x", info.Version),
		}
	}

	return info, nil
}

func decodeNames(data []byte, numGlyphs int) ([]string, error) {
	p := parser.New("post", data)
	err := p.SeekPos(headerLength)
	if err != nil {
		return nil, invalid("table too short")
	}
	idx, err := p.ReadGIDSlice()
	if err != nil {
		return nil, invalid("truncated glyph name index")
	}

	var custom []string
	for p.Remaining() > 0 {
		l, err := p.ReadUint8()
		if err != nil {
			break
		}
		buf, err := p.ReadBytes(int(l))
		if err != nil {
			// tolerate garbage after the last string
			break
		}
		custom = append(custom, string(buf))
	}

	names := make([]string, numGlyphs)
	nMac := len(macNames)
	for i := range names {
		if i >= len(idx) {
			names[i] = macNames[0]
			continue
		}
		k := int(idx[i])
		switch {
		case k < nMac:
			names[i] = macNames[k]
		case k-nMac < len(custom):
			names[i] = custom[k-nMac]
		default:
			return nil, invalid(fmt.Sprintf("glyph name index %d out of range", k))
		}
	}
	return names, nil
}

// HasNames returns true if the table carries glyph names.
func (info *Info) HasNames() bool {
	return info.Version != Version3
}

// Subset returns the table for the glyphs retained by m.
// If keepNames is set and names are available, a version 2.0 table is
// produced.  Otherwise the result is a version 3.0 table without glyph
// names.  The second return value reports whether glyph names were lost.
func (info *Info) Subset(m *remap.Table, keepNames bool) (*Info, bool) {
	res := &Info{
		Version: Version3,
		header:  info.header,
	}
	if !keepNames || info.Names == nil {
		return res, info.HasNames()
	}

	res.Version = Version2
	res.Names = make([]string, m.Len())
	for i, gid := range m.OldGIDs() {
		if int(gid) < len(info.Names) {
			res.Names[i] = info.Names[gid]
		} else {
			res.Names[i] = macNames[0]
		}
	}
	return res, false
}

// Encode returns the binary form of the table.
// Custom glyph names are stored in order of first use.
func (info *Info) Encode() []byte {
	buf := make([]byte, headerLength, headerLength+2+2*len(info.Names))
	version := uint32(Version3)
	if info.Names != nil {
		version = Version2
	}
	binary.BigEndian.PutUint32(buf, version)
	copy(buf[4:], info.header)
	// clear the memory usage fields, they depend on the font data
	clear(buf[16:])

	if info.Names == nil {
		return buf
	}

	buf = binary.BigEndian.AppendUint16(buf, uint16(len(info.Names)))
	custom := make(map[string]int)
	var stringData []byte
	for _, name := range info.Names {
		if len(name) > 255 {
			name = name[:255]
		}
		idx, ok := macIndex[name]
		if !ok {
			idx, ok = custom[name]
		}
		if !ok {
			idx = len(macNames) + len(custom)
			custom[name] = idx
			stringData = append(stringData, byte(len(name)))
			stringData = append(stringData, name...)
		}
		buf = binary.BigEndian.AppendUint16(buf, uint16(idx))
	}
	return append(buf, stringData...)
}

func invalid(reason string) error {
	return &font.InvalidFontError{
		SubSystem: "sfnt/post",
		Reason:    reason,
	}
}
