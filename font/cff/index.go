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
	"seehuhn.de/go/sfntsubset/sfnt/parser"
)

// readIndex reads a CFF INDEX structure at the current position.
// The returned slices point into the data of p.
func readIndex(p *parser.Parser) ([][]byte, error) {
	count, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	offSize, err := p.ReadUint8()
	if err != nil {
		return nil, err
	}
	if offSize < 1 || offSize > 4 {
		return nil, invalid("invalid INDEX offset size")
	}

	offsets := make([]int, count+1)
	prevOffset := 1
	for i := range offsets {
		blob, err := p.ReadBytes(int(offSize))
		if err != nil {
			return nil, err
		}

		var offs int
		for _, x := range blob {
			offs = offs<<8 + int(x)
		}
		if offs < prevOffset || i == 0 && offs != 1 {
			return nil, invalid("invalid INDEX offsets")
		}
		offsets[i] = offs - 1
		prevOffset = offs
	}

	buf, err := p.ReadBytes(offsets[count])
	if err != nil {
		return nil, err
	}

	res := make([][]byte, count)
	for i := range res {
		res[i] = buf[offsets[i]:offsets[i+1]:offsets[i+1]]
	}
	return res, nil
}

// readIndexAt reads a CFF INDEX structure at the given offset.
func readIndexAt(p *parser.Parser, pos int, name string) ([][]byte, error) {
	if pos < 4 || pos >= p.Size() {
		return nil, invalid("invalid offset for " + name + " INDEX")
	}
	err := p.SeekPos(pos)
	if err != nil {
		return nil, err
	}
	return readIndex(p)
}

// indexLength returns the number of bytes needed to encode an INDEX
// with the given items.
func indexLength(data [][]byte) int {
	if len(data) == 0 {
		return 2
	}
	bodyLength := 0
	for _, blob := range data {
		bodyLength += len(blob)
	}
	offSize := indexOffSize(bodyLength)
	return 3 + offSize*(len(data)+1) + bodyLength
}

func indexOffSize(bodyLength int) int {
	offSize := 1
	for bodyLength+1 >= 1<<(8*offSize) {
		offSize++
	}
	return offSize
}

// appendIndex appends the encoded INDEX to buf.
func appendIndex(buf []byte, data [][]byte) ([]byte, error) {
	count := len(data)
	if count >= 1<<16 {
		return nil, invalid("too many items for CFF INDEX")
	}
	if count == 0 {
		return append(buf, 0, 0), nil
	}

	bodyLength := 0
	for _, blob := range data {
		bodyLength += len(blob)
	}
	offSize := indexOffSize(bodyLength)
	if offSize > 4 {
		return nil, invalid("too much data for CFF INDEX")
	}

	buf = append(buf,
		byte(count>>8), byte(count), // count
		byte(offSize), // offSize
	)

	pos := uint32(1)
	for i := 0; i <= count; i++ {
		for j := offSize - 1; j >= 0; j-- {
			buf = append(buf, byte(pos>>(8*j)))
		}
		if i < count {
			pos += uint32(len(data[i]))
		}
	}
	for _, blob := range data {
		buf = append(buf, blob...)
	}
	return buf, nil
}
