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

// Package parser implements a cursor for reading big-endian binary data
// from an sfnt table.
package parser

import (
	"errors"
	"fmt"

	"seehuhn.de/go/sfnt/glyph"
)

// ErrTruncated is returned when a read extends beyond the end of the data.
var ErrTruncated = errors.New("unexpected end of table data")

// Parser allows to read data from an sfnt table.
// All read operations check bounds; a Parser never panics on short input.
type Parser struct {
	data      []byte
	tableName string

	pos      int
	lastRead int
}

// New allocates a new Parser which reads from data.
func New(tableName string, data []byte) *Parser {
	return &Parser{
		data:      data,
		tableName: tableName,
	}
}

// Size returns the total size of the underlying data.
func (p *Parser) Size() int {
	return len(p.data)
}

// Pos returns the current reading position.
func (p *Parser) Pos() int {
	return p.pos
}

// Remaining returns the number of bytes after the current position.
func (p *Parser) Remaining() int {
	return len(p.data) - p.pos
}

// SeekPos changes the reading position.
func (p *Parser) SeekPos(pos int) error {
	if pos < 0 || pos > len(p.data) {
		p.lastRead = pos
		return p.Error("seek to %d: %w", pos, ErrTruncated)
	}
	p.pos = pos
	return nil
}

// Discard skips the next n bytes of input.
func (p *Parser) Discard(n int) error {
	if n < 0 {
		panic("negative discard")
	}
	return p.SeekPos(p.pos + n)
}

// ReadBytes reads n bytes, starting at the current position.  The returned
// slice points into the underlying data and must not be modified by the
// caller.
func (p *Parser) ReadBytes(n int) ([]byte, error) {
	p.lastRead = p.pos
	if n < 0 || n > len(p.data)-p.pos {
		return nil, p.Error("read %d bytes: %w", n, ErrTruncated)
	}
	res := p.data[p.pos : p.pos+n : p.pos+n]
	p.pos += n
	return res, nil
}

// ReadUint8 reads a single uint8 value from the current position.
func (p *Parser) ReadUint8() (uint8, error) {
	buf, err := p.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 reads a single uint16 value from the current position.
func (p *Parser) ReadUint16() (uint16, error) {
	buf, err := p.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}

// ReadInt16 reads a single int16 value from the current position.
func (p *Parser) ReadInt16() (int16, error) {
	val, err := p.ReadUint16()
	return int16(val), err
}

// ReadUint32 reads a single uint32 value from the current position.
func (p *Parser) ReadUint32() (uint32, error) {
	buf, err := p.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]), nil
}

// ReadUint16Slice reads n uint16 values.
func (p *Parser) ReadUint16Slice(n int) ([]uint16, error) {
	buf, err := p.ReadBytes(2 * n)
	if err != nil {
		return nil, err
	}
	res := make([]uint16, n)
	for i := range res {
		res[i] = uint16(buf[2*i])<<8 | uint16(buf[2*i+1])
	}
	return res, nil
}

// ReadGIDSlice reads a length followed by a sequence of GlyphID values.
func (p *Parser) ReadGIDSlice() ([]glyph.ID, error) {
	n, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	vals, err := p.ReadUint16Slice(int(n))
	if err != nil {
		return nil, err
	}
	res := make([]glyph.ID, n)
	for i, val := range vals {
		res[i] = glyph.ID(val)
	}
	return res, nil
}

// Error returns an error which is annotated with the table name and the
// position of the last read.
func (p *Parser) Error(format string, a ...any) error {
	tableName := p.tableName
	if tableName == "" {
		tableName = "header"
	}
	a = append([]any{tableName, p.lastRead}, a...)
	return fmt.Errorf("%s%+d: "+format, a...)
}
