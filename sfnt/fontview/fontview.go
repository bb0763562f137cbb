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

// Package fontview gives read-only access to the table directory of an
// sfnt font file held in memory.
//
// The table directory is decoded by [seehuhn.de/go/sfnt/header].  This
// package adds the checks needed before table data can be sliced out of
// the file directly, and converts errors into the kinds from package font.
package fontview

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"slices"

	"seehuhn.de/go/sfnt/header"
	"seehuhn.de/go/sfnt/parser"

	"seehuhn.de/go/sfntsubset/font"
)

// These are the sfnt scaler types which can be subsetted.
const (
	ScalerTypeTrueType = header.ScalerTypeTrueType
	ScalerTypeCFF      = header.ScalerTypeCFF
	ScalerTypeApple    = header.ScalerTypeApple
)

const (
	scalerTypeCollection = 0x74746366 // "ttcf"
	scalerTypeType1      = 0x74797031 // "typ1"
)

// Font is a parsed table directory, together with the underlying font data.
type Font struct {
	ScalerType uint32
	Toc        map[string]Record

	data []byte
}

// Record gives the location of a table inside the font file.
type Record struct {
	Offset   uint32
	Length   uint32
	CheckSum uint32
}

// Read parses the table directory of an sfnt font.
// The data slice is retained by the returned Font and must not be modified
// afterwards.
func Read(data []byte) (*Font, error) {
	if len(data) < 4 {
		return nil, invalid("file too short")
	}
	switch binary.BigEndian.Uint32(data) {
	case scalerTypeCollection:
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt/fontview",
			Feature:   "font collections",
		}
	case scalerTypeType1:
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt/fontview",
			Feature:   "Type 1 sfnt wrappers",
		}
	}

	info, err := header.Read(bytes.NewReader(data))
	if err != nil {
		return nil, convertError(err)
	}

	// header.Read has checked that the whole directory is present
	numTables := int(binary.BigEndian.Uint16(data[4:]))
	endOfDir := uint64(12 + 16*numTables)

	f := &Font{
		ScalerType: info.ScalerType,
		Toc:        make(map[string]Record, len(info.Toc)),
		data:       data,
	}
	for i := range numTables {
		entry := data[12+16*i : 28+16*i]
		name := string(entry[:4])
		rec := info.Toc[name]

		// The offset and length are checked again here, since header.Read
		// computes the table end in 32 bits.
		end := uint64(rec.Offset) + uint64(rec.Length)
		if end > uint64(len(data)) {
			return nil, invalid(fmt.Sprintf("%q table extends beyond EOF", name))
		}
		if rec.Length > 0 && uint64(rec.Offset) < endOfDir {
			return nil, invalid("table overlaps the table directory")
		}

		f.Toc[name] = Record{
			Offset:   rec.Offset,
			Length:   rec.Length,
			CheckSum: binary.BigEndian.Uint32(entry[4:]),
		}
	}

	return f, nil
}

// Has returns true if all of the given tables are present in the font.
func (f *Font) Has(names ...string) bool {
	for _, name := range names {
		if _, ok := f.Toc[name]; !ok {
			return false
		}
	}
	return true
}

// Tags returns the table tags of the font, in increasing order.
func (f *Font) Tags() []string {
	tags := make([]string, 0, len(f.Toc))
	for name := range f.Toc {
		tags = append(tags, name)
	}
	slices.Sort(tags)
	return tags
}

// Table returns the bytes of the given table.  The returned slice points
// into the font data and must not be modified.
// If the table is not present, an *ErrNoTable error is returned.
func (f *Font) Table(name string) ([]byte, error) {
	rec, ok := f.Toc[name]
	if !ok {
		return nil, &ErrNoTable{Name: name}
	}
	end := rec.Offset + rec.Length
	return f.data[rec.Offset:end:end], nil
}

// ErrNoTable indicates that a required table is missing from a font.
// A font without a required table is malformed, so ErrNoTable unwraps to a
// [font.InvalidFontError].
type ErrNoTable struct {
	Name string
}

func (err *ErrNoTable) Error() string {
	return "missing " + err.Name + " table in font"
}

func (err *ErrNoTable) Unwrap() error {
	return &font.InvalidFontError{
		SubSystem: "sfnt/fontview",
		Reason:    fmt.Sprintf("missing %q table", err.Name),
	}
}

// IsMissing returns true if err indicates a missing table.
func IsMissing(err error) bool {
	var e *ErrNoTable
	return errors.As(err, &e)
}

// convertError translates errors from header.Read into the error kinds
// of package font.
func convertError(err error) error {
	var invalidErr *parser.InvalidFontError
	var unsupportedErr *parser.NotSupportedError
	switch {
	case errors.As(err, &invalidErr):
		return &font.InvalidFontError{
			SubSystem: invalidErr.SubSystem,
			Reason:    invalidErr.Reason,
		}
	case errors.As(err, &unsupportedErr):
		return &font.NotSupportedError{
			SubSystem: unsupportedErr.SubSystem,
			Feature:   unsupportedErr.Feature,
		}
	case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
		return invalid("truncated table directory")
	default:
		// bytes.Reader only fails for out-of-range positions
		return invalid(err.Error())
	}
}

func invalid(reason string) error {
	return &font.InvalidFontError{
		SubSystem: "sfnt/fontview",
		Reason:    reason,
	}
}
