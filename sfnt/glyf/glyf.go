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

// Package glyf reads and rewrites the "glyf" and "loca" tables of TrueType
// fonts.
package glyf

import (
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/sfntsubset/font"
)

// Encoded represents the data of the "glyf" and "loca" tables.
type Encoded struct {
	GlyfData   []byte
	LocaData   []byte
	LocaFormat int16
}

// Glyphs gives access to the glyph records of a TrueType font.
type Glyphs struct {
	glyf []byte
	offs []int
}

// Decode reads the loca table and prepares access to the glyph records.
// The loca table must contain at least numGlyphs+1 offsets, which must be
// non-decreasing and within the glyf table.
func Decode(enc *Encoded, numGlyphs int) (*Glyphs, error) {
	offs, err := decodeLoca(enc)
	if err != nil {
		return nil, err
	}
	if len(offs) < numGlyphs+1 {
		return nil, &font.InvalidFontError{
			SubSystem: "sfnt/loca",
			Reason:    "too few entries",
		}
	}
	return &Glyphs{
		glyf: enc.GlyfData,
		offs: offs[:numGlyphs+1],
	}, nil
}

// NumGlyphs returns the number of glyphs in the font.
func (g *Glyphs) NumGlyphs() int {
	return len(g.offs) - 1
}

// Record returns the raw glyph record for gid, including any padding.
// The result is empty for glyphs without an outline.
func (g *Glyphs) Record(gid glyph.ID) []byte {
	return g.glyf[g.offs[gid]:g.offs[gid+1]]
}

// Components returns the glyph IDs referenced by the composite glyph gid.
// For simple glyphs and empty glyphs, nil is returned.
func (g *Glyphs) Components(gid glyph.ID) ([]glyph.ID, error) {
	if int(gid) >= g.NumGlyphs() {
		return nil, errGlyphRange
	}
	rec := g.Record(gid)
	if len(rec) == 0 {
		return nil, nil
	}
	if len(rec) < 10 {
		return nil, errIncompleteGlyph
	}
	if !isComposite(rec) {
		return nil, nil
	}

	var res []glyph.ID
	_, _, err := walkComponents(rec, func(pos int, _ uint16, comp glyph.ID) error {
		res = append(res, comp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// BBox returns the bounding box stored in the header of glyph gid.
// The second return value is false for glyphs without an outline.
func (g *Glyphs) BBox(gid glyph.ID) (funit.Rect16, bool) {
	rec := g.Record(gid)
	if len(rec) < 10 {
		return funit.Rect16{}, false
	}
	return readBBox(rec), true
}

func readBBox(rec []byte) funit.Rect16 {
	return funit.Rect16{
		LLx: funit.Int16(rec[2])<<8 | funit.Int16(rec[3]),
		LLy: funit.Int16(rec[4])<<8 | funit.Int16(rec[5]),
		URx: funit.Int16(rec[6])<<8 | funit.Int16(rec[7]),
		URy: funit.Int16(rec[8])<<8 | funit.Int16(rec[9]),
	}
}

func isComposite(rec []byte) bool {
	numContours := int16(rec[0])<<8 | int16(rec[1])
	return numContours < 0
}

var (
	errIncompleteGlyph = &font.InvalidFontError{
		SubSystem: "sfnt/glyf",
		Reason:    "incomplete glyph",
	}
	errGlyphRange = &font.InvalidFontError{
		SubSystem: "sfnt/glyf",
		Reason:    "glyph index out of range",
	}
)
