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

package glyf

import (
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/sfntsubset/font"
	"seehuhn.de/go/sfntsubset/sfnt/remap"
)

// Subsetted holds the rewritten glyf and loca tables.
type Subsetted struct {
	Encoded

	// BBoxes contains the bounding box of every glyph, indexed by new glyph
	// ID.  Glyphs without an outline have a nil entry.
	BBoxes []*funit.Rect16
}

// Subset builds new glyf and loca tables which contain the glyphs retained
// by m, in the order of the new glyph IDs.  Component references inside
// composite glyphs are translated to the new glyph IDs.
// If stripHinting is set, all TrueType instructions are removed.
func (g *Glyphs) Subset(m *remap.Table, stripHinting bool) (*Subsetted, error) {
	oldGIDs := m.OldGIDs()
	offs := make([]int, 0, len(oldGIDs)+1)
	bboxes := make([]*funit.Rect16, len(oldGIDs))
	var buf []byte
	for newGID, oldGID := range oldGIDs {
		offs = append(offs, len(buf))
		if int(oldGID) >= g.NumGlyphs() {
			return nil, errGlyphRange
		}
		rec := g.Record(oldGID)
		if len(rec) == 0 {
			continue
		}
		if len(rec) < glyphHeaderSize {
			return nil, errIncompleteGlyph
		}

		if stripHinting {
			var err error
			rec, err = stripInstructions(rec)
			if err != nil {
				return nil, err
			}
		}

		start := len(buf)
		buf = append(buf, rec...)
		if isComposite(rec) {
			out := buf[start:]
			_, _, err := walkComponents(out, func(pos int, _ uint16, comp glyph.ID) error {
				newComp, ok := m.New(comp)
				if !ok {
					return &font.ReferenceError{
						SubSystem: "sfnt/glyf",
						Kind:      "glyph",
						Index:     int(comp),
					}
				}
				out[pos] = byte(newComp >> 8)
				out[pos+1] = byte(newComp)
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
		for len(buf)%glyfAlign != 0 {
			buf = append(buf, 0)
		}

		bbox := readBBox(rec)
		bboxes[newGID] = &bbox
	}
	offs = append(offs, len(buf))

	locaData, locaFormat := encodeLoca(offs)
	if buf == nil {
		buf = []byte{}
	}
	res := &Subsetted{
		Encoded: Encoded{
			GlyfData:   buf,
			LocaData:   locaData,
			LocaFormat: locaFormat,
		},
		BBoxes: bboxes,
	}
	return res, nil
}

// FontBBox returns the union of all glyph bounding boxes.
// The zero rectangle is returned if no glyph has an outline.
func (s *Subsetted) FontBBox() funit.Rect16 {
	var res funit.Rect16
	first := true
	for _, b := range s.BBoxes {
		if b == nil {
			continue
		}
		if first {
			res = *b
			first = false
			continue
		}
		res.LLx = min(res.LLx, b.LLx)
		res.LLy = min(res.LLy, b.LLy)
		res.URx = max(res.URx, b.URx)
		res.URy = max(res.URy, b.URy)
	}
	return res
}
