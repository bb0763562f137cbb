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

package sfntsubset

import (
	"bytes"
	"fmt"

	"golang.org/x/sync/errgroup"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/sfntsubset/font"
	"seehuhn.de/go/sfntsubset/font/cff"
	"seehuhn.de/go/sfntsubset/sfnt/closure"
	"seehuhn.de/go/sfntsubset/sfnt/cmap"
	"seehuhn.de/go/sfntsubset/sfnt/fontview"
	"seehuhn.de/go/sfntsubset/sfnt/glyf"
	"seehuhn.de/go/sfntsubset/sfnt/head"
	"seehuhn.de/go/sfntsubset/sfnt/header"
	"seehuhn.de/go/sfntsubset/sfnt/hmtx"
	"seehuhn.de/go/sfntsubset/sfnt/maxp"
	"seehuhn.de/go/sfntsubset/sfnt/remap"
)

// Subset returns a font file which contains only the glyphs described by
// req.  The input data is not modified.
func Subset(data []byte, req *Request) ([]byte, error) {
	res, err := Run(data, req)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// Run is like [Subset], but also returns the glyph mapping and the list of
// non-fatal problems encountered.
func Run(data []byte, req *Request) (*Result, error) {
	if req == nil {
		req = &Request{}
	}
	s, err := prepare(data, req)
	if err != nil {
		return nil, err
	}

	tags := s.font.Tags()
	outputs := make([][]byte, len(tags))
	diags := make([][]Diagnostic, len(tags))
	rewriteOne := func(i int) error {
		tag := tags[i]
		body, err := s.font.Table(tag)
		if err != nil {
			return err
		}
		out, dd, err := rewriterFor(tag)(s, tag, body)
		if err != nil {
			return fmt.Errorf("%q table: %w", tag, err)
		}
		outputs[i] = out
		diags[i] = dd
		return nil
	}
	if req.Parallel {
		var g errgroup.Group
		for i := range tags {
			g.Go(func() error { return rewriteOne(i) })
		}
		err = g.Wait()
	} else {
		for i := range tags {
			err = rewriteOne(i)
			if err != nil {
				break
			}
		}
	}
	if err != nil {
		return nil, err
	}

	tables := make(map[string][]byte, len(tags))
	for i, tag := range tags {
		if outputs[i] != nil {
			tables[tag] = outputs[i]
		}
		s.diags = append(s.diags, diags[i]...)
	}

	buf := &bytes.Buffer{}
	_, err = header.Write(buf, s.font.ScalerType, tables)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Data:        buf.Bytes(),
		Remap:       s.remap,
		NumGlyphs:   s.numGlyphs,
		Head:        s.head,
		Diagnostics: s.diags,
	}
	return res, nil
}

// subsetter holds the state shared by the table rewriters.
// All fields are read-only once prepare returns.
type subsetter struct {
	req       *Request
	font      *fontview.Font
	numGlyphs int
	head      *head.Info
	remap     *remap.Table
	closure   *closure.Set

	cff  *cff.Font       // nil for TrueType fonts
	glyf *glyf.Subsetted // nil for CFF fonts

	// metrics contains the rewritten hhea/hmtx and vhea/vmtx tables.
	metrics map[string][]byte

	diags []Diagnostic
}

// prepare parses the font, computes the glyph closure and the new glyph
// numbering, and rewrites the tables other tables depend on.
func prepare(data []byte, req *Request) (*subsetter, error) {
	f, err := fontview.Read(data)
	if err != nil {
		return nil, err
	}
	for _, tag := range rejectedTables {
		if f.Has(tag) {
			return nil, &font.NotSupportedError{
				SubSystem: "sfntsubset",
				Feature:   fmt.Sprintf("%q table", tag),
			}
		}
	}

	s := &subsetter{
		req:     req,
		font:    f,
		metrics: make(map[string][]byte),
	}

	headData, err := requiredTable(f, "head")
	if err != nil {
		return nil, err
	}
	s.head, err = head.Read(headData)
	if err != nil {
		return nil, err
	}
	maxpData, err := requiredTable(f, "maxp")
	if err != nil {
		return nil, err
	}
	maxpInfo, err := maxp.Decode(maxpData)
	if err != nil {
		return nil, err
	}
	s.numGlyphs = maxpInfo.NumGlyphs

	seeds, err := s.seeds()
	if err != nil {
		return nil, err
	}

	var glyphs *glyf.Glyphs
	switch {
	case f.Has("glyf"):
		glyfData, err := requiredTable(f, "glyf")
		if err != nil {
			return nil, err
		}
		locaData, err := requiredTable(f, "loca")
		if err != nil {
			return nil, err
		}
		glyphs, err = glyf.Decode(&glyf.Encoded{
			GlyfData:   glyfData,
			LocaData:   locaData,
			LocaFormat: s.head.LocaFormat,
		}, s.numGlyphs)
		if err != nil {
			return nil, err
		}
		s.closure, err = closure.Glyf(glyphs, seeds)
		if err != nil {
			return nil, err
		}

	case f.Has("CFF "):
		cffData, err := f.Table("CFF ")
		if err != nil {
			return nil, err
		}
		s.cff, err = cff.Read(cffData)
		if err != nil {
			return nil, err
		}
		if s.cff.NumGlyphs() != s.numGlyphs {
			return nil, &font.InvalidFontError{
				SubSystem: "sfntsubset",
				Reason: fmt.Sprintf("maxp has %d glyphs, CFF has %d",
					s.numGlyphs, s.cff.NumGlyphs()),
			}
		}
		s.closure, err = closure.CFF(s.cff, seeds)
		if err != nil {
			return nil, err
		}

	default:
		return nil, &font.NotSupportedError{
			SubSystem: "sfntsubset",
			Feature:   "fonts without glyf or CFF outlines",
		}
	}

	s.remap = remap.New(s.closure.Glyphs)

	var bboxes []*funit.Rect16
	if glyphs != nil {
		s.glyf, err = glyphs.Subset(s.remap, !req.KeepHinting)
		if err != nil {
			return nil, err
		}
		bboxes = s.glyf.BBoxes
	}

	err = s.rewriteMetrics("hhea", "hmtx", false, bboxes)
	if err != nil {
		return nil, err
	}
	err = s.rewriteMetrics("vhea", "vmtx", true, bboxes)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// requiredTable returns the data of a table which the font must contain.
func requiredTable(f *fontview.Font, tag string) ([]byte, error) {
	data, err := f.Table(tag)
	if fontview.IsMissing(err) {
		return nil, &font.InvalidFontError{
			SubSystem: "sfntsubset",
			Reason:    fmt.Sprintf("required %q table is missing", tag),
		}
	}
	return data, err
}

// seeds returns the glyphs requested by s.req which exist in the font.
// Unmapped characters and invalid glyph IDs are reported as diagnostics.
func (s *subsetter) seeds() ([]glyph.ID, error) {
	var seeds []glyph.ID

	if len(s.req.Codepoints) > 0 {
		var lookup cmap.Lookup
		if s.font.Has("cmap") {
			cmapData, err := s.font.Table("cmap")
			if err != nil {
				return nil, err
			}
			ss, err := cmap.Decode(cmapData)
			if err != nil {
				return nil, err
			}
			lookup, _, err = ss.Best()
			if err != nil {
				return nil, err
			}
		}
		for _, r := range s.req.Codepoints {
			var gid glyph.ID
			if lookup != nil {
				gid = lookup(r)
			}
			if gid == 0 || int(gid) >= s.numGlyphs {
				s.diags = append(s.diags, Diagnostic{
					Kind:    UnmappedCodepoint,
					Message: fmt.Sprintf("U+%04X is not mapped", r),
				})
				continue
			}
			seeds = append(seeds, gid)
		}
	}

	for _, gid := range s.req.GlyphIDs {
		if int(gid) >= s.numGlyphs {
			s.diags = append(s.diags, Diagnostic{
				Kind: GlyphOutOfRange,
				Message: fmt.Sprintf("glyph %d is outside the font (%d glyphs)",
					gid, s.numGlyphs),
			})
			continue
		}
		seeds = append(seeds, gid)
	}
	return seeds, nil
}

// rewriteMetrics rewrites a header/metrics table pair.
// If only one of the two tables is present, the font is malformed.
func (s *subsetter) rewriteMetrics(hdrTag, mtxTag string, vertical bool, bboxes []*funit.Rect16) error {
	hasHdr, hasMtx := s.font.Has(hdrTag), s.font.Has(mtxTag)
	if !hasHdr && !hasMtx {
		return nil
	}
	if hasHdr != hasMtx {
		return &font.InvalidFontError{
			SubSystem: "sfntsubset",
			Reason:    fmt.Sprintf("%q and %q tables must be used together", hdrTag, mtxTag),
		}
	}
	hdrData, err := s.font.Table(hdrTag)
	if err != nil {
		return err
	}
	mtxData, err := s.font.Table(mtxTag)
	if err != nil {
		return err
	}
	m, err := hmtx.Decode(hdrData, mtxData, s.numGlyphs, vertical)
	if err != nil {
		return err
	}
	hdrOut, mtxOut := m.Subset(s.remap).Encode(bboxes)
	s.metrics[hdrTag] = hdrOut
	s.metrics[mtxTag] = mtxOut
	return nil
}
