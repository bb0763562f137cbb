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
	"fmt"

	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/sfntsubset/font"
	"seehuhn.de/go/sfntsubset/sfnt/cmap"
	"seehuhn.de/go/sfntsubset/sfnt/hdmx"
	"seehuhn.de/go/sfntsubset/sfnt/head"
	"seehuhn.de/go/sfntsubset/sfnt/kern"
	"seehuhn.de/go/sfntsubset/sfnt/maxp"
	"seehuhn.de/go/sfntsubset/sfnt/post"
	"seehuhn.de/go/sfntsubset/sfnt/vorg"
)

// A rewriter produces the table data for the subset font.
// If the returned data is nil, the table is omitted.
type rewriter func(s *subsetter, tag string, data []byte) ([]byte, []Diagnostic, error)

// rewriters gives the policy for every table which needs special
// treatment.  All other tables are copied unchanged.
var rewriters = map[string]rewriter{
	"glyf": rewriteGlyf,
	"loca": rewriteGlyf,
	"CFF ": rewriteCFF,
	"head": rewriteHead,
	"maxp": rewriteMaxp,
	"cmap": rewriteCmap,
	"post": rewritePost,
	"hhea": metricsTable,
	"hmtx": metricsTable,
	"vhea": metricsTable,
	"vmtx": metricsTable,
	"VORG": optional(rewriteVORG),
	"kern": optional(rewriteKern),
	"hdmx": optional(rewriteHdmx),
	"LTSH": optional(rewriteHdmx),

	"fpgm": hintingTable,
	"prep": hintingTable,
	"cvt ": hintingTable,
	"VDMX": hintingTable,

	"GSUB": layoutTable,
	"GPOS": layoutTable,
	"GDEF": layoutTable,
	"BASE": layoutTable,
	"JSTF": layoutTable,
	"MATH": layoutTable,
	"morx": layoutTable,
	"mort": layoutTable,
	"kerx": layoutTable,
	"feat": layoutTable,

	"DSIG": dropSignature,
	"EBDT": dropPerGlyph,
	"EBLC": dropPerGlyph,
	"EBSC": dropPerGlyph,
	"CBDT": dropPerGlyph,
	"CBLC": dropPerGlyph,
	"sbix": dropPerGlyph,
	"SVG ": dropPerGlyph,
	"COLR": dropPerGlyph,
	"CPAL": dropPerGlyph,
	"bdat": dropPerGlyph,
	"bloc": dropPerGlyph,
}

// rejectedTables lists tables which mark fonts that cannot be subsetted.
var rejectedTables = []string{
	"CFF2", "fvar", "gvar", "avar", "cvar", "HVAR", "VVAR", "MVAR",
}

func rewriterFor(tag string) rewriter {
	if rw, ok := rewriters[tag]; ok {
		return rw
	}
	return copyTable
}

func copyTable(_ *subsetter, _ string, data []byte) ([]byte, []Diagnostic, error) {
	return data, nil, nil
}

func dropTable(tag, reason string) ([]byte, []Diagnostic, error) {
	d := Diagnostic{Kind: TableDropped, Table: tag, Message: reason}
	return nil, []Diagnostic{d}, nil
}

// optional turns UnsupportedFont errors into a dropped table.
func optional(rw rewriter) rewriter {
	return func(s *subsetter, tag string, data []byte) ([]byte, []Diagnostic, error) {
		out, diags, err := rw(s, tag, data)
		if font.IsUnsupported(err) {
			return dropTable(tag, err.Error())
		}
		return out, diags, err
	}
}

func rewriteGlyf(s *subsetter, tag string, _ []byte) ([]byte, []Diagnostic, error) {
	if s.glyf == nil {
		return dropTable(tag, "no TrueType outlines")
	}
	if tag == "loca" {
		return s.glyf.LocaData, nil, nil
	}
	return s.glyf.GlyfData, nil, nil
}

func rewriteCFF(s *subsetter, tag string, _ []byte) ([]byte, []Diagnostic, error) {
	if s.cff == nil {
		return dropTable(tag, "glyf outlines take precedence")
	}
	out, err := s.cff.Subset(s.remap, s.closure.Subrs)
	return out, nil, err
}

func rewriteHead(s *subsetter, _ string, data []byte) ([]byte, []Diagnostic, error) {
	var bbox *funit.Rect16
	locaFormat := s.head.LocaFormat
	if s.glyf != nil {
		b := s.glyf.FontBBox()
		bbox = &b
		locaFormat = s.glyf.LocaFormat
	}
	return head.Patch(data, bbox, locaFormat), nil, nil
}

func rewriteMaxp(s *subsetter, _ string, data []byte) ([]byte, []Diagnostic, error) {
	info, err := maxp.Decode(data)
	if err != nil {
		return nil, nil, err
	}
	out, err := info.Subset(s.remap.Len(), !s.req.KeepHinting).Encode()
	return out, nil, err
}

func rewriteCmap(s *subsetter, tag string, data []byte) ([]byte, []Diagnostic, error) {
	ss, err := cmap.Decode(data)
	if err != nil {
		return nil, nil, err
	}
	out, dropped, err := ss.Subset(s.remap)
	if err != nil {
		return nil, nil, err
	}
	var diags []Diagnostic
	for _, d := range dropped {
		diags = append(diags, Diagnostic{
			Kind:  SubtableDropped,
			Table: tag,
			Message: fmt.Sprintf("(%d,%d) format %d: %s",
				d.PlatformID, d.EncodingID, d.Format, d.Reason),
		})
	}
	if s.req.MapGlyphsToPUA {
		err = out.AddPUA(s.remap.Len())
		if err != nil {
			return nil, nil, err
		}
	}
	return out.Encode(), diags, nil
}

func rewritePost(s *subsetter, tag string, data []byte) ([]byte, []Diagnostic, error) {
	info, err := post.Decode(data, s.numGlyphs)
	if err != nil {
		return nil, nil, err
	}
	sub, lost := info.Subset(s.remap, s.req.KeepGlyphNames)
	var diags []Diagnostic
	if lost {
		reason := "glyph names not requested"
		if s.req.KeepGlyphNames {
			reason = fmt.Sprintf("glyph names in table version 0x%08x not supported", info.Version)
		}
		diags = append(diags, Diagnostic{Kind: NamesDropped, Table: tag, Message: reason})
	}
	return sub.Encode(), diags, nil
}

func metricsTable(s *subsetter, tag string, _ []byte) ([]byte, []Diagnostic, error) {
	return s.metrics[tag], nil, nil
}

func rewriteVORG(s *subsetter, _ string, data []byte) ([]byte, []Diagnostic, error) {
	info, err := vorg.Decode(data)
	if err != nil {
		return nil, nil, err
	}
	return info.Subset(s.remap).Encode(), nil, nil
}

func rewriteKern(s *subsetter, tag string, data []byte) ([]byte, []Diagnostic, error) {
	if !s.req.KeepLayoutTables {
		return dropTable(tag, "layout tables not requested")
	}
	out, formats, err := kern.Subset(data, s.remap)
	if err != nil {
		return nil, nil, err
	}
	var diags []Diagnostic
	for _, format := range formats {
		diags = append(diags, Diagnostic{
			Kind:    SubtableDropped,
			Table:   tag,
			Message: fmt.Sprintf("format %d not supported", format),
		})
	}
	return out, diags, nil
}

func rewriteHdmx(s *subsetter, tag string, data []byte) ([]byte, []Diagnostic, error) {
	if !s.req.KeepHinting {
		return dropTable(tag, "hinting not requested")
	}
	var out []byte
	var err error
	if tag == "LTSH" {
		out, err = hdmx.SubsetLTSH(data, s.remap)
	} else {
		out, err = hdmx.Subset(data, s.numGlyphs, s.remap)
	}
	return out, nil, err
}

func hintingTable(s *subsetter, tag string, data []byte) ([]byte, []Diagnostic, error) {
	if !s.req.KeepHinting {
		return dropTable(tag, "hinting not requested")
	}
	return data, nil, nil
}

func layoutTable(s *subsetter, tag string, data []byte) ([]byte, []Diagnostic, error) {
	if !s.req.KeepLayoutTables {
		return dropTable(tag, "layout tables not requested")
	}
	if !s.remap.IsIdentity(s.numGlyphs) {
		return dropTable(tag, "cannot renumber glyphs in layout tables")
	}
	return data, nil, nil
}

func dropSignature(_ *subsetter, tag string, _ []byte) ([]byte, []Diagnostic, error) {
	return dropTable(tag, "signature is invalid for the subset font")
}

func dropPerGlyph(_ *subsetter, tag string, _ []byte) ([]byte, []Diagnostic, error) {
	return dropTable(tag, "per-glyph data cannot be renumbered")
}
