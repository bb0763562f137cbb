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
	"encoding/binary"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/sfntsubset/font"
	"seehuhn.de/go/sfntsubset/font/cff"
	"seehuhn.de/go/sfntsubset/internal/fonttest"
	"seehuhn.de/go/sfntsubset/sfnt/cmap"
	"seehuhn.de/go/sfntsubset/sfnt/fontview"
	"seehuhn.de/go/sfntsubset/sfnt/glyf"
	"seehuhn.de/go/sfntsubset/sfnt/head"
	"seehuhn.de/go/sfntsubset/sfnt/header"
)

var box = [4]int16{50, 0, 450, 700}

// checkFile verifies the structure of a font file: table order and
// alignment, and all checksums.
func checkFile(t *testing.T, data []byte) *fontview.Font {
	t.Helper()
	f, err := fontview.Read(data)
	if err != nil {
		t.Fatal(err)
	}

	numTables := int(binary.BigEndian.Uint16(data[4:]))
	var tags []string
	for i := range numTables {
		rec := data[12+16*i:]
		tags = append(tags, string(rec[:4]))
		if offs := binary.BigEndian.Uint32(rec[8:]); offs%4 != 0 {
			t.Errorf("%q table not aligned", rec[:4])
		}
	}
	if !slices.IsSorted(tags) {
		t.Errorf("tables not sorted: %q", tags)
	}

	for tag, rec := range f.Toc {
		body, _ := f.Table(tag)
		if tag == "head" {
			body = slices.Clone(body)
			clear(body[8:12])
		}
		if sum := header.Checksum(body); sum != rec.CheckSum {
			t.Errorf("%q: checksum %08x != %08x", tag, sum, rec.CheckSum)
		}
	}
	if !header.VerifyChecksumAdjustment(data, int(f.Toc["head"].Offset)) {
		t.Error("wrong checkSumAdjustment")
	}
	return f
}

func readGlyf(t *testing.T, f *fontview.Font, numGlyphs int) *glyf.Glyphs {
	t.Helper()
	headData, _ := f.Table("head")
	info, err := head.Read(headData)
	if err != nil {
		t.Fatal(err)
	}
	glyfData, _ := f.Table("glyf")
	locaData, _ := f.Table("loca")
	g, err := glyf.Decode(&glyf.Encoded{
		GlyfData:   glyfData,
		LocaData:   locaData,
		LocaFormat: info.LocaFormat,
	}, numGlyphs)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func lookup(t *testing.T, f *fontview.Font) cmap.Lookup {
	t.Helper()
	data, err := f.Table("cmap")
	if err != nil {
		t.Fatal(err)
	}
	ss, err := cmap.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	lookup, _, err := ss.Best()
	if err != nil || lookup == nil {
		t.Fatalf("no usable cmap subtable: %v", err)
	}
	return lookup
}

func TestSingleGlyph(t *testing.T) {
	fnt := &fonttest.TrueType{
		Glyphs: make([]fonttest.Glyph, 6),
		CMap:   map[rune]glyph.ID{'A': 5, 'B': 4},
	}
	for i := range fnt.Glyphs {
		fnt.Glyphs[i] = fonttest.Glyph{Width: 500 + uint16(i), Box: box}
	}

	res, err := Run(fnt.Build(), &Request{Codepoints: []rune{'A'}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Remap.Len() != 2 || res.NumGlyphs != 6 {
		t.Fatalf("%d glyphs retained, of %d", res.Remap.Len(), res.NumGlyphs)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", res.Diagnostics)
	}

	f := checkFile(t, res.Data)
	if gid := lookup(t, f)('A'); gid != 1 {
		t.Errorf("'A' mapped to glyph %d", gid)
	}
	if gid := lookup(t, f)('B'); gid != 0 {
		t.Errorf("'B' mapped to glyph %d", gid)
	}

	headData, _ := f.Table("head")
	info, _ := head.Read(headData)
	locaData, _ := f.Table("loca")
	entrySize := 2
	if info.LocaFormat == 1 {
		entrySize = 4
	}
	if n := len(locaData) / entrySize; n != 3 {
		t.Errorf("%d loca entries", n)
	}

	hmtxData, _ := f.Table("hmtx")
	if d := cmp.Diff([]byte{0x01, 0xF4, 0, 50, 0x01, 0xF9, 0, 50}, hmtxData); d != "" {
		t.Errorf("hmtx: %s", d)
	}
}

func TestComposite(t *testing.T) {
	fnt := &fonttest.TrueType{
		Glyphs: []fonttest.Glyph{
			{Width: 500, Box: box},
			{Width: 500, Box: box},
			{Width: 500, Box: box},
			{Width: 500, Box: [4]int16{100, 700, 300, 800}},
			{Width: 500, Box: box, Components: []glyph.ID{2, 3}},
		},
		CMap: map[rune]glyph.ID{'a': 2, 'é': 4},
	}

	res, err := Run(fnt.Build(), &Request{Codepoints: []rune{'é'}})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]glyph.ID{0, 2, 3, 4}, res.Remap.OldGIDs()); d != "" {
		t.Fatal(d)
	}

	f := checkFile(t, res.Data)
	g := readGlyf(t, f, 4)
	comps, err := g.Components(3)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]glyph.ID{1, 2}, comps); d != "" {
		t.Errorf("components: %s", d)
	}
	if gid := lookup(t, f)('é'); gid != 3 {
		t.Errorf("'é' mapped to glyph %d", gid)
	}
	if gid := lookup(t, f)('a'); gid != 1 {
		t.Errorf("'a' mapped to glyph %d", gid)
	}

	headData, _ := f.Table("head")
	info, _ := head.Read(headData)
	if info.FontBBox.URy != 800 || info.FontBBox.LLx != 50 {
		t.Errorf("wrong font bbox %v", info.FontBBox)
	}
}

func TestUnmapped(t *testing.T) {
	fnt := &fonttest.TrueType{
		Glyphs: []fonttest.Glyph{{Width: 500, Box: box}, {Width: 500, Box: box}},
		CMap:   map[rune]glyph.ID{'A': 1},
	}

	res, err := Run(fnt.Build(), &Request{
		Codepoints: []rune{'Z'},
		GlyphIDs:   []glyph.ID{7},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Remap.Len() != 1 {
		t.Errorf("%d glyphs retained", res.Remap.Len())
	}
	var kinds []DiagnosticKind
	for _, d := range res.Diagnostics {
		kinds = append(kinds, d.Kind)
	}
	if d := cmp.Diff([]DiagnosticKind{UnmappedCodepoint, GlyphOutOfRange}, kinds); d != "" {
		t.Error(d)
	}
	checkFile(t, res.Data)

	// a nil request keeps only .notdef
	out, err := Subset(fnt.Build(), nil)
	if err != nil {
		t.Fatal(err)
	}
	f := checkFile(t, out)
	maxpData, _ := f.Table("maxp")
	if n := binary.BigEndian.Uint16(maxpData[4:]); n != 1 {
		t.Errorf("numGlyphs = %d", n)
	}
}

func TestTablePolicy(t *testing.T) {
	fnt := &fonttest.TrueType{
		Glyphs: []fonttest.Glyph{
			{Width: 500, Box: box, Instructions: []byte{0xB0, 0x01}},
			{Width: 500, Box: box, Instructions: []byte{0xB0, 0x02}},
			{Width: 500, Box: box},
		},
		CMap:  map[rune]glyph.ID{'A': 1, 'B': 2},
		Names: []string{".notdef", "A", "B"},
		Extra: map[string][]byte{
			"fpgm": {0xB0, 0x00},
			"GSUB": {0, 1, 0, 0, 0, 10, 0, 10, 0, 10},
			"DSIG": {0, 0, 0, 1, 0, 0, 0, 0},
			"gasp": {0, 1, 0, 1, 0xFF, 0xFF, 0, 2},
		},
	}
	data := fnt.Build()

	type want struct {
		present []string
		absent  []string
	}
	cases := []struct {
		req  *Request
		want want
	}{
		{
			req: &Request{Codepoints: []rune{'A'}},
			want: want{
				present: []string{"gasp", "post"},
				absent:  []string{"fpgm", "GSUB", "DSIG"},
			},
		},
		{
			req: &Request{Codepoints: []rune{'A'}, KeepHinting: true, KeepLayoutTables: true},
			want: want{
				present: []string{"fpgm", "gasp"},
				absent:  []string{"GSUB", "DSIG"},
			},
		},
		{
			req: &Request{Codepoints: []rune{'A', 'B'}, KeepLayoutTables: true},
			want: want{
				present: []string{"GSUB", "gasp"},
				absent:  []string{"fpgm", "DSIG"},
			},
		},
	}
	for i, test := range cases {
		res, err := Run(data, test.req)
		if err != nil {
			t.Fatal(err)
		}
		f := checkFile(t, res.Data)
		for _, tag := range test.want.present {
			if !f.Has(tag) {
				t.Errorf("%d: %q missing", i, tag)
			}
		}
		for _, tag := range test.want.absent {
			if f.Has(tag) {
				t.Errorf("%d: %q present", i, tag)
			}
			found := false
			for _, d := range res.Diagnostics {
				if d.Kind == TableDropped && d.Table == tag {
					found = true
				}
			}
			if !found {
				t.Errorf("%d: no diagnostic for %q", i, tag)
			}
		}

		gasp, _ := f.Table("gasp")
		if d := cmp.Diff(fnt.Extra["gasp"], gasp); d != "" {
			t.Errorf("%d: gasp changed: %s", i, d)
		}

		g := readGlyf(t, f, res.Remap.Len())
		rec := g.Record(1)
		instrLen := binary.BigEndian.Uint16(rec[12:])
		if test.req.KeepHinting != (instrLen == 2) {
			t.Errorf("%d: instruction length %d", i, instrLen)
		}
	}
}

func TestGlyphNames(t *testing.T) {
	fnt := &fonttest.TrueType{
		Glyphs: []fonttest.Glyph{{Box: box}, {Box: box}, {Box: box}},
		CMap:   map[rune]glyph.ID{'A': 1, 'B': 2},
		Names:  []string{".notdef", "Alpha", "Beta"},
	}
	data := fnt.Build()

	res, err := Run(data, &Request{Codepoints: []rune{'B'}, KeepGlyphNames: true})
	if err != nil {
		t.Fatal(err)
	}
	f := checkFile(t, res.Data)
	postData, _ := f.Table("post")
	// version 2.0, two glyphs: .notdef from the standard names, then "Beta"
	if d := cmp.Diff([]byte{0, 2, 0, 0, 1, 2, 4, 'B', 'e', 't', 'a'}, postData[32:]); d != "" {
		t.Errorf("post: %s", d)
	}

	res, err = Run(data, &Request{Codepoints: []rune{'B'}})
	if err != nil {
		t.Fatal(err)
	}
	postData, _ = checkFile(t, res.Data).Table("post")
	if len(postData) != 32 || postData[1] != 3 {
		t.Errorf("post not converted to version 3")
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Kind != NamesDropped {
		t.Errorf("diagnostics: %v", res.Diagnostics)
	}
}

func TestPUA(t *testing.T) {
	fnt := &fonttest.TrueType{
		Glyphs: []fonttest.Glyph{{Box: box}, {Box: box}, {Box: box}},
		CMap:   map[rune]glyph.ID{'A': 1, 'B': 2},
	}
	res, err := Run(fnt.Build(), &Request{Codepoints: []rune{'B'}, MapGlyphsToPUA: true})
	if err != nil {
		t.Fatal(err)
	}
	f := checkFile(t, res.Data)
	lu := lookup(t, f)
	if gid := lu(cmap.PUABase + 1); gid != 1 {
		t.Errorf("PUA code point mapped to %d", gid)
	}
	if gid := lu('B'); gid != 1 {
		t.Errorf("'B' mapped to %d", gid)
	}
}

func TestCFF(t *testing.T) {
	T2 := fonttest.T2
	fnt := &fonttest.CFF{
		CharStrings: [][]byte{
			T2(0, 0, "rmoveto", "endchar"),
			T2(0, 0, "rmoveto", 0-107, "callgsubr", "endchar"),
			T2(0, 0, "rmoveto", 1-107, "callgsubr", "endchar"),
		},
		GlobalSubrs: [][]byte{
			T2(100, 0, "rlineto", "return"),
			T2(0, 100, "rlineto", "return"),
		},
		Privates: []fonttest.Private{{}},
		CMap:     map[rune]glyph.ID{'A': 1, 'B': 2},
	}

	res, err := Run(fnt.Build(), &Request{Codepoints: []rune{'B'}})
	if err != nil {
		t.Fatal(err)
	}
	f := checkFile(t, res.Data)
	if f.ScalerType != fontview.ScalerTypeCFF {
		t.Errorf("scaler type %08x", f.ScalerType)
	}
	if gid := lookup(t, f)('B'); gid != 1 {
		t.Errorf("'B' mapped to %d", gid)
	}

	cffData, _ := f.Table("CFF ")
	out, err := cff.Read(cffData)
	if err != nil {
		t.Fatal(err)
	}
	if out.NumGlyphs() != 2 {
		t.Errorf("%d glyphs in CFF", out.NumGlyphs())
	}
	// the only remaining global subroutine is renumbered to index 0
	want := T2(0, 0, "rmoveto", 0-107, "callgsubr", "endchar")
	if d := cmp.Diff(want, out.CharString(1)); d != "" {
		t.Error(d)
	}
}

func TestRejected(t *testing.T) {
	fnt := &fonttest.TrueType{
		Glyphs: []fonttest.Glyph{{Box: box}},
		Extra:  map[string][]byte{"fvar": {0, 1, 0, 0}},
	}
	_, err := Subset(fnt.Build(), nil)
	if !font.IsUnsupported(err) {
		t.Errorf("expected UnsupportedFont, got %v", err)
	}

	_, err = Subset([]byte("ttcf\x00\x01\x00\x00"), nil)
	if !font.IsUnsupported(err) {
		t.Errorf("expected UnsupportedFont, got %v", err)
	}
}

func TestMalformed(t *testing.T) {
	fnt := &fonttest.TrueType{
		Glyphs: []fonttest.Glyph{
			{Box: box},
			{Box: box, Components: []glyph.ID{9}},
		},
		CMap: map[rune]glyph.ID{'A': 1},
	}
	_, err := Subset(fnt.Build(), &Request{Codepoints: []rune{'A'}})
	if !font.IsMalformed(err) {
		t.Errorf("expected MalformedFont, got %v", err)
	}

	_, err = Subset([]byte{0, 1, 0, 0}, nil)
	if !font.IsMalformed(err) {
		t.Errorf("expected MalformedFont, got %v", err)
	}
}

// withoutTable removes a table from an assembled font file.
func withoutTable(t *testing.T, data []byte, tag string) []byte {
	t.Helper()
	f, err := fontview.Read(data)
	if err != nil {
		t.Fatal(err)
	}
	tables := make(map[string][]byte)
	for _, name := range f.Tags() {
		if name == tag {
			continue
		}
		tables[name], err = f.Table(name)
		if err != nil {
			t.Fatal(err)
		}
	}
	buf := &bytes.Buffer{}
	_, err = header.Write(buf, f.ScalerType, tables)
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestMissingTables(t *testing.T) {
	fnt := &fonttest.TrueType{
		Glyphs: []fonttest.Glyph{{Box: box}, {Width: 500, Box: box}},
		CMap:   map[rune]glyph.ID{'A': 1},
	}
	data := fnt.Build()
	req := &Request{Codepoints: []rune{'A'}}

	for _, tag := range []string{"head", "maxp", "loca", "hmtx"} {
		_, err := Subset(withoutTable(t, data, tag), req)
		if !font.IsMalformed(err) {
			t.Errorf("without %q: expected MalformedFont, got %v", tag, err)
		}
	}
}

func TestCmapOffsetOverflow(t *testing.T) {
	fnt := &fonttest.TrueType{
		Glyphs: []fonttest.Glyph{{Box: box}, {Width: 500, Box: box}},
		Extra: map[string][]byte{
			"cmap": {
				0, 0, 0, 1,
				0, 3, 0, 1, 0xFF, 0xFF, 0xFF, 0xFF,
				0, 4, 0, 6,
			},
		},
	}
	_, err := Subset(fnt.Build(), &Request{Codepoints: []rune{'A'}})
	if !font.IsMalformed(err) {
		t.Errorf("expected MalformedFont, got %v", err)
	}
}

func TestHeadInfo(t *testing.T) {
	fnt := &fonttest.TrueType{
		Glyphs: []fonttest.Glyph{{Box: box}, {Width: 500, Box: box}},
		CMap:   map[rune]glyph.ID{'A': 1},
	}
	res, err := Run(fnt.Build(), &Request{Codepoints: []rune{'A'}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Head.UnitsPerEm != fonttest.UnitsPerEm {
		t.Errorf("unitsPerEm %d != %d", res.Head.UnitsPerEm, fonttest.UnitsPerEm)
	}
	if got := res.Head.FontRevision.String(); got != "1.000" {
		t.Errorf("font revision %q", got)
	}
	if !res.Head.Modified.After(res.Head.Created) {
		t.Errorf("created %s, modified %s", res.Head.Created, res.Head.Modified)
	}

	f := checkFile(t, res.Data)
	headData, err := f.Table("head")
	if err != nil {
		t.Fatal(err)
	}
	out, err := head.Read(headData)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Modified.Equal(res.Head.Modified) || out.FontRevision != res.Head.FontRevision {
		t.Error("head metadata changed")
	}
}

func TestParallel(t *testing.T) {
	fnt := &fonttest.TrueType{
		Glyphs: []fonttest.Glyph{
			{Width: 500, Box: box},
			{Width: 600, Box: box},
			{Width: 700, Box: box},
			{Width: 800, Box: box, Components: []glyph.ID{1, 2}},
		},
		CMap:  map[rune]glyph.ID{'A': 1, 'B': 2, 'C': 3},
		Extra: map[string][]byte{"DSIG": {0, 0, 0, 1, 0, 0, 0, 0}},
	}
	data := fnt.Build()

	req := &Request{Codepoints: []rune("AC")}
	seq, err := Run(data, req)
	if err != nil {
		t.Fatal(err)
	}
	req.Parallel = true
	par, err := Run(data, req)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(seq.Data, par.Data) {
		t.Error("parallel output differs")
	}
	if d := cmp.Diff(seq.Diagnostics, par.Diagnostics); d != "" {
		t.Error(d)
	}
}
