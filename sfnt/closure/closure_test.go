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

package closure

import (
	"encoding/binary"
	"maps"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/sfntsubset/font"
	"seehuhn.de/go/sfntsubset/font/cff"
	"seehuhn.de/go/sfntsubset/internal/fonttest"
	"seehuhn.de/go/sfntsubset/sfnt/glyf"
)

func makeGlyphs(t *testing.T, gg []fonttest.Glyph) *glyf.Glyphs {
	t.Helper()
	var glyfData, locaData []byte
	for _, g := range gg {
		locaData = binary.BigEndian.AppendUint32(locaData, uint32(len(glyfData)))
		if g.Box != [4]int16{} || len(g.Components) > 0 {
			glyfData = append(glyfData, fonttest.EncodeGlyph(g)...)
		}
	}
	locaData = binary.BigEndian.AppendUint32(locaData, uint32(len(glyfData)))
	glyphs, err := glyf.Decode(&glyf.Encoded{
		GlyfData:   glyfData,
		LocaData:   locaData,
		LocaFormat: 1,
	}, len(gg))
	if err != nil {
		t.Fatal(err)
	}
	return glyphs
}

func sorted(s *Set) []glyph.ID {
	return slices.Sorted(maps.Keys(s.Glyphs))
}

var box = [4]int16{0, 0, 100, 100}

func TestGlyfComposite(t *testing.T) {
	glyphs := makeGlyphs(t, []fonttest.Glyph{
		{Box: box},
		{Box: box},
		{Box: box},
		{Box: box, Components: []glyph.ID{1, 2}},
		{Box: box, Components: []glyph.ID{3}},
		{Box: box},
	})

	cases := []struct {
		seeds []glyph.ID
		want  []glyph.ID
	}{
		{nil, []glyph.ID{0}},
		{[]glyph.ID{5}, []glyph.ID{0, 5}},
		{[]glyph.ID{3}, []glyph.ID{0, 1, 2, 3}},
		{[]glyph.ID{4, 4}, []glyph.ID{0, 1, 2, 3, 4}},
	}
	for _, test := range cases {
		s, err := Glyf(glyphs, test.seeds)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(test.want, sorted(s)); d != "" {
			t.Errorf("seeds %v (-want +got):\n%s", test.seeds, d)
		}
		if s.Subrs != nil {
			t.Error("unexpected subroutines")
		}
	}
}

func TestGlyfCycle(t *testing.T) {
	glyphs := makeGlyphs(t, []fonttest.Glyph{
		{Box: box},
		{Box: box, Components: []glyph.ID{2}},
		{Box: box, Components: []glyph.ID{1}},
	})
	s, err := Glyf(glyphs, []glyph.ID{1})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]glyph.ID{0, 1, 2}, sorted(s)); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestGlyfBadComponent(t *testing.T) {
	glyphs := makeGlyphs(t, []fonttest.Glyph{
		{Box: box},
		{Box: box, Components: []glyph.ID{7}},
	})
	_, err := Glyf(glyphs, []glyph.ID{1})
	if !font.IsMalformed(err) {
		t.Errorf("expected MalformedFont, got %v", err)
	}
}

func TestCFF(t *testing.T) {
	T2 := fonttest.T2
	fnt := &fonttest.CFF{
		CharStrings: [][]byte{
			T2("endchar"),
			T2(0, 0, "rmoveto", 1-107, "callgsubr", "endchar"),
			T2(0, 0, "rmoveto", "endchar"),
		},
		GlobalSubrs: [][]byte{
			T2(10, 0, "rlineto", "return"),
			T2(0, 10, "rlineto", "return"),
		},
		Privates: []fonttest.Private{{}},
	}
	f, err := cff.Read(fnt.Table())
	if err != nil {
		t.Fatal(err)
	}

	s, err := CFF(f, []glyph.ID{1})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]glyph.ID{0, 1}, sorted(s)); d != "" {
		t.Errorf("glyphs (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]int{1}, s.Subrs.Global()); d != "" {
		t.Errorf("global subrs (-want +got):\n%s", d)
	}

	_, err = CFF(f, []glyph.ID{3})
	if !font.IsReference(err) {
		t.Errorf("expected reference error, got %v", err)
	}
}
