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

package hdmx

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/sfntsubset/font"
	"seehuhn.de/go/sfntsubset/sfnt/remap"
)

func TestSubset(t *testing.T) {
	// two device records for 5 glyphs, record size 8
	data := []byte{
		0, 0, 0, 2, 0, 0, 0, 8,
		12, 9, 5, 6, 9, 7, 8, 0,
		16, 12, 7, 8, 12, 9, 10, 0,
	}
	m := remap.New(map[glyph.ID]bool{0: true, 1: true, 3: true})
	out, err := Subset(data, 5, m)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0, 0, 0, 2, 0, 0, 0, 8,
		12, 7, 5, 6, 7, 0, 0, 0,
		16, 9, 7, 8, 9, 0, 0, 0,
	}
	if d := cmp.Diff(want, out); d != "" {
		t.Error(d)
	}

	_, err = Subset(data[:20], 5, m)
	if !font.IsMalformed(err) {
		t.Errorf("expected MalformedFont, got %v", err)
	}
}

func TestSubsetLTSH(t *testing.T) {
	data := []byte{0, 0, 0, 4, 1, 20, 1, 35}
	m := remap.New(map[glyph.ID]bool{0: true, 3: true})
	out, err := SubsetLTSH(data, m)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]byte{0, 0, 0, 2, 1, 35}, out); d != "" {
		t.Error(d)
	}
}
