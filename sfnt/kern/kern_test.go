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

package kern

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/sfntsubset/font"
	"seehuhn.de/go/sfntsubset/sfnt/remap"
)

type pair struct {
	Left, Right glyph.ID
	Value       int16
}

func format0(pairs []pair) []byte {
	var body []byte
	for _, p := range pairs {
		body = binary.BigEndian.AppendUint16(body, uint16(p.Left))
		body = binary.BigEndian.AppendUint16(body, uint16(p.Right))
		body = binary.BigEndian.AppendUint16(body, uint16(p.Value))
	}
	length := subHeaderLen + len(body)
	buf := []byte{0, 0, byte(length >> 8), byte(length), 0, 1,
		0, byte(len(pairs)), 0, 0, 0, 0, 0, 0}
	return append(buf, body...)
}

func decodePairs(t *testing.T, sub []byte) []pair {
	t.Helper()
	n := int(binary.BigEndian.Uint16(sub[6:]))
	if len(sub) < subHeaderLen+pairLen*n {
		t.Fatalf("subtable too short")
	}
	var res []pair
	for i := range n {
		b := sub[subHeaderLen+pairLen*i:]
		res = append(res, pair{
			Left:  glyph.ID(binary.BigEndian.Uint16(b)),
			Right: glyph.ID(binary.BigEndian.Uint16(b[2:])),
			Value: int16(binary.BigEndian.Uint16(b[4:])),
		})
	}
	return res
}

func TestSubset(t *testing.T) {
	sub0 := format0([]pair{
		{1, 2, -50},
		{1, 4, -20},
		{3, 4, 10},
		{4, 1, -30},
	})
	sub2 := []byte{0, 0, 0, 8, 2, 1, 0, 0} // format 2, skipped
	data := []byte{0, 0, 0, 2}
	data = append(data, sub2...)
	data = append(data, sub0...)

	m := remap.New(map[glyph.ID]bool{0: true, 1: true, 4: true})
	out, dropped, err := Subset(data, m)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]int{2}, dropped); d != "" {
		t.Error(d)
	}
	if n := binary.BigEndian.Uint16(out[2:]); n != 1 {
		t.Fatalf("%d subtables", n)
	}

	sub := out[headerLen:]
	want := []pair{{1, 2, -20}, {2, 1, -30}}
	if d := cmp.Diff(want, decodePairs(t, sub)); d != "" {
		t.Error(d)
	}
	// searchRange, entrySelector, rangeShift for two pairs
	if d := cmp.Diff([]byte{0, 12, 0, 1, 0, 0}, sub[8:14]); d != "" {
		t.Error(d)
	}
	if l := binary.BigEndian.Uint16(sub[2:]); int(l) != len(sub) {
		t.Errorf("length %d != %d", l, len(sub))
	}

	again, _, err := Subset(out, remap.New(map[glyph.ID]bool{0: true, 1: true, 2: true}))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(out, again); d != "" {
		t.Errorf("not idempotent: %s", d)
	}
}

func TestSubsetEmpty(t *testing.T) {
	data := append([]byte{0, 0, 0, 1}, format0([]pair{{1, 2, -50}})...)
	out, dropped, err := Subset(data, remap.New(map[glyph.ID]bool{0: true, 1: true}))
	if err != nil {
		t.Fatal(err)
	}
	if out != nil || dropped != nil {
		t.Errorf("got %v %v", out, dropped)
	}
}

func TestErrors(t *testing.T) {
	m := remap.New(map[glyph.ID]bool{0: true})
	_, _, err := Subset([]byte{0, 1, 0, 0, 0, 0, 0, 0}, m)
	if !font.IsUnsupported(err) {
		t.Errorf("Apple kern: got %v", err)
	}

	data := append([]byte{0, 0, 0, 1}, format0([]pair{{1, 2, -50}})...)
	_, _, err = Subset(data[:len(data)-2], m)
	if !font.IsMalformed(err) {
		t.Errorf("truncated: got %v", err)
	}
}
