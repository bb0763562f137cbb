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

package cmap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/sfntsubset/font"
	"seehuhn.de/go/sfntsubset/sfnt/remap"
)

func TestSubtableRoundTrip(t *testing.T) {
	small := Mapping{
		{Code: 32, GID: 3},
		{Code: 65, GID: 10},
		{Code: 66, GID: 11},
		{Code: 67, GID: 12},
		{Code: 70, GID: 2},
		{Code: 72, GID: 7},
		{Code: 200, GID: 1},
	}
	wide := append(Mapping{}, small...)
	wide = append(wide,
		Pair{Code: 0x1F600, GID: 20},
		Pair{Code: 0x1F601, GID: 21},
		Pair{Code: 0x1F602, GID: 21})

	cases := []struct {
		format uint16
		m      Mapping
	}{
		{0, small},
		{4, small},
		{6, small},
		{12, wide},
		{13, wide},
		{4, nil},
		{12, nil},
	}
	for _, test := range cases {
		data, err := EncodeSubtable(test.format, 0, test.m)
		if err != nil {
			t.Fatalf("format %d: %v", test.format, err)
		}
		if got := Format(data); got != test.format {
			t.Errorf("format %d: encoded as format %d", test.format, got)
		}
		if test.format == 0 {
			length := int(data[2])<<8 | int(data[3])
			if length != 262 || len(data) != 262 {
				t.Errorf("format 0: length field %d, %d bytes", length, len(data))
			}
		}
		decoded, err := DecodeSubtable(data)
		if err != nil {
			t.Fatalf("format %d: %v", test.format, err)
		}
		if d := cmp.Diff(test.m, decoded, cmp.Comparer(func(a, b Mapping) bool {
			return len(a) == 0 && len(b) == 0 || cmp.Equal([]Pair(a), []Pair(b))
		})); d != "" {
			t.Errorf("format %d: (-want +got):\n%s", test.format, d)
		}
	}
}

func TestFormat4Segments(t *testing.T) {
	// A long delta run, a scattered block which is cheaper as a glyph
	// array, and a mapping for the final code 0xFFFF.
	var m Mapping
	for c := uint32(0x41); c <= 0x5A; c++ {
		m = append(m, Pair{Code: c, GID: glyph.ID(c - 0x40)})
	}
	for i, gid := range []glyph.ID{40, 33, 91, 17, 65} {
		m = append(m, Pair{Code: 0x100 + uint32(i), GID: gid})
	}
	m = append(m, Pair{Code: 0xFFFF, GID: 99})

	data, err := encodeFormat4(0, m)
	if err != nil {
		t.Fatal(err)
	}
	segCount := (int(data[6])<<8 | int(data[7])) / 2
	if segCount != 3 {
		t.Errorf("segCount = %d, want 3", segCount)
	}
	length := int(data[2])<<8 | int(data[3])
	if length != len(data) {
		t.Errorf("length field %d, want %d", length, len(data))
	}

	decoded, err := decodeFormat4(data)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(m, decoded); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	again, err := encodeFormat4(0, decoded)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(data, again); d != "" {
		t.Errorf("encoding not deterministic:\n%s", d)
	}
}

func TestFormat4SearchParameters(t *testing.T) {
	m := Mapping{
		{Code: 10, GID: 1},
		{Code: 20, GID: 5},
		{Code: 30, GID: 9},
		{Code: 40, GID: 13},
	}
	data, err := encodeFormat4(0, m)
	if err != nil {
		t.Fatal(err)
	}
	// 4 single delta segments or one array segment, plus the final segment
	segCountX2 := int(data[6])<<8 | int(data[7])
	searchRange := int(data[8])<<8 | int(data[9])
	entrySelector := int(data[10])<<8 | int(data[11])
	rangeShift := int(data[12])<<8 | int(data[13])
	segCount := segCountX2 / 2
	if 1<<entrySelector > segCount || 2<<entrySelector <= segCount {
		t.Errorf("entrySelector %d wrong for %d segments", entrySelector, segCount)
	}
	if searchRange != 2<<entrySelector {
		t.Errorf("searchRange = %d", searchRange)
	}
	if rangeShift != segCountX2-searchRange {
		t.Errorf("rangeShift = %d", rangeShift)
	}
}

func TestSubset(t *testing.T) {
	mapping := Mapping{
		{Code: 'A', GID: 5},
		{Code: 'B', GID: 6},
		{Code: 'C', GID: 7},
	}
	f4, err := EncodeSubtable(4, 0, mapping)
	if err != nil {
		t.Fatal(err)
	}
	f0, err := EncodeSubtable(0, 0, mapping)
	if err != nil {
		t.Fatal(err)
	}
	f14 := []byte{0, 14, 0, 0, 0, 10, 0, 0, 0, 0}
	in := Table{
		{PlatformID: 3, EncodingID: 1}: f4,
		{PlatformID: 0, EncodingID: 3}: f4,
		{PlatformID: 1, EncodingID: 0}: f0,
		{PlatformID: 0, EncodingID: 5}: f14,
	}

	m := remap.New(map[glyph.ID]bool{5: true, 7: true})
	out, dropped, err := in.Subset(m)
	if err != nil {
		t.Fatal(err)
	}

	wantDropped := []Dropped{{
		Key:    Key{PlatformID: 0, EncodingID: 5},
		Format: 14,
		Reason: "subtable format 14 not supported",
	}}
	if d := cmp.Diff(wantDropped, dropped); d != "" {
		t.Errorf("dropped (-want +got):\n%s", d)
	}
	if len(out) != 3 {
		t.Fatalf("got %d subtables, want 3", len(out))
	}

	want := Mapping{{Code: 'A', GID: 1}, {Code: 'C', GID: 2}}
	for key, data := range out {
		got, err := DecodeSubtable(data)
		if err != nil {
			t.Fatalf("%v: %v", key, err)
		}
		if d := cmp.Diff(want, got); d != "" {
			t.Errorf("%v (-want +got):\n%s", key, d)
		}
	}

	// The two records which shared a subtable still share it.
	enc := out.Encode()
	decoded, err := Decode(enc)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(out, decoded); d != "" {
		t.Errorf("re-decoded (-want +got):\n%s", d)
	}
	offs := map[uint32]int{}
	for i := 0; i < 3; i++ {
		offs[getUint32(enc[8+8*i:])]++
	}
	if len(offs) != 2 {
		t.Errorf("got %d distinct subtables, want 2", len(offs))
	}
	// records sorted by platform, encoding and language
	if enc[4] != 0 || enc[5] != 0 || enc[6] != 0 || enc[7] != 3 {
		t.Errorf("first record is % x", enc[4:8])
	}
}

func TestSubsetEmpty(t *testing.T) {
	f4, err := EncodeSubtable(4, 0, Mapping{{Code: 'x', GID: 3}})
	if err != nil {
		t.Fatal(err)
	}
	in := Table{{PlatformID: 3, EncodingID: 1}: f4}
	out, _, err := in.Subset(remap.New(nil))
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeSubtable(out[Key{PlatformID: 3, EncodingID: 1}])
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("unexpected mappings %v", got)
	}
}

func TestBest(t *testing.T) {
	bmp, _ := EncodeSubtable(4, 0, Mapping{{Code: 'a', GID: 1}})
	full, _ := EncodeSubtable(12, 0, Mapping{{Code: 'a', GID: 2}})
	mac, _ := EncodeSubtable(0, 0, Mapping{{Code: 0x8E, GID: 3}}) // é

	ss := Table{
		{PlatformID: 3, EncodingID: 1}:  bmp,
		{PlatformID: 3, EncodingID: 10}: full,
		{PlatformID: 1, EncodingID: 0}:  mac,
	}
	lookup, key, err := ss.Best()
	if err != nil {
		t.Fatal(err)
	}
	if key != (Key{PlatformID: 3, EncodingID: 10}) {
		t.Errorf("wrong subtable %v", key)
	}
	if gid := lookup('a'); gid != 2 {
		t.Errorf("lookup('a') = %d", gid)
	}

	macOnly := Table{{PlatformID: 1, EncodingID: 0}: mac}
	lookup, _, err = macOnly.Best()
	if err != nil {
		t.Fatal(err)
	}
	if gid := lookup('é'); gid != 3 {
		t.Errorf("lookup('é') = %d", gid)
	}
	if gid := lookup('中'); gid != 0 {
		t.Errorf("lookup('中') = %d", gid)
	}

	lookup, _, err = Table{}.Best()
	if err != nil || lookup != nil {
		t.Errorf("empty table: %v %v", lookup != nil, err)
	}
}

func TestAddPUA(t *testing.T) {
	f4, _ := EncodeSubtable(4, 0, Mapping{{Code: 'A', GID: 1}})
	ss := Table{{PlatformID: 3, EncodingID: 1}: f4}
	if err := ss.AddPUA(3); err != nil {
		t.Fatal(err)
	}
	data, ok := ss[Key{PlatformID: 0, EncodingID: 4}]
	if !ok {
		t.Fatal("no (0,4) subtable")
	}
	if Format(data) != 12 {
		t.Errorf("format %d", Format(data))
	}
	got, err := DecodeSubtable(data)
	if err != nil {
		t.Fatal(err)
	}
	want := Mapping{
		{Code: 'A', GID: 1},
		{Code: PUABase + 1, GID: 1},
		{Code: PUABase + 2, GID: 2},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	// applying the operation twice gives the same result
	if err := ss.AddPUA(3); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(data, ss[Key{PlatformID: 0, EncodingID: 4}]); d != "" {
		t.Errorf("not idempotent:\n%s", d)
	}
}

func TestDecodeMalformed(t *testing.T) {
	sub := []byte{0, 6, 0, 10, 0, 0, 0, 0, 0, 0}
	cases := map[string][]byte{
		"short":  {0, 0},
		"offset": {0, 0, 0, 1, 0, 3, 0, 1, 0, 0, 0, 99},
		"offset overflow": {
			0, 0, 0, 1,
			0, 3, 0, 1, 0xFF, 0xFF, 0xFF, 0xFF,
			0, 4, 0, 6,
		},
		"format 12 truncated": {
			0, 0, 0, 1,
			0, 3, 0, 10, 0, 0, 0, 12,
			0, 12, 0, 0, 0, 0,
		},
		"overlap": append([]byte{
			0, 0, 0, 2,
			0, 3, 0, 1, 0, 0, 0, 20,
			0, 3, 0, 2, 0, 0, 0, 28,
		}, append(sub, sub...)...),
	}
	for name, data := range cases {
		_, err := Decode(data)
		if !font.IsMalformed(err) {
			t.Errorf("%s: expected MalformedFont, got %v", name, err)
		}
	}
}
