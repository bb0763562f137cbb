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

package fontview

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/sfntsubset/font"
	"seehuhn.de/go/sfntsubset/sfnt/header"
)

func build(t *testing.T, scalerType uint32, tables map[string][]byte) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	_, err := header.Write(buf, scalerType, tables)
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRead(t *testing.T) {
	tables := map[string][]byte{
		"head": make([]byte, 54),
		"cmap": {0, 0, 0, 0},
		"CFF ": {1, 0, 4, 4, 0},
		"zero": {},
	}
	data := build(t, ScalerTypeCFF, tables)

	f, err := Read(data)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{"CFF ", "cmap", "head", "zero"}, f.Tags()); d != "" {
		t.Error(d)
	}
	for name, want := range tables {
		got, err := f.Table(name)
		if err != nil {
			t.Fatal(err)
		}
		if name == "head" {
			// header.Write fills in checkSumAdjustment
			if !header.VerifyChecksumAdjustment(data, int(f.Toc["head"].Offset)) {
				t.Error("wrong checksum adjustment")
			}
			got = bytes.Clone(got)
			clear(got[8:12])
		}
		if d := cmp.Diff(want, got); d != "" {
			t.Errorf("%q: %s", name, d)
		}
		if sum := header.Checksum(got); sum != f.Toc[name].CheckSum {
			t.Errorf("%q: checksum %08x != %08x", name, sum, f.Toc[name].CheckSum)
		}
	}
	if f.ScalerType != ScalerTypeCFF {
		t.Errorf("wrong scaler type %08x", f.ScalerType)
	}
	if !f.Has("head", "cmap") || f.Has("head", "glyf") {
		t.Error("wrong table presence")
	}

	_, err = f.Table("glyf")
	if !IsMissing(err) {
		t.Errorf("expected missing table, got %v", err)
	}
	if !font.IsMalformed(err) {
		t.Errorf("missing table should be MalformedFont, got %v", err)
	}
}

func TestReadErrors(t *testing.T) {
	valid := build(t, ScalerTypeTrueType, map[string][]byte{
		"head": make([]byte, 54),
		"maxp": {0, 0, 0x50, 0, 0, 1},
	})

	overlap := bytes.Clone(valid)
	// move the second table on top of the first one
	copy(overlap[12+16+8:], overlap[12+8:12+12])

	beyondEOF := bytes.Clone(valid)
	binary.BigEndian.PutUint32(beyondEOF[12+12:], 1000)

	// offset+length wraps around in 32 bits
	wrapped := bytes.Clone(valid)
	binary.BigEndian.PutUint32(wrapped[12+16+8:], 0xFFFFFFF0)
	binary.BigEndian.PutUint32(wrapped[12+16+12:], 0x20)

	cases := []struct {
		name      string
		data      []byte
		malformed bool
	}{
		{"short", valid[:3], true},
		{"no tables", []byte{0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, true},
		{"truncated directory", valid[:20], true},
		{"overlap", overlap, true},
		{"beyond EOF", beyondEOF, true},
		{"wrapped end", wrapped, true},
		{"bad tag", append([]byte{0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 1, 2, 3, 4}, make([]byte, 16)...), true},
		{"scaler type", []byte("wOFF\x00\x01\x00\x00"), false},
		{"collection", []byte("ttcf\x00\x01\x00\x00"), false},
		{"type1", []byte("typ1\x00\x01\x00\x00"), false},
	}
	for _, test := range cases {
		_, err := Read(test.data)
		if test.malformed && !font.IsMalformed(err) {
			t.Errorf("%s: expected MalformedFont, got %v", test.name, err)
		}
		if !test.malformed && !font.IsUnsupported(err) {
			t.Errorf("%s: expected UnsupportedFont, got %v", test.name, err)
		}
	}
}
