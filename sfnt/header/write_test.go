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

package header

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChecksum(t *testing.T) {
	cases := []struct {
		Body     []byte
		Expected uint32
	}{
		{[]byte{0, 1, 2, 3}, 0x00010203},
		{[]byte{0, 1, 2, 3, 4, 5, 6, 7}, 0x0406080a},
		{[]byte{1}, 0x01000000},
		{[]byte{1, 2, 3}, 0x01020300},
		{[]byte{1, 0, 0, 0, 1}, 0x02000000},
		{[]byte{255, 255, 255, 255, 0, 0, 0, 1}, 0},
		{nil, 0},
	}

	for i, test := range cases {
		computed := Checksum(test.Body)
		if computed != test.Expected {
			t.Errorf("test %d failed: %08x != %08x",
				i+1, computed, test.Expected)
		}
	}
}

func TestWriteLayout(t *testing.T) {
	head := make([]byte, 54)
	binary.BigEndian.PutUint32(head[8:], 0xDEADBEEF) // must be replaced
	binary.BigEndian.PutUint32(head[12:], 0x5F0F3CF5)
	tables := map[string][]byte{
		"name": {1, 2, 3, 4, 5},
		"OS/2": {6, 7},
		"head": head,
		"cmap": {},
		"zzzz": nil, // not written
	}
	origHead := bytes.Clone(head)

	buf := &bytes.Buffer{}
	n, err := Write(buf, 0x00010000, tables)
	if err != nil {
		t.Fatal(err)
	}
	out := buf.Bytes()
	if n != int64(len(out)) {
		t.Errorf("returned size %d, wrote %d", n, len(out))
	}
	if !bytes.Equal(head, origHead) {
		t.Error("input head table was modified")
	}

	numTables := int(binary.BigEndian.Uint16(out[4:]))
	if numTables != 4 {
		t.Fatalf("numTables = %d", numTables)
	}
	gotParams := []uint16{
		binary.BigEndian.Uint16(out[6:]),
		binary.BigEndian.Uint16(out[8:]),
		binary.BigEndian.Uint16(out[10:]),
	}
	if d := cmp.Diff([]uint16{64, 2, 0}, gotParams); d != "" {
		t.Errorf("search parameters: %s", d)
	}

	var tags []string
	var headOffset int
	prevEnd := uint32(12 + 16*numTables)
	for i := range numTables {
		rec := out[12+16*i:]
		tag := string(rec[:4])
		tags = append(tags, tag)
		sum := binary.BigEndian.Uint32(rec[4:])
		offset := binary.BigEndian.Uint32(rec[8:])
		length := binary.BigEndian.Uint32(rec[12:])
		if offset%4 != 0 {
			t.Errorf("%s: offset %d not aligned", tag, offset)
		}
		if offset != prevEnd {
			t.Errorf("%s: offset %d, expected %d", tag, offset, prevEnd)
		}
		prevEnd = offset + (length+3)&^3

		body := out[offset : offset+length]
		if tag == "head" {
			headOffset = int(offset)
			body = bytes.Clone(body)
			clearChecksum(body)
		}
		if Checksum(body) != sum {
			t.Errorf("%s: wrong checksum", tag)
		}
	}
	if d := cmp.Diff([]string{"OS/2", "cmap", "head", "name"}, tags); d != "" {
		t.Errorf("table order: %s", d)
	}
	if int(prevEnd) != len(out) {
		t.Errorf("file length %d, expected %d", len(out), prevEnd)
	}
	if !VerifyChecksumAdjustment(out, headOffset) {
		t.Error("checkSumAdjustment does not validate")
	}
}

func TestSearchParameters(t *testing.T) {
	for numTables := 1; numTables <= 40; numTables++ {
		tables := make(map[string][]byte)
		for i := range numTables {
			tables[string([]byte{'t', 'a', byte('A' + i/26), byte('a' + i%26)})] = []byte{byte(i)}
		}
		buf := &bytes.Buffer{}
		_, err := Write(buf, 0x4F54544F, tables)
		if err != nil {
			t.Fatal(err)
		}
		out := buf.Bytes()
		searchRange := int(binary.BigEndian.Uint16(out[6:]))
		entrySelector := int(binary.BigEndian.Uint16(out[8:]))
		rangeShift := int(binary.BigEndian.Uint16(out[10:]))
		if searchRange != 16<<entrySelector {
			t.Errorf("%d tables: searchRange %d, entrySelector %d", numTables, searchRange, entrySelector)
		}
		if searchRange > 16*numTables || 2*searchRange <= 16*numTables {
			t.Errorf("%d tables: bad searchRange %d", numTables, searchRange)
		}
		if rangeShift != 16*numTables-searchRange {
			t.Errorf("%d tables: bad rangeShift %d", numTables, rangeShift)
		}
	}
}
