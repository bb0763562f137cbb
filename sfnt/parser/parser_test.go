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

package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/sfnt/glyph"
)

func TestReadValues(t *testing.T) {
	data := []byte{0x01, 0xFF, 0xFE, 0x12, 0x34, 0x56, 0x78, 0x00, 0x02, 0x00, 0x07, 0x00, 0x09}
	p := New("test", data)

	u8, err := p.ReadUint8()
	if err != nil || u8 != 1 {
		t.Fatalf("ReadUint8: %d, %v", u8, err)
	}
	i16, err := p.ReadInt16()
	if err != nil || i16 != -2 {
		t.Fatalf("ReadInt16: %d, %v", i16, err)
	}
	u32, err := p.ReadUint32()
	if err != nil || u32 != 0x12345678 {
		t.Fatalf("ReadUint32: %x, %v", u32, err)
	}
	gids, err := p.ReadGIDSlice()
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]glyph.ID{7, 9}, gids); d != "" {
		t.Error(d)
	}
	if p.Remaining() != 0 {
		t.Errorf("%d bytes left", p.Remaining())
	}
}

func TestTruncated(t *testing.T) {
	p := New("maxp", []byte{0, 1, 2})
	if err := p.SeekPos(2); err != nil {
		t.Fatal(err)
	}
	_, err := p.ReadUint16()
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if want := "maxp+2: read 2 bytes: unexpected end of table data"; err.Error() != want {
		t.Errorf("wrong message %q", err.Error())
	}
	if err := p.SeekPos(4); err == nil {
		t.Error("seek beyond end succeeded")
	}
}
