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

package remap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/sfnt/glyph"
)

func TestRemap(t *testing.T) {
	retained := map[glyph.ID]bool{17: true, 3: true, 200: true, 5: false}
	tab := New(retained)

	if tab.Len() != 4 {
		t.Fatalf("Len() = %d, expected 4", tab.Len())
	}
	if d := cmp.Diff([]glyph.ID{0, 3, 17, 200}, tab.OldGIDs()); d != "" {
		t.Error(d)
	}
	for newGID, oldGID := range tab.OldGIDs() {
		got, ok := tab.New(oldGID)
		if !ok || int(got) != newGID {
			t.Errorf("New(%d) = %d, %t", oldGID, got, ok)
		}
		if tab.Old(glyph.ID(newGID)) != oldGID {
			t.Errorf("Old(%d) = %d", newGID, tab.Old(glyph.ID(newGID)))
		}
	}
	if _, ok := tab.New(5); ok {
		t.Error("glyph 5 should not be retained")
	}
	if tab.IsIdentity(4) {
		t.Error("not an identity map")
	}
}

func TestIdentity(t *testing.T) {
	retained := map[glyph.ID]bool{1: true, 2: true, 3: true}
	tab := New(retained)
	if !tab.IsIdentity(4) {
		t.Error("expected identity")
	}
	if tab.IsIdentity(5) {
		t.Error("not an identity for 5 glyphs")
	}
}

func TestOrderPreserving(t *testing.T) {
	retained := make(map[glyph.ID]bool)
	for gid := glyph.ID(1); gid < 1000; gid += 7 {
		retained[gid] = true
	}
	tab := New(retained)
	prev := -1
	for gid := glyph.ID(0); gid < 1000; gid++ {
		newGID, ok := tab.New(gid)
		if !ok {
			continue
		}
		if int(newGID) != prev+1 {
			t.Fatalf("glyph %d: new ID %d after %d", gid, newGID, prev)
		}
		prev = int(newGID)
	}
}
