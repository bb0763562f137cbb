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

// Package remap assigns new, consecutive glyph IDs to the glyphs retained
// in a subset font.
//
// The retained glyphs keep their relative order: if a < b for two old glyph
// IDs, then New(a) < New(b).  Glyph 0 is always retained and keeps its ID.
package remap

import (
	"slices"

	"seehuhn.de/go/sfnt/glyph"
)

// Table is a bijection between the retained old glyph IDs and the range
// 0, ..., Len()-1 of new glyph IDs.
// A Table is immutable once constructed and safe for concurrent use.
type Table struct {
	oldGIDs []glyph.ID
	newGID  map[glyph.ID]glyph.ID
}

// New constructs the remapping table for the given set of retained glyphs.
// Glyph 0 is added if it is not already present.
func New(retained map[glyph.ID]bool) *Table {
	oldGIDs := make([]glyph.ID, 0, len(retained)+1)
	oldGIDs = append(oldGIDs, 0)
	for gid, keep := range retained {
		if keep && gid != 0 {
			oldGIDs = append(oldGIDs, gid)
		}
	}
	slices.Sort(oldGIDs)

	newGID := make(map[glyph.ID]glyph.ID, len(oldGIDs))
	for i, gid := range oldGIDs {
		newGID[gid] = glyph.ID(i)
	}
	return &Table{
		oldGIDs: oldGIDs,
		newGID:  newGID,
	}
}

// Len returns the number of glyphs in the subset font.
func (t *Table) Len() int {
	return len(t.oldGIDs)
}

// New returns the new glyph ID for the old glyph ID gid.
// The second return value is false if the glyph is not retained.
func (t *Table) New(gid glyph.ID) (glyph.ID, bool) {
	newGID, ok := t.newGID[gid]
	return newGID, ok
}

// Old returns the old glyph ID of the glyph with new ID gid.
func (t *Table) Old(gid glyph.ID) glyph.ID {
	return t.oldGIDs[gid]
}

// OldGIDs returns the retained old glyph IDs, in order of their new IDs.
// The returned slice must not be modified.
func (t *Table) OldGIDs() []glyph.ID {
	return t.oldGIDs
}

// IsIdentity returns true if the table maps every glyph of a font with
// numGlyphs glyphs to itself.
func (t *Table) IsIdentity(numGlyphs int) bool {
	if len(t.oldGIDs) != numGlyphs {
		return false
	}
	for i, gid := range t.oldGIDs {
		if int(gid) != i {
			return false
		}
	}
	return true
}
