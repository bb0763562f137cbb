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

// Package closure computes the set of glyphs which must be kept in a
// subset font.
//
// Starting from a list of seed glyphs, all glyphs which are referenced by
// retained glyphs are added, until no new glyphs are found.  For TrueType
// fonts these are the components of composite glyphs.  For CFF fonts the
// charstrings are run to find the subroutines each glyph uses.
//
// Cyclic references between composite glyphs are malformed, but are
// tolerated here: every glyph is visited at most once.
package closure

import (
	"maps"
	"slices"

	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/sfntsubset/font"
	"seehuhn.de/go/sfntsubset/font/cff"
	"seehuhn.de/go/sfntsubset/sfnt/glyf"
)

// Set is the closure of a set of glyphs.
type Set struct {
	// Glyphs contains the retained glyph IDs.  Glyph 0 is always included.
	Glyphs map[glyph.ID]bool

	// Subrs lists the retained subroutines of a CFF font.
	// For TrueType fonts this is nil.
	Subrs *cff.SubrSet
}

// Len returns the number of retained glyphs.
func (s *Set) Len() int {
	return len(s.Glyphs)
}

// Glyf computes the closure of seeds for a TrueType font.
// Seed glyphs must be valid glyph IDs for the font.
func Glyf(g *glyf.Glyphs, seeds []glyph.ID) (*Set, error) {
	numGlyphs := g.NumGlyphs()
	seen := map[glyph.ID]bool{0: true}
	todo := []glyph.ID{0}
	for _, gid := range seeds {
		if int(gid) >= numGlyphs {
			return nil, &font.ReferenceError{SubSystem: "sfnt/closure", Kind: "glyph", Index: int(gid)}
		}
		if !seen[gid] {
			seen[gid] = true
			todo = append(todo, gid)
		}
	}

	for len(todo) > 0 {
		gid := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		comps, err := g.Components(gid)
		if err != nil {
			return nil, err
		}
		for _, comp := range comps {
			if int(comp) >= numGlyphs {
				return nil, &font.InvalidFontError{
					SubSystem: "sfnt/glyf",
					Reason:    "component glyph index out of range",
				}
			}
			if !seen[comp] {
				seen[comp] = true
				todo = append(todo, comp)
			}
		}
	}

	return &Set{Glyphs: seen}, nil
}

// CFF computes the closure of seeds for a font with CFF outlines.
// CFF glyphs cannot reference other glyphs, so the set of glyphs equals
// the set of seeds.  In addition, the subroutines used by all retained
// glyphs are determined.
func CFF(f *cff.Font, seeds []glyph.ID) (*Set, error) {
	numGlyphs := f.NumGlyphs()
	seen := map[glyph.ID]bool{0: true}
	for _, gid := range seeds {
		if int(gid) >= numGlyphs {
			return nil, &font.ReferenceError{SubSystem: "sfnt/closure", Kind: "glyph", Index: int(gid)}
		}
		seen[gid] = true
	}

	subrs := f.NewSubrSet()
	for _, gid := range slices.Sorted(maps.Keys(seen)) {
		err := subrs.Add(gid)
		if err != nil {
			return nil, err
		}
	}

	return &Set{Glyphs: seen, Subrs: subrs}, nil
}
