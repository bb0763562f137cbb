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

package sfntsubset

import (
	"fmt"

	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/sfntsubset/sfnt/head"
	"seehuhn.de/go/sfntsubset/sfnt/remap"
)

// Request describes which glyphs a subset font should contain.
// A nil Request is the same as an empty one, which retains only glyph 0.
type Request struct {
	// Codepoints lists the characters to include.  Characters which are
	// not mapped by the font are ignored.
	Codepoints []rune

	// GlyphIDs lists glyphs to include, in addition to the glyphs for
	// Codepoints.  Glyph IDs outside the font are ignored.
	GlyphIDs []glyph.ID

	// KeepLayoutTables retains the kerning information, and the OpenType
	// layout tables if no glyphs need to be renumbered.
	KeepLayoutTables bool

	// KeepHinting retains TrueType instructions and the hinting tables.
	KeepHinting bool

	// KeepGlyphNames retains the glyph names in the "post" table.
	KeepGlyphNames bool

	// MapGlyphsToPUA makes every retained glyph reachable at code point
	// U+F0000 plus its new glyph ID.
	MapGlyphsToPUA bool

	// Parallel rewrites the font tables concurrently.
	Parallel bool
}

// Result is the outcome of a successful subsetting operation.
type Result struct {
	// Data is the new font file.
	Data []byte

	// Remap maps the original glyph IDs to the glyph IDs in Data.
	Remap *remap.Table

	// NumGlyphs is the number of glyphs in the original font.
	NumGlyphs int

	// Head describes the original font.  The font revision, the units per
	// em and the timestamps are the same in the subsetted font.
	Head *head.Info

	// Diagnostics lists the problems which did not prevent subsetting.
	Diagnostics []Diagnostic
}

// DiagnosticKind classifies a [Diagnostic].
type DiagnosticKind int

// These are the kinds of non-fatal problems reported by [Run].
const (
	UnmappedCodepoint DiagnosticKind = iota + 1
	GlyphOutOfRange
	SubtableDropped
	NamesDropped
	TableDropped
)

func (k DiagnosticKind) String() string {
	switch k {
	case UnmappedCodepoint:
		return "unmapped codepoint"
	case GlyphOutOfRange:
		return "glyph out of range"
	case SubtableDropped:
		return "subtable dropped"
	case NamesDropped:
		return "glyph names dropped"
	case TableDropped:
		return "table dropped"
	default:
		return fmt.Sprintf("DiagnosticKind(%d)", int(k))
	}
}

// Diagnostic describes a problem which did not prevent subsetting,
// but which caused data to be left out of the subset font.
type Diagnostic struct {
	Kind DiagnosticKind

	// Table is the tag of the affected table, if any.
	Table string

	Message string
}

func (d Diagnostic) String() string {
	if d.Table != "" {
		return fmt.Sprintf("%s: %q: %s", d.Kind, d.Table, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}
