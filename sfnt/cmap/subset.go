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
	"errors"
	"strconv"

	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/sfntsubset/font"
	"seehuhn.de/go/sfntsubset/sfnt/remap"
)

// PUABase is the first code point used by AddPUA.
const PUABase = 0xF0000

// Dropped describes a subtable which was removed during subsetting.
type Dropped struct {
	Key
	Format uint16
	Reason string
}

// Subset returns a cmap table for the subset font described by m.
// Mappings to glyphs which are not retained are removed and the remaining
// glyph IDs are translated.  Every subtable keeps its format.
// Subtables which cannot be rewritten are dropped and reported.
func (ss Table) Subset(m *remap.Table) (Table, []Dropped, error) {
	res := make(Table, len(ss))
	var dropped []Dropped

	// Records which share a subtable also share the result.
	done := make(map[string][]byte)
	for _, key := range ss.Keys() {
		data := ss[key]
		if out, ok := done[string(data)]; ok {
			if out != nil {
				res[key] = out
			}
			continue
		}

		format := Format(data)
		out, err := subsetOne(data, key.Language, m)
		var notSupp *font.NotSupportedError
		if errors.As(err, &notSupp) {
			dropped = append(dropped, Dropped{Key: key, Format: format, Reason: notSupp.Feature + " not supported"})
			done[string(data)] = nil
			continue
		} else if err != nil {
			return nil, nil, err
		}
		res[key] = out
		done[string(data)] = out
	}
	return res, dropped, nil
}

func subsetOne(data []byte, language uint32, m *remap.Table) ([]byte, error) {
	format := Format(data)
	old, err := DecodeSubtable(data)
	if err != nil {
		return nil, err
	}

	mapping := make(Mapping, 0, len(old))
	for _, p := range old {
		gid, ok := m.New(p.GID)
		if !ok || gid == 0 {
			continue
		}
		mapping = append(mapping, Pair{Code: p.Code, GID: gid})
	}

	out, err := EncodeSubtable(format, language, mapping)
	if font.IsMalformed(err) {
		// The mapping is no longer representable in the original format.
		// This can only happen for format 4 subtables which exceed the
		// 16-bit length limit.
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt/cmap",
			Feature:   "re-encoding format " + strconv.Itoa(int(format)),
		}
	}
	return out, err
}

// AddPUA makes every glyph of a font with numGlyphs glyphs reachable at
// code point PUABase+gid, via a format 12 subtable.
//
// If a Unicode format 12 subtable exists, its mappings are extended.
// Otherwise the mappings of the best Unicode subtable are converted to
// format 12.  The resulting subtable is registered as (0,4) and,
// if present, replaces the (3,10) subtable.
func (ss Table) AddPUA(numGlyphs int) error {
	var base Mapping
	var baseFormat uint16 = 0xFFFF
	for _, key := range unicodeKeys {
		data, ok := ss[key]
		if !ok {
			continue
		}
		format := Format(data)
		if !CanRewrite(format) || baseFormat == 12 || format != 12 && baseFormat != 0xFFFF {
			continue
		}
		m, err := DecodeSubtable(data)
		if err != nil {
			return err
		}
		base = m
		baseFormat = format
	}

	pua := make(Mapping, 0, numGlyphs+len(base))
	for gid := 1; gid < numGlyphs; gid++ {
		pua = append(pua, Pair{Code: PUABase + uint32(gid), GID: glyph.ID(gid)})
	}
	pua = finish(append(pua, base...))

	data, err := EncodeSubtable(12, 0, pua)
	if err != nil {
		return err
	}
	ss[Key{PlatformID: 0, EncodingID: 4}] = data
	if _, ok := ss[unicodeKeys[0]]; ok {
		ss[unicodeKeys[0]] = data
	}
	return nil
}
