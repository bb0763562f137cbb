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

package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"seehuhn.de/go/sfnt/glyph"
)

// parseUnicodes parses a comma separated list of hexadecimal code points
// and code point ranges.  Code points may be written as "U+0041", "0x41"
// or "41".  Ranges are written as "41-5A".
func parseUnicodes(s string) ([]rune, error) {
	var res []rune
	err := parseList(s, parseCodePoint, utf8.MaxRune, func(lo, hi int) {
		for c := lo; c <= hi; c++ {
			res = append(res, rune(c))
		}
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// parseGIDs parses a comma separated list of decimal glyph IDs and glyph ID
// ranges like "5-9".
func parseGIDs(s string) ([]glyph.ID, error) {
	var res []glyph.ID
	err := parseList(s, strconv.Atoi, 0xFFFF, func(lo, hi int) {
		for gid := lo; gid <= hi; gid++ {
			res = append(res, glyph.ID(gid))
		}
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func parseList(s string, parse func(string) (int, error), maxVal int, emit func(lo, hi int)) error {
	for item := range strings.SplitSeq(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		loStr, hiStr, isRange := strings.Cut(item, "-")
		lo, err := parse(strings.TrimSpace(loStr))
		if err != nil {
			return fmt.Errorf("invalid value %q", item)
		}
		hi := lo
		if isRange {
			hi, err = parse(strings.TrimSpace(hiStr))
			if err != nil {
				return fmt.Errorf("invalid range %q", item)
			}
		}
		if lo < 0 || hi > maxVal || lo > hi {
			return fmt.Errorf("invalid range %q", item)
		}
		emit(lo, hi)
	}
	return nil
}

func parseCodePoint(s string) (int, error) {
	for _, prefix := range []string{"U+", "u+", "0x", "0X"} {
		if after, ok := strings.CutPrefix(s, prefix); ok {
			s = after
			break
		}
	}
	c, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	return int(c), nil
}
