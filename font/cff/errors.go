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

package cff

import (
	"errors"

	"seehuhn.de/go/sfntsubset/font"
	"seehuhn.de/go/sfntsubset/sfnt/parser"
)

func invalid(reason string) error {
	return &font.InvalidFontError{
		SubSystem: "cff",
		Reason:    reason,
	}
}

func notSupported(feature string) error {
	return &font.NotSupportedError{
		SubSystem: "cff",
		Feature:   feature,
	}
}

// wrapTruncated turns read errors from the parser into InvalidFontErrors.
func wrapTruncated(err error) error {
	if errors.Is(err, parser.ErrTruncated) {
		return invalid(err.Error())
	}
	return err
}
