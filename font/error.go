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

package font

import (
	"errors"
	"strconv"
)

// InvalidFontError indicates a problem with font data.
// Errors of this type are returned for fonts which violate the structural
// rules of the sfnt or CFF formats, for example a non-monotonic loca table
// or an offset which points outside the enclosing table.
type InvalidFontError struct {
	SubSystem string
	Reason    string
}

func (err *InvalidFontError) Error() string {
	return err.SubSystem + ": " + err.Reason
}

// NotSupportedError indicates that a font file seems valid but uses a
// feature which is not supported by this library.
type NotSupportedError struct {
	SubSystem string
	Feature   string
}

func (err *NotSupportedError) Error() string {
	return err.SubSystem + ": " + err.Feature + " not supported"
}

// ReferenceError indicates that a table refers to a glyph or subroutine
// which is not part of the retained set.  This can only happen if the glyph
// closure is incomplete, so an error of this type always indicates a bug.
type ReferenceError struct {
	SubSystem string
	Kind      string // "glyph", "subr" or "gsubr"
	Index     int
}

func (err *ReferenceError) Error() string {
	return err.SubSystem + ": reference to " + err.Kind + " " +
		strconv.Itoa(err.Index) + " outside the glyph closure"
}

// IsMalformed returns true if err is, or wraps, an InvalidFontError.
func IsMalformed(err error) bool {
	var e *InvalidFontError
	return errors.As(err, &e)
}

// IsUnsupported returns true if err is, or wraps, a NotSupportedError.
func IsUnsupported(err error) bool {
	var e *NotSupportedError
	return errors.As(err, &e)
}

// IsReference returns true if err is, or wraps, a ReferenceError.
func IsReference(err error) bool {
	var e *ReferenceError
	return errors.As(err, &e)
}
