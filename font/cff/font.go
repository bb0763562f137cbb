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
	"strconv"

	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/sfntsubset/sfnt/parser"
)

// Font is a CFF font, decoded as far as needed for subsetting.
type Font struct {
	major, minor uint8

	name        []byte
	topDict     cffDict
	strings     [][]byte
	gsubrs      [][]byte
	charStrings [][]byte

	// charset gives the SID (simple fonts) or CID (CID-keyed fonts)
	// of every glyph.
	charset []uint16

	// fontDicts is the FDArray of a CID-keyed font, and nil for
	// simple fonts.
	fontDicts []cffDict
	// fdSelect gives the font DICT of every glyph.  For simple fonts
	// all entries are 0.
	fdSelect []uint8

	privates []*private
}

type private struct {
	dict  cffDict
	subrs [][]byte

	// offset and size of the Private DICT within the CFF data
	offset, size int
}

// Read decodes the "CFF " table of an OpenType font.
func Read(data []byte) (*Font, error) {
	f, err := read(data)
	if err != nil {
		return nil, wrapTruncated(err)
	}
	return f, nil
}

func read(data []byte) (*Font, error) {
	p := parser.New("CFF ", data)

	hdr, err := p.ReadBytes(4)
	if err != nil {
		return nil, err
	}
	major, minor := hdr[0], hdr[1]
	hdrSize := int(hdr[2])
	if major == 2 {
		return nil, notSupported("CFF2")
	} else if major != 1 || hdrSize < 4 {
		return nil, invalid("not a CFF font")
	}

	f := &Font{
		major: major,
		minor: minor,
	}

	// read the Name INDEX
	err = p.SeekPos(hdrSize)
	if err != nil {
		return nil, err
	}
	fontNames, err := readIndex(p)
	if err != nil {
		return nil, err
	}
	if len(fontNames) != 1 {
		return nil, notSupported("CFF with " + strconv.Itoa(len(fontNames)) + " fonts")
	}
	f.name = fontNames[0]

	// read the Top DICT
	topDictIndex, err := readIndex(p)
	if err != nil {
		return nil, err
	}
	if len(topDictIndex) != 1 {
		return nil, invalid("expected one Top DICT")
	}
	f.topDict, err = decodeDict(topDictIndex[0])
	if err != nil {
		return nil, err
	}
	if tp, err := f.topDict.getInt(opCharstringType, 2); err != nil {
		return nil, err
	} else if tp != 2 {
		return nil, notSupported("charstring type " + strconv.Itoa(int(tp)))
	}
	if f.topDict.has(opSyntheticBase) {
		return nil, notSupported("synthetic fonts")
	}

	// read the String INDEX
	f.strings, err = readIndex(p)
	if err != nil {
		return nil, err
	}

	// read the Global Subr INDEX
	f.gsubrs, err = readIndex(p)
	if err != nil {
		return nil, err
	}

	// read the CharStrings INDEX
	charStringsOffs, err := f.topDict.getInt(opCharStrings, 0)
	if err != nil {
		return nil, err
	}
	f.charStrings, err = readIndexAt(p, int(charStringsOffs), "CharStrings")
	if err != nil {
		return nil, err
	}
	nGlyphs := len(f.charStrings)
	if nGlyphs == 0 {
		return nil, invalid("no glyphs")
	}

	isCIDFont := f.topDict.has(opROS)

	// read the charset
	charsetOffs, err := f.topDict.getInt(opCharset, 0)
	if err != nil {
		return nil, err
	}
	switch {
	case charsetOffs == 0 && !isCIDFont: // ISOAdobe
		if nGlyphs > 229 {
			return nil, invalid("too many glyphs for ISOAdobe charset")
		}
		f.charset = make([]uint16, nGlyphs)
		for i := range f.charset {
			f.charset[i] = uint16(i)
		}
	case charsetOffs == 1 || charsetOffs == 2:
		return nil, notSupported("predefined expert charset")
	case charsetOffs < 4:
		return nil, invalid("missing charset")
	default:
		err = p.SeekPos(int(charsetOffs))
		if err != nil {
			return nil, err
		}
		f.charset, err = readCharset(p, nGlyphs)
		if err != nil {
			return nil, err
		}
	}

	if isCIDFont {
		fdArrayOffs, err := f.topDict.getInt(opFDArray, 0)
		if err != nil {
			return nil, err
		}
		fdArrayIndex, err := readIndexAt(p, int(fdArrayOffs), "Font DICT")
		if err != nil {
			return nil, err
		}
		if len(fdArrayIndex) == 0 || len(fdArrayIndex) > 256 {
			return nil, invalid("invalid FDArray")
		}
		for _, fdBlob := range fdArrayIndex {
			fontDict, err := decodeDict(fdBlob)
			if err != nil {
				return nil, err
			}
			pInfo, err := readPrivate(p, fontDict)
			if err != nil {
				return nil, err
			}
			f.fontDicts = append(f.fontDicts, fontDict)
			f.privates = append(f.privates, pInfo)
		}

		fdSelectOffs, err := f.topDict.getInt(opFDSelect, 0)
		if err != nil {
			return nil, err
		}
		if fdSelectOffs < 4 {
			return nil, invalid("missing FDSelect")
		}
		err = p.SeekPos(int(fdSelectOffs))
		if err != nil {
			return nil, err
		}
		f.fdSelect, err = readFDSelect(p, nGlyphs, len(f.fontDicts))
		if err != nil {
			return nil, err
		}
	} else {
		pInfo, err := readPrivate(p, f.topDict)
		if err != nil {
			return nil, err
		}
		f.privates = []*private{pInfo}
		f.fdSelect = make([]uint8, nGlyphs)
	}

	return f, nil
}

// readPrivate reads the Private DICT and the local subroutines
// referenced by a Top DICT or Font DICT.
func readPrivate(p *parser.Parser, parent cffDict) (*private, error) {
	size, offs, ok := parent.getPair(opPrivate)
	if !ok {
		return nil, invalid("missing Private DICT")
	}
	if offs < 4 || size < 0 || int(offs)+int(size) > p.Size() {
		return nil, invalid("invalid Private DICT location")
	}
	err := p.SeekPos(int(offs))
	if err != nil {
		return nil, err
	}
	buf, err := p.ReadBytes(int(size))
	if err != nil {
		return nil, err
	}
	dict, err := decodeDict(buf)
	if err != nil {
		return nil, err
	}

	res := &private{
		dict:   dict,
		offset: int(offs),
		size:   int(size),
	}

	subrsOffs, err := dict.getInt(opSubrs, 0)
	if err != nil {
		return nil, err
	}
	if subrsOffs > 0 {
		res.subrs, err = readIndexAt(p, int(offs+subrsOffs), "Subrs")
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int {
	return len(f.charStrings)
}

// IsCIDFont reports whether the font is CID-keyed.
func (f *Font) IsCIDFont() bool {
	return f.fontDicts != nil
}

// FD returns the index of the font DICT used by glyph gid.
// For simple fonts, the result is always 0.
func (f *Font) FD(gid glyph.ID) int {
	return int(f.fdSelect[gid])
}
