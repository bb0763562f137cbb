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
	"slices"

	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/sfntsubset/font"
	"seehuhn.de/go/sfntsubset/sfnt/remap"
)

// Subset returns the "CFF " table for the subset font described by m.
//
// The subroutines listed in subrs are kept, all others are removed.
// Glyphs of m which have not been added to subrs are added
// automatically.
func (f *Font) Subset(m *remap.Table, subrs *SubrSet) ([]byte, error) {
	oldGIDs := m.OldGIDs()
	for _, gid := range oldGIDs {
		if int(gid) >= f.NumGlyphs() {
			return nil, &font.ReferenceError{SubSystem: "cff", Kind: "glyph", Index: int(gid)}
		}
		if err := subrs.Add(gid); err != nil {
			return nil, err
		}
	}

	// Font DICTs still in use, in their original order.
	fdUsed := make([]bool, len(f.privates))
	for _, gid := range oldGIDs {
		fdUsed[f.fdSelect[gid]] = true
	}
	var oldFDs []int
	newFD := make([]uint8, len(f.privates))
	for fd, used := range fdUsed {
		if used {
			newFD[fd] = uint8(len(oldFDs))
			oldFDs = append(oldFDs, fd)
		}
	}

	r := &renumbering{subrs: subrs}
	if subrs.fixed {
		r.global = identity(len(f.gsubrs))
		r.local = make([][]int, len(f.privates))
		for _, fd := range oldFDs {
			r.local[fd] = identity(len(f.privates[fd].subrs))
		}
	} else {
		r.global = subrs.Global()
		r.local = make([][]int, len(f.privates))
		for _, fd := range oldFDs {
			r.local[fd] = subrs.Local(fd)
		}
	}

	charStrings := make([][]byte, len(oldGIDs))
	charset := make([]uint16, len(oldGIDs))
	fdSelect := make([]uint8, len(oldGIDs))
	for i, gid := range oldGIDs {
		code, err := r.rewrite(csRef{kind: csGlyph, idx: int(gid)}, f.charStrings[gid])
		if err != nil {
			return nil, err
		}
		charStrings[i] = code
		charset[i] = f.charset[gid]
		fdSelect[i] = newFD[f.fdSelect[gid]]
	}

	gsubrs := make([][]byte, len(r.global))
	for i, idx := range r.global {
		code, err := r.rewrite(csRef{kind: csGlobal, idx: idx}, f.gsubrs[idx])
		if err != nil {
			return nil, err
		}
		gsubrs[i] = code
	}

	privates := make([][]byte, len(oldFDs))
	localSubrs := make([][][]byte, len(oldFDs))
	for i, fd := range oldFDs {
		pInfo := f.privates[fd]
		for _, idx := range r.local[fd] {
			code, err := r.rewrite(csRef{kind: csLocal, fd: fd, idx: idx}, pInfo.subrs[idx])
			if err != nil {
				return nil, err
			}
			localSubrs[i] = append(localSubrs[i], code)
		}

		priv := pInfo.dict.without(opSubrs).appendEncoded(nil)
		if len(localSubrs[i]) > 0 {
			// The Subrs offset is relative to the start of the Private DICT,
			// and the subroutines follow immediately after the DICT.
			priv = appendOffsetOp(priv, opSubrs, len(priv)+6)
		}
		privates[i] = priv
	}

	return f.write(&output{
		charStrings: charStrings,
		charset:     charset,
		fdSelect:    fdSelect,
		gsubrs:      gsubrs,
		fontDicts:   pick(f.fontDicts, oldFDs),
		privates:    privates,
		localSubrs:  localSubrs,
	})
}

// renumbering maps old subroutine numbers to new ones.
type renumbering struct {
	subrs *SubrSet

	// global lists the old indices of the retained global subroutines,
	// local the old indices of the retained local subroutines for each
	// Private DICT.
	global []int
	local  [][]int
}

// rewrite re-encodes all subroutine numbers in a charstring.
func (r *renumbering) rewrite(cs csRef, code []byte) ([]byte, error) {
	if r.subrs.fixed {
		return code, nil
	}
	sites := r.subrs.sites[cs]
	if len(sites) == 0 {
		return code, nil
	}
	starts := make([]int, 0, len(sites))
	for start := range sites {
		starts = append(starts, start)
	}
	slices.Sort(starts)

	res := make([]byte, 0, len(code)+len(sites))
	pos := 0
	for _, start := range starts {
		site := sites[start]

		var list []int
		kind := "subr"
		if site.target.kind == csGlobal {
			list = r.global
			kind = "gsubr"
		} else {
			list = r.local[site.target.fd]
		}
		newIdx, found := slices.BinarySearch(list, site.target.idx)
		if !found {
			return nil, &font.ReferenceError{SubSystem: "cff", Kind: kind, Index: site.target.idx}
		}

		res = append(res, code[pos:site.start]...)
		res = appendT2Int(res, newIdx-subrBias(len(list)))
		pos = site.end
	}
	res = append(res, code[pos:]...)
	return res, nil
}

type output struct {
	charStrings [][]byte
	charset     []uint16
	fdSelect    []uint8
	gsubrs      [][]byte
	fontDicts   []cffDict
	privates    [][]byte
	localSubrs  [][][]byte
}

// write lays out the subset font.  The order of the sections is:
// header, Name INDEX, Top DICT INDEX, String INDEX, Global Subr INDEX,
// charset, FDSelect, CharStrings INDEX, Font DICT INDEX, and finally
// each Private DICT followed by its local subroutines.
func (f *Font) write(out *output) ([]byte, error) {
	isCID := f.IsCIDFont()
	topBase := f.topDict.without(opCharset, opEncoding, opCharStrings,
		opPrivate, opFDArray, opFDSelect)

	// All offsets in DICTs use five bytes, so the DICT sizes do not depend
	// on the offset values.
	makeTopDict := func(charsetOffs, charStringsOffs, fdArrayOffs, fdSelectOffs, privateOffs int) []byte {
		buf := topBase.appendEncoded(nil)
		buf = appendOffsetOp(buf, opCharset, charsetOffs)
		buf = appendOffsetOp(buf, opCharStrings, charStringsOffs)
		if isCID {
			buf = appendOffsetOp(buf, opFDArray, fdArrayOffs)
			buf = appendOffsetOp(buf, opFDSelect, fdSelectOffs)
		} else {
			buf = appendOffsetOp(buf, opPrivate, len(out.privates[0]), privateOffs)
		}
		return buf
	}
	makeFontDicts := func(privateOffs []int) [][]byte {
		res := make([][]byte, len(out.fontDicts))
		for i, fd := range out.fontDicts {
			buf := fd.without(opPrivate).appendEncoded(nil)
			res[i] = appendOffsetOp(buf, opPrivate, len(out.privates[i]), privateOffs[i])
		}
		return res
	}

	header := []byte{f.major, f.minor, 4, 4}
	nameIndex, err := appendIndex(nil, [][]byte{f.name})
	if err != nil {
		return nil, err
	}
	stringIndex, err := appendIndex(nil, f.strings)
	if err != nil {
		return nil, err
	}
	gsubrIndex, err := appendIndex(nil, out.gsubrs)
	if err != nil {
		return nil, err
	}
	charStringsIndex, err := appendIndex(nil, out.charStrings)
	if err != nil {
		return nil, err
	}
	charset := appendCharset(nil, out.charset)
	var fdSelect []byte
	if isCID {
		fdSelect = appendFDSelect(nil, out.fdSelect)
	}

	pos := len(header) + len(nameIndex)
	pos += indexLength([][]byte{makeTopDict(0, 0, 0, 0, 0)})
	pos += len(stringIndex) + len(gsubrIndex)
	charsetOffs := pos
	pos += len(charset)
	fdSelectOffs := pos
	pos += len(fdSelect)
	charStringsOffs := pos
	pos += len(charStringsIndex)
	fdArrayOffs := pos
	if isCID {
		pos += indexLength(makeFontDicts(make([]int, len(out.fontDicts))))
	}
	privateOffs := make([]int, len(out.privates))
	for i, priv := range out.privates {
		privateOffs[i] = pos
		pos += len(priv)
		if len(out.localSubrs[i]) > 0 {
			pos += indexLength(out.localSubrs[i])
		}
	}

	res := make([]byte, 0, pos)
	res = append(res, header...)
	res = append(res, nameIndex...)
	res, err = appendIndex(res, [][]byte{
		makeTopDict(charsetOffs, charStringsOffs, fdArrayOffs, fdSelectOffs, privateOffs[0]),
	})
	if err != nil {
		return nil, err
	}
	res = append(res, stringIndex...)
	res = append(res, gsubrIndex...)
	res = append(res, charset...)
	res = append(res, fdSelect...)
	res = append(res, charStringsIndex...)
	if isCID {
		res, err = appendIndex(res, makeFontDicts(privateOffs))
		if err != nil {
			return nil, err
		}
	}
	for i, priv := range out.privates {
		res = append(res, priv...)
		if len(out.localSubrs[i]) > 0 {
			res, err = appendIndex(res, out.localSubrs[i])
			if err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

func identity(n int) []int {
	res := make([]int, n)
	for i := range res {
		res[i] = i
	}
	return res
}

func pick(dicts []cffDict, idx []int) []cffDict {
	if dicts == nil {
		return nil
	}
	res := make([]cffDict, len(idx))
	for i, j := range idx {
		res[i] = dicts[j]
	}
	return res
}

// CharString returns the charstring of glyph gid.
func (f *Font) CharString(gid glyph.ID) []byte {
	return f.charStrings[gid]
}
