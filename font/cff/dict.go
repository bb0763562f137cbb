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
	"fmt"
	"strconv"
)

// dictEntry is one operator of a DICT, together with its operands.
// The operands are kept in their original encoding, so that entries
// can be copied to the output unchanged.
type dictEntry struct {
	op   dictOp
	args []any // int32 or float64
	raw  []byte
}

// cffDict is a decoded Top DICT, Font DICT or Private DICT.
// The order of the entries is preserved.
type cffDict []dictEntry

func decodeDict(buf []byte) (cffDict, error) {
	var res cffDict
	var stack []any
	start := 0
	pos := 0

	flush := func(op dictOp, opLen int) {
		res = append(res, dictEntry{
			op:   op,
			args: stack,
			raw:  buf[start:pos:pos],
		})
		stack = nil
		pos += opLen
		start = pos
	}

	for pos < len(buf) {
		b0 := buf[pos]
		switch {
		case b0 == 12:
			if pos+2 > len(buf) {
				return nil, errCorruptDict
			}
			flush(dictOp(b0)<<8+dictOp(buf[pos+1]), 2)
		case b0 <= 21:
			flush(dictOp(b0), 1)
		case b0 <= 27: // values 22–27, 31, and 255 are reserved
			return nil, errCorruptDict
		case b0 == 28:
			if pos+3 > len(buf) {
				return nil, errCorruptDict
			}
			stack = append(stack, int32(int16(uint16(buf[pos+1])<<8+uint16(buf[pos+2]))))
			pos += 3
		case b0 == 29:
			if pos+5 > len(buf) {
				return nil, errCorruptDict
			}
			stack = append(stack,
				int32(uint32(buf[pos+1])<<24+uint32(buf[pos+2])<<16+uint32(buf[pos+3])<<8+uint32(buf[pos+4])))
			pos += 5
		case b0 == 30:
			n, x, err := decodeFloat(buf[pos+1:])
			if err != nil {
				return nil, err
			}
			stack = append(stack, x)
			pos += 1 + n
		case b0 == 31: // values 22–27, 31, and 255 are reserved
			return nil, errCorruptDict
		case b0 <= 246:
			stack = append(stack, int32(b0)-139)
			pos++
		case b0 <= 250:
			if pos+2 > len(buf) {
				return nil, errCorruptDict
			}
			stack = append(stack, int32(b0)*256+int32(buf[pos+1])+(108-247*256))
			pos += 2
		case b0 <= 254:
			if pos+2 > len(buf) {
				return nil, errCorruptDict
			}
			stack = append(stack, -int32(b0)*256-int32(buf[pos+1])-(108-251*256))
			pos += 2
		default: // values 22–27, 31, and 255 are reserved
			return nil, errCorruptDict
		}
	}

	if len(stack) > 0 {
		return nil, errCorruptDict
	}

	return res, nil
}

// decodeFloat decodes a real number operand (without the leading 0x1e).
// The number of bytes used is returned together with the value.
func decodeFloat(buf []byte) (int, float64, error) {
	var s []byte
	for i, b := range buf {
		for _, nibble := range []byte{b >> 4, b & 15} {
			switch nibble {
			case 0x0a:
				s = append(s, '.')
			case 0x0b:
				s = append(s, 'e')
			case 0x0c:
				s = append(s, 'e', '-')
			case 0x0d: // reserved
				return 0, 0, errCorruptDict
			case 0x0e:
				s = append(s, '-')
			case 0x0f:
				x, err := strconv.ParseFloat(string(s), 64)
				if err != nil {
					// Some fonts contain malformed numbers, for example "-.".
					x = 0
				}
				return i + 1, x, nil
			default:
				s = append(s, '0'+nibble)
			}
		}
	}
	return 0, 0, errCorruptDict
}

// get returns the entry for the given operator, or nil if op is not present.
func (d cffDict) get(op dictOp) *dictEntry {
	for i := range d {
		if d[i].op == op {
			return &d[i]
		}
	}
	return nil
}

func (d cffDict) has(op dictOp) bool {
	return d.get(op) != nil
}

// getInt returns the single integer operand of op.
// If op is not present, defVal is returned.
func (d cffDict) getInt(op dictOp, defVal int32) (int32, error) {
	e := d.get(op)
	if e == nil {
		return defVal, nil
	}
	if len(e.args) != 1 {
		return 0, invalid(fmt.Sprintf("wrong number of operands for %s", op))
	}
	switch x := e.args[0].(type) {
	case int32:
		return x, nil
	case float64:
		if x == float64(int32(x)) {
			return int32(x), nil
		}
	}
	return 0, invalid(fmt.Sprintf("non-integer operand for %s", op))
}

// getPair returns the two integer operands of op.
func (d cffDict) getPair(op dictOp) (int32, int32, bool) {
	e := d.get(op)
	if e == nil || len(e.args) != 2 {
		return 0, 0, false
	}
	x, ok := e.args[0].(int32)
	if !ok {
		return 0, 0, false
	}
	y, ok := e.args[1].(int32)
	if !ok {
		return 0, 0, false
	}
	return x, y, true
}

// without returns a copy of d, with the given operators removed.
func (d cffDict) without(ops ...dictOp) cffDict {
	res := make(cffDict, 0, len(d))
entryLoop:
	for _, e := range d {
		for _, op := range ops {
			if e.op == op {
				continue entryLoop
			}
		}
		res = append(res, e)
	}
	return res
}

// appendEncoded appends the binary encoding of all entries to buf.
// The operands are written exactly as they appeared in the input.
func (d cffDict) appendEncoded(buf []byte) []byte {
	for _, e := range d {
		buf = append(buf, e.raw...)
		buf = e.op.appendTo(buf)
	}
	return buf
}

// appendOffsetOp appends an operator with integer operands to buf.
// All operands use the five byte encoding, so that the length does not
// depend on the values.
func appendOffsetOp(buf []byte, op dictOp, args ...int) []byte {
	for _, a := range args {
		a32 := uint32(int32(a))
		buf = append(buf, 29, byte(a32>>24), byte(a32>>16), byte(a32>>8), byte(a32))
	}
	return op.appendTo(buf)
}

type dictOp uint16

func (d dictOp) appendTo(buf []byte) []byte {
	if d > 255 {
		return append(buf, byte(d>>8), byte(d))
	}
	return append(buf, byte(d))
}

func (d dictOp) String() string {
	switch d {
	case opCharset:
		return "charset"
	case opEncoding:
		return "Encoding"
	case opCharStrings:
		return "CharStrings"
	case opPrivate:
		return "Private"
	case opCharstringType:
		return "CharstringType"
	case opSyntheticBase:
		return "SyntheticBase"
	case opROS:
		return "ROS"
	case opFDArray:
		return "FDArray"
	case opFDSelect:
		return "FDSelect"
	case opSubrs:
		return "Subrs"
	default:
		if d < 256 {
			return fmt.Sprintf("%d", d)
		}
		return fmt.Sprintf("%d %d", d>>8, d&0xff)
	}
}

const (
	// top DICT operators
	opCharset        dictOp = 0x000F
	opEncoding       dictOp = 0x0010
	opCharStrings    dictOp = 0x0011
	opPrivate        dictOp = 0x0012
	opCharstringType dictOp = 0x0C06
	opSyntheticBase  dictOp = 0x0C14
	opROS            dictOp = 0x0C1E
	opCIDCount       dictOp = 0x0C22
	opFDArray        dictOp = 0x0C24
	opFDSelect       dictOp = 0x0C25

	// private DICT operators
	opSubrs dictOp = 0x0013 // Offset (self) to local subrs
)

var errCorruptDict = invalid("invalid DICT")
