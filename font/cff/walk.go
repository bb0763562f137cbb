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
	"math"
	"slices"

	"seehuhn.de/go/sfnt/glyph"
)

// Limits for the charstring interpreter.
const (
	maxCallDepth = 10
	maxStack     = 96 // Type 2 allows 48 operands, but some fonts use more
	maxOps       = 1 << 17
)

type csKind uint8

const (
	csGlyph csKind = iota
	csLocal
	csGlobal
)

// csRef identifies a charstring: a glyph, a local subroutine of a given
// Private DICT, or a global subroutine.
type csRef struct {
	kind csKind
	fd   int
	idx  int
}

// callSite gives the location of an encoded subroutine number inside
// a charstring.
type callSite struct {
	start, end int
	target     csRef
}

// SubrSet records which subroutines are used by a set of glyphs, and where
// the subroutine numbers are stored in the charstrings.
type SubrSet struct {
	font *Font

	glyphs map[glyph.ID]bool
	global map[int]bool
	local  []map[int]bool

	sites map[csRef]map[int]callSite

	// fixed is set if some subroutine number cannot be traced back to a
	// single literal in a charstring.  In this case the subroutines
	// cannot be renumbered.
	fixed bool
}

// NewSubrSet returns an empty SubrSet for the font.
func (f *Font) NewSubrSet() *SubrSet {
	local := make([]map[int]bool, len(f.privates))
	for i := range local {
		local[i] = make(map[int]bool)
	}
	return &SubrSet{
		font:   f,
		glyphs: make(map[glyph.ID]bool),
		global: make(map[int]bool),
		local:  local,
		sites:  make(map[csRef]map[int]callSite),
	}
}

// Add runs the charstring of glyph gid and records all subroutines
// which are called.
func (s *SubrSet) Add(gid glyph.ID) error {
	if int(gid) >= len(s.font.charStrings) {
		return invalid("glyph index out of range")
	}
	if s.glyphs[gid] {
		return nil
	}
	s.glyphs[gid] = true
	return s.walk(gid)
}

// Global returns the indices of the used global subroutines.
func (s *SubrSet) Global() []int {
	return sortedKeys(s.global)
}

// Local returns the indices of the used local subroutines of the given
// Private DICT.
func (s *SubrSet) Local(fd int) []int {
	return sortedKeys(s.local[fd])
}

// Renumbered reports whether the subroutines can be renumbered.
// If this returns false, all subroutines are kept when the font is
// subset.
func (s *SubrSet) Renumbered() bool {
	return !s.fixed
}

func (s *SubrSet) recordSite(arg operand, target csRef) {
	if !arg.literal || arg.copied {
		s.fixed = true
		return
	}
	sites := s.sites[arg.cs]
	if sites == nil {
		sites = make(map[int]callSite)
		s.sites[arg.cs] = sites
	}
	if old, ok := sites[arg.start]; ok {
		if old.end != arg.end || old.target != target {
			s.fixed = true
		}
		return
	}
	sites[arg.start] = callSite{
		start:  arg.start,
		end:    arg.end,
		target: target,
	}
}

// operand is an entry on the operand stack of the interpreter.
// For numbers which were read directly from a charstring, the location
// of the number is recorded.
type operand struct {
	val float64

	cs         csRef
	start, end int
	literal    bool
	copied     bool
}

type frame struct {
	cs   csRef
	code []byte
	pos  int
}

// walk interprets the charstring of glyph gid.
// Only the subroutine calls and the hint mask lengths are of interest,
// drawing operators just clear the stack.
func (s *SubrSet) walk(gid glyph.ID) error {
	f := s.font
	fd := int(f.fdSelect[gid])
	localSubrs := f.privates[fd].subrs

	calls := []frame{{
		cs:   csRef{kind: csGlyph, idx: int(gid)},
		code: f.charStrings[gid],
	}}
	var stack []operand
	var storage [32]operand
	nStems := 0
	budget := maxOps

	for len(calls) > 0 {
		fr := &calls[len(calls)-1]
		code := fr.code
		if fr.pos >= len(code) {
			// implicit return at the end of a subroutine
			calls = calls[:len(calls)-1]
			continue
		}

		budget--
		if budget < 0 {
			return invalid("charstring exceeds the operation limit")
		}
		if len(stack) > maxStack {
			return errStackOverflow
		}

		start := fr.pos
		if b0 := code[start]; b0 == 28 || b0 >= 32 {
			val, n, err := decodeT2Number(code[start:])
			if err != nil {
				return err
			}
			stack = append(stack, operand{
				val:     val,
				cs:      fr.cs,
				start:   start,
				end:     start + n,
				literal: true,
			})
			fr.pos += n
			continue
		}

		op := t2op(code[start])
		fr.pos++
		if op == 12 {
			if fr.pos >= len(code) {
				return errIncomplete
			}
			op = op<<8 | t2op(code[fr.pos])
			fr.pos++
		}

		switch op {
		case t2hstem, t2vstem, t2hstemhm, t2vstemhm:
			nStems += len(stack) / 2
			stack = stack[:0]

		case t2hintmask, t2cntrmask:
			// "If hstem and vstem hints are both declared at the beginning
			// of a charstring, and this sequence is followed directly by
			// the hintmask or cntrmask operators, the vstem hint operator
			// need not be included."
			nStems += len(stack) / 2
			stack = stack[:0]
			k := (nStems + 7) / 8
			if fr.pos+k > len(code) {
				return errIncomplete
			}
			fr.pos += k

		case t2rmoveto, t2hmoveto, t2vmoveto,
			t2rlineto, t2hlineto, t2vlineto,
			t2rrcurveto, t2rcurveline, t2rlinecurve,
			t2hhcurveto, t2vvcurveto, t2hvcurveto, t2vhcurveto,
			t2flex, t2flex1, t2hflex, t2hflex1, t2dotsection:
			stack = stack[:0]

		case t2endchar:
			if len(stack) >= 4 {
				return notSupported("endchar with seac arguments")
			}
			return nil

		case t2return:
			calls = calls[:len(calls)-1]

		case t2callsubr, t2callgsubr:
			k := len(stack) - 1
			if k < 0 {
				return errStackUnderflow
			}
			arg := stack[k]
			stack = stack[:k]

			var target csRef
			var subrs [][]byte
			if op == t2callsubr {
				target = csRef{kind: csLocal, fd: fd}
				subrs = localSubrs
			} else {
				target = csRef{kind: csGlobal}
				subrs = f.gsubrs
			}
			idx := int(arg.val) + subrBias(len(subrs))
			if arg.val != math.Trunc(arg.val) || idx < 0 || idx >= len(subrs) {
				return errInvalidSubroutine
			}
			target.idx = idx

			if target.kind == csLocal {
				s.local[fd][idx] = true
			} else {
				s.global[idx] = true
			}
			s.recordSite(arg, target)

			if len(calls) > maxCallDepth {
				return invalid("maximum call depth exceeded")
			}
			calls = append(calls, frame{cs: target, code: subrs[idx]})

		case t2abs, t2neg, t2sqrt, t2not:
			k := len(stack) - 1
			if k < 0 {
				return errStackUnderflow
			}
			x := stack[k].val
			var val float64
			switch op {
			case t2abs:
				val = math.Abs(x)
			case t2neg:
				val = -x
			case t2sqrt:
				val = math.Sqrt(x)
			case t2not:
				if x == 0 {
					val = 1
				}
			}
			stack[k] = operand{val: val}

		case t2add, t2sub, t2mul, t2div, t2and, t2or, t2eq:
			k := len(stack) - 2
			if k < 0 {
				return errStackUnderflow
			}
			x, y := stack[k].val, stack[k+1].val
			var val float64
			switch op {
			case t2add:
				val = x + y
			case t2sub:
				val = x - y
			case t2mul:
				val = x * y
			case t2div:
				if y != 0 {
					val = x / y
				}
			case t2and:
				if x != 0 && y != 0 {
					val = 1
				}
			case t2or:
				if x != 0 || y != 0 {
					val = 1
				}
			case t2eq:
				if x == y {
					val = 1
				}
			}
			stack = append(stack[:k], operand{val: val})

		case t2ifelse:
			k := len(stack) - 4
			if k < 0 {
				return errStackUnderflow
			}
			val := stack[k].val
			if stack[k+2].val > stack[k+3].val {
				val = stack[k+1].val
			}
			stack = append(stack[:k], operand{val: val})

		case t2random:
			stack = append(stack, operand{val: 0.618}) // a random number in (0, 1]

		case t2drop:
			k := len(stack) - 1
			if k < 0 {
				return errStackUnderflow
			}
			stack = stack[:k]

		case t2exch:
			k := len(stack) - 2
			if k < 0 {
				return errStackUnderflow
			}
			stack[k], stack[k+1] = stack[k+1], stack[k]

		case t2dup:
			k := len(stack) - 1
			if k < 0 {
				return errStackUnderflow
			}
			stack[k].copied = true
			stack = append(stack, stack[k])

		case t2index:
			k := len(stack) - 1
			if k < 0 {
				return errStackUnderflow
			}
			idx := int(stack[k].val)
			if idx < 0 {
				idx = 0
			}
			if k-idx-1 < 0 {
				return errStackUnderflow
			}
			stack[k-idx-1].copied = true
			stack[k] = stack[k-idx-1]

		case t2roll:
			k := len(stack) - 2
			if k < 0 {
				return errStackUnderflow
			}
			n := int(stack[k].val)
			j := int(stack[k+1].val)
			if n <= 0 || n > k {
				return invalid("invalid roll count")
			}
			roll(stack[k-n:k], j)
			stack = stack[:k]

		case t2put:
			k := len(stack) - 2
			if k < 0 {
				return errStackUnderflow
			}
			m := int(stack[k+1].val)
			if m < 0 || m >= len(storage) {
				return invalid("invalid store index")
			}
			storage[m] = operand{val: stack[k].val}
			stack = stack[:k]

		case t2get:
			k := len(stack) - 1
			if k < 0 {
				return errStackUnderflow
			}
			m := int(stack[k].val)
			if m < 0 || m >= len(storage) {
				return invalid("invalid store index")
			}
			stack[k] = storage[m]

		default:
			return invalid("unsupported charstring operator " + op.String())
		}
	}

	// Charstrings should end with endchar, but we tolerate
	// glyphs which simply stop after the last drawing operator.
	return nil
}

// decodeT2Number decodes a number at the start of code.
// It returns the value and the number of bytes used.
func decodeT2Number(code []byte) (float64, int, error) {
	b0 := code[0]
	switch {
	case b0 >= 32 && b0 <= 246:
		return float64(int32(b0) - 139), 1, nil
	case b0 >= 247 && b0 <= 250:
		if len(code) < 2 {
			return 0, 0, errIncomplete
		}
		return float64(int32(b0)*256 + int32(code[1]) + (108 - 247*256)), 2, nil
	case b0 >= 251 && b0 <= 254:
		if len(code) < 2 {
			return 0, 0, errIncomplete
		}
		return float64(-int32(b0)*256 - int32(code[1]) - (108 - 251*256)), 2, nil
	case b0 == 28:
		if len(code) < 3 {
			return 0, 0, errIncomplete
		}
		return float64(int16(code[1])<<8 + int16(code[2])), 3, nil
	case b0 == 255:
		if len(code) < 5 {
			return 0, 0, errIncomplete
		}
		// 16-bit signed integer with 16 bits of fraction
		val := int32(code[1])<<24 + int32(code[2])<<16 +
			int32(code[3])<<8 + int32(code[4])
		return float64(val) / 65536, 5, nil
	}
	return 0, 0, invalid("not a number")
}

// appendT2Int appends the shortest Type 2 encoding of an integer.
func appendT2Int(buf []byte, x int) []byte {
	switch {
	case x >= -107 && x <= 107:
		return append(buf, byte(x+139))
	case x >= 108 && x <= 1131:
		x -= 108
		return append(buf, byte(x>>8+247), byte(x))
	case x >= -1131 && x <= -108:
		x = -x - 108
		return append(buf, byte(x>>8+251), byte(x))
	default:
		return append(buf, 28, byte(x>>8), byte(x))
	}
}

// subrBias returns the bias for subroutine numbers, for an INDEX
// with n subroutines.
func subrBias(n int) int {
	if n < 1240 {
		return 107
	} else if n < 33900 {
		return 1131
	}
	return 32768
}

func roll(data []operand, j int) {
	n := len(data)

	j = j % n
	if j < 0 {
		j += n
	}

	tmp := make([]operand, j)
	copy(tmp, data[n-j:])
	copy(data[j:], data[:n-j])
	copy(data[:j], tmp)
}

func sortedKeys(m map[int]bool) []int {
	res := make([]int, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}
