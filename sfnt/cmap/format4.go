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
	"math/bits"

	"seehuhn.de/go/dag"
	"seehuhn.de/go/sfnt/glyph"
)

// Format 4 is the segment mapping to delta values.
// https://docs.microsoft.com/en-us/typography/opentype/spec/cmap#format-4-segment-mapping-to-delta-values

func decodeFormat4(in []byte) (Mapping, error) {
	if len(in) < 16 {
		return nil, malformed("format 4: subtable too short")
	}
	if len(in)%2 != 0 {
		in = in[:len(in)-1]
	}

	segCountX2 := int(in[6])<<8 | int(in[7])
	if segCountX2%2 != 0 || 4*segCountX2+16 > len(in) {
		return nil, malformed("format 4: invalid segment count")
	}
	segCount := segCountX2 / 2

	words := make([]uint16, 0, (len(in)-14)/2)
	for i := 14; i < len(in); i += 2 {
		words = append(words, uint16(in[i])<<8|uint16(in[i+1]))
	}
	endCode := words[:segCount]
	// reservedPad omitted
	startCode := words[segCount+1 : 2*segCount+1]
	idDelta := words[2*segCount+1 : 3*segCount+1]
	idRangeOffset := words[3*segCount+1 : 4*segCount+1]
	glyphIDArray := words[4*segCount+1:]

	var m Mapping
	prevEnd := uint32(0)
	for k := 0; k < segCount; k++ {
		start := uint32(startCode[k])
		end := uint32(endCode[k]) + 1
		if start < prevEnd || end <= start {
			return nil, malformed("format 4: segments out of order")
		}
		prevEnd = end

		if idRangeOffset[k] == 0 {
			delta := idDelta[k]
			for idx := start; idx < end; idx++ {
				gid := glyph.ID(uint16(idx) + delta)
				if gid != 0 {
					m = append(m, Pair{Code: idx, GID: gid})
				}
			}
		} else {
			d := int(idRangeOffset[k])/2 - (segCount - k)
			if d < 0 || d+int(end-start) > len(glyphIDArray) {
				if start == 0xFFFF {
					// some fonts seem to have invalid data for the last segment
					continue
				}
				return nil, malformed("format 4: glyph array index out of range")
			}
			delta := idDelta[k]
			for idx := start; idx < end; idx++ {
				gid := glyph.ID(glyphIDArray[d+int(idx-start)])
				if gid != 0 {
					gid = glyph.ID(uint16(gid) + delta)
				}
				if gid != 0 {
					m = append(m, Pair{Code: idx, GID: gid})
				}
			}
		}
	}
	return m, nil
}

// segment4 is one segment of a format 4 subtable.
// If values is nil, the segment maps code c to c+delta.
type segment4 struct {
	start, end uint16
	delta      uint16
	values     []uint16
}

func encodeFormat4(language uint32, m Mapping) ([]byte, error) {
	if language > 0xFFFF {
		return nil, malformed("format 4: language out of range")
	}

	// The final segment must end at 0xFFFF.
	finalDelta := uint16(1)
	if n := len(m); n > 0 && m[n-1].Code == 0xFFFF {
		finalDelta = uint16(m[n-1].GID) + 1
		m = m[:n-1]
	}
	if n := len(m); n > 0 && m[n-1].Code > 0xFFFF {
		return nil, malformed("format 4: code out of range")
	}

	for _, useArrays := range []bool{true, false} {
		segs, err := segmentFormat4(m, useArrays)
		if err != nil {
			return nil, err
		}
		segs = append(segs, segment4{start: 0xFFFF, end: 0xFFFF, delta: finalDelta})
		res, ok := writeFormat4(language, segs)
		if ok {
			return res, nil
		}
	}
	return nil, malformed("format 4: too many mappings")
}

// segmentFormat4 finds the shortest sequence of segments which
// encodes all mappings in m.
func segmentFormat4(m Mapping, useArrays bool) ([]segment4, error) {
	if len(m) == 0 {
		return nil, nil
	}
	g := &segmenter{mm: m, useArrays: useArrays}
	ee, err := dag.ShortestPath[int32, uint32](g, len(m))
	if err != nil {
		return nil, err
	}

	segs := make([]segment4, 0, len(ee))
	v := 0
	for _, e := range ee {
		first := m[v]
		next := g.To(v, e)
		last := m[next-1]
		seg := segment4{
			start: uint16(first.Code),
			end:   uint16(last.Code),
		}
		if e > 0 {
			seg.delta = uint16(first.GID) - uint16(first.Code)
		} else {
			seg.values = make([]uint16, last.Code-first.Code+1)
			for _, p := range m[v:next] {
				seg.values[p.Code-first.Code] = uint16(p.GID)
			}
		}
		segs = append(segs, seg)
		v = next
	}
	return segs, nil
}

// Limits for the segments which use the glyph ID array.
const (
	maxArrayEntries = 64
	maxArraySpan    = 256
)

// segmenter is the graph used to find the shortest segmentation.
// The vertices are the indices into mm, edges are segments.
// A positive edge k is a delta segment covering k entries, a negative
// edge -k is a segment covering k entries via the glyph ID array.
type segmenter struct {
	mm        Mapping
	useArrays bool
}

func (g *segmenter) AppendEdges(ee []int32, v int) []int32 {
	n := len(g.mm)
	if v < 0 || v >= n {
		return ee
	}

	first := g.mm[v]
	delta := int(first.GID) - int(first.Code)
	k := 1
	for v+k < n {
		p := g.mm[v+k]
		if p.Code != first.Code+uint32(k) || int(p.GID)-int(p.Code) != delta {
			break
		}
		k++
	}
	ee = append(ee, int32(k))
	if k > 1 {
		ee = append(ee, 1)
	}

	if g.useArrays {
		for j := 2; j <= maxArrayEntries && v+j <= n; j++ {
			if g.mm[v+j-1].Code-first.Code >= maxArraySpan {
				break
			}
			ee = append(ee, -int32(j))
		}
	}
	return ee
}

func (g *segmenter) Length(v int, e int32) uint32 {
	if e > 0 {
		return 8
	}
	last := v - int(e) - 1
	return 8 + 2*(g.mm[last].Code-g.mm[v].Code+1)
}

func (g *segmenter) To(v int, e int32) int {
	if e > 0 {
		return v + int(e)
	}
	return v - int(e)
}

func writeFormat4(language uint32, segs []segment4) ([]byte, bool) {
	segCount := len(segs)
	var glyphIDArray []uint16
	idRangeOffset := make([]uint16, segCount)
	for i, s := range segs {
		if s.values == nil {
			continue
		}
		offs := 2 * (segCount - i + len(glyphIDArray))
		if offs > 0xFFFF {
			return nil, false
		}
		idRangeOffset[i] = uint16(offs)
		glyphIDArray = append(glyphIDArray, s.values...)
	}

	length := 16 + 8*segCount + 2*len(glyphIDArray)
	if length > 0xFFFF {
		return nil, false
	}

	sel := bits.Len(uint(segCount)) - 1
	searchRange := 2 << sel

	res := make([]byte, 0, length)
	res = append(res,
		0, 4,
		byte(length>>8), byte(length),
		byte(language>>8), byte(language),
		byte(segCount>>7), byte(segCount<<1),
		byte(searchRange>>8), byte(searchRange),
		byte(sel>>8), byte(sel),
		byte((2*segCount-searchRange)>>8), byte(2*segCount-searchRange))
	for _, s := range segs {
		res = append(res, byte(s.end>>8), byte(s.end))
	}
	res = append(res, 0, 0) // reservedPad
	for _, s := range segs {
		res = append(res, byte(s.start>>8), byte(s.start))
	}
	for _, s := range segs {
		res = append(res, byte(s.delta>>8), byte(s.delta))
	}
	for _, x := range idRangeOffset {
		res = append(res, byte(x>>8), byte(x))
	}
	for _, x := range glyphIDArray {
		res = append(res, byte(x>>8), byte(x))
	}
	return res, true
}
