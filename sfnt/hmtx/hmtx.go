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

// Package hmtx reads and rewrites the "hhea"/"hmtx" and "vhea"/"vmtx"
// table pairs.
// https://docs.microsoft.com/en-us/typography/opentype/spec/hhea
// https://docs.microsoft.com/en-us/typography/opentype/spec/vhea
//
// Both pairs share the same binary layout: a 36 byte header table, followed
// by a metrics table with numberOfLongMetrics (advance, bearing) records and
// then one bearing for each remaining glyph.  The advance of the last long
// record applies to all remaining glyphs.
//
// The right (or bottom) side bearing is derived from the advance, the
// bearing and the glyph bounding box:
//
//	rsb = aw - (lsb + xMax - xMin)
package hmtx

import (
	"encoding/binary"
	"fmt"

	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/sfntsubset/font"
	"seehuhn.de/go/sfntsubset/sfnt/remap"
)

const headerLength = 36

// offsets of fields inside the header table
const (
	offAdvanceMax    = 10
	offMinLeading    = 12
	offMinTrailing   = 14
	offMaxExtent     = 16
	offMetricFormat  = 32
	offNumberOfLongs = 34
)

// Metrics contains the per-glyph metrics from a "hmtx" or "vmtx" table.
type Metrics struct {
	Advance []uint16
	Bearing []int16

	// Vertical is true for "vhea"/"vmtx" data.
	Vertical bool

	header []byte
}

// Decode reads the metrics for numGlyphs glyphs.  If the metrics table
// contains more data than needed, the excess is ignored.
func Decode(headerData, metricsData []byte, numGlyphs int, vertical bool) (*Metrics, error) {
	sub := subSystem(vertical)
	if len(headerData) < headerLength {
		return nil, invalid(sub, "header table too short")
	}
	major := binary.BigEndian.Uint16(headerData)
	if major != 1 {
		return nil, &font.NotSupportedError{
			SubSystem: sub,
			Feature:   fmt.Sprintf("header version %d", major),
		}
	}
	if f := binary.BigEndian.Uint16(headerData[offMetricFormat:]); f != 0 {
		return nil, &font.NotSupportedError{
			SubSystem: sub,
			Feature:   fmt.Sprintf("metric data format %d", f),
		}
	}

	numLong := int(binary.BigEndian.Uint16(headerData[offNumberOfLongs:]))
	if numLong == 0 && numGlyphs > 0 {
		return nil, invalid(sub, "no long metrics")
	}
	numLong = min(numLong, numGlyphs)
	if len(metricsData) < 4*numLong+2*(numGlyphs-numLong) {
		return nil, invalid(sub, "metrics table too short")
	}

	m := &Metrics{
		Advance:  make([]uint16, numGlyphs),
		Bearing:  make([]int16, numGlyphs),
		Vertical: vertical,
		header:   headerData[:headerLength],
	}
	pos := 0
	var advance uint16
	for i := range numGlyphs {
		if i < numLong {
			advance = binary.BigEndian.Uint16(metricsData[pos:])
			pos += 2
		}
		m.Advance[i] = advance
		m.Bearing[i] = int16(binary.BigEndian.Uint16(metricsData[pos:]))
		pos += 2
	}
	return m, nil
}

// Subset returns the metrics of the glyphs retained by t, in the order of
// the new glyph IDs.
func (m *Metrics) Subset(t *remap.Table) *Metrics {
	oldGIDs := t.OldGIDs()
	res := &Metrics{
		Advance:  make([]uint16, len(oldGIDs)),
		Bearing:  make([]int16, len(oldGIDs)),
		Vertical: m.Vertical,
		header:   m.header,
	}
	for i, gid := range oldGIDs {
		if int(gid) < len(m.Advance) {
			res.Advance[i] = m.Advance[gid]
			res.Bearing[i] = m.Bearing[gid]
		}
	}
	return res
}

// Encode returns the header table and the metrics table.
//
// The trailing run of equal advances is stored only once.  The maximum
// advance is always recomputed.  If bboxes is non-nil, it must have one
// entry for every glyph (nil for glyphs without an outline) and the
// minimum side bearings and the maximum extent are recomputed from the
// glyph bounding boxes.  Otherwise these fields are copied unchanged.
func (m *Metrics) Encode(bboxes []*funit.Rect16) (headerData, metricsData []byte) {
	n := len(m.Advance)
	numLong := n
	for numLong > 1 && m.Advance[numLong-1] == m.Advance[numLong-2] {
		numLong--
	}

	headerData = make([]byte, headerLength)
	copy(headerData, m.header)
	put := func(off int, v uint16) {
		binary.BigEndian.PutUint16(headerData[off:], v)
	}

	var advanceMax uint16
	for _, a := range m.Advance {
		advanceMax = max(advanceMax, a)
	}
	put(offAdvanceMax, advanceMax)
	put(offNumberOfLongs, uint16(numLong))

	if bboxes != nil {
		var minLeading, minTrailing, maxExtent int
		first := true
		for i, box := range bboxes {
			if box == nil || i >= n {
				continue
			}
			var extent int
			if m.Vertical {
				extent = int(box.URy) - int(box.LLy)
			} else {
				extent = int(box.URx) - int(box.LLx)
			}
			leading := int(m.Bearing[i])
			trailing := int(m.Advance[i]) - leading - extent
			if first {
				minLeading, minTrailing, maxExtent = leading, trailing, leading+extent
				first = false
				continue
			}
			minLeading = min(minLeading, leading)
			minTrailing = min(minTrailing, trailing)
			maxExtent = max(maxExtent, leading+extent)
		}
		put(offMinLeading, uint16(clamp16(minLeading)))
		put(offMinTrailing, uint16(clamp16(minTrailing)))
		put(offMaxExtent, uint16(clamp16(maxExtent)))
	}

	metricsData = make([]byte, 0, 4*numLong+2*(n-numLong))
	for i := range n {
		if i < numLong {
			metricsData = binary.BigEndian.AppendUint16(metricsData, m.Advance[i])
		}
		metricsData = binary.BigEndian.AppendUint16(metricsData, uint16(m.Bearing[i]))
	}
	return headerData, metricsData
}

func clamp16(x int) int16 {
	return int16(max(-32768, min(x, 32767)))
}

func subSystem(vertical bool) string {
	if vertical {
		return "sfnt/vmtx"
	}
	return "sfnt/hmtx"
}

func invalid(sub, reason string) error {
	return &font.InvalidFontError{
		SubSystem: sub,
		Reason:    reason,
	}
}
