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

// Package header assembles sfnt font files from a set of tables.
package header

import (
	"encoding/binary"
	"io"
	"math/bits"
	"slices"
)

// Write writes an sfnt file containing the given tables.
// Tables where the data is nil are not written, use a zero-length slice
// to write a table with no data.
//
// Tables are laid out in increasing tag order, each table padded to a
// multiple of four bytes.  If a "head" table is present, its
// checkSumAdjustment field is set in the output.  The map values are not
// modified.
func Write(w io.Writer, scalerType uint32, tables map[string][]byte) (int64, error) {
	tableNames := make([]string, 0, len(tables))
	for name, data := range tables {
		if data != nil && len(name) == 4 && isASCII(name) {
			tableNames = append(tableNames, name)
		}
	}
	slices.Sort(tableNames)
	numTables := len(tableNames)

	// prepare the header
	header := make([]byte, 12+16*numTables)
	binary.BigEndian.PutUint32(header[0:], scalerType)
	binary.BigEndian.PutUint16(header[4:], uint16(numTables))
	if numTables > 0 {
		entrySelector := bits.Len(uint(numTables)) - 1
		searchRange := 1 << (entrySelector + 4)
		binary.BigEndian.PutUint16(header[6:], uint16(searchRange))
		binary.BigEndian.PutUint16(header[8:], uint16(entrySelector))
		binary.BigEndian.PutUint16(header[10:], uint16(16*numTables-searchRange))
	}

	var head []byte
	if data, ok := tables["head"]; ok && len(data) >= 12 {
		// work on a copy with the checksum field cleared
		head = slices.Clone(data)
		clearChecksum(head)
	}

	var totalSum uint32
	offset := uint32(len(header))
	for i, name := range tableNames {
		body := tables[name]
		if name == "head" && head != nil {
			body = head
		}
		length := uint32(len(body))
		sum := Checksum(body)

		rec := header[12+16*i : 28+16*i]
		copy(rec[0:4], name)
		binary.BigEndian.PutUint32(rec[4:], sum)
		binary.BigEndian.PutUint32(rec[8:], offset)
		binary.BigEndian.PutUint32(rec[12:], length)

		totalSum += sum
		offset += 4 * ((length + 3) / 4)
	}
	totalSum += Checksum(header)

	// set the final checksum in the "head" table
	if head != nil {
		patchChecksum(head, totalSum)
	}

	// write the tables
	var totalSize int64
	n, err := w.Write(header)
	totalSize += int64(n)
	if err != nil {
		return totalSize, err
	}
	var pad [3]byte
	for _, name := range tableNames {
		body := tables[name]
		if name == "head" && head != nil {
			body = head
		}
		n, err := w.Write(body)
		totalSize += int64(n)
		if err != nil {
			return totalSize, err
		}
		if k := n % 4; k != 0 {
			l, err := w.Write(pad[:4-k])
			totalSize += int64(l)
			if err != nil {
				return totalSize, err
			}
		}
	}
	return totalSize, nil
}

// clearChecksum zeros the checksum field of the head table.
func clearChecksum(head []byte) {
	binary.BigEndian.PutUint32(head[8:12], 0)
}

// patchChecksum updates the checksum of the head table.
// The argument is the checksum of the entire font before patching.
func patchChecksum(head []byte, checksum uint32) {
	binary.BigEndian.PutUint32(head[8:12], 0xB1B0AFBA-checksum)
}

func isASCII(s string) bool {
	for _, c := range []byte(s) {
		if c < 32 || c > 126 {
			return false
		}
	}
	return true
}
