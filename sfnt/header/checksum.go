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

package header

import "encoding/binary"

// Checksum computes the sfnt checksum of data: the sum of all big-endian
// 32-bit words, with the data padded with zeros to a multiple of four bytes.
func Checksum(data []byte) uint32 {
	var sum uint32
	n := len(data) &^ 3
	for i := 0; i < n; i += 4 {
		sum += binary.BigEndian.Uint32(data[i:])
	}
	if n < len(data) {
		var last [4]byte
		copy(last[:], data[n:])
		sum += binary.BigEndian.Uint32(last[:])
	}
	return sum
}

// VerifyChecksumAdjustment checks the checkSumAdjustment field of the head
// table of an assembled font file, located at headOffset.
func VerifyChecksumAdjustment(file []byte, headOffset int) bool {
	if headOffset < 0 || headOffset+12 > len(file) {
		return false
	}
	stored := binary.BigEndian.Uint32(file[headOffset+8:])
	total := Checksum(file) - stored
	return stored == 0xB1B0AFBA-total
}
