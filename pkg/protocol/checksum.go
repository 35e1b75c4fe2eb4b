// ContourWall Core
// Copyright (c) 2026 The ContourWall Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of ContourWall Core.
//
// ContourWall Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ContourWall Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ContourWall Core.  If not, see <http://www.gnu.org/licenses/>.

package protocol

import "errors"

// ErrSparseOverflow is returned when a sparse payload is malformed or holds
// more entries than one UpdateSpecific can carry.
var ErrSparseOverflow = errors.New("sparse payload exceeds 255 pixels or is not a multiple of 5 bytes")

// Checksum is the 8-bit wrapping sum of all bytes. It only guards against
// corruption on the wire and is not a cryptographic check.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

// Frame assembles [cmd, payload..., Checksum(payload)]. The command byte is
// not part of the checksum.
func Frame(cmd Command, payload []byte) []byte {
	out := make([]byte, 0, len(payload)+2)
	out = append(out, byte(cmd))
	out = append(out, payload...)
	return append(out, Checksum(payload))
}

// Sealed returns payload with its checksum appended and no command byte.
// It is used for the second phase of UpdateSpecific.
func Sealed(payload []byte) []byte {
	out := make([]byte, 0, len(payload)+1)
	out = append(out, payload...)
	return append(out, Checksum(payload))
}

// Verify reports whether the last byte of frame is the checksum of the
// bytes before it.
func Verify(frame []byte) bool {
	if len(frame) == 0 {
		return false
	}
	last := len(frame) - 1
	return Checksum(frame[:last]) == frame[last]
}

// SparseCount validates an UpdateSpecific payload and returns its entry
// count.
func SparseCount(payload []byte) (int, error) {
	if len(payload)%SparseEntrySize != 0 || len(payload) > MaxSparsePayload {
		return 0, ErrSparseOverflow
	}
	return len(payload) / SparseEntrySize, nil
}
