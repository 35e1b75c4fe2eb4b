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

import "encoding/binary"

// PixelIndex encodes the pixel containing byte offset off of a tile
// framebuffer as a big-endian uint16, the form used by UpdateSpecific.
// Offsets past the last pixel yield the [0,0] sentinel and ok=false.
func PixelIndex(off int) (idx [2]byte, ok bool) {
	if off < 0 {
		return idx, false
	}
	pixel := off / ChannelsPerPixel
	if pixel >= TilePixels {
		return idx, false
	}
	binary.BigEndian.PutUint16(idx[:], uint16(pixel))
	return idx, true
}

// DecodePixelIndex is the inverse of PixelIndex for a two-byte index.
func DecodePixelIndex(idx []byte) (int, bool) {
	if len(idx) < 2 {
		return 0, false
	}
	pixel := int(binary.BigEndian.Uint16(idx))
	if pixel >= TilePixels {
		return 0, false
	}
	return pixel, true
}
