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

// Package pixels holds the pure framebuffer transforms used by the tile
// protocol: logical-to-physical index remapping, delta extraction and
// splitting a wall framebuffer into per-tile slices.
package pixels

import "github.com/StrijpT-Ellie/contourwall-core/pkg/protocol"

const (
	bandWidth  = 5
	bandPixels = 100
)

// IndexTable maps a logical row-major byte offset of a tile framebuffer to
// the byte offset at which the LED strip expects it.
type IndexTable [protocol.TileFrameSize]int

// NewIndexTable builds the table for the tile wiring. The strip runs
// through four bands of five lines; inside a band consecutive entries of a
// line are five LEDs apart, and each band starts a further 100 LEDs along.
func NewIndexTable() *IndexTable {
	var t IndexTable
	for logical := range protocol.TilePixels {
		major := logical / protocol.TileWidth
		minor := logical % protocol.TileWidth

		band := major / bandWidth
		start := band*bandPixels + major%bandWidth
		physical := start + minor*bandWidth

		for ch := range protocol.ChannelsPerPixel {
			t[logical*protocol.ChannelsPerPixel+ch] = physical*protocol.ChannelsPerPixel + ch
		}
	}
	return &t
}

// Remap writes src, in logical order, into dst in physical order. Both
// slices must be TileFrameSize long; extra bytes are ignored and a short
// dst is left untouched.
func (t *IndexTable) Remap(dst, src []byte) {
	if len(dst) < len(t) {
		return
	}
	n := min(len(src), len(t))
	for i := range n {
		dst[t[i]] = src[i]
	}
}

// Physical returns the remapped copy of a logical frame.
func (t *IndexTable) Physical(src []byte) []byte {
	dst := make([]byte, protocol.TileFrameSize)
	t.Remap(dst, src)
	return dst
}
