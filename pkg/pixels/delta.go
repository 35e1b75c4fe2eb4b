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

package pixels

import (
	"bytes"

	"github.com/StrijpT-Ellie/contourwall-core/pkg/protocol"
)

// Diff compares frame against prev pixel by pixel and returns an
// UpdateSpecific payload: for each pixel whose RGB triplet differs, its
// big-endian index followed by the new R, G, B, in ascending pixel order.
// prev is updated in place for every emitted pixel. Only the first
// TilePixels pixels common to both buffers are compared.
func Diff(prev, frame []byte) []byte {
	n := min(len(prev), len(frame)) / protocol.ChannelsPerPixel
	n = min(n, protocol.TilePixels)

	var out []byte
	for p := range n {
		off := p * protocol.ChannelsPerPixel
		end := off + protocol.ChannelsPerPixel
		if bytes.Equal(prev[off:end], frame[off:end]) {
			continue
		}

		idx, ok := protocol.PixelIndex(off)
		if !ok {
			continue
		}
		out = append(out, idx[0], idx[1])
		out = append(out, frame[off:end]...)
		copy(prev[off:end], frame[off:end])
	}
	return out
}

// Delta keeps the last frame confirmed on a tile, in physical order, and
// turns new frames into sparse change lists. A Delta starts invalid: until
// a frame is stored every pixel counts as changed.
type Delta struct {
	prev  [protocol.TileFrameSize]byte
	valid bool
}

// NewDelta returns an invalidated Delta.
func NewDelta() *Delta {
	return &Delta{}
}

// Changes returns the sparse payload turning the snapshot into frame and
// advances the snapshot.
func (d *Delta) Changes(frame []byte) []byte {
	if !d.valid {
		d.valid = true
		return full(&d.prev, frame)
	}
	return Diff(d.prev[:], frame)
}

// Store replaces the snapshot with frame.
func (d *Delta) Store(frame []byte) {
	copy(d.prev[:], frame)
	d.valid = true
}

// Fill sets every pixel of the snapshot to one color.
func (d *Delta) Fill(r, g, b byte) {
	for off := 0; off < len(d.prev); off += protocol.ChannelsPerPixel {
		d.prev[off], d.prev[off+1], d.prev[off+2] = r, g, b
	}
	d.valid = true
}

// Invalidate forgets the snapshot so the next frame is sent in full.
func (d *Delta) Invalidate() {
	d.valid = false
}

// Valid reports whether the snapshot reflects what the tile shows.
func (d *Delta) Valid() bool {
	return d.valid
}

// Snapshot returns a copy of the stored frame.
func (d *Delta) Snapshot() []byte {
	out := make([]byte, len(d.prev))
	copy(out, d.prev[:])
	return out
}

func full(prev *[protocol.TileFrameSize]byte, frame []byte) []byte {
	n := min(len(frame)/protocol.ChannelsPerPixel, protocol.TilePixels)
	out := make([]byte, 0, n*protocol.SparseEntrySize)
	for p := range n {
		off := p * protocol.ChannelsPerPixel
		idx, _ := protocol.PixelIndex(off)
		out = append(out, idx[0], idx[1])
		out = append(out, frame[off:off+protocol.ChannelsPerPixel]...)
	}
	copy(prev[:], frame)
	return out
}
