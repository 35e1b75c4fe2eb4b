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
	"testing"

	"github.com/StrijpT-Ellie/contourwall-core/pkg/protocol"
	"pgregory.net/rapid"
)

func frameGen() *rapid.Generator[[]byte] {
	return rapid.SliceOfN(rapid.Byte(), protocol.TileFrameSize, protocol.TileFrameSize)
}

// TestPropertyDiffConverges verifies the snapshot equals the new frame afterwards.
func TestPropertyDiffConverges(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		prev := frameGen().Draw(t, "prev")
		frame := frameGen().Draw(t, "frame")

		Diff(prev, frame)
		if !bytes.Equal(prev, frame) {
			t.Fatalf("snapshot did not converge to frame")
		}
	})
}

// TestPropertyDiffCountsChangedPixels verifies one entry per differing pixel, ascending.
func TestPropertyDiffCountsChangedPixels(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		prev := frameGen().Draw(t, "prev")
		frame := make([]byte, len(prev))
		copy(frame, prev)

		changed := rapid.SliceOfNDistinct(rapid.IntRange(0, protocol.TilePixels-1), 0, 50,
			rapid.ID[int]).Draw(t, "changed")
		for _, p := range changed {
			frame[p*3]++
		}

		out := Diff(prev, frame)
		if len(out) != len(changed)*protocol.SparseEntrySize {
			t.Fatalf("got %d bytes for %d changed pixels", len(out), len(changed))
		}

		last := -1
		for off := 0; off < len(out); off += protocol.SparseEntrySize {
			p, ok := protocol.DecodePixelIndex(out[off : off+2])
			if !ok || p <= last {
				t.Fatalf("entry %d has index %d after %d", off/protocol.SparseEntrySize, p, last)
			}
			last = p
		}
	})
}

// TestPropertySplitWallPreservesBytes verifies every byte lands in exactly one slot.
func TestPropertySplitWallPreservesBytes(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		frame := rapid.SliceOfN(rapid.Byte(), WallFrameSize, WallFrameSize).Draw(t, "frame")

		tiles, err := SplitWall(frame)
		if err != nil {
			t.Fatalf("split failed: %v", err)
		}

		var sum, want int
		for _, b := range frame {
			want += int(b)
		}
		for _, tile := range tiles {
			if len(tile) != protocol.TileFrameSize {
				t.Fatalf("tile has %d bytes", len(tile))
			}
			for _, b := range tile {
				sum += int(b)
			}
		}
		if sum != want {
			t.Fatalf("byte sum %d, want %d", sum, want)
		}
	})
}
