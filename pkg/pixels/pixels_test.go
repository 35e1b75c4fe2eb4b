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
	"testing"

	"github.com/StrijpT-Ellie/contourwall-core/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexTableFixedPoints(t *testing.T) {
	t.Parallel()

	table := NewIndexTable()

	assert.Equal(t, 1199, table[1199])
	assert.Equal(t, 3, table[60])
	assert.Equal(t, 300, table[300])
	assert.Equal(t, 887, table[659])
	assert.Equal(t, 0, table[0])
}

func TestIndexTableIsPermutation(t *testing.T) {
	t.Parallel()

	table := NewIndexTable()
	seen := make(map[int]bool, len(table))
	for i, v := range table {
		require.GreaterOrEqual(t, v, 0, "entry %d", i)
		require.Less(t, v, protocol.TileFrameSize, "entry %d", i)
		require.False(t, seen[v], "physical offset %d used twice", v)
		seen[v] = true

		// channels stay in place within a pixel
		assert.Equal(t, i%protocol.ChannelsPerPixel, v%protocol.ChannelsPerPixel)
	}
	assert.Len(t, seen, protocol.TileFrameSize)
}

func TestIndexTableDeterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, *NewIndexTable(), *NewIndexTable())
}

func TestRemap(t *testing.T) {
	t.Parallel()

	table := NewIndexTable()
	src := make([]byte, protocol.TileFrameSize)
	// logical pixel 20 lands on physical pixel 1
	src[60], src[61], src[62] = 10, 20, 30

	dst := table.Physical(src)
	assert.Equal(t, []byte{10, 20, 30}, dst[3:6])

	short := make([]byte, 10)
	table.Remap(short, src)
	assert.Equal(t, make([]byte, 10), short, "short destination is untouched")
}

func TestDiffIdentical(t *testing.T) {
	t.Parallel()

	prev := make([]byte, protocol.TileFrameSize)
	frame := make([]byte, protocol.TileFrameSize)
	for i := range frame {
		prev[i] = byte(i)
		frame[i] = byte(i)
	}

	assert.Empty(t, Diff(prev, frame))
}

func TestDiffFirstPixel(t *testing.T) {
	t.Parallel()

	prev := make([]byte, protocol.TileFrameSize)
	frame := make([]byte, protocol.TileFrameSize)
	frame[0], frame[1], frame[2] = 1, 2, 3

	assert.Equal(t, []byte{0x00, 0x00, 1, 2, 3}, Diff(prev, frame))
	assert.Equal(t, frame, prev)
}

func TestDiffLastPixel(t *testing.T) {
	t.Parallel()

	prev := make([]byte, protocol.TileFrameSize)
	frame := make([]byte, protocol.TileFrameSize)
	frame[1197], frame[1198], frame[1199] = 7, 8, 9

	assert.Equal(t, []byte{0x01, 0x8F, 7, 8, 9}, Diff(prev, frame))
	assert.Equal(t, frame, prev)
}

func TestDiffFirstAndLastPixel(t *testing.T) {
	t.Parallel()

	prev := make([]byte, protocol.TileFrameSize)
	frame := make([]byte, protocol.TileFrameSize)
	frame[0] = 255
	frame[1199] = 128

	got := Diff(prev, frame)
	assert.Equal(t, []byte{0x00, 0x00, 255, 0, 0, 0x01, 0x8F, 0, 0, 128}, got)
	assert.Len(t, got, 2*protocol.SparseEntrySize)
}

func TestDiffSingleChannelChangeSendsWholePixel(t *testing.T) {
	t.Parallel()

	prev := make([]byte, protocol.TileFrameSize)
	prev[30], prev[31], prev[32] = 5, 5, 5
	frame := make([]byte, protocol.TileFrameSize)
	copy(frame, prev)
	frame[31] = 6

	assert.Equal(t, []byte{0x00, 0x0A, 5, 6, 5}, Diff(prev, frame))
}

func TestDeltaLifecycle(t *testing.T) {
	t.Parallel()

	d := NewDelta()
	require.False(t, d.Valid())

	frame := make([]byte, protocol.TileFrameSize)
	changes := d.Changes(frame)
	assert.Len(t, changes, protocol.TilePixels*protocol.SparseEntrySize,
		"an invalid snapshot reports every pixel")
	assert.True(t, d.Valid())

	assert.Empty(t, d.Changes(frame))

	frame[600] = 1
	assert.Equal(t, []byte{0x00, 0xC8, 1, 0, 0}, d.Changes(frame))

	d.Invalidate()
	assert.False(t, d.Valid())
	assert.Len(t, d.Changes(frame), protocol.TilePixels*protocol.SparseEntrySize)
}

func TestDeltaFillAndStore(t *testing.T) {
	t.Parallel()

	d := NewDelta()
	d.Fill(255, 0, 255)
	require.True(t, d.Valid())

	snap := d.Snapshot()
	for off := 0; off < len(snap); off += 3 {
		require.Equal(t, []byte{255, 0, 255}, snap[off:off+3])
	}

	frame := make([]byte, protocol.TileFrameSize)
	d.Store(frame)
	assert.Equal(t, frame, d.Snapshot())
	assert.Empty(t, d.Changes(frame))
}

func TestSplitWallMarkers(t *testing.T) {
	t.Parallel()

	frame := make([]byte, WallFrameSize)
	frame[0] = 1
	frame[60] = 2
	frame[2400] = 3
	frame[2460] = 4
	frame[4800] = 5
	frame[4860] = 6

	tiles, err := SplitWall(frame)
	require.NoError(t, err)
	require.Len(t, tiles, WallTiles)

	assert.Equal(t, byte(1), tiles[0][0], "top left")
	assert.Equal(t, byte(3), tiles[1][0], "top center")
	assert.Equal(t, byte(5), tiles[2][0], "top right")
	assert.Equal(t, byte(2), tiles[3][0], "bottom left")
	assert.Equal(t, byte(4), tiles[4][0], "bottom center")
	assert.Equal(t, byte(6), tiles[5][0], "bottom right")
}

func TestSplitWallSizes(t *testing.T) {
	t.Parallel()

	tiles, err := SplitWall(make([]byte, WallFrameSize))
	require.NoError(t, err)
	for i, tile := range tiles {
		assert.Len(t, tile, protocol.TileFrameSize, "slot %d", i)
	}

	_, err = SplitWall(make([]byte, protocol.TileFrameSize))
	require.Error(t, err)
}
