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
	"fmt"

	"github.com/StrijpT-Ellie/contourwall-core/pkg/protocol"
)

// Wall layout: two rows of three tiles, slot = column + 3*row.
const (
	WallColumns = 3
	WallRows    = 2
	WallTiles   = WallColumns * WallRows
	// WallFrameSize is the unified framebuffer size of a full wall.
	WallFrameSize = WallTiles * protocol.TileFrameSize

	columnBytes = WallFrameSize / WallColumns
	lineBytes   = 2 * protocol.TileWidth * protocol.ChannelsPerPixel
	halfLine    = lineBytes / 2
)

// SplitWall partitions a unified six-tile framebuffer into the per-tile
// framebuffers, slots ordered top-left, top-center, top-right, bottom-left,
// bottom-center, bottom-right. Each 2400-byte column block interleaves the
// two tiles of that column in 60-byte runs.
func SplitWall(frame []byte) ([][]byte, error) {
	if len(frame) != WallFrameSize {
		return nil, fmt.Errorf("wall framebuffer is %d bytes, want %d", len(frame), WallFrameSize)
	}

	out := make([][]byte, WallTiles)
	for i := range out {
		out[i] = make([]byte, 0, protocol.TileFrameSize)
	}

	for i, v := range frame {
		column := i / columnBytes
		row := 0
		if i%lineBytes >= halfLine {
			row = 1
		}
		slot := column + WallColumns*row
		out[slot] = append(out[slot], v)
	}
	return out, nil
}
