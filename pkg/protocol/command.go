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

// Package protocol implements the byte-level parts of the tile command
// protocol: command numbers, status codes, checksums, frame assembly and
// the sparse-update pixel index encoding.
package protocol

// Command is the first byte of every request sent to a tile.
type Command byte

const (
	CmdShow           Command = 0
	CmdSolidColor     Command = 1
	CmdUpdateAll      Command = 2
	CmdUpdateSpecific Command = 3
	CmdGetIdentifier  Command = 4
	CmdSetIdentifier  Command = 5
	CmdMagicNumbers   Command = 6
)

// Tile geometry and payload sizes.
const (
	TileWidth  = 20
	TileHeight = 20
	// TilePixels is the number of LEDs on one tile.
	TilePixels = TileWidth * TileHeight
	// ChannelsPerPixel is the number of color bytes per LED (R, G, B).
	ChannelsPerPixel = 3
	// TileFrameSize is the size of one tile framebuffer in bytes.
	TileFrameSize = TilePixels * ChannelsPerPixel

	// SparseEntrySize is the size of one UpdateSpecific entry: a big-endian
	// pixel index followed by R, G, B.
	SparseEntrySize = 2 + ChannelsPerPixel
	// MaxSparsePixels is the most entries a single UpdateSpecific may carry,
	// bounded by its one-byte count field.
	MaxSparsePixels = 255
	// MaxSparsePayload is MaxSparsePixels entries in bytes.
	MaxSparsePayload = MaxSparsePixels * SparseEntrySize
)

// Response sizes.
const (
	StatusResponseSize     = 1
	IdentifierResponseSize = 3
	MagicNumbersSize       = 5
)

// MagicNumbers is the handshake signature every compatible tile returns.
const MagicNumbers = "Ellie"

// Identifier bounds. Zero is reserved and never assigned to a tile.
const (
	ReservedIdentifier = 0
	MinIdentifier      = 1
	MaxIdentifier      = 6
)

func (c Command) String() string {
	switch c {
	case CmdShow:
		return "show"
	case CmdSolidColor:
		return "solid_color"
	case CmdUpdateAll:
		return "update_all"
	case CmdUpdateSpecific:
		return "update_specific"
	case CmdGetIdentifier:
		return "get_identifier"
	case CmdSetIdentifier:
		return "set_identifier"
	case CmdMagicNumbers:
		return "magic_numbers"
	default:
		return "unknown"
	}
}
