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

package tile

import (
	"github.com/StrijpT-Ellie/contourwall-core/pkg/protocol"
	"github.com/rs/zerolog/log"
)

// Show latches the tile's LED buffer onto the display. It first sleeps
// whatever is left of the frame time since the previous show.
func (t *Tile) Show() protocol.StatusCode {
	if !t.lastShow.IsZero() {
		elapsed := t.clock.Since(t.lastShow)
		if frameTime := t.FrameTime(); elapsed < frameTime {
			t.clock.Sleep(frameTime - elapsed)
		}
	}

	if err := t.write([]byte{byte(protocol.CmdShow)}); err != nil {
		log.Error().Err(err).Str("port", t.path).Msg("failed to send show")
		return protocol.StatusErrorInternal
	}
	t.lastShow = t.clock.Now()

	return t.readStatus(protocol.CmdShow)
}

// SolidColor fills the whole tile buffer with one color.
func (t *Tile) SolidColor(r, g, b byte) protocol.StatusCode {
	status := t.exchange(protocol.CmdSolidColor, protocol.Frame(protocol.CmdSolidColor, []byte{r, g, b}))
	if status == protocol.StatusOk {
		t.delta.Fill(r, g, b)
	} else {
		t.delta.Invalidate()
	}
	return status
}

// UpdateAll replaces the tile framebuffer with frame, given as 1200 bytes
// of row-major RGB. With optimize set the frame is diffed against the last
// confirmed frame and, when fewer pixels than the sparse threshold changed,
// sent as an UpdateSpecific instead. The decision is made per frame.
func (t *Tile) UpdateAll(frame []byte, optimize bool) protocol.StatusCode {
	if len(frame) != protocol.TileFrameSize {
		log.Error().
			Str("port", t.path).
			Int("size", len(frame)).
			Msg("tile framebuffer has the wrong size")
		return protocol.StatusError
	}

	physical := t.table.Physical(frame)

	if optimize {
		changes := t.delta.Changes(physical)
		count := len(changes) / protocol.SparseEntrySize
		if count == 0 {
			log.Trace().Str("port", t.path).Msg("frame unchanged, nothing to send")
			return protocol.StatusOk
		}
		if count < t.SparseThreshold() {
			status := t.sendSparse(changes, count)
			if status != protocol.StatusOk {
				t.delta.Invalidate()
			}
			return status
		}
	} else {
		t.delta.Store(physical)
	}

	status := t.exchange(protocol.CmdUpdateAll, protocol.Frame(protocol.CmdUpdateAll, physical))
	if status != protocol.StatusOk {
		t.delta.Invalidate()
	}
	return status
}

// UpdateSpecific sets individual LEDs. payload is a sequence of 5-byte
// entries, a big-endian LED index in strip order followed by R, G, B, with
// at most 255 entries per call. Larger updates must be split by the caller.
func (t *Tile) UpdateSpecific(payload []byte) protocol.StatusCode {
	count, err := protocol.SparseCount(payload)
	if err != nil {
		log.Error().Err(err).Str("port", t.path).Int("size", len(payload)).Msg("invalid sparse payload")
		return protocol.StatusError
	}

	status := t.sendSparse(payload, count)
	if status != protocol.StatusOk {
		t.delta.Invalidate()
		return status
	}

	if t.delta.Valid() {
		snap := t.delta.Snapshot()
		for off := 0; off < len(payload); off += protocol.SparseEntrySize {
			pixel, ok := protocol.DecodePixelIndex(payload[off : off+2])
			if !ok {
				continue
			}
			copy(snap[pixel*protocol.ChannelsPerPixel:], payload[off+2:off+protocol.SparseEntrySize])
		}
		t.delta.Store(snap)
	}
	return status
}

// sendSparse runs the two-phase UpdateSpecific exchange: announce the count,
// wait for Next, then send the entries. Any status other than Next ends the
// exchange without sending the entries.
func (t *Tile) sendSparse(payload []byte, count int) protocol.StatusCode {
	n := byte(count)
	status := t.exchange(protocol.CmdUpdateSpecific, []byte{byte(protocol.CmdUpdateSpecific), n, n})
	if status != protocol.StatusNext {
		log.Warn().
			Str("port", t.path).
			Stringer("status", status).
			Msg("tile did not accept sparse update")
		return status
	}

	return t.exchange(protocol.CmdUpdateSpecific, protocol.Sealed(payload))
}

// GetIdentifier asks the tile for its wall position. The tile sends the
// identifier twice followed by a status; if the copies disagree the result
// is StatusNonMatchingCRC whatever the status byte says. The first valid
// identifier read binds the tile's ID.
func (t *Tile) GetIdentifier() (uint8, protocol.StatusCode) {
	if err := t.write([]byte{byte(protocol.CmdGetIdentifier)}); err != nil {
		log.Error().Err(err).Str("port", t.path).Msg("failed to request identifier")
		return 0, protocol.StatusErrorInternal
	}

	var buf [protocol.IdentifierResponseSize]byte
	if err := t.read(buf[:]); err != nil {
		log.Error().Err(err).Str("port", t.path).Msg("failed to read identifier")
		return 0, protocol.StatusErrorInternal
	}

	if buf[0] != buf[1] {
		log.Warn().
			Str("port", t.path).
			Uint8("first", buf[0]).
			Uint8("second", buf[1]).
			Msg("identifier copies disagree")
		return 0, protocol.StatusNonMatchingCRC
	}

	status, ok := protocol.ParseStatus(buf[2])
	if !ok {
		log.Error().Str("port", t.path).Uint8("byte", buf[2]).Msg("unrecognized status byte")
		return 0, protocol.StatusErrorInternal
	}

	id := buf[0]
	if status == protocol.StatusOk && id >= protocol.MinIdentifier && id <= protocol.MaxIdentifier {
		t.id.CompareAndSwap(0, uint32(id))
	}
	return id, status
}

// SetIdentifier stores a new wall position in the tile firmware. It takes
// effect at the next discovery; the ID of this Tile does not change.
// Identifier 0 is reserved and rejected without touching the wire.
func (t *Tile) SetIdentifier(id uint8) protocol.StatusCode {
	if id == protocol.ReservedIdentifier {
		log.Error().Str("port", t.path).Msg("cannot set a tile identifier to 0")
		return protocol.StatusError
	}
	return t.exchange(protocol.CmdSetIdentifier, []byte{byte(protocol.CmdSetIdentifier), id, id})
}

// MagicNumbers performs the handshake and returns the 5-byte signature.
// A compatible tile answers "Ellie".
func (t *Tile) MagicNumbers() ([protocol.MagicNumbersSize]byte, protocol.StatusCode) {
	var buf [protocol.MagicNumbersSize]byte
	if err := t.write([]byte{byte(protocol.CmdMagicNumbers)}); err != nil {
		log.Debug().Err(err).Str("port", t.path).Msg("failed to send handshake")
		return buf, protocol.StatusErrorInternal
	}
	if err := t.read(buf[:]); err != nil {
		log.Debug().Err(err).Str("port", t.path).Msg("no handshake response")
		return [protocol.MagicNumbersSize]byte{}, protocol.StatusErrorInternal
	}
	if string(buf[:]) != protocol.MagicNumbers {
		return buf, protocol.StatusNotACompatiblePort
	}
	return buf, protocol.StatusOk
}
