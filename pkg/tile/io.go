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
	"fmt"

	"github.com/StrijpT-Ellie/contourwall-core/pkg/protocol"
	"github.com/rs/zerolog/log"
)

func (t *Tile) write(data []byte) error {
	n, err := t.port.Write(data)
	if err != nil {
		if isDisconnectionError(err) {
			t.connected.Store(false)
			log.Info().Err(err).Str("port", t.path).Msg("tile disconnected - write error")
		}
		return fmt.Errorf("failed to write to port: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("%w: %d/%d bytes", ErrShortWrite, n, len(data))
	}
	return nil
}

// read fills buf within the read budget. The port read timeout is shrunk
// to what is left of the budget on every pass, so a silent tile costs at
// most one budget. On timeout the input buffer is flushed so late bytes
// cannot be mistaken for the next response.
func (t *Tile) read(buf []byte) error {
	start := t.clock.Now()
	got := 0
	for got < len(buf) {
		remaining := t.readBudget - t.clock.Since(start)
		if remaining <= 0 {
			log.Error().
				Str("port", t.path).
				Int("received", got).
				Int("expected", len(buf)).
				Dur("budget", t.readBudget).
				Msg("response not received within budget")
			if err := t.port.ResetInputBuffer(); err != nil {
				log.Warn().Err(err).Str("port", t.path).Msg("failed to flush input buffer")
			}
			return fmt.Errorf("%w: %d/%d bytes within %s", ErrReadTimeout, got, len(buf), t.readBudget)
		}

		if err := t.port.SetReadTimeout(remaining); err != nil {
			return fmt.Errorf("failed to set read timeout: %w", err)
		}

		n, err := t.port.Read(buf[got:])
		if err != nil {
			return fmt.Errorf("failed to read from port: %w", err)
		}
		got += n
	}
	return nil
}

// readStatus reads a single status byte. Transport failures and bytes
// outside the status set both map to StatusErrorInternal.
func (t *Tile) readStatus(cmd protocol.Command) protocol.StatusCode {
	var buf [protocol.StatusResponseSize]byte
	if err := t.read(buf[:]); err != nil {
		log.Error().Err(err).Str("port", t.path).Stringer("command", cmd).Msg("failed to read status")
		return protocol.StatusErrorInternal
	}

	status, ok := protocol.ParseStatus(buf[0])
	if !ok {
		log.Error().
			Str("port", t.path).
			Stringer("command", cmd).
			Uint8("byte", buf[0]).
			Msg("unrecognized status byte")
		return protocol.StatusErrorInternal
	}
	return status
}

// exchange writes a request and reads its status byte.
func (t *Tile) exchange(cmd protocol.Command, request []byte) protocol.StatusCode {
	if err := t.write(request); err != nil {
		log.Error().Err(err).Str("port", t.path).Stringer("command", cmd).Msg("failed to send command")
		return protocol.StatusErrorInternal
	}
	status := t.readStatus(cmd)
	log.Trace().
		Str("port", t.path).
		Stringer("command", cmd).
		Int("bytes", len(request)).
		Stringer("status", status).
		Msg("tile exchange")
	return status
}
