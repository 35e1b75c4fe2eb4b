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

// SetIdentifierOnPort opens the tile at path, programs a new identifier
// into it and closes the connection again. It is the tool for assigning
// wall positions to freshly flashed tiles.
func SetIdentifierOnPort(path string, id uint8, opts Options) (protocol.StatusCode, error) {
	if id == protocol.ReservedIdentifier {
		return protocol.StatusError, fmt.Errorf("identifier %d is reserved", id)
	}

	t, err := Open(path, opts)
	if err != nil {
		return protocol.StatusNotACompatiblePort, err
	}
	defer func() {
		if closeErr := t.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("port", path).Msg("failed to close tile")
		}
	}()

	status := t.SetIdentifier(id)
	if status == protocol.StatusOk {
		log.Info().Str("port", path).Uint8("identifier", id).Msg("tile identifier updated")
	} else {
		log.Warn().Str("port", path).Uint8("identifier", id).Stringer("status", status).
			Msg("tile rejected new identifier")
	}
	return status, nil
}
