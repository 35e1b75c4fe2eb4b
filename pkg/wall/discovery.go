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

package wall

import (
	"fmt"

	"github.com/StrijpT-Ellie/contourwall-core/pkg/helpers"
	"github.com/StrijpT-Ellie/contourwall-core/pkg/protocol"
	"github.com/StrijpT-Ellie/contourwall-core/pkg/tile"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// maxProbes bounds how many ports are opened at once during discovery.
const maxProbes = 8

// discover probes every USB serial port and places each tile that answers
// with a valid identifier. Unless exactly the right slots end up filled,
// every opened tile is closed and a TopologyError is returned.
func discover(mode Mode, opts Options) ([]*tile.Tile, error) {
	lister := opts.Lister
	if lister == nil {
		lister = helpers.SystemPortLister{}
	}

	ports, err := lister.ListPorts()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	candidates := helpers.TileCandidates(ports, opts.Ignore)
	log.Debug().Strs("ports", candidates).Stringer("mode", mode).Msg("probing serial ports for tiles")

	probed := make([]*tile.Tile, len(candidates))
	var g errgroup.Group
	g.SetLimit(maxProbes)
	for i, path := range candidates {
		g.Go(func() error {
			probed[i] = probe(path, opts.Tile)
			return nil
		})
	}
	_ = g.Wait()

	slots := make([]*tile.Tile, mode.Tiles())
	found := 0
	for _, t := range probed {
		if t == nil {
			continue
		}

		slot := 0
		if mode == ModeFull {
			slot = int(t.ID()) - 1
		}
		if slots[slot] != nil {
			if mode == ModeFull {
				log.Error().
					Uint8("identifier", t.ID()).
					Str("port", t.Path()).
					Str("kept", slots[slot].Path()).
					Msg("two tiles share an identifier")
			}
			closeTile(t)
			continue
		}
		slots[slot] = t
		found++
	}

	if found != len(slots) {
		err := &TopologyError{Mode: mode, Want: len(slots), Found: found}
		log.Error().Err(err).Int("ports", len(candidates)).Msg("wall discovery failed")
		if closeErr := closeAll(slots); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close tiles after discovery")
		}
		return nil, err
	}
	return slots, nil
}

// probe opens path as a tile and asks its identifier. It returns nil for
// anything that is not a tile with a usable identifier.
func probe(path string, opts tile.Options) *tile.Tile {
	opts.Identifier = protocol.ReservedIdentifier

	t, err := tile.Open(path, opts)
	if err != nil {
		log.Debug().Err(err).Str("port", path).Msg("skipping port")
		return nil
	}

	id, status := t.GetIdentifier()
	if status != protocol.StatusOk || id < protocol.MinIdentifier || id > protocol.MaxIdentifier {
		log.Warn().
			Str("port", path).
			Uint8("identifier", id).
			Stringer("status", status).
			Msg("tile has no usable identifier")
		closeTile(t)
		return nil
	}
	return t
}

// openPorts opens the given ports in slot order, pinning each tile's
// identifier to its slot. One bad port fails the whole wall.
func openPorts(mode Mode, ports []string, opts Options) ([]*tile.Tile, error) {
	if len(ports) != mode.Tiles() {
		return nil, &TopologyError{Mode: mode, Want: mode.Tiles(), Found: len(ports)}
	}

	tiles := make([]*tile.Tile, len(ports))
	var g errgroup.Group
	g.SetLimit(len(ports))
	for i, path := range ports {
		g.Go(func() error {
			o := opts.Tile
			o.Identifier = uint8(i + 1)
			t, err := tile.Open(path, o)
			if err != nil {
				return fmt.Errorf("slot %d: %w", i, err)
			}
			tiles[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if closeErr := closeAll(tiles); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close tiles after open failure")
		}
		return nil, fmt.Errorf("failed to open wall: %w", err)
	}
	return tiles, nil
}

func closeTile(t *tile.Tile) {
	if err := t.Close(); err != nil {
		log.Warn().Err(err).Str("port", t.Path()).Msg("failed to close tile")
	}
}
