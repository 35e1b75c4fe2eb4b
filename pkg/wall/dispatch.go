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
	"github.com/StrijpT-Ellie/contourwall-core/pkg/protocol"
	"github.com/StrijpT-Ellie/contourwall-core/pkg/tile"
	"golang.org/x/sync/errgroup"
)

// each runs op on every tile in parallel, one worker per tile, and returns
// once all have finished. A failing tile never stops the others.
func (w *Wall) each(op func(slot int, t *tile.Tile) protocol.StatusCode) Statuses {
	statuses := make(Statuses, len(w.tiles))

	var g errgroup.Group
	g.SetLimit(len(w.tiles))
	for i, t := range w.tiles {
		g.Go(func() error {
			statuses[i] = op(i, t)
			return nil
		})
	}
	_ = g.Wait()

	return statuses
}
