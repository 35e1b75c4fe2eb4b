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
	"errors"
	"fmt"
)

// ErrTopology is wrapped by every failure to assemble a complete wall.
var ErrTopology = errors.New("wall topology incomplete")

// TopologyError reports how many tiles a wall needed and how many were
// found.
type TopologyError struct {
	Mode  Mode
	Want  int
	Found int
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("%s: %s wall needs %d tiles, found %d", ErrTopology, e.Mode, e.Want, e.Found)
}

func (e *TopologyError) Is(target error) bool {
	return target == ErrTopology
}
