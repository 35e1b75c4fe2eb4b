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
)

// Statuses holds one status per tile, in slot order.
type Statuses []protocol.StatusCode

// OK reports whether every tile returned StatusOk.
func (s Statuses) OK() bool {
	for _, st := range s {
		if st != protocol.StatusOk {
			return false
		}
	}
	return true
}

// Failed returns the slots whose status is not StatusOk.
func (s Statuses) Failed() []int {
	var slots []int
	for i, st := range s {
		if st != protocol.StatusOk {
			slots = append(slots, i)
		}
	}
	return slots
}

// First returns the first non-Ok status, or StatusOk.
func (s Statuses) First() protocol.StatusCode {
	for _, st := range s {
		if st != protocol.StatusOk {
			return st
		}
	}
	return protocol.StatusOk
}

func uniform(n int, st protocol.StatusCode) Statuses {
	s := make(Statuses, n)
	for i := range s {
		s[i] = st
	}
	return s
}
