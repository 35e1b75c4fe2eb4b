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

import "errors"

var (
	// ErrOpenFailed means the serial port could not be opened.
	ErrOpenFailed = errors.New("failed to open connection")
	// ErrNotAnEllieTile means the port answered the handshake with the
	// wrong signature, or not at all.
	ErrNotAnEllieTile = errors.New("not an Ellie tile")
	// ErrReadTimeout means the expected response did not arrive within the
	// read budget.
	ErrReadTimeout = errors.New("serial read timed out")
	// ErrShortWrite means the port accepted fewer bytes than were sent.
	ErrShortWrite = errors.New("short write to serial port")
)
