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

package protocol

import "strconv"

// StatusCode is the outcome of a single tile command. Every protocol
// operation returns one; the byte values are the wire encoding.
type StatusCode uint8

const (
	StatusError              StatusCode = 0
	StatusTooSlow            StatusCode = 1
	StatusNonMatchingCRC     StatusCode = 2
	StatusUnknownCommand     StatusCode = 3
	StatusErrorInternal      StatusCode = 50
	StatusNotACompatiblePort StatusCode = 51
	StatusOk                 StatusCode = 100
	// StatusNext is only ever seen mid-exchange during an UpdateSpecific.
	StatusNext  StatusCode = 101
	StatusReset StatusCode = 255
)

// ParseStatus decodes a status byte received from a tile. The second return
// value is false for any byte outside the closed set, which callers must
// treat as a communication failure.
func ParseStatus(b byte) (StatusCode, bool) {
	s := StatusCode(b)
	switch s {
	case StatusError, StatusTooSlow, StatusNonMatchingCRC, StatusUnknownCommand,
		StatusErrorInternal, StatusNotACompatiblePort, StatusOk, StatusNext, StatusReset:
		return s, true
	default:
		return StatusErrorInternal, false
	}
}

// Byte returns the wire encoding of the status.
func (s StatusCode) Byte() byte {
	return byte(s)
}

// OK reports whether the status is StatusOk.
func (s StatusCode) OK() bool {
	return s == StatusOk
}

func (s StatusCode) String() string {
	var name string
	switch s {
	case StatusError:
		name = "Error"
	case StatusTooSlow:
		name = "TooSlow"
	case StatusNonMatchingCRC:
		name = "NonMatchingCRC"
	case StatusUnknownCommand:
		name = "UnknownCommand"
	case StatusErrorInternal:
		name = "ErrorInternal"
	case StatusNotACompatiblePort:
		name = "NotACompatiblePort"
	case StatusOk:
		name = "Ok"
	case StatusNext:
		name = "Next"
	case StatusReset:
		name = "Reset"
	default:
		return "StatusCode(" + strconv.Itoa(int(s)) + ")"
	}
	return name + " (" + strconv.Itoa(int(s)) + ")"
}
