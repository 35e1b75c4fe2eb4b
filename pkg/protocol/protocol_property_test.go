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

import (
	"encoding/binary"
	"testing"

	"pgregory.net/rapid"
)

// TestPropertyChecksumCommutative verifies swapping two bytes keeps the sum.
func TestPropertyChecksumCommutative(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Byte().Draw(t, "a")
		b := rapid.Byte().Draw(t, "b")

		if Checksum([]byte{a, b}) != Checksum([]byte{b, a}) {
			t.Fatalf("checksum not commutative for %d, %d", a, b)
		}
	})
}

// TestPropertyChecksumIsSumMod256 verifies the wraparound definition.
func TestPropertyChecksumIsSumMod256(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 0, 2048).Draw(t, "data")

		total := 0
		for _, b := range data {
			total += int(b)
		}

		if got := Checksum(data); int(got) != total%256 {
			t.Fatalf("checksum %d, want %d", got, total%256)
		}
	})
}

// TestPropertyFrameVerifies verifies every assembled frame carries a valid trailer.
func TestPropertyFrameVerifies(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		cmd := Command(rapid.IntRange(0, 6).Draw(t, "cmd"))
		payload := rapid.SliceOfN(rapid.Byte(), 0, 1200).Draw(t, "payload")

		frame := Frame(cmd, payload)
		if frame[0] != byte(cmd) {
			t.Fatalf("frame starts with %d, want %d", frame[0], cmd)
		}
		if !Verify(frame[1:]) {
			t.Fatalf("frame trailer does not verify")
		}
	})
}

// TestPropertyPixelIndexBigEndian verifies pixel_index(k*3) == be16(k).
func TestPropertyPixelIndexBigEndian(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		k := rapid.IntRange(0, TilePixels-1).Draw(t, "k")
		ch := rapid.IntRange(0, ChannelsPerPixel-1).Draw(t, "channel")

		idx, ok := PixelIndex(k*ChannelsPerPixel + ch)
		if !ok {
			t.Fatalf("pixel %d rejected", k)
		}
		if got := binary.BigEndian.Uint16(idx[:]); int(got) != k {
			t.Fatalf("encoded %d, want %d", got, k)
		}
		back, ok := DecodePixelIndex(idx[:])
		if !ok || back != k {
			t.Fatalf("decode gave %d (%v), want %d", back, ok, k)
		}
	})
}
