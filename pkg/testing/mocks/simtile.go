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

package mocks

import (
	"errors"
	"fmt"
	"time"

	"github.com/StrijpT-Ellie/contourwall-core/pkg/helpers/syncutil"
	"github.com/StrijpT-Ellie/contourwall-core/pkg/protocol"
	"github.com/jonboulle/clockwork"
	"go.bug.st/serial"
)

// Write is one Write call observed by a SimulatedTile.
type Write struct {
	At   time.Time
	Data []byte
}

// SimulatedTile is a fake serial port with the tile firmware behind it. It
// parses the byte stream written by the host, verifies checksums, keeps an
// LED buffer in strip order and queues the responses a real tile would send.
type SimulatedTile struct {
	// Clock timestamps writes. Nil uses the real clock.
	Clock clockwork.Clock
	// Statuses overrides the final status returned for a command.
	Statuses map[protocol.Command]protocol.StatusCode
	// SparseAck overrides the Next acknowledgement of UpdateSpecific.
	SparseAck *protocol.StatusCode
	// WriteErr is returned by every Write when set.
	WriteErr error
	// Magic is the handshake answer. Nil answers "Ellie".
	Magic []byte
	// Raw replaces the final status byte of a command with an arbitrary
	// byte, for exercising unrecognized status handling.
	Raw map[protocol.Command]byte

	writes      []Write
	rx          []byte
	tx          []byte
	leds        [protocol.TileFrameSize]byte
	readTimeout time.Duration
	sparseCount int
	shows       int
	flushes     int
	mu          syncutil.Mutex
	// Identifier is the wall position reported by GetIdentifier.
	Identifier byte
	// CorruptIdentifier makes the two identifier copies disagree.
	CorruptIdentifier bool
	// Silent drops every response.
	Silent        bool
	closed        bool
	sparsePending bool
}

// NewSimulatedTile returns a compatible tile with the given identifier.
func NewSimulatedTile(id byte) *SimulatedTile {
	return &SimulatedTile{Identifier: id}
}

func (s *SimulatedTile) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now()
}

// Write implements io.Writer and feeds the firmware state machine.
func (s *SimulatedTile) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, errors.New("port closed")
	}
	if s.WriteErr != nil {
		return 0, s.WriteErr
	}

	data := make([]byte, len(p))
	copy(data, p)
	s.writes = append(s.writes, Write{At: s.now(), Data: data})
	s.rx = append(s.rx, p...)
	s.process()
	return len(p), nil
}

// Read returns queued response bytes. With nothing queued it waits for the
// read timeout and returns 0 bytes, like go.bug.st/serial does.
func (s *SimulatedTile) Read(p []byte) (int, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, errors.New("port closed")
	}
	if len(s.tx) > 0 {
		n := copy(p, s.tx)
		s.tx = s.tx[n:]
		s.mu.Unlock()
		return n, nil
	}
	wait := s.readTimeout
	s.mu.Unlock()

	if wait <= 0 || wait > 10*time.Millisecond {
		wait = 10 * time.Millisecond
	}
	time.Sleep(wait)
	return 0, nil
}

// Close implements io.Closer.
func (s *SimulatedTile) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// SetReadTimeout records the timeout used by Read.
func (s *SimulatedTile) SetReadTimeout(t time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readTimeout = t
	return nil
}

// ResetInputBuffer drops queued responses.
func (s *SimulatedTile) ResetInputBuffer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tx = nil
	s.flushes++
	return nil
}

// process consumes complete requests from rx. Caller holds mu.
func (s *SimulatedTile) process() {
	for len(s.rx) > 0 {
		if s.sparsePending {
			need := s.sparseCount*protocol.SparseEntrySize + 1
			if len(s.rx) < need {
				return
			}
			frame := s.take(need)
			s.sparsePending = false
			if !protocol.Verify(frame) {
				s.respond(protocol.StatusNonMatchingCRC.Byte())
				continue
			}
			for off := 0; off+protocol.SparseEntrySize <= len(frame)-1; off += protocol.SparseEntrySize {
				pixel, ok := protocol.DecodePixelIndex(frame[off : off+2])
				if !ok {
					continue
				}
				copy(s.leds[pixel*3:pixel*3+3], frame[off+2:off+protocol.SparseEntrySize])
			}
			s.final(protocol.CmdUpdateSpecific)
			continue
		}

		cmd := protocol.Command(s.rx[0])
		need := requestSize(cmd)
		if len(s.rx) < need {
			return
		}
		req := s.take(need)

		switch cmd {
		case protocol.CmdShow:
			s.shows++
			s.final(cmd)
		case protocol.CmdSolidColor:
			if !protocol.Verify(req[1:]) {
				s.respond(protocol.StatusNonMatchingCRC.Byte())
				continue
			}
			for off := 0; off < len(s.leds); off += 3 {
				copy(s.leds[off:off+3], req[1:4])
			}
			s.final(cmd)
		case protocol.CmdUpdateAll:
			if !protocol.Verify(req[1:]) {
				s.respond(protocol.StatusNonMatchingCRC.Byte())
				continue
			}
			copy(s.leds[:], req[1:1+protocol.TileFrameSize])
			s.final(cmd)
		case protocol.CmdUpdateSpecific:
			if req[1] != req[2] {
				s.respond(protocol.StatusNonMatchingCRC.Byte())
				continue
			}
			ack := protocol.StatusNext
			if s.SparseAck != nil {
				ack = *s.SparseAck
			}
			if ack == protocol.StatusNext {
				s.sparsePending = true
				s.sparseCount = int(req[1])
			}
			s.respond(ack.Byte())
		case protocol.CmdGetIdentifier:
			second := s.Identifier
			if s.CorruptIdentifier {
				second++
			}
			s.respond(s.Identifier, second, s.status(cmd))
		case protocol.CmdSetIdentifier:
			if req[1] != req[2] {
				s.respond(protocol.StatusNonMatchingCRC.Byte())
				continue
			}
			if s.status(cmd) == protocol.StatusOk.Byte() {
				s.Identifier = req[1]
			}
			s.final(cmd)
		case protocol.CmdMagicNumbers:
			magic := s.Magic
			if magic == nil {
				magic = []byte(protocol.MagicNumbers)
			}
			s.respond(magic...)
		default:
			s.respond(protocol.StatusUnknownCommand.Byte())
		}
	}
}

func requestSize(cmd protocol.Command) int {
	switch cmd {
	case protocol.CmdSolidColor:
		return 5
	case protocol.CmdUpdateAll:
		return protocol.TileFrameSize + 2
	case protocol.CmdUpdateSpecific, protocol.CmdSetIdentifier:
		return 3
	default:
		return 1
	}
}

func (s *SimulatedTile) take(n int) []byte {
	out := make([]byte, n)
	copy(out, s.rx[:n])
	s.rx = s.rx[n:]
	return out
}

func (s *SimulatedTile) status(cmd protocol.Command) byte {
	if b, ok := s.Raw[cmd]; ok {
		return b
	}
	if st, ok := s.Statuses[cmd]; ok {
		return st.Byte()
	}
	return protocol.StatusOk.Byte()
}

func (s *SimulatedTile) final(cmd protocol.Command) {
	s.respond(s.status(cmd))
}

func (s *SimulatedTile) respond(b ...byte) {
	if s.Silent {
		return
	}
	s.tx = append(s.tx, b...)
}

// Writes returns every Write call so far.
func (s *SimulatedTile) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Write, len(s.writes))
	copy(out, s.writes)
	return out
}

// WrittenData returns the payload of every Write call so far.
func (s *SimulatedTile) WrittenData() [][]byte {
	writes := s.Writes()
	out := make([][]byte, len(writes))
	for i, w := range writes {
		out[i] = w.Data
	}
	return out
}

// ResetWrites forgets recorded writes, typically after the handshake.
func (s *SimulatedTile) ResetWrites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = nil
}

// LEDs returns the firmware LED buffer in strip order.
func (s *SimulatedTile) LEDs() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.leds))
	copy(out, s.leds[:])
	return out
}

// Shows returns how many Show commands were received.
func (s *SimulatedTile) Shows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shows
}

// Flushes returns how many times the input buffer was reset.
func (s *SimulatedTile) Flushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}

// IsClosed returns true if the port has been closed.
func (s *SimulatedTile) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// SimulatedBus hands out simulated tiles by port path, standing in for the
// serial driver during discovery tests.
type SimulatedBus struct {
	Tiles  map[string]*SimulatedTile
	opened map[string]*serial.Mode
	mu     syncutil.Mutex
}

// NewSimulatedBus returns an empty bus.
func NewSimulatedBus() *SimulatedBus {
	return &SimulatedBus{
		Tiles:  make(map[string]*SimulatedTile),
		opened: make(map[string]*serial.Mode),
	}
}

// Add registers a tile under path.
func (b *SimulatedBus) Add(path string, t *SimulatedTile) *SimulatedTile {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Tiles[path] = t
	return t
}

// Open returns the tile registered under path.
func (b *SimulatedBus) Open(path string, mode *serial.Mode) (*SimulatedTile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.Tiles[path]
	if !ok {
		return nil, fmt.Errorf("no such port: %s", path)
	}
	b.opened[path] = mode
	return t, nil
}

// Mode returns the serial mode a path was opened with.
func (b *SimulatedBus) Mode(path string) (*serial.Mode, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.opened[path]
	return m, ok
}
