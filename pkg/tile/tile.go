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

// Package tile drives one LED tile over its serial link: handshake,
// commands 0 to 6, show pacing and the sparse/full update decision.
package tile

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/StrijpT-Ellie/contourwall-core/pkg/pixels"
	"github.com/StrijpT-Ellie/contourwall-core/pkg/protocol"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaudRate        = 2_000_000
	DefaultFrameTime       = 33 * time.Millisecond
	DefaultReadBudget      = 30 * time.Millisecond
	DefaultSparseThreshold = 100
)

// Options configures how a tile is opened and driven. Zero fields take the
// package defaults.
type Options struct {
	Clock       clockwork.Clock
	PortFactory PortFactory
	BaudRate    int
	FrameTime   time.Duration
	ReadBudget  time.Duration
	// SparseThreshold is the changed-pixel count below which UpdateAll
	// sends a sparse update. Zero means DefaultSparseThreshold; a negative
	// value disables sparse updates.
	SparseThreshold int
	// Identifier pins the wall position of the tile instead of learning it
	// from GetIdentifier.
	Identifier uint8
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.PortFactory == nil {
		o.PortFactory = DefaultPortFactory
	}
	if o.BaudRate <= 0 {
		o.BaudRate = DefaultBaudRate
	}
	if o.FrameTime <= 0 {
		o.FrameTime = DefaultFrameTime
	}
	if o.ReadBudget <= 0 {
		o.ReadBudget = DefaultReadBudget
	}
	switch {
	case o.SparseThreshold == 0:
		o.SparseThreshold = DefaultSparseThreshold
	case o.SparseThreshold < 0:
		o.SparseThreshold = 0
	}
	return o
}

// Tile is one open tile connection. A Tile is not safe for concurrent use;
// the wall gives every tile its own worker.
type Tile struct {
	lastShow        time.Time
	port            Port
	clock           clockwork.Clock
	table           *pixels.IndexTable
	delta           *pixels.Delta
	path            string
	readBudget      time.Duration
	frameTime       atomic.Int64
	sparseThreshold atomic.Int32
	id              atomic.Uint32
	connected       atomic.Bool
}

// Info is a snapshot of a tile's identity and settings.
type Info struct {
	Path       string
	FrameTime  time.Duration
	Identifier uint8
	Connected  bool
}

// Open opens the serial port at path and verifies it is a tile.
func Open(path string, opts Options) (*Tile, error) {
	opts = opts.withDefaults()

	port, err := opts.PortFactory(path, serialMode(opts.BaudRate))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenFailed, path, err)
	}

	t, err := Attach(port, path, opts)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("port", path).
		Int("baud", opts.BaudRate).
		Msg("tile connected")
	return t, nil
}

// Attach wraps an already open port and performs the handshake. The port
// is closed if the handshake fails.
func Attach(port Port, path string, opts Options) (*Tile, error) {
	t := newTile(port, path, opts.withDefaults())

	magic, status := t.MagicNumbers()
	if status != protocol.StatusOk || string(magic[:]) != protocol.MagicNumbers {
		if err := t.Close(); err != nil {
			log.Debug().Err(err).Str("port", path).Msg("failed to close rejected port")
		}
		return nil, fmt.Errorf("%w: %s answered %q (%s)", ErrNotAnEllieTile, path, magic[:], status)
	}
	return t, nil
}

func newTile(port Port, path string, opts Options) *Tile {
	t := &Tile{
		port:       port,
		path:       path,
		clock:      opts.Clock,
		readBudget: opts.ReadBudget,
		table:      pixels.NewIndexTable(),
		delta:      pixels.NewDelta(),
	}
	t.frameTime.Store(int64(opts.FrameTime))
	t.sparseThreshold.Store(int32(min(opts.SparseThreshold, protocol.MaxSparsePixels)))
	t.id.Store(uint32(opts.Identifier))
	t.connected.Store(true)
	return t
}

// Close releases the serial connection. There is no teardown message.
func (t *Tile) Close() error {
	t.connected.Store(false)
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", t.path, err)
	}
	return nil
}

// Path returns the serial device the tile was opened on.
func (t *Tile) Path() string {
	return t.path
}

// ID returns the wall position of the tile, 1 to 6, or 0 if unknown.
func (t *Tile) ID() uint8 {
	return uint8(t.id.Load())
}

// Connected reports whether the connection is believed to be alive. It is
// cleared by Close and by writes that fail with a disconnection error.
func (t *Tile) Connected() bool {
	return t.connected.Load()
}

// FrameTime returns the minimum interval between two Show commands.
func (t *Tile) FrameTime() time.Duration {
	return time.Duration(t.frameTime.Load())
}

// SetFrameTime changes the show pacing. Non-positive values are ignored.
func (t *Tile) SetFrameTime(d time.Duration) {
	if d <= 0 {
		return
	}
	t.frameTime.Store(int64(d))
}

// SparseThreshold returns the changed-pixel count below which UpdateAll
// uses a sparse update.
func (t *Tile) SparseThreshold() int {
	return int(t.sparseThreshold.Load())
}

// SetSparseThreshold changes the sparse/full decision point, clamped to
// 0..255. Zero disables sparse updates.
func (t *Tile) SetSparseThreshold(n int) {
	n = max(0, min(n, protocol.MaxSparsePixels))
	t.sparseThreshold.Store(int32(n))
}

// Info returns a snapshot of the tile state.
func (t *Tile) Info() Info {
	return Info{
		Path:       t.path,
		Identifier: t.ID(),
		FrameTime:  t.FrameTime(),
		Connected:  t.Connected(),
	}
}

// Snapshot returns the last frame confirmed by the tile, in physical order,
// and whether it is valid.
func (t *Tile) Snapshot() ([]byte, bool) {
	return t.delta.Snapshot(), t.delta.Valid()
}
