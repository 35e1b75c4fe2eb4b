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

// Package wall presents one or six tiles as a single display. It finds
// the tiles, places them by identifier, splits wall frames into tile
// frames and fans every command out to all tiles at once.
package wall

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/StrijpT-Ellie/contourwall-core/pkg/config"
	"github.com/StrijpT-Ellie/contourwall-core/pkg/helpers"
	"github.com/StrijpT-Ellie/contourwall-core/pkg/helpers/syncutil"
	"github.com/StrijpT-Ellie/contourwall-core/pkg/pixels"
	"github.com/StrijpT-Ellie/contourwall-core/pkg/protocol"
	"github.com/StrijpT-Ellie/contourwall-core/pkg/tile"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Mode int

const (
	ModeFull Mode = iota
	ModeSingle
)

// ParseMode accepts the config file spelling of a mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case config.WallModeFull:
		return ModeFull, nil
	case config.WallModeSingle:
		return ModeSingle, nil
	default:
		return ModeFull, fmt.Errorf("unknown wall mode: %q", s)
	}
}

// Tiles returns how many tiles a wall of this mode holds.
func (m Mode) Tiles() int {
	if m == ModeSingle {
		return 1
	}
	return pixels.WallTiles
}

func (m Mode) String() string {
	if m == ModeSingle {
		return config.WallModeSingle
	}
	return config.WallModeFull
}

// Options configures wall construction.
type Options struct {
	// Lister enumerates serial ports during discovery. Nil asks the OS.
	Lister helpers.PortLister
	// Ignore lists USB devices that are never probed.
	Ignore []helpers.SerialDevice
	// Tile is passed to every tile the wall opens.
	Tile tile.Options
	// DisableDelta makes Update always send full frames.
	DisableDelta bool
}

// TileInfo describes one populated slot.
type TileInfo struct {
	tile.Info
	// USB is the hub port the tile is plugged into, when known.
	USB  string
	Slot int
}

// Wall owns its tiles for its whole lifetime. Wall methods may be called
// from several goroutines; calls are serialized so each tile is only ever
// driven by one worker.
type Wall struct {
	log      zerolog.Logger
	tiles    []*tile.Tile
	usb      []string
	mu       syncutil.Mutex
	pushed   atomic.Uint64
	id       uuid.UUID
	mode     Mode
	optimize bool
	closed   bool
}

// New discovers a full six tile wall.
func New(opts Options) (*Wall, error) {
	tiles, err := discover(ModeFull, opts)
	if err != nil {
		return nil, err
	}
	return newWall(ModeFull, tiles, opts), nil
}

// NewSingle discovers a single tile and drives it as a one-tile wall.
func NewSingle(opts Options) (*Wall, error) {
	tiles, err := discover(ModeSingle, opts)
	if err != nil {
		return nil, err
	}
	return newWall(ModeSingle, tiles, opts), nil
}

// NewWithPorts skips discovery. Six ports build a full wall in slot order,
// one port builds a single tile wall. The tiles' own identifiers are not
// checked against the order given.
func NewWithPorts(ports []string, opts Options) (*Wall, error) {
	mode := ModeFull
	if len(ports) == 1 {
		mode = ModeSingle
	}
	tiles, err := openPorts(mode, ports, opts)
	if err != nil {
		return nil, err
	}
	return newWall(mode, tiles, opts), nil
}

// Open builds a wall from the config file settings, overriding the serial
// and tile parts of opts.
func Open(cfg *config.Instance, opts Options) (*Wall, error) {
	mode, err := ParseMode(cfg.WallMode())
	if err != nil {
		return nil, err
	}

	ignore, err := helpers.ParseSerialDevices(cfg.IgnoreDevices())
	if err != nil {
		return nil, fmt.Errorf("invalid ignore list: %w", err)
	}
	opts.Ignore = append(opts.Ignore, ignore...)
	opts.Tile.BaudRate = cfg.BaudRate()
	opts.Tile.ReadBudget = cfg.ReadBudget()
	opts.Tile.FrameTime = cfg.FrameTime()
	opts.Tile.SparseThreshold = cfg.SparseThreshold()
	opts.DisableDelta = !cfg.Optimize()

	if ports := cfg.WallPorts(); len(ports) > 0 {
		if len(ports) != mode.Tiles() {
			return nil, &TopologyError{Mode: mode, Want: mode.Tiles(), Found: len(ports)}
		}
		return NewWithPorts(ports, opts)
	}
	if mode == ModeSingle {
		return NewSingle(opts)
	}
	return New(opts)
}

func newWall(mode Mode, tiles []*tile.Tile, opts Options) *Wall {
	id := uuid.New()
	w := &Wall{
		id:       id,
		mode:     mode,
		tiles:    tiles,
		usb:      make([]string, len(tiles)),
		optimize: !opts.DisableDelta,
		log:      log.With().Str("wall", id.String()).Logger(),
	}
	for i, t := range tiles {
		w.usb[i] = helpers.USBTopology(t.Path())
		w.log.Info().
			Int("slot", i).
			Uint8("identifier", t.ID()).
			Str("port", t.Path()).
			Str("usb", w.usb[i]).
			Msg("tile placed")
	}
	w.log.Info().Stringer("mode", mode).Msg("wall ready")
	return w
}

// ID is a random id for this wall instance, present on all its log lines.
func (w *Wall) ID() uuid.UUID {
	return w.id
}

func (w *Wall) Mode() Mode {
	return w.mode
}

// Len returns the number of tiles, 1 or 6.
func (w *Wall) Len() int {
	return len(w.tiles)
}

// Tiles describes every slot in order.
func (w *Wall) Tiles() []TileInfo {
	infos := make([]TileInfo, len(w.tiles))
	for i, t := range w.tiles {
		infos[i] = TileInfo{Info: t.Info(), Slot: i, USB: w.usb[i]}
	}
	return infos
}

// Identifiers returns the identifier bound to each slot.
func (w *Wall) Identifiers() []uint8 {
	ids := make([]uint8, len(w.tiles))
	for i, t := range w.tiles {
		ids[i] = t.ID()
	}
	return ids
}

// PushedFrames counts Show calls since the wall was built.
func (w *Wall) PushedFrames() uint64 {
	return w.pushed.Load()
}

// Show latches every tile's buffer, each tile paced by its own frame time.
func (w *Wall) Show() Statuses {
	w.mu.Lock()
	defer w.mu.Unlock()

	statuses := w.each(func(_ int, t *tile.Tile) protocol.StatusCode {
		return t.Show()
	})
	w.pushed.Add(1)
	w.report(protocol.CmdShow, statuses)
	return statuses
}

// SolidColor fills every tile with one color.
func (w *Wall) SolidColor(r, g, b byte) Statuses {
	w.mu.Lock()
	defer w.mu.Unlock()

	statuses := w.each(func(_ int, t *tile.Tile) protocol.StatusCode {
		return t.SolidColor(r, g, b)
	})
	w.report(protocol.CmdSolidColor, statuses)
	return statuses
}

// UpdateAll sends a wall frame: 7200 bytes for a full wall, split per
// tile, or 1200 bytes for a single tile. A frame of the wrong size is
// rejected with StatusError for every tile and nothing is sent.
func (w *Wall) UpdateAll(frame []byte, optimize bool) Statuses {
	w.mu.Lock()
	defer w.mu.Unlock()

	parts, err := w.split(frame)
	if err != nil {
		w.log.Error().Err(err).Msg("rejecting wall frame")
		return uniform(len(w.tiles), protocol.StatusError)
	}

	statuses := w.each(func(slot int, t *tile.Tile) protocol.StatusCode {
		return t.UpdateAll(parts[slot], optimize)
	})
	w.report(protocol.CmdUpdateAll, statuses)
	return statuses
}

// Update is UpdateAll with the wall's configured delta setting.
func (w *Wall) Update(frame []byte) Statuses {
	return w.UpdateAll(frame, w.optimize)
}

func (w *Wall) split(frame []byte) ([][]byte, error) {
	if w.mode == ModeFull {
		return pixels.SplitWall(frame)
	}
	if len(frame) != protocol.TileFrameSize {
		return nil, fmt.Errorf("single tile frame must be %d bytes, got %d", protocol.TileFrameSize, len(frame))
	}
	return [][]byte{frame}, nil
}

// SetFrameTime changes the show pacing of every tile.
func (w *Wall) SetFrameTime(d time.Duration) {
	for _, t := range w.tiles {
		t.SetFrameTime(d)
	}
	w.log.Debug().Dur("frame_time", d).Msg("frame time updated")
}

// SetSparseThreshold changes the sparse/full decision point of every tile.
func (w *Wall) SetSparseThreshold(n int) {
	for _, t := range w.tiles {
		t.SetSparseThreshold(n)
	}
}

// Close releases every tile. Closing twice is a no-op.
func (w *Wall) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	w.log.Info().Uint64("frames", w.pushed.Load()).Msg("closing wall")
	return closeAll(w.tiles)
}

func (w *Wall) report(cmd protocol.Command, statuses Statuses) {
	for _, slot := range statuses.Failed() {
		w.log.Warn().
			Int("slot", slot).
			Str("port", w.tiles[slot].Path()).
			Stringer("command", cmd).
			Stringer("status", statuses[slot]).
			Msg("tile command failed")
	}
}

func closeAll(tiles []*tile.Tile) error {
	var errs []error
	for _, t := range tiles {
		if t == nil {
			continue
		}
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
