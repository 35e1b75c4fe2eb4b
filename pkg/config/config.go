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

// Package config loads and saves the wall settings file, a TOML document
// with serial, tile and wall sections.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/StrijpT-Ellie/contourwall-core/pkg/helpers/syncutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	SchemaVersion  = 1
	CfgEnv         = "CONTOURWALL_CFG"
	CfgFile        = "contourwall.toml"
	LogFile        = "contourwall.log"
	WallModeFull   = "full"
	WallModeSingle = "single"
)

var (
	ErrNoPath         = errors.New("config path not set")
	ErrSchemaMismatch = errors.New("schema version mismatch")
)

type Values struct {
	Serial       Serial `toml:"serial"`
	Wall         Wall   `toml:"wall"`
	Tiles        Tiles  `toml:"tiles"`
	ConfigSchema int    `toml:"config_schema"`
	DebugLogging bool   `toml:"debug_logging"`
}

type Serial struct {
	BaudRate     int `toml:"baud_rate" validate:"gt=0"`
	ReadBudgetMs int `toml:"read_budget_ms" validate:"gt=0,lte=1000"`
}

type Tiles struct {
	FrameTimeMs     int  `toml:"frame_time_ms" validate:"gt=0"`
	SparseThreshold int  `toml:"sparse_threshold" validate:"min=1,max=255"`
	Optimize        bool `toml:"optimize"`
}

type Wall struct {
	Mode string `toml:"mode" validate:"oneof=full single"`
	// Ports skips discovery: six names in wall order for a full wall, one
	// for a single tile.
	Ports []string `toml:"ports,omitempty,multiline" validate:"dive,required"`
	// IgnoreDevices lists "vid:pid" USB ids never probed during discovery.
	IgnoreDevices []string `toml:"ignore_devices,omitempty" validate:"dive,usbid"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Serial: Serial{
		BaudRate:     2_000_000,
		ReadBudgetMs: 30,
	},
	Tiles: Tiles{
		FrameTimeMs:     33,
		SparseThreshold: 100,
		Optimize:        true,
	},
	Wall: Wall{
		Mode: WallModeFull,
	},
}

type Instance struct {
	fs       afero.Fs
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig opens the config file in configDir, or the file named by
// CONTOURWALL_CFG, writing the defaults first if it does not exist.
func NewConfig(fs afero.Fs, configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := &Instance{
		fs:       fs,
		cfgPath:  cfgPath,
		vals:     cloneValues(defaults),
		defaults: defaults,
	}

	exists, err := afero.Exists(fs, cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if !exists {
		log.Info().Str("path", cfgPath).Msg("saving new default config to disk")

		if err := fs.MkdirAll(filepath.Dir(cfgPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}

	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load re-reads the file. Keys missing from the file keep their defaults.
// The current values are untouched if the file is invalid.
func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return ErrNoPath
	}

	data, err := afero.ReadFile(c.fs, c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	newVals := cloneValues(c.defaults)
	if err := toml.Unmarshal(data, &newVals); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return ErrSchemaMismatch
	}

	if err := Validate(&newVals); err != nil {
		return err
	}

	c.vals = newVals
	return nil
}

// Save writes the current values back to disk.
func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return ErrNoPath
	}

	c.vals.ConfigSchema = SchemaVersion

	if err := Validate(&c.vals); err != nil {
		return err
	}

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := afero.WriteFile(c.fs, c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func cloneValues(v Values) Values {
	v.Wall.Ports = slices.Clone(v.Wall.Ports)
	v.Wall.IgnoreDevices = slices.Clone(v.Wall.IgnoreDevices)
	return v
}

func (c *Instance) Path() string {
	return c.cfgPath
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}

func (c *Instance) BaudRate() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Serial.BaudRate
}

func (c *Instance) ReadBudget() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.vals.Serial.ReadBudgetMs) * time.Millisecond
}

func (c *Instance) FrameTime() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.vals.Tiles.FrameTimeMs) * time.Millisecond
}

// SetFrameTime stores a new show interval, rounded down to whole
// milliseconds.
func (c *Instance) SetFrameTime(d time.Duration) error {
	ms := int(d / time.Millisecond)
	if ms <= 0 {
		return fmt.Errorf("%w: frame time must be at least 1ms, got %s", ErrInvalid, d)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Tiles.FrameTimeMs = ms
	return nil
}

func (c *Instance) SparseThreshold() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Tiles.SparseThreshold
}

func (c *Instance) SetSparseThreshold(n int) error {
	if n < 1 || n > 255 {
		return fmt.Errorf("%w: sparse threshold must be 1..255, got %d", ErrInvalid, n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Tiles.SparseThreshold = n
	return nil
}

func (c *Instance) Optimize() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Tiles.Optimize
}

func (c *Instance) SetOptimize(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Tiles.Optimize = enabled
}

func (c *Instance) WallMode() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Wall.Mode
}

func (c *Instance) WallPorts() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.Wall.Ports)
}

// SetWallPorts pins the port list. An empty list returns to discovery.
func (c *Instance) SetWallPorts(ports []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Wall.Ports = slices.Clone(ports)
}

func (c *Instance) IgnoreDevices() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.Wall.IgnoreDevices)
}
