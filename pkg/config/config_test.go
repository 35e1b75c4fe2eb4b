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

package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDir = "/etc/contourwall"

func newTestConfig(t *testing.T, fs afero.Fs) *Instance {
	t.Helper()
	cfg, err := NewConfig(fs, testDir, BaseDefaults)
	require.NoError(t, err)
	return cfg
}

func TestNewConfigWritesDefaults(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg := newTestConfig(t, fs)

	path := filepath.Join(testDir, CfgFile)
	assert.Equal(t, path, cfg.Path())

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "config_schema = 1")
	assert.Contains(t, string(data), "baud_rate = 2000000")
	assert.Contains(t, string(data), "sparse_threshold = 100")
	assert.Contains(t, string(data), "[wall]")

	assert.Equal(t, 2_000_000, cfg.BaudRate())
	assert.Equal(t, 30*time.Millisecond, cfg.ReadBudget())
	assert.Equal(t, 33*time.Millisecond, cfg.FrameTime())
	assert.Equal(t, 100, cfg.SparseThreshold())
	assert.True(t, cfg.Optimize())
	assert.False(t, cfg.DebugLogging())
	assert.Equal(t, WallModeFull, cfg.WallMode())
	assert.Empty(t, cfg.WallPorts())
	assert.Empty(t, cfg.IgnoreDevices())
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	path := filepath.Join(testDir, CfgFile)
	require.NoError(t, afero.WriteFile(fs, path, []byte(`
config_schema = 1
debug_logging = true

[tiles]
frame_time_ms = 20
optimize = false

[wall]
mode = "single"
ports = ["/dev/ttyACM0"]
ignore_devices = ["16c0:0f38"]
`), 0o600))

	cfg := newTestConfig(t, fs)

	assert.True(t, cfg.DebugLogging())
	assert.Equal(t, 20*time.Millisecond, cfg.FrameTime())
	assert.False(t, cfg.Optimize())
	assert.Equal(t, 100, cfg.SparseThreshold(), "unset key keeps its default")
	assert.Equal(t, 2_000_000, cfg.BaudRate())
	assert.Equal(t, WallModeSingle, cfg.WallMode())
	assert.Equal(t, []string{"/dev/ttyACM0"}, cfg.WallPorts())
	assert.Equal(t, []string{"16c0:0f38"}, cfg.IgnoreDevices())
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wantErr error
		name    string
		content string
	}{
		{
			name:    "schema mismatch",
			content: "config_schema = 2\n",
			wantErr: ErrSchemaMismatch,
		},
		{
			name:    "threshold out of range",
			content: "config_schema = 1\n[tiles]\nsparse_threshold = 300\n",
			wantErr: ErrInvalid,
		},
		{
			name:    "unknown wall mode",
			content: "config_schema = 1\n[wall]\nmode = \"triple\"\n",
			wantErr: ErrInvalid,
		},
		{
			name:    "wrong port count for full wall",
			content: "config_schema = 1\n[wall]\nports = [\"a\", \"b\"]\n",
			wantErr: ErrInvalid,
		},
		{
			name:    "two ports for a single tile",
			content: "config_schema = 1\n[wall]\nmode = \"single\"\nports = [\"a\", \"b\"]\n",
			wantErr: ErrInvalid,
		},
		{
			name:    "malformed usb id",
			content: "config_schema = 1\n[wall]\nignore_devices = [\"16c0-0f38\"]\n",
			wantErr: ErrInvalid,
		},
		{
			name:    "zero read budget",
			content: "config_schema = 1\n[serial]\nread_budget_ms = 0\n",
			wantErr: ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			path := filepath.Join(testDir, CfgFile)
			require.NoError(t, afero.WriteFile(fs, path, []byte(tt.content), 0o600))

			_, err := NewConfig(fs, testDir, BaseDefaults)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadBadTOML(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	path := filepath.Join(testDir, CfgFile)
	require.NoError(t, afero.WriteFile(fs, path, []byte("config_schema = [\n"), 0o600))

	_, err := NewConfig(fs, testDir, BaseDefaults)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal config")
}

func TestFailedReloadKeepsValues(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg := newTestConfig(t, fs)

	require.NoError(t, afero.WriteFile(fs, cfg.Path(), []byte("config_schema = 9\n"), 0o600))
	require.ErrorIs(t, cfg.Load(), ErrSchemaMismatch)
	assert.Equal(t, 100, cfg.SparseThreshold())
}

func TestSettersRoundTripThroughDisk(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg := newTestConfig(t, fs)

	require.NoError(t, cfg.SetFrameTime(40*time.Millisecond))
	require.NoError(t, cfg.SetSparseThreshold(50))
	cfg.SetOptimize(false)
	cfg.SetDebugLogging(true)
	ports := []string{"/dev/a", "/dev/b", "/dev/c", "/dev/d", "/dev/e", "/dev/f"}
	cfg.SetWallPorts(ports)
	ports[0] = "changed"
	require.NoError(t, cfg.Save())

	reloaded := newTestConfig(t, fs)
	assert.Equal(t, 40*time.Millisecond, reloaded.FrameTime())
	assert.Equal(t, 50, reloaded.SparseThreshold())
	assert.False(t, reloaded.Optimize())
	assert.True(t, reloaded.DebugLogging())
	assert.Equal(t, "/dev/a", reloaded.WallPorts()[0])
	assert.Len(t, reloaded.WallPorts(), 6)
}

func TestSetterValidation(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, afero.NewMemMapFs())

	require.ErrorIs(t, cfg.SetFrameTime(500*time.Microsecond), ErrInvalid)
	require.ErrorIs(t, cfg.SetSparseThreshold(0), ErrInvalid)
	require.ErrorIs(t, cfg.SetSparseThreshold(256), ErrInvalid)
	assert.Equal(t, 33*time.Millisecond, cfg.FrameTime())
	assert.Equal(t, 100, cfg.SparseThreshold())
}

func TestSaveRejectsInvalidPorts(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, afero.NewMemMapFs())
	cfg.SetWallPorts([]string{"/dev/a"})
	require.ErrorIs(t, cfg.Save(), ErrInvalid)
}

func TestWallPortsReturnsCopy(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, afero.NewMemMapFs())
	cfg.SetWallPorts([]string{"/dev/a", "/dev/b", "/dev/c", "/dev/d", "/dev/e", "/dev/f"})

	got := cfg.WallPorts()
	got[0] = "mutated"
	assert.Equal(t, "/dev/a", cfg.WallPorts()[0])
}

//nolint:paralleltest // modifies environment
func TestConfigPathFromEnv(t *testing.T) {
	fs := afero.NewMemMapFs()
	t.Setenv(CfgEnv, "/tmp/custom/wall.toml")

	cfg, err := NewConfig(fs, testDir, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom/wall.toml", cfg.Path())

	exists, err := afero.Exists(fs, "/tmp/custom/wall.toml")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, afero.NewMemMapFs())

	done := make(chan struct{})
	for i := range 10 {
		go func() {
			for range 100 {
				_ = cfg.FrameTime()
				_ = cfg.WallPorts()
				_ = cfg.SetSparseThreshold(i + 1)
			}
			done <- struct{}{}
		}()
	}

	for range 10 {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("concurrent access deadlocked")
		}
	}
}
