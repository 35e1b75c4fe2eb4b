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

package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"go.bug.st/serial/enumerator"
)

// SerialDevice is a USB vendor and product id pair, lowercase hex.
type SerialDevice struct {
	Vid string
	Pid string
}

func (d SerialDevice) String() string {
	return d.Vid + ":" + d.Pid
}

// Matches compares against ids as reported by the enumerator, which may
// use either case.
func (d SerialDevice) Matches(vid, pid string) bool {
	return strings.EqualFold(d.Vid, vid) && strings.EqualFold(d.Pid, pid)
}

// ParseSerialDevices parses "vid:pid" strings.
func ParseSerialDevices(ids []string) ([]SerialDevice, error) {
	devices := make([]SerialDevice, 0, len(ids))
	for _, id := range ids {
		vid, pid, ok := strings.Cut(strings.TrimSpace(id), ":")
		if !ok || !isHexID(vid) || !isHexID(pid) {
			return nil, fmt.Errorf("invalid usb id %q, expected vid:pid", id)
		}
		devices = append(devices, SerialDevice{
			Vid: strings.ToLower(vid),
			Pid: strings.ToLower(pid),
		})
	}
	return devices, nil
}

func isHexID(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}

// PortLister enumerates the serial ports on the host.
type PortLister interface {
	ListPorts() ([]*enumerator.PortDetails, error)
}

// SystemPortLister asks the OS for serial ports. If enumeration fails on
// Linux it falls back to scanning DevDir for ttyUSB and ttyACM nodes.
type SystemPortLister struct {
	// Fs is used for the fallback scan. Nil uses the OS filesystem.
	Fs afero.Fs
	// DevDir defaults to /dev.
	DevDir string
}

func (l SystemPortLister) ListPorts() ([]*enumerator.PortDetails, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err == nil {
		return ports, nil
	}
	if runtime.GOOS != "linux" {
		return nil, fmt.Errorf("failed to get serial ports list: %w", err)
	}

	log.Warn().Err(err).Msg("serial enumeration failed, scanning device directory")

	fs := l.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	dir := l.DevDir
	if dir == "" {
		dir = "/dev"
	}
	return listDevTTYs(fs, dir)
}

// listDevTTYs reports USB serial nodes found by name. The VID and PID are
// unknown, so the ignore list cannot apply to them.
func listDevTTYs(fs afero.Fs, dir string) ([]*enumerator.PortDetails, error) {
	if _, err := fs.Stat(dir); os.IsNotExist(err) {
		return []*enumerator.PortDetails{}, nil
	}

	files, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s directory: %w", dir, err)
	}

	ports := make([]*enumerator.PortDetails, 0, len(files))
	for _, v := range files {
		if v.IsDir() {
			continue
		}
		if !strings.HasPrefix(v.Name(), "ttyUSB") && !strings.HasPrefix(v.Name(), "ttyACM") {
			continue
		}
		ports = append(ports, &enumerator.PortDetails{
			Name:  filepath.Join(dir, v.Name()),
			IsUSB: true,
		})
	}
	return ports, nil
}

// TileCandidates returns the names of USB serial ports that are not on
// the ignore list, sorted.
func TileCandidates(ports []*enumerator.PortDetails, ignore []SerialDevice) []string {
	names := make([]string, 0, len(ports))
	for _, p := range ports {
		if p == nil || !p.IsUSB {
			continue
		}
		if slices.ContainsFunc(ignore, func(d SerialDevice) bool {
			return d.Matches(p.VID, p.PID)
		}) {
			log.Debug().Str("port", p.Name).Str("usb", p.VID+":"+p.PID).Msg("ignoring serial device")
			continue
		}
		names = append(names, p.Name)
	}
	slices.Sort(names)
	return names
}
