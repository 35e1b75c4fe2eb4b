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
	"regexp"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

var usbTopologyPattern = regexp.MustCompile(`^\d+-[\d.]+$`)

// USBTopology returns the physical USB port a serial device hangs off,
// such as "1-2.3", or "" if it cannot be resolved. It is logged during
// discovery so a tile with a bad identifier can be found on the hub.
func USBTopology(devicePath string) string {
	if devicePath == "" {
		return ""
	}

	info, err := os.Stat(devicePath)
	if err != nil {
		log.Debug().Str("path", devicePath).Err(err).Msg("cannot stat device")
		return ""
	}

	stat, ok := info.Sys().(*unix.Stat_t)
	if !ok {
		return ""
	}

	sysPath := fmt.Sprintf("/sys/dev/char/%d:%d", unix.Major(uint64(stat.Rdev)), unix.Minor(uint64(stat.Rdev)))
	resolved, err := filepath.EvalSymlinks(sysPath)
	if err != nil {
		log.Debug().Str("path", devicePath).Str("sysPath", sysPath).Err(err).
			Msg("cannot resolve sysfs symlink")
		return ""
	}

	return extractUSBTopology(resolved)
}

// extractUSBTopology walks up a sysfs path such as
// /sys/devices/.../usb1/1-2/1-2.3/1-2.3:1.0/tty/ttyUSB0 to the deepest
// topology directory, "1-2.3" here.
func extractUSBTopology(sysfsPath string) string {
	current := sysfsPath
	for current != "/" && current != "." && current != "" {
		base := filepath.Base(current)
		if usbTopologyPattern.MatchString(base) {
			return base
		}
		current = filepath.Dir(current)
	}
	return ""
}
