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

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/StrijpT-Ellie/contourwall-core/pkg/config"
	"github.com/StrijpT-Ellie/contourwall-core/pkg/helpers"
	"github.com/StrijpT-Ellie/contourwall-core/pkg/tile"
	"github.com/StrijpT-Ellie/contourwall-core/pkg/wall"
	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const appName = "contourwall"

type flags struct {
	configDir *string
	port      *string
	color     *string
	setID     *uint
	list      *bool
	debug     *bool
}

func setupFlags(fs *flag.FlagSet) *flags {
	return &flags{
		configDir: fs.String("config", filepath.Join(xdg.ConfigHome, appName), "config directory"),
		port:      fs.String("port", "", "serial port for -set-id"),
		color:     fs.String("color", "", "fill the wall with r,g,b and show it"),
		setID:     fs.Uint("set-id", 0, "program identifier 1-6 into the tile on -port"),
		list:      fs.Bool("list", false, "list serial ports that could be tiles"),
		debug:     fs.Bool("debug", false, "enable debug logging"),
	}
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	f := setupFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.NewConfig(afero.NewOsFs(), *f.configDir, config.BaseDefaults)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logDir := filepath.Join(xdg.StateHome, appName)
	debug := *f.debug || cfg.DebugLogging()
	if err := helpers.InitLogging(logDir, debug, zerolog.ConsoleWriter{Out: os.Stderr}); err != nil {
		return fmt.Errorf("failed to init logging: %w", err)
	}

	switch {
	case *f.list:
		return listPorts(cfg, out)
	case *f.setID != 0:
		return setIdentifier(cfg, *f.port, *f.setID)
	case *f.color != "":
		return fill(cfg, *f.color)
	default:
		fs.Usage()
		return nil
	}
}

func listPorts(cfg *config.Instance, out io.Writer) error {
	ignore, err := helpers.ParseSerialDevices(cfg.IgnoreDevices())
	if err != nil {
		return err
	}
	ports, err := helpers.SystemPortLister{}.ListPorts()
	if err != nil {
		return err
	}
	for _, name := range helpers.TileCandidates(ports, ignore) {
		_, _ = fmt.Fprintf(out, "%s\t%s\n", name, helpers.USBTopology(name))
	}
	return nil
}

func setIdentifier(cfg *config.Instance, port string, id uint) error {
	if port == "" {
		return errors.New("-set-id needs -port")
	}
	if id > 6 {
		return fmt.Errorf("identifier must be 1-6, got %d", id)
	}
	opts := tile.Options{
		BaudRate:   cfg.BaudRate(),
		ReadBudget: cfg.ReadBudget(),
	}
	status, err := tile.SetIdentifierOnPort(port, uint8(id), opts)
	if err != nil {
		return err
	}
	if !status.OK() {
		return fmt.Errorf("tile answered %s", status)
	}
	return nil
}

func fill(cfg *config.Instance, color string) error {
	rgb, err := parseColor(color)
	if err != nil {
		return err
	}

	w, err := wall.Open(cfg, wall.Options{})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close wall")
		}
	}()

	if st := w.SolidColor(rgb[0], rgb[1], rgb[2]); !st.OK() {
		return fmt.Errorf("solid color failed on slots %v: %s", st.Failed(), st.First())
	}
	if st := w.Show(); !st.OK() {
		return fmt.Errorf("show failed on slots %v: %s", st.Failed(), st.First())
	}
	return nil
}

func parseColor(s string) ([3]byte, error) {
	var rgb [3]byte
	parts := strings.Split(s, ",")
	if len(parts) != len(rgb) {
		return rgb, fmt.Errorf("color must be r,g,b, got %q", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return rgb, fmt.Errorf("invalid color component %q: %w", p, err)
		}
		rgb[i] = byte(v)
	}
	return rgb, nil
}
