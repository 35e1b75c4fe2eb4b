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
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

var usbIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{4}:[0-9a-fA-F]{4}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("usbid", validateUSBID)
	v.RegisterStructValidation(validateWallPorts, Wall{})
	return v
}

func validateUSBID(fl validator.FieldLevel) bool {
	return usbIDPattern.MatchString(fl.Field().String())
}

// validateWallPorts checks the pinned port list fits the wall mode.
func validateWallPorts(sl validator.StructLevel) {
	w, ok := sl.Current().Interface().(Wall)
	if !ok || len(w.Ports) == 0 {
		return
	}
	want := 6
	if w.Mode == WallModeSingle {
		want = 1
	}
	if len(w.Ports) != want {
		sl.ReportError(w.Ports, "Ports", "ports", "portcount", fmt.Sprint(want))
	}
}

// Validate checks every field of vals against its constraints.
func Validate(vals *Values) error {
	err := validate.Struct(vals)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, ", "))
}
