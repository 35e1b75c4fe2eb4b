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
	"fmt"

	"github.com/stretchr/testify/mock"
	"go.bug.st/serial/enumerator"
)

// MockPortLister is a mock serial port enumerator using testify/mock.
type MockPortLister struct {
	mock.Mock
}

// ListPorts returns the configured port details.
func (m *MockPortLister) ListPorts() ([]*enumerator.PortDetails, error) {
	args := m.Called()
	if err := args.Error(1); err != nil {
		return nil, fmt.Errorf("mock operation failed: %w", err)
	}
	if ports, ok := args.Get(0).([]*enumerator.PortDetails); ok {
		return ports, nil
	}
	return nil, nil
}

// USBPorts builds USB port details for the given names.
func USBPorts(names ...string) []*enumerator.PortDetails {
	ports := make([]*enumerator.PortDetails, len(names))
	for i, name := range names {
		ports[i] = &enumerator.PortDetails{Name: name, IsUSB: true, VID: "2e8a", PID: "000a"}
	}
	return ports
}
