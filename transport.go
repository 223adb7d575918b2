// go-pn5180
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-pn5180.
//
// go-pn5180 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-pn5180 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-pn5180; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package pn5180

import (
	"time"
)

// Transport defines the interface for the host interface of a PN5180.
// Implementations own the SPI bus and the NSS, BUSY and RST lines.
type Transport interface {
	// Execute sends one command frame and, when recvLen is not zero, reads
	// exactly recvLen response bytes in a second frame. Both frames are
	// gated by the BUSY handshake.
	Execute(send []byte, recvLen int) ([]byte, error)

	// Reset pulses the RST line and waits for the chip to start booting
	Reset() error

	// SetTimeout sets the bound of every BUSY wait
	SetTimeout(timeout time.Duration) error

	// Close releases the bus and pins
	Close() error

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportSPI represents the SPI host interface with BUSY handshake.
	TransportSPI TransportType = "spi"
	// TransportMock represents a simulated chip for testing
	TransportMock TransportType = "mock"
)
