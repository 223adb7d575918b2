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
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-pn5180/internal/transport"
)

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// IRQTimeout bounds the waits for IRQ_STATUS bits after a reset and
	// after switching the RF field on
	IRQTimeout time.Duration
	// IRQPollInterval is the delay between two IRQ_STATUS reads
	IRQPollInterval time.Duration
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		IRQTimeout:      100 * time.Millisecond,
		IRQPollInterval: time.Millisecond,
	}
}

// Device represents a PN5180 NFC frontend
//
// Thread Safety: Device is NOT thread-safe. The chip has a single transceive
// buffer and a single RF state, so every call must come from one goroutine
// or be serialized by the caller.
type Device struct {
	transport Transport
	config    *DeviceConfig
}

// New creates a new PN5180 device with the given transport
func New(transport Transport, opts ...Option) (*Device, error) {
	if transport == nil {
		return nil, errors.New("pn5180: nil transport")
	}
	device := &Device{
		transport: transport,
		config:    DefaultDeviceConfig(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	return device, nil
}

// Transport returns the underlying transport
func (d *Device) Transport() Transport {
	return d.transport
}

// Close closes the underlying transport
func (d *Device) Close() error {
	if err := d.transport.Close(); err != nil {
		return fmt.Errorf("failed to close transport: %w", err)
	}
	return nil
}

// Init hard-resets the chip and checks that it answers with a sane product
// version. A product version of 0xFF means the host interface is not wired
// up correctly.
func (d *Device) Init() (*Versions, error) {
	if err := d.Reset(); err != nil {
		return nil, err
	}
	versions, err := d.ReadVersions()
	if err != nil {
		return nil, err
	}
	if versions.Product.Major == 0xFF || versions.Product.Minor == 0xFF {
		return nil, fmt.Errorf("%w: product version reads %s", ErrDeviceError, versions.Product)
	}
	debugf("PN5180 product %s, firmware %s, EEPROM %s",
		versions.Product, versions.Firmware, versions.EEPROM)
	return versions, nil
}

// exec runs a command frame through the transport and checks the response
// length
func (d *Device) exec(frame []byte, recvLen int) ([]byte, error) {
	resp, err := d.transport.Execute(frame, recvLen)
	if err != nil {
		return nil, err
	}
	if len(resp) < recvLen {
		return nil, fmt.Errorf("%w: expected %d response bytes, got %d", ErrDeviceError, recvLen, len(resp))
	}
	return resp[:recvLen], nil
}

// waitIRQ polls IRQ_STATUS until one of the bits in mask is set
func (d *Device) waitIRQ(mask uint32) (uint32, error) {
	status, err := transport.TimeoutRetry(d.config.IRQTimeout, d.config.IRQPollInterval,
		func() (uint32, bool, error) {
			status, err := d.GetIRQStatus()
			if err != nil {
				return 0, false, err
			}
			return status, status&mask == 0, nil
		})
	if errors.Is(err, transport.ErrPollTimeout) {
		return 0, NewTimeoutError(fmt.Sprintf("waitIRQ(%#08x)", mask), "")
	}
	return status, err
}

func appendUint32(frame []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(frame, v)
}
