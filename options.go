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
	"errors"
	"time"
)

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithTimeout sets the BUSY handshake timeout of the transport
func WithTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		return d.transport.SetTimeout(timeout)
	}
}

// WithIRQTimeout bounds the IRQ waits of Reset and SetRFOn
func WithIRQTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout <= 0 {
			return errors.New("pn5180: IRQ timeout must be positive")
		}
		d.config.IRQTimeout = timeout
		return nil
	}
}

// WithIRQPollInterval sets the delay between IRQ_STATUS reads
func WithIRQPollInterval(interval time.Duration) Option {
	return func(d *Device) error {
		if interval < 0 {
			return errors.New("pn5180: IRQ poll interval must not be negative")
		}
		d.config.IRQPollInterval = interval
		return nil
	}
}

// WithConfig replaces the whole device configuration
func WithConfig(config *DeviceConfig) Option {
	return func(d *Device) error {
		if config == nil {
			return errors.New("pn5180: nil device config")
		}
		cfg := *config
		d.config = &cfg
		return nil
	}
}
