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
	"fmt"
)

// Version is a major.minor version stored in EEPROM
type Version struct {
	Major byte
	Minor byte
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Versions holds the identification data of a chip
type Versions struct {
	DieIdentifier []byte
	Product       Version
	Firmware      Version
	EEPROM        Version
}

// ReadEEPROM reads n bytes of EEPROM starting at addr. The read must stay
// within address 254; it is rejected without touching the bus otherwise.
func (d *Device) ReadEEPROM(addr byte, n int) ([]byte, error) {
	if n < 0 || int(addr) > EEPROMMaxAddress || int(addr)+n > EEPROMMaxAddress {
		return nil, fmt.Errorf("read EEPROM at %#02x length %d: %w", addr, n, ErrOutOfRange)
	}
	if n == 0 {
		return []byte{}, nil
	}

	resp, err := d.exec([]byte{cmdReadEEPROM, addr, byte(n)}, n)
	if err != nil {
		return nil, fmt.Errorf("read EEPROM at %#02x: %w", addr, err)
	}
	return resp, nil
}

func (d *Device) readVersion(addr byte) (Version, error) {
	buf, err := d.ReadEEPROM(addr, 2)
	if err != nil {
		return Version{}, err
	}
	// Stored minor first.
	return Version{Major: buf[1], Minor: buf[0]}, nil
}

// ReadVersions reads the die identifier and the product, firmware and
// EEPROM versions
func (d *Device) ReadVersions() (*Versions, error) {
	die, err := d.ReadEEPROM(EEPROMDieIdentifier, dieIdentifierLength)
	if err != nil {
		return nil, err
	}
	v := &Versions{DieIdentifier: die}
	if v.Product, err = d.readVersion(EEPROMProductVersion); err != nil {
		return nil, err
	}
	if v.Firmware, err = d.readVersion(EEPROMFirmwareVersion); err != nil {
		return nil, err
	}
	if v.EEPROM, err = d.readVersion(EEPROMVersion); err != nil {
		return nil, err
	}
	return v, nil
}

// ReadIRQPinConfig reads the IRQ pin polarity configuration byte
func (d *Device) ReadIRQPinConfig() (byte, error) {
	buf, err := d.ReadEEPROM(EEPROMIRQPinConfig, 1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}
