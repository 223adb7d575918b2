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
	"fmt"
)

// WriteRegister writes a 32 bit value to a configuration register
func (d *Device) WriteRegister(reg byte, value uint32) error {
	frame := appendUint32([]byte{cmdWriteRegister, reg}, value)
	if _, err := d.exec(frame, 0); err != nil {
		return fmt.Errorf("write register %#02x: %w", reg, err)
	}
	return nil
}

// WriteRegisterWithOrMask sets the bits of mask in a register. The chip
// performs the read-modify-write itself.
func (d *Device) WriteRegisterWithOrMask(reg byte, mask uint32) error {
	frame := appendUint32([]byte{cmdWriteRegisterOrMask, reg}, mask)
	if _, err := d.exec(frame, 0); err != nil {
		return fmt.Errorf("write register %#02x OR %#08x: %w", reg, mask, err)
	}
	return nil
}

// WriteRegisterWithAndMask clears the bits of a register that are not set
// in mask
func (d *Device) WriteRegisterWithAndMask(reg byte, mask uint32) error {
	frame := appendUint32([]byte{cmdWriteRegisterAndMask, reg}, mask)
	if _, err := d.exec(frame, 0); err != nil {
		return fmt.Errorf("write register %#02x AND %#08x: %w", reg, mask, err)
	}
	return nil
}

// ReadRegister reads a 32 bit configuration register
func (d *Device) ReadRegister(reg byte) (uint32, error) {
	resp, err := d.exec([]byte{cmdReadRegister, reg}, 4)
	if err != nil {
		return 0, fmt.Errorf("read register %#02x: %w", reg, err)
	}
	return binary.LittleEndian.Uint32(resp), nil
}
