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

// SendData writes data into the RF transmission buffer and starts the
// transmission. validBits is the number of bits to send of the last byte;
// 0 sends all 8.
//
// The transceiver is switched to Idle and back to Transceive first and must
// then report WaitTransmit, otherwise nothing is sent.
func (d *Device) SendData(data []byte, validBits byte) error {
	if len(data) > MaxSendDataLength {
		return fmt.Errorf("send data: %d bytes: %w", len(data), ErrPayloadTooLarge)
	}
	if validBits > 7 {
		return fmt.Errorf("send data: %d valid bits: %w", validBits, ErrOutOfRange)
	}

	if err := d.WriteRegisterWithAndMask(RegSystemConfig, ^SystemConfigCommandMask); err != nil {
		return fmt.Errorf("send data: %w", err)
	}
	if err := d.WriteRegisterWithOrMask(RegSystemConfig, SystemConfigTransceive); err != nil {
		return fmt.Errorf("send data: %w", err)
	}

	state, err := d.GetTransceiveState()
	if err != nil {
		return fmt.Errorf("send data: %w", err)
	}
	if state != TransceiveWaitTransmit {
		return fmt.Errorf("send data: transceiver in state %s: %w", state, ErrInvalidState)
	}

	frame := make([]byte, 0, len(data)+2)
	frame = append(frame, cmdSendData, validBits)
	frame = append(frame, data...)
	if _, err := d.exec(frame, 0); err != nil {
		return fmt.Errorf("send data: %w", err)
	}
	return nil
}

// ReadData reads n bytes from the RF reception buffer. It does not check
// that a reception happened; without one the bytes are meaningless.
func (d *Device) ReadData(n int) ([]byte, error) {
	if n < 0 || n > MaxReadDataLength {
		return nil, fmt.Errorf("read data: %d bytes: %w", n, ErrPayloadTooLarge)
	}
	if n == 0 {
		return []byte{}, nil
	}
	resp, err := d.exec([]byte{cmdReadData, 0x00}, n)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	return resp, nil
}
