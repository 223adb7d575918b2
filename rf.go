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

// TransceiveState is the state of the transceiver, RF_STATUS bits 24 to 26
type TransceiveState byte

const (
	TransceiveIdle TransceiveState = iota
	TransceiveWaitTransmit
	TransceiveTransmitting
	TransceiveWaitReceive
	TransceiveWaitForData
	TransceiveReceiving
	TransceiveLoopBack
	TransceiveReserved
)

func (s TransceiveState) String() string {
	switch s {
	case TransceiveIdle:
		return "Idle"
	case TransceiveWaitTransmit:
		return "WaitTransmit"
	case TransceiveTransmitting:
		return "Transmitting"
	case TransceiveWaitReceive:
		return "WaitReceive"
	case TransceiveWaitForData:
		return "WaitForData"
	case TransceiveReceiving:
		return "Receiving"
	case TransceiveLoopBack:
		return "LoopBack"
	case TransceiveReserved:
		return "Reserved"
	default:
		return fmt.Sprintf("TransceiveState(%d)", byte(s))
	}
}

// TransceiveStateFromRFStatus extracts the transceive state of an RF_STATUS value
func TransceiveStateFromRFStatus(rfStatus uint32) TransceiveState {
	return TransceiveState((rfStatus >> 24) & 0x07)
}

// GetIRQStatus reads IRQ_STATUS
func (d *Device) GetIRQStatus() (uint32, error) {
	return d.ReadRegister(RegIRQStatus)
}

// ClearIRQStatus clears the IRQ_STATUS bits set in mask
func (d *Device) ClearIRQStatus(mask uint32) error {
	return d.WriteRegister(RegIRQClear, mask)
}

// Reset hard-resets the chip through the RST line, waits for the IDLE
// interrupt and clears all pending interrupts
func (d *Device) Reset() error {
	if err := d.transport.Reset(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if _, err := d.waitIRQ(IRQIdle); err != nil {
		return fmt.Errorf("reset: waiting for IDLE IRQ: %w", err)
	}
	if err := d.ClearIRQStatus(IRQAll); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	debugln("PN5180 reset done")
	return nil
}

// LoadRFConfig loads the transmitter and receiver configuration from EEPROM.
// The ranges (0x00-0x1C for TX, 0x80-0x9C for RX, 0xFF to keep) are checked
// by the chip.
func (d *Device) LoadRFConfig(txConf, rxConf byte) error {
	if _, err := d.exec([]byte{cmdLoadRFConfig, txConf, rxConf}, 0); err != nil {
		return fmt.Errorf("load RF config %#02x/%#02x: %w", txConf, rxConf, err)
	}
	return nil
}

// SetRFOn switches the RF field on and waits until the chip reports it
func (d *Device) SetRFOn() error {
	if _, err := d.exec([]byte{cmdRFOn, 0x00}, 0); err != nil {
		return fmt.Errorf("RF on: %w", err)
	}
	if _, err := d.waitIRQ(IRQTxRFOn); err != nil {
		return fmt.Errorf("RF on: %w", err)
	}
	if err := d.ClearIRQStatus(IRQTxRFOn); err != nil {
		return fmt.Errorf("RF on: %w", err)
	}
	return nil
}

// SetRFOff switches the RF field off
func (d *Device) SetRFOff() error {
	if _, err := d.exec([]byte{cmdRFOff, 0x00}, 0); err != nil {
		return fmt.Errorf("RF off: %w", err)
	}
	return nil
}

// GetTransceiveState reads the transceiver state from RF_STATUS. On a
// failed read it returns TransceiveIdle along with the error.
func (d *Device) GetTransceiveState() (TransceiveState, error) {
	rfStatus, err := d.ReadRegister(RegRFStatus)
	if err != nil {
		debugf("error reading RF_STATUS: %v", err)
		return TransceiveIdle, err
	}
	return TransceiveStateFromRFStatus(rfStatus), nil
}
