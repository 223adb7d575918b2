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

// PN5180 host interface instructions
const (
	cmdWriteRegister        = 0x00
	cmdWriteRegisterOrMask  = 0x01
	cmdWriteRegisterAndMask = 0x02
	cmdReadRegister         = 0x04
	cmdReadEEPROM           = 0x07
	cmdSendData             = 0x09
	cmdReadData             = 0x0A
	cmdLoadRFConfig         = 0x11
	cmdRFOn                 = 0x16
	cmdRFOff                = 0x17
)

// Registers
const (
	RegSystemConfig byte = 0x00
	RegIRQStatus    byte = 0x02
	RegIRQClear     byte = 0x03
	RegCRCRxConfig  byte = 0x12
	RegCRCTxConfig  byte = 0x19
	RegRFStatus     byte = 0x1D
)

// EEPROM addresses
const (
	EEPROMDieIdentifier   byte = 0x00
	EEPROMProductVersion  byte = 0x10
	EEPROMFirmwareVersion byte = 0x12
	EEPROMVersion         byte = 0x14
	EEPROMIRQPinConfig    byte = 0x1A

	// EEPROMMaxAddress is the last readable EEPROM address
	EEPROMMaxAddress = 254

	dieIdentifierLength = 16
)

// IRQ_STATUS bits
const (
	IRQRx       uint32 = 1 << 0
	IRQTx       uint32 = 1 << 1
	IRQIdle     uint32 = 1 << 2
	IRQRFOffDet uint32 = 1 << 6
	IRQRFOnDet  uint32 = 1 << 7
	IRQTxRFOff  uint32 = 1 << 8
	IRQTxRFOn   uint32 = 1 << 9
	IRQGeneral  uint32 = 1 << 17

	// IRQAll clears every pending interrupt
	IRQAll uint32 = 0xFFFFFFFF
)

// SYSTEM_CONFIG fields
const (
	// SystemConfigCommandMask covers the 3 bit COMMAND field
	SystemConfigCommandMask uint32 = 0x00000007
	// SystemConfigTransceive is the Transceive command value
	SystemConfigTransceive uint32 = 0x00000003
	// SystemConfigMFCCrypto is the MIFARE Classic crypto enable bit
	SystemConfigMFCCrypto uint32 = 0x00000040

	// CRCEnable is bit 0 of CRC_RX_CONFIG and CRC_TX_CONFIG
	CRCEnable uint32 = 0x00000001
)

// Buffer limits of the chip
const (
	MaxSendDataLength = 260
	MaxReadDataLength = 508
)

// RF configurations for LOAD_RF_CONFIG
const (
	RFConfigISO14443ATx byte = 0x00
	RFConfigISO14443ARx byte = 0x80
	// RFConfigUnchanged leaves the TX or RX configuration as it is
	RFConfigUnchanged byte = 0xFF
)
