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

package testing

import (
	"encoding/binary"
	"errors"
	"sync"
	"time"

	pn5180 "github.com/ZaparooProject/go-pn5180"
)

// PN5180 host interface instructions handled by SimulatedChip
const (
	CmdWriteRegister        = 0x00
	CmdWriteRegisterOrMask  = 0x01
	CmdWriteRegisterAndMask = 0x02
	CmdReadRegister         = 0x04
	CmdReadEEPROM           = 0x07
	CmdSendData             = 0x09
	CmdReadData             = 0x0A
	CmdLoadRFConfig         = 0x11
	CmdRFOn                 = 0x16
	CmdRFOff                = 0x17
)

const eepromSize = 255

// Default EEPROM content of a simulated chip
var (
	DefaultProductVersion  = []byte{0x00, 0x04}
	DefaultFirmwareVersion = []byte{0x01, 0x04}
	DefaultEEPROMVersion   = []byte{0x00, 0x99}
)

// SimulatedChip is a pn5180.Transport backed by a model of the chip instead
// of an SPI bus. Register writes are reflected, OR/AND masks are applied,
// IRQ_CLEAR clears IRQ_STATUS bits and RF_STATUS follows the COMMAND field
// of SYSTEM_CONFIG. SEND_DATA frames are handed to the card in the field.
type SimulatedChip struct {
	card       *VirtualCard
	registers  map[byte]uint32
	failures   map[byte]error
	stuckState *pn5180.TransceiveState
	rxBuffer   []byte
	frames     [][]byte
	eeprom     [eepromSize]byte
	state      pn5180.TransceiveState
	timeout    time.Duration
	mu         sync.Mutex
	resets     int
	txConfig   byte
	rxConfig   byte
	noise      byte
	rfOn       bool
	closed     bool
	// NoIdleAfterReset keeps the IDLE IRQ from being raised by Reset
	NoIdleAfterReset bool
	// NoRFOnIRQ keeps the TX_RFON IRQ from being raised by RF_ON
	NoRFOnIRQ bool
}

// NewSimulatedChip creates a chip with default EEPROM content and an empty
// field
func NewSimulatedChip() *SimulatedChip {
	c := &SimulatedChip{
		registers: make(map[byte]uint32),
		failures:  make(map[byte]error),
		noise:     0xFF,
		timeout:   50 * time.Millisecond,
	}
	for i := 0; i < 16; i++ {
		c.eeprom[i] = byte(0xA0 + i)
	}
	copy(c.eeprom[pn5180.EEPROMProductVersion:], DefaultProductVersion)
	copy(c.eeprom[pn5180.EEPROMFirmwareVersion:], DefaultFirmwareVersion)
	copy(c.eeprom[pn5180.EEPROMVersion:], DefaultEEPROMVersion)
	return c
}

// SetCard places a card in the field; nil empties the field
func (c *SimulatedChip) SetCard(card *VirtualCard) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.card = card
}

// SetEEPROM overwrites EEPROM content starting at addr
func (c *SimulatedChip) SetEEPROM(addr byte, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copy(c.eeprom[addr:], data)
}

// SetNoise sets the byte returned by READ_DATA when nothing was received
func (c *SimulatedChip) SetNoise(b byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.noise = b
}

// SetError makes every command with the given instruction byte fail
func (c *SimulatedChip) SetError(cmd byte, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failures, cmd)
		return
	}
	c.failures[cmd] = err
}

// StickTransceiveState pins RF_STATUS to state regardless of SYSTEM_CONFIG
func (c *SimulatedChip) StickTransceiveState(state pn5180.TransceiveState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stuckState = &state
}

// Frames returns a copy of every command frame executed so far
func (c *SimulatedChip) Frames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.frames))
	for i, f := range c.frames {
		out[i] = append([]byte(nil), f...)
	}
	return out
}

// CountFrames returns how many frames started with the instruction cmd
func (c *SimulatedChip) CountFrames(cmd byte) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, f := range c.frames {
		if f[0] == cmd {
			n++
		}
	}
	return n
}

// ClearFrames forgets the recorded frames
func (c *SimulatedChip) ClearFrames() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

// Register returns the current value of a register
func (c *SimulatedChip) Register(reg byte) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readRegister(reg)
}

// RFConfig returns the last loaded TX and RX configuration
func (c *SimulatedChip) RFConfig() (tx, rx byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.txConfig, c.rxConfig
}

// RFOn reports whether the field is on
func (c *SimulatedChip) RFOn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rfOn
}

// Resets returns the number of RST pulses
func (c *SimulatedChip) Resets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resets
}

// Execute implements pn5180.Transport
func (c *SimulatedChip) Execute(send []byte, recvLen int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, pn5180.NewTransportError("Execute", "sim", pn5180.ErrTransportClosed, pn5180.ErrorTypePermanent)
	}
	if len(send) == 0 {
		return nil, errors.New("sim: empty frame")
	}
	c.frames = append(c.frames, append([]byte(nil), send...))
	if err := c.failures[send[0]]; err != nil {
		return nil, err
	}

	resp := c.handle(send)
	out := make([]byte, recvLen)
	n := copy(out, resp)
	for i := n; i < recvLen; i++ {
		out[i] = c.noise
	}
	return out, nil
}

func (c *SimulatedChip) handle(send []byte) []byte {
	switch send[0] {
	case CmdWriteRegister, CmdWriteRegisterOrMask, CmdWriteRegisterAndMask:
		if len(send) != 6 {
			c.generalError()
			return nil
		}
		reg, v := send[1], binary.LittleEndian.Uint32(send[2:])
		switch send[0] {
		case CmdWriteRegisterOrMask:
			v |= c.readRegister(reg)
		case CmdWriteRegisterAndMask:
			v &= c.readRegister(reg)
		}
		c.writeRegister(reg, v)
	case CmdReadRegister:
		return binary.LittleEndian.AppendUint32(nil, c.readRegister(send[1]))
	case CmdReadEEPROM:
		addr, n := int(send[1]), int(send[2])
		if addr+n > eepromSize-1 {
			c.generalError()
			return nil
		}
		return append([]byte(nil), c.eeprom[addr:addr+n]...)
	case CmdSendData:
		c.sendData(send[1], send[2:])
	case CmdReadData:
		return c.rxBuffer
	case CmdLoadRFConfig:
		c.txConfig, c.rxConfig = send[1], send[2]
	case CmdRFOn:
		c.rfOn = true
		if !c.NoRFOnIRQ {
			c.registers[pn5180.RegIRQStatus] |= pn5180.IRQTxRFOn
		}
	case CmdRFOff:
		c.rfOn = false
		c.registers[pn5180.RegIRQStatus] |= pn5180.IRQTxRFOff
		if c.card != nil {
			c.card.PowerOff()
		}
	default:
		c.generalError()
	}
	return nil
}

func (c *SimulatedChip) generalError() {
	c.registers[pn5180.RegIRQStatus] |= pn5180.IRQGeneral
}

func (c *SimulatedChip) readRegister(reg byte) uint32 {
	switch reg {
	case pn5180.RegIRQClear:
		return 0
	case pn5180.RegRFStatus:
		state := c.state
		if c.stuckState != nil {
			state = *c.stuckState
		}
		return c.registers[reg]&^(0x07<<24) | uint32(state)<<24
	}
	return c.registers[reg]
}

func (c *SimulatedChip) writeRegister(reg byte, v uint32) {
	switch reg {
	case pn5180.RegIRQClear:
		c.registers[pn5180.RegIRQStatus] &^= v
		return
	case pn5180.RegSystemConfig:
		switch v & pn5180.SystemConfigCommandMask {
		case 0:
			c.state = pn5180.TransceiveIdle
		case pn5180.SystemConfigTransceive:
			c.state = pn5180.TransceiveWaitTransmit
		}
	}
	c.registers[reg] = v
}

func (c *SimulatedChip) sendData(validBits byte, payload []byte) {
	state := c.state
	if c.stuckState != nil {
		state = *c.stuckState
	}
	if state != pn5180.TransceiveWaitTransmit {
		c.generalError()
		return
	}
	c.rxBuffer = nil
	c.registers[pn5180.RegIRQStatus] |= pn5180.IRQTx
	c.state = pn5180.TransceiveWaitReceive
	if !c.rfOn || c.card == nil {
		return
	}
	txCRC := c.registers[pn5180.RegCRCTxConfig]&pn5180.CRCEnable != 0
	resp := c.card.Transceive(payload, validBits, txCRC)
	if resp == nil {
		return
	}
	c.rxBuffer = append([]byte(nil), resp...)
	c.registers[pn5180.RegIRQStatus] |= pn5180.IRQRx
	c.state = pn5180.TransceiveWaitTransmit
}

// Reset implements pn5180.Transport. It restores the power-on state.
func (c *SimulatedChip) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return pn5180.NewTransportError("Reset", "sim", pn5180.ErrTransportClosed, pn5180.ErrorTypePermanent)
	}
	c.resets++
	c.registers = make(map[byte]uint32)
	c.state = pn5180.TransceiveIdle
	c.rfOn = false
	c.rxBuffer = nil
	if c.card != nil {
		c.card.PowerOff()
	}
	if !c.NoIdleAfterReset {
		c.registers[pn5180.RegIRQStatus] = pn5180.IRQIdle
	}
	return nil
}

// SetTimeout implements pn5180.Transport
func (c *SimulatedChip) SetTimeout(timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = timeout
	return nil
}

// Timeout returns the last timeout set
func (c *SimulatedChip) Timeout() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeout
}

// Close implements pn5180.Transport
func (c *SimulatedChip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Type implements pn5180.Transport
func (*SimulatedChip) Type() pn5180.TransportType {
	return pn5180.TransportMock
}

var _ pn5180.Transport = (*SimulatedChip)(nil)
