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

// Package testing provides a PN5180 simulator and virtual ISO14443-A cards
// for tests
package testing

import (
	"bytes"
	"encoding/hex"
	"strings"
)

// ISO14443-3 frames understood by VirtualCard
const (
	CmdREQA           = 0x26
	CmdWUPA           = 0x52
	CmdHalt           = 0x50
	SelCascadeLevel1  = 0x93
	SelCascadeLevel2  = 0x95
	NVBAnticollision  = 0x20
	NVBSelect         = 0x70
	CascadeTag        = 0x88
	SAKCascadeBit     = 0x04
	shortFrameBits    = 7
	cascadeLevelBytes = 4
)

// Common UIDs for testing
var (
	// TestMIFARE1KUID is a sample MIFARE Classic 1K UID
	TestMIFARE1KUID = []byte{0x12, 0x34, 0x56, 0x78}

	// TestNTAG213UID is a sample NTAG213 UID
	TestNTAG213UID = []byte{0x04, 0xAB, 0xCD, 0xEF, 0x12, 0x34, 0x56}
)

type cardState int

const (
	cardIdle cardState = iota
	cardReady
	cardActive
	cardHalt
)

// VirtualCard is a simulated ISO14443-A PICC with a single or double size
// UID. It only answers frames that carry a CRC exactly when ISO14443-3
// requires one, so it catches initiators that toggle CRC at the wrong time.
type VirtualCard struct {
	UID     []byte
	ATQA    [2]byte
	SAK     byte // SAK of the last cascade level
	Present bool
	state   cardState
	// level is the number of cascade levels selected so far
	level int
	// Frames records every frame the card received
	Frames [][]byte
}

// NewVirtualMIFARE1K creates a MIFARE Classic 1K card with a 4 byte UID
func NewVirtualMIFARE1K(uid []byte) *VirtualCard {
	if uid == nil {
		uid = TestMIFARE1KUID
	}
	return &VirtualCard{
		UID:     append([]byte(nil), uid...),
		ATQA:    [2]byte{0x04, 0x00},
		SAK:     0x08,
		Present: true,
	}
}

// NewVirtualNTAG213 creates an NTAG213 with a 7 byte UID
func NewVirtualNTAG213(uid []byte) *VirtualCard {
	if uid == nil {
		uid = TestNTAG213UID
	}
	return &VirtualCard{
		UID:     append([]byte(nil), uid...),
		ATQA:    [2]byte{0x44, 0x00},
		SAK:     0x00,
		Present: true,
	}
}

// GetUIDString returns the UID as an upper case hex string
func (c *VirtualCard) GetUIDString() string {
	return strings.ToUpper(hex.EncodeToString(c.UID))
}

// IsHalted reports whether the card received a valid HLTA
func (c *VirtualCard) IsHalted() bool {
	return c.state == cardHalt
}

// IsActive reports whether the card completed selection
func (c *VirtualCard) IsActive() bool {
	return c.state == cardActive
}

// PowerOff resets the card state as if it left the field
func (c *VirtualCard) PowerOff() {
	c.state = cardIdle
	c.level = 0
}

func (c *VirtualCard) levels() int {
	if len(c.UID) == 7 {
		return 2
	}
	return 1
}

// cascadeLevel returns the 4 UID bytes sent in the given cascade level
// (1-based)
func (c *VirtualCard) cascadeLevel(level int) []byte {
	if c.levels() == 1 {
		return c.UID[:cascadeLevelBytes]
	}
	if level == 1 {
		return append([]byte{CascadeTag}, c.UID[:3]...)
	}
	return c.UID[3:7]
}

// BCC returns the block check character of a cascade level
func BCC(cl []byte) byte {
	return cl[0] ^ cl[1] ^ cl[2] ^ cl[3]
}

// Transceive handles a frame coming from the field. txCRC tells whether
// the reader appended a CRC. It returns nil when the card stays silent.
func (c *VirtualCard) Transceive(frame []byte, validBits byte, txCRC bool) []byte {
	c.Frames = append(c.Frames, append([]byte(nil), frame...))
	if !c.Present || len(frame) == 0 {
		return nil
	}

	switch {
	case len(frame) == 1 && validBits == shortFrameBits && !txCRC:
		return c.request(frame[0])
	case len(frame) == 2 && frame[1] == NVBAnticollision && !txCRC:
		return c.anticollision(frame[0])
	case len(frame) == 7 && frame[1] == NVBSelect && txCRC:
		return c.selectLevel(frame[0], frame[2:])
	case bytes.Equal(frame, []byte{CmdHalt, 0x00}) && txCRC:
		if c.state == cardActive {
			c.state = cardHalt
		}
		return nil
	}

	// Any other frame sends a card in the middle of selection back to idle.
	if c.state == cardReady {
		c.PowerOff()
	}
	return nil
}

func (c *VirtualCard) request(cmd byte) []byte {
	switch {
	case cmd == CmdREQA && c.state == cardIdle,
		cmd == CmdWUPA && (c.state == cardIdle || c.state == cardHalt):
		c.state = cardReady
		c.level = 0
		return c.ATQA[:]
	}
	return nil
}

func selLevel(sel byte) int {
	switch sel {
	case SelCascadeLevel1:
		return 1
	case SelCascadeLevel2:
		return 2
	}
	return 0
}

func (c *VirtualCard) anticollision(sel byte) []byte {
	level := selLevel(sel)
	if c.state != cardReady || level != c.level+1 || level > c.levels() {
		return nil
	}
	cl := c.cascadeLevel(level)
	return append(append([]byte(nil), cl...), BCC(cl))
}

func (c *VirtualCard) selectLevel(sel byte, data []byte) []byte {
	level := selLevel(sel)
	if c.state != cardReady || level != c.level+1 || level > c.levels() {
		return nil
	}
	cl := c.cascadeLevel(level)
	if !bytes.Equal(data[:cascadeLevelBytes], cl) || data[cascadeLevelBytes] != BCC(cl) {
		c.PowerOff()
		return nil
	}
	c.level = level
	if level < c.levels() {
		return []byte{SAKCascadeBit}
	}
	c.state = cardActive
	return []byte{c.SAK}
}
