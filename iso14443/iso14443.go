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

// Package iso14443 implements ISO14443-3 Type A card activation on top of a
// PN5180: REQA/WUPA, anti-collision and selection over up to two cascade
// levels, and HLTA.
//
// Only a single card is resolved. Collisions are not iterated, so with
// several cards in the field the result is whichever answer wins.
package iso14443

import (
	"context"
	"errors"
	"fmt"

	pn5180 "github.com/ZaparooProject/go-pn5180"
)

// Reader is the set of PN5180 operations the activation needs.
// *pn5180.Device implements it.
type Reader interface {
	WriteRegister(reg byte, value uint32) error
	ReadRegister(reg byte) (uint32, error)
	WriteRegisterWithOrMask(reg byte, mask uint32) error
	WriteRegisterWithAndMask(reg byte, mask uint32) error
	SendData(data []byte, validBits byte) error
	ReadData(n int) ([]byte, error)
	GetTransceiveState() (pn5180.TransceiveState, error)
	LoadRFConfig(txConf, rxConf byte) error
	SetRFOn() error
}

var _ Reader = (*pn5180.Device)(nil)

// RequestKind selects the command that wakes cards up
type RequestKind byte

const (
	// REQA only wakes cards in IDLE state
	REQA RequestKind = 0x26
	// WUPA also wakes cards in HALT state
	WUPA RequestKind = 0x52
)

func (k RequestKind) String() string {
	switch k {
	case REQA:
		return "REQA"
	case WUPA:
		return "WUPA"
	default:
		return fmt.Sprintf("RequestKind(%#02x)", byte(k))
	}
}

const (
	selCascadeLevel1 = 0x93
	selCascadeLevel2 = 0x95
	nvbAnticollision = 0x20
	nvbSelect        = 0x70
	cmdHalt          = 0x50

	cascadeTag    = 0x88
	sakCascadeBit = 0x04

	// REQA and WUPA are short frames of 7 bits
	shortFrameBits = 7

	atqaLength        = 2
	cascadeResponse   = 5 // 4 UID bytes and BCC
	sakLength         = 1
	activationBufSize = 10

	// Offsets in the activation buffer
	offATQA = 0
	offSAK  = 2
	offUID  = 3

	// MaxUIDLength is the longest UID this package assembles
	MaxUIDLength = 7
)

// Initiator activates cards through a Reader. It is not safe for concurrent
// use and an activation must finish before the next one starts.
type Initiator struct {
	r Reader
}

// New creates an initiator on top of r
func New(r Reader) *Initiator {
	return &Initiator{r: r}
}

// SetupRF loads the ISO14443-A RF configuration and switches the field on
func (i *Initiator) SetupRF() error {
	if err := i.r.LoadRFConfig(pn5180.RFConfigISO14443ATx, pn5180.RFConfigISO14443ARx); err != nil {
		return fmt.Errorf("%w: %w", pn5180.ErrConfigFailed, err)
	}
	if err := i.r.SetRFOn(); err != nil {
		return fmt.Errorf("setup RF: %w", err)
	}
	return nil
}

// Activate wakes a card with kind and runs anti-collision and selection.
//
// The returned error wraps pn5180.ErrNoCard when nothing answered,
// pn5180.ErrProtocol when the answers are inconsistent and
// pn5180.ErrConfigFailed when the RF configuration could not be loaded.
func (i *Initiator) Activate(ctx context.Context, kind RequestKind) (*Card, error) {
	if kind != REQA && kind != WUPA {
		return nil, fmt.Errorf("activate: unknown request %s: %w", kind, pn5180.ErrOutOfRange)
	}

	// [0:2] ATQA, [2] SAK, [3:10] UID
	var buf [activationBufSize]byte

	if err := i.r.LoadRFConfig(pn5180.RFConfigISO14443ATx, pn5180.RFConfigISO14443ARx); err != nil {
		return nil, fmt.Errorf("%w: %w", pn5180.ErrConfigFailed, err)
	}
	if err := i.r.WriteRegisterWithAndMask(pn5180.RegSystemConfig, ^pn5180.SystemConfigMFCCrypto); err != nil {
		return nil, fmt.Errorf("activate: crypto off: %w", err)
	}
	if err := i.setCRC(false); err != nil {
		return nil, err
	}

	atqa, err := i.transceive(ctx, []byte{byte(kind)}, shortFrameBits, atqaLength)
	if err != nil {
		return nil, fmt.Errorf("activate: %s: %w", kind, err)
	}
	copy(buf[offATQA:], atqa)

	cl1, err := i.anticollision(ctx, selCascadeLevel1)
	if err != nil {
		return nil, err
	}
	if isEmptyAnswer(buf[offATQA:offATQA+atqaLength], cl1[:4]) {
		return nil, pn5180.ErrNoCard
	}

	sak, err := i.selectLevel(ctx, selCascadeLevel1, cl1)
	if err != nil {
		return nil, err
	}
	buf[offSAK] = sak

	uidLen := 4
	if sak&sakCascadeBit == 0 {
		copy(buf[offUID:], cl1[:4])
	} else {
		if cl1[0] != cascadeTag {
			return nil, fmt.Errorf("activate: expected cascade tag, got %#02x: %w", cl1[0], pn5180.ErrProtocol)
		}
		copy(buf[offUID:], cl1[1:4])

		if err := i.setCRC(false); err != nil {
			return nil, err
		}
		cl2, err := i.anticollision(ctx, selCascadeLevel2)
		if err != nil {
			return nil, err
		}
		copy(buf[offUID+3:], cl2[:4])

		sak, err := i.selectLevel(ctx, selCascadeLevel2, cl2)
		if err != nil {
			return nil, err
		}
		buf[offSAK] = sak
		if sak&sakCascadeBit != 0 {
			return nil, fmt.Errorf("activate: triple size UID not supported (SAK %#02x): %w", sak, pn5180.ErrProtocol)
		}
		uidLen = 7
	}

	if isEmptyAnswer(buf[offATQA:offATQA+atqaLength], buf[offUID:offUID+4]) {
		return nil, pn5180.ErrNoCard
	}

	card := &Card{
		ATQA: [2]byte{buf[offATQA], buf[offATQA+1]},
		SAK:  buf[offSAK],
		UID:  append([]byte(nil), buf[offUID:offUID+uidLen]...),
	}
	pn5180.Debugf("ISO14443-A card %s, ATQA %02X%02X, SAK %02X", card.UIDString(), card.ATQA[1], card.ATQA[0], card.SAK)
	return card, nil
}

// anticollision sends the anti-collision command of a cascade level with
// CRC off and returns the 4 UID bytes and BCC. CRC is switched back on
// afterwards for the SELECT that follows.
func (i *Initiator) anticollision(ctx context.Context, sel byte) ([]byte, error) {
	resp, err := i.transceive(ctx, []byte{sel, nvbAnticollision}, 0, cascadeResponse)
	if err != nil {
		return nil, fmt.Errorf("activate: anti-collision %#02x: %w", sel, err)
	}
	if err := i.setCRC(true); err != nil {
		return nil, err
	}
	return resp, nil
}

// selectLevel selects the cascade level with the UID bytes and BCC of cl
// and returns the SAK
func (i *Initiator) selectLevel(ctx context.Context, sel byte, cl []byte) (byte, error) {
	frame := make([]byte, 0, 2+cascadeResponse)
	frame = append(frame, sel, nvbSelect)
	frame = append(frame, cl...)
	resp, err := i.transceive(ctx, frame, 0, sakLength)
	if err != nil {
		return 0, fmt.Errorf("activate: select %#02x: %w", sel, err)
	}
	return resp[0], nil
}

func (i *Initiator) transceive(ctx context.Context, data []byte, validBits byte, n int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := i.r.SendData(data, validBits); err != nil {
		return nil, err
	}
	resp, err := i.r.ReadData(n)
	if err != nil {
		return nil, err
	}
	if len(resp) < n {
		return nil, fmt.Errorf("%w: short read of %d bytes", pn5180.ErrDeviceError, len(resp))
	}
	return resp, nil
}

// setCRC switches RX and TX CRC together
func (i *Initiator) setCRC(on bool) error {
	for _, reg := range []byte{pn5180.RegCRCRxConfig, pn5180.RegCRCTxConfig} {
		var err error
		if on {
			err = i.r.WriteRegisterWithOrMask(reg, pn5180.CRCEnable)
		} else {
			err = i.r.WriteRegisterWithAndMask(reg, ^pn5180.CRCEnable)
		}
		if err != nil {
			return fmt.Errorf("activate: CRC %#02x: %w", reg, err)
		}
	}
	return nil
}

// isEmptyAnswer reports the patterns read back from an empty field
func isEmptyAnswer(atqa, uid []byte) bool {
	if atqa[0] == 0xFF && atqa[1] == 0xFF {
		return true
	}
	return allBytes(uid, 0x00) || allBytes(uid, 0xFF)
}

func allBytes(b []byte, v byte) bool {
	for _, x := range b {
		if x != v {
			return false
		}
	}
	return true
}

// Halt sends HLTA to the selected card. The card does not answer a HLTA,
// so only the transmission is checked.
func (i *Initiator) Halt() error {
	if err := i.r.SendData([]byte{cmdHalt, 0x00}, 0); err != nil {
		return fmt.Errorf("halt: %w", err)
	}
	return nil
}

// ReadCardSerial wakes up a card with WUPA, copies its UID into uid and
// halts it. It returns the UID length, 4 or 7, or 0 when no card
// answered. A missing card is not an error. A uid shorter than the card's
// UID fails with pn5180.ErrOutOfRange and is left untouched.
func (i *Initiator) ReadCardSerial(uid []byte) (int, error) {
	return i.ReadCardSerialContext(context.Background(), uid)
}

// ReadCardSerialContext is ReadCardSerial with cancellation between RF frames
func (i *Initiator) ReadCardSerialContext(ctx context.Context, uid []byte) (int, error) {
	card, err := i.ReadCard(ctx)
	if err != nil || card == nil {
		return 0, err
	}
	if len(uid) < len(card.UID) {
		return 0, fmt.Errorf("read card serial: %d byte UID does not fit %d byte buffer: %w",
			len(card.UID), len(uid), pn5180.ErrOutOfRange)
	}
	return copy(uid, card.UID), nil
}

// ReadCard activates a card with WUPA and halts it. It returns nil and no
// error when the field is empty.
func (i *Initiator) ReadCard(ctx context.Context) (*Card, error) {
	card, err := i.Activate(ctx, WUPA)
	if errors.Is(err, pn5180.ErrNoCard) {
		return nil, nil //nolint:nilnil // an empty field is a normal poll result
	}
	if err != nil {
		return nil, err
	}
	if err := i.Halt(); err != nil {
		// The card drops back to idle once it leaves the field anyway.
		pn5180.Debugf("halt failed: %v", err)
	}
	return card, nil
}

// IsCardPresent reports whether a card answers activation
func (i *Initiator) IsCardPresent() bool {
	var uid [MaxUIDLength]byte
	n, err := i.ReadCardSerial(uid[:])
	return err == nil && n >= 4
}
