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

package iso14443

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"strings"
)

// CardType is the card family derived from SAK, ATQA and UID size
type CardType int

const (
	CardTypeUnknown CardType = iota
	CardTypeUltralight
	CardTypeMifareMini
	CardTypeMifareClassic1K
	CardTypeMifareClassic4K
	CardTypeMifarePlus
	CardTypeISO14443_4
)

const unknownCardName = "Unknown"

// String returns a human-readable string representation of the card type
func (t CardType) String() string {
	switch t {
	case CardTypeUltralight:
		return "MIFARE Ultralight/NTAG"
	case CardTypeMifareMini:
		return "MIFARE Mini"
	case CardTypeMifareClassic1K:
		return "MIFARE Classic 1K"
	case CardTypeMifareClassic4K:
		return "MIFARE Classic 4K"
	case CardTypeMifarePlus:
		return "MIFARE Plus"
	case CardTypeISO14443_4:
		return "ISO14443-4"
	case CardTypeUnknown:
		return unknownCardName
	default:
		return unknownCardName
	}
}

// Card is an activated ISO14443-A card
type Card struct {
	UID  []byte
	ATQA [2]byte
	SAK  byte
}

// UIDString returns the UID as an upper case hex string
func (c *Card) UIDString() string {
	return strings.ToUpper(hex.EncodeToString(c.UID))
}

// ATQAValue returns the ATQA as sent on air, least significant byte first
func (c *Card) ATQAValue() uint16 {
	return binary.LittleEndian.Uint16(c.ATQA[:])
}

// SupportsISO14443_4 reports whether the card announced ISO-DEP in its SAK
func (c *Card) SupportsISO14443_4() bool {
	return c.SAK&0x20 != 0
}

// Type classifies the card. This follows NXP AN10833 and only looks at the
// SAK, so it cannot tell e.g. NTAG21x from Ultralight variants.
func (c *Card) Type() CardType {
	switch c.SAK {
	case 0x00:
		if len(c.UID) == 7 {
			return CardTypeUltralight
		}
		return CardTypeUnknown
	case 0x09:
		return CardTypeMifareMini
	case 0x08, 0x28, 0x88:
		return CardTypeMifareClassic1K
	case 0x18, 0x38:
		return CardTypeMifareClassic4K
	case 0x10, 0x11:
		return CardTypeMifarePlus
	}
	if c.SupportsISO14443_4() {
		return CardTypeISO14443_4
	}
	return CardTypeUnknown
}

// CompareUID compares two UIDs for equality
func CompareUID(uid1, uid2 []byte) bool {
	return bytes.Equal(uid1, uid2)
}
