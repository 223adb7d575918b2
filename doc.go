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

/*
Package pn5180 provides a pure Go driver for the NXP PN5180 NFC frontend.

The PN5180 is driven over SPI with an extra BUSY line that gates every
command frame. This package implements the host interface on top of that
handshake: register and EEPROM access, the RF field and IRQ status, and the
transceive buffer. ISO14443-A card activation lives in the iso14443
sub-package and a poll loop in the polling sub-package.

Features:
  - SPI transport on periph.io with the NSS/BUSY handshake
  - Register read, write and OR/AND masked writes
  - EEPROM reads with die identifier and version decoding
  - RF field control with bounded IRQ waits
  - ISO14443-A REQA/WUPA, anti-collision and select for 4 and 7 byte UIDs

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-pn5180"
	    "github.com/ZaparooProject/go-pn5180/iso14443"
	    "github.com/ZaparooProject/go-pn5180/transport/spi"
	)

	transport, err := spi.New(spi.DefaultConfig())
	if err != nil {
	    log.Fatal(err)
	}

	device, err := pn5180.New(transport)
	if err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	if _, err := device.Init(); err != nil {
	    log.Fatal(err)
	}

	initiator := iso14443.New(device)
	if err := initiator.SetupRF(); err != nil {
	    log.Fatal(err)
	}

	uid := make([]byte, iso14443.MaxUIDLength)
	n, err := initiator.ReadCardSerial(uid)
	if err != nil {
	    log.Fatal(err)
	}
	if n > 0 {
	    fmt.Printf("UID: %X\n", uid[:n])
	}

Error Handling:

All operations return errors that can be inspected:

	if errors.Is(err, pn5180.ErrTimeout) {
	    // BUSY or an IRQ did not arrive in time
	}

pn5180.IsRetryable tells whether running the next poll cycle may help.
Nothing in this package retries on its own.

Thread Safety:

Device operations are not thread-safe. The chip has one transceive buffer
and one RF state, so a single goroutine must own the device.
*/
package pn5180
