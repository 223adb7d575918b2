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

package pn5180_test

import (
	"testing"

	pn5180 "github.com/ZaparooProject/go-pn5180"
	testutil "github.com/ZaparooProject/go-pn5180/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_RoundTrip(t *testing.T) {
	t.Parallel()

	regs := []byte{0x00, 0x01, 0x10, pn5180.RegCRCRxConfig, pn5180.RegCRCTxConfig, 0x20, 0x2F}
	values := []uint32{0, 1, 0xDEADBEEF, 0xFFFFFFFF, 0x80000000}

	for _, reg := range regs {
		for _, v := range values {
			device, _ := newTestDevice(t)
			require.NoError(t, device.WriteRegister(reg, v))

			got, err := device.ReadRegister(reg)

			require.NoError(t, err)
			assert.Equal(t, v, got, "register %#02x", reg)
		}
	}
}

func TestRegister_FrameEncoding(t *testing.T) {
	t.Parallel()

	device, chip := newTestDevice(t)

	require.NoError(t, device.WriteRegister(0x12, 0x12345678))
	require.NoError(t, device.WriteRegisterWithOrMask(0x12, 0x01))
	require.NoError(t, device.WriteRegisterWithAndMask(0x12, 0xFFFFFFFE))
	_, err := device.ReadRegister(0x12)
	require.NoError(t, err)

	assert.Equal(t, [][]byte{
		{0x00, 0x12, 0x78, 0x56, 0x34, 0x12},
		{0x01, 0x12, 0x01, 0x00, 0x00, 0x00},
		{0x02, 0x12, 0xFE, 0xFF, 0xFF, 0xFF},
		{0x04, 0x12},
	}, chip.Frames())
}

func TestRegister_Masks(t *testing.T) {
	t.Parallel()

	device, _ := newTestDevice(t)
	require.NoError(t, device.WriteRegister(0x10, 0x0000F0F0))

	require.NoError(t, device.WriteRegisterWithOrMask(0x10, 0x0000000F))
	got, err := device.ReadRegister(0x10)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x0000F0FF), got)

	require.NoError(t, device.WriteRegisterWithAndMask(0x10, 0x000000FF))
	got, err = device.ReadRegister(0x10)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x000000FF), got)
}

func TestRegister_TimeoutPropagates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		call func(*pn5180.Device) error
		name string
		cmd  byte
	}{
		{
			name: "WriteRegister",
			cmd:  testutil.CmdWriteRegister,
			call: func(d *pn5180.Device) error { return d.WriteRegister(0x10, 1) },
		},
		{
			name: "OrMask",
			cmd:  testutil.CmdWriteRegisterOrMask,
			call: func(d *pn5180.Device) error { return d.WriteRegisterWithOrMask(0x10, 1) },
		},
		{
			name: "AndMask",
			cmd:  testutil.CmdWriteRegisterAndMask,
			call: func(d *pn5180.Device) error { return d.WriteRegisterWithAndMask(0x10, 1) },
		},
		{
			name: "ReadRegister",
			cmd:  testutil.CmdReadRegister,
			call: func(d *pn5180.Device) error {
				_, err := d.ReadRegister(0x10)
				return err
			},
		},
		{
			name: "ReadData",
			cmd:  testutil.CmdReadData,
			call: func(d *pn5180.Device) error {
				_, err := d.ReadData(2)
				return err
			},
		},
		{
			name: "SendData",
			cmd:  testutil.CmdSendData,
			call: func(d *pn5180.Device) error { return d.SendData([]byte{0x26}, 7) },
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			device, chip := newTestDevice(t)
			chip.SetError(tt.cmd, pn5180.NewTimeoutError("waitBusy", "sim"))

			err := tt.call(device)

			require.ErrorIs(t, err, pn5180.ErrTimeout)
			assert.Equal(t, pn5180.ErrorTypeTimeout, pn5180.GetErrorType(err))
			assert.True(t, pn5180.IsRetryable(err))
		})
	}
}
