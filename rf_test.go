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

func TestReset(t *testing.T) {
	t.Parallel()

	device, chip := newTestDevice(t)
	require.NoError(t, device.WriteRegister(pn5180.RegCRCRxConfig, 1))

	require.NoError(t, device.Reset())

	assert.Equal(t, 1, chip.Resets())
	assert.Zero(t, chip.Register(pn5180.RegIRQStatus))
	assert.Zero(t, chip.Register(pn5180.RegCRCRxConfig))
	frames := chip.Frames()
	assert.Equal(t, []byte{0x00, pn5180.RegIRQClear, 0xFF, 0xFF, 0xFF, 0xFF}, frames[len(frames)-1])
}

func TestReset_IRQTimeout(t *testing.T) {
	t.Parallel()

	device, chip := newTestDevice(t)
	chip.NoIdleAfterReset = true

	err := device.Reset()

	require.ErrorIs(t, err, pn5180.ErrTimeout)
	assert.Zero(t, chip.CountFrames(testutil.CmdWriteRegister), "IRQs are not cleared after a timeout")
}

func TestSetRFOn(t *testing.T) {
	t.Parallel()

	device, chip := newTestDevice(t)
	require.NoError(t, device.Reset())

	require.NoError(t, device.SetRFOn())

	assert.True(t, chip.RFOn())
	assert.Zero(t, chip.Register(pn5180.RegIRQStatus)&pn5180.IRQTxRFOn)
	assert.Equal(t, 1, chip.CountFrames(testutil.CmdRFOn))
}

func TestSetRFOn_IRQTimeout(t *testing.T) {
	t.Parallel()

	device, chip := newTestDevice(t)
	chip.NoRFOnIRQ = true

	err := device.SetRFOn()

	require.ErrorIs(t, err, pn5180.ErrTimeout)
	assert.True(t, pn5180.IsRetryable(err))
}

func TestSetRFOff(t *testing.T) {
	t.Parallel()

	device, chip := newTestDevice(t)
	require.NoError(t, device.SetRFOn())

	require.NoError(t, device.SetRFOff())

	assert.False(t, chip.RFOn())
	frames := chip.Frames()
	assert.Equal(t, []byte{0x17, 0x00}, frames[len(frames)-1])
}

func TestLoadRFConfig(t *testing.T) {
	t.Parallel()

	device, chip := newTestDevice(t)

	require.NoError(t, device.LoadRFConfig(pn5180.RFConfigISO14443ATx, pn5180.RFConfigISO14443ARx))

	assert.Equal(t, [][]byte{{0x11, 0x00, 0x80}}, chip.Frames())
}

func TestGetTransceiveState(t *testing.T) {
	t.Parallel()

	device, chip := newTestDevice(t)

	state, err := device.GetTransceiveState()
	require.NoError(t, err)
	assert.Equal(t, pn5180.TransceiveIdle, state)

	require.NoError(t, device.WriteRegisterWithOrMask(pn5180.RegSystemConfig, pn5180.SystemConfigTransceive))
	state, err = device.GetTransceiveState()
	require.NoError(t, err)
	assert.Equal(t, pn5180.TransceiveWaitTransmit, state)

	chip.SetError(testutil.CmdReadRegister, pn5180.NewTimeoutError("waitBusy", "sim"))
	state, err = device.GetTransceiveState()
	require.ErrorIs(t, err, pn5180.ErrTimeout)
	assert.Equal(t, pn5180.TransceiveIdle, state)
}

func TestTransceiveStateFromRFStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		want   pn5180.TransceiveState
		status uint32
	}{
		{status: 0x00000000, want: pn5180.TransceiveIdle},
		{status: 0x01000000, want: pn5180.TransceiveWaitTransmit},
		{status: 0x03FFFFFF, want: pn5180.TransceiveWaitReceive},
		{status: 0xFF000000, want: pn5180.TransceiveReserved},
		{status: 0x06123456, want: pn5180.TransceiveLoopBack},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, pn5180.TransceiveStateFromRFStatus(tt.status), "status %#08x", tt.status)
	}
	assert.Equal(t, "WaitTransmit", pn5180.TransceiveWaitTransmit.String())
	assert.Equal(t, "TransceiveState(9)", pn5180.TransceiveState(9).String())
}
