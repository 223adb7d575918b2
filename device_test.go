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
	"time"

	pn5180 "github.com/ZaparooProject/go-pn5180"
	testutil "github.com/ZaparooProject/go-pn5180/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newTestDevice creates a device on a simulated chip with short IRQ waits
func newTestDevice(t *testing.T) (*pn5180.Device, *testutil.SimulatedChip) {
	t.Helper()

	chip := testutil.NewSimulatedChip()
	device, err := pn5180.New(chip,
		pn5180.WithIRQTimeout(10*time.Millisecond),
		pn5180.WithIRQPollInterval(time.Millisecond))
	require.NoError(t, err)
	return device, chip
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		transport pn5180.Transport
		name      string
		opts      []pn5180.Option
		wantErr   bool
	}{
		{name: "Valid", transport: testutil.NewSimulatedChip()},
		{name: "NilTransport", transport: nil, wantErr: true},
		{
			name:      "NegativePollInterval",
			transport: testutil.NewSimulatedChip(),
			opts:      []pn5180.Option{pn5180.WithIRQPollInterval(-time.Millisecond)},
			wantErr:   true,
		},
		{
			name:      "ZeroIRQTimeout",
			transport: testutil.NewSimulatedChip(),
			opts:      []pn5180.Option{pn5180.WithIRQTimeout(0)},
			wantErr:   true,
		},
		{
			name:      "NilConfig",
			transport: testutil.NewSimulatedChip(),
			opts:      []pn5180.Option{pn5180.WithConfig(nil)},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			device, err := pn5180.New(tt.transport, tt.opts...)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, device)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.transport, device.Transport())
		})
	}
}

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	chip := testutil.NewSimulatedChip()
	_, err := pn5180.New(chip, pn5180.WithTimeout(5*time.Millisecond))

	require.NoError(t, err)
	assert.Equal(t, 5*time.Millisecond, chip.Timeout())
}

func TestWithConfig_RestoredIRQBound(t *testing.T) {
	t.Parallel()

	chip := testutil.NewSimulatedChip()
	chip.NoIdleAfterReset = true
	cfg := pn5180.DefaultDeviceConfig()
	cfg.IRQTimeout = 5 * time.Millisecond
	device, err := pn5180.New(chip, pn5180.WithConfig(cfg))
	require.NoError(t, err)

	start := time.Now()
	err = device.Reset()

	require.ErrorIs(t, err, pn5180.ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDevice_Init(t *testing.T) {
	t.Parallel()

	device, chip := newTestDevice(t)

	versions, err := device.Init()

	require.NoError(t, err)
	assert.Equal(t, 1, chip.Resets())
	assert.Equal(t, "4.0", versions.Product.String())
	assert.Equal(t, "4.1", versions.Firmware.String())
	assert.Equal(t, "153.0", versions.EEPROM.String())
	require.Len(t, versions.DieIdentifier, 16)
	assert.Equal(t, byte(0xA0), versions.DieIdentifier[0])
	assert.Zero(t, chip.Register(pn5180.RegIRQStatus), "reset clears pending IRQs")
}

func TestDevice_InitNotWired(t *testing.T) {
	t.Parallel()

	device, chip := newTestDevice(t)
	chip.SetEEPROM(pn5180.EEPROMProductVersion, []byte{0xFF, 0xFF})

	_, err := device.Init()

	require.ErrorIs(t, err, pn5180.ErrDeviceError)
}

func TestDevice_InitNoIdleIRQ(t *testing.T) {
	t.Parallel()

	device, chip := newTestDevice(t)
	chip.NoIdleAfterReset = true

	_, err := device.Init()

	require.ErrorIs(t, err, pn5180.ErrTimeout)
	assert.Zero(t, chip.CountFrames(testutil.CmdReadEEPROM))
}

func TestDevice_Close(t *testing.T) {
	t.Parallel()

	device, _ := newTestDevice(t)
	require.NoError(t, device.Close())

	err := device.WriteRegister(pn5180.RegSystemConfig, 0)
	require.ErrorIs(t, err, pn5180.ErrTransportClosed)
	assert.False(t, pn5180.IsRetryable(err))
}
