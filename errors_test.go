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
	"errors"
	"fmt"
	"testing"

	pn5180 "github.com/ZaparooProject/go-pn5180"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "Nil", err: nil, want: false},
		{name: "Timeout", err: pn5180.NewTimeoutError("waitBusy", "SPI0.0"), want: true},
		{name: "WrappedTimeout", err: fmt.Errorf("read register: %w", pn5180.ErrTimeout), want: true},
		{
			name: "ClosedTransport",
			err:  pn5180.NewTransportError("Execute", "SPI0.0", pn5180.ErrTransportClosed, pn5180.ErrorTypePermanent),
			want: false,
		},
		{
			name: "TransientWrite",
			err:  pn5180.NewTransportError("Tx", "SPI0.0", pn5180.ErrTransportWrite, pn5180.ErrorTypeTransient),
			want: true,
		},
		{name: "InvalidState", err: pn5180.ErrInvalidState, want: true},
		{name: "Protocol", err: pn5180.ErrProtocol, want: true},
		{name: "OutOfRange", err: pn5180.ErrOutOfRange, want: false},
		{name: "PayloadTooLarge", err: pn5180.ErrPayloadTooLarge, want: false},
		{name: "Other", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pn5180.IsRetryable(tt.err))
		})
	}
}

func TestGetErrorType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, pn5180.ErrorTypeTimeout, pn5180.GetErrorType(pn5180.NewTimeoutError("op", "")))
	assert.Equal(t, pn5180.ErrorTypeTimeout, pn5180.GetErrorType(pn5180.ErrTimeout))
	assert.Equal(t, pn5180.ErrorTypeTransient, pn5180.GetErrorType(pn5180.ErrDeviceError))
	assert.Equal(t, pn5180.ErrorTypePermanent, pn5180.GetErrorType(pn5180.ErrOutOfRange))
	assert.Equal(t, "timeout", pn5180.ErrorTypeTimeout.String())
	assert.Equal(t, "unknown", pn5180.ErrorType(42).String())
}

func TestTransportError(t *testing.T) {
	t.Parallel()

	err := pn5180.NewTimeoutError("waitBusy", "SPI0.0")
	assert.Equal(t, "waitBusy on SPI0.0: operation timeout", err.Error())
	assert.ErrorIs(t, err, pn5180.ErrTimeout)

	err = pn5180.NewTimeoutError("waitIRQ", "")
	assert.Equal(t, "waitIRQ: operation timeout", err.Error())
}

func TestErrPayloadTooLarge_IsOutOfRange(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, pn5180.ErrPayloadTooLarge, pn5180.ErrOutOfRange)
	assert.NotErrorIs(t, pn5180.ErrOutOfRange, pn5180.ErrPayloadTooLarge)
}
