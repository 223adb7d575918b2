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

import (
	"errors"
	"fmt"
)

// Device errors
var (
	// ErrTimeout is returned when the BUSY line or an IRQ bit does not reach
	// the expected level in time.
	ErrTimeout = errors.New("operation timeout")
	// ErrDeviceError is returned when the chip answers with a malformed payload.
	ErrDeviceError = errors.New("device error")
	// ErrOutOfRange is returned when an address or length precondition is violated.
	ErrOutOfRange = errors.New("out of range")
	// ErrPayloadTooLarge is returned when a buffer exceeds the chip's TX or RX buffer.
	ErrPayloadTooLarge = fmt.Errorf("%w: payload too large", ErrOutOfRange)
	// ErrInvalidState is returned when the transceiver is not in the state an
	// operation requires.
	ErrInvalidState = errors.New("invalid transceiver state")
	// ErrProtocol is returned when a card answer violates ISO14443-3.
	ErrProtocol = errors.New("protocol error")
	// ErrNoCard indicates that no card answered. It is a normal outcome of a poll.
	ErrNoCard = errors.New("no card")
	// ErrConfigFailed is returned when the RF configuration could not be loaded.
	ErrConfigFailed = errors.New("RF configuration failed")
)

// Transport errors
var (
	ErrTransportClosed = errors.New("transport closed")
	ErrTransportWrite  = errors.New("transport write failed")
	ErrTransportRead   = errors.New("transport read failed")
)

// ErrorType classifies an error for retry decisions made by callers
type ErrorType int

const (
	// ErrorTypePermanent errors will not go away by retrying
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient errors may succeed on a later poll cycle
	ErrorTypeTransient
	// ErrorTypeTimeout errors happened because the chip did not answer in time
	ErrorTypeTimeout
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypePermanent:
		return "permanent"
	case ErrorTypeTransient:
		return "transient"
	case ErrorTypeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// TransportError describes a failure of a single transport operation
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

func (e *TransportError) Error() string {
	if e.Port == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s on %s: %v", e.Op, e.Port, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a transport error of the given type
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType != ErrorTypePermanent,
	}
}

// NewTimeoutError creates a retryable timeout error
func NewTimeoutError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrTimeout, ErrorTypeTimeout)
}

// IsRetryable reports whether repeating the whole poll cycle may succeed.
// Nothing inside this package retries on its own.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}

	switch {
	case errors.Is(err, ErrTimeout),
		errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite),
		errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrProtocol),
		errors.Is(err, ErrDeviceError):
		return true
	default:
		return false
	}
}

// GetErrorType returns the classification of err
func GetErrorType(err error) ErrorType {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}
	if errors.Is(err, ErrTimeout) {
		return ErrorTypeTimeout
	}
	if IsRetryable(err) {
		return ErrorTypeTransient
	}
	return ErrorTypePermanent
}
