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

// Package transport provides internal polling utilities shared by the
// device and its transports
package transport

import (
	"errors"
	"time"
)

// ErrPollTimeout is returned when a polled condition did not hold in time.
// Callers wrap it into their own timeout error.
var ErrPollTimeout = errors.New("poll timeout")

// RetryOperation represents a function that is polled
// Returns: data, shouldRetry, error
// - data: the result once the condition holds
// - shouldRetry: true if the condition does not hold yet
// - error: any permanent error that should stop polling
type RetryOperation[T any] func() (T, bool, error)

// TimeoutRetry polls operation every interval until it stops asking for a
// retry, returns an error, or timeout elapses. The operation always runs at
// least once and once more at the deadline, so a slow scheduler cannot
// turn a ready condition into a timeout.
func TimeoutRetry[T any](timeout, interval time.Duration, operation RetryOperation[T]) (T, error) {
	var zero T
	deadline := time.Now().Add(timeout)

	for {
		result, shouldRetry, err := operation()
		if err != nil {
			return zero, err
		}
		if !shouldRetry {
			return result, nil
		}
		if !time.Now().Before(deadline) {
			return zero, ErrPollTimeout
		}
		if interval > 0 {
			time.Sleep(min(interval, time.Until(deadline)))
		}
	}
}

// WaitFor polls cond until it reports true
func WaitFor(timeout, interval time.Duration, cond func() (bool, error)) error {
	_, err := TimeoutRetry(timeout, interval, func() (struct{}, bool, error) {
		ok, err := cond()
		return struct{}{}, !ok, err
	})
	return err
}
