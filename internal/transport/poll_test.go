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

package transport

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeoutRetry_ReturnsResult(t *testing.T) {
	t.Parallel()

	calls := 0
	got, err := TimeoutRetry(time.Second, time.Millisecond, func() (int, bool, error) {
		calls++
		return calls, calls < 3, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.Equal(t, 3, calls)
}

func TestTimeoutRetry_StopsOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	calls := 0
	_, err := TimeoutRetry(time.Second, time.Millisecond, func() (int, bool, error) {
		calls++
		return 0, true, boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestTimeoutRetry_Expires(t *testing.T) {
	t.Parallel()

	start := time.Now()
	_, err := TimeoutRetry(20*time.Millisecond, time.Millisecond, func() (int, bool, error) {
		return 0, true, nil
	})

	require.ErrorIs(t, err, ErrPollTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestWaitFor_ZeroTimeoutStillChecksOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	err := WaitFor(0, time.Millisecond, func() (bool, error) {
		calls++
		return true, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
