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
	"bytes"
	"log/slog"
	"testing"

	pn5180 "github.com/ZaparooProject/go-pn5180"
	"github.com/stretchr/testify/assert"
)

// Not parallel: the logger is package state.
func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	pn5180.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() {
		pn5180.SetDebugEnabled(false)
		pn5180.SetLogger(nil)
	})

	pn5180.Debugf("silent %d", 1)
	assert.Empty(t, buf.String())

	pn5180.SetDebugEnabled(true)
	pn5180.Debugf("loud %d", 2)
	assert.Contains(t, buf.String(), "loud 2")
	assert.Contains(t, buf.String(), "component=pn5180")
}
