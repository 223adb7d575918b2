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
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
)

var (
	debugEnabled atomic.Bool
	logger       atomic.Pointer[slog.Logger]
)

// SetDebugEnabled turns debug output of the library on or off
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
}

// SetLogger sets the logger used for debug output. A nil logger restores
// slog.Default().
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func currentLogger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

func debugf(format string, args ...any) {
	if !debugEnabled.Load() {
		return
	}
	currentLogger().Log(context.Background(), slog.LevelDebug, fmt.Sprintf(format, args...), "component", "pn5180")
}

func debugln(args ...any) {
	if !debugEnabled.Load() {
		return
	}
	currentLogger().Log(context.Background(), slog.LevelDebug, fmt.Sprint(args...), "component", "pn5180")
}

// Debugf is exported for sub-packages of this module
func Debugf(format string, args ...any) {
	debugf(format, args...)
}
