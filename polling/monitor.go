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

// Package polling runs the reset, RF setup and card read cycle of a PN5180
// in a loop and reports cards arriving, changing and leaving the field.
package polling

import (
	"context"
	"errors"
	"fmt"
	"time"

	pn5180 "github.com/ZaparooProject/go-pn5180"
	"github.com/ZaparooProject/go-pn5180/iso14443"
)

// Config holds the poll loop settings
type Config struct {
	// PollInterval is the pause between two poll cycles
	PollInterval time.Duration
	// CardRemovalTimeout is how long a card may go unread before it is
	// reported as removed
	CardRemovalTimeout time.Duration
	// SkipReset keeps the chip from being hard-reset at the start of each
	// cycle. The field still gets reconfigured every time.
	SkipReset bool
}

// DefaultConfig returns the default poll loop settings
func DefaultConfig() *Config {
	return &Config{
		PollInterval:       250 * time.Millisecond,
		CardRemovalTimeout: 600 * time.Millisecond,
	}
}

// Stats counts poll cycle outcomes
type Stats struct {
	Polls  int
	Reads  int
	Errors int
}

// Monitor handles continuous card monitoring with state machine.
//
// Callbacks run on the goroutine calling Start or Poll. Monitor owns the
// device while it runs and is not safe for concurrent use.
type Monitor struct {
	device         *pn5180.Device
	initiator      *iso14443.Initiator
	config         *Config
	OnCardDetected func(card *iso14443.Card) error
	OnCardRemoved  func()
	OnCardChanged  func(card *iso14443.Card) error
	// OnError is called with every failed poll cycle
	OnError func(err error)
	now     func() time.Time
	state   CardState
	stats   Stats
}

// NewMonitor creates a new card monitor
func NewMonitor(device *pn5180.Device, config *Config) *Monitor {
	if config == nil {
		config = DefaultConfig()
	}
	return &Monitor{
		device:    device,
		initiator: iso14443.New(device),
		config:    config,
		now:       time.Now,
	}
}

// Start polls until ctx is done. Failed cycles are reported through OnError
// and never end the loop. It returns the context error.
func (m *Monitor) Start(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		card, err := m.Poll(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return ctx.Err()
		}
		m.process(card, err)

		timer.Reset(m.config.PollInterval)
	}
}

// Poll runs a single cycle: reset, RF setup and a WUPA based card read.
// It returns nil and no error when no card answered.
func (m *Monitor) Poll(ctx context.Context) (*iso14443.Card, error) {
	m.stats.Polls++

	if !m.config.SkipReset {
		if err := m.device.Reset(); err != nil {
			return nil, fmt.Errorf("poll: %w", err)
		}
	}
	if err := m.initiator.SetupRF(); err != nil {
		return nil, fmt.Errorf("poll: %w", err)
	}
	card, err := m.initiator.ReadCard(ctx)
	if err != nil {
		return nil, fmt.Errorf("poll: %w", err)
	}
	if card != nil {
		m.stats.Reads++
	}
	return card, nil
}

// process updates the card state with the outcome of a poll cycle
func (m *Monitor) process(card *iso14443.Card, err error) {
	now := m.now()

	if err != nil {
		m.stats.Errors++
		pn5180.Debugf("poll failed (retryable=%t): %v", pn5180.IsRetryable(err), err)
		if m.OnError != nil {
			m.OnError(err)
		}
	}

	if card == nil {
		if m.state.RemovalDue(now, m.config.CardRemovalTimeout) {
			m.handleCardRemoval()
		}
		return
	}

	uid := card.UIDString()
	switch {
	case !m.state.Present:
		m.state.TransitionToDetected(uid, card.Type().String(), now)
		if m.OnCardDetected != nil {
			m.report(m.OnCardDetected(card))
		}
	case m.state.LastUID != uid:
		m.state.TransitionToDetected(uid, card.Type().String(), now)
		if m.OnCardChanged != nil {
			m.report(m.OnCardChanged(card))
		}
	default:
		m.state.LastSeenTime = now
	}
}

func (m *Monitor) report(err error) {
	if err != nil {
		pn5180.Debugf("card callback failed: %v", err)
	}
}

// handleCardRemoval handles card removal state changes
func (m *Monitor) handleCardRemoval() {
	if !m.state.Present {
		return
	}
	m.state.TransitionToIdle()
	if m.OnCardRemoved != nil {
		m.OnCardRemoved()
	}
}

// GetState returns the current card state
func (m *Monitor) GetState() CardState {
	return m.state
}

// Stats returns the poll counters
func (m *Monitor) Stats() Stats {
	return m.stats
}

// GetDevice returns the underlying PN5180 device
func (m *Monitor) GetDevice() *pn5180.Device {
	return m.device
}

// Close switches the field off and closes the device
func (m *Monitor) Close() error {
	if err := m.device.SetRFOff(); err != nil {
		pn5180.Debugf("RF off failed: %v", err)
	}
	if err := m.device.Close(); err != nil {
		return fmt.Errorf("failed to close device: %w", err)
	}
	return nil
}
