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

// Package spi provides the SPI host interface transport for PN5180
//
// The PN5180 uses a plain SPI bus (mode 0, up to 7 MHz) plus a BUSY line
// that the chip drives while it processes a frame. NSS is driven by this
// transport as a GPIO, in lock-step with BUSY, so the SPI driver must not
// toggle its own chip select.
package spi

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	pn5180 "github.com/ZaparooProject/go-pn5180"
	"github.com/ZaparooProject/go-pn5180/internal/transport"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const (
	// Default SPI settings
	defaultFreq = 1 * physic.MegaHertz
	mode        = spi.Mode0 // CPOL=0, CPHA=0
	bitsPerWord = 8

	// dummyByte is clocked out while reading a response frame
	dummyByte = 0xFF
)

// Config describes how the chip is wired to the host
type Config struct {
	// Port is the spireg name of the SPI port; empty selects the first one
	Port string
	// NSSPin, BusyPin and ResetPin are gpioreg pin names
	NSSPin   string
	BusyPin  string
	ResetPin string
	// Speed is the SPI clock
	Speed physic.Frequency
	// Timeout bounds every wait on the BUSY line
	Timeout time.Duration
	// NSSSetup is the delay between asserting NSS and clocking data
	NSSSetup time.Duration
	// NSSHold is the delay after releasing NSS
	NSSHold time.Duration
	// ResetPulse is how long RST is held low
	ResetPulse time.Duration
	// ResetSettle is the delay after releasing RST
	ResetSettle time.Duration
	// BusyPollInterval is the delay between two reads of BUSY
	BusyPollInterval time.Duration
}

// DefaultConfig returns the wiring of the common Raspberry Pi PN5180 boards
func DefaultConfig() *Config {
	return &Config{
		Port:             "",
		NSSPin:           "GPIO8",
		BusyPin:          "GPIO16",
		ResetPin:         "GPIO13",
		Speed:            defaultFreq,
		Timeout:          50 * time.Millisecond,
		NSSSetup:         2 * time.Millisecond,
		NSSHold:          1 * time.Millisecond,
		ResetPulse:       10 * time.Millisecond,
		ResetSettle:      2 * time.Millisecond,
		BusyPollInterval: 50 * time.Microsecond,
	}
}

// Validate checks the configuration for values the handshake cannot work with
func (c *Config) Validate() error {
	switch {
	case c.Timeout <= 0:
		return errors.New("spi: timeout must be positive")
	case c.NSSSetup < 0, c.NSSHold < 0, c.ResetSettle < 0, c.BusyPollInterval < 0:
		return errors.New("spi: delays must not be negative")
	case c.ResetPulse < 10*time.Millisecond:
		return errors.New("spi: reset pulse must be at least 10ms")
	case c.Speed <= 0 || c.Speed > 7*physic.MegaHertz:
		return fmt.Errorf("spi: speed %s out of range", c.Speed)
	}
	return nil
}

// Transport implements the pn5180.Transport interface over SPI
type Transport struct {
	conn     spi.Conn
	port     spi.PortCloser
	nss      gpio.PinOut
	busy     gpio.PinIn
	rst      gpio.PinOut
	config   Config
	portName string
	closed   bool
}

// New opens the SPI port and the pins named in config
func New(config *Config) (*Transport, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	nss, busy, rst, err := lookupPins(config)
	if err != nil {
		return nil, err
	}

	port, err := spireg.Open(config.Port)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %q: %w", config.Port, err)
	}

	conn, err := port.Connect(config.Speed, mode|spi.NoCS, bitsPerWord)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to connect SPI: %w", err)
	}

	t, err := NewWithConn(conn, nss, busy, rst, config)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	t.port = port
	return t, nil
}

func lookupPins(config *Config) (nss, busy, rst gpio.PinIO, err error) {
	names := []string{config.NSSPin, config.BusyPin, config.ResetPin}
	pins := make([]gpio.PinIO, len(names))
	for i, name := range names {
		pins[i] = gpioreg.ByName(name)
		if pins[i] == nil {
			return nil, nil, nil, fmt.Errorf("spi: unknown GPIO pin %q", name)
		}
	}
	return pins[0], pins[1], pins[2], nil
}

// NewWithConn creates a transport over an already connected SPI conn and
// pins. The caller keeps ownership of the port behind conn.
func NewWithConn(conn spi.Conn, nss gpio.PinOut, busy gpio.PinIn, rst gpio.PinOut, config *Config) (*Transport, error) {
	if conn == nil || nss == nil || busy == nil || rst == nil {
		return nil, errors.New("spi: conn and all pins are required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := busy.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("spi: BUSY pin: %w", err)
	}
	if err := nss.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("spi: NSS pin: %w", err)
	}
	if err := rst.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("spi: RST pin: %w", err)
	}

	return &Transport{
		conn:     conn,
		nss:      nss,
		busy:     busy,
		rst:      rst,
		config:   *config,
		portName: conn.String(),
	}, nil
}

// Execute sends one command frame and, if recvLen is not zero, reads the
// response frame.
//
// Each frame is: NSS low, transfer, BUSY high, NSS high, BUSY low. The whole
// exchange waits for BUSY low first. Any BUSY wait that exceeds the timeout
// aborts the exchange immediately, leaving the lines as they are.
func (t *Transport) Execute(send []byte, recvLen int) ([]byte, error) {
	if t.closed {
		return nil, pn5180.NewTransportError("Execute", t.portName, pn5180.ErrTransportClosed, pn5180.ErrorTypePermanent)
	}
	if len(send) == 0 || recvLen < 0 {
		return nil, pn5180.NewTransportError("Execute", t.portName,
			fmt.Errorf("%w: empty frame or negative read length", pn5180.ErrOutOfRange), pn5180.ErrorTypePermanent)
	}

	if err := t.waitBusy(gpio.Low, "waitIdle"); err != nil {
		return nil, err
	}

	if err := t.frame(send, nil); err != nil {
		return nil, err
	}
	if recvLen == 0 {
		return []byte{}, nil
	}

	recv := make([]byte, recvLen)
	if err := t.frame(bytes.Repeat([]byte{dummyByte}, recvLen), recv); err != nil {
		return nil, err
	}
	return recv, nil
}

// frame performs one NSS-framed SPI transfer and the BUSY handshake around it
func (t *Transport) frame(w, r []byte) error {
	if err := t.nss.Out(gpio.Low); err != nil {
		return pn5180.NewTransportError("assertNSS", t.portName, err, pn5180.ErrorTypePermanent)
	}
	time.Sleep(t.config.NSSSetup)

	if err := t.conn.Tx(w, r); err != nil {
		sentinel := pn5180.ErrTransportWrite
		if r != nil {
			sentinel = pn5180.ErrTransportRead
		}
		// The chip never saw a complete frame, so NSS goes back up before the
		// next command.
		_ = t.nss.Out(gpio.High)
		return pn5180.NewTransportError("Tx", t.portName, fmt.Errorf("%w: %w", sentinel, err), pn5180.ErrorTypeTransient)
	}

	if err := t.waitBusy(gpio.High, "waitBusy"); err != nil {
		return err
	}

	if err := t.nss.Out(gpio.High); err != nil {
		return pn5180.NewTransportError("releaseNSS", t.portName, err, pn5180.ErrorTypePermanent)
	}
	time.Sleep(t.config.NSSHold)

	return t.waitBusy(gpio.Low, "waitReady")
}

// waitBusy polls BUSY until it reads level
func (t *Transport) waitBusy(level gpio.Level, op string) error {
	err := transport.WaitFor(t.config.Timeout, t.config.BusyPollInterval, func() (bool, error) {
		return t.busy.Read() == level, nil
	})
	if errors.Is(err, transport.ErrPollTimeout) {
		return pn5180.NewTimeoutError(op, t.portName)
	}
	return err
}

// Reset pulses RST low and waits for the chip to come out of reset
func (t *Transport) Reset() error {
	if t.closed {
		return pn5180.NewTransportError("Reset", t.portName, pn5180.ErrTransportClosed, pn5180.ErrorTypePermanent)
	}
	if err := t.rst.Out(gpio.Low); err != nil {
		return pn5180.NewTransportError("Reset", t.portName, err, pn5180.ErrorTypePermanent)
	}
	time.Sleep(t.config.ResetPulse)
	if err := t.rst.Out(gpio.High); err != nil {
		return pn5180.NewTransportError("Reset", t.portName, err, pn5180.ErrorTypePermanent)
	}
	time.Sleep(t.config.ResetSettle)
	return nil
}

// SetTimeout sets the bound of every BUSY wait
func (t *Transport) SetTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		return errors.New("spi: timeout must be positive")
	}
	t.config.Timeout = timeout
	return nil
}

// Close releases NSS and closes the SPI port if this transport opened it
func (t *Transport) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	_ = t.nss.Out(gpio.High)
	if t.port != nil {
		if err := t.port.Close(); err != nil {
			return fmt.Errorf("failed to close SPI port: %w", err)
		}
	}
	return nil
}

// Type returns the transport type
func (*Transport) Type() pn5180.TransportType {
	return pn5180.TransportSPI
}

// Ensure Transport implements pn5180.Transport
var _ pn5180.Transport = (*Transport)(nil)
