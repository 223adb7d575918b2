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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	pn5180 "github.com/ZaparooProject/go-pn5180"
	"github.com/ZaparooProject/go-pn5180/iso14443"
	"github.com/ZaparooProject/go-pn5180/polling"
	"github.com/ZaparooProject/go-pn5180/transport/spi"
	"github.com/lmittmann/tint"
)

type config struct {
	spi          *spi.Config
	timeout      *time.Duration
	pollInterval *time.Duration
	debug        *bool
}

func parseFlags() *config {
	spiCfg := spi.DefaultConfig()
	cfg := &config{spi: spiCfg}

	flag.StringVar(&spiCfg.Port, "port", spiCfg.Port, "SPI port name (empty selects the first port)")
	flag.StringVar(&spiCfg.NSSPin, "nss", spiCfg.NSSPin, "GPIO pin wired to NSS")
	flag.StringVar(&spiCfg.BusyPin, "busy", spiCfg.BusyPin, "GPIO pin wired to BUSY")
	flag.StringVar(&spiCfg.ResetPin, "rst", spiCfg.ResetPin, "GPIO pin wired to RST")
	flag.Var(&spiCfg.Speed, "speed", "SPI clock (e.g. 1MHz)")
	flag.DurationVar(&spiCfg.Timeout, "busy-timeout", spiCfg.Timeout, "Bound of every wait on the BUSY line")
	cfg.timeout = flag.Duration("timeout", 0, "Stop after this long (0 runs until interrupted)")
	cfg.pollInterval = flag.Duration("poll-interval", 250*time.Millisecond, "Pause between two poll cycles")
	cfg.debug = flag.Bool("debug", false, "Enable debug output")
	flag.Parse()

	level := slog.LevelInfo
	if *cfg.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
	pn5180.SetLogger(logger)
	pn5180.SetDebugEnabled(*cfg.debug)

	return cfg
}

func connectToDevice(cfg *config) (*pn5180.Device, error) {
	transport, err := spi.New(cfg.spi)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI transport: %w", err)
	}

	device, err := pn5180.New(transport)
	if err != nil {
		_ = transport.Close()
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	versions, err := device.Init()
	if err != nil {
		_ = device.Close()
		return nil, fmt.Errorf("failed to initialize PN5180: %w", err)
	}
	_, _ = fmt.Printf("PN5180 product %s, firmware %s, EEPROM %s, die %X\n",
		versions.Product, versions.Firmware, versions.EEPROM, versions.DieIdentifier)
	return device, nil
}

func runMonitor(ctx context.Context, device *pn5180.Device, cfg *config) error {
	monitorCfg := polling.DefaultConfig()
	monitorCfg.PollInterval = *cfg.pollInterval
	if minRemoval := 2 * (*cfg.pollInterval); monitorCfg.CardRemovalTimeout < minRemoval {
		monitorCfg.CardRemovalTimeout = minRemoval
	}

	monitor := polling.NewMonitor(device, monitorCfg)
	defer func() { _ = monitor.Close() }()

	printCard := func(card *iso14443.Card) error {
		_, _ = fmt.Printf("Card %s (%s, ATQA %04X, SAK %02X)\n",
			card.UIDString(), card.Type(), card.ATQAValue(), card.SAK)
		return nil
	}
	monitor.OnCardDetected = printCard
	monitor.OnCardChanged = printCard
	monitor.OnCardRemoved = func() {
		_, _ = fmt.Println("Card removed")
	}
	monitor.OnError = func(err error) {
		slog.Warn("poll failed", "error", err, "retryable", pn5180.IsRetryable(err))
	}

	err := monitor.Start(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		stats := monitor.Stats()
		slog.Info("stopped", "polls", stats.Polls, "reads", stats.Reads, "errors", stats.Errors)
		return nil
	}
	return err
}

func main() {
	cfg := parseFlags()

	device, err := connectToDevice(cfg)
	if err != nil {
		slog.Error("failed to connect to device", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *cfg.timeout)
		defer cancel()
	}

	_, _ = fmt.Printf("Waiting for cards (poll interval: %s)...\n", *cfg.pollInterval)
	if err := runMonitor(ctx, device, cfg); err != nil {
		slog.Error("monitor failed", "error", err)
	}
}
