// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// sunxi-i2cscan lists the I²C devices connected to two PIO pins of an
// Allwinner board by bit-banging the bus through /dev/mem.
//
// It must be run as root. The default pins are PH12 (SDA) and PH11 (SCL).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"periph.io/x/sunxi/allwinner"
	"periph.io/x/sunxi/i2cscan"
	"periph.io/x/sunxi/pmem"
)

type config struct {
	sda     int
	scl     int
	layout  string
	delay   time.Duration
	first   uint
	last    uint
	verbose bool
}

func parseFlags(args []string) (*config, error) {
	c := &config{}
	f := flag.NewFlagSet("sunxi-i2cscan", flag.ContinueOnError)
	f.IntVar(&c.sda, "sda", 236, "SDA pin number (bank*32+offset)")
	f.IntVar(&c.scl, "scl", 235, "SCL pin number (bank*32+offset)")
	f.StringVar(&c.layout, "layout", allwinner.DefaultLayout.Name, "chip layout, or \"auto\" to detect it from sysfs")
	f.DurationVar(&c.delay, "delay", time.Microsecond, "delay after each line transition")
	f.UintVar(&c.first, "first", uint(i2cscan.FirstAddr), "first address to probe")
	f.UintVar(&c.last, "last", uint(i2cscan.LastAddr), "last address to probe")
	f.BoolVar(&c.verbose, "v", false, "log every probe")
	if err := f.Parse(args); err != nil {
		return nil, err
	}
	if f.NArg() != 0 {
		return nil, errors.New("unexpected argument, try -help")
	}
	if c.sda == c.scl {
		return nil, errors.New("-sda and -scl must be different pins")
	}
	if c.first > c.last || c.last > 0x7F {
		return nil, fmt.Errorf("invalid address range 0x%02X-0x%02X", c.first, c.last)
	}
	return c, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func selectLayout(name string) (allwinner.Layout, error) {
	if name == "auto" {
		return allwinner.DetectLayout()
	}
	return allwinner.LayoutByName(name)
}

func run(ctx context.Context, c *config, log *zap.Logger, w io.Writer) (err error) {
	l, err := selectLayout(c.layout)
	if err != nil {
		return err
	}
	ctrl, err := allwinner.Open(l)
	if errors.Is(err, pmem.ErrOpen) {
		return fmt.Errorf("%w; are you root?", err)
	}
	if err != nil {
		return err
	}
	defer func() {
		if err2 := ctrl.Close(); err == nil {
			err = err2
		}
	}()
	return scan(ctx, ctrl, c, log, w)
}

func scan(ctx context.Context, ctrl *allwinner.Controller, c *config, log *zap.Logger, w io.Writer) error {
	sda, err := ctrl.Pin(c.sda)
	if err != nil {
		return err
	}
	scl, err := ctrl.Pin(c.scl)
	if err != nil {
		return err
	}
	log.Info("scanning", zap.Stringer("chip", ctrl), zap.Stringer("sda", sda), zap.Stringer("scl", scl))
	fmt.Fprintln(w, "Searching for I2C devices...")
	s := i2cscan.Scanner{SDA: sda, SCL: scl, Delay: c.delay, Log: log}
	found, err := s.Scan(ctx, uint16(c.first), uint16(c.last))
	for _, addr := range found {
		fmt.Fprintf(w, "Device found at address 0x%02X\n", addr)
	}
	if err != nil {
		return err
	}
	log.Info("done", zap.Int("found", len(found)))
	return nil
}

func mainImpl() error {
	c, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}
	log, err := newLogger(c.verbose)
	if err != nil {
		return err
	}
	defer log.Sync()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, c, log, os.Stdout)
}

func main() {
	if err := mainImpl(); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "sunxi-i2cscan: %s.\n", err)
		os.Exit(1)
	}
}
