// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package i2cscan finds the devices present on an I²C bus by bit-banging two
// GPIO lines.
//
// For each address a start condition, the address with the write bit and a
// ninth clock are sent; a device pulling SDA low during the ninth clock is
// reported as present. Nothing else is transferred. Use a real I²C driver to
// talk to the devices found.
package i2cscan

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
)

// Valid 7 bits addresses; the others are reserved by the I²C specification.
const (
	FirstAddr uint16 = 0x08
	LastAddr  uint16 = 0x77
)

// Scanner probes I²C addresses.
//
// The lines are driven push-pull, as with most sunxi PIO pins used as plain
// GPIO, so the bus must not have another master.
type Scanner struct {
	SDA gpio.PinIO
	SCL gpio.PinIO
	// Delay is slept after every line transition. Zero relies on the GPIO
	// accesses being slow enough.
	Delay time.Duration
	// Log receives one debug entry per probed address. Defaults to no logging.
	Log *zap.Logger
}

// Scan probes every address from first to last inclusive and returns the
// ones that acknowledged.
//
// The context is checked between addresses.
func (s *Scanner) Scan(ctx context.Context, first, last uint16) ([]uint16, error) {
	if first > last || last > 0x7F {
		return nil, fmt.Errorf("i2cscan: invalid range 0x%02X-0x%02X", first, last)
	}
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	if err := s.idle(); err != nil {
		return nil, err
	}
	var found []uint16
	for addr := first; addr <= last; addr++ {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		ack, err := s.probe(addr)
		if err != nil {
			return found, err
		}
		log.Debug("probed", zap.String("addr", fmt.Sprintf("0x%02X", addr)), zap.Bool("ack", ack))
		if ack {
			found = append(found, addr)
		}
	}
	return found, nil
}

// idle releases both lines high.
func (s *Scanner) idle() error {
	if err := s.out(s.SDA, gpio.High); err != nil {
		return err
	}
	return s.out(s.SCL, gpio.High)
}

func (s *Scanner) probe(addr uint16) (bool, error) {
	if err := s.start(); err != nil {
		return false, err
	}
	// Address MSB first followed by the write bit.
	b := byte(addr << 1)
	for i := 7; i >= 0; i-- {
		if err := s.out(s.SDA, b&(1<<uint(i)) != 0); err != nil {
			return false, err
		}
		if err := s.clock(); err != nil {
			return false, err
		}
	}
	ack, err := s.readAck()
	if err != nil {
		return false, err
	}
	return ack, s.stop()
}

// start is SDA falling while SCL is high.
func (s *Scanner) start() error {
	if err := s.out(s.SDA, gpio.High); err != nil {
		return err
	}
	if err := s.out(s.SCL, gpio.High); err != nil {
		return err
	}
	if err := s.out(s.SDA, gpio.Low); err != nil {
		return err
	}
	return s.out(s.SCL, gpio.Low)
}

// stop is SDA rising while SCL is high.
func (s *Scanner) stop() error {
	if err := s.out(s.SDA, gpio.Low); err != nil {
		return err
	}
	if err := s.out(s.SCL, gpio.High); err != nil {
		return err
	}
	return s.out(s.SDA, gpio.High)
}

func (s *Scanner) clock() error {
	if err := s.out(s.SCL, gpio.High); err != nil {
		return err
	}
	return s.out(s.SCL, gpio.Low)
}

// readAck releases SDA, samples it during the ninth clock and takes SDA
// back.
func (s *Scanner) readAck() (bool, error) {
	if err := s.SDA.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return false, fmt.Errorf("i2cscan: %s: %w", s.SDA, err)
	}
	if err := s.out(s.SCL, gpio.High); err != nil {
		return false, err
	}
	ack := s.SDA.Read() == gpio.Low
	if err := s.out(s.SCL, gpio.Low); err != nil {
		return false, err
	}
	return ack, s.out(s.SDA, gpio.Low)
}

func (s *Scanner) out(p gpio.PinOut, l gpio.Level) error {
	if err := p.Out(l); err != nil {
		return fmt.Errorf("i2cscan: %s: %w", p, err)
	}
	if s.Delay > 0 {
		time.Sleep(s.Delay)
	}
	return nil
}
