// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package allwinner

import (
	"errors"
	"strconv"

	"periph.io/x/conn/v3/driver/driverreg"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Pins is all the pins of the detected chip, indexed by pin number.
//
// It is initialized by the driver and isn't mutated afterward. Do not modify
// it.
var Pins []*Pin

// driverGPIO implements periph.Driver.
type driverGPIO struct {
	c *Controller
}

func (d *driverGPIO) String() string {
	return "allwinner-pio"
}

func (d *driverGPIO) Prerequisites() []string {
	return nil
}

func (d *driverGPIO) After() []string {
	return nil
}

// Init detects the chip, maps its PIO registers and registers every pin in
// gpioreg as "PA0", "PA1", ... with the pin number as an alias.
//
// The mapping is held for the lifetime of the process.
func (d *driverGPIO) Init() (bool, error) {
	l, err := DetectLayout()
	if errors.Is(err, ErrNoChip) {
		return false, err
	}
	if err != nil {
		return true, err
	}
	if d.c, err = Open(l); err != nil {
		return true, err
	}
	return true, d.register()
}

func (d *driverGPIO) register() error {
	n := d.c.Layout().NumPins()
	Pins = make([]*Pin, 0, n)
	for i := 0; i < n; i++ {
		p, err := d.c.Pin(i)
		if err != nil {
			return err
		}
		Pins = append(Pins, p)
		if err := gpioreg.Register(p); err != nil {
			return err
		}
		if err := gpioreg.RegisterAlias(strconv.Itoa(i), p.Name()); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	if isSunxiCapable {
		driverreg.MustRegister(&drvGPIO)
	}
}

var drvGPIO driverGPIO
