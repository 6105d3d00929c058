// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Orange Pi pin out.

package orangepi

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"periph.io/x/conn/v3/driver/driverreg"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/pin"
	"periph.io/x/conn/v3/pin/pinreg"
)

// modelPath is where the device tree exposes the board name.
var modelPath = "/proc/device-tree/model"

// Present return true if a Orange Pi board is detected.
func Present() bool {
	if isArm {
		// This works for the Orange Pi Zero, not sure if other Orange Pi boards
		// match the same DTModel prefix.
		return strings.HasPrefix(dtModel(), "OrangePi") || strings.HasPrefix(dtModel(), "Xunlong Orange Pi")
	}
	return false
}

const (
	boardZero string = "Orange Pi Zero" // + LTS (H2/H3 have identical pinouts)
)

// header26 is the 26 pins expansion port of the Orange Pi Zero. Strings are
// PIO pin names resolved through gpioreg once the allwinner driver loaded.
var header26 = [][]interface{}{
	{pin.DC_IN, pin.V5}, // VCC 3v3 Ext
	{"PA12", pin.V5},
	{"PA11", pin.GROUND},
	{"PA6", "PG6"},
	{pin.GROUND, "PG7"},
	{"PA1", "PA7"},
	{"PA0", pin.GROUND},
	{"PA3", "PA19"},
	{pin.DC_IN, "PA18"}, // VCC 3v3 Ext
	{"PA15", pin.GROUND},
	{"PA16", "PA2"},
	{"PA14", "PA13"},
	{pin.GROUND, "PA10"},
}

// resolve turns header26 into pins.
func resolve(rows [][]interface{}) ([][]pin.Pin, error) {
	out := make([][]pin.Pin, 0, len(rows))
	for _, row := range rows {
		r := make([]pin.Pin, 0, len(row))
		for _, item := range row {
			switch v := item.(type) {
			case pin.Pin:
				r = append(r, v)
			case string:
				p := gpioreg.ByName(v)
				if p == nil {
					return nil, fmt.Errorf("orangepi: pin %s is not registered", v)
				}
				r = append(r, p)
			default:
				r = append(r, gpio.INVALID)
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// registerHeaders registers the headers for various Orange Pi boards. Currently
// only Orange Pi Zero is supported.
func registerHeaders(model string) error {
	// http://www.orangepi.org/html/hardWare/computerAndMicrocontrollers/details/Orange-Pi-Zero.html
	if !strings.Contains(model, boardZero) {
		return nil
	}
	pins, err := resolve(header26)
	if err != nil {
		return err
	}
	return pinreg.Register("PA", pins)
}

func dtModel() string {
	b, err := os.ReadFile(modelPath)
	if err != nil {
		return "<unknown>"
	}
	return strings.TrimRight(string(b), "\x00\n")
}

// driver implements periph.Driver.
type driver struct {
}

// String is the text representation of the board.
func (d *driver) String() string {
	return "orangepi"
}

// Prerequisites load drivers before the actual driver is loaded. For
// these boards, we do not need any prerequisites.
func (d *driver) Prerequisites() []string {
	return nil
}

// After this driver is loaded, the PIO pins must be registered.
func (d *driver) After() []string {
	return []string{"allwinner-pio"}
}

// Init initializes the driver by checking its presence and if found, the
// driver will be registered.
func (d *driver) Init() (bool, error) {
	if !Present() {
		return false, errors.New("board Orange Pi not detected")
	}
	model := dtModel()
	if model == "<unknown>" {
		return true, fmt.Errorf("orangepi: failed to obtain model")
	}
	return true, registerHeaders(model)
}

// init register the driver.
func init() {
	if isArm {
		driverreg.MustRegister(&drv)
	}
}

var drv driver
