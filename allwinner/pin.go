// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package allwinner

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// Pin is a GPIO of the PIO controller.
//
// It implements gpio.PinIO so it can be used with any periph device driver.
type Pin struct {
	number int
	name   string
	c      *Controller
}

// Pin returns the pin numbered n.
func (c *Controller) Pin(n int) (*Pin, error) {
	if _, err := c.layout.Locate(n); err != nil {
		return nil, fmt.Errorf("allwinner (%s): %w", c.layout.Name, err)
	}
	return &Pin{number: n, name: PinName(n), c: c}, nil
}

// String implements conn.Resource.
func (p *Pin) String() string {
	return p.name
}

// Halt implements conn.Resource.
func (p *Pin) Halt() error {
	return nil
}

// Name implements pin.Pin.
func (p *Pin) Name() string {
	return p.name
}

// Number implements pin.Pin.
//
// It is the sunxi pin number, bank*32 + offset.
func (p *Pin) Number() int {
	return p.number
}

// Function implements pin.Pin.
func (p *Pin) Function() string {
	return string(p.Func())
}

// Func implements pin.PinFunc.
func (p *Pin) Func() pin.Func {
	f, err := p.c.CfgPin(p.number)
	if err != nil {
		return pin.FuncNone
	}
	switch f {
	case Input:
		if p.Read() {
			return gpio.IN_HIGH
		}
		return gpio.IN_LOW
	case Output:
		if p.Read() {
			return gpio.OUT_HIGH
		}
		return gpio.OUT_LOW
	case Disabled:
		return pin.FuncNone
	default:
		return pin.Func(f.String())
	}
}

// SupportedFuncs implements pin.PinFunc.
func (p *Pin) SupportedFuncs() []pin.Func {
	return []pin.Func{gpio.IN, gpio.OUT}
}

// SetFunc implements pin.PinFunc.
func (p *Pin) SetFunc(f pin.Func) error {
	switch f {
	case gpio.IN:
		return p.In(gpio.PullNoChange, gpio.NoEdge)
	case gpio.OUT_HIGH:
		return p.Out(gpio.High)
	case gpio.OUT, gpio.OUT_LOW:
		return p.Out(gpio.Low)
	default:
		return p.wrap(errors.New("unsupported function"))
	}
}

// In implements gpio.PinIn.
//
// Edge detection is not supported.
func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	if edge != gpio.NoEdge {
		return p.wrap(errors.New("edge detection is not supported"))
	}
	if err := p.c.SetCfgPin(p.number, Input); err != nil {
		return p.wrap(err)
	}
	var v Pull
	switch pull {
	case gpio.PullNoChange:
		return nil
	case gpio.Float:
		v = PullNone
	case gpio.PullUp:
		v = PullUp
	case gpio.PullDown:
		v = PullDown
	default:
		return p.wrap(fmt.Errorf("unknown pull %d", pull))
	}
	if err := p.c.SetPull(p.number, v); err != nil {
		return p.wrap(err)
	}
	return nil
}

// Read implements gpio.PinIn.
func (p *Pin) Read() gpio.Level {
	v, err := p.c.Input(p.number)
	if err != nil {
		return gpio.Low
	}
	return v == 1
}

// WaitForEdge implements gpio.PinIn.
//
// It always returns false since edge detection is not supported.
func (p *Pin) WaitForEdge(timeout time.Duration) bool {
	return false
}

// Pull implements gpio.PinIn.
func (p *Pin) Pull() gpio.Pull {
	v, err := p.c.PullOf(p.number)
	if err != nil {
		return gpio.PullNoChange
	}
	switch v {
	case PullNone:
		return gpio.Float
	case PullUp:
		return gpio.PullUp
	case PullDown:
		return gpio.PullDown
	default:
		return gpio.PullNoChange
	}
}

// DefaultPull implements gpio.PinIn.
//
// The PIO resets every pull register to disabled.
func (p *Pin) DefaultPull() gpio.Pull {
	return gpio.Float
}

// Out implements gpio.PinOut.
//
// The level is latched before switching the pin to output so the pin doesn't
// glitch.
func (p *Pin) Out(l gpio.Level) error {
	if err := p.c.Output(p.number, bool(l)); err != nil {
		return p.wrap(err)
	}
	if err := p.c.SetCfgPin(p.number, Output); err != nil {
		return p.wrap(err)
	}
	return nil
}

// PWM implements gpio.PinOut.
func (p *Pin) PWM(gpio.Duty, physic.Frequency) error {
	return p.wrap(errors.New("pwm is not supported"))
}

func (p *Pin) wrap(err error) error {
	return fmt.Errorf("allwinner (%s): %w", p, err)
}

var _ conn.Resource = &Pin{}
var _ gpio.PinIn = &Pin{}
var _ gpio.PinOut = &Pin{}
var _ gpio.PinIO = &Pin{}
var _ pin.PinFunc = &Pin{}
