// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package allwinner

import (
	"errors"
	"fmt"
	"io"

	"periph.io/x/sunxi/pmem"
)

// ErrNotMapped is returned by every register operation on a Controller that
// has no register space, either because it was never opened or because it
// was closed.
var ErrNotMapped = errors.New("registers are not mapped")

// Controller reads and writes the PIO registers of one chip.
//
// It is not safe for concurrent use.
type Controller struct {
	space  pmem.Space
	layout Layout
}

// Open maps the PIO registers described by l from /dev/mem.
//
// The returned error wraps pmem.ErrOpen or pmem.ErrMap so the caller can tell
// a permission problem from a mapping problem.
func Open(l Layout) (*Controller, error) {
	m, err := pmem.Map(l.Base)
	if err != nil {
		return nil, fmt.Errorf("allwinner (%s): %w", l.Name, err)
	}
	return New(m, l), nil
}

// New returns a Controller over an arbitrary register space.
//
// s must cover at least l.Size() bytes.
func New(s pmem.Space, l Layout) *Controller {
	return &Controller{space: s, layout: l}
}

// Layout returns the layout the controller was created with.
func (c *Controller) Layout() Layout {
	return c.layout
}

// Mapped returns true if register operations can be done.
func (c *Controller) Mapped() bool {
	if c == nil || c.space == nil {
		return false
	}
	if m, ok := c.space.(interface{ Mapped() bool }); ok {
		return m.Mapped()
	}
	return true
}

// Close releases the register space. All operations return ErrNotMapped
// afterward.
//
// It is safe to call Close multiple times.
func (c *Controller) Close() error {
	if c == nil || c.space == nil {
		return nil
	}
	s := c.space
	c.space = nil
	if cl, ok := s.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

func (c *Controller) String() string {
	return c.layout.String()
}

// SetCfgPin sets the function of a pin, leaving the 7 other pins sharing the
// configuration register untouched.
func (c *Controller) SetCfgPin(pin int, f Func) error {
	loc, err := c.locate(pin)
	if err != nil {
		return err
	}
	if f > 0xF {
		return fmt.Errorf("allwinner: %w: %d", ErrFunc, f)
	}
	addr := c.layout.CfgAddr(loc)
	cfg := c.space.Read32(addr)
	cfg &^= 0xF << loc.CfgShift
	cfg |= uint32(f) << loc.CfgShift
	c.space.Write32(addr, cfg)
	return nil
}

// CfgPin returns the function of a pin.
func (c *Controller) CfgPin(pin int) (Func, error) {
	loc, err := c.locate(pin)
	if err != nil {
		return 0, err
	}
	cfg := c.space.Read32(c.layout.CfgAddr(loc))
	return Func((cfg >> loc.CfgShift) & 0xF), nil
}

// Output drives a pin high or low.
//
// The level only appears on the pin when it is configured as Output.
func (c *Controller) Output(pin int, high bool) error {
	loc, err := c.locate(pin)
	if err != nil {
		return err
	}
	addr := c.layout.DatAddr(loc)
	dat := c.space.Read32(addr)
	if high {
		dat |= 1 << loc.DataBit
	} else {
		dat &^= 1 << loc.DataBit
	}
	c.space.Write32(addr, dat)
	return nil
}

// Input returns the level of a pin, 0 or 1.
func (c *Controller) Input(pin int) (int, error) {
	loc, err := c.locate(pin)
	if err != nil {
		return 0, err
	}
	dat := c.space.Read32(c.layout.DatAddr(loc))
	return int((dat >> loc.DataBit) & 1), nil
}

// SetPull sets the pull resistor of a pin.
func (c *Controller) SetPull(pin int, p Pull) error {
	if p > PullDown {
		return fmt.Errorf("allwinner: invalid pull %d", p)
	}
	loc, err := c.locate(pin)
	if err != nil {
		return err
	}
	c.update2(c.layout.PullAddr(loc), loc.PullShift, uint32(p))
	return nil
}

// PullOf returns the pull resistor setting of a pin.
func (c *Controller) PullOf(pin int) (Pull, error) {
	loc, err := c.locate(pin)
	if err != nil {
		return 0, err
	}
	return Pull((c.space.Read32(c.layout.PullAddr(loc)) >> loc.PullShift) & 3), nil
}

// SetDrive sets the multi-drive level of a pin, from 0 (weakest) to 3.
func (c *Controller) SetDrive(pin int, level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("allwinner: invalid drive level %d", level)
	}
	loc, err := c.locate(pin)
	if err != nil {
		return err
	}
	c.update2(c.layout.DrvAddr(loc), loc.PullShift, uint32(level))
	return nil
}

// DriveOf returns the multi-drive level of a pin.
func (c *Controller) DriveOf(pin int) (int, error) {
	loc, err := c.locate(pin)
	if err != nil {
		return 0, err
	}
	return int((c.space.Read32(c.layout.DrvAddr(loc)) >> loc.PullShift) & 3), nil
}

// update2 replaces the 2 bits field at shift.
func (c *Controller) update2(addr uint32, shift uint, v uint32) {
	r := c.space.Read32(addr)
	r &^= 3 << shift
	r |= v << shift
	c.space.Write32(addr, r)
}

// locate must be called before any register access.
func (c *Controller) locate(pin int) (Loc, error) {
	if !c.Mapped() {
		return Loc{}, fmt.Errorf("allwinner: %w", ErrNotMapped)
	}
	loc, err := c.layout.Locate(pin)
	if err != nil {
		return loc, fmt.Errorf("allwinner (%s): %w", c.layout.Name, err)
	}
	return loc, nil
}
