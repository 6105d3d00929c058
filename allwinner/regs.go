// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package allwinner

import (
	"errors"
	"fmt"
)

const (
	pinsPerBank = 32
	pinsPerCfg  = 8  // 4 bits each
	pinsPerPull = 16 // 2 bits each, also true for drive registers
)

// Func is the 4 bits function code of a pin in its configuration register.
type Func uint8

// Function codes common to all sunxi PIO. Codes 2 to 6 select a peripheral
// function that depends on the pin, see the datasheet.
const (
	Input    Func = 0
	Output   Func = 1
	Alt2     Func = 2
	Alt3     Func = 3
	Alt4     Func = 4
	Alt5     Func = 5
	Alt6     Func = 6
	Disabled Func = 7
)

func (f Func) String() string {
	switch f {
	case Input:
		return "In"
	case Output:
		return "Out"
	case Disabled:
		return "Disabled"
	default:
		return fmt.Sprintf("Alt%d", uint8(f))
	}
}

// Pull is the 2 bits pull resistor setting.
type Pull uint8

const (
	// PullNone disables the pull resistor; this is the reset state.
	PullNone Pull = 0
	// PullUp enables the internal pull-up resistor.
	PullUp Pull = 1
	// PullDown enables the internal pull-down resistor.
	PullDown Pull = 2
)

func (p Pull) String() string {
	switch p {
	case PullNone:
		return "None"
	case PullUp:
		return "Up"
	case PullDown:
		return "Down"
	default:
		return fmt.Sprintf("Pull(%d)", uint8(p))
	}
}

var (
	// ErrPinRange is returned for a pin number outside the chip's banks.
	ErrPinRange = errors.New("pin out of range")
	// ErrFunc is returned for a function code that doesn't fit in 4 bits.
	ErrFunc = errors.New("function code out of range")
)

// Loc is where a pin lives in the register block.
type Loc struct {
	Bank      int
	CfgIndex  int  // configuration register in the bank
	CfgShift  uint // bit offset of the pin's nibble
	DataBit   uint // bit in the data register
	PullIndex int  // pull (and drive) register in the bank
	PullShift uint // bit offset of the pin's 2 bits
}

// Decompose splits a pin number into its register coordinates.
//
// It does no bound checking; see Layout.Locate.
func Decompose(pin int) Loc {
	n := pin % pinsPerBank
	return Loc{
		Bank:      pin / pinsPerBank,
		CfgIndex:  n / pinsPerCfg,
		CfgShift:  uint(n%pinsPerCfg) * 4,
		DataBit:   uint(n),
		PullIndex: n / pinsPerPull,
		PullShift: uint(n%pinsPerPull) * 2,
	}
}

// Locate is Decompose with bound checking against the layout.
func (l Layout) Locate(pin int) (Loc, error) {
	if pin < 0 || pin >= l.NumPins() {
		return Loc{}, fmt.Errorf("%w: %d (max %d)", ErrPinRange, pin, l.NumPins()-1)
	}
	return Decompose(pin), nil
}

// CfgAddr returns the byte offset of the pin's configuration register.
func (l Layout) CfgAddr(loc Loc) uint32 {
	return l.bank(loc) + l.CfgOffset + 4*uint32(loc.CfgIndex)
}

// DatAddr returns the byte offset of the bank's data register.
func (l Layout) DatAddr(loc Loc) uint32 {
	return l.bank(loc) + l.DatOffset
}

// DrvAddr returns the byte offset of the pin's drive level register.
func (l Layout) DrvAddr(loc Loc) uint32 {
	return l.bank(loc) + l.DrvOffset + 4*uint32(loc.PullIndex)
}

// PullAddr returns the byte offset of the pin's pull register.
func (l Layout) PullAddr(loc Loc) uint32 {
	return l.bank(loc) + l.PullOffset + 4*uint32(loc.PullIndex)
}

func (l Layout) bank(loc Loc) uint32 {
	return uint32(loc.Bank) * l.BankStride
}

// PinName returns the datasheet name of a pin, e.g. "PH11" for 235.
func PinName(pin int) string {
	return fmt.Sprintf("P%c%d", 'A'+rune(pin/pinsPerBank), pin%pinsPerBank)
}
