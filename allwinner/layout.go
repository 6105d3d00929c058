// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package allwinner

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
)

// Layout describes where the PIO registers of a chip are.
//
// Porting to another sunxi chip with the same register scheme is a matter of
// adding an entry to layouts.json.
type Layout struct {
	Name       string // e.g. "sun7i-a20"
	Pinctrl    string // name of the kernel pinctrl driver in sysfs
	Base       uint64 // physical address of bank PA
	Banks      int
	BankStride uint32 // bytes between two banks
	CfgOffset  uint32 // first configuration register in a bank
	CfgRegs    int    // configuration registers per bank
	DatOffset  uint32
	DrvOffset  uint32 // first of 2 drive registers
	PullOffset uint32 // first of 2 pull registers
}

// NumPins returns the number of pins addressable with this layout.
func (l Layout) NumPins() int {
	return l.Banks * pinsPerBank
}

// Size returns the number of bytes spanned by all the banks.
func (l Layout) Size() uint32 {
	return uint32(l.Banks) * l.BankStride
}

func (l Layout) String() string {
	return fmt.Sprintf("%s@0x%08X", l.Name, l.Base)
}

// layoutsJSON contains the register layout of the supported chips.
//
// Addresses come from the respective datasheets and were cross checked
// against the reg property of the pio node in the mainline device trees.
//
//go:embed layouts.json
var layoutsJSON []byte

type serializedLayout struct {
	Name       string
	Pinctrl    string
	Base       string
	Banks      int
	BankStride string
	CfgOffset  string
	CfgRegs    int
	DatOffset  string
	DrvOffset  string
	PullOffset string
}

// Layouts returns all the known chip layouts.
func Layouts() ([]Layout, error) {
	var serialized []serializedLayout
	if err := json.Unmarshal(layoutsJSON, &serialized); err != nil {
		return nil, err
	}
	out := make([]Layout, 0, len(serialized))
	for _, s := range serialized {
		l, err := s.layout()
		if err != nil {
			return nil, fmt.Errorf("allwinner: layout %q: %v", s.Name, err)
		}
		out = append(out, l)
	}
	return out, nil
}

// LayoutByName returns the layout of the chip named name, e.g. "sun8i-h3".
func LayoutByName(name string) (Layout, error) {
	all, err := Layouts()
	if err != nil {
		return Layout{}, err
	}
	for _, l := range all {
		if l.Name == name {
			return l, nil
		}
	}
	return Layout{}, fmt.Errorf("allwinner: unknown chip %q", name)
}

// DefaultLayout is the A20 layout; the A10, A13 and H3 PIO share its base
// address and bank geometry.
var DefaultLayout = Layout{
	Name:       "sun7i-a20",
	Pinctrl:    "sun7i-a20-pinctrl",
	Base:       0x01C20800,
	Banks:      9,
	BankStride: 0x24,
	CfgOffset:  0x00,
	CfgRegs:    4,
	DatOffset:  0x10,
	DrvOffset:  0x14,
	PullOffset: 0x1C,
}

func (s *serializedLayout) layout() (Layout, error) {
	l := Layout{Name: s.Name, Pinctrl: s.Pinctrl, Banks: s.Banks, CfgRegs: s.CfgRegs}
	var err error
	if l.Base, err = strconv.ParseUint(s.Base, 0, 64); err != nil {
		return l, err
	}
	for _, f := range []struct {
		dst *uint32
		src string
	}{
		{&l.BankStride, s.BankStride},
		{&l.CfgOffset, s.CfgOffset},
		{&l.DatOffset, s.DatOffset},
		{&l.DrvOffset, s.DrvOffset},
		{&l.PullOffset, s.PullOffset},
	} {
		v, err := strconv.ParseUint(f.src, 0, 32)
		if err != nil {
			return l, err
		}
		*f.dst = uint32(v)
	}
	if l.Banks <= 0 || l.CfgRegs <= 0 || l.BankStride == 0 {
		return l, fmt.Errorf("invalid geometry")
	}
	return l, nil
}
