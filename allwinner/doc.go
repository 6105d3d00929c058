// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package allwinner drives the GPIO controller (PIO) of Allwinner sunxi CPUs
// through memory mapped registers.
//
// # Numbering
//
// A pin is a single integer. Pins are grouped in banks of 32; PA is bank 0,
// PB is bank 1 and so on. Each bank has 4 configuration registers holding 8
// pins of 4 bits each, a data register holding one bit per pin, 2 drive
// registers and 2 pull registers holding 16 pins of 2 bits each:
//
//	bank     = pin / 32
//	cfgIndex = (pin % 32) / 8
//	cfgShift = (pin % 32) % 8 * 4
//	dataBit  = pin % 32
//
// For example PH11 is pin 7*32+11 = 235.
//
// # Concurrency
//
// A Controller does read-modify-write on shared registers without locking.
// Use it from a single goroutine or synchronize externally.
//
// # Datasheet
//
// https://linux-sunxi.org/GPIO
//
// https://linux-sunxi.org/images/d/d1/A20_Datasheet_v1.1.pdf
package allwinner
