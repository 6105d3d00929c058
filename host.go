// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package host loads the sunxi PIO driver and the boards built on it.
package host

import (
	"periph.io/x/conn/v3/driver/driverreg"

	// Make sure CPU and board drivers are registered. Both only register
	// themselves on ARM Linux.
	_ "periph.io/x/sunxi/allwinner"
	_ "periph.io/x/sunxi/orangepi"
)

// Init calls driverreg.Init() and returns it as-is.
//
// The only difference is that by calling host.Init(), you are guaranteed to
// have all the host drivers implemented in this library to be implicitly
// loaded.
func Init() (*driverreg.State, error) {
	return driverreg.Init()
}
