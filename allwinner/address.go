// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package allwinner

import (
	"errors"
	"os"
	"path"
	"strconv"
	"strings"
)

// driverDir is where the kernel lists the platform drivers.
const driverDir = "/sys/bus/platform/drivers"

// ErrNoChip is returned by DetectLayout when no known pinctrl driver is
// loaded.
var ErrNoChip = errors.New("allwinner: no known sunxi pinctrl driver found")

// DetectLayout queries sysfs to find which sunxi chip is running and where
// its PIO registers are.
//
// The kernel names the device bound to the pinctrl driver after the register
// address, e.g. "1c20800.pinctrl". Multi-platform kernels list every built-in
// pinctrl driver whether a device is bound or not, so a chip with a bound
// device always wins. The compiled in base address is only used when a single
// known pinctrl driver is listed.
func DetectLayout() (Layout, error) {
	return detectLayout(driverDir)
}

func detectLayout(root string) (Layout, error) {
	all, err := Layouts()
	if err != nil {
		return Layout{}, err
	}
	var unbound []Layout
	for _, l := range all {
		dir := path.Join(root, l.Pinctrl)
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			continue
		}
		if base, ok := getBaseAddressFromDriverDir(dir); ok {
			l.Base = base
			return l, nil
		}
		unbound = append(unbound, l)
	}
	if len(unbound) == 1 {
		return unbound[0], nil
	}
	return Layout{}, ErrNoChip
}

func getBaseAddressFromDriverDir(dir string) (uint64, bool) {
	// Some kernels only expose a "driver" symlink pointing to the device.
	if link, err := os.Readlink(path.Join(dir, "driver")); err == nil {
		if address, ok := parseDeviceName(path.Base(link)); ok {
			return address, true
		}
	}
	items, err := os.ReadDir(dir)
	if err != nil {
		return 0, false
	}
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		if address, ok := parseDeviceName(item.Name()); ok {
			return address, true
		}
	}
	return 0, false
}

// parseDeviceName parses "300b000.pinctrl" and "1c20800.pio".
func parseDeviceName(name string) (uint64, bool) {
	parts := strings.SplitN(name, ".", 2)
	if len(parts) != 2 || (parts[1] != "pinctrl" && parts[1] != "pio") {
		return 0, false
	}
	address, err := strconv.ParseUint(parts[0], 16, 64)
	if err != nil {
		return 0, false
	}
	return address, true
}
