// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pmem maps physical memory into the process so that memory mapped
// hardware registers can be read and written directly.
//
// Accessing /dev/mem requires root. The mapping is always two pages long so
// that a register block that starts near the end of a page is still fully
// covered.
//
// Register access is expressed through the Space interface. Mapping is the
// real thing; View is a plain slice of words used to exercise register logic
// without hardware.
package pmem
