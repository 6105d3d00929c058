// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pmem

import "fmt"

// Space is a window of 32 bits registers.
//
// Offsets are in bytes relative to the start of the register block and must
// be 4 bytes aligned. Accesses are done at the native word width with no
// endianness conversion.
type Space interface {
	Read32(off uint32) uint32
	Write32(off uint32, v uint32)
}

// View is a Space backed by ordinary memory.
//
// It counts accesses so callers can verify that nothing touched it.
type View struct {
	Reads  int
	Writes int
	words  []uint32
}

// NewView returns a zeroed View of the specified number of 32 bits words.
func NewView(words int) *View {
	return &View{words: make([]uint32, words)}
}

// Read32 implements Space.
func (v *View) Read32(off uint32) uint32 {
	v.Reads++
	return v.words[index(off)]
}

// Write32 implements Space.
func (v *View) Write32(off uint32, x uint32) {
	v.Writes++
	v.words[index(off)] = x
}

// Words returns the backing words. It does not count as an access.
func (v *View) Words() []uint32 {
	return v.words
}

func (v *View) String() string {
	return fmt.Sprintf("View(%d words)", len(v.words))
}

func index(off uint32) uint32 {
	if off&3 != 0 {
		panic(fmt.Sprintf("pmem: unaligned register offset 0x%x", off))
	}
	return off >> 2
}

var _ Space = &View{}
var _ Space = &Mapping{}
