// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pmem

import (
	"errors"
	"fmt"
	"os"
	"unsafe"
)

// DevMem is the pseudo device exposing physical memory.
var DevMem = "/dev/mem"

var (
	// ErrOpen is returned when the physical memory device cannot be opened.
	//
	// This is usually a permission problem; run as root.
	ErrOpen = errors.New("failed to open memory device")
	// ErrMap is returned when the physical memory device was opened but the
	// mapping was refused.
	ErrMap = errors.New("failed to map memory")
)

// Mapping is a window of physical memory mapped in the process.
//
// The zero value and a closed Mapping are unmapped.
type Mapping struct {
	phys   uint64   // requested physical address
	offset uint64   // phys modulo the page size
	raw    []byte   // what mmap returned; only used to unmap
	words  []uint32 // starts at raw[offset]
}

// PageAlign returns the page aligned address containing phys and the offset
// of phys in that page.
//
// pageSize must be a power of two.
func PageAlign(phys uint64, pageSize int) (aligned, offset uint64) {
	mask := uint64(pageSize) - 1
	return phys &^ mask, phys & mask
}

// Map maps two pages of physical memory covering the address phys.
//
// The returned Mapping addresses registers relative to phys, not to the page
// boundary. The file descriptor is closed before returning; the mapping stays
// valid until Close is called.
func Map(phys uint64) (*Mapping, error) {
	ps := os.Getpagesize()
	aligned, offset := PageAlign(phys, ps)
	fd, err := openMem(DevMem)
	if err != nil {
		return nil, fmt.Errorf("pmem: %w: %s: %v", ErrOpen, DevMem, err)
	}
	raw, err := mmap(fd, int64(aligned), 2*ps)
	closeMem(fd)
	if err != nil {
		return nil, fmt.Errorf("pmem: %w: 0x%X: %v", ErrMap, aligned, err)
	}
	return newMapping(phys, offset, raw), nil
}

func newMapping(phys, offset uint64, raw []byte) *Mapping {
	n := (uint64(len(raw)) - offset) / 4
	return &Mapping{
		phys:   phys,
		offset: offset,
		raw:    raw,
		words:  unsafe.Slice((*uint32)(unsafe.Pointer(&raw[offset])), n),
	}
}

// Mapped returns true until Close is called.
func (m *Mapping) Mapped() bool {
	return m != nil && m.raw != nil
}

// Phys returns the physical address the mapping was requested for.
func (m *Mapping) Phys() uint64 {
	return m.phys
}

// Size returns the number of bytes usable from Phys.
func (m *Mapping) Size() int {
	return len(m.words) * 4
}

// Read32 implements Space.
func (m *Mapping) Read32(off uint32) uint32 {
	return m.words[index(off)]
}

// Write32 implements Space.
func (m *Mapping) Write32(off uint32, v uint32) {
	m.words[index(off)] = v
}

// Close unmaps the memory.
//
// It is safe to call Close multiple times. Once closed, the Mapping must not
// be accessed anymore; Mapped returns false.
func (m *Mapping) Close() error {
	if !m.Mapped() {
		return nil
	}
	raw := m.raw
	m.raw = nil
	m.words = nil
	if err := munmap(raw); err != nil {
		return fmt.Errorf("pmem: unmap 0x%X: %v", m.phys, err)
	}
	return nil
}

func (m *Mapping) String() string {
	if !m.Mapped() {
		return "Mapping(unmapped)"
	}
	return fmt.Sprintf("Mapping(0x%X, %d bytes)", m.phys, m.Size())
}
