// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pmem

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// A regular file stands in for /dev/mem; mmap treats the file offset the same
// way it treats a physical address.
func TestMap_file(t *testing.T) {
	ps := os.Getpagesize()
	p := filepath.Join(t.TempDir(), "mem")
	if err := os.WriteFile(p, make([]byte, 4*ps), 0o600); err != nil {
		t.Fatal(err)
	}
	defer func(old string) { DevMem = old }(DevMem)
	DevMem = p

	phys := uint64(ps) + 0x800
	m, err := Map(phys)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Mapped() {
		t.Fatal("expected mapped")
	}
	if m.Phys() != phys {
		t.Fatalf("Phys() = 0x%X", m.Phys())
	}
	if want := 2*ps - 0x800; m.Size() != want {
		t.Fatalf("Size() = %d; want %d", m.Size(), want)
	}
	m.Write32(0, 0xDEADBEEF)
	m.Write32(0x10, 0x12345678)
	if got := m.Read32(0x10); got != 0x12345678 {
		t.Fatalf("Read32() = 0x%X", got)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if m.Mapped() {
		t.Fatal("expected unmapped after Close")
	}
	if err := m.Close(); err != nil {
		t.Fatal("second Close must be a no-op:", err)
	}

	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if got := binary.NativeEndian.Uint32(b[int(phys):]); got != 0xDEADBEEF {
		t.Fatalf("write at phys did not land in the file: 0x%X", got)
	}
	if got := binary.NativeEndian.Uint32(b[int(phys)+0x10:]); got != 0x12345678 {
		t.Fatalf("write at phys+0x10 did not land in the file: 0x%X", got)
	}
}

func TestMap_map_failure(t *testing.T) {
	// /dev/null opens fine but refuses mmap.
	if _, err := os.Stat("/dev/null"); err != nil {
		t.Skip(err)
	}
	defer func(old string) { DevMem = old }(DevMem)
	DevMem = "/dev/null"
	m, err := Map(0x01C20800)
	if m != nil {
		t.Fatal("expected no mapping")
	}
	if !errors.Is(err, ErrMap) {
		t.Fatalf("expected ErrMap, got %v", err)
	}
	if errors.Is(err, ErrOpen) {
		t.Fatal("map failure must not be reported as an open failure")
	}
}
