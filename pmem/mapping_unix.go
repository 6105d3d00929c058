// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build linux || darwin || freebsd || netbsd || openbsd

package pmem

import "golang.org/x/sys/unix"

func openMem(path string) (int, error) {
	return unix.Open(path, unix.O_RDWR|unix.O_SYNC, 0)
}

func closeMem(fd int) {
	_ = unix.Close(fd)
}

// mmap maps size bytes at offset, shared so that writes reach the hardware
// instead of a private copy.
func mmap(fd int, offset int64, size int) ([]byte, error) {
	return unix.Mmap(fd, offset, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

func munmap(b []byte) error {
	return unix.Munmap(b)
}
