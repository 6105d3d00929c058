// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package pmem

import "errors"

var errNotSupported = errors.New("physical memory mapping is not supported on this OS")

func openMem(path string) (int, error) {
	return -1, errNotSupported
}

func closeMem(fd int) {
}

func mmap(fd int, offset int64, size int) ([]byte, error) {
	return nil, errNotSupported
}

func munmap(b []byte) error {
	return errNotSupported
}
