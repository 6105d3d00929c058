// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build linux && (arm || arm64)

package allwinner

// isSunxiCapable is true on the OS and architectures sunxi boards run.
const isSunxiCapable = true
