//go:build !linux

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package native

// hostMemory is not implemented outside Linux.
func hostMemory() uint64 { return 0 }
