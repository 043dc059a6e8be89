// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package opencl

import "github.com/born-ml/hal/hardware"

// Context is an OpenCL context bound to a subset of devices.
type Context struct {
	hardwares []hardware.Hardware
	handle    ContextHandle
	key       string
	program   *Program
}

// Hardwares returns the devices the context was created for.
func (c *Context) Hardwares() []hardware.Hardware {
	return hardware.CloneAll(c.hardwares)
}

// Handle returns the native context.
func (c *Context) Handle() ContextHandle {
	return c.handle
}

// Key returns the pairing key of the context's devices.
func (c *Context) Key() string {
	return c.key
}
