// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cuda

import (
	"slices"

	"github.com/born-ml/hal/hardware"
)

// Context is a CUDA context over a subset of devices.
type Context struct {
	hardwares []hardware.Hardware
	handle    ContextHandle
	key       string
	module    *Module
}

// Hardwares returns the devices of the context.
func (c *Context) Hardwares() []hardware.Hardware { return hardware.CloneAll(c.hardwares) }

// Handle returns the native context.
func (c *Context) Handle() ContextHandle { return c.handle }

// Key returns the device pairing key.
func (c *Context) Key() string { return c.key }

// Module is a loaded CUDA module. A module owns the context it was loaded
// in; that context is destroyed only once the module is unreachable.
type Module struct {
	handle    ModuleHandle
	context   ContextHandle
	key       string
	functions []string
}

// Kernels returns the entry points of the module.
func (m *Module) Kernels() []string { return slices.Clone(m.functions) }

// Handle returns the native module.
func (m *Module) Handle() ModuleHandle { return m.handle }

// Context returns the native context the module was loaded in.
func (m *Module) Context() ContextHandle { return m.context }

// Key returns the device pairing the module was loaded for.
func (m *Module) Key() string { return m.key }
