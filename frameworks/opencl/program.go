// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package opencl

import "slices"

// Program is a built OpenCL program. Programs are shared by every Context
// of the same device pairing and own the context they were built in.
type Program struct {
	handle  ProgramHandle
	context ContextHandle
	key     string
	kernels []string
}

// Kernels returns the kernel names of the program.
func (p *Program) Kernels() []string {
	return slices.Clone(p.kernels)
}

// HasKernel reports whether the program defines the named kernel.
func (p *Program) HasKernel(name string) bool {
	return slices.Contains(p.kernels, name)
}

// Handle returns the native program.
func (p *Program) Handle() ProgramHandle {
	return p.handle
}

// Context returns the native context the program was built in.
func (p *Program) Context() ContextHandle {
	return p.context
}

// Key returns the device pairing the program was built for.
func (p *Program) Key() string {
	return p.key
}
