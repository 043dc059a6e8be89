// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package framework defines the contracts every compute framework implements.
//
// A Framework discovers Hardware once, builds Devices bound to a chosen
// subset of it and owns the compiled Binary for each device pairing.
// Go has no associated types, so the Device and Binary types a framework
// produces are the type parameters of Framework; a concrete framework such as
// *opencl.Framework satisfies Framework[*opencl.Context, *opencl.Program] and
// nothing else.
//
// Implementations:
//   - frameworks/native: host CPU, Go kernels on a goroutine pool
//   - frameworks/opencl: OpenCL platforms through an opencl.Driver
//   - frameworks/cuda: CUDA devices through a cuda.Driver
//   - frameworks/webgpu: WebGPU adapters via go-webgpu (build tag webgpu)
package framework

import (
	"github.com/born-ml/hal/hardware"
)

// Float is the set of numeric precisions capability implementations may be
// specialized for.
type Float interface {
	float32 | float64
}

// Device is an execution context bound to a non-empty subset of a
// framework's hardware.
type Device interface {
	// Hardwares returns the units the device is bound to.
	Hardwares() []hardware.Hardware
}

// Binary is a compiled set of named kernels.
type Binary interface {
	// Kernels returns the kernel names available in the binary.
	Kernels() []string
}

// Framework is a compute backend family: host CPU or one accelerator API.
type Framework[D Device, B Binary] interface {
	// ID returns the uppercase framework identifier, e.g. "OPENCL".
	ID() string

	// Name returns the display name used in error messages, e.g. "OpenCL".
	Name() string

	// LoadHardwares queries the native driver for all visible compute units.
	// The cached list returned by Hardwares is not modified.
	LoadHardwares() ([]hardware.Hardware, error)

	// Hardwares returns the units discovered at construction.
	// No native call is made.
	Hardwares() []hardware.Hardware

	// Binary returns the most recently compiled (or reused) binary.
	Binary() B

	// BinaryFor returns the binary cached for device's hardware pairing.
	BinaryFor(device D) B

	// NewDevice validates hardwares and creates a device bound to them.
	NewDevice(hardwares []hardware.Hardware) (D, error)
}

// ValidateSubset checks that subset is usable for a device of the framework
// identified by id (display name name), given the units it discovered.
//
// The subset must be non-empty, must not select a unit twice and every
// element must have been discovered by this framework. Violations are
// reported as configuration errors; no native call is involved.
func ValidateSubset(id, name string, discovered, subset []hardware.Hardware) error {
	if len(subset) == 0 {
		return NewConfigurationError(name, "empty hardware subset")
	}

	seen := make(map[string]struct{}, len(subset))
	for _, h := range subset {
		if h.Framework != id {
			return NewConfigurationError(name, "hardware %q belongs to framework %q", h.ID, h.Framework)
		}
		if _, dup := seen[h.ID]; dup {
			return NewConfigurationError(name, "hardware %q selected more than once", h.ID)
		}
		seen[h.ID] = struct{}{}
		if !hardware.Contains(discovered, h) {
			return NewConfigurationError(name, "hardware %q was not discovered", h.ID)
		}
	}
	return nil
}
