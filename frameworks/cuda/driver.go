// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cuda

// DeviceAttributes describes one CUDA device (cuDeviceGetAttribute).
type DeviceAttributes struct {
	ID                  string // e.g. "gpu0"
	Ordinal             int
	Name                string
	ComputeCapability   [2]int // major, minor
	MultiprocessorCount int
	TotalMemBytes       uint64
}

// ContextHandle is an opaque CUcontext.
type ContextHandle uintptr

// ModuleHandle is an opaque loaded CUmodule.
type ModuleHandle uintptr

// ModuleSource is the CUDA C++ (or PTX) loaded for every device pairing.
type ModuleSource struct {
	Name      string
	Source    string
	Options   []string // NVRTC options.
	Functions []string // Kernel entry points the module exports.
}

// Driver is the native CUDA client a Framework talks to.
//
// Failures are reported as a Result or a *ResultError; anything else is
// treated as ErrorUnknown. Implementations must be safe for concurrent use.
type Driver interface {
	// Init calls cuInit.
	Init() error

	// EnumerateDevices lists every visible device.
	EnumerateDevices() ([]DeviceAttributes, error)

	// CreateContext creates a context (with a stream per device).
	CreateContext(ids []string) (ContextHandle, error)

	// LoadModule compiles src and loads it into ctx.
	LoadModule(ctx ContextHandle, src ModuleSource) (ModuleHandle, error)
}

// ContextDestroyer is implemented by drivers that must destroy contexts.
type ContextDestroyer interface {
	DestroyContext(ctx ContextHandle)
}
