// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package opencl

// DeviceType is the cl_device_type of a device.
type DeviceType int

// Device types.
const (
	DeviceTypeGPU DeviceType = iota
	DeviceTypeCPU
	DeviceTypeAccelerator
)

// String returns a human-readable device type.
func (t DeviceType) String() string {
	switch t {
	case DeviceTypeGPU:
		return "GPU"
	case DeviceTypeCPU:
		return "CPU"
	case DeviceTypeAccelerator:
		return "Accelerator"
	default:
		return "Unknown"
	}
}

// DeviceInfo describes one device as reported by clGetDeviceInfo.
type DeviceInfo struct {
	ID             string // Stable identifier, e.g. "gpu0".
	Platform       string
	Name           string
	Vendor         string
	Type           DeviceType
	ComputeUnits   int
	GlobalMemBytes uint64
	Extensions     []string
}

// ContextHandle is an opaque cl_context owned by a Driver.
type ContextHandle uintptr

// ProgramHandle is an opaque built cl_program owned by a Driver.
type ProgramHandle uintptr

// ProgramSource is the OpenCL C source built for every device pairing.
type ProgramSource struct {
	Name    string
	Source  string
	Options string   // Build options passed to clBuildProgram.
	Kernels []string // Kernel functions the source defines.
}

// Driver is the native OpenCL client a Framework talks to.
//
// Failures are reported as a Status or a *StatusError. Any other error is
// treated as status Other. Implementations must be safe for concurrent use.
type Driver interface {
	// Init loads the ICD and selects platforms.
	Init() error

	// EnumerateDevices lists every visible device.
	EnumerateDevices() ([]DeviceInfo, error)

	// CreateContext creates a context with one command queue per device.
	CreateContext(ids []string) (ContextHandle, error)

	// BuildProgram compiles src for the devices of ctx.
	BuildProgram(ctx ContextHandle, src ProgramSource) (ProgramHandle, error)
}

// ContextReleaser is implemented by drivers that must release contexts.
// The framework calls ReleaseContext once a Context becomes unreachable.
type ContextReleaser interface {
	ReleaseContext(ctx ContextHandle)
}
