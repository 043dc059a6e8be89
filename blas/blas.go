// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package blas binds numeric routines to backends.
//
// A Library is implemented once per (backend, precision) pair. The pair is
// part of the method set: Precision returns a Precision[T], and Binary and
// Device return the concrete types of one framework. A function that needs
// float64 on the host therefore takes a Host[float64] and the compiler
// rejects anything else; there is no runtime capability check.
//
// Implemented pairs:
//
//	NativeFloat32   host CPU, float32
//	NativeFloat64   host CPU, float64
//	OpenCLFloat32   OpenCL, float32 (kernels only; execution is the caller's)
//
// CUDA and WebGPU backends have no implementation.
package blas

import (
	"github.com/born-ml/hal/framework"
	"github.com/born-ml/hal/frameworks/native"
	"github.com/born-ml/hal/frameworks/opencl"
)

// Precision is a marker for the element type T.
type Precision[T framework.Float] struct{}

// Name returns "float32" or "float64".
func (Precision[T]) Name() string {
	var zero T
	switch any(zero).(type) {
	case float32:
		return "float32"
	default:
		return "float64"
	}
}

// Library is a capability implementation for one backend and precision.
type Library[T framework.Float, B framework.Binary, D framework.Device] interface {
	// Binary returns the backend's compiled kernels.
	Binary() B
	// Device returns the backend's device.
	Device() D
	// Precision identifies the element type.
	Precision() Precision[T]
}

// Host is a Library on the native framework.
type Host[T framework.Float] interface {
	Library[T, *native.Binary, *native.Device]
}

// Compile-time checks of the implemented pairs.
var (
	_ Host[float32]                                      = NativeFloat32{}
	_ Host[float64]                                      = NativeFloat64{}
	_ Library[float32, *opencl.Program, *opencl.Context] = OpenCLFloat32{}
)

// NativeFloat32 is single precision BLAS on the host.
type NativeFloat32 struct {
	backend *native.Backend
}

// NewNativeFloat32 wraps b.
func NewNativeFloat32(b *native.Backend) NativeFloat32 {
	return NativeFloat32{backend: b}
}

func (l NativeFloat32) Binary() *native.Binary        { return l.backend.Binary() }
func (l NativeFloat32) Device() *native.Device        { return l.backend.Device() }
func (l NativeFloat32) Precision() Precision[float32] { return Precision[float32]{} }

// Backend returns the wrapped backend.
func (l NativeFloat32) Backend() *native.Backend { return l.backend }

// NativeFloat64 is double precision BLAS on the host.
type NativeFloat64 struct {
	backend *native.Backend
}

// NewNativeFloat64 wraps b.
func NewNativeFloat64(b *native.Backend) NativeFloat64 {
	return NativeFloat64{backend: b}
}

func (l NativeFloat64) Binary() *native.Binary        { return l.backend.Binary() }
func (l NativeFloat64) Device() *native.Device        { return l.backend.Device() }
func (l NativeFloat64) Precision() Precision[float64] { return Precision[float64]{} }

// Backend returns the wrapped backend.
func (l NativeFloat64) Backend() *native.Backend { return l.backend }

// OpenCLFloat32 is single precision BLAS on an OpenCL backend. It exposes
// the built program and context; enqueueing kernels is up to the caller.
type OpenCLFloat32 struct {
	backend *opencl.Backend
}

// NewOpenCLFloat32 wraps b.
func NewOpenCLFloat32(b *opencl.Backend) OpenCLFloat32 {
	return OpenCLFloat32{backend: b}
}

func (l OpenCLFloat32) Binary() *opencl.Program       { return l.backend.Binary() }
func (l OpenCLFloat32) Device() *opencl.Context       { return l.backend.Device() }
func (l OpenCLFloat32) Precision() Precision[float32] { return Precision[float32]{} }

// Backend returns the wrapped backend.
func (l OpenCLFloat32) Backend() *opencl.Backend { return l.backend }
