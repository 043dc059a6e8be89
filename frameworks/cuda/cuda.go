// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cuda implements the CUDA framework on top of a caller-supplied
// Driver. Devices are CUDA contexts; binaries are modules compiled from
// CUDA C++ once per device pairing.
//
// CUDA has no capability implementations in package blas yet, so a CUDA
// backend can be constructed and inspected but not used for BLAS calls.
package cuda

import (
	_ "embed"
	"fmt"
	"runtime"
	"slices"

	"github.com/born-ml/hal"
	"github.com/born-ml/hal/backend"
	"github.com/born-ml/hal/framework"
	"github.com/born-ml/hal/hardware"
)

// Framework identity.
const (
	ID   = "CUDA"
	Name = "CUDA"
)

//go:embed kernels/blas.cu
var blasSource string

var _ framework.Framework[*Context, *Module] = (*Framework)(nil)

// DefaultModule returns the single precision BLAS module.
func DefaultModule() ModuleSource {
	return ModuleSource{
		Name:      "blas",
		Source:    blasSource,
		Options:   []string{"--use_fast_math"},
		Functions: []string{"saxpy", "scopy", "sdot", "sgemm", "sscal"},
	}
}

// Framework is the CUDA framework. It is safe for concurrent use.
type Framework struct {
	driver    Driver
	module    ModuleSource
	hardwares []hardware.Hardware
	modules   framework.BinaryCache[*Module]
}

// Option configures a Framework.
type Option func(*Framework)

// WithModule replaces the module loaded for each device pairing.
func WithModule(src ModuleSource) Option {
	return func(f *Framework) {
		f.module = src
	}
}

// New initialises drv and discovers its devices. See opencl.New for the
// failure semantics, which are the same.
func New(drv Driver, opts ...Option) (*Framework, error) {
	f := &Framework{driver: drv, module: DefaultModule()}
	for _, opt := range opts {
		opt(f)
	}

	if err := drv.Init(); err != nil {
		return nil, framework.NewDriverError(Name, newError(err))
	}

	hws, err := f.LoadHardwares()
	if err != nil {
		hal.Logger().Warn("device enumeration failed", "framework", Name, "error", err)
	}
	f.hardwares = hws

	hal.Logger().Info("framework initialised", "framework", Name, "hardwares", hardware.IDs(hws))
	return f, nil
}

// MustNew is like New but panics if cuInit fails.
func MustNew(drv Driver, opts ...Option) *Framework {
	f, err := New(drv, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// ID returns "CUDA".
func (f *Framework) ID() string { return ID }

// Name returns "CUDA".
func (f *Framework) Name() string { return Name }

// LoadHardwares enumerates the driver's devices.
func (f *Framework) LoadHardwares() ([]hardware.Hardware, error) {
	attrs, err := f.driver.EnumerateDevices()
	if err != nil {
		return nil, framework.NewDriverError(Name, newError(err))
	}

	hws := make([]hardware.Hardware, 0, len(attrs))
	for _, a := range attrs {
		hws = append(hws, hardware.Hardware{
			Framework:    ID,
			ID:           a.ID,
			Name:         a.Name,
			Vendor:       "NVIDIA",
			Kind:         hardware.Accelerator,
			ComputeUnits: a.MultiprocessorCount,
			MemoryBytes:  a.TotalMemBytes,
			Features:     []string{fmt.Sprintf("sm_%d%d", a.ComputeCapability[0], a.ComputeCapability[1])},
		})
	}
	return hws, nil
}

// Hardwares returns the devices discovered by New.
func (f *Framework) Hardwares() []hardware.Hardware {
	return hardware.CloneAll(f.hardwares)
}

// Binary returns the module most recently loaded or reused.
func (f *Framework) Binary() *Module {
	m, _ := f.modules.Active()
	return m
}

// BinaryFor returns the module loaded for ctx's device pairing.
func (f *Framework) BinaryFor(ctx *Context) *Module {
	m, _ := f.modules.Lookup(ctx.key)
	return m
}

// NewDevice creates a context over hardwares and loads the module for that
// pairing if it is not loaded yet.
func (f *Framework) NewDevice(hardwares []hardware.Hardware) (*Context, error) {
	if err := framework.ValidateSubset(ID, Name, f.hardwares, hardwares); err != nil {
		return nil, err
	}

	handle, err := f.driver.CreateContext(hardware.IDs(hardwares))
	if err != nil {
		return nil, framework.NewDriverError(Name, newError(err))
	}

	key := hardware.Key(hardwares)
	destroyer, canDestroy := f.driver.(ContextDestroyer)
	m, err := f.modules.Get(key, func() (*Module, error) {
		mh, err := f.driver.LoadModule(handle, f.module)
		if err != nil {
			return nil, err
		}
		hal.Logger().Info("binary compiled", "framework", Name, "module", f.module.Name, "pairing", key)
		m := &Module{handle: mh, context: handle, key: key, functions: slices.Clone(f.module.Functions)}
		// The module is unloaded with its context, so the context lives as
		// long as the cached module.
		if canDestroy {
			runtime.AddCleanup(m, destroyer.DestroyContext, handle)
		}
		return m, nil
	})
	if err != nil {
		if canDestroy {
			destroyer.DestroyContext(handle)
		}
		return nil, framework.NewCompilationError(Name, newError(err))
	}

	ctx := &Context{hardwares: hardware.CloneAll(hardwares), handle: handle, key: key, module: m}
	if canDestroy && m.context != handle {
		runtime.AddCleanup(ctx, destroyer.DestroyContext, handle)
	}

	hal.Logger().Info("device created", "framework", Name, "hardwares", hardware.IDs(hardwares))
	return ctx, nil
}

// Backend is a backend running on a CUDA context.
type Backend = backend.Backend[*Framework, *Context, *Module]

// Config is the construction input of a CUDA Backend.
type Config = backend.Config[*Framework, *Context, *Module]

// NewConfig pairs fw with a device subset.
func NewConfig(fw *Framework, hardwares []hardware.Hardware) Config {
	return backend.NewConfig[*Framework, *Context, *Module](fw, hardwares)
}

// NewBackend creates a CUDA backend from config.
func NewBackend(config Config) (*Backend, error) {
	return backend.New(config)
}
