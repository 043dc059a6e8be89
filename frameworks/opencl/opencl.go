// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package opencl implements the OpenCL framework.
//
// Native calls go through a Driver supplied by the caller. A device is an
// OpenCL Context over a subset of the discovered devices; the binary is a
// Program built from OpenCL C source, once per device pairing.
//
// Example:
//
//	fw, err := opencl.New(driver)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	subset, _ := hardware.Select(fw.Hardwares(), []string{"gpu0"})
//	b, err := opencl.NewBackend(opencl.NewConfig(fw, subset))
//	if errors.Is(err, opencl.DeviceNotFound) {
//	    // ...
//	}
package opencl

import (
	_ "embed"
	"runtime"
	"slices"

	"github.com/born-ml/hal"
	"github.com/born-ml/hal/backend"
	"github.com/born-ml/hal/framework"
	"github.com/born-ml/hal/hardware"
)

// Framework identity.
const (
	ID   = "OPENCL"
	Name = "OpenCL"
)

//go:embed kernels/blas.cl
var blasSource string

// Compile-time check that Framework implements framework.Framework.
var _ framework.Framework[*Context, *Program] = (*Framework)(nil)

// DefaultProgram returns the single precision BLAS program.
func DefaultProgram() ProgramSource {
	return ProgramSource{
		Name:    "blas",
		Source:  blasSource,
		Options: "-cl-std=CL1.2",
		Kernels: []string{"sasum", "saxpy", "scopy", "sdot", "sgemm", "snrm2", "sscal"},
	}
}

// Framework is the OpenCL framework. It is safe for concurrent use.
type Framework struct {
	driver    Driver
	program   ProgramSource
	hardwares []hardware.Hardware
	programs  framework.BinaryCache[*Program]
}

// Option configures a Framework.
type Option func(*Framework)

// WithProgram replaces the program built for each device pairing.
func WithProgram(src ProgramSource) Option {
	return func(f *Framework) {
		f.program = src
	}
}

// New initialises drv and discovers its devices.
//
// A failed Init is returned as a driver error. A failed enumeration is not:
// the framework starts with no hardware and LoadHardwares reports the cause.
func New(drv Driver, opts ...Option) (*Framework, error) {
	f := &Framework{
		driver:  drv,
		program: DefaultProgram(),
	}
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

// MustNew is like New but panics if the driver cannot be initialised.
func MustNew(drv Driver, opts ...Option) *Framework {
	f, err := New(drv, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// ID returns "OPENCL".
func (f *Framework) ID() string { return ID }

// Name returns "OpenCL".
func (f *Framework) Name() string { return Name }

// LoadHardwares enumerates the driver's devices. The cached list is not
// changed.
func (f *Framework) LoadHardwares() ([]hardware.Hardware, error) {
	infos, err := f.driver.EnumerateDevices()
	if err != nil {
		return nil, framework.NewDriverError(Name, newError(err))
	}

	hws := make([]hardware.Hardware, 0, len(infos))
	for _, info := range infos {
		hws = append(hws, toHardware(info))
	}
	return hws, nil
}

// Hardwares returns the devices discovered by New.
func (f *Framework) Hardwares() []hardware.Hardware {
	return hardware.CloneAll(f.hardwares)
}

// Binary returns the program most recently built or reused, or nil if no
// context has been created yet.
func (f *Framework) Binary() *Program {
	p, _ := f.programs.Active()
	return p
}

// BinaryFor returns the program built for ctx's device pairing.
func (f *Framework) BinaryFor(ctx *Context) *Program {
	p, _ := f.programs.Lookup(ctx.key)
	return p
}

// Programs returns the number of programs built so far.
func (f *Framework) Programs() int {
	return f.programs.Len()
}

// NewDevice creates a context over hardwares and makes sure the program for
// that pairing is built.
func (f *Framework) NewDevice(hardwares []hardware.Hardware) (*Context, error) {
	if err := framework.ValidateSubset(ID, Name, f.hardwares, hardwares); err != nil {
		return nil, err
	}

	handle, err := f.driver.CreateContext(hardware.IDs(hardwares))
	if err != nil {
		return nil, framework.NewDriverError(Name, newError(err))
	}

	key := hardware.Key(hardwares)
	p, err := f.programs.Get(key, func() (*Program, error) {
		return f.build(handle, key)
	})
	if err != nil {
		f.release(handle)
		return nil, framework.NewCompilationError(Name, newError(err))
	}

	ctx := &Context{
		hardwares: hardware.CloneAll(hardwares),
		handle:    handle,
		key:       key,
		program:   p,
	}
	// The build context belongs to the program; see build.
	if r, ok := f.driver.(ContextReleaser); ok && p.context != handle {
		runtime.AddCleanup(ctx, r.ReleaseContext, handle)
	}

	hal.Logger().Info("device created", "framework", Name, "hardwares", hardware.IDs(hardwares))
	return ctx, nil
}

func (f *Framework) build(ctx ContextHandle, key string) (*Program, error) {
	handle, err := f.driver.BuildProgram(ctx, f.program)
	if err != nil {
		return nil, err
	}
	hal.Logger().Info("binary compiled", "framework", Name, "program", f.program.Name, "pairing", key)
	p := &Program{
		handle:  handle,
		context: ctx,
		key:     key,
		kernels: slices.Clone(f.program.Kernels),
	}
	// A program is only valid in the context it was built in, so that
	// context is released with the program rather than with the first Context.
	if r, ok := f.driver.(ContextReleaser); ok {
		runtime.AddCleanup(p, r.ReleaseContext, ctx)
	}
	return p, nil
}

func (f *Framework) release(ctx ContextHandle) {
	if r, ok := f.driver.(ContextReleaser); ok {
		r.ReleaseContext(ctx)
	}
}

func toHardware(info DeviceInfo) hardware.Hardware {
	kind := hardware.Accelerator
	if info.Type == DeviceTypeCPU {
		kind = hardware.Host
	}
	name := info.Name
	if info.Platform != "" {
		name = info.Platform + " " + info.Name
	}
	return hardware.Hardware{
		Framework:    ID,
		ID:           info.ID,
		Name:         name,
		Vendor:       info.Vendor,
		Kind:         kind,
		ComputeUnits: info.ComputeUnits,
		MemoryBytes:  info.GlobalMemBytes,
		Features:     slices.Clone(info.Extensions),
	}
}

// Backend is a backend running on an OpenCL context.
type Backend = backend.Backend[*Framework, *Context, *Program]

// Config is the construction input of an OpenCL Backend.
type Config = backend.Config[*Framework, *Context, *Program]

// NewConfig pairs fw with a device subset.
func NewConfig(fw *Framework, hardwares []hardware.Hardware) Config {
	return backend.NewConfig[*Framework, *Context, *Program](fw, hardwares)
}

// NewBackend creates an OpenCL backend from config.
func NewBackend(config Config) (*Backend, error) {
	return backend.New(config)
}
