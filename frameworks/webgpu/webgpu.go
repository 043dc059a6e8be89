// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu implements the WebGPU framework on wgpu-native through
// github.com/go-webgpu/webgpu.
//
// The native path is compiled with the webgpu build tag. Without it New
// always fails with StatusLibraryNotFound, so programs can link the package
// unconditionally and fall back to another framework.
//
// One adapter is discovered ("gpu0"). A Device binds exactly that adapter;
// the wgpu device, its queue and the compiled WGSL module are created once
// per framework and shared by every Device.
package webgpu

import (
	_ "embed"
	"errors"
	"slices"

	"github.com/born-ml/hal"
	"github.com/born-ml/hal/backend"
	"github.com/born-ml/hal/framework"
	"github.com/born-ml/hal/hardware"
)

// Framework identity.
const (
	ID   = "WEBGPU"
	Name = "WebGPU"
)

//go:embed kernels/blas.wgsl
var blasSource string

var _ framework.Framework[*Device, *Shader] = (*Framework)(nil)

// ShaderSource is a WGSL module and its compute entry points.
type ShaderSource struct {
	Name        string
	Code        string
	EntryPoints []string
}

// DefaultShader returns the single precision BLAS shaders.
func DefaultShader() ShaderSource {
	return ShaderSource{
		Name:        "blas",
		Code:        blasSource,
		EntryPoints: []string{"saxpy", "scopy", "sgemm", "sscal"},
	}
}

// Framework is the WebGPU framework. It is safe for concurrent use.
type Framework struct {
	gpu       *gpuRuntime
	source    ShaderSource
	hardwares []hardware.Hardware
	shaders   framework.BinaryCache[*Shader]
}

// Option configures a Framework.
type Option func(*Framework)

// WithShader replaces the WGSL module compiled for devices.
func WithShader(src ShaderSource) Option {
	return func(f *Framework) {
		f.source = src
	}
}

// New loads wgpu-native and requests a high-performance adapter.
func New(opts ...Option) (*Framework, error) {
	f := &Framework{source: DefaultShader()}
	for _, opt := range opts {
		opt(f)
	}

	gpu, err := openRuntime()
	if err != nil {
		return nil, framework.NewDriverError(Name, err)
	}
	f.gpu = gpu

	hws, err := f.LoadHardwares()
	if err != nil {
		hal.Logger().Warn("adapter query failed", "framework", Name, "error", err)
	}
	f.hardwares = hws

	hal.Logger().Info("framework initialised", "framework", Name, "hardwares", hardware.IDs(hws))
	return f, nil
}

// MustNew is like New but panics if wgpu-native is unavailable.
func MustNew(opts ...Option) *Framework {
	f, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// IsAvailable reports whether a WebGPU adapter can be obtained. The
// instance and adapter it acquires are released before it returns.
func IsAvailable() bool {
	gpu, err := openRuntime()
	if err != nil {
		return false
	}
	defer gpu.release()

	_, err = gpu.adapterInfo()
	return err == nil
}

// ID returns "WEBGPU".
func (f *Framework) ID() string { return ID }

// Name returns "WebGPU".
func (f *Framework) Name() string { return Name }

// LoadHardwares queries the adapter.
func (f *Framework) LoadHardwares() ([]hardware.Hardware, error) {
	h, err := f.gpu.adapterInfo()
	if err != nil {
		return nil, framework.NewDriverError(Name, err)
	}
	return []hardware.Hardware{h}, nil
}

// Hardwares returns the adapter discovered by New.
func (f *Framework) Hardwares() []hardware.Hardware {
	return hardware.CloneAll(f.hardwares)
}

// Binary returns the compiled shader module, or nil before the first
// device.
func (f *Framework) Binary() *Shader {
	s, _ := f.shaders.Active()
	return s
}

// BinaryFor returns the shader module of d's pairing.
func (f *Framework) BinaryFor(d *Device) *Shader {
	s, _ := f.shaders.Lookup(d.key)
	return s
}

// NewDevice binds the adapter in hardwares. The wgpu device and shader
// module are created on first use.
func (f *Framework) NewDevice(hardwares []hardware.Hardware) (*Device, error) {
	if err := framework.ValidateSubset(ID, Name, f.hardwares, hardwares); err != nil {
		return nil, err
	}
	if len(hardwares) != 1 {
		return nil, framework.NewConfigurationError(Name, "a device binds exactly one adapter, got %d", len(hardwares))
	}

	key := hardware.Key(hardwares)
	shader, err := f.shaders.Get(key, func() (*Shader, error) {
		return f.compile(key)
	})
	if err != nil {
		var wErr *Error
		if errors.As(err, &wErr) && wErr.Status == StatusShaderInvalid {
			return nil, framework.NewCompilationError(Name, err)
		}
		return nil, framework.NewDriverError(Name, err)
	}

	hal.Logger().Info("device created", "framework", Name, "hardwares", hardware.IDs(hardwares))
	return &Device{
		hardwares: hardware.CloneAll(hardwares),
		key:       key,
		gpu:       shader.gpu,
	}, nil
}

func (f *Framework) compile(key string) (*Shader, error) {
	gpu, err := f.gpu.requestDevice()
	if err != nil {
		return nil, err
	}
	module, err := gpu.compile(f.source.Code)
	if err != nil {
		gpu.release()
		return nil, err
	}
	hal.Logger().Info("binary compiled", "framework", Name, "shader", f.source.Name, "pairing", key)
	return &Shader{
		key:         key,
		entryPoints: slices.Clone(f.source.EntryPoints),
		module:      module,
		gpu:         gpu,
	}, nil
}

// Device is a WebGPU device bound to one adapter.
type Device struct {
	hardwares []hardware.Hardware
	key       string
	gpu       *gpuDevice
}

// Hardwares returns the adapter of the device.
func (d *Device) Hardwares() []hardware.Hardware { return hardware.CloneAll(d.hardwares) }

// Shader is a compiled WGSL module.
type Shader struct {
	key         string
	entryPoints []string
	module      *shaderModule
	gpu         *gpuDevice
}

// Kernels returns the compute entry points of the module.
func (s *Shader) Kernels() []string { return slices.Clone(s.entryPoints) }

// Backend is a backend running on a WebGPU device.
type Backend = backend.Backend[*Framework, *Device, *Shader]

// Config is the construction input of a WebGPU Backend.
type Config = backend.Config[*Framework, *Device, *Shader]

// NewConfig pairs fw with its adapter.
func NewConfig(fw *Framework, hardwares []hardware.Hardware) Config {
	return backend.NewConfig[*Framework, *Device, *Shader](fw, hardwares)
}

// NewBackend creates a WebGPU backend from config.
func NewBackend(config Config) (*Backend, error) {
	return backend.New(config)
}
