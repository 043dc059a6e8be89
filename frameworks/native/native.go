// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package native implements the host CPU framework.
//
// The host is discovered as a single hardware unit ("cpu0") whose compute
// units are the logical CPUs of the process. A Device is a goroutine pool
// sized to the selected units and the Binary is a table of pure Go kernels
// for float32 and float64, so nothing is ever compiled at runtime.
//
// Example:
//
//	fw := native.New()
//	b, err := native.NewBackend(native.NewConfig(fw, fw.Hardwares()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(b.Device().Workers())
package native

import (
	"github.com/born-ml/hal"
	"github.com/born-ml/hal/backend"
	"github.com/born-ml/hal/framework"
	"github.com/born-ml/hal/hardware"
	"github.com/born-ml/hal/internal/parallel"
)

// Framework identity.
const (
	ID   = "NATIVE"
	Name = "Native"
)

// Compile-time check that Framework implements framework.Framework.
var _ framework.Framework[*Device, *Binary] = (*Framework)(nil)

// Framework is the host CPU framework. It is safe for concurrent use.
type Framework struct {
	hardwares    []hardware.Hardware
	binary       *Binary
	minChunkSize int
	detect       func() ([]hardware.Hardware, error)
}

// Option configures a Framework.
type Option func(*Framework)

// WithMinChunkSize sets the smallest number of elements a device hands to
// one goroutine. Smaller inputs run sequentially.
func WithMinChunkSize(n int) Option {
	return func(f *Framework) {
		if n > 0 {
			f.minChunkSize = n
		}
	}
}

// withDetector replaces host detection; used by tests.
func withDetector(detect func() ([]hardware.Hardware, error)) Option {
	return func(f *Framework) {
		f.detect = detect
	}
}

// New discovers the host and prepares the kernel table.
func New(opts ...Option) *Framework {
	f := &Framework{
		minChunkSize: parallel.DefaultMinChunkSize,
		detect:       detectHost,
	}
	for _, opt := range opts {
		opt(f)
	}

	hws, err := f.detect()
	if err != nil {
		hal.Logger().Warn("host detection failed", "framework", Name, "error", err)
	}
	f.hardwares = hws
	f.binary = newBinary()

	hal.Logger().Info("framework initialised",
		"framework", Name,
		"hardwares", hardware.IDs(hws),
		"kernels", len(f.binary.Kernels()))
	return f
}

// ID returns "NATIVE".
func (f *Framework) ID() string { return ID }

// Name returns "Native".
func (f *Framework) Name() string { return Name }

// LoadHardwares detects the host again. The cached list is not changed.
func (f *Framework) LoadHardwares() ([]hardware.Hardware, error) {
	hws, err := f.detect()
	if err != nil {
		return nil, framework.NewDriverError(Name, err)
	}
	return hws, nil
}

// Hardwares returns the host units discovered by New.
func (f *Framework) Hardwares() []hardware.Hardware {
	return hardware.CloneAll(f.hardwares)
}

// Binary returns the kernel table.
func (f *Framework) Binary() *Binary {
	return f.binary
}

// BinaryFor returns the kernel table; it is shared by every device.
func (f *Framework) BinaryFor(*Device) *Binary {
	return f.binary
}

// NewDevice creates a worker pool sized to the selected units.
func (f *Framework) NewDevice(hardwares []hardware.Hardware) (*Device, error) {
	if err := framework.ValidateSubset(ID, Name, f.hardwares, hardwares); err != nil {
		return nil, err
	}

	d := newDevice(hardware.CloneAll(hardwares), f.minChunkSize)
	hal.Logger().Info("device created",
		"framework", Name,
		"hardwares", hardware.IDs(hardwares),
		"workers", d.Workers())
	return d, nil
}

// Backend is a backend running on the host CPU.
type Backend = backend.Backend[*Framework, *Device, *Binary]

// Config is the construction input of a host Backend.
type Config = backend.Config[*Framework, *Device, *Binary]

// NewConfig pairs fw with a hardware subset.
func NewConfig(fw *Framework, hardwares []hardware.Hardware) Config {
	return backend.NewConfig[*Framework, *Device, *Binary](fw, hardwares)
}

// NewBackend creates a host backend from config.
func NewBackend(config Config) (*Backend, error) {
	return backend.New(config)
}
