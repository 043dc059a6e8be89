// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package backend provides Backend, the composed handle applications use to
// run computations on one device of one framework.
//
// A backend is created from a Config pairing a framework with a subset of
// the hardware it discovered:
//
//	fw := opencl.MustNew(driver)
//	b, err := opencl.NewBackend(opencl.NewConfig(fw, fw.Hardwares()))
//
// Backend is generic over the framework type F and the device and binary
// types D and B that F produces. Each instantiation is a distinct type, so a
// device created by one framework can never be combined with a binary
// compiled by another, and capability implementations (see package blas) can
// be selected by the backend type alone.
package backend

import (
	"github.com/born-ml/hal/framework"
	"github.com/born-ml/hal/hardware"
)

// Backend pairs one framework with one device created by it.
// A Backend is immutable; reconfiguring means building a new one.
type Backend[F framework.Framework[D, B], D framework.Device, B framework.Binary] struct {
	framework F
	device    D
}

// New creates a backend from config.
//
// It asks the configured framework for a device bound to the configured
// hardware. Errors from the framework are returned unchanged.
func New[F framework.Framework[D, B], D framework.Device, B framework.Binary](config Config[F, D, B]) (*Backend[F, D, B], error) {
	device, err := config.framework.NewDevice(config.hardwares)
	if err != nil {
		return nil, err
	}
	return &Backend[F, D, B]{
		framework: config.framework,
		device:    device,
	}, nil
}

// Hardwares returns the hardware discovered by the backend's framework.
func (b *Backend[F, D, B]) Hardwares() []hardware.Hardware {
	return b.framework.Hardwares()
}

// Framework returns the backend's framework. Frameworks are shared handles;
// the returned value refers to the same discovery and binary caches.
func (b *Backend[F, D, B]) Framework() F {
	return b.framework
}

// Device returns the backend's device. It must not be used after the
// backend has been discarded.
func (b *Backend[F, D, B]) Device() D {
	return b.device
}

// Binary returns the compiled kernels for the backend's device.
func (b *Backend[F, D, B]) Binary() B {
	return b.framework.BinaryFor(b.device)
}

// Config is the input to New: a framework and the hardware subset to build
// a device from.
type Config[F framework.Framework[D, B], D framework.Device, B framework.Binary] struct {
	framework F
	hardwares []hardware.Hardware
}

// NewConfig pairs a framework with a hardware subset. It performs no
// validation; invalid selections are rejected by New.
func NewConfig[F framework.Framework[D, B], D framework.Device, B framework.Binary](fw F, hardwares []hardware.Hardware) Config[F, D, B] {
	return Config[F, D, B]{
		framework: fw,
		hardwares: hardware.CloneAll(hardwares),
	}
}

// Framework returns the configured framework.
func (c Config[F, D, B]) Framework() F {
	return c.framework
}

// Hardwares returns the configured hardware subset.
func (c Config[F, D, B]) Hardwares() []hardware.Hardware {
	return hardware.CloneAll(c.hardwares)
}
