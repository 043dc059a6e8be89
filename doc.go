// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package hal is a hardware-abstraction layer for numeric computation.
//
// # Overview
//
// Numeric code is written once and executed on any of several compute
// frameworks: the host CPU (frameworks/native) or an accelerator API
// (frameworks/opencl, frameworks/cuda, frameworks/webgpu). The caller never
// branches on the active framework; the choice is encoded in the type of the
// backend value.
//
// The layers, leaf first:
//   - hardware: discovered compute units (plain values)
//   - framework: discovery, device creation and binary caching contracts
//   - backend: the composed Backend[F, D, B] handle applications use
//   - blas: per-(backend, precision) capability implementations
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/hal/blas"
//	    "github.com/born-ml/hal/frameworks/native"
//	)
//
//	func main() {
//	    fw := native.New()
//	    b, err := native.NewBackend(native.NewConfig(fw, fw.Hardwares()))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    lib := blas.NewNativeFloat32(b)
//	    dot, _ := blas.Dot(lib, []float32{1, 2}, []float32{3, 4})
//	}
//
// # Errors
//
// Every failure is a *framework.Error naming the framework it came from.
// Native status codes survive all wrapping layers and can be recovered with
// errors.Is / errors.As:
//
//	_, err := opencl.NewBackend(opencl.NewConfig(fw, subset))
//	if errors.Is(err, opencl.DeviceNotFound) {
//	    // ...
//	}
//
// # Logging
//
// The module is silent by default. Call SetLogger to enable diagnostics.
package hal
