//go:build !webgpu

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package webgpu

import "github.com/born-ml/hal/hardware"

// Without the webgpu build tag there is no native runtime and openRuntime
// always fails. The remaining methods are unreachable.

type gpuRuntime struct{}

type gpuDevice struct{}

type shaderModule struct{}

func openRuntime() (*gpuRuntime, error) {
	return nil, newError(StatusLibraryNotFound, nil)
}

func (*gpuRuntime) adapterInfo() (hardware.Hardware, error) {
	return hardware.Hardware{}, newError(StatusAdapterUnavailable, nil)
}

func (*gpuRuntime) release() {}

func (*gpuRuntime) requestDevice() (*gpuDevice, error) {
	return nil, newError(StatusDeviceRequestFailed, nil)
}

func (*gpuDevice) compile(string) (*shaderModule, error) {
	return nil, newError(StatusShaderInvalid, nil)
}

func (*gpuDevice) release() {}
