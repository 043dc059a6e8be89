//go:build webgpu

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package webgpu

import (
	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/born-ml/hal/hardware"
)

type gpuRuntime struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
}

// openRuntime loads wgpu-native and requests an adapter, releasing what
// was acquired on failure.
func openRuntime() (*gpuRuntime, error) {
	if err := wgpu.Init(); err != nil {
		return nil, newError(StatusLibraryNotFound, err)
	}

	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return nil, newError(StatusInstanceFailed, err)
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, newError(StatusAdapterUnavailable, err)
	}
	return &gpuRuntime{instance: instance, adapter: adapter}, nil
}

func (r *gpuRuntime) adapterInfo() (hardware.Hardware, error) {
	info, err := r.adapter.GetInfo()
	if err != nil {
		return hardware.Hardware{}, newError(StatusAdapterUnavailable, err)
	}

	kind := hardware.Accelerator
	if info.AdapterType == wgpu.AdapterTypeCPU {
		kind = hardware.Host
	}
	return hardware.Hardware{
		Framework: ID,
		ID:        "gpu0",
		Name:      info.Device,
		Vendor:    info.Vendor,
		Kind:      kind,
		Features:  []string{backendTypeName(info.BackendType), adapterTypeName(info.AdapterType)},
	}, nil
}

func (r *gpuRuntime) release() {
	r.adapter.Release()
	r.instance.Release()
}

func (r *gpuRuntime) requestDevice() (*gpuDevice, error) {
	device, err := r.adapter.RequestDevice(nil)
	if err != nil {
		return nil, newError(StatusDeviceRequestFailed, err)
	}
	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		return nil, newError(StatusQueueUnavailable, nil)
	}
	return &gpuDevice{device: device, queue: queue}, nil
}

type gpuDevice struct {
	device *wgpu.Device
	queue  *wgpu.Queue
}

func (d *gpuDevice) compile(code string) (*shaderModule, error) {
	module := d.device.CreateShaderModuleWGSL(code)
	if module == nil {
		return nil, newError(StatusShaderInvalid, nil)
	}
	return &shaderModule{module: module}, nil
}

func (d *gpuDevice) release() {
	d.queue.Release()
	d.device.Release()
}

type shaderModule struct {
	module *wgpu.ShaderModule
}

// WGPU returns the native device.
func (d *Device) WGPU() *wgpu.Device { return d.gpu.device }

// Queue returns the device's command queue.
func (d *Device) Queue() *wgpu.Queue { return d.gpu.queue }

// Module returns the native shader module.
func (s *Shader) Module() *wgpu.ShaderModule { return s.module.module }

func backendTypeName(bt wgpu.BackendType) string {
	switch bt {
	case wgpu.BackendTypeD3D12:
		return "d3d12"
	case wgpu.BackendTypeMetal:
		return "metal"
	case wgpu.BackendTypeVulkan:
		return "vulkan"
	case wgpu.BackendTypeOpenGL:
		return "opengl"
	case wgpu.BackendTypeOpenGLES:
		return "opengles"
	default:
		return "unknown-backend"
	}
}

func adapterTypeName(at wgpu.AdapterType) string {
	switch at {
	case wgpu.AdapterTypeDiscreteGPU:
		return "discrete"
	case wgpu.AdapterTypeIntegratedGPU:
		return "integrated"
	case wgpu.AdapterTypeCPU:
		return "cpu"
	default:
		return "unknown-adapter"
	}
}
