// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package native

import (
	"github.com/born-ml/hal/hardware"
	"github.com/born-ml/hal/internal/parallel"
)

// Device is a goroutine pool bound to host hardware.
//
// Kernels split their input into chunks of at least the framework's minimum
// chunk size and run one goroutine per chunk, up to Workers at a time.
type Device struct {
	hardwares []hardware.Hardware
	pool      parallel.Config
}

func newDevice(hardwares []hardware.Hardware, minChunkSize int) *Device {
	workers := 0
	for _, h := range hardwares {
		workers += h.ComputeUnits
	}
	pool := parallel.WithWorkers(workers)
	pool.MinChunkSize = minChunkSize
	return &Device{hardwares: hardwares, pool: pool}
}

// Hardwares returns the units the device is bound to.
func (d *Device) Hardwares() []hardware.Hardware {
	return hardware.CloneAll(d.hardwares)
}

// Workers returns the number of goroutines kernels may use.
func (d *Device) Workers() int {
	return d.pool.NumWorkers
}
