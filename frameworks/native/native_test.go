// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package native

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/hal/framework"
	"github.com/born-ml/hal/hardware"
)

func countingDetector(calls *int, err error) Option {
	return withDetector(func() ([]hardware.Hardware, error) {
		*calls++
		if err != nil {
			return nil, err
		}
		return []hardware.Hardware{
			{Framework: ID, ID: "cpu0", Kind: hardware.Host, ComputeUnits: 4},
		}, nil
	})
}

func TestNewDetectsHost(t *testing.T) {
	fw := New()

	hws := fw.Hardwares()
	require.Len(t, hws, 1)
	assert.Equal(t, "cpu0", hws[0].ID)
	assert.Equal(t, ID, hws[0].Framework)
	assert.Equal(t, hardware.Host, hws[0].Kind)
	assert.Equal(t, runtime.NumCPU(), hws[0].ComputeUnits)
	assert.Equal(t, "NATIVE", fw.ID())
	assert.Equal(t, "Native", fw.Name())
}

func TestHardwaresIsCached(t *testing.T) {
	calls := 0
	fw := New(countingDetector(&calls, nil))
	require.Equal(t, 1, calls)

	first := fw.Hardwares()
	second := fw.Hardwares()
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "Hardwares must not re-detect")

	first[0].ID = "mutated"
	assert.Equal(t, "cpu0", fw.Hardwares()[0].ID, "cache must not be shared with callers")
}

func TestLoadHardwares(t *testing.T) {
	calls := 0
	fw := New(countingDetector(&calls, nil))

	hws, err := fw.LoadHardwares()
	require.NoError(t, err)
	assert.Equal(t, fw.Hardwares(), hws)
	assert.Equal(t, 2, calls)
}

func TestLoadHardwaresFailure(t *testing.T) {
	calls := 0
	fw := New(countingDetector(&calls, errors.New("sysinfo unavailable")))

	assert.Empty(t, fw.Hardwares())

	_, err := fw.LoadHardwares()
	require.Error(t, err)
	assert.ErrorIs(t, err, framework.ErrDriver)
	assert.Equal(t, "Native error: sysinfo unavailable", err.Error())
}

func TestBackendOnCPU0(t *testing.T) {
	fw := New()
	subset, missing := hardware.Select(fw.Hardwares(), []string{"cpu0"})
	require.Empty(t, missing)

	b, err := NewBackend(NewConfig(fw, subset))
	require.NoError(t, err)

	assert.Equal(t, []string{"cpu0"}, hardware.IDs(b.Device().Hardwares()))
	assert.Equal(t, runtime.NumCPU(), b.Device().Workers())
	assert.Same(t, fw.Binary(), b.Binary())
	assert.Same(t, b.Binary(), b.Binary())
	assert.Same(t, b.Device(), b.Device())
}

func TestBackendRejectsInvalidSubsets(t *testing.T) {
	fw := New()

	tests := map[string][]hardware.Hardware{
		"empty":   nil,
		"unknown": {{Framework: ID, ID: "cpu7"}},
		"foreign": {{Framework: "OPENCL", ID: "cpu0"}},
	}
	for name, subset := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewBackend(NewConfig(fw, subset))
			require.Error(t, err)
			assert.ErrorIs(t, err, framework.ErrConfiguration)
		})
	}
}

func TestDeviceWorkersFollowSubset(t *testing.T) {
	calls := 0
	fw := New(countingDetector(&calls, nil), WithMinChunkSize(16))

	d, err := fw.NewDevice(fw.Hardwares())
	require.NoError(t, err)
	assert.Equal(t, 4, d.Workers())
	assert.Equal(t, 16, d.pool.MinChunkSize)
	assert.True(t, d.pool.Enabled)
}

func TestBinaryKernels(t *testing.T) {
	b := New().Binary()

	assert.Len(t, b.Kernels(), 14)
	for _, name := range []string{"sdot", "ddot", "sgemm", "dgemm", "saxpy", "dnrm2"} {
		assert.True(t, b.HasKernel(name), name)
	}
	assert.False(t, b.HasKernel("hdot"))

	require.NotNil(t, RoutinesFor[float32](b))
	require.NotNil(t, RoutinesFor[float64](b))
}
