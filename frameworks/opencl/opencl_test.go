// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package opencl

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/hal/framework"
	"github.com/born-ml/hal/hardware"
)

// fakeDriver is a Driver with two GPUs that counts native calls.
type fakeDriver struct {
	mu sync.Mutex

	initErr    error
	enumErr    error
	contextErr error
	buildErr   error

	enumerations int
	contexts     int
	builds       int
	released     []ContextHandle
}

func (d *fakeDriver) Init() error { return d.initErr }

func (d *fakeDriver) EnumerateDevices() ([]DeviceInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enumerations++
	if d.enumErr != nil {
		return nil, d.enumErr
	}
	return []DeviceInfo{
		{ID: "gpu0", Platform: "Fake", Name: "GPU 0", Vendor: "Acme", ComputeUnits: 32, GlobalMemBytes: 1 << 30},
		{ID: "gpu1", Platform: "Fake", Name: "GPU 1", Vendor: "Acme", ComputeUnits: 16, Extensions: []string{"cl_khr_fp64"}},
	}, nil
}

func (d *fakeDriver) CreateContext(ids []string) (ContextHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.contexts++
	if d.contextErr != nil {
		return 0, d.contextErr
	}
	return ContextHandle(d.contexts), nil
}

func (d *fakeDriver) BuildProgram(ctx ContextHandle, src ProgramSource) (ProgramHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.builds++
	if d.buildErr != nil {
		return 0, d.buildErr
	}
	return ProgramHandle(100 + d.builds), nil
}

func (d *fakeDriver) ReleaseContext(ctx ContextHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.released = append(d.released, ctx)
}

func (d *fakeDriver) releasedContexts() []ContextHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.released)
}

func (d *fakeDriver) calls() (enumerations, contexts, builds int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enumerations, d.contexts, d.builds
}

func newTestFramework(t *testing.T, drv *fakeDriver) *Framework {
	t.Helper()
	fw, err := New(drv)
	require.NoError(t, err)
	return fw
}

func selectIDs(t *testing.T, fw *Framework, ids ...string) []hardware.Hardware {
	t.Helper()
	subset, missing := hardware.Select(fw.Hardwares(), ids)
	require.Empty(t, missing)
	return subset
}

func TestNewDiscoversDevices(t *testing.T) {
	drv := &fakeDriver{}
	fw := newTestFramework(t, drv)

	hws := fw.Hardwares()
	assert.Equal(t, []string{"gpu0", "gpu1"}, hardware.IDs(hws))
	assert.Equal(t, ID, hws[0].Framework)
	assert.Equal(t, "Fake GPU 0", hws[0].Name)
	assert.Equal(t, hardware.Accelerator, hws[0].Kind)
	assert.True(t, hws[1].HasFeature("cl_khr_fp64"))
	assert.Nil(t, fw.Binary(), "no program before the first context")
}

func TestHardwaresIsCached(t *testing.T) {
	drv := &fakeDriver{}
	fw := newTestFramework(t, drv)

	for range 3 {
		assert.Equal(t, []string{"gpu0", "gpu1"}, hardware.IDs(fw.Hardwares()))
	}
	enumerations, _, _ := drv.calls()
	assert.Equal(t, 1, enumerations)
}

func TestNewInitFailure(t *testing.T) {
	drv := &fakeDriver{initErr: &StatusError{Status: InvalidPlatform, Message: "no ICD loader"}}

	_, err := New(drv)
	require.Error(t, err)
	assert.ErrorIs(t, err, framework.ErrDriver)
	assert.ErrorIs(t, err, InvalidPlatform)
	assert.Equal(t, "OpenCL error: no ICD loader", err.Error())

	assert.Panics(t, func() { MustNew(drv) })
}

func TestEnumerationFailureSurfacesThroughLoadHardwares(t *testing.T) {
	drv := &fakeDriver{enumErr: OutOfHostMemory}
	fw := newTestFramework(t, drv)

	assert.Empty(t, fw.Hardwares())

	_, err := fw.LoadHardwares()
	require.Error(t, err)
	assert.ErrorIs(t, err, framework.ErrDriver)
	assert.ErrorIs(t, err, OutOfHostMemory)
	assert.Equal(t, "OpenCL error: out of host memory", err.Error())
}

func TestLoadHardwaresDoesNotChangeCache(t *testing.T) {
	drv := &fakeDriver{}
	fw := newTestFramework(t, drv)

	hws, err := fw.LoadHardwares()
	require.NoError(t, err)
	hws[0].ID = "changed"

	assert.Equal(t, []string{"gpu0", "gpu1"}, hardware.IDs(fw.Hardwares()))
	enumerations, _, _ := drv.calls()
	assert.Equal(t, 2, enumerations)
}

func TestBackendEmptySubset(t *testing.T) {
	drv := &fakeDriver{}
	fw := newTestFramework(t, drv)

	_, err := NewBackend(NewConfig(fw, nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, framework.ErrConfiguration)
	assert.Equal(t, "OpenCL error: empty hardware subset", err.Error())

	_, contexts, builds := drv.calls()
	assert.Zero(t, contexts)
	assert.Zero(t, builds)
}

func TestBackendRejectsUndiscoveredHardware(t *testing.T) {
	drv := &fakeDriver{}
	fw := newTestFramework(t, drv)

	tests := []struct {
		name   string
		subset []hardware.Hardware
	}{
		{"unknown id", []hardware.Hardware{{Framework: ID, ID: "gpu9"}}},
		{"foreign framework", []hardware.Hardware{{Framework: "CUDA", ID: "gpu0"}}},
		{"duplicate", append(selectIDs(t, fw, "gpu0"), selectIDs(t, fw, "gpu0")...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBackend(NewConfig(fw, tt.subset))
			require.Error(t, err)
			assert.ErrorIs(t, err, framework.ErrConfiguration)
		})
	}

	_, contexts, _ := drv.calls()
	assert.Zero(t, contexts)
}

func TestBackendContextFailure(t *testing.T) {
	drv := &fakeDriver{contextErr: DeviceNotFound}
	fw := newTestFramework(t, drv)

	_, err := NewBackend(NewConfig(fw, selectIDs(t, fw, "gpu0")))
	require.Error(t, err)
	assert.Equal(t, "OpenCL error: device not found", err.Error())
	assert.ErrorIs(t, err, framework.ErrDriver)
	assert.ErrorIs(t, err, DeviceNotFound)
	assert.NotErrorIs(t, err, DeviceNotAvailable)

	var clErr *Error
	require.ErrorAs(t, err, &clErr)
	assert.Equal(t, DeviceNotFound, clErr.Status)

	_, _, builds := drv.calls()
	assert.Zero(t, builds)
}

func TestBackendDiagnosticMessageIsVerbatim(t *testing.T) {
	drv := &fakeDriver{contextErr: &StatusError{Status: OutOfResources, Message: "CL_OUT_OF_RESOURCES: queue limit reached"}}
	fw := newTestFramework(t, drv)

	_, err := NewBackend(NewConfig(fw, selectIDs(t, fw, "gpu1")))
	require.Error(t, err)
	assert.Equal(t, "OpenCL error: CL_OUT_OF_RESOURCES: queue limit reached", err.Error())
	assert.ErrorIs(t, err, OutOfResources)
}

func TestBackendUnclassifiedFailure(t *testing.T) {
	drv := &fakeDriver{contextErr: errors.New("driver crashed")}
	fw := newTestFramework(t, drv)

	_, err := NewBackend(NewConfig(fw, selectIDs(t, fw, "gpu0")))
	require.Error(t, err)
	assert.Equal(t, "OpenCL error: driver crashed", err.Error())
	assert.ErrorIs(t, err, Other)
}

func TestBackendCompilationFailureIsNotCached(t *testing.T) {
	drv := &fakeDriver{buildErr: &StatusError{Status: BuildProgramFailure, Message: "blas.cl:12: error: use of undeclared identifier"}}
	fw := newTestFramework(t, drv)
	subset := selectIDs(t, fw, "gpu0")

	_, err := NewBackend(NewConfig(fw, subset))
	require.Error(t, err)
	assert.ErrorIs(t, err, framework.ErrCompilation)
	assert.ErrorIs(t, err, BuildProgramFailure)
	assert.Equal(t, "OpenCL error: blas.cl:12: error: use of undeclared identifier", err.Error())
	assert.Equal(t, []ContextHandle{1}, drv.releasedContexts())
	assert.Zero(t, fw.Programs())

	drv.buildErr = nil
	b, err := NewBackend(NewConfig(fw, subset))
	require.NoError(t, err)
	require.NotNil(t, b.Binary())

	_, _, builds := drv.calls()
	assert.Equal(t, 2, builds)
}

func TestBackendsOnDisjointSubsets(t *testing.T) {
	drv := &fakeDriver{}
	fw := newTestFramework(t, drv)

	b0, err := NewBackend(NewConfig(fw, selectIDs(t, fw, "gpu0")))
	require.NoError(t, err)
	b1, err := NewBackend(NewConfig(fw, selectIDs(t, fw, "gpu1")))
	require.NoError(t, err)

	assert.Equal(t, []string{"gpu0"}, hardware.IDs(b0.Device().Hardwares()))
	assert.Equal(t, []string{"gpu1"}, hardware.IDs(b1.Device().Hardwares()))
	assert.Equal(t, []string{"gpu0", "gpu1"}, hardware.IDs(fw.Hardwares()))
	assert.Equal(t, []string{"gpu0", "gpu1"}, hardware.IDs(b0.Hardwares()))

	assert.NotSame(t, b0.Binary(), b1.Binary(), "each pairing gets its own program")
	assert.Same(t, b1.Binary(), fw.Binary(), "latest program is active")
	assert.Equal(t, 2, fw.Programs())

	enumerations, contexts, builds := drv.calls()
	assert.Equal(t, 1, enumerations)
	assert.Equal(t, 2, contexts)
	assert.Equal(t, 2, builds)
}

func TestAccessorsAreStable(t *testing.T) {
	drv := &fakeDriver{}
	fw := newTestFramework(t, drv)
	b, err := NewBackend(NewConfig(fw, selectIDs(t, fw, "gpu0", "gpu1")))
	require.NoError(t, err)

	_, contexts, builds := drv.calls()
	assert.Same(t, b.Device(), b.Device())
	assert.Same(t, b.Binary(), b.Binary())
	assert.Same(t, fw, b.Framework())
	assert.Equal(t, "OPENCL/gpu0,OPENCL/gpu1", b.Device().Key())
	assert.Equal(t, DefaultProgram().Kernels, b.Binary().Kernels())
	assert.True(t, b.Binary().HasKernel("sgemm"))

	_, c2, b2 := drv.calls()
	assert.Equal(t, contexts, c2)
	assert.Equal(t, builds, b2)
}

func TestProgramBuiltOncePerPairing(t *testing.T) {
	drv := &fakeDriver{}
	fw := newTestFramework(t, drv)
	subset := selectIDs(t, fw, "gpu0", "gpu1")

	var wg sync.WaitGroup
	backends := make([]*Backend, 8)
	errs := make([]error, len(backends))
	for i := range backends {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			backends[i], errs[i] = NewBackend(NewConfig(fw, subset))
		}(i)
	}
	wg.Wait()

	for i, b := range backends {
		require.NoError(t, errs[i])
		assert.Same(t, backends[0].Binary(), b.Binary())
	}
	_, contexts, builds := drv.calls()
	assert.Equal(t, len(backends), contexts)
	assert.Equal(t, 1, builds)
}

func TestWithProgram(t *testing.T) {
	src := ProgramSource{Name: "custom", Source: "__kernel void k() {}", Kernels: []string{"k"}}
	fw, err := New(&fakeDriver{}, WithProgram(src))
	require.NoError(t, err)

	b, err := NewBackend(NewConfig(fw, fw.Hardwares()[:1]))
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, b.Binary().Kernels())
}

func TestDefaultProgramDefinesKernels(t *testing.T) {
	src := DefaultProgram()
	require.NotEmpty(t, src.Source)
	for _, k := range src.Kernels {
		assert.Contains(t, src.Source, fmt.Sprintf("__kernel void %s(", k))
	}
	assert.True(t, strings.HasPrefix(src.Options, "-cl-std="))
}

func TestProgramKeepsBuildContext(t *testing.T) {
	drv := &fakeDriver{}
	fw := newTestFramework(t, drv)
	hws := selectIDs(t, fw, "gpu0")

	newContext := func() ContextHandle {
		b, err := NewBackend(NewConfig(fw, hws))
		require.NoError(t, err)
		return b.Device().Handle()
	}
	first := newContext()
	second := newContext()

	require.Eventually(t, func() bool {
		runtime.GC()
		return slices.Contains(drv.releasedContexts(), second)
	}, 5*time.Second, 10*time.Millisecond, "dropped context is released")
	assert.NotContains(t, drv.releasedContexts(), first, "build context is owned by the program")

	b, err := NewBackend(NewConfig(fw, hws))
	require.NoError(t, err)
	assert.Equal(t, first, b.Binary().Context())
	assert.NotEqual(t, first, b.Device().Handle())
	assert.NotContains(t, drv.releasedContexts(), b.Binary().Context())

	_, _, builds := drv.calls()
	assert.Equal(t, 1, builds)
}
