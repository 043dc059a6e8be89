// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package backend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/hal/framework"
	"github.com/born-ml/hal/hardware"
)

type fakeDevice struct {
	hardwares []hardware.Hardware
}

func (d *fakeDevice) Hardwares() []hardware.Hardware { return d.hardwares }

type fakeBinary struct{ key string }

func (b *fakeBinary) Kernels() []string { return []string{"saxpy"} }

// fakeFramework counts every call that would reach a native driver.
type fakeFramework struct {
	hardwares   []hardware.Hardware
	createErr   error
	deviceCalls int
	binaries    map[string]*fakeBinary
	active      *fakeBinary
}

var _ framework.Framework[*fakeDevice, *fakeBinary] = (*fakeFramework)(nil)

func newFakeFramework() *fakeFramework {
	return &fakeFramework{
		hardwares: []hardware.Hardware{
			{Framework: "FAKE", ID: "gpu0", Kind: hardware.Accelerator},
			{Framework: "FAKE", ID: "gpu1", Kind: hardware.Accelerator},
		},
		binaries: make(map[string]*fakeBinary),
	}
}

func (f *fakeFramework) ID() string   { return "FAKE" }
func (f *fakeFramework) Name() string { return "Fake" }

func (f *fakeFramework) LoadHardwares() ([]hardware.Hardware, error) {
	return hardware.CloneAll(f.hardwares), nil
}

func (f *fakeFramework) Hardwares() []hardware.Hardware { return hardware.CloneAll(f.hardwares) }
func (f *fakeFramework) Binary() *fakeBinary            { return f.active }

func (f *fakeFramework) BinaryFor(d *fakeDevice) *fakeBinary {
	return f.binaries[hardware.Key(d.hardwares)]
}

func (f *fakeFramework) NewDevice(subset []hardware.Hardware) (*fakeDevice, error) {
	if err := framework.ValidateSubset(f.ID(), f.Name(), f.hardwares, subset); err != nil {
		return nil, err
	}
	f.deviceCalls++
	if f.createErr != nil {
		return nil, framework.NewDriverError(f.Name(), f.createErr)
	}
	key := hardware.Key(subset)
	bin, ok := f.binaries[key]
	if !ok {
		bin = &fakeBinary{key: key}
		f.binaries[key] = bin
	}
	f.active = bin
	return &fakeDevice{hardwares: hardware.CloneAll(subset)}, nil
}

type fakeBackend = Backend[*fakeFramework, *fakeDevice, *fakeBinary]

func newConfig(fw *fakeFramework, hws []hardware.Hardware) Config[*fakeFramework, *fakeDevice, *fakeBinary] {
	return NewConfig[*fakeFramework, *fakeDevice, *fakeBinary](fw, hws)
}

func TestNewBindsDeviceToSubset(t *testing.T) {
	fw := newFakeFramework()

	b, err := New(newConfig(fw, fw.Hardwares()[:1]))
	require.NoError(t, err)

	assert.Equal(t, []string{"gpu0"}, hardware.IDs(b.Device().Hardwares()))
	assert.Same(t, fw, b.Framework())
	assert.Equal(t, fw.Hardwares(), b.Hardwares())
	require.NotNil(t, b.Binary())
	assert.Equal(t, "FAKE/gpu0", b.Binary().key)
}

func TestNewEmptySubsetIsConfigurationError(t *testing.T) {
	fw := newFakeFramework()

	b, err := New(newConfig(fw, nil))
	require.Error(t, err)
	assert.Nil(t, b)
	assert.ErrorIs(t, err, framework.ErrConfiguration)
	assert.Zero(t, fw.deviceCalls, "no native call for an invalid subset")
}

func TestNewPropagatesFrameworkErrorUnchanged(t *testing.T) {
	fw := newFakeFramework()
	fw.createErr = errors.New("device not found")

	_, err := New(newConfig(fw, fw.Hardwares()))
	require.Error(t, err)

	var halErr *framework.Error
	require.ErrorAs(t, err, &halErr)
	assert.Same(t, fw.createErr, halErr.Err)
	assert.Equal(t, "Fake error: device not found", err.Error())
	assert.Equal(t, 1, fw.deviceCalls)
}

func TestAccessorsAreStable(t *testing.T) {
	fw := newFakeFramework()
	b, err := New(newConfig(fw, fw.Hardwares()))
	require.NoError(t, err)
	calls := fw.deviceCalls

	assert.Same(t, b.Device(), b.Device())
	assert.Same(t, b.Binary(), b.Binary())
	assert.Equal(t, b.Hardwares(), b.Hardwares())
	assert.Equal(t, calls, fw.deviceCalls)
}

func TestConfigCopiesSubset(t *testing.T) {
	fw := newFakeFramework()
	hws := fw.Hardwares()
	cfg := newConfig(fw, hws)

	hws[0].ID = "mutated"

	assert.Equal(t, []string{"gpu0", "gpu1"}, hardware.IDs(cfg.Hardwares()))
	assert.Same(t, fw, cfg.Framework())
}

func TestDisjointBackendsFromOneFramework(t *testing.T) {
	fw := newFakeFramework()
	hws := fw.Hardwares()

	var backends []*fakeBackend
	for _, h := range hws {
		b, err := New(newConfig(fw, []hardware.Hardware{h}))
		require.NoError(t, err)
		backends = append(backends, b)
	}

	assert.Equal(t, []string{"gpu0"}, hardware.IDs(backends[0].Device().Hardwares()))
	assert.Equal(t, []string{"gpu1"}, hardware.IDs(backends[1].Device().Hardwares()))
	assert.NotSame(t, backends[0].Binary(), backends[1].Binary())
	assert.Equal(t, hws, fw.Hardwares())
}
