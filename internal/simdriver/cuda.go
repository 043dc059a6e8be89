package simdriver

import (
	"slices"

	"github.com/born-ml/hal/frameworks/cuda"
)

// CUDADriver is a simulated cuda.Driver.
type CUDADriver struct {
	counter
	platform Platform
}

var (
	_ cuda.Driver           = (*CUDADriver)(nil)
	_ cuda.ContextDestroyer = (*CUDADriver)(nil)
)

// NewCUDA returns a driver simulating p. A nil p has no devices.
func NewCUDA(p *Platform) *CUDADriver {
	d := &CUDADriver{}
	if p != nil {
		d.platform = *p
	}
	return d
}

func (d *CUDADriver) fail(f *Fault) error {
	if f == nil {
		return nil
	}
	r, ok := cuda.ParseResult(f.Status)
	if !ok {
		r = cuda.ErrorUnknown
	}
	return &cuda.ResultError{Result: r, Message: f.Message}
}

func (d *CUDADriver) Init() error {
	d.count(&d.calls.Init)
	return d.fail(d.platform.Faults.Init)
}

func (d *CUDADriver) EnumerateDevices() ([]cuda.DeviceAttributes, error) {
	d.count(&d.calls.Enumerate)
	if err := d.fail(d.platform.Faults.Enumerate); err != nil {
		return nil, err
	}

	attrs := make([]cuda.DeviceAttributes, 0, len(d.platform.Devices))
	for i, dev := range d.platform.Devices {
		cc, _ := parseCapability(dev.ComputeCapability)
		attrs = append(attrs, cuda.DeviceAttributes{
			ID:                  dev.ID,
			Ordinal:             i,
			Name:                dev.Name,
			ComputeCapability:   cc,
			MultiprocessorCount: dev.ComputeUnits,
			TotalMemBytes:       dev.MemoryBytes,
		})
	}
	return attrs, nil
}

func (d *CUDADriver) CreateContext(ids []string) (cuda.ContextHandle, error) {
	d.count(&d.calls.CreateContext)
	if err := d.fail(d.platform.Faults.CreateContext); err != nil {
		return 0, err
	}
	for _, id := range ids {
		if !slices.ContainsFunc(d.platform.Devices, func(dev Device) bool { return dev.ID == id }) {
			return 0, cuda.ErrorInvalidDevice
		}
	}
	return cuda.ContextHandle(d.open(ids)), nil
}

func (d *CUDADriver) LoadModule(ctx cuda.ContextHandle, src cuda.ModuleSource) (cuda.ModuleHandle, error) {
	d.count(&d.calls.Build)
	if _, ok := d.contextDevices(uintptr(ctx)); !ok {
		return 0, cuda.ErrorInvalidContext
	}
	if err := d.fail(d.platform.Faults.Build); err != nil {
		return 0, err
	}
	if src.Source == "" {
		return 0, &cuda.ResultError{Result: cuda.ErrorInvalidSource, Message: "module " + src.Name + " has no source"}
	}
	return cuda.ModuleHandle(ctx), nil
}

func (d *CUDADriver) DestroyContext(ctx cuda.ContextHandle) {
	d.close(uintptr(ctx))
}
