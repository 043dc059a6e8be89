package simdriver

import (
	"slices"
	"sync"

	"github.com/born-ml/hal/frameworks/opencl"
)

// Calls counts the native calls a simulated driver received.
type Calls struct {
	Init          int
	Enumerate     int
	CreateContext int
	Build         int
	Release       int
}

// counter is embedded by both drivers.
type counter struct {
	mu     sync.Mutex
	calls  Calls
	next   uintptr
	active map[uintptr][]string
}

// Calls returns a snapshot of the call counts.
func (c *counter) Calls() Calls {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// ActiveContexts returns the number of contexts not yet released.
func (c *counter) ActiveContexts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active)
}

// Live reports whether the native context h exists and has not been released.
func (c *counter) Live(h uintptr) bool {
	_, ok := c.contextDevices(h)
	return ok
}

func (c *counter) count(field *int) {
	c.mu.Lock()
	*field++
	c.mu.Unlock()
}

func (c *counter) open(ids []string) uintptr {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		c.active = make(map[uintptr][]string)
	}
	c.next++
	c.active[c.next] = slices.Clone(ids)
	return c.next
}

func (c *counter) contextDevices(h uintptr) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids, ok := c.active[h]
	return ids, ok
}

func (c *counter) close(h uintptr) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls.Release++
	delete(c.active, h)
}

// OpenCLDriver is a simulated opencl.Driver.
type OpenCLDriver struct {
	counter
	platform Platform
}

var (
	_ opencl.Driver          = (*OpenCLDriver)(nil)
	_ opencl.ContextReleaser = (*OpenCLDriver)(nil)
)

// NewOpenCL returns a driver simulating p. A nil p has no devices.
func NewOpenCL(p *Platform) *OpenCLDriver {
	d := &OpenCLDriver{}
	if p != nil {
		d.platform = *p
	}
	return d
}

func (d *OpenCLDriver) fail(f *Fault) error {
	if f == nil {
		return nil
	}
	s, ok := opencl.ParseStatus(f.Status)
	if !ok {
		s = opencl.Other
	}
	return &opencl.StatusError{Status: s, Message: f.Message}
}

func (d *OpenCLDriver) Init() error {
	d.count(&d.calls.Init)
	return d.fail(d.platform.Faults.Init)
}

func (d *OpenCLDriver) EnumerateDevices() ([]opencl.DeviceInfo, error) {
	d.count(&d.calls.Enumerate)
	if err := d.fail(d.platform.Faults.Enumerate); err != nil {
		return nil, err
	}

	infos := make([]opencl.DeviceInfo, 0, len(d.platform.Devices))
	for _, dev := range d.platform.Devices {
		infos = append(infos, opencl.DeviceInfo{
			ID:             dev.ID,
			Platform:       d.platform.Name,
			Name:           dev.Name,
			Vendor:         dev.Vendor,
			Type:           deviceTypes[dev.Type],
			ComputeUnits:   dev.ComputeUnits,
			GlobalMemBytes: dev.MemoryBytes,
			Extensions:     slices.Clone(dev.Extensions),
		})
	}
	return infos, nil
}

func (d *OpenCLDriver) CreateContext(ids []string) (opencl.ContextHandle, error) {
	d.count(&d.calls.CreateContext)
	if err := d.fail(d.platform.Faults.CreateContext); err != nil {
		return 0, err
	}
	for _, id := range ids {
		if !slices.ContainsFunc(d.platform.Devices, func(dev Device) bool { return dev.ID == id }) {
			return 0, &opencl.StatusError{Status: opencl.InvalidDevice, Message: "invalid device " + id}
		}
	}
	return opencl.ContextHandle(d.open(ids)), nil
}

func (d *OpenCLDriver) BuildProgram(ctx opencl.ContextHandle, src opencl.ProgramSource) (opencl.ProgramHandle, error) {
	d.count(&d.calls.Build)
	if _, ok := d.contextDevices(uintptr(ctx)); !ok {
		return 0, opencl.InvalidContext
	}
	if err := d.fail(d.platform.Faults.Build); err != nil {
		return 0, err
	}
	if src.Source == "" {
		return 0, &opencl.StatusError{Status: opencl.InvalidProgram, Message: "program " + src.Name + " has no source"}
	}
	return opencl.ProgramHandle(ctx), nil
}

func (d *OpenCLDriver) ReleaseContext(ctx opencl.ContextHandle) {
	d.close(uintptr(ctx))
}
