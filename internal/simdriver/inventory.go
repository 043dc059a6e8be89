// Package simdriver provides OpenCL and CUDA driver clients that simulate
// hardware described in a YAML inventory.
//
// The simulated drivers are used for dry runs of the CLI and for tests.
// Faults can be injected per native call by naming the status the call
// should fail with:
//
//	opencl:
//	  devices:
//	    - {id: gpu0, name: Simulated GPU, compute_units: 32}
//	  faults:
//	    create_context: {status: CL_DEVICE_NOT_FOUND}
package simdriver

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/hal/frameworks/cuda"
	"github.com/born-ml/hal/frameworks/opencl"
)

// Inventory is the simulated hardware of every accelerator framework.
type Inventory struct {
	OpenCL *Platform `yaml:"opencl,omitempty"`
	CUDA   *Platform `yaml:"cuda,omitempty"`
}

// Platform is the simulated hardware of one framework.
type Platform struct {
	Name    string   `yaml:"name,omitempty"`
	Devices []Device `yaml:"devices"`
	Faults  Faults   `yaml:"faults,omitempty"`
}

// Device is one simulated device.
type Device struct {
	ID                string   `yaml:"id"`
	Name              string   `yaml:"name"`
	Vendor            string   `yaml:"vendor,omitempty"`
	Type              string   `yaml:"type,omitempty"` // gpu, cpu or accelerator (OpenCL only)
	ComputeUnits      int      `yaml:"compute_units"`
	MemoryBytes       uint64   `yaml:"memory_bytes,omitempty"`
	Extensions        []string `yaml:"extensions,omitempty"`
	ComputeCapability string   `yaml:"compute_capability,omitempty"` // "major.minor" (CUDA only)
}

// Fault makes a native call fail.
type Fault struct {
	Status  string `yaml:"status"`            // Native status name, e.g. CL_OUT_OF_RESOURCES.
	Message string `yaml:"message,omitempty"` // Diagnostic; the status default if empty.
}

// Faults lists the calls that fail. A nil entry succeeds.
type Faults struct {
	Init          *Fault `yaml:"init,omitempty"`
	Enumerate     *Fault `yaml:"enumerate,omitempty"`
	CreateContext *Fault `yaml:"create_context,omitempty"`
	Build         *Fault `yaml:"build,omitempty"`
}

func (f Faults) all() map[string]*Fault {
	return map[string]*Fault{
		"init":           f.Init,
		"enumerate":      f.Enumerate,
		"create_context": f.CreateContext,
		"build":          f.Build,
	}
}

// DefaultInventory describes two OpenCL GPUs and two CUDA GPUs.
func DefaultInventory() *Inventory {
	return &Inventory{
		OpenCL: &Platform{
			Name: "Simulated OpenCL",
			Devices: []Device{
				{ID: "gpu0", Name: "Simulated GPU 0", Vendor: "Simulated", Type: "gpu", ComputeUnits: 32, MemoryBytes: 8 << 30},
				{ID: "gpu1", Name: "Simulated GPU 1", Vendor: "Simulated", Type: "gpu", ComputeUnits: 32, MemoryBytes: 8 << 30},
			},
		},
		CUDA: &Platform{
			Name: "Simulated CUDA",
			Devices: []Device{
				{ID: "gpu0", Name: "Simulated SM80", ComputeUnits: 108, MemoryBytes: 40 << 30, ComputeCapability: "8.0"},
				{ID: "gpu1", Name: "Simulated SM80", ComputeUnits: 108, MemoryBytes: 40 << 30, ComputeCapability: "8.0"},
			},
		},
	}
}

// Parse decodes and validates an inventory.
func Parse(data []byte) (*Inventory, error) {
	var inv Inventory
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, errors.Wrap(err, "decode inventory")
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Load reads an inventory file.
func Load(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read inventory")
	}
	inv, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "inventory %s", path)
	}
	return inv, nil
}

// Save writes inv to path.
func (inv *Inventory) Save(path string) error {
	data, err := yaml.Marshal(inv)
	if err != nil {
		return errors.Wrap(err, "encode inventory")
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks device IDs, device types and fault status names.
func (inv *Inventory) Validate() error {
	if inv.OpenCL != nil {
		if err := inv.OpenCL.validate("opencl", validOpenCLStatus); err != nil {
			return err
		}
		for _, d := range inv.OpenCL.Devices {
			if _, ok := deviceTypes[d.Type]; !ok {
				return errors.Errorf("opencl: device %q: unknown type %q", d.ID, d.Type)
			}
		}
	}
	if inv.CUDA != nil {
		if err := inv.CUDA.validate("cuda", validCUDAResult); err != nil {
			return err
		}
		for _, d := range inv.CUDA.Devices {
			if _, err := parseCapability(d.ComputeCapability); err != nil {
				return errors.Wrapf(err, "cuda: device %q", d.ID)
			}
		}
	}
	return nil
}

func (p *Platform) validate(framework string, validStatus func(string) bool) error {
	seen := make(map[string]bool, len(p.Devices))
	for _, d := range p.Devices {
		if d.ID == "" {
			return errors.Errorf("%s: device without id", framework)
		}
		if seen[d.ID] {
			return errors.Errorf("%s: duplicate device %q", framework, d.ID)
		}
		seen[d.ID] = true
	}
	for call, f := range p.Faults.all() {
		if f != nil && !validStatus(f.Status) {
			return errors.Errorf("%s: fault %s: unknown status %q", framework, call, f.Status)
		}
	}
	return nil
}

func validOpenCLStatus(name string) bool {
	_, ok := opencl.ParseStatus(name)
	return ok
}

func validCUDAResult(name string) bool {
	_, ok := cuda.ParseResult(name)
	return ok
}

var deviceTypes = map[string]opencl.DeviceType{
	"":            opencl.DeviceTypeGPU,
	"gpu":         opencl.DeviceTypeGPU,
	"cpu":         opencl.DeviceTypeCPU,
	"accelerator": opencl.DeviceTypeAccelerator,
}

func parseCapability(s string) ([2]int, error) {
	var cc [2]int
	if s == "" {
		return cc, nil
	}
	if _, err := fmt.Sscanf(s, "%d.%d", &cc[0], &cc[1]); err != nil {
		return cc, errors.Errorf("invalid compute capability %q", s)
	}
	return cc, nil
}
