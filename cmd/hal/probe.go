package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/born-ml/hal/backend"
	"github.com/born-ml/hal/blas"
	"github.com/born-ml/hal/framework"
	"github.com/born-ml/hal/frameworks/cuda"
	"github.com/born-ml/hal/frameworks/native"
	"github.com/born-ml/hal/frameworks/opencl"
	"github.com/born-ml/hal/frameworks/webgpu"
	"github.com/born-ml/hal/hardware"
	"github.com/born-ml/hal/internal/config"
	"github.com/born-ml/hal/internal/simdriver"
)

// report is the outcome of probing one framework.
type report struct {
	framework string
	hardwares []hardware.Hardware
	device    []string
	kernels   []string
	blas      []string // Precisions with a blas implementation.
	check     string
	err       error
}

// precisions lists the blas implementations of each framework.
var precisions = map[string][]string{
	config.FrameworkNative: {blas.Precision[float32]{}.Name(), blas.Precision[float64]{}.Name()},
	config.FrameworkOpenCL: {blas.Precision[float32]{}.Name()},
}

// discover returns the hardware of the named framework.
func (s *session) discover(name string) ([]hardware.Hardware, error) {
	switch name {
	case config.FrameworkNative:
		return s.newNative().LoadHardwares()
	case config.FrameworkOpenCL:
		fw, err := opencl.New(simdriver.NewOpenCL(s.inventory.OpenCL))
		if err != nil {
			return nil, err
		}
		return fw.LoadHardwares()
	case config.FrameworkCUDA:
		fw, err := cuda.New(simdriver.NewCUDA(s.inventory.CUDA))
		if err != nil {
			return nil, err
		}
		return fw.LoadHardwares()
	case config.FrameworkWebGPU:
		fw, err := webgpu.New()
		if err != nil {
			return nil, err
		}
		return fw.LoadHardwares()
	}
	return nil, errors.Errorf("unknown framework %q", name)
}

func (s *session) newNative() *native.Framework {
	return native.New(native.WithMinChunkSize(s.cfg.Parallel.MinChunkSize))
}

// probe builds a backend on the named framework.
func (s *session) probe(name string) report {
	r := report{framework: name, blas: precisions[name]}

	switch name {
	case config.FrameworkNative:
		b, err := probeBackend[*native.Framework, *native.Device, *native.Binary](s.newNative(), s.cfg.Hardwares, &r)
		if err != nil {
			r.err = err
			return r
		}
		dot, err := blas.Dot(blas.NewNativeFloat64(b), []float64{1, 2, 3}, []float64{4, 5, 6})
		if err != nil {
			r.err = err
			return r
		}
		r.check = fmt.Sprintf("ddot([1 2 3], [4 5 6]) = %g", dot)
	case config.FrameworkOpenCL:
		fw, err := opencl.New(simdriver.NewOpenCL(s.inventory.OpenCL))
		if err == nil {
			_, err = probeBackend[*opencl.Framework, *opencl.Context, *opencl.Program](fw, s.cfg.Hardwares, &r)
		}
		r.err = err
	case config.FrameworkCUDA:
		fw, err := cuda.New(simdriver.NewCUDA(s.inventory.CUDA))
		if err == nil {
			_, err = probeBackend[*cuda.Framework, *cuda.Context, *cuda.Module](fw, s.cfg.Hardwares, &r)
		}
		r.err = err
	case config.FrameworkWebGPU:
		fw, err := webgpu.New()
		if err == nil {
			_, err = probeBackend[*webgpu.Framework, *webgpu.Device, *webgpu.Shader](fw, s.cfg.Hardwares, &r)
		}
		r.err = err
	default:
		r.err = errors.Errorf("unknown framework %q", name)
	}
	return r
}

// probeBackend binds ids (all discovered hardware if empty) and fills r.
// Unknown ids are passed through so the framework reports them.
func probeBackend[F framework.Framework[D, B], D framework.Device, B framework.Binary](fw F, ids []string, r *report) (*backend.Backend[F, D, B], error) {
	r.hardwares = fw.Hardwares()

	subset := r.hardwares
	if len(ids) > 0 {
		var missing []string
		subset, missing = hardware.Select(r.hardwares, ids)
		for _, id := range missing {
			subset = append(subset, hardware.Hardware{Framework: fw.ID(), ID: id})
		}
	}

	b, err := backend.New(backend.NewConfig[F, D, B](fw, subset))
	if err != nil {
		return nil, err
	}
	r.device = hardware.IDs(b.Device().Hardwares())
	r.kernels = b.Binary().Kernels()
	return b, nil
}

func (s *session) probeAll(w io.Writer) error {
	reports := make([]report, len(s.frameworks))

	var g errgroup.Group
	for i, name := range s.frameworks {
		g.Go(func() error {
			reports[i] = s.probe(name)
			return reports[i].err
		})
	}
	err := g.Wait()

	failed := 0
	for _, r := range reports {
		if r.err != nil {
			failed++
			fmt.Fprintf(w, "%s: FAILED: %v\n", r.framework, r.err)
			continue
		}
		fmt.Fprintf(w, "%s: ok\n", r.framework)
		fmt.Fprintf(w, "  device:  %s\n", strings.Join(r.device, ", "))
		fmt.Fprintf(w, "  binary:  %s\n", strings.Join(r.kernels, " "))
		if len(r.blas) > 0 {
			fmt.Fprintf(w, "  blas:    %s\n", strings.Join(r.blas, ", "))
		} else {
			fmt.Fprintf(w, "  blas:    none\n")
		}
		if r.check != "" {
			fmt.Fprintf(w, "  check:   %s\n", r.check)
		}
	}

	// A partial probe succeeds; the failures are in the report.
	if failed < len(reports) {
		return nil
	}
	return err
}

func (s *session) listHardwares(w io.Writer) error {
	type listing struct {
		hws []hardware.Hardware
		err error
	}
	listings := make([]listing, len(s.frameworks))

	var g errgroup.Group
	for i, name := range s.frameworks {
		g.Go(func() error {
			hws, err := s.discover(name)
			listings[i] = listing{hws: hws, err: err}
			return err
		})
	}
	err := g.Wait()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FRAMEWORK\tID\tNAME\tVENDOR\tKIND\tUNITS\tMEMORY")
	for i, l := range listings {
		if l.err != nil {
			fmt.Fprintf(tw, "%s\t-\t%v\t\t\t\t\n", s.frameworks[i], l.err)
			continue
		}
		for _, h := range l.hws {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
				s.frameworks[i], h.ID, h.Name, h.Vendor, h.Kind, h.ComputeUnits, formatBytes(h.MemoryBytes))
		}
	}
	if ferr := tw.Flush(); ferr != nil {
		return ferr
	}
	if len(s.frameworks) > 1 {
		return nil
	}
	return err
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n == 0 {
		return "-"
	}
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
