// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package native

import (
	"slices"

	"github.com/born-ml/hal/framework"
)

// Kernel names provided for every precision. The binary exposes them with
// the BLAS precision prefix: "s" for float32, "d" for float64.
var kernelNames = []string{"asum", "axpy", "copy", "dot", "gemm", "nrm2", "scal"}

// Binary is the host kernel table. It is immutable and shared by all
// devices of a framework.
type Binary struct {
	kernels []string
	f32     *Routines[float32]
	f64     *Routines[float64]
}

func newBinary() *Binary {
	kernels := make([]string, 0, 2*len(kernelNames))
	for _, prefix := range []string{"s", "d"} {
		for _, name := range kernelNames {
			kernels = append(kernels, prefix+name)
		}
	}
	return &Binary{
		kernels: kernels,
		f32:     newRoutines[float32](),
		f64:     newRoutines[float64](),
	}
}

// Kernels returns the kernel names, e.g. "sdot" and "ddot".
func (b *Binary) Kernels() []string {
	return slices.Clone(b.kernels)
}

// HasKernel reports whether the binary provides the named kernel.
func (b *Binary) HasKernel(name string) bool {
	return slices.Contains(b.kernels, name)
}

// RoutinesFor returns the kernels of b for precision T.
func RoutinesFor[T framework.Float](b *Binary) *Routines[T] {
	var zero T
	switch any(zero).(type) {
	case float32:
		return any(b.f32).(*Routines[T])
	case float64:
		return any(b.f64).(*Routines[T])
	}
	return nil
}
