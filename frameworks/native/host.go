// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package native

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/born-ml/hal/hardware"
)

// detectHost describes the host processor as a single hardware unit.
func detectHost() ([]hardware.Hardware, error) {
	return []hardware.Hardware{{
		Framework:    ID,
		ID:           "cpu0",
		Name:         fmt.Sprintf("Host CPU (%s/%s)", runtime.GOOS, runtime.GOARCH),
		Vendor:       runtime.GOARCH,
		Kind:         hardware.Host,
		ComputeUnits: runtime.NumCPU(),
		MemoryBytes:  hostMemory(),
		Features:     hostFeatures(),
	}}, nil
}

// hostFeatures lists the SIMD extensions reported by CPUID (x86) or the
// auxiliary vector (arm64).
func hostFeatures() []string {
	var features []string
	add := func(ok bool, name string) {
		if ok {
			features = append(features, name)
		}
	}

	add(cpu.X86.HasSSE2, "sse2")
	add(cpu.X86.HasSSE41, "sse4.1")
	add(cpu.X86.HasAVX, "avx")
	add(cpu.X86.HasAVX2, "avx2")
	add(cpu.X86.HasFMA, "fma")
	add(cpu.X86.HasAVX512F, "avx512f")
	add(cpu.ARM64.HasASIMD, "asimd")
	add(cpu.ARM64.HasSVE, "sve")
	return features
}
