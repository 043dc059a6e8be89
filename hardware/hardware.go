// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package hardware describes compute units discovered by a framework.
//
// A Hardware is a plain value: it carries identity and capacity metadata
// and has no behaviour. Frameworks cache the list they discover and hand out
// copies; callers select a subset of that list to build a device.
package hardware

import (
	"fmt"
	"slices"
	"strings"
)

// Kind distinguishes the host processor from accelerators.
type Kind int

// Supported hardware kinds.
const (
	Host Kind = iota
	Accelerator
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case Host:
		return "host"
	case Accelerator:
		return "accelerator"
	default:
		return "unknown"
	}
}

// Hardware is one discovered compute unit.
//
// Identity is the pair (Framework, ID): two values with the same pair denote
// the same unit regardless of their metadata.
type Hardware struct {
	Framework    string   // ID of the framework that discovered the unit, e.g. "OPENCL".
	ID           string   // Stable identifier within the framework, e.g. "gpu0".
	Name         string   // Marketing or driver name.
	Vendor       string   // Vendor string reported by the driver.
	Kind         Kind     // Host or accelerator.
	ComputeUnits int      // Cores, compute units or SMs.
	MemoryBytes  uint64   // Global memory visible to the unit; 0 if unknown.
	Features     []string // Optional capability flags (e.g. "avx2", "fp64").
}

// SameUnit reports whether h and other denote the same compute unit.
func (h Hardware) SameUnit(other Hardware) bool {
	return h.Framework == other.Framework && h.ID == other.ID
}

// HasFeature reports whether the unit advertises the given feature flag.
func (h Hardware) HasFeature(name string) bool {
	return slices.Contains(h.Features, name)
}

// Clone returns a deep copy of h.
func (h Hardware) Clone() Hardware {
	h.Features = slices.Clone(h.Features)
	return h
}

// String implements fmt.Stringer.
func (h Hardware) String() string {
	return fmt.Sprintf("%s/%s (%s, %s)", h.Framework, h.ID, h.Name, h.Kind)
}

// IDs returns the identifiers of hws in order.
func IDs(hws []Hardware) []string {
	ids := make([]string, len(hws))
	for i, h := range hws {
		ids[i] = h.ID
	}
	return ids
}

// Find returns the unit with the given ID.
func Find(hws []Hardware, id string) (Hardware, bool) {
	for _, h := range hws {
		if h.ID == id {
			return h, true
		}
	}
	return Hardware{}, false
}

// Select returns the units of hws matching ids, in the order of ids.
// Unknown IDs are returned in missing.
func Select(hws []Hardware, ids []string) (selected []Hardware, missing []string) {
	for _, id := range ids {
		h, ok := Find(hws, id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		selected = append(selected, h)
	}
	return selected, missing
}

// Contains reports whether hws contains a unit identical to h.
func Contains(hws []Hardware, h Hardware) bool {
	return slices.ContainsFunc(hws, h.SameUnit)
}

// CloneAll returns a deep copy of hws. A nil slice stays nil.
func CloneAll(hws []Hardware) []Hardware {
	if hws == nil {
		return nil
	}
	out := make([]Hardware, len(hws))
	for i, h := range hws {
		out[i] = h.Clone()
	}
	return out
}

// Key returns an order-independent identifier for a hardware subset.
// Subsets with the same units produce the same key.
func Key(hws []Hardware) string {
	parts := make([]string, len(hws))
	for i, h := range hws {
		parts[i] = h.Framework + "/" + h.ID
	}
	slices.Sort(parts)
	return strings.Join(parts, ",")
}
