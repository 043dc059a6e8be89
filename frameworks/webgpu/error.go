// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package webgpu

// Status identifies the wgpu-native step that failed.
type Status int

// Statuses.
const (
	StatusLibraryNotFound Status = iota + 1
	StatusInstanceFailed
	StatusAdapterUnavailable
	StatusDeviceRequestFailed
	StatusQueueUnavailable
	StatusShaderInvalid
)

var statusNames = map[Status]string{
	StatusLibraryNotFound:     "wgpu-native library not found",
	StatusInstanceFailed:      "instance creation failed",
	StatusAdapterUnavailable:  "no GPU adapter available",
	StatusDeviceRequestFailed: "device request failed",
	StatusQueueUnavailable:    "queue unavailable",
	StatusShaderInvalid:       "shader module invalid",
}

// String returns the default message of s.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown WebGPU failure"
}

func (s Status) Error() string { return s.String() }

// Error is a failed wgpu-native call. Its message is the native one.
type Error struct {
	Status Status
	Err    error
}

// newError wraps err, which may be nil, as a failure with status s.
func newError(s Status, err error) *Error {
	if err == nil {
		err = s
	}
	return &Error{Status: s, Err: err}
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Is matches a Status target against e.Status.
func (e *Error) Is(target error) bool {
	s, ok := target.(Status)
	return ok && s == e.Status
}
