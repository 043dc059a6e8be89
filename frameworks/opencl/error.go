// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package opencl

import "errors"

// Error is a failed OpenCL call.
//
// Status identifies the failure; the message is the native one, unchanged.
// errors.Is(err, s) reports whether the failure has status s.
type Error struct {
	Status Status
	Err    error // native failure (a Status or *StatusError)
}

// newError classifies a driver failure. Failures that carry no OpenCL
// status are reported as Other.
func newError(err error) *Error {
	var se *StatusError
	if errors.As(err, &se) {
		return &Error{Status: se.Status, Err: err}
	}
	var s Status
	if errors.As(err, &s) {
		return &Error{Status: s, Err: err}
	}
	return &Error{Status: Other, Err: err}
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a Status target against e.Status.
func (e *Error) Is(target error) bool {
	s, ok := target.(Status)
	return ok && s == e.Status
}
