// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cuda

import "errors"

// Error is a failed CUDA driver call. Its message is the native one.
type Error struct {
	Result Result
	Err    error
}

// newError classifies a driver failure; unclassified errors become
// ErrorUnknown.
func newError(err error) *Error {
	var re *ResultError
	if errors.As(err, &re) {
		return &Error{Result: re.Result, Err: err}
	}
	var r Result
	if errors.As(err, &r) {
		return &Error{Result: r, Err: err}
	}
	return &Error{Result: ErrorUnknown, Err: err}
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Is matches a Result target against e.Result.
func (e *Error) Is(target error) bool {
	r, ok := target.(Result)
	return ok && r == e.Result
}
