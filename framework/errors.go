// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package framework

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Sentinels matched by errors.Is against an *Error of the corresponding kind.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrDriver        = errors.New("driver error")
	ErrCompilation   = errors.New("compilation error")
)

// Kind classifies an Error.
type Kind int

// Error kinds.
const (
	// KindConfiguration is an invalid hardware selection, detected before any
	// native call.
	KindConfiguration Kind = iota + 1
	// KindDriver is a failed native enumeration, initialisation or context
	// creation.
	KindDriver
	// KindCompilation is a failed binary build.
	KindCompilation
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindDriver:
		return "driver"
	case KindCompilation:
		return "compilation"
	default:
		return "unknown"
	}
}

// Error is the module-wide failure value.
//
// It tags the wrapped framework error with the name of the framework that
// produced it. The wrapped error is kept as is: its message appears verbatim
// after the "<Framework> error: " prefix and errors.As reaches it and every
// native status below it.
type Error struct {
	Framework string // Display name of the originating framework.
	Kind      Kind
	Err       error
}

// NewConfigurationError returns a configuration error for the named
// framework. The message is formatted with fmt semantics and carries a
// stack trace, printed with %+v.
func NewConfigurationError(framework, format string, args ...any) *Error {
	return &Error{
		Framework: framework,
		Kind:      KindConfiguration,
		Err:       errors.Errorf(format, args...),
	}
}

// NewDriverError wraps a framework error raised by a native driver call.
func NewDriverError(framework string, err error) *Error {
	return &Error{Framework: framework, Kind: KindDriver, Err: err}
}

// NewCompilationError wraps a framework error raised while building a binary.
func NewCompilationError(framework string, err error) *Error {
	return &Error{Framework: framework, Kind: KindCompilation, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Framework + " error: " + e.Err.Error()
}

// Unwrap returns the wrapped framework error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrConfiguration:
		return e.Kind == KindConfiguration
	case ErrDriver:
		return e.Kind == KindDriver
	case ErrCompilation:
		return e.Kind == KindCompilation
	}
	return false
}

// Format implements fmt.Formatter. %+v prints the wrapped error with its
// own verbose formatting (stack traces for configuration errors).
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%s error (%s): %+v", e.Framework, e.Kind, e.Err)
			return
		}
		fallthrough
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}
