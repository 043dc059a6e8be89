// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package framework

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nativeErr struct{ msg string }

func (e *nativeErr) Error() string { return e.msg }

func TestErrorMessageKeepsNativeText(t *testing.T) {
	native := &nativeErr{msg: "device not found"}
	err := NewDriverError("OpenCL", native)

	assert.Equal(t, "OpenCL error: device not found", err.Error())
	assert.Equal(t, "OpenCL error: device not found", fmt.Sprintf("%v", err))
	assert.Equal(t, "OpenCL error: device not found", fmt.Sprintf("%s", err))
	assert.Equal(t, `"OpenCL error: device not found"`, fmt.Sprintf("%q", err))

	var target *nativeErr
	require.True(t, errors.As(err, &target))
	assert.Same(t, native, target)
}

func TestErrorKinds(t *testing.T) {
	native := errors.New("boom")

	tests := []struct {
		err  *Error
		kind Kind
		is   error
	}{
		{NewConfigurationError("CUDA", "bad %s", "subset"), KindConfiguration, ErrConfiguration},
		{NewDriverError("CUDA", native), KindDriver, ErrDriver},
		{NewCompilationError("CUDA", native), KindCompilation, ErrCompilation},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.ErrorIs(t, tt.err, tt.is)
			for _, other := range []error{ErrConfiguration, ErrDriver, ErrCompilation} {
				if other != tt.is {
					assert.NotErrorIs(t, tt.err, other)
				}
			}
		})
	}
}

func TestErrorSurvivesFurtherWrapping(t *testing.T) {
	err := fmt.Errorf("probe: %w", NewDriverError("CUDA", errors.New("out of memory")))

	assert.ErrorIs(t, err, ErrDriver)

	var halErr *Error
	require.True(t, errors.As(err, &halErr))
	assert.Equal(t, "CUDA", halErr.Framework)
	assert.Equal(t, "probe: CUDA error: out of memory", err.Error())
}

func TestConfigurationErrorVerboseFormatIncludesStack(t *testing.T) {
	err := NewConfigurationError("Native", "empty hardware subset")
	verbose := fmt.Sprintf("%+v", err)

	assert.Contains(t, verbose, "Native error (configuration): empty hardware subset")
	assert.Contains(t, verbose, "NewConfigurationError")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "configuration", KindConfiguration.String())
	assert.Equal(t, "driver", KindDriver.String())
	assert.Equal(t, "compilation", KindCompilation.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
