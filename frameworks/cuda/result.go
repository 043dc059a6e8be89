// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cuda

import "strconv"

// Result is a CUresult returned by the CUDA driver API.
//
// The codes are CUDA's own; they are unrelated to OpenCL status codes even
// where the failure reads the same.
type Result int

// CUDA driver API results (cuda.h).
const (
	Success                  Result = 0
	ErrorInvalidValue        Result = 1
	ErrorOutOfMemory         Result = 2
	ErrorNotInitialized      Result = 3
	ErrorDeinitialized       Result = 4
	ErrorNoDevice            Result = 100
	ErrorInvalidDevice       Result = 101
	ErrorInvalidImage        Result = 200
	ErrorInvalidContext      Result = 201
	ErrorNoBinaryForGPU      Result = 209
	ErrorInvalidPTX          Result = 218
	ErrorUnsupportedPTX      Result = 222
	ErrorInvalidSource       Result = 300
	ErrorFileNotFound        Result = 301
	ErrorInvalidHandle       Result = 400
	ErrorNotFound            Result = 500
	ErrorLaunchOutOfResource Result = 701
	ErrorUnknown             Result = 999
)

var results = map[Result][2]string{
	Success:                  {"CUDA_SUCCESS", "no error"},
	ErrorInvalidValue:        {"CUDA_ERROR_INVALID_VALUE", "invalid argument"},
	ErrorOutOfMemory:         {"CUDA_ERROR_OUT_OF_MEMORY", "out of memory"},
	ErrorNotInitialized:      {"CUDA_ERROR_NOT_INITIALIZED", "initialization error"},
	ErrorDeinitialized:       {"CUDA_ERROR_DEINITIALIZED", "driver shutting down"},
	ErrorNoDevice:            {"CUDA_ERROR_NO_DEVICE", "no CUDA-capable device is detected"},
	ErrorInvalidDevice:       {"CUDA_ERROR_INVALID_DEVICE", "invalid device ordinal"},
	ErrorInvalidImage:        {"CUDA_ERROR_INVALID_IMAGE", "device kernel image is invalid"},
	ErrorInvalidContext:      {"CUDA_ERROR_INVALID_CONTEXT", "invalid device context"},
	ErrorNoBinaryForGPU:      {"CUDA_ERROR_NO_BINARY_FOR_GPU", "no kernel image is available for execution on the device"},
	ErrorUnsupportedPTX:      {"CUDA_ERROR_UNSUPPORTED_PTX_VERSION", "the provided PTX was compiled with an unsupported toolchain"},
	ErrorInvalidPTX:          {"CUDA_ERROR_INVALID_PTX", "a PTX JIT compilation failed"},
	ErrorInvalidSource:       {"CUDA_ERROR_INVALID_SOURCE", "device kernel source is invalid"},
	ErrorFileNotFound:        {"CUDA_ERROR_FILE_NOT_FOUND", "file not found"},
	ErrorInvalidHandle:       {"CUDA_ERROR_INVALID_HANDLE", "invalid resource handle"},
	ErrorNotFound:            {"CUDA_ERROR_NOT_FOUND", "named symbol not found"},
	ErrorLaunchOutOfResource: {"CUDA_ERROR_LAUNCH_OUT_OF_RESOURCES", "too many resources requested for launch"},
	ErrorUnknown:             {"CUDA_ERROR_UNKNOWN", "unknown error"},
}

// String returns the cuda.h name, e.g. "CUDA_ERROR_NO_DEVICE".
func (r Result) String() string {
	if names, ok := results[r]; ok {
		return names[0]
	}
	return "CUresult(" + strconv.Itoa(int(r)) + ")"
}

// Message returns the cuGetErrorString text of the result.
func (r Result) Message() string {
	if names, ok := results[r]; ok {
		return names[1]
	}
	return "unrecognized error code " + strconv.Itoa(int(r))
}

func (r Result) Error() string {
	return r.Message()
}

// ResultError is a result with the driver's diagnostic message, such as a
// JIT log.
type ResultError struct {
	Result  Result
	Message string
}

func (e *ResultError) Error() string {
	if e.Message == "" {
		return e.Result.Message()
	}
	return e.Message
}

func (e *ResultError) Unwrap() error {
	return e.Result
}

// ParseResult returns the result named name, e.g. "CUDA_ERROR_NO_DEVICE".
func ParseResult(name string) (Result, bool) {
	for r, names := range results {
		if names[0] == name {
			return r, true
		}
	}
	return 0, false
}
