// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package opencl

import "strconv"

// Status is an OpenCL status code as returned by the native API.
//
// A bare Status is a valid error; its message is the default description of
// the code. Drivers that have a more specific diagnostic return a
// *StatusError instead.
type Status int32

// OpenCL status codes (cl.h).
const (
	Success                            Status = 0
	DeviceNotFound                     Status = -1
	DeviceNotAvailable                 Status = -2
	CompilerNotAvailable               Status = -3
	MemObjectAllocationFailure         Status = -4
	OutOfResources                     Status = -5
	OutOfHostMemory                    Status = -6
	BuildProgramFailure                Status = -11
	MisalignedSubBufferOffset          Status = -13
	ExecStatusErrorForEventsInWaitList Status = -14
	InvalidValue                       Status = -30
	InvalidDeviceType                  Status = -31
	InvalidPlatform                    Status = -32
	InvalidDevice                      Status = -33
	InvalidContext                     Status = -34
	InvalidCommandQueue                Status = -36
	InvalidHostPtr                     Status = -37
	InvalidMemObject                   Status = -38
	InvalidBinary                      Status = -42
	InvalidBuildOptions                Status = -43
	InvalidProgram                     Status = -44
	InvalidKernelName                  Status = -46
	InvalidEventWaitList               Status = -57
	InvalidOperation                   Status = -59
	InvalidBufferSize                  Status = -61
	InvalidProperty                    Status = -64

	// Other is any failure without a closer OpenCL code.
	Other Status = -9999
)

type statusInfo struct {
	name    string
	message string
}

var statuses = map[Status]statusInfo{
	Success:                            {"CL_SUCCESS", "success"},
	DeviceNotFound:                     {"CL_DEVICE_NOT_FOUND", "device not found"},
	DeviceNotAvailable:                 {"CL_DEVICE_NOT_AVAILABLE", "device not available"},
	CompilerNotAvailable:               {"CL_COMPILER_NOT_AVAILABLE", "compiler not available"},
	MemObjectAllocationFailure:         {"CL_MEM_OBJECT_ALLOCATION_FAILURE", "memory object allocation failure"},
	OutOfResources:                     {"CL_OUT_OF_RESOURCES", "out of resources on the device"},
	OutOfHostMemory:                    {"CL_OUT_OF_HOST_MEMORY", "out of host memory"},
	BuildProgramFailure:                {"CL_BUILD_PROGRAM_FAILURE", "program build failure"},
	MisalignedSubBufferOffset:          {"CL_MISALIGNED_SUB_BUFFER_OFFSET", "misaligned sub-buffer offset"},
	ExecStatusErrorForEventsInWaitList: {"CL_EXEC_STATUS_ERROR_FOR_EVENTS_IN_WAIT_LIST", "event in wait list failed"},
	InvalidValue:                       {"CL_INVALID_VALUE", "invalid value"},
	InvalidDeviceType:                  {"CL_INVALID_DEVICE_TYPE", "invalid device type"},
	InvalidPlatform:                    {"CL_INVALID_PLATFORM", "invalid platform"},
	InvalidDevice:                      {"CL_INVALID_DEVICE", "invalid device"},
	InvalidContext:                     {"CL_INVALID_CONTEXT", "invalid context"},
	InvalidCommandQueue:                {"CL_INVALID_COMMAND_QUEUE", "invalid command queue"},
	InvalidHostPtr:                     {"CL_INVALID_HOST_PTR", "invalid host pointer"},
	InvalidMemObject:                   {"CL_INVALID_MEM_OBJECT", "invalid memory object"},
	InvalidBinary:                      {"CL_INVALID_BINARY", "invalid program binary"},
	InvalidBuildOptions:                {"CL_INVALID_BUILD_OPTIONS", "invalid build options"},
	InvalidProgram:                     {"CL_INVALID_PROGRAM", "invalid program"},
	InvalidKernelName:                  {"CL_INVALID_KERNEL_NAME", "invalid kernel name"},
	InvalidEventWaitList:               {"CL_INVALID_EVENT_WAIT_LIST", "invalid event wait list"},
	InvalidOperation:                   {"CL_INVALID_OPERATION", "invalid operation"},
	InvalidBufferSize:                  {"CL_INVALID_BUFFER_SIZE", "invalid buffer size"},
	InvalidProperty:                    {"CL_INVALID_PROPERTY", "invalid property"},
	Other:                              {"CL_OTHER", "unknown OpenCL failure"},
}

// String returns the cl.h name of the code, e.g. "CL_DEVICE_NOT_FOUND".
func (s Status) String() string {
	if info, ok := statuses[s]; ok {
		return info.name
	}
	return "CL_STATUS(" + strconv.Itoa(int(s)) + ")"
}

// Message returns the default description of the code.
func (s Status) Message() string {
	if info, ok := statuses[s]; ok {
		return info.message
	}
	return "OpenCL status " + strconv.Itoa(int(s))
}

// Error implements the error interface.
func (s Status) Error() string {
	return s.Message()
}

// Known reports whether s is one of the codes defined by this package.
func (s Status) Known() bool {
	_, ok := statuses[s]
	return ok
}

// StatusError is a status code with the driver's diagnostic message.
type StatusError struct {
	Status  Status
	Message string
}

// Error returns the diagnostic message, or the status default if empty.
func (e *StatusError) Error() string {
	if e.Message == "" {
		return e.Status.Message()
	}
	return e.Message
}

// Unwrap returns the status so errors.Is(err, opencl.DeviceNotFound) holds.
func (e *StatusError) Unwrap() error {
	return e.Status
}

// ParseStatus returns the status named name, e.g. "CL_DEVICE_NOT_FOUND".
func ParseStatus(name string) (Status, bool) {
	for s, info := range statuses {
		if info.name == name {
			return s, true
		}
	}
	return 0, false
}
