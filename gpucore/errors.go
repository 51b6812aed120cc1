package gpucore

import "errors"

// Common backend errors.
var (
	// ErrResourceInUse is returned when the CPU touches a resource the
	// GPU has not finished with.
	ErrResourceInUse = errors.New("gpucore: resource in use by GPU")

	// ErrNotRecording is returned when commands are recorded into a
	// closed list.
	ErrNotRecording = errors.New("gpucore: command list not recording")

	// ErrNotClosed is returned when an open list is submitted.
	ErrNotClosed = errors.New("gpucore: command list not closed")

	// ErrInvalidState is returned when a command requires a different
	// resource state than the target is in.
	ErrInvalidState = errors.New("gpucore: invalid resource state")

	// ErrDestroyed is returned when a destroyed object is used.
	ErrDestroyed = errors.New("gpucore: object destroyed")

	// ErrForeignObject is returned when an object from another backend
	// is passed in.
	ErrForeignObject = errors.New("gpucore: object belongs to another backend")

	// ErrFenceRegression is returned when a fence is signaled with a value
	// lower than one already signaled.
	ErrFenceRegression = errors.New("gpucore: fence value not monotonic")
)
