// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package meshview

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by when it happened and whether the
// renderer can continue.
type Kind int

const (
	// KindInit is a fatal failure while creating the device, surface or
	// initial resources. Startup aborts.
	KindInit Kind = iota + 1

	// KindNoDevice means no compatible graphics adapter was found.
	// Fatal at init.
	KindNoDevice

	// KindRuntime is a fatal failure inside the render loop (recording,
	// submission, presentation).
	KindRuntime

	// KindDeviceLost means the device stopped making progress: a fence
	// wait exceeded its bound, or the backend reported removal.
	KindDeviceLost
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindNoDevice:
		return "no-device"
	case KindRuntime:
		return "runtime"
	case KindDeviceLost:
		return "device-lost"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Common errors.
var (
	// ErrNoDevice is returned when no adapter satisfies the requirements.
	ErrNoDevice = errors.New("meshview: no compatible graphics device")

	// ErrDeviceLost is returned when the GPU stops signaling fences.
	ErrDeviceLost = errors.New("meshview: device lost")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("meshview: invalid config")
)

// Error is a classified renderer failure. Every Error is fatal: warnings
// are logged and never returned.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Errorf wraps err as an Error of the given kind for operation op.
// A nil err yields nil.
func Errorf(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("meshview: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("meshview: %s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind sentinels: an Error of KindDeviceLost matches
// ErrDeviceLost and KindNoDevice matches ErrNoDevice.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrDeviceLost:
		return e.Kind == KindDeviceLost
	case ErrNoDevice:
		return e.Kind == KindNoDevice
	}
	return false
}

// KindOf returns the Kind of the first Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsInit reports whether err happened during initialization.
func IsInit(err error) bool {
	k := KindOf(err)
	return k == KindInit || k == KindNoDevice
}

// IsFatal reports whether err carries a classified renderer failure.
// Unclassified errors are not fatal by themselves.
func IsFatal(err error) bool {
	return KindOf(err) != 0
}
