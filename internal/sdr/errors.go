package sdr

import (
	"errors"
	"fmt"
)

// ErrDeviceAbsent marks configuration attempted before a device exists. The
// apply engine swallows it (logged, reported as success) so configuration
// commands may arrive before device acquisition completes.
var ErrDeviceAbsent = errors.New("sdr: no device attached")

// InitError is fatal: device lookup or construction failed and the session
// never becomes usable.
type InitError struct {
	Filter string
	Err    error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("sdr: device init failed for filter %q: %v", e.Filter, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// CallError reports a device call the hardware rejected or failed. It aborts
// the remaining items of the current sequence only; items already applied
// are not rolled back.
type CallError struct {
	Op      string
	Dir     Direction
	Channel int
	Err     error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("sdr: %s(%s, %d) failed: %v", e.Op, e.Dir, e.Channel, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }
