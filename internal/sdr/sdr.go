// Package sdr defines the southbound device contract: the Direction
// vocabulary the hardware understands, the Device call surface, the driver
// registry used to open devices from filter strings, and the error taxonomy
// shared by everything that touches hardware.
package sdr

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Direction selects one hardware signal path. The richer selector vocabulary
// (Default/Both/None) lives in the tuning layer and is resolved away before a
// Direction ever reaches a Device.
type Direction int

const (
	Rx Direction = iota
	Tx
)

func (d Direction) String() string {
	if d == Tx {
		return "tx"
	}
	return "rx"
}

// Device is the call surface of one attached radio. Implementations are
// expected to be safe for calls from the single session that owns them;
// cross-session sharing is coordinated above this interface.
type Device interface {
	SetFrequency(ctx context.Context, dir Direction, channel int, hz float64) error
	SetSampleRate(ctx context.Context, dir Direction, channel int, hz float64) error
	SetGain(ctx context.Context, dir Direction, channel int, db float64) error
	SetBandwidth(ctx context.Context, dir Direction, channel int, hz float64) error
	SetAntenna(ctx context.Context, dir Direction, channel int, name string) error

	// HardwareTime returns the device clock in nanoseconds.
	HardwareTime(ctx context.Context) (int64, error)

	Close() error
}

// Constructor builds a Device from the parsed key/value pairs of a filter
// string.
type Constructor func(args map[string]string, logger *zap.Logger) (Device, error)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Constructor)
)

// Register installs a device driver under its filter name. Like database/sql
// driver registration it is called from driver package init and panics on a
// duplicate name.
func Register(name string, c Constructor) {
	driversMu.Lock()
	defer driversMu.Unlock()

	if c == nil {
		panic("sdr: Register with nil constructor")
	}
	if _, dup := drivers[name]; dup {
		panic(fmt.Sprintf("sdr: Register called twice for driver %q", name))
	}
	drivers[name] = c
}

// Open looks a device up from a filter string of the form
// "driver=mock,serial=0042". Failure is fatal to whoever is initializing: the
// returned error is an *InitError.
func Open(filter string, logger *zap.Logger) (Device, error) {
	args := ParseFilter(filter)

	name, ok := args["driver"]
	if !ok {
		return nil, &InitError{Filter: filter, Err: fmt.Errorf("filter has no driver key")}
	}

	driversMu.RLock()
	c, ok := drivers[name]
	driversMu.RUnlock()
	if !ok {
		return nil, &InitError{Filter: filter, Err: fmt.Errorf("unknown driver %q", name)}
	}

	dev, err := c(args, logger)
	if err != nil {
		return nil, &InitError{Filter: filter, Err: err}
	}
	return dev, nil
}

// ParseFilter splits a comma-separated key=value filter string. Malformed
// segments are ignored rather than rejected; drivers validate the keys they
// care about.
func ParseFilter(filter string) map[string]string {
	args := make(map[string]string)
	for _, part := range strings.Split(filter, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || k == "" {
			continue
		}
		args[k] = v
	}
	return args
}

var setupMu sync.Mutex
var setupDone bool

// Setup performs the hardware library's one-time process setup (currently
// its logging configuration). The underlying libraries are not safe for
// concurrent first-time setup, so the mutex is held across the whole call;
// it guards nothing else. Sessions call this at the start of Init.
func Setup(logger *zap.Logger) {
	setupMu.Lock()
	defer setupMu.Unlock()

	if setupDone {
		return
	}
	configureDriverLogging(logger)
	setupDone = true
}

func configureDriverLogging(logger *zap.Logger) {
	logger.Debug("driver library logging configured")
}
