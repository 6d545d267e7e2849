// Package session owns the lifetime of one radio: device acquisition, the
// scoped apply engine that turns tuning sequences into hardware calls, and
// command handling for dynamic values arriving over the API.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radiolab/OpenRadioCore/internal/sdr"
	"github.com/radiolab/OpenRadioCore/internal/tuning"
)

// Event is one session occurrence fanned out to subscribers.
type Event struct {
	Type      string         `json:"type"`
	SessionID string         `json:"session_id"`
	Data      map[string]any `json:"data,omitempty"`
}

const (
	EventSessionInitialized = "session_initialized"
	EventSettingApplied     = "setting_applied"
	EventDeviceError        = "device_error"
)

// Publisher receives session events. The websocket hub implements it; a nil
// publisher is legal and drops everything.
type Publisher interface {
	Publish(evt Event)
}

// CommandRecord is the audit entry for one handled command.
type CommandRecord struct {
	SessionID uuid.UUID
	Command   json.RawMessage
	Outcome   string
	Latency   time.Duration
}

// Recorder persists command records. Storage implements it; a nil recorder
// disables auditing.
type Recorder interface {
	RecordCommand(ctx context.Context, rec CommandRecord) error
}

// Spec describes a session before it is initialized. Exactly one of Dev and
// Filter provides the device: a non-nil Dev is adopted as-is, a non-empty
// Filter is opened through the driver registry during Init, and neither set
// means the session runs without hardware and applies become logged no-ops.
type Spec struct {
	Name      string
	Dev       sdr.Device
	Filter    string
	Direction sdr.Direction
	Channels  []int
	Init      tuning.Sequence
}

// Session is one configured radio. All device access is serialized behind an
// internal mutex; one apply runs at a time and concurrent callers queue.
type Session struct {
	ID   uuid.UUID
	Name string

	logger *zap.Logger
	conv   *tuning.Converter

	dir      sdr.Direction
	channels []int
	filter   string
	initSeq  tuning.Sequence

	events   Publisher
	recorder Recorder

	mu          sync.Mutex
	dev         sdr.Device
	initialized bool
}

// New builds a session from its spec. The device is not touched until Init.
func New(spec Spec, logger *zap.Logger) *Session {
	s := &Session{
		ID:       uuid.New(),
		Name:     spec.Name,
		logger:   logger,
		conv:     tuning.NewConverter(logger),
		dir:      spec.Direction,
		channels: spec.Channels,
		filter:   spec.Filter,
		initSeq:  spec.Init,
		dev:      spec.Dev,
	}
	if len(s.channels) == 0 {
		s.channels = []int{0}
	}
	return s
}

// SetPublisher installs the event sink. Call before Init.
func (s *Session) SetPublisher(p Publisher) { s.events = p }

// SetRecorder installs the command audit sink. Call before Init.
func (s *Session) SetRecorder(r Recorder) { s.recorder = r }

// Init performs one-time driver setup, acquires the device when the spec
// names one, and applies the initial sequence. A device that cannot be
// opened is fatal; a spec with no device at all initializes fine and leaves
// the session in its soft no-device mode.
func (s *Session) Init(ctx context.Context) error {
	sdr.Setup(s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return fmt.Errorf("session %s already initialized", s.Name)
	}

	if s.dev == nil && s.filter != "" {
		dev, err := sdr.Open(s.filter, s.logger)
		if err != nil {
			return fmt.Errorf("failed to open device for session %s: %w", s.Name, err)
		}
		s.dev = dev
	}
	if s.dev == nil {
		s.logger.Warn("Session initialized without device",
			zap.String("session", s.Name))
	}

	if err := s.applyLocked(ctx, s.initSeq); err != nil {
		return fmt.Errorf("initial configuration failed for session %s: %w", s.Name, err)
	}

	s.initialized = true
	s.publish(EventSessionInitialized, map[string]any{
		"name":     s.Name,
		"attached": s.dev != nil,
	})
	s.logger.Info("Session initialized",
		zap.String("session", s.Name),
		zap.String("id", s.ID.String()),
		zap.Bool("device", s.dev != nil),
		zap.Int("initial_items", s.initSeq.Len()))
	return nil
}

// Info is the read-only snapshot exposed over the API.
type Info struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Direction   string `json:"direction"`
	Channels    []int  `json:"channels"`
	HasDevice   bool   `json:"has_device"`
	Initialized bool   `json:"initialized"`
}

// Snapshot returns the session's current state.
func (s *Session) Snapshot() Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	chans := make([]int, len(s.channels))
	copy(chans, s.channels)
	return Info{
		ID:          s.ID.String(),
		Name:        s.Name,
		Direction:   s.dir.String(),
		Channels:    chans,
		HasDevice:   s.dev != nil,
		Initialized: s.initialized,
	}
}

// HardwareTime reads the device clock in nanoseconds.
func (s *Session) HardwareTime(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev == nil {
		return 0, sdr.ErrDeviceAbsent
	}
	return s.dev.HardwareTime(ctx)
}

// Close releases the device. Further applies take the no-device path.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev == nil {
		return nil
	}
	err := s.dev.Close()
	s.dev = nil
	if err != nil {
		return fmt.Errorf("failed to close device for session %s: %w", s.Name, err)
	}
	return nil
}

func (s *Session) publish(typ string, data map[string]any) {
	if s.events == nil {
		return
	}
	s.events.Publish(Event{Type: typ, SessionID: s.ID.String(), Data: data})
}
