package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager holds every session of the process and initializes them together
// during startup.
type Manager struct {
	sessions map[uuid.UUID]*Session
	mu       sync.RWMutex
	logger   *zap.Logger

	events   Publisher
	recorder Recorder
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		logger:   logger,
	}
}

// SetPublisher installs the event sink handed to every session created from
// here on. Call before Add.
func (m *Manager) SetPublisher(p Publisher) { m.events = p }

// SetRecorder installs the audit sink handed to every session created from
// here on. Call before Add.
func (m *Manager) SetRecorder(r Recorder) { m.recorder = r }

// Add builds a session from its spec and registers it. Names must be unique;
// the session is not initialized yet.
func (m *Manager) Add(spec Spec) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		if s.Name == spec.Name {
			return nil, fmt.Errorf("session name already in use: %s", spec.Name)
		}
	}

	s := New(spec, m.logger)
	s.SetPublisher(m.events)
	s.SetRecorder(m.recorder)
	m.sessions[s.ID] = s

	m.logger.Info("Session registered",
		zap.String("session", s.Name),
		zap.String("id", s.ID.String()))
	return s, nil
}

// InitAll initializes every registered session. The first failure aborts
// startup.
func (m *Manager) InitAll(ctx context.Context) error {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		if err := s.Init(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Get returns a session by ID.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	return s, ok
}

// GetByName returns a session by its configured name.
func (m *Manager) GetByName(name string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.sessions {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// List returns a snapshot of every session.
func (m *Manager) List() []Info {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	infos := make([]Info, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, s.Snapshot())
	}
	return infos
}

// CloseAll releases every session's device.
func (m *Manager) CloseAll(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.sessions {
		if err := s.Close(); err != nil {
			m.logger.Error("Failed to close session",
				zap.String("session", s.Name),
				zap.Error(err))
		}
	}
	return nil
}
