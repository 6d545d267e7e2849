package system

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/radiolab/OpenRadioCore/internal/api/rest"
	"github.com/radiolab/OpenRadioCore/internal/api/websocket"
	"github.com/radiolab/OpenRadioCore/internal/auth"
	"github.com/radiolab/OpenRadioCore/internal/config"
	"github.com/radiolab/OpenRadioCore/internal/interfaces"
	"github.com/radiolab/OpenRadioCore/internal/pmt"
	"github.com/radiolab/OpenRadioCore/internal/profiles"
	"github.com/radiolab/OpenRadioCore/internal/sdr"
	"github.com/radiolab/OpenRadioCore/internal/sdr/mock"
	"github.com/radiolab/OpenRadioCore/internal/session"
	"github.com/radiolab/OpenRadioCore/internal/storage"
	"github.com/radiolab/OpenRadioCore/internal/tuning"
)

type LifecycleManager struct {
	config         *config.Config
	storage        *storage.PostgresClient
	sessionManager *session.Manager
	profileLoader  *profiles.Loader
	authService    *auth.AuthService
	wsHub          *websocket.Hub
	logger         *zap.Logger

	restServer *rest.Server

	stateMu      sync.RWMutex
	currentState SystemState

	shutdownChan chan struct{}
	shutdownOnce sync.Once
}

// NewLifecycleManager wires the process together. store may be nil when the
// database is disabled; command auditing and machine tokens are then off.
func NewLifecycleManager(
	store *storage.PostgresClient,
	cfg *config.Config,
	logger *zap.Logger,
) *LifecycleManager {
	profileLoader, err := profiles.NewLoader(cfg.Profiles.SearchPaths)
	if err != nil {
		logger.Fatal("Failed to create profile loader", zap.Error(err))
	}
	mock.Register(profileLoader)

	authService := auth.NewAuthService(store, cfg.Auth)
	wsHub := websocket.NewHub(logger, authService)

	sessionManager := session.NewManager(logger)
	sessionManager.SetPublisher(wsHub)
	if store != nil {
		sessionManager.SetRecorder(store)
	}

	return &LifecycleManager{
		config:         cfg,
		storage:        store,
		sessionManager: sessionManager,
		profileLoader:  profileLoader,
		authService:    authService,
		wsHub:          wsHub,
		logger:         logger,
		currentState:   StateInitializing,
		shutdownChan:   make(chan struct{}),
	}
}

// Start brings the whole system up: websocket hub, configured radio
// sessions, then the REST API.
func (lm *LifecycleManager) Start() error {
	lm.logger.Info("Starting OpenRadioCore")

	lm.setState(StateInitializing)

	go lm.wsHub.Run()

	if err := lm.startSessions(); err != nil {
		lm.setError(err)
		return err
	}

	if err := lm.startRESTServer(); err != nil {
		lm.setError(fmt.Errorf("failed to start REST API: %w", err))
		return err
	}

	lm.setState(StateRunning)

	lm.logger.Info("System started successfully",
		zap.Int("http_port", lm.config.Server.HTTPPort),
		zap.Int("sessions", len(lm.config.Radios)),
		zap.Bool("auth_enabled", lm.config.Auth.Enabled))

	return nil
}

func (lm *LifecycleManager) startSessions() error {
	ctx := context.Background()
	conv := tuning.NewConverter(lm.logger)

	for _, radio := range lm.config.Radios {
		initSeq, err := initialSequence(conv, radio.Settings)
		if err != nil {
			return fmt.Errorf("invalid settings for radio %s: %w", radio.Name, err)
		}

		dir := sdr.Rx
		if radio.Direction == "tx" {
			dir = sdr.Tx
		}

		_, err = lm.sessionManager.Add(session.Spec{
			Name:      radio.Name,
			Filter:    radio.Filter,
			Direction: dir,
			Channels:  radio.Channels,
			Init:      initSeq,
		})
		if err != nil {
			return fmt.Errorf("failed to register radio %s: %w", radio.Name, err)
		}
	}

	if err := lm.sessionManager.InitAll(ctx); err != nil {
		return fmt.Errorf("session initialization failed: %w", err)
	}
	return nil
}

// initialSequence turns the config's plain settings map into a tuning
// sequence through the same conversion path API commands take.
func initialSequence(conv *tuning.Converter, settings map[string]any) (tuning.Sequence, error) {
	if len(settings) == 0 {
		return tuning.Sequence{}, nil
	}

	m := make(pmt.Map, len(settings))
	for key, val := range settings {
		switch v := val.(type) {
		case string:
			m[key] = pmt.String(v)
		case int:
			m[key] = pmt.F64(v)
		case int64:
			m[key] = pmt.F64(v)
		case float64:
			m[key] = pmt.F64(v)
		default:
			return tuning.Sequence{}, fmt.Errorf("setting %q has unsupported type %T", key, val)
		}
	}
	return conv.Sequence(m)
}

func (lm *LifecycleManager) startRESTServer() error {
	lm.restServer = rest.NewServer(lm.config, lm, lm.logger, lm.wsHub, lm.authService)
	return lm.restServer.Start()
}

// Shutdown gracefully shuts down the system
func (lm *LifecycleManager) Shutdown(ctx context.Context) error {
	var shutdownErr error

	lm.shutdownOnce.Do(func() {
		lm.logger.Info("Shutting down system")

		lm.setState(StateStopping)

		shutdownErr = lm.gracefulShutdown(ctx)

		lm.setState(StateStopped)

		close(lm.shutdownChan)
	})

	return shutdownErr
}

func (lm *LifecycleManager) gracefulShutdown(ctx context.Context) error {
	var wg sync.WaitGroup
	errChan := make(chan error, 2)

	// 1. Release all radio devices
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := lm.sessionManager.CloseAll(ctx); err != nil {
			errChan <- fmt.Errorf("session close failed: %w", err)
		}
	}()

	// 2. REST API Server graceful shutdown
	if lm.restServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			if err := lm.restServer.Shutdown(shutdownCtx); err != nil {
				errChan <- fmt.Errorf("rest api shutdown failed: %w", err)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if lm.storage != nil {
			lm.storage.Close()
		}
		lm.logger.Info("Graceful shutdown completed")
		return nil
	case <-ctx.Done():
		lm.logger.Warn("Shutdown timeout, forcing stop")
		return fmt.Errorf("shutdown timeout exceeded")
	case err := <-errChan:
		return err
	}
}

func (lm *LifecycleManager) setState(state SystemState) {
	lm.stateMu.Lock()
	defer lm.stateMu.Unlock()

	if err := ValidateTransition(lm.currentState, state); err != nil {
		lm.logger.Warn("Unexpected state transition", zap.Error(err))
	}
	lm.currentState = state
}

func (lm *LifecycleManager) setError(err error) {
	lm.logger.Error("System entering error state", zap.Error(err))
	lm.stateMu.Lock()
	defer lm.stateMu.Unlock()
	lm.currentState = StateError
}

// GetCurrentStatus returns current system status (Interface implementation)
func (lm *LifecycleManager) GetCurrentStatus() interfaces.SystemStatus {
	lm.stateMu.RLock()
	state := lm.currentState
	lm.stateMu.RUnlock()

	sessions := lm.sessionManager.List()
	attached := 0
	for _, s := range sessions {
		if s.HasDevice {
			attached++
		}
	}

	return interfaces.SystemStatus{
		State:           state.String(),
		SessionCount:    len(sessions),
		AttachedDevices: attached,
	}
}

// Sessions returns the session manager
func (lm *LifecycleManager) Sessions() *session.Manager {
	return lm.sessionManager
}

// Profiles returns the profile loader
func (lm *LifecycleManager) Profiles() *profiles.Loader {
	return lm.profileLoader
}

// Catalog scans the configured search paths for vendor profile indexes.
func (lm *LifecycleManager) Catalog() []profiles.VendorIndex {
	return profiles.Catalog(lm.config.Profiles.SearchPaths, lm.logger)
}

// Storage returns the storage client
func (lm *LifecycleManager) Storage() *storage.PostgresClient {
	return lm.storage
}

// Config returns the configuration
func (lm *LifecycleManager) Config() *config.Config {
	return lm.config
}
