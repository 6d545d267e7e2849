package interfaces

import (
	"context"

	"github.com/radiolab/OpenRadioCore/internal/config"
	"github.com/radiolab/OpenRadioCore/internal/profiles"
	"github.com/radiolab/OpenRadioCore/internal/session"
	"github.com/radiolab/OpenRadioCore/internal/storage"
)

// SystemStatus represents the current system state
type SystemStatus struct {
	State           string `json:"state"`
	SessionCount    int    `json:"session_count"`
	AttachedDevices int    `json:"attached_devices"`
}

type LifecycleManager interface {
	Config() *config.Config
	Storage() *storage.PostgresClient
	Sessions() *session.Manager
	Profiles() *profiles.Loader
	Catalog() []profiles.VendorIndex
	GetCurrentStatus() SystemStatus
	Shutdown(ctx context.Context) error
}
