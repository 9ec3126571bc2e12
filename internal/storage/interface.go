package storage

import "github.com/julianstephens/serene/internal/models"

// Provider persists the client's durable settings.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Utils
	GetConfigPath() string
}
