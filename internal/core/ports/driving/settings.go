package driving

import "github.com/custodia-labs/sercha-corpus/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.Settings, error)

	// Save persists application settings.
	Save(settings *domain.Settings) error

	// Set parses and stores a single setting by key.
	Set(key, value string) error

	// Keys lists the recognised setting keys.
	Keys() []string
}
