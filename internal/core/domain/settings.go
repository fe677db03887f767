package domain

import "time"

// Settings are the tunables read from the config file.
type Settings struct {
	// HTTPTimeout bounds every HTTP request.
	HTTPTimeout time.Duration
	// MaxPages is the pagination safety limit.
	MaxPages int
	// HistoryEnabled selects the SQLite activity store over the in-memory one.
	HistoryEnabled bool
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		HTTPTimeout:    30 * time.Second,
		MaxPages:       10,
		HistoryEnabled: true,
	}
}
