package driven

// ConfigStore holds switchboard settings as flattened dot keys such as
// "pagination.max_pages" or "zoom.base_url".
type ConfigStore interface {
	// Get returns the raw value for key and whether it is set.
	Get(key string) (any, bool)

	// GetString returns key as a string, or "" when unset or not a string.
	GetString(key string) string

	// GetInt returns key as an int, or 0 when unset or not numeric.
	GetInt(key string) int

	// GetBool returns key as a bool, or false when unset or not a bool.
	GetBool(key string) bool

	// Keys returns every set key, sorted.
	Keys() []string

	// Set stores value under key and persists it.
	Set(key string, value any) error

	// Save writes the current values to the backing file.
	Save() error

	// Load replaces the in-memory values with the backing file's contents.
	Load() error

	// Path is the backing file, or ":memory:" for stores without one.
	Path() string
}
