package driven

// ConfigStore provides persistent key-value configuration.
// Keys use dotted paths, e.g. "llm.api_key".
type ConfigStore interface {
	// Get retrieves a raw configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, "" if absent or mistyped.
	GetString(key string) string

	// GetInt retrieves an integer value, 0 if absent or mistyped.
	GetInt(key string) int

	// GetBool retrieves a boolean value, false if absent or mistyped.
	GetBool(key string) bool

	// Set stores a value and persists it.
	Set(key string, value any) error

	// Delete removes a key and persists the change.
	Delete(key string) error

	// All returns a copy of every key-value pair.
	All() map[string]any
}
