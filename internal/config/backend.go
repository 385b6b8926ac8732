package config

// ConfigBackend is where `deskhub config set` persists values. macOS uses
// UserDefaults (via the `defaults` CLI) and other platforms a sectioned JSON
// file; DESKHUB_CONFIG_FILE selects the JSON file everywhere.
type ConfigBackend interface {
	GetString(key string) (val string, ok bool, err error)
	GetInt(key string) (val int, ok bool, err error)
	SetString(key, val string) error
	SetInt(key string, val int) error
	Delete(key string) error
}
