package config

import (
	"time"

	"github.com/kalambet/deskhub/internal/automation"
	"github.com/kalambet/deskhub/internal/collection"
	"github.com/kalambet/deskhub/internal/files"
)

type Config struct {
	Storage    StorageConfig
	Files      FilesConfig
	Automation AutomationConfig
	Log        LogConfig
}

type StorageConfig struct {
	DataDir   string
	KeyPrefix string
}

type FilesConfig struct {
	// InlineLimit is the size in bytes below which uploaded bytes are stored.
	InlineLimit int
}

type AutomationConfig struct {
	Delay                time.Duration
	ArchiveAfterDays     int
	MessageRetentionDays int
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Storage: StorageConfig{
			DataDir:   defaultDataDir(),
			KeyPrefix: collection.DefaultPrefix,
		},
		Files: FilesConfig{
			InlineLimit: files.DefaultInlineLimit,
		},
		Automation: AutomationConfig{
			Delay:                automation.DefaultDelay,
			ArchiveAfterDays:     int(automation.DefaultArchiveAfter / (24 * time.Hour)),
			MessageRetentionDays: int(automation.DefaultMessageRetention / (24 * time.Hour)),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the platform-native backend and environment
// variables.
//
// On macOS the backend is UserDefaults (domain: com.deskhub.app).
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/deskhub/config.json.
//
// Environment variables (DESKHUB_*) override backend values on all platforms.
func Load() (Config, error) {
	return loadWith(newPlatformBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Namespace returns the key namespace every dashboard slice is stored under.
func (c Config) Namespace() collection.Namespace {
	return collection.Namespace(c.Storage.KeyPrefix)
}

// ArchiveAfter is the task age the archive-old script removes beyond.
func (c Config) ArchiveAfter() time.Duration {
	return time.Duration(c.Automation.ArchiveAfterDays) * 24 * time.Hour
}

// MessageRetention is the age after which read messages are archived.
func (c Config) MessageRetention() time.Duration {
	return time.Duration(c.Automation.MessageRetentionDays) * 24 * time.Hour
}
