//go:build !darwin

package config

import (
	"os"
	"path/filepath"
)

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "deskhub-data"
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "deskhub")
}

// newPlatformBackend returns the XDG config file backend.
func newPlatformBackend() ConfigBackend {
	return newFileBackend(configFilePath())
}

func configFilePath() string {
	if p := os.Getenv(configFileEnv); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", "deskhub", "config.json")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "deskhub", "config.json")
}
