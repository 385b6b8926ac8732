package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// configFileEnv points every platform at a JSON config file instead of its
// native store.
const configFileEnv = "DESKHUB_CONFIG_FILE"

// fileBackend stores config as JSON grouped by the first key segment:
//
//	{"storage": {"data_dir": "/srv/deskhub"}, "automation": {"delay": "2s"}}
type fileBackend struct {
	path string
	data map[string]map[string]json.RawMessage
}

func newFileBackend(path string) *fileBackend {
	b := &fileBackend{path: path, data: make(map[string]map[string]json.RawMessage)}
	b.load()
	return b
}

func splitKey(key string) (section, name string) {
	section, name, ok := strings.Cut(key, ".")
	if !ok {
		return "general", key
	}
	return section, name
}

func (b *fileBackend) load() {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("could not read config file, using defaults", "path", b.path, "error", err)
		}
		return
	}
	if err := json.Unmarshal(data, &b.data); err != nil {
		slog.Warn("could not parse config file, using defaults", "path", b.path, "error", err)
		b.data = nil
	}
	if b.data == nil {
		b.data = make(map[string]map[string]json.RawMessage)
	}
}

// save writes the whole file through a temp file so a crash never leaves a
// truncated config behind.
func (b *fileBackend) save() error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := json.MarshalIndent(b.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("creating temp config: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}

func (b *fileBackend) raw(key string) (json.RawMessage, bool) {
	section, name := splitKey(key)
	v, ok := b.data[section][name]
	return v, ok
}

func (b *fileBackend) GetString(key string) (string, bool, error) {
	raw, ok := b.raw(key)
	if !ok {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// Numbers and booleans are read back in their literal form.
		return strings.TrimSpace(string(raw)), true, nil
	}
	return s, true, nil
}

func (b *fileBackend) GetInt(key string) (int, bool, error) {
	raw, ok := b.raw(key)
	if !ok {
		return 0, false, nil
	}
	var i int
	if err := json.Unmarshal(raw, &i); err == nil {
		return i, true, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, true, fmt.Errorf("value %s for %s is not an integer", raw, key)
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, true, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return i, true, nil
}

func (b *fileBackend) set(key string, val any) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	section, name := splitKey(key)
	if b.data[section] == nil {
		b.data[section] = make(map[string]json.RawMessage)
	}
	b.data[section][name] = raw
	return b.save()
}

func (b *fileBackend) SetString(key, val string) error {
	return b.set(key, val)
}

func (b *fileBackend) SetInt(key string, val int) error {
	return b.set(key, val)
}

// Delete removes key. Removing an absent key does not touch the file.
func (b *fileBackend) Delete(key string) error {
	section, name := splitKey(key)
	if _, ok := b.data[section][name]; !ok {
		return nil
	}
	delete(b.data[section], name)
	if len(b.data[section]) == 0 {
		delete(b.data, section)
	}
	return b.save()
}
