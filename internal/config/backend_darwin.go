//go:build darwin

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultsDomain = "com.deskhub.app"

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "deskhub-data"
	}
	return filepath.Join(home, "Library", "Application Support", "deskhub")
}

// newPlatformBackend uses UserDefaults unless DESKHUB_CONFIG_FILE names a
// JSON file.
func newPlatformBackend() ConfigBackend {
	if p := os.Getenv(configFileEnv); p != "" {
		return newFileBackend(p)
	}
	return &defaultsBackend{domain: defaultsDomain}
}

// defaultsBackend stores config in a UserDefaults domain via the defaults CLI.
type defaultsBackend struct {
	domain string
}

// run invokes defaults. found is false when defaults reports a missing key
// (exit status 1).
func (b *defaultsBackend) run(verb, key string, extra ...string) (out string, found bool, err error) {
	args := append([]string{verb, b.domain, key}, extra...)
	var stdout, stderr bytes.Buffer
	cmd := exec.Command("defaults", args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", false, nil
		}
		return "", false, fmt.Errorf("defaults %s %s: %w: %s", verb, key, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), true, nil
}

func (b *defaultsBackend) GetString(key string) (string, bool, error) {
	return b.run("read", key)
}

func (b *defaultsBackend) GetInt(key string) (int, bool, error) {
	s, ok, err := b.run("read", key)
	if !ok || err != nil {
		return 0, ok, err
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, true, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return i, true, nil
}

func (b *defaultsBackend) SetString(key, val string) error {
	_, _, err := b.run("write", key, "-string", val)
	return err
}

func (b *defaultsBackend) SetInt(key string, val int) error {
	_, _, err := b.run("write", key, "-int", strconv.Itoa(val))
	return err
}

// Delete removes key. A key that was never set is not an error.
func (b *defaultsBackend) Delete(key string) error {
	_, _, err := b.run("delete", key)
	return err
}
