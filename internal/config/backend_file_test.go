package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestFileBackendOverridePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	doc := `{"log": {"level": "debug"}, "files": {"inline_limit": 99}, "automation": {"delay": "250ms"}}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(configFileEnv, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Files.InlineLimit != 99 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Automation.Delay.String() != "250ms" {
		t.Errorf("Delay = %v, want 250ms", cfg.Automation.Delay)
	}
}

func TestFileBackendSetAndDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	b := newFileBackend(path)

	if err := setKeyWith(b, "storage.key_prefix", "work-"); err != nil {
		t.Fatalf("set prefix: %v", err)
	}
	if err := setKeyWith(b, "automation.archive_after_days", "14"); err != nil {
		t.Fatalf("set days: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("config file is not sectioned JSON: %v\n%s", err, data)
	}
	if doc["storage"]["key_prefix"] != "work-" {
		t.Errorf("storage section = %v", doc["storage"])
	}
	if doc["automation"]["archive_after_days"] != float64(14) {
		t.Errorf("automation section = %v", doc["automation"])
	}

	reopened := newFileBackend(path)
	if n, ok, err := reopened.GetInt("automation.archive_after_days"); err != nil || !ok || n != 14 {
		t.Errorf("GetInt = %d, %v, %v", n, ok, err)
	}

	if err := unsetKeyWith(reopened, "storage.key_prefix"); err != nil {
		t.Fatalf("unset: %v", err)
	}
	if err := unsetKeyWith(reopened, "storage.key_prefix"); err != nil {
		t.Errorf("second unset: %v", err)
	}
	if _, ok, _ := newFileBackend(path).GetString("storage.key_prefix"); ok {
		t.Error("key_prefix still present after unset")
	}
}

func TestFileBackendReadsLooseValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	doc := `{"files": {"inline_limit": "2048"}, "log": {"level": 3}}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	b := newFileBackend(path)

	if n, ok, err := b.GetInt("files.inline_limit"); err != nil || !ok || n != 2048 {
		t.Errorf("GetInt(string) = %d, %v, %v", n, ok, err)
	}
	if s, ok, err := b.GetString("log.level"); err != nil || !ok || s != "3" {
		t.Errorf("GetString(number) = %q, %v, %v", s, ok, err)
	}
	if _, _, err := b.GetInt("log.level"); err != nil {
		t.Errorf("GetInt(number) error = %v", err)
	}
}

func TestFileBackendCorruptFile(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{not json`},
		{"null", `null`},
		{"array", `[1, 2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.json")
			if err := os.WriteFile(path, []byte(tt.doc), 0o600); err != nil {
				t.Fatal(err)
			}
			b := newFileBackend(path)
			if _, ok, err := b.GetString("log.level"); ok || err != nil {
				t.Errorf("corrupt file returned ok=%v err=%v", ok, err)
			}
			if err := b.SetString("log.level", "warn"); err != nil {
				t.Fatalf("SetString after corrupt load: %v", err)
			}
			if s, _, _ := newFileBackend(path).GetString("log.level"); s != "warn" {
				t.Errorf("log.level = %q, want warn", s)
			}
		})
	}
}
