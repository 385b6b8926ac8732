package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kDuration
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "storage.data_dir", typ: kString, env: "DESKHUB_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "storage.key_prefix", typ: kString, env: "DESKHUB_STORAGE_KEY_PREFIX",
		apply:   func(cfg *Config, v any) { cfg.Storage.KeyPrefix = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.KeyPrefix },
	},
	{
		key: "files.inline_limit", typ: kInt, env: "DESKHUB_FILES_INLINE_LIMIT",
		apply:   func(cfg *Config, v any) { cfg.Files.InlineLimit = v.(int) },
		extract: func(cfg Config) any { return cfg.Files.InlineLimit },
	},
	{
		key: "automation.delay", typ: kDuration, env: "DESKHUB_AUTOMATION_DELAY",
		apply:   func(cfg *Config, v any) { cfg.Automation.Delay = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Automation.Delay },
	},
	{
		key: "automation.archive_after_days", typ: kInt, env: "DESKHUB_AUTOMATION_ARCHIVE_AFTER_DAYS",
		apply:   func(cfg *Config, v any) { cfg.Automation.ArchiveAfterDays = v.(int) },
		extract: func(cfg Config) any { return cfg.Automation.ArchiveAfterDays },
	},
	{
		key: "automation.message_retention_days", typ: kInt, env: "DESKHUB_AUTOMATION_MESSAGE_RETENTION_DAYS",
		apply:   func(cfg *Config, v any) { cfg.Automation.MessageRetentionDays = v.(int) },
		extract: func(cfg Config) any { return cfg.Automation.MessageRetentionDays },
	},
	{
		key: "log.level", typ: kString, env: "DESKHUB_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func lookupSpec(key string) (keySpec, bool) {
	for _, s := range specs {
		if s.key == key {
			return s, true
		}
	}
	return keySpec{}, false
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kDuration:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok && v != "" {
				if d, err := time.ParseDuration(v); err == nil {
					s.apply(cfg, d)
				} else {
					slog.Warn("could not parse duration from config key, using default", "key", s.key, "value", v, "error", err)
				}
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				slog.Warn("could not parse integer from env var, using default", "env", s.env, "value", raw, "error", err)
			}
		case kDuration:
			if d, err := time.ParseDuration(raw); err == nil {
				s.apply(cfg, d)
			} else {
				slog.Warn("could not parse duration from env var, using default", "env", s.env, "value", raw, "error", err)
			}
		}
	}
}
