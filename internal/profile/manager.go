package profile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kalambet/deskhub/internal/collection"
)

// Manager provides cached access to the settings and profile singletons.
type Manager struct {
	backend     collection.Backend
	settingsKey string
	profileKey  string
	clock       collection.Clock
	ttl         time.Duration

	mu         sync.RWMutex
	settings   *Settings
	profile    *Profile
	settingsAt time.Time
	profileAt  time.Time
}

// NewManager creates a Manager with a 60-second cache TTL. Values written by
// another process become visible once the cache expires.
func NewManager(backend collection.Backend, ns collection.Namespace) *Manager {
	return NewManagerWithClock(backend, ns, collection.SystemClock{}, 60*time.Second)
}

// NewManagerWithClock creates a Manager with a custom clock (for testing).
func NewManagerWithClock(backend collection.Backend, ns collection.Namespace, clock collection.Clock, ttl time.Duration) *Manager {
	return &Manager{
		backend:     backend,
		settingsKey: ns.Key(collection.NameSettings),
		profileKey:  ns.Key(collection.NameProfile),
		clock:       clock,
		ttl:         ttl,
	}
}

// Settings returns the stored settings, or DefaultSettings when none are stored.
func (m *Manager) Settings() (Settings, error) {
	m.mu.RLock()
	if m.settings != nil && m.fresh(m.settingsAt) {
		s := *m.settings
		m.mu.RUnlock()
		return s, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settingsLocked()
}

// Profile returns the stored profile, or DefaultProfile when none is stored.
func (m *Manager) Profile() (Profile, error) {
	m.mu.RLock()
	if m.profile != nil && m.fresh(m.profileAt) {
		p := *m.profile
		m.mu.RUnlock()
		return p, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profileLocked()
}

func (m *Manager) fresh(at time.Time) bool {
	return m.clock.Now().Before(at.Add(m.ttl))
}

// settingsLocked returns the cached settings, loading them when stale.
// m.mu must be held for writing.
func (m *Manager) settingsLocked() (Settings, error) {
	if m.settings != nil && m.fresh(m.settingsAt) {
		return *m.settings, nil
	}
	s := DefaultSettings()
	if err := load(m, m.settingsKey, &s, DefaultSettings()); err != nil {
		return Settings{}, err
	}
	m.settings = &s
	m.settingsAt = m.clock.Now()
	return s, nil
}

// profileLocked is settingsLocked for the profile.
func (m *Manager) profileLocked() (Profile, error) {
	if m.profile != nil && m.fresh(m.profileAt) {
		return *m.profile, nil
	}
	p := DefaultProfile()
	if err := load(m, m.profileKey, &p, DefaultProfile()); err != nil {
		return Profile{}, err
	}
	m.profile = &p
	m.profileAt = m.clock.Now()
	return p, nil
}

// load decodes key over target, which holds the defaults. Stored fields that
// are missing keep their default; malformed or invalid values fall back to
// def entirely.
func load[T any](m *Manager, key string, target *T, def T) error {
	raw, ok, err := m.backend.Get(key)
	if err != nil {
		return fmt.Errorf("loading %s: %w", key, err)
	}
	if !ok || raw == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		slog.Warn("malformed stored value, using defaults", "key", key, "error", err)
		*target = def
		return nil
	}
	if err := collection.Validate(*target); err != nil {
		slog.Warn("invalid stored value, using defaults", "key", key, "error", err)
		*target = def
	}
	return nil
}

// SaveSettings validates and replaces the stored settings.
func (m *Manager) SaveSettings(s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storeSettingsLocked(s)
}

// SaveProfile validates and replaces the stored profile.
func (m *Manager) SaveProfile(p Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storeProfileLocked(p)
}

func (m *Manager) storeSettingsLocked(s Settings) error {
	if err := collection.Validate(s); err != nil {
		return err
	}
	if err := m.save(m.settingsKey, s); err != nil {
		return err
	}
	m.settings = &s
	m.settingsAt = m.clock.Now()
	return nil
}

func (m *Manager) storeProfileLocked(p Profile) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Role = strings.TrimSpace(p.Role)
	if err := collection.Validate(p); err != nil {
		return err
	}
	if err := m.save(m.profileKey, p); err != nil {
		return err
	}
	m.profile = &p
	m.profileAt = m.clock.Now()
	return nil
}

func (m *Manager) save(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := m.backend.Set(key, string(b)); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// SettingsKeys lists the fields accepted by SetSettingsField.
var SettingsKeys = []string{"theme", "fontSize", "notifications"}

// SetSettingsField updates one settings field from its string form. The read
// and the write happen under one lock so concurrent field updates never drop
// each other.
func (m *Manager) SetSettingsField(key, value string) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.settingsLocked()
	if err != nil {
		return Settings{}, err
	}
	switch key {
	case "theme":
		s.Theme = Theme(strings.ToLower(value))
	case "fontSize", "font-size", "font_size":
		s.FontSize = FontSize(strings.ToLower(value))
	case "notifications":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: notifications must be true or false", collection.ErrRejected)
		}
		s.Notifications = on
	default:
		return Settings{}, fmt.Errorf("%w: unknown settings field %q (want %s)",
			collection.ErrRejected, key, strings.Join(SettingsKeys, ", "))
	}
	if err := m.storeSettingsLocked(s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// ProfileKeys lists the fields accepted by SetProfileField.
var ProfileKeys = []string{"name", "email", "role"}

// SetProfileField updates one profile field under the same lock as the read.
func (m *Manager) SetProfileField(key, value string) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.profileLocked()
	if err != nil {
		return Profile{}, err
	}
	switch key {
	case "name":
		p.Name = value
	case "email":
		p.Email = value
	case "role":
		p.Role = value
	default:
		return Profile{}, fmt.Errorf("%w: unknown profile field %q (want %s)",
			collection.ErrRejected, key, strings.Join(ProfileKeys, ", "))
	}
	if err := m.storeProfileLocked(p); err != nil {
		return Profile{}, err
	}
	return *m.profile, nil
}

// Reload drops both cached values so the next access reads the backend again.
func (m *Manager) Reload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = nil
	m.profile = nil
}

// Summary returns a one-line description of the user and their preferences.
func (m *Manager) Summary() (string, error) {
	p, err := m.Profile()
	if err != nil {
		return "", fmt.Errorf("getting profile for summary: %w", err)
	}
	s, err := m.Settings()
	if err != nil {
		return "", fmt.Errorf("getting settings for summary: %w", err)
	}
	return summarize(p, s), nil
}

func summarize(p Profile, s Settings) string {
	var parts []string
	who := p.Name
	if p.Email != "" {
		who += " <" + p.Email + ">"
	}
	parts = append(parts, "User: "+who+".")
	if p.Role != "" {
		parts = append(parts, "Role: "+p.Role+".")
	}
	notif := "off"
	if s.Notifications {
		notif = "on"
	}
	parts = append(parts, fmt.Sprintf("Prefers: %s theme, %s text, notifications %s.", s.Theme, s.FontSize, notif))
	return strings.Join(parts, " ")
}
