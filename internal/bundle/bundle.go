// Package bundle exports every dashboard collection into one JSON document
// and imports such documents back.
package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kalambet/deskhub/internal/collection"
	"github.com/kalambet/deskhub/internal/files"
	"github.com/kalambet/deskhub/internal/messages"
	"github.com/kalambet/deskhub/internal/notes"
	"github.com/kalambet/deskhub/internal/profile"
	"github.com/kalambet/deskhub/internal/tasks"
)

// ErrMalformed is returned when an import document cannot be decoded or
// fails validation. Nothing is written when it is returned.
var ErrMalformed = errors.New("malformed bundle")

// Bundle is the export document.
type Bundle struct {
	Tasks      []tasks.Task       `json:"tasks"`
	Files      []files.FileItem   `json:"files"`
	Messages   []messages.Message `json:"messages"`
	Notes      []notes.Note       `json:"notes,omitempty"`
	Settings   profile.Settings   `json:"settings"`
	Profile    profile.Profile    `json:"profile"`
	ExportedAt string             `json:"exportedAt"`
}

// Backend is the storage capability the bundler needs.
// Implemented by storage.Store.
type Backend interface {
	Get(key string) (string, bool, error)
	Keys(prefix string) ([]string, error)
	SetMany(values map[string]string) error
	DeletePrefix(prefix string) (int, error)
	ValueSize(prefix string) (int64, error)
}

// Sources are the live stores read on export and reloaded after import.
type Sources struct {
	Tasks    *collection.Store[tasks.Task]
	Files    *collection.Store[files.FileItem]
	Messages *collection.Store[messages.Message]
	Notes    *collection.Store[notes.Note]
	Profile  *profile.Manager
}

func (s Sources) reload() {
	s.Tasks.Reload()
	s.Files.Reload()
	s.Messages.Reload()
	s.Notes.Reload()
	s.Profile.Reload()
}

// Bundler moves the whole dashboard in and out of one document.
type Bundler struct {
	backend Backend
	ns      collection.Namespace
	src     Sources
	clock   collection.Clock
}

// New creates a Bundler.
func New(backend Backend, ns collection.Namespace, src Sources, clock collection.Clock) *Bundler {
	return &Bundler{backend: backend, ns: ns, src: src, clock: clock}
}

// Export snapshots every collection and both singletons.
func (b *Bundler) Export() (Bundle, error) {
	var out Bundle
	var err error
	if out.Tasks, err = b.src.Tasks.All(); err != nil {
		return Bundle{}, fmt.Errorf("exporting tasks: %w", err)
	}
	if out.Files, err = b.src.Files.All(); err != nil {
		return Bundle{}, fmt.Errorf("exporting files: %w", err)
	}
	if out.Messages, err = b.src.Messages.All(); err != nil {
		return Bundle{}, fmt.Errorf("exporting messages: %w", err)
	}
	if out.Notes, err = b.src.Notes.All(); err != nil {
		return Bundle{}, fmt.Errorf("exporting notes: %w", err)
	}
	if out.Settings, err = b.src.Profile.Settings(); err != nil {
		return Bundle{}, fmt.Errorf("exporting settings: %w", err)
	}
	if out.Profile, err = b.src.Profile.Profile(); err != nil {
		return Bundle{}, fmt.Errorf("exporting profile: %w", err)
	}

	// Empty collections export as [] rather than null.
	if out.Tasks == nil {
		out.Tasks = []tasks.Task{}
	}
	if out.Files == nil {
		out.Files = []files.FileItem{}
	}
	if out.Messages == nil {
		out.Messages = []messages.Message{}
	}
	out.ExportedAt = b.clock.Now().UTC().Format(time.RFC3339Nano)
	return out, nil
}

// Write encodes bundle as indented JSON.
func Write(w io.Writer, bundle Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bundle); err != nil {
		return fmt.Errorf("encoding bundle: %w", err)
	}
	return nil
}

// Filename returns the default export file name for an export taken at t.
func (b *Bundler) Filename(t time.Time) string {
	return b.ns.Prefix() + "backup-" + strconv.FormatInt(t.UnixMilli(), 10) + ".json"
}

// Report lists what an import replaced.
type Report struct {
	// Imported holds the names of the slices that were overwritten, in
	// document order of the known keys.
	Imported []string
}

// ClearAll deletes every namespaced key and reports how many were removed.
func (b *Bundler) ClearAll() (int, error) {
	n, err := b.backend.DeletePrefix(b.ns.Prefix())
	if err != nil {
		return 0, fmt.Errorf("clearing data: %w", err)
	}
	b.src.reload()
	return n, nil
}

// Size returns the total length of all stored values, in bytes.
func (b *Bundler) Size() (int64, error) {
	n, err := b.backend.ValueSize(b.ns.Prefix())
	if err != nil {
		return 0, fmt.Errorf("measuring storage: %w", err)
	}
	return n, nil
}

// Usage is the stored size of one slice, counted in characters like Size.
type Usage struct {
	Name string
	Size int64
}

// Usage lists every stored slice in key order.
func (b *Bundler) Usage() ([]Usage, error) {
	prefix := b.ns.Prefix()
	keys, err := b.backend.Keys(prefix)
	if err != nil {
		return nil, fmt.Errorf("listing stored keys: %w", err)
	}
	out := make([]Usage, 0, len(keys))
	for _, k := range keys {
		v, ok, err := b.backend.Get(k)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", k, err)
		}
		if !ok {
			continue
		}
		out = append(out, Usage{
			Name: strings.TrimPrefix(k, prefix),
			Size: int64(utf8.RuneCountInString(v)),
		})
	}
	return out, nil
}
