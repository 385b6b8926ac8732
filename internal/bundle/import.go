package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kalambet/deskhub/internal/collection"
	"github.com/kalambet/deskhub/internal/files"
	"github.com/kalambet/deskhub/internal/messages"
	"github.com/kalambet/deskhub/internal/notes"
	"github.com/kalambet/deskhub/internal/profile"
	"github.com/kalambet/deskhub/internal/tasks"
)

// section decodes and validates one top-level field of an import document and
// returns its canonical stored form.
type section struct {
	field string
	name  string
	parse func(raw json.RawMessage) (string, error)
}

var sections = []section{
	{"tasks", collection.NameTasks, parseList[tasks.Task]},
	{"files", collection.NameFiles, parseList[files.FileItem]},
	{"messages", collection.NameMessages, parseList[messages.Message]},
	{"notes", collection.NameNotes, parseList[notes.Note]},
	{"settings", collection.NameSettings, parseSingleton(profile.DefaultSettings)},
	{"profile", collection.NameProfile, parseSingleton(profile.DefaultProfile)},
}

func parseList[T collection.Record](raw json.RawMessage) (string, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return "", err
	}
	if err := collection.ValidateAll(items); err != nil {
		return "", err
	}
	if items == nil {
		items = []T{}
	}
	return encode(items)
}

// parseSingleton decodes over the defaults, so omitted fields keep them.
func parseSingleton[T any](def func() T) func(json.RawMessage) (string, error) {
	return func(raw json.RawMessage) (string, error) {
		v := def()
		if err := json.Unmarshal(raw, &v); err != nil {
			return "", err
		}
		if err := collection.Validate(v); err != nil {
			return "", err
		}
		return encode(v)
	}
}

func encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Import reads a bundle document and overwrites every slice it carries.
// Absent or null fields leave the stored slice untouched; unknown fields are
// ignored. Every present field is validated before anything is written, and
// all of them are committed together.
func (b *Bundler) Import(r io.Reader) (Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Report{}, fmt.Errorf("reading bundle: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc == nil {
		return Report{}, fmt.Errorf("%w: document is not an object", ErrMalformed)
	}

	values := make(map[string]string)
	var report Report
	for _, s := range sections {
		raw, ok := doc[s.field]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		val, err := s.parse(raw)
		if err != nil {
			return Report{}, fmt.Errorf("%w: %s: %v", ErrMalformed, s.field, err)
		}
		values[b.ns.Key(s.name)] = val
		report.Imported = append(report.Imported, s.field)
	}

	if len(values) == 0 {
		return report, nil
	}
	if err := b.backend.SetMany(values); err != nil {
		return Report{}, fmt.Errorf("committing import: %w", err)
	}
	b.src.reload()
	return report, nil
}
