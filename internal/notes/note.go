package notes

import (
	"fmt"
	"strings"
	"time"

	"github.com/kalambet/deskhub/internal/collection"
)

// Note is a quick free-form note.
type Note struct {
	ID      string `json:"id" validate:"required"`
	Content string `json:"content" validate:"notblank"`
	// CreatedAt is an RFC 3339 timestamp.
	CreatedAt string `json:"createdAt"`
}

func (n Note) RecordID() string { return n.ID }

// Pad holds the quick notes, newest first.
type Pad struct {
	store *collection.Store[Note]
	ids   collection.IDProvider
	clock collection.Clock
}

// NewPad creates a Pad.
func NewPad(store *collection.Store[Note], ids collection.IDProvider, clock collection.Clock) *Pad {
	return &Pad{store: store, ids: ids, clock: clock}
}

// Add puts a note at the top. Blank content is rejected without writing.
func (p *Pad) Add(content string) (Note, error) {
	if collection.Blank(content) {
		return Note{}, fmt.Errorf("%w: note is empty", collection.ErrRejected)
	}

	var note Note
	err := p.store.Apply(func(items []Note) ([]Note, error) {
		id, err := collection.FreshID(p.ids, items)
		if err != nil {
			return nil, err
		}
		note = Note{
			ID:        id,
			Content:   strings.TrimSpace(content),
			CreatedAt: p.clock.Now().UTC().Format(time.RFC3339Nano),
		}
		return collection.Prepend(items, note), nil
	})
	if err != nil {
		return Note{}, err
	}
	return note, nil
}

// Delete removes note id. Deleting an absent id is a no-op.
func (p *Pad) Delete(id string) (bool, error) {
	return p.store.Delete(id)
}

// List returns notes whose content contains query, or all notes when query is
// empty.
func (p *Pad) List(query string) ([]Note, error) {
	items, err := p.store.All()
	if err != nil {
		return nil, err
	}
	if query == "" {
		return items, nil
	}
	return collection.Where(items, func(n Note) bool {
		return collection.MatchText(query, n.Content)
	}), nil
}
