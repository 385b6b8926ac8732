package messages

import (
	"fmt"
	"strings"

	"github.com/kalambet/deskhub/internal/collection"
)

// Inbox is the message hub.
type Inbox struct {
	store *collection.Store[Message]
	ids   collection.IDProvider
	clock collection.Clock
}

// NewStore creates the message store, seeded with the demo inbox.
func NewStore(backend collection.Backend, key string, clock collection.Clock) *collection.Store[Message] {
	return collection.NewStore[Message](backend, key, collection.WithSeed(func() []Message {
		return Demo(clock.Now())
	}))
}

// NewInbox creates an Inbox.
func NewInbox(store *collection.Store[Message], ids collection.IDProvider, clock collection.Clock) *Inbox {
	return &Inbox{store: store, ids: ids, clock: clock}
}

// Compose puts a new unread Direct message at the top of the inbox. Blank
// titles or contents are rejected without writing.
func (in *Inbox) Compose(title, content, sender string) (Message, error) {
	if collection.Blank(title) || collection.Blank(content) {
		return Message{}, fmt.Errorf("%w: title and content are required", collection.ErrRejected)
	}

	var msg Message
	err := in.store.Apply(func(items []Message) ([]Message, error) {
		id, err := collection.FreshID(in.ids, items)
		if err != nil {
			return nil, err
		}
		msg = Message{
			ID:        id,
			Title:     strings.TrimSpace(title),
			Content:   strings.TrimSpace(content),
			Category:  Direct,
			Status:    Unread,
			Timestamp: in.clock.Now().UnixMilli(),
			Sender:    strings.TrimSpace(sender),
		}
		if err := collection.Validate(msg); err != nil {
			return nil, err
		}
		return collection.Prepend(items, msg), nil
	})
	if err != nil {
		return Message{}, err
	}
	return msg, nil
}

// SetStatus moves message id to status.
func (in *Inbox) SetStatus(id string, status Status) (Message, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return Message{}, fmt.Errorf("%w: %v", collection.ErrRejected, err)
	}
	var updated Message
	err := in.store.Update(id, func(m Message) Message {
		m.Status = status
		updated = m
		return m
	})
	return updated, err
}

// Open returns message id for viewing. Viewing an unread message marks it
// read; other statuses are left alone and nothing is written.
func (in *Inbox) Open(id string) (Message, error) {
	m, err := in.store.Get(id)
	if err != nil {
		return Message{}, err
	}
	if m.Status != Unread {
		return m, nil
	}
	return in.SetStatus(id, Read)
}

// Delete removes message id. Deleting an absent id is a no-op.
func (in *Inbox) Delete(id string) (bool, error) {
	return in.store.Delete(id)
}

// List returns the messages matching f, newest first as stored.
func (in *Inbox) List(f Filter) ([]Message, error) {
	items, err := in.store.All()
	if err != nil {
		return nil, err
	}
	return f.Apply(items), nil
}

// Stats summarises the whole inbox.
func (in *Inbox) Stats() (Stats, error) {
	items, err := in.store.All()
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(items), nil
}
