package messages

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kalambet/deskhub/internal/collection"
)

type mapBackend struct {
	mu     sync.Mutex
	data   map[string]string
	writes int
}

func (m *mapBackend) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapBackend) Set(key, val string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = val
	m.writes++
	return nil
}

type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("m%d", s.n)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

const testKey = "deskhub-messages"

func newTestInbox(t *testing.T, stored []Message) (*Inbox, *mapBackend) {
	t.Helper()
	b := &mapBackend{data: make(map[string]string)}
	if stored != nil {
		raw, err := json.Marshal(stored)
		if err != nil {
			t.Fatal(err)
		}
		b.data[testKey] = string(raw)
	}
	clock := fixedClock{testNow}
	return NewInbox(NewStore(b, testKey, clock), &seqIDs{}, clock), b
}

func fiveMessages() []Message {
	return []Message{
		{ID: "a", Title: "hi", Category: Direct, Status: Unread},
		{ID: "b", Title: "yo", Category: Direct, Status: Unread},
		{ID: "c", Title: "standup", Category: Reminder, Status: Read},
		{ID: "d", Title: "upgrade", Category: System, Status: Archived},
		{ID: "e", Title: "backup", Category: System, Status: Archived},
	}
}

func TestFilter_Conjunction(t *testing.T) {
	in, _ := newTestInbox(t, fiveMessages())

	got, err := in.List(Filter{Status: Unread, Category: Direct})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("unread Direct = %+v, want a and b", got)
	}

	got, _ = in.List(Filter{Status: Unread, Category: System})
	if len(got) != 0 {
		t.Errorf("unread System matched %d, want 0", len(got))
	}
}

func TestDemoSeed(t *testing.T) {
	in, b := newTestInbox(t, nil)

	got, err := in.List(Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("seeded %d messages, want 2", len(got))
	}
	if _, ok := b.data[testKey]; !ok {
		t.Error("seed was not persisted")
	}
	if got[0].Time().After(testNow) {
		t.Error("demo message is dated in the future")
	}
}

func TestDemoSeed_EmptyStoredCollectionStaysEmpty(t *testing.T) {
	in, _ := newTestInbox(t, []Message{})

	got, err := in.List(Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d messages, want 0", len(got))
	}
}

func TestCompose(t *testing.T) {
	in, _ := newTestInbox(t, fiveMessages())

	msg, err := in.Compose(" Lunch? ", "Noon at the usual place", "Deskhub User")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if msg.Title != "Lunch?" || msg.Category != Direct || msg.Status != Unread {
		t.Errorf("composed = %+v", msg)
	}
	if msg.Timestamp != testNow.UnixMilli() {
		t.Errorf("Timestamp = %d, want %d", msg.Timestamp, testNow.UnixMilli())
	}

	all, _ := in.List(Filter{})
	if len(all) != 6 || all[0].ID != msg.ID {
		t.Errorf("new message not at top: %v", all[0])
	}
}

func TestCompose_Rejected(t *testing.T) {
	tests := []struct {
		name           string
		title, content string
	}{
		{"blank title", "  ", "body"},
		{"blank content", "subject", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, b := newTestInbox(t, fiveMessages())
			_, err := in.Compose(tt.title, tt.content, "")
			if !errors.Is(err, collection.ErrRejected) {
				t.Errorf("error = %v, want ErrRejected", err)
			}
			if b.writes != 0 {
				t.Errorf("writes = %d, want 0", b.writes)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	in, b := newTestInbox(t, fiveMessages())

	m, err := in.Open("a")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if m.Status != Read {
		t.Errorf("status after open = %q, want read", m.Status)
	}
	if b.writes != 1 {
		t.Errorf("writes = %d, want 1", b.writes)
	}

	m, err = in.Open("d")
	if err != nil {
		t.Fatalf("Open archived: %v", err)
	}
	if m.Status != Archived {
		t.Errorf("archived message became %q", m.Status)
	}
	if b.writes != 1 {
		t.Errorf("opening a non-unread message wrote: writes = %d", b.writes)
	}

	if _, err := in.Open("zzz"); !errors.Is(err, collection.ErrNotFound) {
		t.Errorf("open missing error = %v, want ErrNotFound", err)
	}
}

func TestSetStatus(t *testing.T) {
	in, _ := newTestInbox(t, fiveMessages())

	m, err := in.SetStatus("c", Starred)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if m.Status != Starred {
		t.Errorf("status = %q, want starred", m.Status)
	}
	if _, err := in.SetStatus("c", "pinned"); !errors.Is(err, collection.ErrRejected) {
		t.Errorf("bad status error = %v, want ErrRejected", err)
	}
}

func TestDeleteAndStats(t *testing.T) {
	in, _ := newTestInbox(t, fiveMessages())

	if ok, err := in.Delete("e"); err != nil || !ok {
		t.Fatalf("Delete = %v, %v", ok, err)
	}
	if ok, err := in.Delete("e"); err != nil || ok {
		t.Errorf("second Delete = %v, %v, want false, nil", ok, err)
	}

	s, err := in.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if s.Total != 4 || s.Unread != 2 || s.Archived != 1 || s.Starred != 0 {
		t.Errorf("stats = %+v", s)
	}
	if s.ByCategory[Direct] != 2 || s.ByCategory[Notification] != 0 {
		t.Errorf("ByCategory = %v", s.ByCategory)
	}
}

func TestParse(t *testing.T) {
	if c, err := ParseCategory("reminder"); err != nil || c != Reminder {
		t.Errorf("ParseCategory = %q, %v", c, err)
	}
	if _, err := ParseCategory("spam"); err == nil {
		t.Error("expected error for unknown category")
	}
	if s, err := ParseStatus("STARRED"); err != nil || s != Starred {
		t.Errorf("ParseStatus = %q, %v", s, err)
	}
}
