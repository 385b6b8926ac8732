package tasks

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/kalambet/deskhub/internal/collection"
)

// --- Mocks ---

type mapBackend struct {
	mu   sync.Mutex
	data map[string]string
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
	return nil
}

type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("t%d", s.n)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func newTestPlanner(t *testing.T) (*Planner, *mapBackend) {
	t.Helper()
	b := &mapBackend{data: make(map[string]string)}
	store := collection.NewStore[Task](b, "deskhub-tasks")
	return NewPlanner(store, &seqIDs{}, fixedClock{testNow}), b
}

func taskIDs(items []Task) []string {
	out := make([]string, len(items))
	for i, t := range items {
		out[i] = t.ID
	}
	return out
}

// --- Tests ---

func TestAdd_WriteReport(t *testing.T) {
	p, b := newTestPlanner(t)

	task, err := p.Add(Draft{Title: "Write report", Priority: P1})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if task.Completed {
		t.Error("new task is completed")
	}
	if task.CreatedAt != testNow.UnixMilli() {
		t.Errorf("CreatedAt = %d, want %d", task.CreatedAt, testNow.UnixMilli())
	}

	all, err := p.List(Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("len = %d, want 1", len(all))
	}
	if _, ok := b.data["deskhub-tasks"]; !ok {
		t.Error("task not persisted")
	}

	toggled, err := p.Toggle(task.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !toggled.Completed {
		t.Error("Toggle did not complete the task")
	}
}

func TestAdd_DefaultsAndTrims(t *testing.T) {
	p, _ := newTestPlanner(t)

	task, err := p.Add(Draft{Title: "  Call mom  ", DueTime: "18:00"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if task.Priority != P2 {
		t.Errorf("Priority = %q, want P2", task.Priority)
	}
	if task.Title != "Call mom" {
		t.Errorf("Title = %q, want trimmed", task.Title)
	}
	if task.DueTime != "18:00" {
		t.Errorf("DueTime = %q", task.DueTime)
	}
}

func TestAdd_BlankTitleRejected(t *testing.T) {
	p, b := newTestPlanner(t)

	for _, title := range []string{"", "   ", "\t"} {
		if _, err := p.Add(Draft{Title: title}); !errors.Is(err, collection.ErrRejected) {
			t.Errorf("Add(%q) error = %v, want ErrRejected", title, err)
		}
	}
	if len(b.data) != 0 {
		t.Error("rejected add wrote to the backend")
	}
}

func TestAdd_InvalidPriorityRejected(t *testing.T) {
	p, _ := newTestPlanner(t)
	if _, err := p.Add(Draft{Title: "x", Priority: "P9"}); !errors.Is(err, collection.ErrRejected) {
		t.Errorf("error = %v, want ErrRejected", err)
	}
}

func TestAdd_GrowsByOneWithFreshID(t *testing.T) {
	p, _ := newTestPlanner(t)

	seen := make(map[string]bool)
	for i := range 5 {
		before, _ := p.List(Filter{})
		task, err := p.Add(Draft{Title: fmt.Sprintf("task %d", i)})
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		after, _ := p.List(Filter{})
		if len(after) != len(before)+1 {
			t.Errorf("len %d -> %d, want +1", len(before), len(after))
		}
		if seen[task.ID] {
			t.Errorf("id %q reused", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	p, _ := newTestPlanner(t)
	task, _ := p.Add(Draft{Title: "x"})

	if _, err := p.Toggle(task.ID); err != nil {
		t.Fatal(err)
	}
	back, err := p.Toggle(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if back.Completed != task.Completed {
		t.Errorf("Completed = %v after two toggles, want %v", back.Completed, task.Completed)
	}
}

func TestToggleMissing(t *testing.T) {
	p, _ := newTestPlanner(t)
	if _, err := p.Toggle("nope"); !errors.Is(err, collection.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	p, _ := newTestPlanner(t)
	a, _ := p.Add(Draft{Title: "a"})
	p.Add(Draft{Title: "b"})

	if ok, err := p.Delete(a.ID); err != nil || !ok {
		t.Fatalf("Delete = (%v, %v)", ok, err)
	}
	before, _ := p.List(Filter{})
	if ok, err := p.Delete(a.ID); err != nil || ok {
		t.Fatalf("second Delete = (%v, %v), want (false, nil)", ok, err)
	}
	after, _ := p.List(Filter{})
	if fmt.Sprint(taskIDs(before)) != fmt.Sprint(taskIDs(after)) {
		t.Errorf("collection changed: %v -> %v", taskIDs(before), taskIDs(after))
	}
}

func TestReorder(t *testing.T) {
	items := []Task{
		{ID: "a"}, {ID: "b", Completed: true}, {ID: "c"}, {ID: "d"}, {ID: "e", Completed: true},
	}

	got, err := Reorder(items, []string{"d", "a", "c"})
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	want := []string{"d", "a", "c", "b", "e"}
	if fmt.Sprint(taskIDs(got)) != fmt.Sprint(want) {
		t.Errorf("Reorder = %v, want %v", taskIDs(got), want)
	}

	// Same membership.
	before, after := taskIDs(items), taskIDs(got)
	sort.Strings(before)
	sort.Strings(after)
	if fmt.Sprint(before) != fmt.Sprint(after) {
		t.Errorf("membership changed: %v -> %v", before, after)
	}

	// Completed tasks form a contiguous suffix.
	seenCompleted := false
	for _, task := range got {
		if task.Completed {
			seenCompleted = true
		} else if seenCompleted {
			t.Errorf("active task %q after a completed one", task.ID)
		}
	}
}

func TestReorder_InvalidPermutation(t *testing.T) {
	items := []Task{{ID: "a"}, {ID: "b"}, {ID: "c", Completed: true}}

	tests := []struct {
		name  string
		order []string
	}{
		{"too short", []string{"a"}},
		{"includes completed", []string{"a", "c"}},
		{"duplicate", []string{"a", "a"}},
		{"unknown", []string{"a", "z"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Reorder(items, tt.order); !errors.Is(err, ErrInvalidOrder) {
				t.Errorf("error = %v, want ErrInvalidOrder", err)
			}
		})
	}
}

func TestPlannerReorderPersists(t *testing.T) {
	p, _ := newTestPlanner(t)
	a, _ := p.Add(Draft{Title: "a"})
	b, _ := p.Add(Draft{Title: "b"})
	c, _ := p.Add(Draft{Title: "c"})
	p.Toggle(a.ID)

	if err := p.Reorder([]string{c.ID, b.ID}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	got, _ := p.List(Filter{})
	want := []string{c.ID, b.ID, a.ID}
	if fmt.Sprint(taskIDs(got)) != fmt.Sprint(want) {
		t.Errorf("order = %v, want %v", taskIDs(got), want)
	}
}

func TestEdit(t *testing.T) {
	p, _ := newTestPlanner(t)
	task, _ := p.Add(Draft{Title: "draft"})

	title := "Final report"
	deadline := "2026-10-31"
	prio := P1
	got, err := p.Edit(task.ID, Edit{
		Title:        &title,
		Deadline:     &deadline,
		Priority:     &prio,
		AddReminders: []string{"2026-10-30T09:00", "2026-10-31T08:00"},
	})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got.Title != title || got.Deadline != deadline || got.Priority != P1 {
		t.Errorf("Edit = %+v", got)
	}
	if len(got.Reminders) != 2 {
		t.Fatalf("Reminders = %v", got.Reminders)
	}

	got, err = p.Edit(task.ID, Edit{RemoveReminders: []int{0}})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if len(got.Reminders) != 1 || got.Reminders[0] != "2026-10-31T08:00" {
		t.Errorf("Reminders = %v", got.Reminders)
	}

	got, err = p.Edit(task.ID, Edit{RemoveReminders: []int{0}})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got.Reminders != nil {
		t.Errorf("Reminders = %v, want nil", got.Reminders)
	}
}

func TestEdit_Rejections(t *testing.T) {
	p, _ := newTestPlanner(t)
	task, _ := p.Add(Draft{Title: "draft"})

	blank := "  "
	if _, err := p.Edit(task.ID, Edit{Title: &blank}); !errors.Is(err, collection.ErrRejected) {
		t.Errorf("blank title: error = %v, want ErrRejected", err)
	}
	if _, err := p.Edit(task.ID, Edit{RemoveReminders: []int{3}}); !errors.Is(err, collection.ErrRejected) {
		t.Errorf("bad reminder index: error = %v, want ErrRejected", err)
	}
	if _, err := p.Edit("nope", Edit{}); !errors.Is(err, collection.ErrNotFound) {
		t.Errorf("missing id: error = %v, want ErrNotFound", err)
	}

	got, _ := p.Get(task.ID)
	if got.Title != "draft" {
		t.Errorf("rejected edit changed title to %q", got.Title)
	}
}

func TestFilterAndStats(t *testing.T) {
	items := []Task{
		{ID: "1", Title: "Write report", Priority: P1},
		{ID: "2", Title: "Review PR", Priority: P2, Completed: true},
		{ID: "3", Title: "Report expenses", Priority: P1, Description: "Q3"},
		{ID: "4", Title: "Gym", Priority: P3},
	}

	got := Filter{Query: "report", Priority: P1}.Apply(items)
	if fmt.Sprint(taskIDs(got)) != "[1 3]" {
		t.Errorf("query+priority = %v", taskIDs(got))
	}
	got = Filter{Status: StatusCompleted}.Apply(items)
	if fmt.Sprint(taskIDs(got)) != "[2]" {
		t.Errorf("completed = %v", taskIDs(got))
	}
	got = Filter{Query: "q3", Status: StatusActive}.Apply(items)
	if fmt.Sprint(taskIDs(got)) != "[3]" {
		t.Errorf("description search = %v", taskIDs(got))
	}

	s := ComputeStats(items)
	if s.Total != 4 || s.Active != 3 || s.Completed != 1 {
		t.Errorf("Stats = %+v", s)
	}
	if s.ActiveByPriority[P1] != 2 || s.ActiveByPriority[P2] != 0 || s.ActiveByPriority[P3] != 1 {
		t.Errorf("ActiveByPriority = %v", s.ActiveByPriority)
	}
	if s.Progress() != 25 {
		t.Errorf("Progress = %v, want 25", s.Progress())
	}
	if (Stats{}).Progress() != 0 {
		t.Error("Progress of empty stats should be 0")
	}
}

func TestParsePriority(t *testing.T) {
	if p, err := ParsePriority("P3"); err != nil || p != P3 {
		t.Errorf("ParsePriority(P3) = (%q, %v)", p, err)
	}
	if _, err := ParsePriority("p1"); err == nil {
		t.Error("ParsePriority(p1) should fail")
	}
}
