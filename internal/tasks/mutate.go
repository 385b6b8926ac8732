package tasks

import (
	"fmt"
	"strings"

	"github.com/kalambet/deskhub/internal/collection"
)

// Toggle flips the completed flag of the task with id.
func Toggle(items []Task, id string) ([]Task, bool) {
	return collection.Update(items, id, func(t Task) Task {
		t.Completed = !t.Completed
		return t
	})
}

// Partition splits items into active and completed tasks, keeping relative order.
func Partition(items []Task) (active, completed []Task) {
	for _, t := range items {
		if t.Completed {
			completed = append(completed, t)
		} else {
			active = append(active, t)
		}
	}
	return active, completed
}

// Reorder arranges the active tasks in the order given by ids and appends the
// completed tasks unchanged. ids must name every active task exactly once.
func Reorder(items []Task, ids []string) ([]Task, error) {
	active, completed := Partition(items)
	if len(ids) != len(active) {
		return nil, fmt.Errorf("%w: got %d ids for %d active tasks", ErrInvalidOrder, len(ids), len(active))
	}

	byID := make(map[string]Task, len(active))
	for _, t := range active {
		byID[t.ID] = t
	}

	out := make([]Task, 0, len(items))
	used := make(map[string]bool, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q is not an active task", ErrInvalidOrder, id)
		}
		if used[id] {
			return nil, fmt.Errorf("%w: %q listed twice", ErrInvalidOrder, id)
		}
		used[id] = true
		out = append(out, t)
	}
	return append(out, completed...), nil
}

// Edit describes changes to a task's details. Nil fields are left as they are.
type Edit struct {
	Title       *string
	Description *string
	Deadline    *string
	DueTime     *string
	Priority    *Priority

	AddReminders []string
	// RemoveReminders holds indexes into the task's current reminders.
	RemoveReminders []int
}

// ApplyEdit returns t with e merged in. Blank titles are rejected.
func ApplyEdit(t Task, e Edit) (Task, error) {
	if e.Title != nil {
		if collection.Blank(*e.Title) {
			return Task{}, fmt.Errorf("%w: title is empty", collection.ErrRejected)
		}
		t.Title = strings.TrimSpace(*e.Title)
	}
	if e.Description != nil {
		t.Description = *e.Description
	}
	if e.Deadline != nil {
		t.Deadline = *e.Deadline
	}
	if e.DueTime != nil {
		t.DueTime = *e.DueTime
	}
	if e.Priority != nil {
		t.Priority = *e.Priority
	}

	if len(e.RemoveReminders) > 0 {
		drop := make(map[int]bool, len(e.RemoveReminders))
		for _, i := range e.RemoveReminders {
			if i < 0 || i >= len(t.Reminders) {
				return Task{}, fmt.Errorf("%w: no reminder at index %d", collection.ErrRejected, i)
			}
			drop[i] = true
		}
		var kept []string
		for i, r := range t.Reminders {
			if !drop[i] {
				kept = append(kept, r)
			}
		}
		t.Reminders = kept
	}
	for _, r := range e.AddReminders {
		if collection.Blank(r) {
			continue
		}
		t.Reminders = append(append([]string(nil), t.Reminders...), r)
	}
	if len(t.Reminders) == 0 {
		t.Reminders = nil
	}

	if err := collection.Validate(t); err != nil {
		return Task{}, err
	}
	return t, nil
}
