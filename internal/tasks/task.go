package tasks

import (
	"errors"
	"fmt"
)

// Priority ranks a task; P1 is the most urgent.
type Priority string

const (
	P1 Priority = "P1"
	P2 Priority = "P2"
	P3 Priority = "P3"
)

// Priorities lists every priority, most urgent first.
var Priorities = []Priority{P1, P2, P3}

// ParsePriority validates s as a Priority.
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority %q (want P1, P2 or P3)", s)
}

// ErrInvalidOrder is returned when a reorder is not a permutation of the active tasks.
var ErrInvalidOrder = errors.New("order is not a permutation of the active tasks")

// Task is one planner entry.
type Task struct {
	ID          string   `json:"id" validate:"required"`
	Title       string   `json:"title" validate:"notblank"`
	Priority    Priority `json:"priority" validate:"oneof=P1 P2 P3"`
	DueTime     string   `json:"dueTime,omitempty"`
	Completed   bool     `json:"completed"`
	CreatedAt   int64    `json:"createdAt"`
	Description string   `json:"description,omitempty"`
	Deadline    string   `json:"deadline,omitempty"`
	Reminders   []string `json:"reminders,omitempty"`
}

func (t Task) RecordID() string { return t.ID }
