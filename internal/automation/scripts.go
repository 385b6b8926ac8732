// Package automation holds the fixed registry of maintenance scripts and the
// runner that executes them.
package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/kalambet/deskhub/internal/collection"
	"github.com/kalambet/deskhub/internal/messages"
	"github.com/kalambet/deskhub/internal/tasks"
)

// Script is one registered maintenance action.
type Script struct {
	ID          string
	Name        string
	Description string
	// Action mutates the backend and returns a short summary of what changed.
	Action func(ctx context.Context) (string, error)
}

// Compactor reclaims unused space in the backend.
// Implemented by storage.Store.
type Compactor interface {
	Compact() error
}

// Targets are the collections and limits the built-in scripts operate on.
type Targets struct {
	Tasks     *collection.Store[tasks.Task]
	Messages  *collection.Store[messages.Message]
	Compactor Compactor
	Clock     collection.Clock

	// ArchiveAfter is the task age archive-old removes beyond.
	ArchiveAfter time.Duration
	// MessageRetention is the age after which read messages are archived.
	MessageRetention time.Duration
}

// Default thresholds.
const (
	DefaultArchiveAfter     = 30 * 24 * time.Hour
	DefaultMessageRetention = 7 * 24 * time.Hour
)

// Builtin returns the registry in display order.
func Builtin(t Targets) []Script {
	if t.ArchiveAfter <= 0 {
		t.ArchiveAfter = DefaultArchiveAfter
	}
	if t.MessageRetention <= 0 {
		t.MessageRetention = DefaultMessageRetention
	}
	return []Script{
		{
			ID:          "daily-reset",
			Name:        "Daily Reset",
			Description: "Clear completed tasks and reset daily counters",
			Action:      t.dropCompleted,
		},
		{
			ID:          "archive-old",
			Name:        "Archive Old Tasks",
			Description: fmt.Sprintf("Remove tasks created more than %s ago", days(t.ArchiveAfter)),
			Action:      t.archiveOld,
		},
		{
			ID:          "clear-completed",
			Name:        "Clear Completed Items",
			Description: "Remove all completed tasks from the planner",
			Action:      t.dropCompleted,
		},
		{
			ID:          "cleanup-messages",
			Name:        "Cleanup Messages",
			Description: fmt.Sprintf("Archive read messages older than %s", days(t.MessageRetention)),
			Action:      t.cleanupMessages,
		},
		{
			ID:          "optimize-storage",
			Name:        "Optimize Storage",
			Description: "Compact the database file",
			Action:      t.optimize,
		},
	}
}

func days(d time.Duration) string {
	n := int(d / (24 * time.Hour))
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// retainTasks rewrites the task collection keeping only tasks for which keep
// is true, and returns how many were removed.
func (t Targets) retainTasks(keep func(tasks.Task) bool) (int, error) {
	t.Tasks.Reload()
	removed := 0
	err := t.Tasks.Apply(func(items []tasks.Task) ([]tasks.Task, error) {
		next := collection.Retain(items, keep)
		removed = len(items) - len(next)
		return next, nil
	})
	return removed, err
}

func (t Targets) dropCompleted(context.Context) (string, error) {
	n, err := t.retainTasks(func(task tasks.Task) bool { return !task.Completed })
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("removed %d completed tasks", n), nil
}

func (t Targets) archiveOld(context.Context) (string, error) {
	cutoff := t.Clock.Now().Add(-t.ArchiveAfter).UnixMilli()
	n, err := t.retainTasks(func(task tasks.Task) bool { return task.CreatedAt > cutoff })
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("removed %d old tasks", n), nil
}

func (t Targets) cleanupMessages(context.Context) (string, error) {
	cutoff := t.Clock.Now().Add(-t.MessageRetention).UnixMilli()
	t.Messages.Reload()
	archived := 0
	err := t.Messages.Apply(func(items []messages.Message) ([]messages.Message, error) {
		return collection.Map(items, func(m messages.Message) messages.Message {
			if m.Status == messages.Read && m.Timestamp < cutoff {
				m.Status = messages.Archived
				archived++
			}
			return m
		}), nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("archived %d messages", archived), nil
}

func (t Targets) optimize(context.Context) (string, error) {
	if err := t.Compactor.Compact(); err != nil {
		return "", err
	}
	return "database compacted", nil
}
