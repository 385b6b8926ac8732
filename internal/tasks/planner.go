package tasks

import (
	"fmt"
	"strings"

	"github.com/kalambet/deskhub/internal/collection"
)

// Planner is the daily planner: a task collection plus its intents.
type Planner struct {
	store *collection.Store[Task]
	ids   collection.IDProvider
	clock collection.Clock
}

// NewPlanner creates a Planner over store.
func NewPlanner(store *collection.Store[Task], ids collection.IDProvider, clock collection.Clock) *Planner {
	return &Planner{store: store, ids: ids, clock: clock}
}

// Draft is the user input for a new task.
type Draft struct {
	Title    string
	Priority Priority // defaults to P2
	DueTime  string
}

// Add appends a new, incomplete task. Blank titles are rejected with
// collection.ErrRejected and nothing is written.
func (p *Planner) Add(d Draft) (Task, error) {
	if collection.Blank(d.Title) {
		return Task{}, fmt.Errorf("%w: title is empty", collection.ErrRejected)
	}
	if d.Priority == "" {
		d.Priority = P2
	}

	var created Task
	err := p.store.Apply(func(items []Task) ([]Task, error) {
		id, err := collection.FreshID(p.ids, items)
		if err != nil {
			return nil, err
		}
		created = Task{
			ID:        id,
			Title:     strings.TrimSpace(d.Title),
			Priority:  d.Priority,
			DueTime:   d.DueTime,
			CreatedAt: p.clock.Now().UnixMilli(),
		}
		if err := collection.Validate(created); err != nil {
			return nil, err
		}
		return collection.Append(items, created), nil
	})
	if err != nil {
		return Task{}, err
	}
	return created, nil
}

// Toggle flips the completed flag of task id and returns the updated task.
func (p *Planner) Toggle(id string) (Task, error) {
	var updated Task
	err := p.store.Apply(func(items []Task) ([]Task, error) {
		next, ok := Toggle(items, id)
		if !ok {
			return nil, fmt.Errorf("task %q: %w", id, collection.ErrNotFound)
		}
		updated, _ = collection.Find(next, id)
		return next, nil
	})
	return updated, err
}

// Edit merges e into task id.
func (p *Planner) Edit(id string, e Edit) (Task, error) {
	var updated Task
	err := p.store.Apply(func(items []Task) ([]Task, error) {
		cur, ok := collection.Find(items, id)
		if !ok {
			return nil, fmt.Errorf("task %q: %w", id, collection.ErrNotFound)
		}
		t, err := ApplyEdit(cur, e)
		if err != nil {
			return nil, err
		}
		updated = t
		next, _ := collection.Update(items, id, func(Task) Task { return t })
		return next, nil
	})
	return updated, err
}

// Delete removes task id. Deleting an absent id is a no-op.
func (p *Planner) Delete(id string) (bool, error) {
	return p.store.Delete(id)
}

// Reorder sets the order of the active tasks; completed tasks follow them.
func (p *Planner) Reorder(order []string) error {
	return p.store.Apply(func(items []Task) ([]Task, error) {
		return Reorder(items, order)
	})
}

// Get returns task id.
func (p *Planner) Get(id string) (Task, error) {
	return p.store.Get(id)
}

// List returns the tasks matching f, in collection order.
func (p *Planner) List(f Filter) ([]Task, error) {
	items, err := p.store.All()
	if err != nil {
		return nil, err
	}
	return f.Apply(items), nil
}

// Stats summarises the whole collection.
func (p *Planner) Stats() (Stats, error) {
	items, err := p.store.All()
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(items), nil
}
