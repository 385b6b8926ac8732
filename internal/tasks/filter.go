package tasks

import "github.com/kalambet/deskhub/internal/collection"

// Status selects active or completed tasks in a Filter.
type Status string

const (
	StatusAll       Status = ""
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Filter narrows a task listing. Zero fields match everything.
type Filter struct {
	Query    string
	Priority Priority
	Status   Status
}

// Apply returns the tasks matching every set field.
func (f Filter) Apply(items []Task) []Task {
	var preds []collection.Predicate[Task]
	if f.Query != "" {
		preds = append(preds, func(t Task) bool {
			return collection.MatchText(f.Query, t.Title, t.Description)
		})
	}
	if f.Priority != "" {
		preds = append(preds, func(t Task) bool { return t.Priority == f.Priority })
	}
	switch f.Status {
	case StatusActive:
		preds = append(preds, func(t Task) bool { return !t.Completed })
	case StatusCompleted:
		preds = append(preds, func(t Task) bool { return t.Completed })
	}
	return collection.Where(items, preds...)
}

// Stats are the planner's derived counts.
type Stats struct {
	Total     int
	Active    int
	Completed int
	// ActiveByPriority counts only incomplete tasks.
	ActiveByPriority map[Priority]int
}

// Progress is the completed share of all tasks, in percent.
func (s Stats) Progress() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total) * 100
}

// ComputeStats derives Stats from items.
func ComputeStats(items []Task) Stats {
	active, completed := Partition(items)
	byPriority := collection.CountBy(active, func(t Task) Priority { return t.Priority })
	for _, p := range Priorities {
		if _, ok := byPriority[p]; !ok {
			byPriority[p] = 0
		}
	}
	return Stats{
		Total:            len(items),
		Active:           len(active),
		Completed:        len(completed),
		ActiveByPriority: byPriority,
	}
}
