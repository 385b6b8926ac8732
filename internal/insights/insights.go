// Package insights derives the dashboard's productivity numbers.
package insights

import (
	"math"

	"github.com/kalambet/deskhub/internal/collection"
	"github.com/kalambet/deskhub/internal/files"
	"github.com/kalambet/deskhub/internal/messages"
	"github.com/kalambet/deskhub/internal/tasks"
)

// HoursPerTask is the time credited for each completed task.
const HoursPerTask = 0.5

// MaxStreak caps the reported streak, in days.
const MaxStreak = 7

// Insights is the analytics summary.
type Insights struct {
	TasksCompleted    int     `json:"tasksCompleted"`
	TasksTotal        int     `json:"tasksTotal"`
	HoursWorked       float64 `json:"hoursWorked"`
	CurrentStreak     int     `json:"currentStreak"`
	FilesManaged      int     `json:"filesManaged"`
	MessagesProcessed int     `json:"messagesProcessed"`
	// Progress is the completed share of all tasks, in percent.
	Progress float64 `json:"progress"`

	ActiveByPriority   map[tasks.Priority]int    `json:"activeByPriority"`
	FilesByCategory    map[files.Category]int    `json:"filesByCategory"`
	UnreadMessages     int                       `json:"unreadMessages"`
	MessagesByCategory map[messages.Category]int `json:"messagesByCategory"`
}

// Compute derives Insights from the three collections.
func Compute(ts []tasks.Task, fs []files.FileItem, ms []messages.Message) Insights {
	taskStats := tasks.ComputeStats(ts)
	fileStats := files.ComputeStats(fs)
	msgStats := messages.ComputeStats(ms)

	return Insights{
		TasksCompleted:     taskStats.Completed,
		TasksTotal:         taskStats.Total,
		HoursWorked:        round1(float64(taskStats.Completed) * HoursPerTask),
		CurrentStreak:      min(taskStats.Completed, MaxStreak),
		FilesManaged:       fileStats.Total,
		MessagesProcessed:  collection.Count(ms, messages.Message.Processed),
		Progress:           round1(taskStats.Progress()),
		ActiveByPriority:   taskStats.ActiveByPriority,
		FilesByCategory:    fileStats.ByCategory,
		UnreadMessages:     msgStats.Unread,
		MessagesByCategory: msgStats.ByCategory,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Source reads the collections insights are computed from.
type Source struct {
	Tasks    *collection.Store[tasks.Task]
	Files    *collection.Store[files.FileItem]
	Messages *collection.Store[messages.Message]
}

// Load reads every collection and computes Insights.
func (s Source) Load() (Insights, error) {
	ts, err := s.Tasks.All()
	if err != nil {
		return Insights{}, err
	}
	fs, err := s.Files.All()
	if err != nil {
		return Insights{}, err
	}
	ms, err := s.Messages.All()
	if err != nil {
		return Insights{}, err
	}
	return Compute(ts, fs, ms), nil
}
