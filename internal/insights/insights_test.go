package insights

import (
	"testing"

	"github.com/kalambet/deskhub/internal/files"
	"github.com/kalambet/deskhub/internal/messages"
	"github.com/kalambet/deskhub/internal/tasks"
)

func completed(n, open int) []tasks.Task {
	var ts []tasks.Task
	for i := 0; i < n; i++ {
		ts = append(ts, tasks.Task{Priority: tasks.P1, Completed: true})
	}
	for i := 0; i < open; i++ {
		ts = append(ts, tasks.Task{Priority: tasks.P2})
	}
	return ts
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name       string
		done, open int
		wantHours  float64
		wantStreak int
		wantProg   float64
	}{
		{"empty", 0, 0, 0, 0, 0},
		{"three of four", 3, 1, 1.5, 3, 75},
		{"streak capped", 9, 0, 4.5, 7, 100},
		{"one of three", 1, 2, 0.5, 1, 33.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(completed(tt.done, tt.open), nil, nil)
			if got.TasksCompleted != tt.done {
				t.Errorf("TasksCompleted = %d, want %d", got.TasksCompleted, tt.done)
			}
			if got.HoursWorked != tt.wantHours {
				t.Errorf("HoursWorked = %v, want %v", got.HoursWorked, tt.wantHours)
			}
			if got.CurrentStreak != tt.wantStreak {
				t.Errorf("CurrentStreak = %d, want %d", got.CurrentStreak, tt.wantStreak)
			}
			if got.Progress != tt.wantProg {
				t.Errorf("Progress = %v, want %v", got.Progress, tt.wantProg)
			}
			if got.ActiveByPriority[tasks.P2] != tt.open {
				t.Errorf("active P2 = %d, want %d", got.ActiveByPriority[tasks.P2], tt.open)
			}
		})
	}
}

func TestCompute_FilesAndMessages(t *testing.T) {
	fs := []files.FileItem{{Category: files.Work}, {Category: files.Work}, {Category: files.Archive}}
	ms := []messages.Message{
		{Status: messages.Unread, Category: messages.Direct},
		{Status: messages.Read, Category: messages.Direct},
		{Status: messages.Archived, Category: messages.System},
		{Status: messages.Starred, Category: messages.Reminder},
	}

	got := Compute(nil, fs, ms)
	if got.FilesManaged != 3 || got.FilesByCategory[files.Work] != 2 {
		t.Errorf("files = %d %v", got.FilesManaged, got.FilesByCategory)
	}
	if got.MessagesProcessed != 2 {
		t.Errorf("MessagesProcessed = %d, want 2", got.MessagesProcessed)
	}
	if got.UnreadMessages != 1 {
		t.Errorf("UnreadMessages = %d, want 1", got.UnreadMessages)
	}
}
