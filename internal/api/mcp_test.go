package api

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kalambet/deskhub/internal/automation"
	"github.com/kalambet/deskhub/internal/collection"
	"github.com/kalambet/deskhub/internal/files"
	"github.com/kalambet/deskhub/internal/insights"
	"github.com/kalambet/deskhub/internal/messages"
	"github.com/kalambet/deskhub/internal/notes"
	"github.com/kalambet/deskhub/internal/profile"
	"github.com/kalambet/deskhub/internal/storage"
	"github.com/kalambet/deskhub/internal/tasks"
)

// --- helpers ---

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func newTestMCPDeps(t *testing.T) (MCPDeps, *storage.Store) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ns := collection.Namespace(collection.DefaultPrefix)
	clock := fixedClock{testNow}
	ids := collection.UUIDs{}

	taskStore := collection.NewStore[tasks.Task](store, ns.Key(collection.NameTasks))
	fileStore := collection.NewStore[files.FileItem](store, ns.Key(collection.NameFiles))
	msgStore := messages.NewStore(store, ns.Key(collection.NameMessages), clock)
	noteStore := collection.NewStore[notes.Note](store, ns.Key(collection.NameNotes))

	scripts := automation.Builtin(automation.Targets{
		Tasks:     taskStore,
		Messages:  msgStore,
		Compactor: store,
		Clock:     clock,
	})

	return MCPDeps{
		Planner:  tasks.NewPlanner(taskStore, ids, clock),
		Inbox:    messages.NewInbox(msgStore, ids, clock),
		Notes:    notes.NewPad(noteStore, ids, clock),
		Runner:   automation.NewRunner(scripts, store, ids, clock, 0),
		Profile:  profile.NewManagerWithClock(store, ns, clock, time.Minute),
		Insights: insights.Source{Tasks: taskStore, Files: fileStore, Messages: msgStore},
	}, store
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func makeReadResourceRequest(uri string) mcp.ReadResourceRequest {
	return mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func callTool(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	result, err := h(context.Background(), makeCallToolRequest(name, args))
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", name, err)
	}
	return result
}

// --- tests ---

func TestMCPTool_AddToggleClear(t *testing.T) {
	deps, _ := newTestMCPDeps(t)

	result := callTool(t, mcpAddTask(deps), "add_task", map[string]interface{}{
		"title":    "Write report",
		"priority": "P1",
	})
	if result.IsError {
		t.Fatalf("add_task failed: %s", toolText(t, result))
	}
	var task tasks.Task
	if err := json.Unmarshal([]byte(toolText(t, result)), &task); err != nil {
		t.Fatalf("decoding task: %v", err)
	}
	if task.Priority != tasks.P1 || task.Completed {
		t.Errorf("task = %+v", task)
	}

	result = callTool(t, mcpToggleTask(deps), "toggle_task", map[string]interface{}{"id": task.ID})
	if result.IsError || !strings.Contains(toolText(t, result), "completed") {
		t.Fatalf("toggle_task = %s", toolText(t, result))
	}

	result = callTool(t, mcpRunScript(deps), "run_script", map[string]interface{}{"id": "clear-completed"})
	if result.IsError {
		t.Fatalf("run_script failed: %s", toolText(t, result))
	}

	result = callTool(t, mcpListTasks(deps), "list_tasks", map[string]interface{}{})
	if got := toolText(t, result); got != "[]" {
		t.Errorf("list_tasks = %s, want []", got)
	}
}

func TestMCPTool_AddTask_Invalid(t *testing.T) {
	deps, _ := newTestMCPDeps(t)
	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing title", map[string]interface{}{}},
		{"blank title", map[string]interface{}{"title": "   "}},
		{"bad priority", map[string]interface{}{"title": "x", "priority": "P7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, mcpAddTask(deps), "add_task", tt.args)
			if !result.IsError {
				t.Errorf("expected error result, got %s", toolText(t, result))
			}
		})
	}
}

func TestMCPTool_ListTasks_Filters(t *testing.T) {
	deps, _ := newTestMCPDeps(t)
	for _, d := range []tasks.Draft{
		{Title: "Budget review", Priority: tasks.P1},
		{Title: "Lunch", Priority: tasks.P3},
	} {
		if _, err := deps.Planner.Add(d); err != nil {
			t.Fatal(err)
		}
	}

	result := callTool(t, mcpListTasks(deps), "list_tasks", map[string]interface{}{"query": "budget", "status": "active"})
	var got []tasks.Task
	if err := json.Unmarshal([]byte(toolText(t, result)), &got); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Budget review" {
		t.Errorf("list_tasks = %+v", got)
	}

	result = callTool(t, mcpListTasks(deps), "list_tasks", map[string]interface{}{"status": "done"})
	if !result.IsError {
		t.Error("expected error for invalid status")
	}
}

func TestMCPTool_ComposeAndOpen(t *testing.T) {
	deps, _ := newTestMCPDeps(t)
	if _, err := deps.Profile.SetProfileField("name", "Ada"); err != nil {
		t.Fatal(err)
	}

	result := callTool(t, mcpComposeMessage(deps), "compose_message", map[string]interface{}{
		"title":   "Hello",
		"content": "World",
	})
	if result.IsError {
		t.Fatalf("compose_message failed: %s", toolText(t, result))
	}
	id := strings.TrimPrefix(toolText(t, result), "Sent message ")

	result = callTool(t, mcpOpenMessage(deps), "open_message", map[string]interface{}{"id": id})
	var msg messages.Message
	if err := json.Unmarshal([]byte(toolText(t, result)), &msg); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if msg.Status != messages.Read || msg.Sender != "Ada" {
		t.Errorf("opened message = %+v", msg)
	}

	result = callTool(t, mcpOpenMessage(deps), "open_message", map[string]interface{}{"id": "missing"})
	if !result.IsError {
		t.Error("expected error for missing message")
	}
}

func TestMCPTool_AddNote(t *testing.T) {
	deps, _ := newTestMCPDeps(t)

	result := callTool(t, mcpAddNote(deps), "add_note", map[string]interface{}{"content": "buy milk"})
	if result.IsError {
		t.Fatalf("add_note failed: %s", toolText(t, result))
	}
	all, err := deps.Notes.List("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Content != "buy milk" {
		t.Errorf("notes = %+v", all)
	}
}

func TestMCPTool_Scripts(t *testing.T) {
	deps, _ := newTestMCPDeps(t)

	result := callTool(t, mcpRunScript(deps), "run_script", map[string]interface{}{"id": "nope"})
	if !result.IsError {
		t.Error("expected error for unknown script")
	}
	callTool(t, mcpRunScript(deps), "run_script", map[string]interface{}{"id": "optimize-storage"})

	result = callTool(t, mcpListScripts(deps), "list_scripts", nil)
	var scripts []struct {
		ID          string `json:"id"`
		LastRun     string `json:"last_run"`
		LastSuccess *bool  `json:"last_success"`
	}
	if err := json.Unmarshal([]byte(toolText(t, result)), &scripts); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(scripts) != 5 {
		t.Fatalf("got %d scripts, want 5", len(scripts))
	}
	for _, s := range scripts {
		ran := s.ID == "optimize-storage"
		if ran != (s.LastRun != "") {
			t.Errorf("%s last_run = %q", s.ID, s.LastRun)
		}
		if ran && (s.LastSuccess == nil || !*s.LastSuccess) {
			t.Errorf("%s last_success = %v", s.ID, s.LastSuccess)
		}
	}
}

func TestMCPTool_SetPreference(t *testing.T) {
	deps, _ := newTestMCPDeps(t)
	handler := mcpSetPreference(deps)

	result := callTool(t, handler, "set_preference", map[string]interface{}{"key": "settings.theme", "value": "light"})
	if result.IsError {
		t.Fatalf("set_preference failed: %s", toolText(t, result))
	}
	s, _ := deps.Profile.Settings()
	if s.Theme != profile.Light {
		t.Errorf("Theme = %q, want light", s.Theme)
	}

	for _, key := range []string{"theme", "settings.volume", "account.name"} {
		result = callTool(t, handler, "set_preference", map[string]interface{}{"key": key, "value": "x"})
		if !result.IsError {
			t.Errorf("key %q: expected error", key)
		}
	}
}

func TestMCPResource_Profile(t *testing.T) {
	deps, _ := newTestMCPDeps(t)
	handler := mcpResourceProfile(deps)

	contents, err := handler(context.Background(), makeReadResourceRequest("user://profile"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}

	var got struct {
		Profile  profile.Profile  `json:"profile"`
		Settings profile.Settings `json:"settings"`
	}
	if err := json.Unmarshal([]byte(tc.Text), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Profile != profile.DefaultProfile() || got.Settings != profile.DefaultSettings() {
		t.Errorf("resource = %+v", got)
	}
}

func TestMCPResource_Insights(t *testing.T) {
	deps, _ := newTestMCPDeps(t)
	task, err := deps.Planner.Add(tasks.Draft{Title: "done"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := deps.Planner.Toggle(task.ID); err != nil {
		t.Fatal(err)
	}

	contents, err := mcpResourceInsights(deps)(context.Background(), makeReadResourceRequest("dashboard://insights"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tc := contents[0].(mcp.TextResourceContents)
	var in insights.Insights
	if err := json.Unmarshal([]byte(tc.Text), &in); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if in.TasksCompleted != 1 || in.HoursWorked != 0.5 || in.CurrentStreak != 1 {
		t.Errorf("insights = %+v", in)
	}
}

func TestMCPServer_ConcurrentCalls(t *testing.T) {
	deps, _ := newTestMCPDeps(t)

	addHandler := mcpAddTask(deps)
	listHandler := mcpListTasks(deps)

	var wg sync.WaitGroup
	errs := make(chan error, 20)

	for i := 0; i < 5; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			req := makeCallToolRequest("add_task", map[string]interface{}{"title": "concurrent"})
			if _, err := addHandler(context.Background(), req); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			req := makeCallToolRequest("list_tasks", map[string]interface{}{})
			if _, err := listHandler(context.Background(), req); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent call failed: %v", err)
	}
	all, _ := deps.Planner.List(tasks.Filter{})
	if len(all) != 5 {
		t.Errorf("got %d tasks, want 5", len(all))
	}
}

func TestNewMCPServer(t *testing.T) {
	deps, _ := newTestMCPDeps(t)
	if s := NewMCPServer(deps); s == nil {
		t.Fatal("NewMCPServer returned nil")
	}
}
