package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/deskhub/internal/automation"
	"github.com/kalambet/deskhub/internal/insights"
	"github.com/kalambet/deskhub/internal/messages"
	"github.com/kalambet/deskhub/internal/notes"
	"github.com/kalambet/deskhub/internal/profile"
	"github.com/kalambet/deskhub/internal/tasks"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Planner  *tasks.Planner
	Inbox    *messages.Inbox
	Notes    *notes.Pad
	Runner   *automation.Runner
	Profile  *profile.Manager
	Insights insights.Source
	Version  string
}

// NewMCPServer creates an MCP server with all deskhub tools and resources registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s := server.NewMCPServer(
		"deskhub",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("deskhub: local task planner, inbox, quick notes and maintenance scripts."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("add_task",
			mcp.WithDescription("Add a task to the planner."),
			mcp.WithString("title", mcp.Description("Task title"), mcp.Required()),
			mcp.WithString("priority", mcp.Description("P1, P2 or P3 (default P2)"), mcp.Enum("P1", "P2", "P3")),
			mcp.WithString("due_time", mcp.Description("Optional due time, e.g. 14:30")),
		),
		mcpAddTask(deps),
	)

	s.AddTool(
		mcp.NewTool("toggle_task",
			mcp.WithDescription("Flip a task between active and completed."),
			mcp.WithString("id", mcp.Description("Task id"), mcp.Required()),
		),
		mcpToggleTask(deps),
	)

	s.AddTool(
		mcp.NewTool("list_tasks",
			mcp.WithDescription("List planner tasks, optionally filtered."),
			mcp.WithString("query", mcp.Description("Case-insensitive text to match in title or description")),
			mcp.WithString("priority", mcp.Description("Only tasks of this priority"), mcp.Enum("P1", "P2", "P3")),
			mcp.WithString("status", mcp.Description("active or completed"), mcp.Enum("active", "completed")),
		),
		mcpListTasks(deps),
	)

	s.AddTool(
		mcp.NewTool("compose_message",
			mcp.WithDescription("Put a new direct message at the top of the inbox."),
			mcp.WithString("title", mcp.Description("Subject"), mcp.Required()),
			mcp.WithString("content", mcp.Description("Body"), mcp.Required()),
		),
		mcpComposeMessage(deps),
	)

	s.AddTool(
		mcp.NewTool("open_message",
			mcp.WithDescription("Read a message. Unread messages are marked read."),
			mcp.WithString("id", mcp.Description("Message id"), mcp.Required()),
		),
		mcpOpenMessage(deps),
	)

	s.AddTool(
		mcp.NewTool("add_note",
			mcp.WithDescription("Save a quick note."),
			mcp.WithString("content", mcp.Description("Note text"), mcp.Required()),
		),
		mcpAddNote(deps),
	)

	s.AddTool(
		mcp.NewTool("list_scripts",
			mcp.WithDescription("List the maintenance scripts and when each last ran."),
		),
		mcpListScripts(deps),
	)

	s.AddTool(
		mcp.NewTool("run_script",
			mcp.WithDescription("Run a maintenance script by id."),
			mcp.WithString("id", mcp.Description("Script id, e.g. clear-completed"), mcp.Required()),
		),
		mcpRunScript(deps),
	)

	s.AddTool(
		mcp.NewTool("set_preference",
			mcp.WithDescription("Update a settings or profile field."),
			mcp.WithString("key", mcp.Description("settings.theme, settings.fontSize, settings.notifications, profile.name, profile.email or profile.role"), mcp.Required()),
			mcp.WithString("value", mcp.Description("Value to set"), mcp.Required()),
		),
		mcpSetPreference(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"dashboard://insights",
			"Productivity Insights",
			mcp.WithResourceDescription("Task, file and message analytics as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceInsights(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"user://profile",
			"User Profile",
			mcp.WithResourceDescription("Current user profile and settings as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfile(deps),
	)

	return s
}

func mcpAddTask(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := req.RequireString("title")
		if err != nil {
			return mcpError("title is required"), nil
		}
		d := tasks.Draft{Title: title, DueTime: req.GetString("due_time", "")}
		if p := req.GetString("priority", ""); p != "" {
			if d.Priority, err = tasks.ParsePriority(p); err != nil {
				return mcpError(err.Error()), nil
			}
		}

		task, err := deps.Planner.Add(d)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to add task: %v", err)), nil
		}
		return mcpJSON(task)
	}
}

func mcpToggleTask(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		task, err := deps.Planner.Toggle(id)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to toggle task: %v", err)), nil
		}
		state := "active"
		if task.Completed {
			state = "completed"
		}
		return mcpText(fmt.Sprintf("Task %s is now %s", task.ID, state)), nil
	}
}

func mcpListTasks(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		f := tasks.Filter{
			Query:  req.GetString("query", ""),
			Status: tasks.Status(req.GetString("status", "")),
		}
		if p := req.GetString("priority", ""); p != "" {
			prio, err := tasks.ParsePriority(p)
			if err != nil {
				return mcpError(err.Error()), nil
			}
			f.Priority = prio
		}
		switch f.Status {
		case tasks.StatusAll, tasks.StatusActive, tasks.StatusCompleted:
		default:
			return mcpError(fmt.Sprintf("invalid status %q (want active or completed)", f.Status)), nil
		}

		list, err := deps.Planner.List(f)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list tasks: %v", err)), nil
		}
		if list == nil {
			list = []tasks.Task{}
		}
		return mcpJSON(list)
	}
}

func mcpComposeMessage(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := req.RequireString("title")
		if err != nil {
			return mcpError("title is required"), nil
		}
		content, err := req.RequireString("content")
		if err != nil {
			return mcpError("content is required"), nil
		}
		p, err := deps.Profile.Profile()
		if err != nil {
			return mcpError(fmt.Sprintf("failed to load profile: %v", err)), nil
		}

		msg, err := deps.Inbox.Compose(title, content, p.Name)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to compose message: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Sent message %s", msg.ID)), nil
	}
}

func mcpOpenMessage(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		msg, err := deps.Inbox.Open(id)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to open message: %v", err)), nil
		}
		return mcpJSON(msg)
	}
}

func mcpAddNote(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		content, err := req.RequireString("content")
		if err != nil {
			return mcpError("content is required"), nil
		}
		note, err := deps.Notes.Add(content)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to add note: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Stored note %s", note.ID)), nil
	}
}

func mcpListScripts(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		statuses, err := deps.Runner.Scripts()
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list scripts: %v", err)), nil
		}

		type scriptResult struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			Description string `json:"description"`
			LastRun     string `json:"last_run,omitempty"`
			LastSuccess *bool  `json:"last_success,omitempty"`
		}

		results := make([]scriptResult, len(statuses))
		for i, st := range statuses {
			results[i] = scriptResult{
				ID:          st.Script.ID,
				Name:        st.Script.Name,
				Description: st.Script.Description,
			}
			if st.LastRun != nil {
				ok := st.LastRun.Success
				results[i].LastRun = st.LastRun.FinishedAt.Format("2006-01-02T15:04:05Z07:00")
				results[i].LastSuccess = &ok
			}
		}
		return mcpJSON(results)
	}
}

func mcpRunScript(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		res, err := deps.Runner.Run(ctx, id)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to run script: %v", err)), nil
		}
		if !res.Success {
			return mcpError(res.Message), nil
		}
		text := res.Message
		if res.Detail != "" {
			text += ": " + res.Detail
		}
		return mcpText(text), nil
	}
}

func mcpSetPreference(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, err := req.RequireString("key")
		if err != nil {
			return mcpError("key is required"), nil
		}
		value, err := req.RequireString("value")
		if err != nil {
			return mcpError("value is required"), nil
		}

		scope, field, ok := strings.Cut(key, ".")
		switch {
		case ok && scope == "settings":
			_, err = deps.Profile.SetSettingsField(field, value)
		case ok && scope == "profile":
			_, err = deps.Profile.SetProfileField(field, value)
		default:
			return mcpError(fmt.Sprintf("unknown key %q (want settings.<field> or profile.<field>)", key)), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to set preference: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Set %s = %s", key, value)), nil
	}
}

func mcpResourceInsights(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		in, err := deps.Insights.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to compute insights: %w", err)
		}
		return jsonResource(req.Params.URI, in)
	}
}

func mcpResourceProfile(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		p, err := deps.Profile.Profile()
		if err != nil {
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}
		s, err := deps.Profile.Settings()
		if err != nil {
			return nil, fmt.Errorf("failed to get settings: %w", err)
		}
		return jsonResource(req.Params.URI, struct {
			Profile  profile.Profile  `json:"profile"`
			Settings profile.Settings `json:"settings"`
		}{p, s})
	}
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}

func mcpJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
