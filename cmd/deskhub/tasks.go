package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/deskhub/internal/tasks"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the daily planner",
	}
	cmd.AddCommand(
		newTaskAddCmd(),
		newTaskListCmd(),
		newTaskToggleCmd(),
		newTaskEditCmd(),
		newTaskDeleteCmd(),
		newTaskReorderCmd(),
	)
	return cmd
}

func parsePriorityFlag(s string) (tasks.Priority, error) {
	if s == "" {
		return "", nil
	}
	return tasks.ParsePriority(strings.ToUpper(s))
}

func newTaskAddCmd() *cobra.Command {
	var priority, due string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Long: `Add a task to the planner.

Examples:
  deskhub task add "Write report" --priority P1
  deskhub task add "Standup" --due 10:00`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePriorityFlag(priority)
			if err != nil {
				return err
			}
			return withApp(cmd, func(a *app) error {
				t, err := a.planner.Add(tasks.Draft{
					Title:    strings.Join(args, " "),
					Priority: p,
					DueTime:  due,
				})
				if err != nil {
					return softFail(cmd.ErrOrStderr(), err)
				}
				printSuccess(cmd.ErrOrStderr(), "Added task %s", t.ID)
				fmt.Fprintln(cmd.OutOrStdout(), t.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "priority: P1, P2 or P3 (default P2)")
	cmd.Flags().StringVar(&due, "due", "", "due time, e.g. 14:30")
	return cmd
}

func newTaskListCmd() *cobra.Command {
	var query, priority, status string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePriorityFlag(priority)
			if err != nil {
				return err
			}
			st := tasks.Status(strings.ToLower(status))
			switch st {
			case tasks.StatusAll, tasks.StatusActive, tasks.StatusCompleted:
			default:
				return errUnknown("status", status, []string{"active", "completed"})
			}
			return withApp(cmd, func(a *app) error {
				list, err := a.planner.List(tasks.Filter{Query: query, Priority: p, Status: st})
				if err != nil {
					return err
				}
				if asJSON {
					if list == nil {
						list = []tasks.Task{}
					}
					return printJSON(cmd.OutOrStdout(), list)
				}
				stats, err := a.planner.Stats()
				if err != nil {
					return err
				}
				printTasks(cmd.OutOrStdout(), list)
				fmt.Fprintf(cmd.OutOrStdout(), "\n%d active, %d completed (%.0f%% done)\n",
					stats.Active, stats.Completed, stats.Progress())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "search title and description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "only this priority")
	cmd.Flags().StringVar(&status, "status", "", "active or completed")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printTasks(w io.Writer, list []tasks.Task) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	for _, t := range list {
		box := "[ ]"
		title := t.Title
		if t.Completed {
			box = "[x]"
			title = colorize(colorDim, title)
		}
		line := fmt.Sprintf("%s %s %s %s", colorize(colorCyan, shortID(t.ID)), box, priorityLabel(t.Priority), title)
		if t.DueTime != "" {
			line += "  due " + t.DueTime
		}
		if t.Deadline != "" {
			line += "  deadline " + t.Deadline
		}
		if len(t.Reminders) > 0 {
			line += fmt.Sprintf("  (%d reminders)", len(t.Reminders))
		}
		fmt.Fprintln(w, line)
	}
}

func priorityLabel(p tasks.Priority) string {
	switch p {
	case tasks.P1:
		return colorize(colorRed, string(p))
	case tasks.P2:
		return colorize(colorYellow, string(p))
	default:
		return colorize(colorGreen, string(p))
	}
}

// shortID abbreviates UUIDs for listings. Commands accept full ids only.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newTaskToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task completed or active again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				t, err := a.planner.Toggle(args[0])
				if err != nil {
					return err
				}
				state := "active"
				if t.Completed {
					state = "completed"
				}
				printSuccess(cmd.ErrOrStderr(), "%q is now %s", t.Title, state)
				return nil
			})
		},
	}
}

func newTaskEditCmd() *cobra.Command {
	var (
		title, description, deadline, due, priority string
		addReminders                                []string
		removeReminders                             []int
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Edit a task's fields. Only the flags given are changed.

Examples:
  deskhub task edit 3f2a... --title "Write final report" --priority P1
  deskhub task edit 3f2a... --remind "09:00" --remind "13:00"
  deskhub task edit 3f2a... --unremind 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var e tasks.Edit
			flags := cmd.Flags()
			if flags.Changed("title") {
				e.Title = &title
			}
			if flags.Changed("description") {
				e.Description = &description
			}
			if flags.Changed("deadline") {
				e.Deadline = &deadline
			}
			if flags.Changed("due") {
				e.DueTime = &due
			}
			if flags.Changed("priority") {
				p, err := parsePriorityFlag(priority)
				if err != nil {
					return err
				}
				e.Priority = &p
			}
			e.AddReminders = addReminders
			e.RemoveReminders = removeReminders

			return withApp(cmd, func(a *app) error {
				t, err := a.planner.Edit(args[0], e)
				if err != nil {
					return softFail(cmd.ErrOrStderr(), err)
				}
				printSuccess(cmd.ErrOrStderr(), "Updated %q", t.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&deadline, "deadline", "", "deadline date, e.g. 2026-10-31")
	cmd.Flags().StringVar(&due, "due", "", "due time")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "new priority")
	cmd.Flags().StringArrayVar(&addReminders, "remind", nil, "add a reminder (repeatable)")
	cmd.Flags().IntSliceVar(&removeReminders, "unremind", nil, "remove reminders by index")
	return cmd
}

func newTaskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				removed, err := a.planner.Delete(args[0])
				if err != nil {
					return err
				}
				if !removed {
					printWarning(cmd.ErrOrStderr(), "No task %s", args[0])
					return nil
				}
				printSuccess(cmd.ErrOrStderr(), "Deleted task %s", args[0])
				return nil
			})
		},
	}
}

func newTaskReorderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id>...",
		Short: "Reorder the active tasks",
		Long: `Reorder the active tasks. Every active task id must be given exactly once;
completed tasks stay at the end in their current order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				if err := a.planner.Reorder(args); err != nil {
					if errors.Is(err, tasks.ErrInvalidOrder) {
						printWarning(cmd.ErrOrStderr(), "%v", err)
						return nil
					}
					return err
				}
				printSuccess(cmd.ErrOrStderr(), "Reordered %d tasks", len(args))
				return nil
			})
		},
	}
}
