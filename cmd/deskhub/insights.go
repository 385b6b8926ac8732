package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kalambet/deskhub/internal/files"
	"github.com/kalambet/deskhub/internal/messages"
	"github.com/kalambet/deskhub/internal/tasks"
)

func newInsightsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show productivity insights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				in, err := a.insights.Load()
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if asJSON {
					return printJSON(w, in)
				}

				fmt.Fprintln(w, colorize(colorBold, "Productivity"))
				printStatus(w, "Tasks completed", "%d of %d (%.1f%%)", in.TasksCompleted, in.TasksTotal, in.Progress)
				printStatus(w, "Hours worked", "%.1f", in.HoursWorked)
				printStatus(w, "Current streak", "%d days", in.CurrentStreak)
				printStatus(w, "Files managed", "%d", in.FilesManaged)
				printStatus(w, "Messages processed", "%d", in.MessagesProcessed)

				fmt.Fprintln(w, colorize(colorBold, "\nActive tasks"))
				for _, p := range tasks.Priorities {
					printStatus(w, string(p), "%d", in.ActiveByPriority[p])
				}
				fmt.Fprintln(w, colorize(colorBold, "\nFiles"))
				for _, c := range files.Categories {
					printStatus(w, string(c), "%d", in.FilesByCategory[c])
				}
				fmt.Fprintln(w, colorize(colorBold, "\nMessages"))
				printStatus(w, "Unread", "%d", in.UnreadMessages)
				for _, c := range messages.Categories {
					printStatus(w, string(c), "%d", in.MessagesByCategory[c])
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
