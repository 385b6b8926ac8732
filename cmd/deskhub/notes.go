package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newNoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Keep quick notes",
	}

	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a quick note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				n, err := a.notes.Add(strings.Join(args, " "))
				if err != nil {
					return softFail(cmd.ErrOrStderr(), err)
				}
				printSuccess(cmd.ErrOrStderr(), "Saved note %s", n.ID)
				fmt.Fprintln(cmd.OutOrStdout(), n.ID)
				return nil
			})
		},
	}

	var query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List notes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				all, err := a.notes.List(query)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if len(all) == 0 {
					fmt.Fprintln(w, "No notes.")
					return nil
				}
				for _, n := range all {
					when := n.CreatedAt
					if t, err := time.Parse(time.RFC3339Nano, n.CreatedAt); err == nil {
						when = humanize.Time(t)
					}
					fmt.Fprintf(w, "%s  %-14s %s\n", colorize(colorCyan, shortID(n.ID)), when, n.Content)
				}
				return nil
			})
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "search note text")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				removed, err := a.notes.Delete(args[0])
				if err != nil {
					return err
				}
				if !removed {
					printWarning(cmd.ErrOrStderr(), "No note %s", args[0])
					return nil
				}
				printSuccess(cmd.ErrOrStderr(), "Deleted note %s", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(add, list, del)
	return cmd
}
