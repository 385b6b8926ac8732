package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newScriptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script",
		Short: "Run maintenance scripts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List scripts and their last run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				all, err := a.runner.Scripts()
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				for _, st := range all {
					last := colorize(colorDim, "never run")
					if r := st.LastRun; r != nil {
						outcome := colorize(colorGreen, "ok")
						if !r.Success {
							outcome = colorize(colorRed, "failed")
						}
						last = fmt.Sprintf("%s %s", outcome, humanize.Time(r.FinishedAt))
					}
					fmt.Fprintf(w, "%-18s %-24s %s\n", colorize(colorCyan, st.Script.ID), st.Script.Name, last)
					fmt.Fprintf(w, "  %s\n", st.Script.Description)
				}
				return nil
			})
		},
	}

	run := &cobra.Command{
		Use:   "run <id>",
		Short: "Run a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				s, err := a.runner.Lookup(args[0])
				if err != nil {
					return err
				}
				printStep(cmd.ErrOrStderr(), "Running %s...", s.Name)
				res, err := a.runner.Run(cmd.Context(), s.ID)
				if err != nil {
					return err
				}
				if !res.Success {
					printError(cmd.ErrOrStderr(), "%s", res.Message)
					return nil
				}
				printSuccess(cmd.ErrOrStderr(), "%s", res.Message)
				if res.Detail != "" {
					fmt.Fprintln(cmd.OutOrStdout(), res.Detail)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(list, run)
	return cmd
}
