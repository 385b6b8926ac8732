package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kalambet/deskhub/internal/bundle"
)

func newDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Back up, restore and clear local data",
	}
	cmd.AddCommand(
		newDataExportCmd(),
		newDataImportCmd(),
		newDataClearCmd(),
		newDataSizeCmd(),
	)
	return cmd
}

func newDataExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export everything to a JSON backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				b, err := a.bundler.Export()
				if err != nil {
					return err
				}
				if output == "-" {
					return bundle.Write(cmd.OutOrStdout(), b)
				}
				path := output
				if path == "" {
					path = a.bundler.Filename(time.Now())
				}
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating %s: %w", path, err)
				}
				if err := bundle.Write(f, b); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
				printSuccess(cmd.ErrOrStderr(), "Exported %d tasks, %d files, %d messages, %d notes to %s",
					len(b.Tasks), len(b.Files), len(b.Messages), len(b.Notes), path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path, - for stdout (default: timestamped file in the current directory)")
	return cmd
}

func newDataImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Restore a JSON backup",
		Long: `Restore a JSON backup. Every section present in the file replaces the
stored one; sections missing from the file are left untouched. A file that
fails to parse or validate changes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			return withApp(cmd, func(a *app) error {
				report, err := a.bundler.Import(f)
				if errors.Is(err, bundle.ErrMalformed) {
					printWarning(cmd.ErrOrStderr(), "Import failed, nothing changed: %v", err)
					return nil
				}
				if err != nil {
					return err
				}
				if len(report.Imported) == 0 {
					printWarning(cmd.ErrOrStderr(), "Nothing to import in %s", args[0])
					return nil
				}
				printSuccess(cmd.ErrOrStderr(), "Imported %s", strings.Join(report.Imported, ", "))
				return nil
			})
		},
	}
}

func newDataClearCmd() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				printWarning(cmd.ErrOrStderr(), "This deletes every task, file, message, note and setting. Re-run with --confirm.")
				return nil
			}
			return withApp(cmd, func(a *app) error {
				n, err := a.bundler.ClearAll()
				if err != nil {
					return err
				}
				printSuccess(cmd.ErrOrStderr(), "Cleared %d stored collections", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "confirm deletion")
	return cmd
}

func newDataSizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "Show how much data is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				n, err := a.bundler.Size()
				if err != nil {
					return err
				}
				usage, err := a.bundler.Usage()
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				for _, u := range usage {
					printStatus(w, u.Name, "%s", humanize.Bytes(uint64(u.Size)))
				}
				fmt.Fprintf(w, "%s total\n", humanize.Bytes(uint64(n)))
				return nil
			})
		},
	}
}
