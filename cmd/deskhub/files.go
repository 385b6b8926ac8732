package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kalambet/deskhub/internal/files"
)

func newFileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Organize files in the vault",
	}
	cmd.AddCommand(
		newFileUploadCmd(),
		newFileListCmd(),
		newFileRenameCmd(),
		newFileMoveCmd(),
		newFileDownloadCmd(),
		newFileDeleteCmd(),
	)
	return cmd
}

func newFileUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path>...",
		Short: "Upload files into the vault",
		Long: `Upload files into the vault. Files below files.inline_limit keep their
contents and can be downloaded later; larger files are stored as metadata only.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				added, err := a.vault.UploadPaths(cmd.Context(), args...)
				if err != nil {
					return softFail(cmd.ErrOrStderr(), err)
				}
				for _, f := range added {
					note := ""
					if !f.HasPayload() {
						note = " (metadata only)"
					}
					printSuccess(cmd.ErrOrStderr(), "Uploaded %s, %s%s", f.Name, humanize.Bytes(uint64(f.Size)), note)
					fmt.Fprintln(cmd.OutOrStdout(), f.ID)
				}
				return nil
			})
		},
	}
}

func newFileListCmd() *cobra.Command {
	var query, category string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List files",
		RunE: func(cmd *cobra.Command, args []string) error {
			var f files.Filter
			f.Query = query
			if category != "" {
				c, err := files.ParseCategory(category)
				if err != nil {
					return err
				}
				f.Category = c
			}
			return withApp(cmd, func(a *app) error {
				list, err := a.vault.List(f)
				if err != nil {
					return err
				}
				if asJSON {
					if list == nil {
						list = []files.FileItem{}
					}
					return printJSON(cmd.OutOrStdout(), list)
				}
				stats, err := a.vault.Stats()
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if len(list) == 0 {
					fmt.Fprintln(w, "No files.")
				}
				for _, it := range list {
					fmt.Fprintf(w, "%s  %-9s %8s  %s  %s\n",
						colorize(colorCyan, shortID(it.ID)),
						it.Category,
						humanize.Bytes(uint64(it.Size)),
						humanize.Time(time.UnixMilli(it.UploadedAt)),
						it.Name,
					)
				}
				fmt.Fprintf(w, "\n%d files, %s total\n", stats.Total, humanize.Bytes(uint64(stats.TotalSize)))
				for _, c := range files.Categories {
					printStatus(w, string(c), "%d", stats.ByCategory[c])
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "search names and previews")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Work, Personal, Projects or Archive")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newFileRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				f, err := a.vault.Rename(args[0], args[1])
				if err != nil {
					return softFail(cmd.ErrOrStderr(), err)
				}
				printSuccess(cmd.ErrOrStderr(), "Renamed to %s", f.Name)
				return nil
			})
		},
	}
}

func newFileMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <category>",
		Short: "Move a file to another category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := files.ParseCategory(args[1])
			if err != nil {
				return err
			}
			return withApp(cmd, func(a *app) error {
				f, err := a.vault.SetCategory(args[0], c)
				if err != nil {
					return softFail(cmd.ErrOrStderr(), err)
				}
				printSuccess(cmd.ErrOrStderr(), "Moved %s to %s", f.Name, f.Category)
				return nil
			})
		},
	}
}

func newFileDownloadCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Write a stored file to disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				f, data, err := a.vault.Download(args[0])
				if errors.Is(err, files.ErrNoPayload) {
					printWarning(cmd.ErrOrStderr(), "%s was stored without its contents", f.Name)
					return nil
				}
				if err != nil {
					return err
				}
				path := output
				if path == "" {
					path = f.Name
				}
				if path == "-" {
					_, err := cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
				printSuccess(cmd.ErrOrStderr(), "Saved %s (%s)", path, humanize.Bytes(uint64(len(data))))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path, - for stdout (default: the file name)")
	return cmd
}

func newFileDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				removed, err := a.vault.Delete(args[0])
				if err != nil {
					return err
				}
				if !removed {
					printWarning(cmd.ErrOrStderr(), "No file %s", args[0])
					return nil
				}
				printSuccess(cmd.ErrOrStderr(), "Deleted file %s", args[0])
				return nil
			})
		},
	}
}
