package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/kalambet/deskhub/internal/profile"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change display preferences",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				s, err := a.profile.Settings()
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				printStatus(w, "theme", "%s", s.Theme)
				printStatus(w, "fontSize", "%s", s.FontSize)
				printStatus(w, "notifications", "%t", s.Notifications)
				return nil
			})
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a settings field (theme, fontSize, notifications)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				if _, err := a.profile.SetSettingsField(args[0], args[1]); err != nil {
					return softFail(cmd.ErrOrStderr(), err)
				}
				printSuccess(cmd.ErrOrStderr(), "Set %s = %s", args[0], args[1])
				return nil
			})
		},
	}

	cmd.AddCommand(show, set)
	return cmd
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show profile and preferences summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				p, err := a.profile.Profile()
				if err != nil {
					return err
				}
				summary, err := a.profile.Summary()
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				printStatus(w, "name", "%s", p.Name)
				printStatus(w, "email", "%s", p.Email)
				printStatus(w, "role", "%s", p.Role)
				fmt.Fprintf(w, "\n%s\n", colorize(colorDim, summary))
				return nil
			})
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a profile field (name, email, role)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				if _, err := a.profile.SetProfileField(args[0], args[1]); err != nil {
					return softFail(cmd.ErrOrStderr(), err)
				}
				printSuccess(cmd.ErrOrStderr(), "Set %s = %s", args[0], args[1])
				return nil
			})
		},
	}

	cmd.AddCommand(show, set, newProfileEditCmd())
	return cmd
}

func newProfileEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open profile JSON in $EDITOR",
		RunE: func(cmd *cobra.Command, args []string) error {
			editor := os.Getenv("EDITOR")
			if editor == "" {
				editor = "vi"
			}

			return withApp(cmd, func(a *app) error {
				p, err := a.profile.Profile()
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(p, "", "  ")
				if err != nil {
					return err
				}

				tmpFile, err := os.CreateTemp("", "deskhub-profile-*.json")
				if err != nil {
					return fmt.Errorf("creating temp file: %w", err)
				}
				tmpPath := tmpFile.Name()
				defer os.Remove(tmpPath)

				if _, err := tmpFile.Write(data); err != nil {
					tmpFile.Close()
					return err
				}
				tmpFile.Close()

				editorCmd := exec.CommandContext(cmd.Context(), editor, tmpPath)
				editorCmd.Stdin = cmd.InOrStdin()
				editorCmd.Stdout = cmd.OutOrStdout()
				editorCmd.Stderr = cmd.ErrOrStderr()
				if err := editorCmd.Run(); err != nil {
					return fmt.Errorf("editor exited with error: %w", err)
				}

				edited, err := os.ReadFile(tmpPath)
				if err != nil {
					return err
				}
				var next profile.Profile
				if err := json.Unmarshal(edited, &next); err != nil {
					return fmt.Errorf("invalid JSON: %w", err)
				}
				if err := a.profile.SaveProfile(next); err != nil {
					return softFail(cmd.ErrOrStderr(), err)
				}

				printSuccess(cmd.ErrOrStderr(), "Profile updated")
				return nil
			})
		},
	}
}
