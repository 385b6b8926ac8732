package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kalambet/deskhub/internal/config"
)

var version = "dev"

// noColor disables ANSI colors in status output.
var noColor bool

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(os.Stderr, "%v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "deskhub",
		Short:         "Local personal productivity hub",
		Long:          "deskhub keeps tasks, files, messages, quick notes and settings in a local database.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if os.Getenv("NO_COLOR") != "" {
				noColor = true
			}
		},
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newTaskCmd(),
		newFileCmd(),
		newMessageCmd(),
		newNoteCmd(),
		newScriptCmd(),
		newInsightsCmd(),
		newDataCmd(),
		newSettingsCmd(),
		newProfileCmd(),
		newConfigCmd(),
		newMCPCmd(),
	)
	return root
}

// loadConfig reads the configuration and installs the default logger.
func loadConfig(stderr io.Writer) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	setupLogging(stderr, cfg.Log.Level)
	return cfg, nil
}

func setupLogging(w io.Writer, level string) {
	logLevel := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel})))
}

// withApp loads config, opens the app for the duration of fn and closes it.
func withApp(cmd *cobra.Command, fn func(a *app) error) error {
	cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func errUnknown(kind, value string, valid []string) error {
	return fmt.Errorf("unknown %s %q (valid: %s)", kind, value, strings.Join(valid, ", "))
}
