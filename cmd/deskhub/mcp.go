package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kalambet/deskhub/internal/api"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the dashboard to MCP clients over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				mcpSrv := api.NewMCPServer(api.MCPDeps{
					Planner:  a.planner,
					Inbox:    a.inbox,
					Notes:    a.notes,
					Runner:   a.runner,
					Profile:  a.profile,
					Insights: a.insights,
					Version:  version,
				})
				stdioSrv := server.NewStdioServer(mcpSrv)
				slog.Info("MCP server started (stdio transport)")
				err := stdioSrv.Listen(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			})
		},
	}
}
