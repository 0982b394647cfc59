package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	mcpinternal "github.com/felixgeelhaar/fokus/internal/mcp"
	"github.com/spf13/cobra"
)

var addr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		app := cli.GetApp()
		if app == nil || app.Container == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}
		container := app.Container

		cfg := *container.Config
		if addr != "" {
			cfg.MCPAddr = addr
		}

		if err := container.OutboxProcessor.Start(ctx); err != nil {
			return fmt.Errorf("failed to start outbox processor: %w", err)
		}
		defer container.OutboxProcessor.Stop()

		err := mcpinternal.Serve(ctx, &cfg, app, container.Logger.With("component", "mcp"))
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to MCP_ADDR)")
}
