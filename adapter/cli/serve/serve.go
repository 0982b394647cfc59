// Package serve runs the workflow HTTP API from the CLI.
package serve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fokus/adapter/api"
	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var addr string

// Cmd starts the HTTP API together with the outbox processor.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the workflow HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Container == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}
		container := app.Container

		serverCfg := api.DefaultServerConfig()
		if container.Config.APIAddr != "" {
			serverCfg.Addr = container.Config.APIAddr
		}
		if addr != "" {
			serverCfg.Addr = addr
		}
		server := api.NewServerFromContainer(serverCfg, container, app.CurrentUserID)

		g, gctx := errgroup.WithContext(cmd.Context())
		if err := container.OutboxProcessor.Start(gctx); err != nil {
			return fmt.Errorf("failed to start outbox processor: %w", err)
		}
		g.Go(server.Start)
		g.Go(func() error {
			<-gctx.Done()
			container.OutboxProcessor.Stop()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to API_ADDR)")
}
