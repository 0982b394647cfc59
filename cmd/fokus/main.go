package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/felixgeelhaar/fokus/adapter/cli/mcp"
	"github.com/felixgeelhaar/fokus/adapter/cli/serve"
	"github.com/felixgeelhaar/fokus/adapter/cli/status"
	"github.com/felixgeelhaar/fokus/adapter/cli/task"
	"github.com/felixgeelhaar/fokus/adapter/cli/transition"
	"github.com/felixgeelhaar/fokus/adapter/cli/workflow"
	"github.com/felixgeelhaar/fokus/internal/app"
	"github.com/felixgeelhaar/fokus/pkg/config"
	"github.com/felixgeelhaar/fokus/pkg/observability"
	"github.com/google/uuid"
)

func main() {
	// Setup logger
	logger := observability.LoggerFromEnv()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// In development without .env, use defaults
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development", LocalMode: true}
	}
	logger = observability.LoggerFor(cfg.AppEnv, cfg.LogLevel)
	cli.SetLogger(logger)

	// Try to initialize the full container
	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
		// In development, allow version and help to run without a database
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		cliApp = cli.NewApp(container)

		userID, err := uuid.Parse(cfg.UserID)
		if err != nil {
			container.Close()
			logger.Error("invalid FOKUS_USER_ID", "error", err)
			os.Exit(1)
		}
		cliApp.SetCurrentUserID(userID)
		cliApp.SetDefaultProjectID(cfg.ProjectID)
	}

	cli.SetApp(cliApp)

	// Register commands
	cli.AddCommand(status.Cmd)
	cli.AddCommand(transition.Cmd)
	cli.AddCommand(task.Cmd)
	cli.AddCommand(workflow.Cmd)
	cli.AddCommand(serve.Cmd)
	cli.AddCommand(mcp.Cmd)

	runErr := cli.Execute(ctx)

	if cliApp != nil {
		// Deliver events the command queued so history is current on exit.
		if err := cliApp.FlushLocalEvents(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("failed to flush events", "error", err)
		}
	}
	if container != nil {
		container.Close()
	}
	if runErr != nil {
		cli.Exit(runErr)
	}
}
