// Package clitest sets up a local-mode CLI application for command tests.
package clitest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	internalApp "github.com/felixgeelhaar/fokus/internal/app"
	"github.com/felixgeelhaar/fokus/pkg/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// UserID is the fixed actor used by CLI tests.
var UserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Setup creates a SQLite-backed application, installs it as the global CLI
// app and points --project at a fresh project. Everything is torn down with
// the test.
func Setup(t *testing.T) (*cli.App, uuid.UUID) {
	t.Helper()

	cfg := &config.Config{
		AppEnv:             "test",
		LocalMode:          true,
		DatabaseDriver:     "sqlite",
		SQLitePath:         filepath.Join(t.TempDir(), "fokus.db"),
		LogLevel:           "error",
		UserID:             UserID.String(),
		TransitionCacheTTL: time.Minute,
		OutboxBatchSize:    100,
		OutboxMaxRetries:   3,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	container, err := internalApp.NewLocalContainer(context.Background(), cfg, logger)
	require.NoError(t, err)

	app := cli.NewApp(container)
	app.SetCurrentUserID(UserID)
	projectID := uuid.New()
	app.SetDefaultProjectID(projectID.String())

	cli.SetApp(app)
	cli.SetProjectFlag("")
	t.Cleanup(func() {
		cli.SetApp(nil)
		container.Close()
	})
	return app, projectID
}

// Run executes cmd's RunE with args and returns what it printed.
func Run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	defer cmd.SetOut(nil)
	err := cmd.RunE(cmd, args)
	return out.String(), err
}
