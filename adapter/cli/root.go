package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	projectFlag string
	logger      *slog.Logger
)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fokus",
	Short: "Fokus - project workflows you define yourself",
	Long: `Fokus manages per-project task workflows: the statuses a task can be
in and the transitions allowed between them.

	Every task move is checked against the project's transition graph.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		info := commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		cmd.SetContext(context.WithValue(ctx, commandContextKey{}, info))
		logger.Debug("command start",
			"command", cmd.CommandPath(),
			"correlation_id", info.correlationID.String(),
		)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		logger.Debug("command end",
			"command", cmd.CommandPath(),
			"correlation_id", info.correlationID.String(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// It returns the command error instead of exiting so callers can release
// resources first.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// Exit prints err and terminates the process with a failure code.
func Exit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "p", "", "project ID (defaults to FOKUS_PROJECT_ID)")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// SetProjectFlag overrides the --project flag value.
func SetProjectFlag(value string) {
	projectFlag = value
}

// ProjectID resolves the project a command acts on from the --project flag,
// falling back to the application default.
func ProjectID() (uuid.UUID, error) {
	raw := projectFlag
	if raw == "" && app != nil {
		raw = app.DefaultProjectID
	}
	if raw == "" {
		return uuid.Nil, fmt.Errorf("project is required: pass --project or set FOKUS_PROJECT_ID")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid project ID %q: %w", raw, err)
	}
	return id, nil
}
