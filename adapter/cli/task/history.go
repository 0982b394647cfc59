package task

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/queries"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [task-id]",
	Short: "Show the status changes of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.TaskHistoryHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}
		taskID, err := cli.ParseID("task", args[0])
		if err != nil {
			return err
		}
		task, err := app.GetTaskHandler.Handle(cmd.Context(), queries.GetTaskQuery{TaskID: taskID})
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}
		if err := app.FlushLocalEvents(cmd.Context()); err != nil {
			return fmt.Errorf("failed to deliver pending events: %w", err)
		}

		entries, err := app.TaskHistoryHandler.Handle(cmd.Context(), queries.TaskHistoryQuery{TaskID: taskID})
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		names, err := cli.StatusNames(cmd.Context(), task.ProjectID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No status changes yet.")
			return nil
		}
		for _, e := range entries {
			from, to := names[e.OldStatusID], names[e.NewStatusID]
			if from == "" {
				from = e.OldStatusID.String()[:8]
			}
			if to == "" {
				to = e.NewStatusID.String()[:8]
			}
			fmt.Fprintf(out, "%s  %s -> %s\n", e.ChangedAt.Local().Format(time.DateTime), from, to)
		}
		return nil
	},
}
