package task

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/queries"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetTaskHandler == nil {
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
		names, err := cli.StatusNames(cmd.Context(), task.ProjectID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", task.Title)
		fmt.Fprintf(out, "  id:      %s\n", task.ID)
		fmt.Fprintf(out, "  project: %s\n", task.ProjectID)
		fmt.Fprintf(out, "  status:  %s\n", names[task.StatusID])
		fmt.Fprintf(out, "  version: %d\n", task.Version)
		fmt.Fprintf(out, "  updated: %s\n", task.UpdatedAt.Local().Format(time.RFC822))
		return nil
	},
}
