package task

import (
	"fmt"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/queries"
	"github.com/spf13/cobra"
)

var targetsCmd = &cobra.Command{
	Use:   "targets [task-id]",
	Short: "List the statuses a task can move to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.AllowedTargetsHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}
		taskID, err := cli.ParseID("task", args[0])
		if err != nil {
			return err
		}

		result, err := app.AllowedTargetsHandler.Handle(cmd.Context(), queries.AllowedTargetsQuery{TaskID: taskID})
		if err != nil {
			return fmt.Errorf("failed to list targets: %w", err)
		}
		out := cmd.OutOrStdout()
		for _, s := range result.Targets {
			marker := " "
			if s.ID == result.CurrentStatusID {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-20s %s\n", marker, s.Slug, s.Name)
		}
		return nil
	},
}
