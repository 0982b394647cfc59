package status

import (
	"fmt"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/queries"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the statuses of a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListStatusesHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}
		projectID, err := cli.ProjectID()
		if err != nil {
			return err
		}

		statuses, err := app.ListStatusesHandler.Handle(cmd.Context(), queries.ListStatusesQuery{ProjectID: projectID})
		if err != nil {
			return fmt.Errorf("failed to list statuses: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(statuses) == 0 {
			fmt.Fprintln(out, "No statuses yet. Create one with 'fokus status create' or 'fokus workflow apply'.")
			return nil
		}
		for _, s := range statuses {
			done := ""
			if s.IsCompleted {
				done = " (completed)"
			}
			fmt.Fprintf(out, "%3d  %-20s %s%s\n", s.Order, s.Slug, s.Name, done)
		}
		return nil
	},
}
