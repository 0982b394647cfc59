package workflow

import (
	"fmt"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Summarize the workflow graph of a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.WorkflowOverviewHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}
		projectID, err := cli.ProjectID()
		if err != nil {
			return err
		}

		overview, err := app.WorkflowOverviewHandler.Handle(cmd.Context(), queries.WorkflowOverviewQuery{ProjectID: projectID})
		if err != nil {
			return fmt.Errorf("failed to load workflow: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(overview.Statuses) == 0 {
			fmt.Fprintln(out, "No workflow yet. Try 'fokus workflow apply basic'.")
			return nil
		}

		names := make(map[uuid.UUID]string, len(overview.Statuses))
		for _, node := range overview.Statuses {
			names[node.ID] = node.Name
		}
		for _, node := range overview.Statuses {
			fmt.Fprintf(out, "%s", node.Name)
			if node.IsCompleted {
				fmt.Fprint(out, " (completed)")
			}
			fmt.Fprintln(out)
			for _, to := range node.Outgoing {
				fmt.Fprintf(out, "  -> %s\n", names[to])
			}
		}

		fmt.Fprintf(out, "\n%d statuses, %d transitions\n", len(overview.Statuses), overview.EdgeCount)
		for _, id := range overview.Unreachable {
			fmt.Fprintf(out, "warning: %s cannot be reached from the first status\n", names[id])
		}
		for _, id := range overview.DeadEnds {
			fmt.Fprintf(out, "warning: tasks in %s can never leave it\n", names[id])
		}
		if !overview.CompletionReachable {
			fmt.Fprintln(out, "warning: no completed status is reachable")
		}
		return nil
	},
}
