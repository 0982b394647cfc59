package transition

import (
	"fmt"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/queries"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the transitions of a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListTransitionsHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}
		projectID, err := cli.ProjectID()
		if err != nil {
			return err
		}

		edges, err := app.ListTransitionsHandler.Handle(cmd.Context(), queries.ListTransitionsQuery{ProjectID: projectID})
		if err != nil {
			return fmt.Errorf("failed to list transitions: %w", err)
		}
		names, err := cli.StatusNames(cmd.Context(), projectID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(edges) == 0 {
			fmt.Fprintln(out, "No transitions. Tasks can only stay where they are.")
			return nil
		}
		for _, e := range edges {
			fmt.Fprintf(out, "%s -> %s\n", names[e.FromStatusID], names[e.ToStatusID])
		}
		return nil
	},
}
