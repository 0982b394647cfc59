package transition

import (
	"fmt"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/queries"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [from] [to]",
	Short: "Check whether a transition is allowed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CheckTransitionHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}
		projectID, err := cli.ProjectID()
		if err != nil {
			return err
		}
		from, err := cli.ResolveStatus(cmd.Context(), projectID, args[0])
		if err != nil {
			return err
		}
		to, err := cli.ResolveStatus(cmd.Context(), projectID, args[1])
		if err != nil {
			return err
		}

		allowed, err := app.CheckTransitionHandler.Handle(cmd.Context(), queries.CheckTransitionQuery{
			ProjectID:    projectID,
			FromStatusID: from.ID,
			ToStatusID:   to.ID,
		})
		if err != nil {
			return fmt.Errorf("failed to check transition: %w", err)
		}

		verdict := "not allowed"
		if allowed {
			verdict = "allowed"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s: %s\n", from.Name, to.Name, verdict)
		return nil
	},
}
