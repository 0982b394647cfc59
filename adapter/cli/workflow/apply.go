package workflow

import (
	"fmt"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/commands"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply [template]",
	Short: "Seed an empty project from a template",
	Long: `Create the statuses and transitions of a template in a project that
has no statuses yet.

Examples:
  fokus workflow apply kanban --project 7b1e...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ApplyTemplateHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}
		projectID, err := cli.ProjectID()
		if err != nil {
			return err
		}
		blueprint, err := app.Templates.Get(args[0])
		if err != nil {
			return err
		}

		result, err := app.ApplyTemplateHandler.Handle(cmd.Context(), commands.ApplyTemplateCommand{
			ProjectID: projectID,
			Blueprint: blueprint,
			ActorID:   app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to apply template: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %s: %d statuses, %d transitions\n",
			result.Template, len(result.StatusIDs), result.EdgeCount)
		return nil
	},
}
