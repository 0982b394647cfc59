package transition

import (
	"fmt"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/commands"
	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle [from] [to]",
	Short: "Add the transition if missing, remove it otherwise",
	Long: `Toggle the directed transition from one status to another.

Examples:
  fokus transition toggle todo in-progress
  fokus transition toggle in-progress done`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ToggleTransitionHandler == nil {
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

		result, err := app.ToggleTransitionHandler.Handle(cmd.Context(), commands.ToggleTransitionCommand{
			ProjectID:    projectID,
			FromStatusID: from.ID,
			ToStatusID:   to.ID,
			ActorID:      app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to toggle transition: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Transition %s -> %s %s\n", from.Name, to.Name, result.State)
		return nil
	},
}
