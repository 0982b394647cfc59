package status

import (
	"fmt"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/commands"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/spf13/cobra"
)

var reorderStrict bool

var reorderCmd = &cobra.Command{
	Use:   "reorder [status...]",
	Short: "Set the board order of statuses",
	Long: `Assign positions 0, 1, 2, ... to the given statuses in argument order.
Statuses that are not listed keep their position.

Examples:
  fokus status reorder backlog in-progress review done`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ReorderStatusesHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}
		projectID, err := cli.ProjectID()
		if err != nil {
			return err
		}

		changes := make([]domain.OrderChange, 0, len(args))
		for i, ref := range args {
			target, err := cli.ResolveStatus(cmd.Context(), projectID, ref)
			if err != nil {
				return err
			}
			changes = append(changes, domain.OrderChange{StatusID: target.ID, Order: i})
		}

		result, err := app.ReorderStatusesHandler.Handle(cmd.Context(), commands.ReorderStatusesCommand{
			ProjectID: projectID,
			Changes:   changes,
			Strict:    reorderStrict,
			ActorID:   app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to reorder statuses: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Reordered %d statuses", len(result.Applied))
		if len(result.Skipped) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), ", skipped %d", len(result.Skipped))
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	reorderCmd.Flags().BoolVar(&reorderStrict, "strict", false, "fail instead of skipping statuses outside the project")
}
