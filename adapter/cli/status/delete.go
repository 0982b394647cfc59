package status

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/commands"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [status]",
	Short: "Delete a status and its transitions",
	Long: `Delete a status. The status must not be assigned to any task; move or
delete those tasks first. Transitions touching the status are removed too.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.DeleteStatusHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}
		projectID, err := cli.ProjectID()
		if err != nil {
			return err
		}
		target, err := cli.ResolveStatus(cmd.Context(), projectID, args[0])
		if err != nil {
			return err
		}

		result, err := app.DeleteStatusHandler.Handle(cmd.Context(), commands.DeleteStatusCommand{
			ProjectID: projectID,
			StatusID:  target.ID,
			ActorID:   app.CurrentUserID,
		})
		if errors.Is(err, domain.ErrStatusInUse) {
			return fmt.Errorf("failed to delete status %q: tasks are still in it, move them first: %w", target.Name, err)
		}
		if err != nil {
			return fmt.Errorf("failed to delete status: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Status deleted: %s (%d transitions removed)\n", target.Name, result.RemovedEdges)
		return nil
	},
}
