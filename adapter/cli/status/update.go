package status

import (
	"fmt"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/commands"
	"github.com/spf13/cobra"
)

var (
	updateName      string
	updateColor     string
	updateCompleted bool
)

var updateCmd = &cobra.Command{
	Use:   "update [status]",
	Short: "Rename, recolor, or mark a status as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.UpdateStatusHandler == nil {
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

		update := commands.UpdateStatusCommand{
			ProjectID: projectID,
			StatusID:  target.ID,
			ActorID:   app.CurrentUserID,
		}
		flags := cmd.Flags()
		if flags.Changed("name") {
			update.Name = &updateName
		}
		if flags.Changed("color") {
			update.Color = &updateColor
		}
		if flags.Changed("completed") {
			update.IsCompleted = &updateCompleted
		}

		result, err := app.UpdateStatusHandler.Handle(cmd.Context(), update)
		if err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Status updated: %s (%s)\n", result.Name, result.Slug)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "new name")
	updateCmd.Flags().StringVar(&updateColor, "color", "", "new display color")
	updateCmd.Flags().BoolVar(&updateCompleted, "completed", false, "tasks in this status count as done")
}
