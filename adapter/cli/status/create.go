package status

import (
	"fmt"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/commands"
	"github.com/spf13/cobra"
)

var (
	createColor     string
	createOrder     int
	createCompleted bool
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new status",
	Long: `Create a new status in a project. The slug is derived from the name
and gets a numeric suffix when it is already taken.

Examples:
  fokus status create "In Progress" --order 1
  fokus status create "Done" --completed --color "#22c55e"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateStatusHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}
		projectID, err := cli.ProjectID()
		if err != nil {
			return err
		}

		result, err := app.CreateStatusHandler.Handle(cmd.Context(), commands.CreateStatusCommand{
			ProjectID:   projectID,
			Name:        args[0],
			Color:       createColor,
			Order:       createOrder,
			IsCompleted: createCompleted,
			ActorID:     app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to create status: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Status created: %s\n", result.StatusID)
		fmt.Fprintf(out, "  name: %s\n", result.Name)
		fmt.Fprintf(out, "  slug: %s\n", result.Slug)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createColor, "color", "", "display color")
	createCmd.Flags().IntVarP(&createOrder, "order", "o", 0, "position on the board")
	createCmd.Flags().BoolVar(&createCompleted, "completed", false, "tasks in this status count as done")
}
