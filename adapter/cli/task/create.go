package task

import (
	"fmt"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/commands"
	"github.com/spf13/cobra"
)

var createStatus string

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new task",
	Long: `Create a new task. Without --status the task starts in the project's
first status.

Examples:
  fokus task create "Write release notes"
  fokus task create "Fix login" --status in-progress`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}
		projectID, err := cli.ProjectID()
		if err != nil {
			return err
		}

		createTask := commands.CreateTaskCommand{
			ProjectID: projectID,
			Title:     args[0],
			ActorID:   app.CurrentUserID,
		}
		if createStatus != "" {
			status, err := cli.ResolveStatus(cmd.Context(), projectID, createStatus)
			if err != nil {
				return err
			}
			createTask.StatusID = &status.ID
		}

		result, err := app.CreateTaskHandler.Handle(cmd.Context(), createTask)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		names, err := cli.StatusNames(cmd.Context(), projectID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task created: %s\n", result.TaskID)
		fmt.Fprintf(cmd.OutOrStdout(), "  status: %s\n", names[result.StatusID])
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createStatus, "status", "s", "", "initial status (ID, slug, or name)")
}
