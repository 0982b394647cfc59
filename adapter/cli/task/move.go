package task

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/commands"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/queries"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move [task-id] [status]",
	Short: "Move a task to another status",
	Long: `Move a task to another status. The move must follow a transition of
the project's workflow; moving a task to its current status always succeeds.

Examples:
  fokus task move 3f2a... in-progress`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ChangeTaskStatusHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}
		taskID, err := cli.ParseID("task", args[0])
		if err != nil {
			return err
		}
		task, err := app.GetTaskHandler.Handle(cmd.Context(), queries.GetTaskQuery{TaskID: taskID})
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}
		target, err := cli.ResolveStatus(cmd.Context(), task.ProjectID, args[1])
		if err != nil {
			return err
		}

		result, err := app.ChangeTaskStatusHandler.Handle(cmd.Context(), commands.ChangeTaskStatusCommand{
			TaskID:         taskID,
			TargetStatusID: target.ID,
			ActorID:        app.CurrentUserID,
		})
		if errors.Is(err, domain.ErrIllegalTransition) {
			return fmt.Errorf("failed to move task: no transition to %q from its current status: %w", target.Name, err)
		}
		if err != nil {
			return fmt.Errorf("failed to move task: %w", err)
		}

		if !result.Changed {
			fmt.Fprintf(cmd.OutOrStdout(), "Task already in %s\n", target.Name)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task moved to %s\n", target.Name)
		return nil
	},
}
