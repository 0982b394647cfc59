package status

import (
	"github.com/spf13/cobra"
)

// Cmd is the status command group
var Cmd = &cobra.Command{
	Use:   "status",
	Short: "Manage workflow statuses",
	Long:  `List, create, rename, delete, and reorder the statuses of a project.`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(reorderCmd)
}
