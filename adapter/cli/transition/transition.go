package transition

import (
	"github.com/spf13/cobra"
)

// Cmd is the transition command group
var Cmd = &cobra.Command{
	Use:     "transition",
	Aliases: []string{"edge"},
	Short:   "Manage allowed status transitions",
	Long:    `List, check, and toggle the directed transitions between statuses.`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(checkCmd)
	Cmd.AddCommand(toggleCmd)
}
