package workflow

import (
	"github.com/spf13/cobra"
)

// Cmd is the workflow command group
var Cmd = &cobra.Command{
	Use:   "workflow",
	Short: "Inspect and seed project workflows",
}

func init() {
	Cmd.AddCommand(overviewCmd)
	Cmd.AddCommand(templatesCmd)
	Cmd.AddCommand(applyCmd)
}
