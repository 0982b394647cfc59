package workflow

import (
	"fmt"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the workflow templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Templates == nil {
			return fmt.Errorf("application not initialized")
		}

		out := cmd.OutOrStdout()
		for _, bp := range app.Templates.List() {
			fmt.Fprintf(out, "%-10s %d statuses, %d transitions  %s\n",
				bp.Name, len(bp.Statuses), len(bp.Transitions), bp.Description)
		}
		return nil
	},
}
