package slot

import (
	"github.com/spf13/cobra"
)

// Cmd is the slot command group
var Cmd = &cobra.Command{
	Use:   "slot",
	Short: "Manage calendar slots",
	Long:  `Create, publish, update, and manage your calendar slots.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(publishCmd)
	Cmd.AddCommand(unlistCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(mineCmd)
	Cmd.AddCommand(marketCmd)
	Cmd.AddCommand(showCmd)
}
