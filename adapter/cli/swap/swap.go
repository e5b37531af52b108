package swap

import (
	"github.com/spf13/cobra"
)

// Cmd is the swap command group
var Cmd = &cobra.Command{
	Use:   "swap",
	Short: "Manage swap proposals",
	Long:  `Propose slot swaps and respond to proposals from other users.`,
}

func init() {
	Cmd.AddCommand(proposeCmd)
	Cmd.AddCommand(acceptCmd)
	Cmd.AddCommand(rejectCmd)
	Cmd.AddCommand(incomingCmd)
	Cmd.AddCommand(outgoingCmd)
}
