package swap

import (
	"fmt"

	"github.com/felixgeelhaar/slotswap/adapter/cli"
	"github.com/felixgeelhaar/slotswap/internal/swaps/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var acceptCmd = &cobra.Command{
	Use:   "accept <proposal-id>",
	Short: "Accept a swap proposal",
	Long: `Accept a pending swap proposal addressed to you.

Accepting trades ownership of the two slots atomically. Both slots
end up open on their new owners' calendars.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(cmd, args[0], true)
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <proposal-id>",
	Short: "Reject a swap proposal",
	Long: `Reject a pending swap proposal addressed to you.

Rejecting releases both slots back onto the market.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(cmd, args[0], false)
	},
}

func respond(cmd *cobra.Command, rawID string, accept bool) error {
	app := cli.GetApp()
	if app == nil || app.RespondSwapHandler == nil {
		fmt.Println("Swap proposals require a database connection.")
		return nil
	}

	proposalID, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid proposal id: %w", err)
	}

	result, err := app.RespondSwapHandler.Handle(cmd.Context(), commands.RespondSwapCommand{
		ProposalID:  proposalID,
		ResponderID: app.CurrentUserID,
		Accept:      accept,
	})
	if err != nil {
		return fmt.Errorf("failed to respond to swap: %w", err)
	}

	if accept {
		fmt.Println("Swap accepted. The slots have traded owners.")
	} else {
		fmt.Println("Swap rejected. Both slots are back on the market.")
	}
	fmt.Printf("Proposal: %s (%s at %s)\n",
		result.ProposalID, result.Status, result.RespondedAt.Local().Format("2006-01-02 15:04"))
	fmt.Printf("Offered slot:   %s\n", result.OfferedSlotID)
	fmt.Printf("Requested slot: %s\n", result.RequestedSlotID)

	return nil
}
