package swap

import (
	"fmt"

	"github.com/felixgeelhaar/slotswap/adapter/cli"
	"github.com/felixgeelhaar/slotswap/internal/swaps/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	offeredSlot   string
	requestedSlot string
)

var proposeCmd = &cobra.Command{
	Use:   "propose",
	Short: "Propose a slot swap",
	Long: `Propose swapping one of your published slots for someone else's.

Both slots must be on the market. Proposing reserves them until the
other user accepts or rejects.

Examples:
  slotswap swap propose --offer 4f8b5cae-... --for 9c2d1a77-...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ProposeSwapHandler == nil {
			fmt.Println("Swap proposals require a database connection.")
			return nil
		}

		offeredID, err := uuid.Parse(offeredSlot)
		if err != nil {
			return fmt.Errorf("invalid --offer slot id: %w", err)
		}
		requestedID, err := uuid.Parse(requestedSlot)
		if err != nil {
			return fmt.Errorf("invalid --for slot id: %w", err)
		}

		result, err := app.ProposeSwapHandler.Handle(cmd.Context(), commands.ProposeSwapCommand{
			RequesterID:     app.CurrentUserID,
			OfferedSlotID:   offeredID,
			RequestedSlotID: requestedID,
		})
		if err != nil {
			return fmt.Errorf("failed to propose swap: %w", err)
		}

		fmt.Println("Swap proposed. Both slots are reserved until the other user responds.")
		fmt.Printf("  Proposal ID: %s\n", result.ProposalID)
		fmt.Printf("  Responder:   %s\n", result.ResponderID)

		return nil
	},
}

func init() {
	proposeCmd.Flags().StringVarP(&offeredSlot, "offer", "o", "", "your slot to offer (must be published)")
	proposeCmd.Flags().StringVarP(&requestedSlot, "for", "f", "", "the slot you want in exchange")
	_ = proposeCmd.MarkFlagRequired("offer")
	_ = proposeCmd.MarkFlagRequired("for")
}
