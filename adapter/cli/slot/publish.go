package slot

import (
	"fmt"

	"github.com/felixgeelhaar/slotswap/adapter/cli"
	"github.com/felixgeelhaar/slotswap/internal/slots/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish [slot-id]",
	Short: "Publish a slot to the market",
	Long: `Publish one of your slots so other users can see it and propose swaps.

Examples:
  slotswap slot publish 4f8b5cae-0b4e-4e0e-9f5a-93b07c6f1a21`,
	Aliases: []string{"list"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListSlotHandler == nil {
			fmt.Println("Slot publishing requires a database connection.")
			return nil
		}

		slotID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid slot id: %w", err)
		}

		if err := app.ListSlotHandler.Handle(cmd.Context(), commands.ListSlotCommand{
			SlotID:  slotID,
			OwnerID: app.CurrentUserID,
		}); err != nil {
			return fmt.Errorf("failed to publish slot: %w", err)
		}

		fmt.Printf("Published slot %s to the market.\n", slotID)
		return nil
	},
}

var unlistCmd = &cobra.Command{
	Use:   "unlist [slot-id]",
	Short: "Withdraw a slot from the market",
	Long: `Withdraw one of your published slots from the market.

A slot that is reserved by a pending swap proposal cannot be withdrawn
until the proposal is resolved.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.UnlistSlotHandler == nil {
			fmt.Println("Slot unlisting requires a database connection.")
			return nil
		}

		slotID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid slot id: %w", err)
		}

		if err := app.UnlistSlotHandler.Handle(cmd.Context(), commands.UnlistSlotCommand{
			SlotID:  slotID,
			OwnerID: app.CurrentUserID,
		}); err != nil {
			return fmt.Errorf("failed to unlist slot: %w", err)
		}

		fmt.Printf("Withdrew slot %s from the market.\n", slotID)
		return nil
	},
}
