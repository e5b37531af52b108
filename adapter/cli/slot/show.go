package slot

import (
	"fmt"

	"github.com/felixgeelhaar/slotswap/adapter/cli"
	"github.com/felixgeelhaar/slotswap/internal/slots/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func slotQueryFor(slotID uuid.UUID) queries.GetSlotQuery {
	return queries.GetSlotQuery{SlotID: slotID}
}

var showCmd = &cobra.Command{
	Use:   "show [slot-id]",
	Short: "Show slot details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetSlotHandler == nil {
			fmt.Println("Slot lookup requires a database connection.")
			return nil
		}

		slotID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid slot id: %w", err)
		}

		slot, err := app.GetSlotHandler.Handle(cmd.Context(), slotQueryFor(slotID))
		if err != nil {
			return fmt.Errorf("failed to load slot: %w", err)
		}

		fmt.Printf("%s [%s]\n", slot.Title, slot.Status)
		fmt.Printf("  ID: %s\n", slot.ID)
		fmt.Printf("  Owner: %s\n", slot.OwnerID)
		fmt.Printf("  Window: %s - %s\n",
			slot.StartTime.Local().Format(timeFlagLayout),
			slot.EndTime.Local().Format(timeFlagLayout),
		)

		return nil
	},
}
