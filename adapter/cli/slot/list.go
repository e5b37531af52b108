package slot

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/slotswap/adapter/cli"
	"github.com/felixgeelhaar/slotswap/internal/slots/application/queries"
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your slots",
	Long:  `List all slots you own, earliest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListMySlotsHandler == nil {
			fmt.Println("Slot listing requires a database connection.")
			return nil
		}

		slots, err := app.ListMySlotsHandler.Handle(cmd.Context(), queries.ListMySlotsQuery{
			OwnerID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to list slots: %w", err)
		}

		if len(slots) == 0 {
			fmt.Println("No slots found. Create one with: slotswap slot create \"Slot title\"")
			return nil
		}

		fmt.Printf("Your slots (%d):\n", len(slots))
		fmt.Println(strings.Repeat("-", 70))
		printSlots(slots)

		return nil
	},
}

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Browse the slot market",
	Long:  `List slots other users have published for swapping, earliest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListMarketHandler == nil {
			fmt.Println("Market browsing requires a database connection.")
			return nil
		}

		slots, err := app.ListMarketHandler.Handle(cmd.Context(), queries.ListMarketQuery{
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to list market: %w", err)
		}

		if len(slots) == 0 {
			fmt.Println("No slots on the market right now.")
			return nil
		}

		fmt.Printf("Market (%d):\n", len(slots))
		fmt.Println(strings.Repeat("-", 70))
		printSlots(slots)

		return nil
	},
}

func printSlots(slots []queries.SlotDTO) {
	for _, s := range slots {
		fmt.Printf("[%s] %s\n", statusTag(s.Status), s.Title)
		fmt.Printf("    %s - %s | ID: %s\n",
			s.StartTime.Local().Format(timeFlagLayout),
			s.EndTime.Local().Format(timeFlagLayout),
			s.ID,
		)
	}
}

func statusTag(status string) string {
	switch status {
	case "open":
		return "o"
	case "listed":
		return "L"
	case "reserved":
		return "R"
	default:
		return "?"
	}
}
