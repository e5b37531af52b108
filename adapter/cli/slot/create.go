package slot

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/slotswap/adapter/cli"
	"github.com/felixgeelhaar/slotswap/internal/slots/application/commands"
	"github.com/spf13/cobra"
)

var (
	createStart string
	createEnd   string
)

const timeFlagLayout = "2006-01-02 15:04"

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new slot",
	Long: `Create a new calendar slot you own.

New slots start out private. Publish one with "slotswap slot publish"
to make it visible to other users.

Examples:
  slotswap slot create "Dentist appointment" --start "2026-09-03 09:00" --end "2026-09-03 10:00"
  slotswap slot create "Gym session" -s "2026-09-04 18:00" -e "2026-09-04 19:30"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateSlotHandler == nil {
			fmt.Println("Slot creation requires a database connection.")
			return nil
		}

		start, err := time.ParseInLocation(timeFlagLayout, createStart, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --start value (expected \"YYYY-MM-DD HH:MM\"): %w", err)
		}
		end, err := time.ParseInLocation(timeFlagLayout, createEnd, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --end value (expected \"YYYY-MM-DD HH:MM\"): %w", err)
		}

		result, err := app.CreateSlotHandler.Handle(cmd.Context(), commands.CreateSlotCommand{
			OwnerID:   app.CurrentUserID,
			Title:     args[0],
			StartTime: start,
			EndTime:   end,
		})
		if err != nil {
			return fmt.Errorf("failed to create slot: %w", err)
		}

		fmt.Printf("Created slot: %s\n", args[0])
		fmt.Printf("  ID: %s\n", result.SlotID)
		fmt.Printf("  Window: %s - %s\n", start.Format(timeFlagLayout), end.Format(timeFlagLayout))

		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createStart, "start", "s", "", "slot start time (YYYY-MM-DD HH:MM)")
	createCmd.Flags().StringVarP(&createEnd, "end", "e", "", "slot end time (YYYY-MM-DD HH:MM)")
	_ = createCmd.MarkFlagRequired("start")
	_ = createCmd.MarkFlagRequired("end")
}
