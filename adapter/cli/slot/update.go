package slot

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/slotswap/adapter/cli"
	"github.com/felixgeelhaar/slotswap/internal/slots/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	updateTitle string
	updateStart string
	updateEnd   string
)

var updateCmd = &cobra.Command{
	Use:   "update [slot-id]",
	Short: "Update a slot",
	Long: `Update the title or time window of one of your slots.

Flags left unset keep their current value. A slot reserved by a pending
swap proposal cannot be changed.

Examples:
  slotswap slot update 4f8b5cae-... --title "Dentist (rescheduled)"
  slotswap slot update 4f8b5cae-... -s "2026-09-05 14:00" -e "2026-09-05 15:00"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.UpdateSlotHandler == nil || app.GetSlotHandler == nil {
			fmt.Println("Slot updates require a database connection.")
			return nil
		}

		slotID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid slot id: %w", err)
		}

		// Fetch the current state so unset flags keep their values.
		current, err := app.GetSlotHandler.Handle(cmd.Context(), slotQueryFor(slotID))
		if err != nil {
			return fmt.Errorf("failed to load slot: %w", err)
		}

		title := current.Title
		start := current.StartTime
		end := current.EndTime

		if cmd.Flags().Changed("title") {
			title = updateTitle
		}
		if cmd.Flags().Changed("start") {
			start, err = time.ParseInLocation(timeFlagLayout, updateStart, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --start value (expected \"YYYY-MM-DD HH:MM\"): %w", err)
			}
		}
		if cmd.Flags().Changed("end") {
			end, err = time.ParseInLocation(timeFlagLayout, updateEnd, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --end value (expected \"YYYY-MM-DD HH:MM\"): %w", err)
			}
		}

		if err := app.UpdateSlotHandler.Handle(cmd.Context(), commands.UpdateSlotCommand{
			SlotID:    slotID,
			OwnerID:   app.CurrentUserID,
			Title:     title,
			StartTime: start,
			EndTime:   end,
		}); err != nil {
			return fmt.Errorf("failed to update slot: %w", err)
		}

		fmt.Printf("Updated slot %s.\n", slotID)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [slot-id]",
	Short: "Delete a slot",
	Long: `Delete one of your slots.

A slot reserved by a pending swap proposal cannot be deleted until the
proposal is resolved.`,
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.DeleteSlotHandler == nil {
			fmt.Println("Slot deletion requires a database connection.")
			return nil
		}

		slotID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid slot id: %w", err)
		}

		if err := app.DeleteSlotHandler.Handle(cmd.Context(), commands.DeleteSlotCommand{
			SlotID:  slotID,
			OwnerID: app.CurrentUserID,
		}); err != nil {
			return fmt.Errorf("failed to delete slot: %w", err)
		}

		fmt.Printf("Deleted slot %s.\n", slotID)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "new slot title")
	updateCmd.Flags().StringVarP(&updateStart, "start", "s", "", "new start time (YYYY-MM-DD HH:MM)")
	updateCmd.Flags().StringVarP(&updateEnd, "end", "e", "", "new end time (YYYY-MM-DD HH:MM)")
}
