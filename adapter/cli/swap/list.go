package swap

import (
	"fmt"

	"github.com/felixgeelhaar/slotswap/adapter/cli"
	"github.com/felixgeelhaar/slotswap/internal/swaps/application/queries"
	"github.com/spf13/cobra"
)

var incomingCmd = &cobra.Command{
	Use:   "incoming",
	Short: "List proposals waiting on your response",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListIncomingHandler == nil {
			fmt.Println("Swap proposals require a database connection.")
			return nil
		}

		proposals, err := app.ListIncomingHandler.Handle(cmd.Context(), queries.ListIncomingQuery{
			ResponderID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to list incoming proposals: %w", err)
		}

		if len(proposals) == 0 {
			fmt.Println("No incoming swap proposals.")
			return nil
		}

		fmt.Printf("Incoming proposals (%d):\n\n", len(proposals))
		for _, p := range proposals {
			fmt.Printf("  %s\n", p.ID)
			fmt.Printf("    from:      %s\n", p.RequesterID)
			fmt.Printf("    they give: %s\n", p.OfferedSlotID)
			fmt.Printf("    they want: %s\n", p.RequestedSlotID)
			fmt.Printf("    proposed:  %s\n\n", p.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Println("Respond with: slotswap swap accept <id>  or  slotswap swap reject <id>")

		return nil
	},
}

var outgoingCmd = &cobra.Command{
	Use:   "outgoing",
	Short: "List proposals you are waiting on",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListOutgoingHandler == nil {
			fmt.Println("Swap proposals require a database connection.")
			return nil
		}

		proposals, err := app.ListOutgoingHandler.Handle(cmd.Context(), queries.ListOutgoingQuery{
			RequesterID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to list outgoing proposals: %w", err)
		}

		if len(proposals) == 0 {
			fmt.Println("No outgoing swap proposals.")
			return nil
		}

		fmt.Printf("Outgoing proposals (%d):\n\n", len(proposals))
		for _, p := range proposals {
			fmt.Printf("  %s\n", p.ID)
			fmt.Printf("    to:       %s\n", p.ResponderID)
			fmt.Printf("    you give: %s\n", p.OfferedSlotID)
			fmt.Printf("    you want: %s\n", p.RequestedSlotID)
			fmt.Printf("    proposed: %s\n\n", p.CreatedAt.Local().Format("2006-01-02 15:04"))
		}

		return nil
	},
}
