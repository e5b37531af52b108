package cli

import (
	slotCommands "github.com/felixgeelhaar/slotswap/internal/slots/application/commands"
	slotQueries "github.com/felixgeelhaar/slotswap/internal/slots/application/queries"
	swapCommands "github.com/felixgeelhaar/slotswap/internal/swaps/application/commands"
	swapQueries "github.com/felixgeelhaar/slotswap/internal/swaps/application/queries"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	// Slot Command Handlers
	CreateSlotHandler *slotCommands.CreateSlotHandler
	ListSlotHandler   *slotCommands.ListSlotHandler
	UnlistSlotHandler *slotCommands.UnlistSlotHandler
	UpdateSlotHandler *slotCommands.UpdateSlotHandler
	DeleteSlotHandler *slotCommands.DeleteSlotHandler

	// Slot Query Handlers
	GetSlotHandler     *slotQueries.GetSlotHandler
	ListMySlotsHandler *slotQueries.ListMySlotsHandler
	ListMarketHandler  *slotQueries.ListMarketHandler

	// Swap Command Handlers
	ProposeSwapHandler *swapCommands.ProposeSwapHandler
	RespondSwapHandler *swapCommands.RespondSwapHandler

	// Swap Query Handlers
	ListIncomingHandler *swapQueries.ListIncomingHandler
	ListOutgoingHandler *swapQueries.ListOutgoingHandler

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
