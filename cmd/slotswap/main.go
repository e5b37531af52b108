package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/slotswap/adapter/cli"
	"github.com/felixgeelhaar/slotswap/adapter/cli/slot"
	"github.com/felixgeelhaar/slotswap/adapter/cli/swap"
	"github.com/felixgeelhaar/slotswap/internal/app"
	"github.com/felixgeelhaar/slotswap/pkg/config"
	"github.com/google/uuid"
)

func main() {
	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// In development without .env, use defaults
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}

	// Update logger level based on config
	if cfg.IsDevelopment() {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	cli.SetLogger(logger)

	// Try to initialize the full container
	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
			// In development, allow CLI to run without database
			cliApp = nil
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()

		// Start outbox processor in background (optional in CLI)
		if cfg.OutboxProcessorEnabled {
			go container.OutboxProcessor.Start(ctx)
		} else {
			logger.Info("outbox processor disabled in CLI")
		}

		// Create CLI app with handlers
		cliApp = &cli.App{
			CreateSlotHandler: container.CreateSlotHandler,
			ListSlotHandler:   container.ListSlotHandler,
			UnlistSlotHandler: container.UnlistSlotHandler,
			UpdateSlotHandler: container.UpdateSlotHandler,
			DeleteSlotHandler: container.DeleteSlotHandler,

			GetSlotHandler:     container.GetSlotHandler,
			ListMySlotsHandler: container.ListMySlotsHandler,
			ListMarketHandler:  container.ListMarketHandler,

			ProposeSwapHandler: container.ProposeSwapHandler,
			RespondSwapHandler: container.RespondSwapHandler,

			ListIncomingHandler: container.ListIncomingHandler,
			ListOutgoingHandler: container.ListOutgoingHandler,
		}

		userID, err := uuid.Parse(cfg.UserID)
		if err != nil {
			logger.Error("invalid SLOTSWAP_USER_ID", "error", err)
			os.Exit(1)
		}
		cliApp.SetCurrentUserID(userID)
	}

	// Set the CLI app
	cli.SetApp(cliApp)

	// Register commands
	cli.AddCommand(slot.Cmd)
	cli.AddCommand(swap.Cmd)

	// Execute CLI
	cli.Execute()
}
