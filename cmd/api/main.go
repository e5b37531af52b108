package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/slotswap/adapter/api"
	"github.com/felixgeelhaar/slotswap/internal/app"
	"github.com/felixgeelhaar/slotswap/pkg/config"
)

func main() {
	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	logger.Info("starting slotswap API")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Update logger level based on config
	if cfg.IsDevelopment() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// Start outbox processor in background
	if cfg.OutboxProcessorEnabled {
		go container.OutboxProcessor.Start(ctx)
	} else {
		logger.Info("outbox processor disabled")
	}

	slots := api.NewSlotHandler(api.SlotHandlerConfig{
		CreateSlot:  container.CreateSlotHandler,
		PublishSlot: container.ListSlotHandler,
		UnlistSlot:  container.UnlistSlotHandler,
		UpdateSlot:  container.UpdateSlotHandler,
		DeleteSlot:  container.DeleteSlotHandler,
		GetSlot:     container.GetSlotHandler,
		ListMySlots: container.ListMySlotsHandler,
		ListMarket:  container.ListMarketHandler,
		Logger:      logger,
	})

	swaps := api.NewSwapHandler(api.SwapHandlerConfig{
		ProposeSwap:  container.ProposeSwapHandler,
		RespondSwap:  container.RespondSwapHandler,
		ListIncoming: container.ListIncomingHandler,
		ListOutgoing: container.ListOutgoingHandler,
		Logger:       logger,
	})

	serverConfig := api.DefaultServerConfig()
	if cfg.APIAddr != "" {
		serverConfig.Addr = cfg.APIAddr
	}
	server := api.NewServer(serverConfig, slots, swaps, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("API stopped")
}
