package app

import (
	"context"
	"fmt"
	"log/slog"

	sharedApplication "github.com/felixgeelhaar/slotswap/internal/shared/application"
	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/database/postgres" // Register Postgres driver
	_ "github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/outbox"
	slotCommands "github.com/felixgeelhaar/slotswap/internal/slots/application/commands"
	slotQueries "github.com/felixgeelhaar/slotswap/internal/slots/application/queries"
	slotsDomain "github.com/felixgeelhaar/slotswap/internal/slots/domain"
	slotsCache "github.com/felixgeelhaar/slotswap/internal/slots/infrastructure/cache"
	swapCommands "github.com/felixgeelhaar/slotswap/internal/swaps/application/commands"
	swapQueries "github.com/felixgeelhaar/slotswap/internal/swaps/application/queries"
	swapSubs "github.com/felixgeelhaar/slotswap/internal/swaps/application/subscribers"
	swapsDomain "github.com/felixgeelhaar/slotswap/internal/swaps/domain"
	"github.com/felixgeelhaar/slotswap/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis
	RedisClient *redis.Client

	// Repositories
	SlotRepo   slotsDomain.Repository
	SwapRepo   swapsDomain.Repository
	OutboxRepo outbox.Repository

	// Publishers
	EventPublisher eventbus.Publisher

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

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

	// Event Subscribers
	SwapNotificationSubscriber *swapSubs.SwapNotificationSubscriber
	InProcessEventBus          *eventbus.InProcessEventBus

	// Outbox Processor
	OutboxProcessor *outbox.Processor
}

// NewContainer creates and wires all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	// Connect to the database. Without a DATABASE_URL the embedded SQLite
	// store is used, so the CLI works with no services running.
	dbCfg := database.Config{
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	}
	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	c.DBConn = conn
	c.DBDriver = conn.Driver()
	logger.Info("connected to database", "driver", c.DBDriver)

	if err := migrations.Run(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Connect to Redis (optional; the market query falls back to the
	// database when no cache is configured)
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			if !cfg.IsDevelopment() {
				_ = conn.Close()
				return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
			}
			logger.Warn("invalid Redis URL, market cache disabled", "error", err)
		} else {
			redisClient := redis.NewClient(opt)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				if !cfg.IsDevelopment() {
					_ = conn.Close()
					return nil, fmt.Errorf("failed to connect to Redis: %w", err)
				}
				logger.Warn("Redis not available, market cache disabled", "error", err)
			} else {
				c.RedisClient = redisClient
				logger.Info("connected to Redis")
			}
		}
	}

	// Create repositories
	factory := NewRepositoryFactory(conn)
	if c.SlotRepo, err = factory.SlotRepository(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if c.SwapRepo, err = factory.SwapRepository(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if c.OutboxRepo, err = factory.OutboxRepository(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	c.UnitOfWork = database.NewUnitOfWork(conn)

	// Create event publisher
	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			if !cfg.IsDevelopment() {
				_ = conn.Close()
				return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			logger.Warn("RabbitMQ not available, using noop publisher")
			c.EventPublisher = eventbus.NewNoopPublisher(logger)
		} else {
			c.EventPublisher = eventbus.NewBreakerPublisher(publisher, eventbus.DefaultBreakerConfig(), logger)
		}
	} else {
		// Without a broker, deliver events in process so subscribers
		// still run.
		c.InProcessEventBus = eventbus.NewInProcessEventBus(logger)
		c.EventPublisher = c.InProcessEventBus
	}

	// Create slot command handlers
	c.CreateSlotHandler = slotCommands.NewCreateSlotHandler(c.SlotRepo, c.OutboxRepo, c.UnitOfWork)
	c.ListSlotHandler = slotCommands.NewListSlotHandler(c.SlotRepo, c.OutboxRepo, c.UnitOfWork)
	c.UnlistSlotHandler = slotCommands.NewUnlistSlotHandler(c.SlotRepo, c.OutboxRepo, c.UnitOfWork)
	c.UpdateSlotHandler = slotCommands.NewUpdateSlotHandler(c.SlotRepo, c.OutboxRepo, c.UnitOfWork)
	c.DeleteSlotHandler = slotCommands.NewDeleteSlotHandler(c.SlotRepo, c.OutboxRepo, c.UnitOfWork)

	// Create slot query handlers
	var marketCache slotQueries.MarketCache
	if c.RedisClient != nil {
		marketCache = slotsCache.NewRedisMarketCache(c.RedisClient, cfg.MarketCacheTTL, logger)
	}
	c.GetSlotHandler = slotQueries.NewGetSlotHandler(c.SlotRepo)
	c.ListMySlotsHandler = slotQueries.NewListMySlotsHandler(c.SlotRepo)
	c.ListMarketHandler = slotQueries.NewListMarketHandler(c.SlotRepo, marketCache, logger)

	// Create swap handlers
	c.ProposeSwapHandler = swapCommands.NewProposeSwapHandler(c.SlotRepo, c.SwapRepo, c.OutboxRepo, c.UnitOfWork)
	c.RespondSwapHandler = swapCommands.NewRespondSwapHandler(c.SlotRepo, c.SwapRepo, c.OutboxRepo, c.UnitOfWork, logger)
	c.ListIncomingHandler = swapQueries.NewListIncomingHandler(c.SwapRepo)
	c.ListOutgoingHandler = swapQueries.NewListOutgoingHandler(c.SwapRepo)

	// Create event subscribers
	c.SwapNotificationSubscriber = swapSubs.NewSwapNotificationSubscriber(c.SwapRepo, logger)
	if c.InProcessEventBus != nil {
		c.InProcessEventBus.RegisterConsumer(c.SwapNotificationSubscriber)
	}

	// Create outbox processor
	processorConfig := outbox.ProcessorConfig{
		PollInterval: cfg.OutboxPollInterval,
		BatchSize:    cfg.OutboxBatchSize,
		MaxRetries:   cfg.OutboxMaxRetries,
	}
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorConfig, logger)

	return c, nil
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		}
	}
}
