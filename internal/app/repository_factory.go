package app

import (
	"fmt"

	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/outbox"
	slotsDomain "github.com/felixgeelhaar/slotswap/internal/slots/domain"
	slotsPersistence "github.com/felixgeelhaar/slotswap/internal/slots/infrastructure/persistence"
	swapsDomain "github.com/felixgeelhaar/slotswap/internal/swaps/domain"
	swapsPersistence "github.com/felixgeelhaar/slotswap/internal/swaps/infrastructure/persistence"
)

// RepositoryFactory creates repositories based on the database driver.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// SlotRepository creates a slot repository for the configured driver.
func (f *RepositoryFactory) SlotRepository() (slotsDomain.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return slotsPersistence.NewPostgresSlotRepository(f.conn), nil
	case database.DriverSQLite:
		return slotsPersistence.NewSQLiteSlotRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// SwapRepository creates a swap proposal repository for the configured driver.
func (f *RepositoryFactory) SwapRepository() (swapsDomain.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return swapsPersistence.NewPostgresSwapRepository(f.conn), nil
	case database.DriverSQLite:
		return swapsPersistence.NewSQLiteSwapRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// OutboxRepository creates an outbox repository for the configured driver.
func (f *RepositoryFactory) OutboxRepository() (outbox.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return outbox.NewPostgresRepository(f.conn), nil
	case database.DriverSQLite:
		return outbox.NewSQLiteRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// Driver returns the database driver type.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.driver
}

// Connection returns the underlying database connection.
func (f *RepositoryFactory) Connection() database.Connection {
	return f.conn
}
