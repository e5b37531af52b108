package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/slotswap/internal/shared/application"
	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/database"
)

// maxTxAttempts bounds transparent re-runs of a unit of work after the store
// aborts it with a serialization conflict.
const maxTxAttempts = 3

// runInTx executes fn in a retried unit of work and maps store-level
// transaction failures to domain error kinds.
func runInTx(ctx context.Context, uow sharedApplication.UnitOfWork, fn sharedApplication.UnitOfWorkFunc) error {
	err := sharedApplication.WithUnitOfWorkRetry(ctx, uow, database.IsTransient, maxTxAttempts, fn)
	return database.MapTxError(err)
}
