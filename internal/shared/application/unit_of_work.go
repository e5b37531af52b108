package application

import "context"

// UnitOfWork provides all-or-nothing execution for multi-record operations.
type UnitOfWork interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UnitOfWorkFunc is a function that executes within a unit of work.
type UnitOfWorkFunc func(ctx context.Context) error

// RetryDecider reports whether a failed unit of work was aborted by a
// transient store conflict and may be re-run from scratch.
type RetryDecider func(err error) bool

// WithUnitOfWork executes fn within a single unit of work. Any error rolls
// the whole unit back; no partial state survives.
func WithUnitOfWork(ctx context.Context, uow UnitOfWork, fn UnitOfWorkFunc) error {
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(txCtx); err != nil {
		_ = uow.Rollback(txCtx)
		return err
	}

	return uow.Commit(txCtx)
}

// WithUnitOfWorkRetry executes fn within a unit of work, re-running it up to
// maxAttempts times when the store aborts the transaction with a transient
// serialization conflict. The final error surfaces unchanged once attempts
// are exhausted; application-level failures are never retried.
func WithUnitOfWorkRetry(ctx context.Context, uow UnitOfWork, retryable RetryDecider, maxAttempts int, fn UnitOfWorkFunc) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = WithUnitOfWork(ctx, uow, fn)
		if err == nil || retryable == nil || !retryable(err) {
			return err
		}
	}
	return err
}
