package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/felixgeelhaar/slotswap/internal/shared/domain"
)

// ErrNoRows is returned when a query expected to return a row returns none.
var ErrNoRows = errors.New("no rows in result set")

// IsNoRows returns true if the error indicates no rows were found,
// for both pgx and database/sql backends.
func IsNoRows(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, pgx.ErrNoRows) ||
		errors.Is(err, sql.ErrNoRows) ||
		errors.Is(err, ErrNoRows)
}

// IsTransient reports whether the store aborted a transaction for a reason
// that a fresh attempt may not hit again: a serialization failure or deadlock
// under SERIALIZABLE isolation, or SQLite's write-lock contention.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return true
		}
	}

	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// MapTxError converts a store-level transaction failure into one of the
// domain error kinds. Transient aborts that survived all retries surface as
// domain.ErrConflict; deadline expiry surfaces as domain.ErrTimeout.
// Application errors pass through untouched.
func MapTxError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	if IsTransient(err) {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}
