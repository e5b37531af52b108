package persistence

import (
	"context"
	"fmt"
	"time"

	sharedDomain "github.com/felixgeelhaar/slotswap/internal/shared/domain"
	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/slotswap/internal/slots/domain"
	"github.com/google/uuid"
)

var (
	ErrSlotNotFound   = fmt.Errorf("%w: slot not found", sharedDomain.ErrNotFound)
	ErrSlotConflict   = fmt.Errorf("%w: slot state changed concurrently", sharedDomain.ErrConflict)
	ErrOptimisticLock = fmt.Errorf("%w: slot was modified concurrently", sharedDomain.ErrConflict)
)

// PostgresSlotRepository implements domain.Repository using PostgreSQL.
type PostgresSlotRepository struct {
	conn database.Connection
}

// NewPostgresSlotRepository creates a new PostgreSQL slot repository.
func NewPostgresSlotRepository(conn database.Connection) *PostgresSlotRepository {
	return &PostgresSlotRepository{conn: conn}
}

// Save persists a slot. Updates guard on the aggregate version so a stale
// write loses instead of clobbering a concurrent one.
func (r *PostgresSlotRepository) Save(ctx context.Context, slot *domain.Slot) error {
	query := `
		INSERT INTO slots (id, owner_id, title, start_time, end_time, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			owner_id = EXCLUDED.owner_id,
			title = EXCLUDED.title,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			status = EXCLUDED.status,
			version = slots.version + 1,
			updated_at = EXCLUDED.updated_at
		WHERE slots.version = $7
		RETURNING version
	`

	var newVersion int
	exec := database.ExecutorFromContext(ctx, r.conn)
	err := exec.QueryRow(ctx, query,
		slot.ID(),
		slot.OwnerID(),
		slot.Title(),
		slot.StartTime(),
		slot.EndTime(),
		string(slot.Status()),
		slot.Version(),
		slot.CreatedAt(),
		slot.UpdatedAt(),
	).Scan(&newVersion)

	if err != nil {
		if database.IsNoRows(err) {
			return ErrOptimisticLock
		}
		return err
	}

	return nil
}

// FindByID retrieves a slot by its ID. Returns (nil, nil) when no slot exists.
func (r *PostgresSlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Slot, error) {
	query := `
		SELECT id, owner_id, title, start_time, end_time, status, version, created_at, updated_at
		FROM slots
		WHERE id = $1
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	slot, err := scanPostgresSlot(exec.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return slot, nil
}

// FindByOwner retrieves all slots belonging to a user, earliest first.
func (r *PostgresSlotRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Slot, error) {
	query := `
		SELECT id, owner_id, title, start_time, end_time, status, version, created_at, updated_at
		FROM slots
		WHERE owner_id = $1
		ORDER BY start_time
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPostgresSlots(rows)
}

// FindListed retrieves listed slots from other users, earliest first.
func (r *PostgresSlotRepository) FindListed(ctx context.Context, excludeOwnerID uuid.UUID) ([]*domain.Slot, error) {
	query := `
		SELECT id, owner_id, title, start_time, end_time, status, version, created_at, updated_at
		FROM slots
		WHERE status = $1 AND owner_id <> $2
		ORDER BY start_time
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, string(domain.StatusListed), excludeOwnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPostgresSlots(rows)
}

// TransitionStatus moves a slot between statuses only if the expected status
// still holds. Zero rows affected means either the slot vanished or another
// operation moved it first; a probe read distinguishes the two.
func (r *PostgresSlotRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.Status) error {
	query := `
		UPDATE slots
		SET status = $3, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, query, id, string(from), string(to))
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.probeConflict(ctx, exec, id)
	}
	return nil
}

// TransferOwnership reassigns a slot to a new owner while transitioning its
// status, only if the expected owner and status still hold.
func (r *PostgresSlotRepository) TransferOwnership(ctx context.Context, id uuid.UUID, fromOwnerID, toOwnerID uuid.UUID, from, to domain.Status) error {
	query := `
		UPDATE slots
		SET owner_id = $3, status = $5, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2 AND status = $4
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, query, id, fromOwnerID, toOwnerID, string(from), string(to))
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.probeConflict(ctx, exec, id)
	}
	return nil
}

// Delete removes a slot.
func (r *PostgresSlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM slots WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func (r *PostgresSlotRepository) probeConflict(ctx context.Context, exec database.Executor, id uuid.UUID) error {
	var status string
	err := exec.QueryRow(ctx, `SELECT status FROM slots WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if database.IsNoRows(err) {
			return ErrSlotNotFound
		}
		return err
	}
	return fmt.Errorf("%w (current status %q)", ErrSlotConflict, status)
}

func scanPostgresSlot(row database.Row) (*domain.Slot, error) {
	var (
		id        uuid.UUID
		ownerID   uuid.UUID
		title     string
		startTime time.Time
		endTime   time.Time
		status    string
		version   int
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&id, &ownerID, &title, &startTime, &endTime, &status, &version, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateSlot(
		id, ownerID, title,
		startTime, endTime,
		domain.Status(status), version,
		createdAt, updatedAt,
	), nil
}

func scanPostgresSlots(rows database.Rows) ([]*domain.Slot, error) {
	var slots []*domain.Slot
	for rows.Next() {
		slot, err := scanPostgresSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}
