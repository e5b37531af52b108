package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/slotswap/internal/slots/domain"
	"github.com/google/uuid"
)

// timeLayout is a fixed-width RFC 3339 variant so TEXT timestamps sort
// correctly in SQLite.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteSlotRepository implements domain.Repository using SQLite.
type SQLiteSlotRepository struct {
	conn database.Connection
}

// NewSQLiteSlotRepository creates a new SQLite slot repository.
func NewSQLiteSlotRepository(conn database.Connection) *SQLiteSlotRepository {
	return &SQLiteSlotRepository{conn: conn}
}

// Save persists a slot with a version guard on updates.
func (r *SQLiteSlotRepository) Save(ctx context.Context, slot *domain.Slot) error {
	query := `
		INSERT INTO slots (id, owner_id, title, start_time, end_time, status, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			owner_id = excluded.owner_id,
			title = excluded.title,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			status = excluded.status,
			version = slots.version + 1,
			updated_at = excluded.updated_at
		WHERE slots.version = ?
		RETURNING version
	`

	var newVersion int
	exec := database.ExecutorFromContext(ctx, r.conn)
	err := exec.QueryRow(ctx, query,
		slot.ID().String(),
		slot.OwnerID().String(),
		slot.Title(),
		slot.StartTime().UTC().Format(timeLayout),
		slot.EndTime().UTC().Format(timeLayout),
		string(slot.Status()),
		slot.Version(),
		slot.CreatedAt().UTC().Format(timeLayout),
		slot.UpdatedAt().UTC().Format(timeLayout),
		slot.Version(),
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
func (r *SQLiteSlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Slot, error) {
	query := `
		SELECT id, owner_id, title, start_time, end_time, status, version, created_at, updated_at
		FROM slots
		WHERE id = ?
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	slot, err := scanSQLiteSlot(exec.QueryRow(ctx, query, id.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return slot, nil
}

// FindByOwner retrieves all slots belonging to a user, earliest first.
func (r *SQLiteSlotRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Slot, error) {
	query := `
		SELECT id, owner_id, title, start_time, end_time, status, version, created_at, updated_at
		FROM slots
		WHERE owner_id = ?
		ORDER BY start_time
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, ownerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteSlots(rows)
}

// FindListed retrieves listed slots from other users, earliest first.
func (r *SQLiteSlotRepository) FindListed(ctx context.Context, excludeOwnerID uuid.UUID) ([]*domain.Slot, error) {
	query := `
		SELECT id, owner_id, title, start_time, end_time, status, version, created_at, updated_at
		FROM slots
		WHERE status = ? AND owner_id <> ?
		ORDER BY start_time
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, string(domain.StatusListed), excludeOwnerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteSlots(rows)
}

// TransitionStatus moves a slot between statuses only if the expected status
// still holds.
func (r *SQLiteSlotRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.Status) error {
	query := `
		UPDATE slots
		SET status = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND status = ?
	`

	now := time.Now().UTC().Format(timeLayout)
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, query, string(to), now, id.String(), string(from))
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
func (r *SQLiteSlotRepository) TransferOwnership(ctx context.Context, id uuid.UUID, fromOwnerID, toOwnerID uuid.UUID, from, to domain.Status) error {
	query := `
		UPDATE slots
		SET owner_id = ?, status = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND owner_id = ? AND status = ?
	`

	now := time.Now().UTC().Format(timeLayout)
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, query,
		toOwnerID.String(), string(to), now,
		id.String(), fromOwnerID.String(), string(from),
	)
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
func (r *SQLiteSlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM slots WHERE id = ?`, id.String())
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

func (r *SQLiteSlotRepository) probeConflict(ctx context.Context, exec database.Executor, id uuid.UUID) error {
	var status string
	err := exec.QueryRow(ctx, `SELECT status FROM slots WHERE id = ?`, id.String()).Scan(&status)
	if err != nil {
		if database.IsNoRows(err) {
			return ErrSlotNotFound
		}
		return err
	}
	return fmt.Errorf("%w (current status %q)", ErrSlotConflict, status)
}

func scanSQLiteSlot(row database.Row) (*domain.Slot, error) {
	var (
		idStr      string
		ownerIDStr string
		title      string
		startStr   string
		endStr     string
		status     string
		version    int
		createdStr string
		updatedStr string
	)

	err := row.Scan(&idStr, &ownerIDStr, &title, &startStr, &endStr, &status, &version, &createdStr, &updatedStr)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parsing slot id: %w", err)
	}
	ownerID, err := uuid.Parse(ownerIDStr)
	if err != nil {
		return nil, fmt.Errorf("parsing owner id: %w", err)
	}

	startTime, err := time.Parse(timeLayout, startStr)
	if err != nil {
		return nil, fmt.Errorf("parsing start_time: %w", err)
	}
	endTime, err := time.Parse(timeLayout, endStr)
	if err != nil {
		return nil, fmt.Errorf("parsing end_time: %w", err)
	}
	createdAt, err := time.Parse(timeLayout, createdStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	updatedAt, err := time.Parse(timeLayout, updatedStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return domain.RehydrateSlot(
		id, ownerID, title,
		startTime, endTime,
		domain.Status(status), version,
		createdAt, updatedAt,
	), nil
}

func scanSQLiteSlots(rows database.Rows) ([]*domain.Slot, error) {
	var slots []*domain.Slot
	for rows.Next() {
		slot, err := scanSQLiteSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}
