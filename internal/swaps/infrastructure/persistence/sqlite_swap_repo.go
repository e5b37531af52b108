package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/slotswap/internal/swaps/domain"
	"github.com/google/uuid"
)

// timeLayout is a fixed-width RFC 3339 variant so TEXT timestamps sort
// correctly in SQLite.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteSwapRepository implements domain.Repository using SQLite.
type SQLiteSwapRepository struct {
	conn database.Connection
}

// NewSQLiteSwapRepository creates a new SQLite swap proposal repository.
func NewSQLiteSwapRepository(conn database.Connection) *SQLiteSwapRepository {
	return &SQLiteSwapRepository{conn: conn}
}

// Save persists a proposal with a version guard on updates.
func (r *SQLiteSwapRepository) Save(ctx context.Context, proposal *domain.Proposal) error {
	query := `
		INSERT INTO swap_proposals (id, requester_id, responder_id, offered_slot_id, requested_slot_id, status, version, created_at, updated_at, responded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			version = swap_proposals.version + 1,
			updated_at = excluded.updated_at,
			responded_at = excluded.responded_at
		WHERE swap_proposals.version = ?
		RETURNING version
	`

	var respondedAt any
	if t := proposal.RespondedAt(); t != nil {
		respondedAt = t.UTC().Format(timeLayout)
	}

	var newVersion int
	exec := database.ExecutorFromContext(ctx, r.conn)
	err := exec.QueryRow(ctx, query,
		proposal.ID().String(),
		proposal.RequesterID().String(),
		proposal.ResponderID().String(),
		proposal.OfferedSlotID().String(),
		proposal.RequestedSlotID().String(),
		string(proposal.Status()),
		proposal.Version(),
		proposal.CreatedAt().UTC().Format(timeLayout),
		proposal.UpdatedAt().UTC().Format(timeLayout),
		respondedAt,
		proposal.Version(),
	).Scan(&newVersion)

	if err != nil {
		if database.IsNoRows(err) {
			return ErrOptimisticLock
		}
		return err
	}

	return nil
}

// FindByID retrieves a proposal by its ID. Returns (nil, nil) when no
// proposal exists.
func (r *SQLiteSwapRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	query := `
		SELECT id, requester_id, responder_id, offered_slot_id, requested_slot_id, status, version, created_at, updated_at, responded_at
		FROM swap_proposals
		WHERE id = ?
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	proposal, err := scanSQLiteProposal(exec.QueryRow(ctx, query, id.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return proposal, nil
}

// FindPendingByResponder retrieves pending proposals awaiting a user's
// response, newest first.
func (r *SQLiteSwapRepository) FindPendingByResponder(ctx context.Context, responderID uuid.UUID) ([]*domain.Proposal, error) {
	return r.findPending(ctx, "responder_id", responderID)
}

// FindPendingByRequester retrieves a user's own pending proposals, newest
// first.
func (r *SQLiteSwapRepository) FindPendingByRequester(ctx context.Context, requesterID uuid.UUID) ([]*domain.Proposal, error) {
	return r.findPending(ctx, "requester_id", requesterID)
}

func (r *SQLiteSwapRepository) findPending(ctx context.Context, column string, userID uuid.UUID) ([]*domain.Proposal, error) {
	query := fmt.Sprintf(`
		SELECT id, requester_id, responder_id, offered_slot_id, requested_slot_id, status, version, created_at, updated_at, responded_at
		FROM swap_proposals
		WHERE %s = ? AND status = ?
		ORDER BY created_at DESC
	`, column)

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, userID.String(), string(domain.StatusPending))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteProposals(rows)
}

func scanSQLiteProposal(row database.Row) (*domain.Proposal, error) {
	var (
		idStr          string
		requesterStr   string
		responderStr   string
		offeredStr     string
		requestedStr   string
		status         string
		version        int
		createdStr     string
		updatedStr     string
		respondedAtStr sql.NullString
	)

	err := row.Scan(&idStr, &requesterStr, &responderStr, &offeredStr, &requestedStr, &status, &version, &createdStr, &updatedStr, &respondedAtStr)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parsing proposal id: %w", err)
	}
	requesterID, err := uuid.Parse(requesterStr)
	if err != nil {
		return nil, fmt.Errorf("parsing requester id: %w", err)
	}
	responderID, err := uuid.Parse(responderStr)
	if err != nil {
		return nil, fmt.Errorf("parsing responder id: %w", err)
	}
	offeredSlotID, err := uuid.Parse(offeredStr)
	if err != nil {
		return nil, fmt.Errorf("parsing offered slot id: %w", err)
	}
	requestedSlotID, err := uuid.Parse(requestedStr)
	if err != nil {
		return nil, fmt.Errorf("parsing requested slot id: %w", err)
	}

	createdAt, err := time.Parse(timeLayout, createdStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	updatedAt, err := time.Parse(timeLayout, updatedStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	var respondedAt *time.Time
	if respondedAtStr.Valid {
		t, err := time.Parse(timeLayout, respondedAtStr.String)
		if err != nil {
			return nil, fmt.Errorf("parsing responded_at: %w", err)
		}
		respondedAt = &t
	}

	return domain.RehydrateProposal(
		id, requesterID, responderID,
		offeredSlotID, requestedSlotID,
		domain.Status(status), version,
		createdAt, updatedAt, respondedAt,
	), nil
}

func scanSQLiteProposals(rows database.Rows) ([]*domain.Proposal, error) {
	var proposals []*domain.Proposal
	for rows.Next() {
		proposal, err := scanSQLiteProposal(rows)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, proposal)
	}
	return proposals, rows.Err()
}
