package persistence

import (
	"context"
	"fmt"
	"time"

	sharedDomain "github.com/felixgeelhaar/slotswap/internal/shared/domain"
	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/slotswap/internal/swaps/domain"
	"github.com/google/uuid"
)

var ErrOptimisticLock = fmt.Errorf("%w: proposal was modified concurrently", sharedDomain.ErrConflict)

// PostgresSwapRepository implements domain.Repository using PostgreSQL.
type PostgresSwapRepository struct {
	conn database.Connection
}

// NewPostgresSwapRepository creates a new PostgreSQL swap proposal repository.
func NewPostgresSwapRepository(conn database.Connection) *PostgresSwapRepository {
	return &PostgresSwapRepository{conn: conn}
}

// Save persists a proposal. Updates guard on the aggregate version so a stale
// write loses instead of clobbering a concurrent one.
func (r *PostgresSwapRepository) Save(ctx context.Context, proposal *domain.Proposal) error {
	query := `
		INSERT INTO swap_proposals (id, requester_id, responder_id, offered_slot_id, requested_slot_id, status, version, created_at, updated_at, responded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			version = swap_proposals.version + 1,
			updated_at = EXCLUDED.updated_at,
			responded_at = EXCLUDED.responded_at
		WHERE swap_proposals.version = $7
		RETURNING version
	`

	var newVersion int
	exec := database.ExecutorFromContext(ctx, r.conn)
	err := exec.QueryRow(ctx, query,
		proposal.ID(),
		proposal.RequesterID(),
		proposal.ResponderID(),
		proposal.OfferedSlotID(),
		proposal.RequestedSlotID(),
		string(proposal.Status()),
		proposal.Version(),
		proposal.CreatedAt(),
		proposal.UpdatedAt(),
		proposal.RespondedAt(),
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
func (r *PostgresSwapRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	query := `
		SELECT id, requester_id, responder_id, offered_slot_id, requested_slot_id, status, version, created_at, updated_at, responded_at
		FROM swap_proposals
		WHERE id = $1
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	proposal, err := scanPostgresProposal(exec.QueryRow(ctx, query, id))
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
func (r *PostgresSwapRepository) FindPendingByResponder(ctx context.Context, responderID uuid.UUID) ([]*domain.Proposal, error) {
	return r.findPending(ctx, "responder_id", responderID)
}

// FindPendingByRequester retrieves a user's own pending proposals, newest
// first.
func (r *PostgresSwapRepository) FindPendingByRequester(ctx context.Context, requesterID uuid.UUID) ([]*domain.Proposal, error) {
	return r.findPending(ctx, "requester_id", requesterID)
}

func (r *PostgresSwapRepository) findPending(ctx context.Context, column string, userID uuid.UUID) ([]*domain.Proposal, error) {
	query := fmt.Sprintf(`
		SELECT id, requester_id, responder_id, offered_slot_id, requested_slot_id, status, version, created_at, updated_at, responded_at
		FROM swap_proposals
		WHERE %s = $1 AND status = $2
		ORDER BY created_at DESC
	`, column)

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, userID, string(domain.StatusPending))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPostgresProposals(rows)
}

func scanPostgresProposal(row database.Row) (*domain.Proposal, error) {
	var (
		id              uuid.UUID
		requesterID     uuid.UUID
		responderID     uuid.UUID
		offeredSlotID   uuid.UUID
		requestedSlotID uuid.UUID
		status          string
		version         int
		createdAt       time.Time
		updatedAt       time.Time
		respondedAt     *time.Time
	)

	err := row.Scan(&id, &requesterID, &responderID, &offeredSlotID, &requestedSlotID, &status, &version, &createdAt, &updatedAt, &respondedAt)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateProposal(
		id, requesterID, responderID,
		offeredSlotID, requestedSlotID,
		domain.Status(status), version,
		createdAt, updatedAt, respondedAt,
	), nil
}

func scanPostgresProposals(rows database.Rows) ([]*domain.Proposal, error) {
	var proposals []*domain.Proposal
	for rows.Next() {
		proposal, err := scanPostgresProposal(rows)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, proposal)
	}
	return proposals, rows.Err()
}
