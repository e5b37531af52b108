package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for swap proposal persistence.
type Repository interface {
	// Save persists a proposal (create or update). Updates check the
	// aggregate version and fail with a conflict when the row moved
	// underneath.
	Save(ctx context.Context, proposal *Proposal) error

	// FindByID finds a proposal by its ID. Returns (nil, nil) when no
	// proposal exists.
	FindByID(ctx context.Context, id uuid.UUID) (*Proposal, error)

	// FindPendingByResponder finds pending proposals addressed to a user,
	// newest first.
	FindPendingByResponder(ctx context.Context, responderID uuid.UUID) ([]*Proposal, error)

	// FindPendingByRequester finds pending proposals created by a user,
	// newest first.
	FindPendingByRequester(ctx context.Context, requesterID uuid.UUID) ([]*Proposal, error)
}
