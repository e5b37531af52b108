package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for slot persistence.
//
// TransitionStatus and TransferOwnership are conditional updates: they apply
// only when the row still matches the expected state, and report a conflict
// kind error when a concurrent operation got there first. The swap engine is
// built entirely on these two primitives.
type Repository interface {
	// Save persists a slot (create or update). Updates check the aggregate
	// version and fail with a conflict when the row moved underneath.
	Save(ctx context.Context, slot *Slot) error

	// FindByID finds a slot by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Slot, error)

	// FindByOwner finds all slots belonging to a user, earliest first.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Slot, error)

	// FindListed finds listed slots from other users, earliest first.
	FindListed(ctx context.Context, excludeOwnerID uuid.UUID) ([]*Slot, error)

	// TransitionStatus moves a slot from one status to another only if it is
	// still in the expected status.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status) error

	// TransferOwnership atomically reassigns a slot to a new owner while
	// transitioning its status, only if the expected owner and status still
	// hold.
	TransferOwnership(ctx context.Context, id uuid.UUID, fromOwnerID, toOwnerID uuid.UUID, from, to Status) error

	// Delete removes a slot.
	Delete(ctx context.Context, id uuid.UUID) error
}
