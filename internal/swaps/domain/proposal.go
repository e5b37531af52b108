package domain

import (
	"fmt"
	"time"

	sharedDomain "github.com/felixgeelhaar/slotswap/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrSameSlot        = fmt.Errorf("%w: cannot swap a slot for itself", sharedDomain.ErrValidation)
	ErrAlreadyResolved = fmt.Errorf("%w: proposal was already resolved", sharedDomain.ErrInvalidState)
)

// Status represents the lifecycle state of a swap proposal.
type Status string

const (
	// StatusPending is a proposal awaiting the responder's decision. Both
	// referenced slots stay reserved until it resolves.
	StatusPending Status = "pending"

	// StatusAccepted is a resolved proposal whose slots traded owners.
	StatusAccepted Status = "accepted"

	// StatusRejected is a resolved proposal whose slots went back on the
	// market.
	StatusRejected Status = "rejected"
)

// IsValid checks if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

// Proposal represents an offer to trade one slot for another. The requester
// offers one of their listed slots in exchange for another user's listed
// slot; the owner of the requested slot decides.
type Proposal struct {
	sharedDomain.BaseAggregateRoot
	requesterID     uuid.UUID
	responderID     uuid.UUID
	offeredSlotID   uuid.UUID
	requestedSlotID uuid.UUID
	status          Status
	respondedAt     *time.Time
}

// NewProposal creates a pending swap proposal.
func NewProposal(requesterID, responderID, offeredSlotID, requestedSlotID uuid.UUID) (*Proposal, error) {
	if offeredSlotID == requestedSlotID {
		return nil, ErrSameSlot
	}

	proposal := &Proposal{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		requesterID:       requesterID,
		responderID:       responderID,
		offeredSlotID:     offeredSlotID,
		requestedSlotID:   requestedSlotID,
		status:            StatusPending,
	}

	proposal.AddDomainEvent(NewSwapProposed(proposal))

	return proposal, nil
}

// Getters
func (p *Proposal) RequesterID() uuid.UUID     { return p.requesterID }
func (p *Proposal) ResponderID() uuid.UUID     { return p.responderID }
func (p *Proposal) OfferedSlotID() uuid.UUID   { return p.offeredSlotID }
func (p *Proposal) RequestedSlotID() uuid.UUID { return p.requestedSlotID }
func (p *Proposal) Status() Status             { return p.status }
func (p *Proposal) RespondedAt() *time.Time    { return p.respondedAt }

// IsPending reports whether the proposal is still awaiting a decision.
func (p *Proposal) IsPending() bool {
	return p.status == StatusPending
}

// Accept resolves the proposal in the requester's favor.
func (p *Proposal) Accept() error {
	if p.status != StatusPending {
		return ErrAlreadyResolved
	}

	now := time.Now().UTC()
	p.status = StatusAccepted
	p.respondedAt = &now
	p.Touch()
	p.AddDomainEvent(NewSwapAccepted(p))
	return nil
}

// Reject resolves the proposal by declining it.
func (p *Proposal) Reject() error {
	if p.status != StatusPending {
		return ErrAlreadyResolved
	}

	now := time.Now().UTC()
	p.status = StatusRejected
	p.respondedAt = &now
	p.Touch()
	p.AddDomainEvent(NewSwapRejected(p))
	return nil
}

// RehydrateProposal recreates a proposal from persisted state without
// generating events.
func RehydrateProposal(
	id uuid.UUID,
	requesterID uuid.UUID,
	responderID uuid.UUID,
	offeredSlotID uuid.UUID,
	requestedSlotID uuid.UUID,
	status Status,
	version int,
	createdAt time.Time,
	updatedAt time.Time,
	respondedAt *time.Time,
) *Proposal {
	baseEntity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	baseAggregate := sharedDomain.RehydrateBaseAggregateRoot(baseEntity, version)

	return &Proposal{
		BaseAggregateRoot: baseAggregate,
		requesterID:       requesterID,
		responderID:       responderID,
		offeredSlotID:     offeredSlotID,
		requestedSlotID:   requestedSlotID,
		status:            status,
		respondedAt:       respondedAt,
	}
}
