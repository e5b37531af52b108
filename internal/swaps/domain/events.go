package domain

import (
	sharedDomain "github.com/felixgeelhaar/slotswap/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "SwapProposal"

// SwapProposed is emitted when a swap proposal is created.
type SwapProposed struct {
	sharedDomain.BaseEvent
	ProposalID      uuid.UUID `json:"proposal_id"`
	RequesterID     uuid.UUID `json:"requester_id"`
	ResponderID     uuid.UUID `json:"responder_id"`
	OfferedSlotID   uuid.UUID `json:"offered_slot_id"`
	RequestedSlotID uuid.UUID `json:"requested_slot_id"`
}

// NewSwapProposed creates a SwapProposed event.
func NewSwapProposed(p *Proposal) *SwapProposed {
	return &SwapProposed{
		BaseEvent:       sharedDomain.NewBaseEvent(p.ID(), aggregateType, "swaps.swap.proposed"),
		ProposalID:      p.ID(),
		RequesterID:     p.RequesterID(),
		ResponderID:     p.ResponderID(),
		OfferedSlotID:   p.OfferedSlotID(),
		RequestedSlotID: p.RequestedSlotID(),
	}
}

// SwapAccepted is emitted when a swap proposal is accepted and the slots
// trade owners.
type SwapAccepted struct {
	sharedDomain.BaseEvent
	ProposalID      uuid.UUID `json:"proposal_id"`
	RequesterID     uuid.UUID `json:"requester_id"`
	ResponderID     uuid.UUID `json:"responder_id"`
	OfferedSlotID   uuid.UUID `json:"offered_slot_id"`
	RequestedSlotID uuid.UUID `json:"requested_slot_id"`
}

// NewSwapAccepted creates a SwapAccepted event.
func NewSwapAccepted(p *Proposal) *SwapAccepted {
	return &SwapAccepted{
		BaseEvent:       sharedDomain.NewBaseEvent(p.ID(), aggregateType, "swaps.swap.accepted"),
		ProposalID:      p.ID(),
		RequesterID:     p.RequesterID(),
		ResponderID:     p.ResponderID(),
		OfferedSlotID:   p.OfferedSlotID(),
		RequestedSlotID: p.RequestedSlotID(),
	}
}

// SwapRejected is emitted when a swap proposal is declined and the slots
// return to the market.
type SwapRejected struct {
	sharedDomain.BaseEvent
	ProposalID      uuid.UUID `json:"proposal_id"`
	RequesterID     uuid.UUID `json:"requester_id"`
	ResponderID     uuid.UUID `json:"responder_id"`
	OfferedSlotID   uuid.UUID `json:"offered_slot_id"`
	RequestedSlotID uuid.UUID `json:"requested_slot_id"`
}

// NewSwapRejected creates a SwapRejected event.
func NewSwapRejected(p *Proposal) *SwapRejected {
	return &SwapRejected{
		BaseEvent:       sharedDomain.NewBaseEvent(p.ID(), aggregateType, "swaps.swap.rejected"),
		ProposalID:      p.ID(),
		RequesterID:     p.RequesterID(),
		ResponderID:     p.ResponderID(),
		OfferedSlotID:   p.OfferedSlotID(),
		RequestedSlotID: p.RequestedSlotID(),
	}
}
