package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/slotswap/internal/swaps/domain"
	"github.com/google/uuid"
)

// ProposalDTO is the read model for a swap proposal.
type ProposalDTO struct {
	ID              uuid.UUID  `json:"id"`
	RequesterID     uuid.UUID  `json:"requester_id"`
	ResponderID     uuid.UUID  `json:"responder_id"`
	OfferedSlotID   uuid.UUID  `json:"offered_slot_id"`
	RequestedSlotID uuid.UUID  `json:"requested_slot_id"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
}

func toProposalDTO(p *domain.Proposal) ProposalDTO {
	return ProposalDTO{
		ID:              p.ID(),
		RequesterID:     p.RequesterID(),
		ResponderID:     p.ResponderID(),
		OfferedSlotID:   p.OfferedSlotID(),
		RequestedSlotID: p.RequestedSlotID(),
		Status:          string(p.Status()),
		CreatedAt:       p.CreatedAt(),
		RespondedAt:     p.RespondedAt(),
	}
}

// ListIncomingQuery contains the parameters for listing proposals awaiting
// the user's response.
type ListIncomingQuery struct {
	ResponderID uuid.UUID
}

// ListIncomingHandler handles the ListIncomingQuery.
type ListIncomingHandler struct {
	proposalRepo domain.Repository
}

// NewListIncomingHandler creates a new ListIncomingHandler.
func NewListIncomingHandler(proposalRepo domain.Repository) *ListIncomingHandler {
	return &ListIncomingHandler{proposalRepo: proposalRepo}
}

// Handle executes the ListIncomingQuery. Proposals come back newest first.
func (h *ListIncomingHandler) Handle(ctx context.Context, query ListIncomingQuery) ([]ProposalDTO, error) {
	proposals, err := h.proposalRepo.FindPendingByResponder(ctx, query.ResponderID)
	if err != nil {
		return nil, err
	}

	dtos := make([]ProposalDTO, 0, len(proposals))
	for _, proposal := range proposals {
		dtos = append(dtos, toProposalDTO(proposal))
	}
	return dtos, nil
}
