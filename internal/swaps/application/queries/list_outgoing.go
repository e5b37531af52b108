package queries

import (
	"context"

	"github.com/felixgeelhaar/slotswap/internal/swaps/domain"
	"github.com/google/uuid"
)

// ListOutgoingQuery contains the parameters for listing the user's own
// pending proposals.
type ListOutgoingQuery struct {
	RequesterID uuid.UUID
}

// ListOutgoingHandler handles the ListOutgoingQuery.
type ListOutgoingHandler struct {
	proposalRepo domain.Repository
}

// NewListOutgoingHandler creates a new ListOutgoingHandler.
func NewListOutgoingHandler(proposalRepo domain.Repository) *ListOutgoingHandler {
	return &ListOutgoingHandler{proposalRepo: proposalRepo}
}

// Handle executes the ListOutgoingQuery. Proposals come back newest first.
func (h *ListOutgoingHandler) Handle(ctx context.Context, query ListOutgoingQuery) ([]ProposalDTO, error) {
	proposals, err := h.proposalRepo.FindPendingByRequester(ctx, query.RequesterID)
	if err != nil {
		return nil, err
	}

	dtos := make([]ProposalDTO, 0, len(proposals))
	for _, proposal := range proposals {
		dtos = append(dtos, toProposalDTO(proposal))
	}
	return dtos, nil
}
