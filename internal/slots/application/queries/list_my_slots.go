package queries

import (
	"context"

	"github.com/felixgeelhaar/slotswap/internal/slots/domain"
	"github.com/google/uuid"
)

// ListMySlotsQuery contains the parameters for listing a user's own slots.
type ListMySlotsQuery struct {
	OwnerID uuid.UUID
}

// ListMySlotsHandler handles the ListMySlotsQuery.
type ListMySlotsHandler struct {
	slotRepo domain.Repository
}

// NewListMySlotsHandler creates a new ListMySlotsHandler.
func NewListMySlotsHandler(slotRepo domain.Repository) *ListMySlotsHandler {
	return &ListMySlotsHandler{slotRepo: slotRepo}
}

// Handle executes the ListMySlotsQuery. Slots come back earliest first.
func (h *ListMySlotsHandler) Handle(ctx context.Context, query ListMySlotsQuery) ([]SlotDTO, error) {
	slots, err := h.slotRepo.FindByOwner(ctx, query.OwnerID)
	if err != nil {
		return nil, err
	}

	dtos := make([]SlotDTO, 0, len(slots))
	for _, slot := range slots {
		dtos = append(dtos, toSlotDTO(slot))
	}
	return dtos, nil
}
