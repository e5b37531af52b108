package queries

import (
	"context"
	"fmt"
	"time"

	sharedDomain "github.com/felixgeelhaar/slotswap/internal/shared/domain"
	"github.com/felixgeelhaar/slotswap/internal/slots/domain"
	"github.com/google/uuid"
)

// ErrSlotNotFound is returned when a slot is not found.
var ErrSlotNotFound = fmt.Errorf("%w: slot not found", sharedDomain.ErrNotFound)

// SlotDTO is the read model for a slot.
type SlotDTO struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toSlotDTO(slot *domain.Slot) SlotDTO {
	return SlotDTO{
		ID:        slot.ID(),
		OwnerID:   slot.OwnerID(),
		Title:     slot.Title(),
		StartTime: slot.StartTime(),
		EndTime:   slot.EndTime(),
		Status:    string(slot.Status()),
		CreatedAt: slot.CreatedAt(),
		UpdatedAt: slot.UpdatedAt(),
	}
}

// GetSlotQuery contains the parameters for getting a single slot.
type GetSlotQuery struct {
	SlotID uuid.UUID
}

// GetSlotHandler handles the GetSlotQuery.
type GetSlotHandler struct {
	slotRepo domain.Repository
}

// NewGetSlotHandler creates a new GetSlotHandler.
func NewGetSlotHandler(slotRepo domain.Repository) *GetSlotHandler {
	return &GetSlotHandler{slotRepo: slotRepo}
}

// Handle executes the GetSlotQuery.
func (h *GetSlotHandler) Handle(ctx context.Context, query GetSlotQuery) (*SlotDTO, error) {
	slot, err := h.slotRepo.FindByID(ctx, query.SlotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}

	dto := toSlotDTO(slot)
	return &dto, nil
}
