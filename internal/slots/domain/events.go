package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/slotswap/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "Slot"

// SlotCreated is emitted when a slot is created.
type SlotCreated struct {
	sharedDomain.BaseEvent
	SlotID    uuid.UUID `json:"slot_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// NewSlotCreated creates a SlotCreated event.
func NewSlotCreated(s *Slot) *SlotCreated {
	return &SlotCreated{
		BaseEvent: sharedDomain.NewBaseEvent(s.ID(), aggregateType, "slots.slot.created"),
		SlotID:    s.ID(),
		OwnerID:   s.OwnerID(),
		Title:     s.Title(),
		StartTime: s.StartTime(),
		EndTime:   s.EndTime(),
	}
}

// SlotListed is emitted when a slot is put on the market.
type SlotListed struct {
	sharedDomain.BaseEvent
	SlotID    uuid.UUID `json:"slot_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// NewSlotListed creates a SlotListed event.
func NewSlotListed(s *Slot) *SlotListed {
	return &SlotListed{
		BaseEvent: sharedDomain.NewBaseEvent(s.ID(), aggregateType, "slots.slot.listed"),
		SlotID:    s.ID(),
		OwnerID:   s.OwnerID(),
		StartTime: s.StartTime(),
		EndTime:   s.EndTime(),
	}
}

// SlotUnlisted is emitted when a slot is withdrawn from the market.
type SlotUnlisted struct {
	sharedDomain.BaseEvent
	SlotID  uuid.UUID `json:"slot_id"`
	OwnerID uuid.UUID `json:"owner_id"`
}

// NewSlotUnlisted creates a SlotUnlisted event.
func NewSlotUnlisted(s *Slot) *SlotUnlisted {
	return &SlotUnlisted{
		BaseEvent: sharedDomain.NewBaseEvent(s.ID(), aggregateType, "slots.slot.unlisted"),
		SlotID:    s.ID(),
		OwnerID:   s.OwnerID(),
	}
}

// SlotUpdated is emitted when a slot's title or time window changes.
type SlotUpdated struct {
	sharedDomain.BaseEvent
	SlotID    uuid.UUID `json:"slot_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// NewSlotUpdated creates a SlotUpdated event.
func NewSlotUpdated(s *Slot) *SlotUpdated {
	return &SlotUpdated{
		BaseEvent: sharedDomain.NewBaseEvent(s.ID(), aggregateType, "slots.slot.updated"),
		SlotID:    s.ID(),
		OwnerID:   s.OwnerID(),
		Title:     s.Title(),
		StartTime: s.StartTime(),
		EndTime:   s.EndTime(),
	}
}

// SlotDeleted is emitted when a slot is removed.
type SlotDeleted struct {
	sharedDomain.BaseEvent
	SlotID  uuid.UUID `json:"slot_id"`
	OwnerID uuid.UUID `json:"owner_id"`
}

// NewSlotDeleted creates a SlotDeleted event.
func NewSlotDeleted(s *Slot) *SlotDeleted {
	return &SlotDeleted{
		BaseEvent: sharedDomain.NewBaseEvent(s.ID(), aggregateType, "slots.slot.deleted"),
		SlotID:    s.ID(),
		OwnerID:   s.OwnerID(),
	}
}
