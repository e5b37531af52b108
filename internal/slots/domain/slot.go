package domain

import (
	"fmt"
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/slotswap/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrSlotEmptyTitle    = fmt.Errorf("%w: slot title cannot be empty", sharedDomain.ErrValidation)
	ErrSlotInvalidWindow = fmt.Errorf("%w: slot must end after it starts", sharedDomain.ErrValidation)
	ErrSlotNotOpen       = fmt.Errorf("%w: slot is not open", sharedDomain.ErrInvalidState)
	ErrSlotNotListed     = fmt.Errorf("%w: slot is not listed", sharedDomain.ErrInvalidState)
	ErrSlotReserved      = fmt.Errorf("%w: slot is held by a pending swap", sharedDomain.ErrInvalidState)
)

// Status represents the lifecycle state of a slot.
type Status string

const (
	// StatusOpen is a slot held privately by its owner.
	StatusOpen Status = "open"

	// StatusListed is a slot offered on the market for swapping.
	StatusListed Status = "listed"

	// StatusReserved is a slot held by a pending swap proposal. Reserved
	// slots cannot be listed, updated, deleted, or referenced by another
	// proposal until the proposal resolves.
	StatusReserved Status = "reserved"
)

// IsValid checks if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusListed, StatusReserved:
		return true
	default:
		return false
	}
}

// Slot represents a calendar time window owned by a single user.
type Slot struct {
	sharedDomain.BaseAggregateRoot
	ownerID   uuid.UUID
	title     string
	startTime time.Time
	endTime   time.Time
	status    Status
}

// NewSlot creates a new open slot.
func NewSlot(ownerID uuid.UUID, title string, startTime, endTime time.Time) (*Slot, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrSlotEmptyTitle
	}

	if !endTime.After(startTime) {
		return nil, ErrSlotInvalidWindow
	}

	slot := &Slot{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		ownerID:           ownerID,
		title:             title,
		startTime:         startTime.UTC(),
		endTime:           endTime.UTC(),
		status:            StatusOpen,
	}

	slot.AddDomainEvent(NewSlotCreated(slot))

	return slot, nil
}

// Getters
func (s *Slot) OwnerID() uuid.UUID   { return s.ownerID }
func (s *Slot) Title() string        { return s.title }
func (s *Slot) StartTime() time.Time { return s.startTime }
func (s *Slot) EndTime() time.Time   { return s.endTime }
func (s *Slot) Status() Status       { return s.status }

// List puts an open slot on the market.
func (s *Slot) List() error {
	switch s.status {
	case StatusReserved:
		return ErrSlotReserved
	case StatusListed:
		return ErrSlotNotOpen
	}

	s.status = StatusListed
	s.Touch()
	s.AddDomainEvent(NewSlotListed(s))
	return nil
}

// Unlist withdraws a listed slot from the market.
func (s *Slot) Unlist() error {
	switch s.status {
	case StatusReserved:
		return ErrSlotReserved
	case StatusOpen:
		return ErrSlotNotListed
	}

	s.status = StatusOpen
	s.Touch()
	s.AddDomainEvent(NewSlotUnlisted(s))
	return nil
}

// Update changes the slot title and time window. Slots held by a pending
// swap cannot change until the proposal resolves.
func (s *Slot) Update(title string, startTime, endTime time.Time) error {
	if s.status == StatusReserved {
		return ErrSlotReserved
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return ErrSlotEmptyTitle
	}
	if !endTime.After(startTime) {
		return ErrSlotInvalidWindow
	}

	s.title = title
	s.startTime = startTime.UTC()
	s.endTime = endTime.UTC()
	s.Touch()
	s.AddDomainEvent(NewSlotUpdated(s))
	return nil
}

// CanDelete reports whether the slot may be removed in its current state.
func (s *Slot) CanDelete() bool {
	return s.status != StatusReserved
}

// RehydrateSlot recreates a slot from persisted state without generating events.
func RehydrateSlot(
	id uuid.UUID,
	ownerID uuid.UUID,
	title string,
	startTime time.Time,
	endTime time.Time,
	status Status,
	version int,
	createdAt time.Time,
	updatedAt time.Time,
) *Slot {
	baseEntity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	baseAggregate := sharedDomain.RehydrateBaseAggregateRoot(baseEntity, version)

	return &Slot{
		BaseAggregateRoot: baseAggregate,
		ownerID:           ownerID,
		title:             title,
		startTime:         startTime,
		endTime:           endTime,
		status:            status,
	}
}
