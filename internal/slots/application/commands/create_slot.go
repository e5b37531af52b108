package commands

import (
	"context"
	"fmt"
	"time"

	sharedApplication "github.com/felixgeelhaar/slotswap/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/slotswap/internal/shared/domain"
	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/slotswap/internal/slots/domain"
	"github.com/google/uuid"
)

var (
	ErrSlotNotFound = fmt.Errorf("%w: slot not found", sharedDomain.ErrNotFound)
	ErrNotOwner     = fmt.Errorf("%w: slot belongs to another user", sharedDomain.ErrUnauthorized)
)

// CreateSlotCommand contains the data needed to create a slot.
type CreateSlotCommand struct {
	OwnerID   uuid.UUID
	Title     string
	StartTime time.Time
	EndTime   time.Time
}

// CreateSlotResult contains the result of creating a slot.
type CreateSlotResult struct {
	SlotID uuid.UUID
}

// CreateSlotHandler handles the CreateSlotCommand.
type CreateSlotHandler struct {
	slotRepo   domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewCreateSlotHandler creates a new CreateSlotHandler.
func NewCreateSlotHandler(slotRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateSlotHandler {
	return &CreateSlotHandler{
		slotRepo:   slotRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the CreateSlotCommand.
func (h *CreateSlotHandler) Handle(ctx context.Context, cmd CreateSlotCommand) (*CreateSlotResult, error) {
	var result *CreateSlotResult

	err := runInTx(ctx, h.uow, func(txCtx context.Context) error {
		slot, err := domain.NewSlot(cmd.OwnerID, cmd.Title, cmd.StartTime, cmd.EndTime)
		if err != nil {
			return err
		}

		if err := h.slotRepo.Save(txCtx, slot); err != nil {
			return err
		}

		events := slot.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(cmd.OwnerID))

		msgs := make([]*outbox.Message, 0, len(events))
		for _, event := range events {
			msg, err := outbox.NewMessage(event)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
		if err := h.outboxRepo.SaveBatch(txCtx, msgs); err != nil {
			return err
		}

		result = &CreateSlotResult{SlotID: slot.ID()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
