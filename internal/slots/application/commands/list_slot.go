package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/slotswap/internal/shared/application"
	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/slotswap/internal/slots/domain"
	"github.com/google/uuid"
)

// ListSlotCommand contains the data needed to put a slot on the market.
type ListSlotCommand struct {
	SlotID  uuid.UUID
	OwnerID uuid.UUID
}

// ListSlotHandler handles the ListSlotCommand.
type ListSlotHandler struct {
	slotRepo   domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewListSlotHandler creates a new ListSlotHandler.
func NewListSlotHandler(slotRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ListSlotHandler {
	return &ListSlotHandler{
		slotRepo:   slotRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the ListSlotCommand.
func (h *ListSlotHandler) Handle(ctx context.Context, cmd ListSlotCommand) error {
	return runInTx(ctx, h.uow, func(txCtx context.Context) error {
		slot, err := h.slotRepo.FindByID(txCtx, cmd.SlotID)
		if err != nil {
			return err
		}
		if slot == nil {
			return ErrSlotNotFound
		}

		if slot.OwnerID() != cmd.OwnerID {
			return ErrNotOwner
		}

		if err := slot.List(); err != nil {
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
		return h.outboxRepo.SaveBatch(txCtx, msgs)
	})
}
