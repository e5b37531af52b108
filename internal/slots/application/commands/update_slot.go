package commands

import (
	"context"
	"time"

	sharedApplication "github.com/felixgeelhaar/slotswap/internal/shared/application"
	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/slotswap/internal/slots/domain"
	"github.com/google/uuid"
)

// UpdateSlotCommand contains the data needed to change a slot's title or window.
type UpdateSlotCommand struct {
	SlotID    uuid.UUID
	OwnerID   uuid.UUID
	Title     string
	StartTime time.Time
	EndTime   time.Time
}

// UpdateSlotHandler handles the UpdateSlotCommand.
type UpdateSlotHandler struct {
	slotRepo   domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewUpdateSlotHandler creates a new UpdateSlotHandler.
func NewUpdateSlotHandler(slotRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateSlotHandler {
	return &UpdateSlotHandler{
		slotRepo:   slotRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the UpdateSlotCommand.
func (h *UpdateSlotHandler) Handle(ctx context.Context, cmd UpdateSlotCommand) error {
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

		if err := slot.Update(cmd.Title, cmd.StartTime, cmd.EndTime); err != nil {
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
