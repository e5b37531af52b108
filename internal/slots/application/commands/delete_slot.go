package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/slotswap/internal/shared/application"
	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/slotswap/internal/slots/domain"
	"github.com/google/uuid"
)

// DeleteSlotCommand contains the data needed to remove a slot.
type DeleteSlotCommand struct {
	SlotID  uuid.UUID
	OwnerID uuid.UUID
}

// DeleteSlotHandler handles the DeleteSlotCommand.
type DeleteSlotHandler struct {
	slotRepo   domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewDeleteSlotHandler creates a new DeleteSlotHandler.
func NewDeleteSlotHandler(slotRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DeleteSlotHandler {
	return &DeleteSlotHandler{
		slotRepo:   slotRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the DeleteSlotCommand.
func (h *DeleteSlotHandler) Handle(ctx context.Context, cmd DeleteSlotCommand) error {
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

		if !slot.CanDelete() {
			return domain.ErrSlotReserved
		}

		if err := h.slotRepo.Delete(txCtx, cmd.SlotID); err != nil {
			return err
		}

		event := domain.NewSlotDeleted(slot)
		event.SetMetadata(sharedApplication.NewEventMetadata(cmd.OwnerID))

		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		return h.outboxRepo.Save(txCtx, msg)
	})
}
