package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sharedApplication "github.com/felixgeelhaar/slotswap/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/slotswap/internal/shared/domain"
	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/outbox"
	slotsDomain "github.com/felixgeelhaar/slotswap/internal/slots/domain"
	"github.com/felixgeelhaar/slotswap/internal/swaps/domain"
	"github.com/google/uuid"
)

var (
	ErrProposalNotFound = fmt.Errorf("%w: proposal not found", sharedDomain.ErrNotFound)
	ErrNotResponder     = fmt.Errorf("%w: proposal is addressed to another user", sharedDomain.ErrUnauthorized)
	ErrSwapInconsistent = fmt.Errorf("%w: proposal references slots in an unexpected state", sharedDomain.ErrInconsistentState)
)

// RespondSwapCommand contains the data needed to resolve a swap proposal.
type RespondSwapCommand struct {
	ProposalID  uuid.UUID
	ResponderID uuid.UUID
	Accept      bool
}

// RespondSwapResult contains the resolved proposal.
type RespondSwapResult struct {
	ProposalID      uuid.UUID
	Status          domain.Status
	RequesterID     uuid.UUID
	ResponderID     uuid.UUID
	OfferedSlotID   uuid.UUID
	RequestedSlotID uuid.UUID
	RespondedAt     time.Time
}

// RespondSwapHandler handles the RespondSwapCommand.
//
// Acceptance trades the two reserved slots between their owners and releases
// them as open; rejection puts both back on the market. Either way the
// proposal resolves in the same unit of work as the slot changes.
type RespondSwapHandler struct {
	slotRepo     slotsDomain.Repository
	proposalRepo domain.Repository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
	logger       *slog.Logger
}

// NewRespondSwapHandler creates a new RespondSwapHandler.
func NewRespondSwapHandler(
	slotRepo slotsDomain.Repository,
	proposalRepo domain.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *RespondSwapHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RespondSwapHandler{
		slotRepo:     slotRepo,
		proposalRepo: proposalRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
		logger:       logger,
	}
}

// Handle executes the RespondSwapCommand.
func (h *RespondSwapHandler) Handle(ctx context.Context, cmd RespondSwapCommand) (*RespondSwapResult, error) {
	var result *RespondSwapResult

	err := runInTx(ctx, h.uow, func(txCtx context.Context) error {
		proposal, err := h.proposalRepo.FindByID(txCtx, cmd.ProposalID)
		if err != nil {
			return err
		}
		if proposal == nil {
			return ErrProposalNotFound
		}

		if !proposal.IsPending() {
			return domain.ErrAlreadyResolved
		}
		if proposal.ResponderID() != cmd.ResponderID {
			return ErrNotResponder
		}

		// A pending proposal must hold both slots reserved with the owners
		// it recorded. Anything else means an invariant was broken outside
		// the engine; surface it loudly instead of guessing a repair.
		if err := h.checkSlot(txCtx, proposal, proposal.OfferedSlotID(), proposal.RequesterID()); err != nil {
			return err
		}
		if err := h.checkSlot(txCtx, proposal, proposal.RequestedSlotID(), proposal.ResponderID()); err != nil {
			return err
		}

		if cmd.Accept {
			if err := h.slotRepo.TransferOwnership(txCtx,
				proposal.OfferedSlotID(), proposal.RequesterID(), proposal.ResponderID(),
				slotsDomain.StatusReserved, slotsDomain.StatusOpen,
			); err != nil {
				return err
			}
			if err := h.slotRepo.TransferOwnership(txCtx,
				proposal.RequestedSlotID(), proposal.ResponderID(), proposal.RequesterID(),
				slotsDomain.StatusReserved, slotsDomain.StatusOpen,
			); err != nil {
				return err
			}
			if err := proposal.Accept(); err != nil {
				return err
			}
		} else {
			if err := h.slotRepo.TransitionStatus(txCtx,
				proposal.OfferedSlotID(), slotsDomain.StatusReserved, slotsDomain.StatusListed,
			); err != nil {
				return err
			}
			if err := h.slotRepo.TransitionStatus(txCtx,
				proposal.RequestedSlotID(), slotsDomain.StatusReserved, slotsDomain.StatusListed,
			); err != nil {
				return err
			}
			if err := proposal.Reject(); err != nil {
				return err
			}
		}

		if err := h.proposalRepo.Save(txCtx, proposal); err != nil {
			return err
		}

		events := proposal.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(cmd.ResponderID))

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

		respondedAt := time.Now().UTC()
		if proposal.RespondedAt() != nil {
			respondedAt = *proposal.RespondedAt()
		}
		result = &RespondSwapResult{
			ProposalID:      proposal.ID(),
			Status:          proposal.Status(),
			RequesterID:     proposal.RequesterID(),
			ResponderID:     proposal.ResponderID(),
			OfferedSlotID:   proposal.OfferedSlotID(),
			RequestedSlotID: proposal.RequestedSlotID(),
			RespondedAt:     respondedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (h *RespondSwapHandler) checkSlot(ctx context.Context, proposal *domain.Proposal, slotID, expectedOwnerID uuid.UUID) error {
	slot, err := h.slotRepo.FindByID(ctx, slotID)
	if err != nil {
		return err
	}

	switch {
	case slot == nil:
		h.logger.Error("pending proposal references a missing slot",
			"proposal_id", proposal.ID(),
			"slot_id", slotID,
		)
	case slot.Status() != slotsDomain.StatusReserved:
		h.logger.Error("pending proposal references a slot that is not reserved",
			"proposal_id", proposal.ID(),
			"slot_id", slotID,
			"status", slot.Status(),
		)
	case slot.OwnerID() != expectedOwnerID:
		h.logger.Error("pending proposal references a slot with an unexpected owner",
			"proposal_id", proposal.ID(),
			"slot_id", slotID,
			"owner_id", slot.OwnerID(),
			"expected_owner_id", expectedOwnerID,
		)
	default:
		return nil
	}

	return ErrSwapInconsistent
}
