package commands

import (
	"context"
	"fmt"

	sharedApplication "github.com/felixgeelhaar/slotswap/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/slotswap/internal/shared/domain"
	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/outbox"
	slotsDomain "github.com/felixgeelhaar/slotswap/internal/slots/domain"
	"github.com/felixgeelhaar/slotswap/internal/swaps/domain"
	"github.com/google/uuid"
)

var (
	ErrOfferedSlotNotFound   = fmt.Errorf("%w: offered slot not found", sharedDomain.ErrNotFound)
	ErrRequestedSlotNotFound = fmt.Errorf("%w: requested slot not found", sharedDomain.ErrNotFound)
	ErrOfferedNotOwned       = fmt.Errorf("%w: offered slot belongs to another user", sharedDomain.ErrUnauthorized)
	ErrOfferedNotListed      = fmt.Errorf("%w: offered slot is not listed", sharedDomain.ErrInvalidState)
	ErrRequestedOwnSlot      = fmt.Errorf("%w: cannot request a swap against your own slot", sharedDomain.ErrValidation)
	ErrRequestedNotListed    = fmt.Errorf("%w: requested slot is not listed", sharedDomain.ErrInvalidState)
)

// ProposeSwapCommand contains the data needed to propose a slot swap.
type ProposeSwapCommand struct {
	RequesterID     uuid.UUID
	OfferedSlotID   uuid.UUID
	RequestedSlotID uuid.UUID
}

// ProposeSwapResult contains the result of proposing a swap.
type ProposeSwapResult struct {
	ProposalID  uuid.UUID
	ResponderID uuid.UUID
}

// ProposeSwapHandler handles the ProposeSwapCommand.
//
// A successful proposal reserves both slots and creates the pending proposal
// in a single unit of work: either all three records change together or none
// do. The slot reservations are conditional transitions, so two proposals
// racing for the same slot cannot both win.
type ProposeSwapHandler struct {
	slotRepo     slotsDomain.Repository
	proposalRepo domain.Repository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

// NewProposeSwapHandler creates a new ProposeSwapHandler.
func NewProposeSwapHandler(
	slotRepo slotsDomain.Repository,
	proposalRepo domain.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *ProposeSwapHandler {
	return &ProposeSwapHandler{
		slotRepo:     slotRepo,
		proposalRepo: proposalRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
	}
}

// Handle executes the ProposeSwapCommand.
func (h *ProposeSwapHandler) Handle(ctx context.Context, cmd ProposeSwapCommand) (*ProposeSwapResult, error) {
	if cmd.OfferedSlotID == cmd.RequestedSlotID {
		return nil, domain.ErrSameSlot
	}

	var result *ProposeSwapResult

	err := runInTx(ctx, h.uow, func(txCtx context.Context) error {
		offered, err := h.slotRepo.FindByID(txCtx, cmd.OfferedSlotID)
		if err != nil {
			return err
		}
		if offered == nil {
			return ErrOfferedSlotNotFound
		}
		if offered.OwnerID() != cmd.RequesterID {
			return ErrOfferedNotOwned
		}
		if offered.Status() != slotsDomain.StatusListed {
			return ErrOfferedNotListed
		}

		requested, err := h.slotRepo.FindByID(txCtx, cmd.RequestedSlotID)
		if err != nil {
			return err
		}
		if requested == nil {
			return ErrRequestedSlotNotFound
		}
		if requested.OwnerID() == cmd.RequesterID {
			return ErrRequestedOwnSlot
		}
		if requested.Status() != slotsDomain.StatusListed {
			return ErrRequestedNotListed
		}

		// Reserve both slots. These are conditional transitions: if either
		// slot left the listed state since the reads above, the whole unit
		// rolls back with a conflict.
		if err := h.slotRepo.TransitionStatus(txCtx, offered.ID(), slotsDomain.StatusListed, slotsDomain.StatusReserved); err != nil {
			return err
		}
		if err := h.slotRepo.TransitionStatus(txCtx, requested.ID(), slotsDomain.StatusListed, slotsDomain.StatusReserved); err != nil {
			return err
		}

		proposal, err := domain.NewProposal(cmd.RequesterID, requested.OwnerID(), offered.ID(), requested.ID())
		if err != nil {
			return err
		}

		if err := h.proposalRepo.Save(txCtx, proposal); err != nil {
			return err
		}

		events := proposal.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(cmd.RequesterID))

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

		result = &ProposeSwapResult{
			ProposalID:  proposal.ID(),
			ResponderID: proposal.ResponderID(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
