package subscribers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/slotswap/internal/swaps/domain"
	"github.com/google/uuid"
)

// SwapNotificationSubscriber listens for swap lifecycle events and emits
// user-facing notifications. Delivery is currently a structured log line;
// the worker is the single place to attach real channels later.
type SwapNotificationSubscriber struct {
	proposalRepo domain.Repository
	logger       *slog.Logger
	enabled      bool
}

// NewSwapNotificationSubscriber creates a new swap notification subscriber.
func NewSwapNotificationSubscriber(proposalRepo domain.Repository, logger *slog.Logger) *SwapNotificationSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &SwapNotificationSubscriber{
		proposalRepo: proposalRepo,
		logger:       logger,
		enabled:      true,
	}
}

// SetEnabled enables or disables the subscriber.
func (s *SwapNotificationSubscriber) SetEnabled(enabled bool) {
	s.enabled = enabled
}

// EventTypes returns the event types this subscriber handles.
func (s *SwapNotificationSubscriber) EventTypes() []string {
	return []string{
		"swaps.swap.proposed",
		"swaps.swap.accepted",
		"swaps.swap.rejected",
	}
}

// Handle processes an event.
func (s *SwapNotificationSubscriber) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	if !s.enabled {
		s.logger.Debug("swap notification subscriber disabled, skipping event",
			"routing_key", event.RoutingKey,
		)
		return nil
	}

	switch event.RoutingKey {
	case "swaps.swap.proposed":
		return s.handleProposed(ctx, event)
	case "swaps.swap.accepted":
		return s.handleResolved(ctx, event, "swap proposal accepted")
	case "swaps.swap.rejected":
		return s.handleResolved(ctx, event, "swap proposal rejected")
	default:
		s.logger.Warn("unknown event type",
			"routing_key", event.RoutingKey,
		)
		return nil
	}
}

// SwapProposedPayload is the payload for swap.proposed events.
type SwapProposedPayload struct {
	ProposalID      uuid.UUID `json:"proposal_id"`
	RequesterID     uuid.UUID `json:"requester_id"`
	ResponderID     uuid.UUID `json:"responder_id"`
	OfferedSlotID   uuid.UUID `json:"offered_slot_id"`
	RequestedSlotID uuid.UUID `json:"requested_slot_id"`
}

func (s *SwapNotificationSubscriber) handleProposed(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var payload SwapProposedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		s.logger.Debug("failed to unmarshal proposal payload, fetching from repo",
			"proposal_id", event.AggregateID,
			"error", err,
		)
	}

	proposal, err := s.proposalRepo.FindByID(ctx, event.AggregateID)
	if err != nil {
		s.logger.Error("failed to find proposal for notification",
			"proposal_id", event.AggregateID,
			"error", err,
		)
		return nil // Don't fail the event, just skip the notification
	}

	if proposal == nil {
		s.logger.Warn("proposal not found for notification",
			"proposal_id", event.AggregateID,
		)
		return nil
	}

	s.logger.Info("new swap proposal awaiting response",
		"notify_user_id", proposal.ResponderID(),
		"proposal_id", proposal.ID(),
		"requester_id", proposal.RequesterID(),
		"offered_slot_id", proposal.OfferedSlotID(),
		"requested_slot_id", proposal.RequestedSlotID(),
	)

	return nil
}

func (s *SwapNotificationSubscriber) handleResolved(ctx context.Context, event *eventbus.ConsumedEvent, message string) error {
	proposal, err := s.proposalRepo.FindByID(ctx, event.AggregateID)
	if err != nil {
		s.logger.Error("failed to find proposal for notification",
			"proposal_id", event.AggregateID,
			"error", err,
		)
		return nil
	}

	if proposal == nil {
		s.logger.Warn("proposal not found for notification",
			"proposal_id", event.AggregateID,
		)
		return nil
	}

	// The requester is the one waiting on an answer.
	s.logger.Info(message,
		"notify_user_id", proposal.RequesterID(),
		"proposal_id", proposal.ID(),
		"status", proposal.Status(),
		"responder_id", proposal.ResponderID(),
	)

	return nil
}
