package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/slotswap/internal/swaps/application/commands"
	"github.com/felixgeelhaar/slotswap/internal/swaps/application/queries"
)

// SwapHandler handles swap proposal API requests.
type SwapHandler struct {
	proposeSwap  *commands.ProposeSwapHandler
	respondSwap  *commands.RespondSwapHandler
	listIncoming *queries.ListIncomingHandler
	listOutgoing *queries.ListOutgoingHandler
	logger       *slog.Logger
}

// SwapHandlerConfig holds dependencies for the swap handler.
type SwapHandlerConfig struct {
	ProposeSwap  *commands.ProposeSwapHandler
	RespondSwap  *commands.RespondSwapHandler
	ListIncoming *queries.ListIncomingHandler
	ListOutgoing *queries.ListOutgoingHandler
	Logger       *slog.Logger
}

// NewSwapHandler creates a new swap handler.
func NewSwapHandler(cfg SwapHandlerConfig) *SwapHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &SwapHandler{
		proposeSwap:  cfg.ProposeSwap,
		respondSwap:  cfg.RespondSwap,
		listIncoming: cfg.ListIncoming,
		listOutgoing: cfg.ListOutgoing,
		logger:       cfg.Logger,
	}
}

type proposeSwapRequest struct {
	OfferedSlotID   uuid.UUID `json:"offered_slot_id"`
	RequestedSlotID uuid.UUID `json:"requested_slot_id"`
}

// ProposeSwap handles POST /api/v1/swaps
func (h *SwapHandler) ProposeSwap(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req proposeSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.proposeSwap.Handle(r.Context(), commands.ProposeSwapCommand{
		RequesterID:     userID,
		OfferedSlotID:   req.OfferedSlotID,
		RequestedSlotID: req.RequestedSlotID,
	})
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":           result.ProposalID.String(),
		"responder_id": result.ResponderID.String(),
	})
}

// ListIncoming handles GET /api/v1/swaps/incoming
func (h *SwapHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	proposals, err := h.listIncoming.Handle(r.Context(), queries.ListIncomingQuery{ResponderID: userID})
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"proposals": proposals,
	})
}

// ListOutgoing handles GET /api/v1/swaps/outgoing
func (h *SwapHandler) ListOutgoing(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	proposals, err := h.listOutgoing.Handle(r.Context(), queries.ListOutgoingQuery{RequesterID: userID})
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"proposals": proposals,
	})
}

// AcceptSwap handles POST /api/v1/swaps/{proposalID}/accept
func (h *SwapHandler) AcceptSwap(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, true)
}

// RejectSwap handles POST /api/v1/swaps/{proposalID}/reject
func (h *SwapHandler) RejectSwap(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, false)
}

func (h *SwapHandler) respond(w http.ResponseWriter, r *http.Request, accept bool) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	proposalID, err := uuid.Parse(r.PathValue("proposalID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Proposal ID must be a valid UUID")
		return
	}

	result, err := h.respondSwap.Handle(r.Context(), commands.RespondSwapCommand{
		ProposalID:  proposalID,
		ResponderID: userID,
		Accept:      accept,
	})
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"proposal": resolvedProposalResponse{
			ID:              result.ProposalID,
			RequesterID:     result.RequesterID,
			ResponderID:     result.ResponderID,
			OfferedSlotID:   result.OfferedSlotID,
			RequestedSlotID: result.RequestedSlotID,
			Status:          string(result.Status),
			RespondedAt:     result.RespondedAt,
		},
	})
}

type resolvedProposalResponse struct {
	ID              uuid.UUID `json:"id"`
	RequesterID     uuid.UUID `json:"requester_id"`
	ResponderID     uuid.UUID `json:"responder_id"`
	OfferedSlotID   uuid.UUID `json:"offered_slot_id"`
	RequestedSlotID uuid.UUID `json:"requested_slot_id"`
	Status          string    `json:"status"`
	RespondedAt     time.Time `json:"responded_at"`
}
