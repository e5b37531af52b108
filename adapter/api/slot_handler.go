package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/slotswap/internal/slots/application/commands"
	"github.com/felixgeelhaar/slotswap/internal/slots/application/queries"
)

// SlotHandler handles slot API requests.
type SlotHandler struct {
	createSlot  *commands.CreateSlotHandler
	publishSlot *commands.ListSlotHandler
	unlistSlot  *commands.UnlistSlotHandler
	updateSlot  *commands.UpdateSlotHandler
	deleteSlot  *commands.DeleteSlotHandler
	getSlot     *queries.GetSlotHandler
	listMySlots *queries.ListMySlotsHandler
	listMarket  *queries.ListMarketHandler
	logger      *slog.Logger
}

// SlotHandlerConfig holds dependencies for the slot handler.
type SlotHandlerConfig struct {
	CreateSlot  *commands.CreateSlotHandler
	PublishSlot *commands.ListSlotHandler
	UnlistSlot  *commands.UnlistSlotHandler
	UpdateSlot  *commands.UpdateSlotHandler
	DeleteSlot  *commands.DeleteSlotHandler
	GetSlot     *queries.GetSlotHandler
	ListMySlots *queries.ListMySlotsHandler
	ListMarket  *queries.ListMarketHandler
	Logger      *slog.Logger
}

// NewSlotHandler creates a new slot handler.
func NewSlotHandler(cfg SlotHandlerConfig) *SlotHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &SlotHandler{
		createSlot:  cfg.CreateSlot,
		publishSlot: cfg.PublishSlot,
		unlistSlot:  cfg.UnlistSlot,
		updateSlot:  cfg.UpdateSlot,
		deleteSlot:  cfg.DeleteSlot,
		getSlot:     cfg.GetSlot,
		listMySlots: cfg.ListMySlots,
		listMarket:  cfg.ListMarket,
		logger:      cfg.Logger,
	}
}

type createSlotRequest struct {
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type updateSlotRequest struct {
	Title     *string    `json:"title"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

// CreateSlot handles POST /api/v1/slots
func (h *SlotHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req createSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.createSlot.Handle(r.Context(), commands.CreateSlotCommand{
		OwnerID:   userID,
		Title:     req.Title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id": result.SlotID.String(),
	})
}

// ListMySlots handles GET /api/v1/slots
func (h *SlotHandler) ListMySlots(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	slots, err := h.listMySlots.Handle(r.Context(), queries.ListMySlotsQuery{OwnerID: userID})
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"slots": slots,
	})
}

// ListMarket handles GET /api/v1/slots/market
func (h *SlotHandler) ListMarket(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	slots, err := h.listMarket.Handle(r.Context(), queries.ListMarketQuery{UserID: userID})
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"slots": slots,
	})
}

// GetSlot handles GET /api/v1/slots/{slotID}
func (h *SlotHandler) GetSlot(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}

	slotID, ok := parseSlotID(w, r)
	if !ok {
		return
	}

	slot, err := h.getSlot.Handle(r.Context(), queries.GetSlotQuery{SlotID: slotID})
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, slot)
}

// UpdateSlot handles PATCH /api/v1/slots/{slotID}
//
// Omitted fields keep their current values.
func (h *SlotHandler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	slotID, ok := parseSlotID(w, r)
	if !ok {
		return
	}

	var req updateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	current, err := h.getSlot.Handle(r.Context(), queries.GetSlotQuery{SlotID: slotID})
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	cmd := commands.UpdateSlotCommand{
		SlotID:    slotID,
		OwnerID:   userID,
		Title:     current.Title,
		StartTime: current.StartTime,
		EndTime:   current.EndTime,
	}
	if req.Title != nil {
		cmd.Title = *req.Title
	}
	if req.StartTime != nil {
		cmd.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		cmd.EndTime = *req.EndTime
	}

	if err := h.updateSlot.Handle(r.Context(), cmd); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteSlot handles DELETE /api/v1/slots/{slotID}
func (h *SlotHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	slotID, ok := parseSlotID(w, r)
	if !ok {
		return
	}

	err := h.deleteSlot.Handle(r.Context(), commands.DeleteSlotCommand{
		SlotID:  slotID,
		OwnerID: userID,
	})
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PublishSlot handles POST /api/v1/slots/{slotID}/publish
func (h *SlotHandler) PublishSlot(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	slotID, ok := parseSlotID(w, r)
	if !ok {
		return
	}

	err := h.publishSlot.Handle(r.Context(), commands.ListSlotCommand{
		SlotID:  slotID,
		OwnerID: userID,
	})
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "listed"})
}

// UnlistSlot handles POST /api/v1/slots/{slotID}/unlist
func (h *SlotHandler) UnlistSlot(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	slotID, ok := parseSlotID(w, r)
	if !ok {
		return
	}

	err := h.unlistSlot.Handle(r.Context(), commands.UnlistSlotCommand{
		SlotID:  slotID,
		OwnerID: userID,
	})
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "open"})
}

func parseSlotID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.PathValue("slotID")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Slot ID must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
