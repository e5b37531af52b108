// Package api provides the HTTP facade over the slot registry and swap engine.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/felixgeelhaar/slotswap/internal/shared/domain"
)

// Server is the HTTP API server.
type Server struct {
	mux    *http.ServeMux
	server *http.Server
	logger *slog.Logger
	slots  *SlotHandler
	swaps  *SwapHandler
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, slots *SlotHandler, swaps *SwapHandler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	s := &Server{
		mux:    mux,
		logger: logger,
		slots:  slots,
		swaps:  swaps,
	}

	// Register routes
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	// Health check
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Slots API v1
	s.mux.HandleFunc("POST /api/v1/slots", s.slots.CreateSlot)
	s.mux.HandleFunc("GET /api/v1/slots", s.slots.ListMySlots)
	s.mux.HandleFunc("GET /api/v1/slots/market", s.slots.ListMarket)
	s.mux.HandleFunc("GET /api/v1/slots/{slotID}", s.slots.GetSlot)
	s.mux.HandleFunc("PATCH /api/v1/slots/{slotID}", s.slots.UpdateSlot)
	s.mux.HandleFunc("DELETE /api/v1/slots/{slotID}", s.slots.DeleteSlot)
	s.mux.HandleFunc("POST /api/v1/slots/{slotID}/publish", s.slots.PublishSlot)
	s.mux.HandleFunc("POST /api/v1/slots/{slotID}/unlist", s.slots.UnlistSlot)

	// Swaps API v1
	s.mux.HandleFunc("POST /api/v1/swaps", s.swaps.ProposeSwap)
	s.mux.HandleFunc("GET /api/v1/swaps/incoming", s.swaps.ListIncoming)
	s.mux.HandleFunc("GET /api/v1/swaps/outgoing", s.swaps.ListOutgoing)
	s.mux.HandleFunc("POST /api/v1/swaps/{proposalID}/accept", s.swaps.AcceptSwap)
	s.mux.HandleFunc("POST /api/v1/swaps/{proposalID}/reject", s.swaps.RejectSwap)
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server",
		"addr", s.server.Addr,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// userIDHeader carries the acting user. The API trusts an upstream gateway
// to have authenticated it.
const userIDHeader = "X-User-ID"

// currentUser extracts the acting user from the request headers. On failure
// it writes the error response and returns false.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.Header.Get(userIDHeader)
	if raw == "" {
		writeError(w, http.StatusUnauthorized, "X-User-ID header is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "X-User-ID header must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Log error but can't do much at this point
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}

// writeDomainError maps a domain error kind onto an HTTP status and writes
// the response. Unrecognized errors become 500s.
func writeDomainError(logger *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sharedDomain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sharedDomain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, sharedDomain.ErrUnauthorized):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, sharedDomain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, sharedDomain.ErrInvalidState):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, sharedDomain.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, sharedDomain.ErrInconsistentState):
		logger.Error("inconsistent state detected", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	default:
		logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
