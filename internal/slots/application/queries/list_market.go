package queries

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/slotswap/internal/slots/domain"
	"github.com/google/uuid"
)

// MarketCache is a short-lived read cache for market listings. Implementations
// are advisory: a miss or error falls back to the repository, and entries
// expire quickly so the market view is only ever a few seconds stale.
type MarketCache interface {
	Get(ctx context.Context, excludeOwnerID uuid.UUID) ([]SlotDTO, bool)
	Set(ctx context.Context, excludeOwnerID uuid.UUID, slots []SlotDTO)
}

// ListMarketQuery contains the parameters for browsing listed slots.
type ListMarketQuery struct {
	UserID uuid.UUID // Own slots are excluded from the market view
}

// ListMarketHandler handles the ListMarketQuery.
type ListMarketHandler struct {
	slotRepo domain.Repository
	cache    MarketCache
	logger   *slog.Logger
}

// NewListMarketHandler creates a new ListMarketHandler. The cache may be nil.
func NewListMarketHandler(slotRepo domain.Repository, cache MarketCache, logger *slog.Logger) *ListMarketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListMarketHandler{
		slotRepo: slotRepo,
		cache:    cache,
		logger:   logger,
	}
}

// Handle executes the ListMarketQuery. Listings come back earliest first.
func (h *ListMarketHandler) Handle(ctx context.Context, query ListMarketQuery) ([]SlotDTO, error) {
	if h.cache != nil {
		if dtos, ok := h.cache.Get(ctx, query.UserID); ok {
			h.logger.Debug("market listing served from cache", "count", len(dtos))
			return dtos, nil
		}
	}

	slots, err := h.slotRepo.FindListed(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	dtos := make([]SlotDTO, 0, len(slots))
	for _, slot := range slots {
		dtos = append(dtos, toSlotDTO(slot))
	}

	if h.cache != nil {
		h.cache.Set(ctx, query.UserID, dtos)
	}

	return dtos, nil
}
