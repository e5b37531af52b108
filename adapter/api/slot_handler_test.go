package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/felixgeelhaar/slotswap/internal/shared/domain"
	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/outbox"
	slotCommands "github.com/felixgeelhaar/slotswap/internal/slots/application/commands"
	slotQueries "github.com/felixgeelhaar/slotswap/internal/slots/application/queries"
	slotsDomain "github.com/felixgeelhaar/slotswap/internal/slots/domain"
	swapCommands "github.com/felixgeelhaar/slotswap/internal/swaps/application/commands"
	swapQueries "github.com/felixgeelhaar/slotswap/internal/swaps/application/queries"
	swapsDomain "github.com/felixgeelhaar/slotswap/internal/swaps/domain"
)

// fakeSlotRepo is an in-memory implementation of slotsDomain.Repository
type fakeSlotRepo struct {
	slots map[uuid.UUID]*slotsDomain.Slot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[uuid.UUID]*slotsDomain.Slot)}
}

func (f *fakeSlotRepo) Save(ctx context.Context, slot *slotsDomain.Slot) error {
	f.slots[slot.ID()] = slot
	return nil
}

func (f *fakeSlotRepo) FindByID(ctx context.Context, id uuid.UUID) (*slotsDomain.Slot, error) {
	return f.slots[id], nil
}

func (f *fakeSlotRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*slotsDomain.Slot, error) {
	var result []*slotsDomain.Slot
	for _, s := range f.slots {
		if s.OwnerID() == ownerID {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime().Before(result[j].StartTime()) })
	return result, nil
}

func (f *fakeSlotRepo) FindListed(ctx context.Context, excludeOwnerID uuid.UUID) ([]*slotsDomain.Slot, error) {
	var result []*slotsDomain.Slot
	for _, s := range f.slots {
		if s.Status() == slotsDomain.StatusListed && s.OwnerID() != excludeOwnerID {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime().Before(result[j].StartTime()) })
	return result, nil
}

func (f *fakeSlotRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to slotsDomain.Status) error {
	s, ok := f.slots[id]
	if !ok {
		return fmt.Errorf("%w: slot not found", sharedDomain.ErrNotFound)
	}
	if s.Status() != from {
		return fmt.Errorf("%w: slot status is %s", sharedDomain.ErrConflict, s.Status())
	}
	f.slots[id] = rehydrateWith(s, s.OwnerID(), to)
	return nil
}

func (f *fakeSlotRepo) TransferOwnership(ctx context.Context, id uuid.UUID, fromOwnerID, toOwnerID uuid.UUID, from, to slotsDomain.Status) error {
	s, ok := f.slots[id]
	if !ok {
		return fmt.Errorf("%w: slot not found", sharedDomain.ErrNotFound)
	}
	if s.Status() != from || s.OwnerID() != fromOwnerID {
		return fmt.Errorf("%w: slot status is %s", sharedDomain.ErrConflict, s.Status())
	}
	f.slots[id] = rehydrateWith(s, toOwnerID, to)
	return nil
}

func (f *fakeSlotRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.slots, id)
	return nil
}

func rehydrateWith(s *slotsDomain.Slot, ownerID uuid.UUID, status slotsDomain.Status) *slotsDomain.Slot {
	return slotsDomain.RehydrateSlot(
		s.ID(), ownerID, s.Title(), s.StartTime(), s.EndTime(),
		status, s.Version()+1, s.CreatedAt(), time.Now(),
	)
}

// fakeProposalRepo is an in-memory implementation of swapsDomain.Repository
type fakeProposalRepo struct {
	proposals map[uuid.UUID]*swapsDomain.Proposal
}

func newFakeProposalRepo() *fakeProposalRepo {
	return &fakeProposalRepo{proposals: make(map[uuid.UUID]*swapsDomain.Proposal)}
}

func (f *fakeProposalRepo) Save(ctx context.Context, proposal *swapsDomain.Proposal) error {
	f.proposals[proposal.ID()] = proposal
	return nil
}

func (f *fakeProposalRepo) FindByID(ctx context.Context, id uuid.UUID) (*swapsDomain.Proposal, error) {
	return f.proposals[id], nil
}

func (f *fakeProposalRepo) FindPendingByResponder(ctx context.Context, responderID uuid.UUID) ([]*swapsDomain.Proposal, error) {
	var result []*swapsDomain.Proposal
	for _, p := range f.proposals {
		if p.IsPending() && p.ResponderID() == responderID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakeProposalRepo) FindPendingByRequester(ctx context.Context, requesterID uuid.UUID) ([]*swapsDomain.Proposal, error) {
	var result []*swapsDomain.Proposal
	for _, p := range f.proposals {
		if p.IsPending() && p.RequesterID() == requesterID {
			result = append(result, p)
		}
	}
	return result, nil
}

// fakeOutboxRepo records saved messages and ignores the rest.
type fakeOutboxRepo struct {
	saved []*outbox.Message
}

func (f *fakeOutboxRepo) Save(ctx context.Context, msg *outbox.Message) error {
	f.saved = append(f.saved, msg)
	return nil
}

func (f *fakeOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	f.saved = append(f.saved, msgs...)
	return nil
}

func (f *fakeOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkPublished(ctx context.Context, id int64) error { return nil }

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	return nil
}

func (f *fakeOutboxRepo) MarkDead(ctx context.Context, id int64, reason string) error { return nil }

func (f *fakeOutboxRepo) GetFailed(ctx context.Context, maxRetries, limit int) ([]*outbox.Message, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	return 0, nil
}

// fakeUnitOfWork passes the context through without a real transaction.
type fakeUnitOfWork struct{}

func (f *fakeUnitOfWork) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (f *fakeUnitOfWork) Commit(ctx context.Context) error                   { return nil }
func (f *fakeUnitOfWork) Rollback(ctx context.Context) error                 { return nil }

type testEnv struct {
	server    *Server
	slotRepo  *fakeSlotRepo
	propRepo  *fakeProposalRepo
	outbox    *fakeOutboxRepo
	userID    uuid.UUID
	otherID   uuid.UUID
	windowOne time.Time
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	slotRepo := newFakeSlotRepo()
	propRepo := newFakeProposalRepo()
	outboxRepo := &fakeOutboxRepo{}
	uow := &fakeUnitOfWork{}

	slots := NewSlotHandler(SlotHandlerConfig{
		CreateSlot:  slotCommands.NewCreateSlotHandler(slotRepo, outboxRepo, uow),
		PublishSlot: slotCommands.NewListSlotHandler(slotRepo, outboxRepo, uow),
		UnlistSlot:  slotCommands.NewUnlistSlotHandler(slotRepo, outboxRepo, uow),
		UpdateSlot:  slotCommands.NewUpdateSlotHandler(slotRepo, outboxRepo, uow),
		DeleteSlot:  slotCommands.NewDeleteSlotHandler(slotRepo, outboxRepo, uow),
		GetSlot:     slotQueries.NewGetSlotHandler(slotRepo),
		ListMySlots: slotQueries.NewListMySlotsHandler(slotRepo),
		ListMarket:  slotQueries.NewListMarketHandler(slotRepo, nil, logger),
		Logger:      logger,
	})

	swaps := NewSwapHandler(SwapHandlerConfig{
		ProposeSwap:  swapCommands.NewProposeSwapHandler(slotRepo, propRepo, outboxRepo, uow),
		RespondSwap:  swapCommands.NewRespondSwapHandler(slotRepo, propRepo, outboxRepo, uow, logger),
		ListIncoming: swapQueries.NewListIncomingHandler(propRepo),
		ListOutgoing: swapQueries.NewListOutgoingHandler(propRepo),
		Logger:       logger,
	})

	server := NewServer(DefaultServerConfig(), slots, swaps, logger)

	return &testEnv{
		server:    server,
		slotRepo:  slotRepo,
		propRepo:  propRepo,
		outbox:    outboxRepo,
		userID:    uuid.New(),
		otherID:   uuid.New(),
		windowOne: time.Now().Add(24 * time.Hour).Truncate(time.Minute),
	}
}

func (e *testEnv) seedSlot(t *testing.T, ownerID uuid.UUID, status slotsDomain.Status) *slotsDomain.Slot {
	t.Helper()
	now := time.Now()
	slot := slotsDomain.RehydrateSlot(
		uuid.New(), ownerID, "Client review",
		e.windowOne, e.windowOne.Add(time.Hour),
		status, 1, now, now,
	)
	e.slotRepo.slots[slot.ID()] = slot
	return slot
}

func (e *testEnv) do(method, path string, userID uuid.UUID, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if userID != uuid.Nil {
		req.Header.Set(userIDHeader, userID.String())
	}

	rec := httptest.NewRecorder()
	e.server.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestSlotHandler_CreateSlot(t *testing.T) {
	t.Run("creates an open slot", func(t *testing.T) {
		env := setupTestServer(t)

		rec := env.do(http.MethodPost, "/api/v1/slots", env.userID, createSlotRequest{
			Title:     "Deep work",
			StartTime: env.windowOne,
			EndTime:   env.windowOne.Add(2 * time.Hour),
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		slotID, err := uuid.Parse(body["id"].(string))
		require.NoError(t, err)

		slot := env.slotRepo.slots[slotID]
		require.NotNil(t, slot)
		assert.Equal(t, env.userID, slot.OwnerID())
		assert.Equal(t, slotsDomain.StatusOpen, slot.Status())
		assert.NotEmpty(t, env.outbox.saved)
	})

	t.Run("requires the user header", func(t *testing.T) {
		env := setupTestServer(t)

		rec := env.do(http.MethodPost, "/api/v1/slots", uuid.Nil, createSlotRequest{
			Title:     "Deep work",
			StartTime: env.windowOne,
			EndTime:   env.windowOne.Add(time.Hour),
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects an inverted time window", func(t *testing.T) {
		env := setupTestServer(t)

		rec := env.do(http.MethodPost, "/api/v1/slots", env.userID, createSlotRequest{
			Title:     "Deep work",
			StartTime: env.windowOne,
			EndTime:   env.windowOne.Add(-time.Hour),
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		env := setupTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/slots", bytes.NewReader([]byte("{not json")))
		req.Header.Set(userIDHeader, env.userID.String())
		rec := httptest.NewRecorder()
		env.server.mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSlotHandler_GetSlot(t *testing.T) {
	t.Run("returns the slot", func(t *testing.T) {
		env := setupTestServer(t)
		slot := env.seedSlot(t, env.userID, slotsDomain.StatusOpen)

		rec := env.do(http.MethodGet, "/api/v1/slots/"+slot.ID().String(), env.userID, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, slot.ID().String(), body["id"])
		assert.Equal(t, "Client review", body["title"])
		assert.Equal(t, "open", body["status"])
	})

	t.Run("unknown slot is a 404", func(t *testing.T) {
		env := setupTestServer(t)

		rec := env.do(http.MethodGet, "/api/v1/slots/"+uuid.NewString(), env.userID, nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed ID is a 400", func(t *testing.T) {
		env := setupTestServer(t)

		rec := env.do(http.MethodGet, "/api/v1/slots/not-a-uuid", env.userID, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSlotHandler_Listings(t *testing.T) {
	t.Run("lists only the caller's slots", func(t *testing.T) {
		env := setupTestServer(t)
		env.seedSlot(t, env.userID, slotsDomain.StatusOpen)
		env.seedSlot(t, env.otherID, slotsDomain.StatusListed)

		rec := env.do(http.MethodGet, "/api/v1/slots", env.userID, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Len(t, body["slots"], 1)
	})

	t.Run("market excludes own and unlisted slots", func(t *testing.T) {
		env := setupTestServer(t)
		env.seedSlot(t, env.userID, slotsDomain.StatusListed)
		env.seedSlot(t, env.otherID, slotsDomain.StatusListed)
		env.seedSlot(t, env.otherID, slotsDomain.StatusOpen)

		rec := env.do(http.MethodGet, "/api/v1/slots/market", env.userID, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Len(t, body["slots"], 1)
	})
}

func TestSlotHandler_Lifecycle(t *testing.T) {
	t.Run("publish then unlist", func(t *testing.T) {
		env := setupTestServer(t)
		slot := env.seedSlot(t, env.userID, slotsDomain.StatusOpen)
		path := "/api/v1/slots/" + slot.ID().String()

		rec := env.do(http.MethodPost, path+"/publish", env.userID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, slotsDomain.StatusListed, env.slotRepo.slots[slot.ID()].Status())

		rec = env.do(http.MethodPost, path+"/unlist", env.userID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, slotsDomain.StatusOpen, env.slotRepo.slots[slot.ID()].Status())
	})

	t.Run("publishing a foreign slot is forbidden", func(t *testing.T) {
		env := setupTestServer(t)
		slot := env.seedSlot(t, env.otherID, slotsDomain.StatusOpen)

		rec := env.do(http.MethodPost, "/api/v1/slots/"+slot.ID().String()+"/publish", env.userID, nil)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("deleting a reserved slot is unprocessable", func(t *testing.T) {
		env := setupTestServer(t)
		slot := env.seedSlot(t, env.userID, slotsDomain.StatusReserved)

		rec := env.do(http.MethodDelete, "/api/v1/slots/"+slot.ID().String(), env.userID, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.NotNil(t, env.slotRepo.slots[slot.ID()])
	})

	t.Run("deleting an open slot succeeds", func(t *testing.T) {
		env := setupTestServer(t)
		slot := env.seedSlot(t, env.userID, slotsDomain.StatusOpen)

		rec := env.do(http.MethodDelete, "/api/v1/slots/"+slot.ID().String(), env.userID, nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Nil(t, env.slotRepo.slots[slot.ID()])
	})
}

func TestSlotHandler_UpdateSlot(t *testing.T) {
	t.Run("updates only the provided fields", func(t *testing.T) {
		env := setupTestServer(t)
		slot := env.seedSlot(t, env.userID, slotsDomain.StatusOpen)
		title := "Renamed"

		rec := env.do(http.MethodPatch, "/api/v1/slots/"+slot.ID().String(), env.userID, updateSlotRequest{
			Title: &title,
		})

		require.Equal(t, http.StatusOK, rec.Code)
		updated := env.slotRepo.slots[slot.ID()]
		assert.Equal(t, "Renamed", updated.Title())
		assert.True(t, updated.StartTime().Equal(slot.StartTime()))
	})

	t.Run("updating a reserved slot is unprocessable", func(t *testing.T) {
		env := setupTestServer(t)
		slot := env.seedSlot(t, env.userID, slotsDomain.StatusReserved)
		title := "Renamed"

		rec := env.do(http.MethodPatch, "/api/v1/slots/"+slot.ID().String(), env.userID, updateSlotRequest{
			Title: &title,
		})

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestServer_Health(t *testing.T) {
	env := setupTestServer(t)

	rec := env.do(http.MethodGet, "/health", uuid.Nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "healthy", body["status"])
}
