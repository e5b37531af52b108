package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/felixgeelhaar/slotswap/internal/shared/domain"
	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/slotswap/internal/swaps/domain"
)

// setupSwapTestDB creates an in-memory SQLite database with the schema applied.
func setupSwapTestDB(t *testing.T) database.Connection {
	t.Helper()

	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, migrations.Run(ctx, conn))
	return conn
}

func newTestProposal(t *testing.T) *domain.Proposal {
	t.Helper()
	proposal, err := domain.NewProposal(uuid.New(), uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	proposal.ClearDomainEvents()
	return proposal
}

func TestSQLiteSwapRepository_SaveAndFindByID(t *testing.T) {
	conn := setupSwapTestDB(t)
	repo := NewSQLiteSwapRepository(conn)
	ctx := context.Background()

	proposal := newTestProposal(t)
	require.NoError(t, repo.Save(ctx, proposal))

	retrieved, err := repo.FindByID(ctx, proposal.ID())
	require.NoError(t, err)
	require.NotNil(t, retrieved)

	assert.Equal(t, proposal.ID(), retrieved.ID())
	assert.Equal(t, proposal.RequesterID(), retrieved.RequesterID())
	assert.Equal(t, proposal.ResponderID(), retrieved.ResponderID())
	assert.Equal(t, proposal.OfferedSlotID(), retrieved.OfferedSlotID())
	assert.Equal(t, proposal.RequestedSlotID(), retrieved.RequestedSlotID())
	assert.Equal(t, domain.StatusPending, retrieved.Status())
	assert.Nil(t, retrieved.RespondedAt())
}

func TestSQLiteSwapRepository_FindByID_NotFound(t *testing.T) {
	conn := setupSwapTestDB(t)
	repo := NewSQLiteSwapRepository(conn)

	result, err := repo.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestSQLiteSwapRepository_SaveResolution(t *testing.T) {
	conn := setupSwapTestDB(t)
	repo := NewSQLiteSwapRepository(conn)
	ctx := context.Background()

	proposal := newTestProposal(t)
	require.NoError(t, repo.Save(ctx, proposal))

	// Resolve and persist the updated row.
	current, err := repo.FindByID(ctx, proposal.ID())
	require.NoError(t, err)
	require.NoError(t, current.Accept())
	require.NoError(t, repo.Save(ctx, current))

	retrieved, err := repo.FindByID(ctx, proposal.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, retrieved.Status())
	require.NotNil(t, retrieved.RespondedAt())
	assert.Greater(t, retrieved.Version(), proposal.Version())
}

func TestSQLiteSwapRepository_SaveStaleVersion(t *testing.T) {
	conn := setupSwapTestDB(t)
	repo := NewSQLiteSwapRepository(conn)
	ctx := context.Background()

	proposal := newTestProposal(t)
	require.NoError(t, repo.Save(ctx, proposal))

	first, err := repo.FindByID(ctx, proposal.ID())
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, proposal.ID())
	require.NoError(t, err)

	require.NoError(t, first.Accept())
	require.NoError(t, repo.Save(ctx, first))

	// The second responder raced and lost.
	require.NoError(t, second.Reject())
	err = repo.Save(ctx, second)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOptimisticLock)
	assert.ErrorIs(t, err, sharedDomain.ErrConflict)
}

func TestSQLiteSwapRepository_PendingFilters(t *testing.T) {
	conn := setupSwapTestDB(t)
	repo := NewSQLiteSwapRepository(conn)
	ctx := context.Background()

	requesterID := uuid.New()
	responderID := uuid.New()

	pending, err := domain.NewProposal(requesterID, responderID, uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, pending))

	resolved, err := domain.NewProposal(requesterID, responderID, uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, resolved.Reject())
	require.NoError(t, repo.Save(ctx, resolved))

	foreign := newTestProposal(t)
	require.NoError(t, repo.Save(ctx, foreign))

	incoming, err := repo.FindPendingByResponder(ctx, responderID)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, pending.ID(), incoming[0].ID())

	outgoing, err := repo.FindPendingByRequester(ctx, requesterID)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, pending.ID(), outgoing[0].ID())

	none, err := repo.FindPendingByResponder(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}
