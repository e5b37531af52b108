package domain_test

import (
	"testing"
	"time"

	sharedDomain "github.com/felixgeelhaar/slotswap/internal/shared/domain"
	"github.com/felixgeelhaar/slotswap/internal/swaps/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingProposal(t *testing.T) *domain.Proposal {
	t.Helper()
	proposal, err := domain.NewProposal(uuid.New(), uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	proposal.ClearDomainEvents()
	return proposal
}

func TestNewProposal(t *testing.T) {
	requesterID := uuid.New()
	responderID := uuid.New()
	offeredID := uuid.New()
	requestedID := uuid.New()

	proposal, err := domain.NewProposal(requesterID, responderID, offeredID, requestedID)
	require.NoError(t, err)

	assert.Equal(t, requesterID, proposal.RequesterID())
	assert.Equal(t, responderID, proposal.ResponderID())
	assert.Equal(t, offeredID, proposal.OfferedSlotID())
	assert.Equal(t, requestedID, proposal.RequestedSlotID())
	assert.Equal(t, domain.StatusPending, proposal.Status())
	assert.True(t, proposal.IsPending())
	assert.Nil(t, proposal.RespondedAt())

	events := proposal.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "swaps.swap.proposed", events[0].RoutingKey())
}

func TestNewProposal_SameSlot(t *testing.T) {
	slotID := uuid.New()

	_, err := domain.NewProposal(uuid.New(), uuid.New(), slotID, slotID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSameSlot)
	assert.ErrorIs(t, err, sharedDomain.ErrValidation)
}

func TestProposal_Accept(t *testing.T) {
	proposal := newPendingProposal(t)

	err := proposal.Accept()
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAccepted, proposal.Status())
	assert.False(t, proposal.IsPending())
	assert.NotNil(t, proposal.RespondedAt())

	events := proposal.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "swaps.swap.accepted", events[0].RoutingKey())

	// Accepting twice fails
	err = proposal.Accept()
	assert.ErrorIs(t, err, domain.ErrAlreadyResolved)
	assert.ErrorIs(t, err, sharedDomain.ErrInvalidState)
}

func TestProposal_Reject(t *testing.T) {
	proposal := newPendingProposal(t)

	err := proposal.Reject()
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRejected, proposal.Status())
	assert.NotNil(t, proposal.RespondedAt())

	events := proposal.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "swaps.swap.rejected", events[0].RoutingKey())

	// Rejecting a resolved proposal fails
	err = proposal.Reject()
	assert.ErrorIs(t, err, domain.ErrAlreadyResolved)

	// So does accepting it
	err = proposal.Accept()
	assert.ErrorIs(t, err, domain.ErrAlreadyResolved)
}

func TestRehydrateProposal(t *testing.T) {
	id := uuid.New()
	respondedAt := time.Now().UTC()

	proposal := domain.RehydrateProposal(
		id, uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		domain.StatusAccepted, 2, time.Now().Add(-time.Hour), time.Now(), &respondedAt,
	)

	assert.Equal(t, id, proposal.ID())
	assert.Equal(t, domain.StatusAccepted, proposal.Status())
	assert.Equal(t, 2, proposal.Version())
	assert.Equal(t, &respondedAt, proposal.RespondedAt())
	assert.Empty(t, proposal.DomainEvents())
}

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, domain.StatusPending.IsValid())
	assert.True(t, domain.StatusAccepted.IsValid())
	assert.True(t, domain.StatusRejected.IsValid())
	assert.False(t, domain.Status("cancelled").IsValid())
}
