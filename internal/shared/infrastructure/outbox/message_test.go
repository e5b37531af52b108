package outbox_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/slotswap/internal/shared/domain"
	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotListedEvent struct {
	domain.BaseEvent
	SlotID  uuid.UUID `json:"slot_id"`
	OwnerID uuid.UUID `json:"owner_id"`
}

func TestNewMessage(t *testing.T) {
	slotID := uuid.New()
	ownerID := uuid.New()

	event := &slotListedEvent{
		BaseEvent: domain.NewBaseEvent(slotID, "Slot", "slots.slot.listed"),
		SlotID:    slotID,
		OwnerID:   ownerID,
	}
	event.SetMetadata(domain.EventMetadata{
		CorrelationID: uuid.New(),
		UserID:        ownerID,
	})

	msg, err := outbox.NewMessage(event)
	require.NoError(t, err)

	assert.Equal(t, event.EventID(), msg.EventID)
	assert.Equal(t, slotID, msg.AggregateID)
	assert.Equal(t, "Slot", msg.AggregateType)
	assert.Equal(t, "slots.slot.listed", msg.RoutingKey)
	assert.Equal(t, "slots.slot.listed", msg.EventType)
	assert.Contains(t, string(msg.Payload), slotID.String())
	assert.NotEmpty(t, msg.Metadata)
	assert.False(t, msg.IsPublished())
	assert.Equal(t, event.OccurredAt(), msg.CreatedAt)
}

func TestMessage_IsPublished(t *testing.T) {
	msg := createTestMessage("slots.slot.listed")
	assert.False(t, msg.IsPublished())

	now := time.Now()
	msg.PublishedAt = &now
	assert.True(t, msg.IsPublished())
}

func TestMessage_CanRetry(t *testing.T) {
	msg := createTestMessage("slots.slot.listed")

	assert.True(t, msg.CanRetry(3))

	msg.RetryCount = 2
	assert.True(t, msg.CanRetry(3))

	msg.RetryCount = 3
	assert.False(t, msg.CanRetry(3))
}
