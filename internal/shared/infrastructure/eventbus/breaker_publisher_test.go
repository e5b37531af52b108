package eventbus_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/slotswap/internal/shared/infrastructure/eventbus"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyPublisher struct {
	failing   bool
	published int
	closed    bool
}

func (p *flakyPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	if p.failing {
		return errors.New("broker unavailable")
	}
	p.published++
	return nil
}

func (p *flakyPublisher) Close() error {
	p.closed = true
	return nil
}

func TestBreakerPublisher_PassesThrough(t *testing.T) {
	inner := &flakyPublisher{}
	publisher := eventbus.NewBreakerPublisher(inner, eventbus.DefaultBreakerConfig(), testLogger())

	err := publisher.Publish(context.Background(), "swaps.swap.proposed", []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, 1, inner.published)
	assert.Equal(t, gobreaker.StateClosed, publisher.State())
}

func TestBreakerPublisher_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &flakyPublisher{failing: true}
	config := eventbus.BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 3,
	}
	publisher := eventbus.NewBreakerPublisher(inner, config, testLogger())

	for range 3 {
		err := publisher.Publish(context.Background(), "swaps.swap.proposed", []byte(`{}`))
		require.Error(t, err)
	}

	assert.Equal(t, gobreaker.StateOpen, publisher.State())

	// Open breaker rejects without reaching the broker
	err := publisher.Publish(context.Background(), "swaps.swap.proposed", []byte(`{}`))
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 0, inner.published)
}

func TestBreakerPublisher_RecoversAfterTimeout(t *testing.T) {
	inner := &flakyPublisher{failing: true}
	config := eventbus.BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          10 * time.Millisecond,
		FailureThreshold: 1,
	}
	publisher := eventbus.NewBreakerPublisher(inner, config, testLogger())

	err := publisher.Publish(context.Background(), "slots.slot.listed", []byte(`{}`))
	require.Error(t, err)
	assert.Equal(t, gobreaker.StateOpen, publisher.State())

	inner.failing = false
	time.Sleep(20 * time.Millisecond)

	err = publisher.Publish(context.Background(), "slots.slot.listed", []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, 1, inner.published)
}

func TestBreakerPublisher_Close(t *testing.T) {
	inner := &flakyPublisher{}
	publisher := eventbus.NewBreakerPublisher(inner, eventbus.DefaultBreakerConfig(), testLogger())

	require.NoError(t, publisher.Close())
	assert.True(t, inner.closed)
}
