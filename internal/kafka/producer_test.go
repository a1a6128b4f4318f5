package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducer_PublishWithRetry_GivesUp(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, nil)
	defer p.Close()

	err := p.PublishWithRetry(context.Background(), "booking-events", "b-1", make(chan int), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 1 retries")
	assert.Contains(t, err.Error(), "failed to marshal payload")
}

func TestProducer_PublishWithRetry_StopsOnCancel(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, nil)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.PublishWithRetry(ctx, "booking-events", "b-1", make(chan int), 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProducer_CheckConnection(t *testing.T) {
	err := NewProducer(nil, nil).CheckConnection(context.Background())
	assert.EqualError(t, err, "no kafka brokers configured")

	err = NewProducer([]string{"127.0.0.1:1"}, nil).CheckConnection(context.Background())
	assert.ErrorContains(t, err, "failed to connect to Kafka")
}
