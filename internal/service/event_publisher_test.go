package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventPublisherFansOutToSubscribers(t *testing.T) {
	publisher := NewEventPublisher(nil, "", nil, "", testLogger())

	events, cancel := publisher.Subscribe()
	defer cancel()

	publisher.Publish(context.Background(), EvaluationEvent{
		Event:        "graded",
		EvaluationID: 1,
		Status:       "completed",
	})

	select {
	case event := <-events:
		require.Equal(t, "graded", event.Event)
		require.Equal(t, uint(1), event.EvaluationID)
		require.NotEmpty(t, event.Source)
	case <-time.After(time.Second):
		t.Fatal("expected event to reach subscriber")
	}
}

func TestEventPublisherCancelStopsDelivery(t *testing.T) {
	publisher := NewEventPublisher(nil, "", nil, "", testLogger())

	events, cancel := publisher.Subscribe()
	cancel()

	publisher.Publish(context.Background(), EvaluationEvent{Event: "submitted"})

	_, open := <-events
	require.False(t, open, "cancelled subscriber channel must be closed")
}

func TestEventPublisherDropsForSlowSubscribers(t *testing.T) {
	publisher := NewEventPublisher(nil, "", nil, "", testLogger())

	events, cancel := publisher.Subscribe()
	defer cancel()

	for i := 0; i < eventBufferSize+5; i++ {
		publisher.Publish(context.Background(), EvaluationEvent{Event: "submitted"})
	}

	received := 0
	for {
		select {
		case <-events:
			received++
		default:
			require.Equal(t, eventBufferSize, received, "overflow must be dropped, not block")
			return
		}
	}
}
