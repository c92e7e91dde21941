package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesTopicSubscribers(t *testing.T) {
	hub := NewHub()

	events, cleanup := hub.Subscribe("attendance")
	defer cleanup()
	other, cleanupOther := hub.Subscribe("other")
	defer cleanupOther()

	hub.Publish(Event{Topic: "attendance", Event: "attendance.checked_in", Data: "EMP001"})

	select {
	case e := <-events:
		assert.Equal(t, "attendance.checked_in", e.Event)
		assert.Equal(t, "EMP001", e.Data)
	default:
		t.Fatal("expected an event")
	}

	select {
	case <-other:
		t.Fatal("other topic must not receive the event")
	default:
	}
}

func TestHub_CleanupUnsubscribes(t *testing.T) {
	hub := NewHub()

	events, cleanup := hub.Subscribe("attendance")
	require.Equal(t, 1, hub.SubscriberCount("attendance"))

	cleanup()
	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount("attendance"))

	_, open := <-events
	assert.False(t, open)

	hub.Publish(Event{Topic: "attendance", Event: "ignored"})
}

func TestHub_FullSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe("attendance")
	defer cleanup()

	for i := 0; i < 100; i++ {
		hub.Publish(Event{Topic: "attendance", Event: "tick"})
	}
}
