package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishRun(t *testing.T) {
	h := NewHub()

	runEvents, unsubRun := h.Subscribe("run-1")
	defer unsubRun()
	allEvents, unsubAll := h.Subscribe(TopicAllRuns)
	defer unsubAll()
	otherEvents, unsubOther := h.Subscribe("run-2")
	defer unsubOther()

	assert.Equal(t, 3, h.TotalSubscribers())

	h.PublishRun("run-1", "run.recomputed", map[string]string{"id": "run-1"})

	got := <-runEvents
	assert.Equal(t, "run-1", got.Topic)
	assert.Equal(t, "run.recomputed", got.Name)

	got = <-allEvents
	assert.Equal(t, TopicAllRuns, got.Topic)

	select {
	case e := <-otherEvents:
		t.Fatalf("unexpected event %v", e)
	default:
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub()

	events, unsub := h.Subscribe("run-1")
	assert.Equal(t, 1, h.SubscriberCount("run-1"))

	unsub()
	unsub()
	assert.Zero(t, h.SubscriberCount("run-1"))

	_, ok := <-events
	assert.False(t, ok)

	// publishing after everyone left must not panic
	h.Publish(Event{Topic: "run-1", Name: "run.created"})
}

func TestHub_DropsWhenFull(t *testing.T) {
	h := NewHub()
	events, unsub := h.Subscribe("run-1")
	defer unsub()

	for i := 0; i < 100; i++ {
		h.Publish(Event{Topic: "run-1", Name: "tick", Data: i})
	}

	require.Len(t, events, cap(events))
	first := <-events
	assert.Equal(t, 0, first.Data)
}

func TestHub_NilDropsEvents(t *testing.T) {
	var h *Hub
	assert.NotPanics(t, func() {
		h.PublishRun("run-1", "run.created", nil)
	})
}
