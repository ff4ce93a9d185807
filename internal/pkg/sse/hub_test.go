package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyViewer(t *testing.T) {
	hub := NewHub(4)
	a, cleanupA := hub.Subscribe("viewer-a")
	defer cleanupA()
	b, cleanupB := hub.Subscribe("viewer-b")
	defer cleanupB()

	hub.Publish("viewer-a", Event{Event: "alert_added", Data: "hello"})

	require.Len(t, a, 1)
	got := <-a
	assert.Equal(t, "viewer-a", got.ViewerID)
	assert.Equal(t, "alert_added", got.Event)
	assert.Empty(t, b)
}

func TestHub_BroadcastReachesEveryone(t *testing.T) {
	hub := NewHub(4)
	a1, c1 := hub.Subscribe("viewer-a")
	defer c1()
	a2, c2 := hub.Subscribe("viewer-a")
	defer c2()
	b, c3 := hub.Subscribe("viewer-b")
	defer c3()

	hub.Broadcast(Event{Event: "text", Data: "37.3"})

	assert.Equal(t, "viewer-a", (<-a1).ViewerID)
	assert.Equal(t, "viewer-a", (<-a2).ViewerID)
	assert.Equal(t, "viewer-b", (<-b).ViewerID)
	assert.Equal(t, 3, hub.TotalSubscribers())
	assert.Equal(t, 2, hub.SubscriberCount("viewer-a"))
}

func TestHub_FullSubscriberDropsEvents(t *testing.T) {
	hub := NewHub(2)
	ch, cleanup := hub.Subscribe("viewer-a")
	defer cleanup()

	for i := 0; i < 5; i++ {
		hub.Broadcast(Event{Event: "text", Data: i})
	}

	assert.Len(t, ch, 2)
	assert.Equal(t, 0, (<-ch).Data)
	assert.Equal(t, 1, (<-ch).Data)
}

func TestHub_CleanupClosesAndForgets(t *testing.T) {
	hub := NewHub(0)
	ch, cleanup := hub.Subscribe("viewer-a")

	cleanup()
	cleanup()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount("viewer-a"))
	assert.Equal(t, 0, hub.TotalSubscribers())

	hub.Broadcast(Event{Event: "text"})
}
