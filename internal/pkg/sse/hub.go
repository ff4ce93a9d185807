package sse

import (
	"sync"
)

// Event is one server-sent event for page viewers
type Event struct {
	ViewerID string
	Event    string
	Data     interface{}
}

// Hub manages stream subscribers per viewer and fans events out to them
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	bufferSize  int
}

// NewHub creates a hub whose subscriber channels hold bufferSize events
func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = 10
	}
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a new subscriber for a viewer and returns the event channel and cleanup function
func (h *Hub) Subscribe(viewerID string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.bufferSize)

	if h.subscribers[viewerID] == nil {
		h.subscribers[viewerID] = make(map[chan Event]struct{})
	}
	h.subscribers[viewerID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[viewerID], ch)
			close(ch)
			if len(h.subscribers[viewerID]) == 0 {
				delete(h.subscribers, viewerID)
			}
		})
	}

	return ch, cleanup
}

// Publish sends an event to every subscriber of one viewer
func (h *Hub) Publish(viewerID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.ViewerID = viewerID
	for ch := range h.subscribers[viewerID] {
		send(ch, event)
	}
}

// Broadcast sends an event to every subscriber of every viewer
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for viewerID, subs := range h.subscribers {
		e := event
		e.ViewerID = viewerID
		for ch := range subs {
			send(ch, e)
		}
	}
}

// SubscriberCount returns the number of active subscribers for a viewer
func (h *Hub) SubscriberCount(viewerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[viewerID])
}

// TotalSubscribers returns the total number of active subscribers across all viewers
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}

func send(ch chan Event, event Event) {
	select {
	case ch <- event:
	default:
		// Slow subscriber, drop rather than block the page
	}
}
