package sse

import (
	"sync"
)

// Event is one server-sent event addressed to a single user.
type Event struct {
	UserID string
	Event  string
	Data   interface{}
}

// Hub fans events out to the open streams of each user. A user may hold
// several streams at once (multiple tabs); every stream gets its own
// buffered channel.
type Hub struct {
	mu      sync.RWMutex
	streams map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{streams: make(map[string]map[chan Event]struct{})}
}

// Subscribe opens a stream for userID. The returned function closes the
// stream and must be called exactly once when the client disconnects.
func (h *Hub) Subscribe(userID string) (chan Event, func()) {
	ch := make(chan Event, 10)

	h.mu.Lock()
	if h.streams[userID] == nil {
		h.streams[userID] = make(map[chan Event]struct{})
	}
	h.streams[userID][ch] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.streams[userID], ch)
		if len(h.streams[userID]) == 0 {
			delete(h.streams, userID)
		}
		close(ch)
	}
	return ch, unsubscribe
}

// Publish delivers an event to every open stream of userID. Delivery is
// non-blocking: a stream whose buffer is full misses the event rather than
// stalling the publisher.
func (h *Hub) Publish(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.streams[userID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount reports the number of open streams for userID.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.streams[userID])
}
