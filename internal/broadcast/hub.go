// Package broadcast is the collection-changed notification channel. It
// replaces the original storage side-channel with an explicit
// publish/subscribe hub so another client of the same user (a second tab, a
// second terminal) learns its collection changed without polling.
package broadcast

import (
	"sync"
	"time"
)

// EventCollectionChanged signals that a user's collection was mutated.
const EventCollectionChanged = "collection_changed"

// Event is one change notification delivered to subscribers.
type Event struct {
	Type  string    `json:"type"`
	Count int       `json:"count,omitempty"` // records touched by the mutation
	At    time.Time `json:"at"`
}

// Publisher is the write side of the hub, all the server handlers need.
type Publisher interface {
	Publish(userID string, ev Event)
}

// Hub fans events out to per-user subscribers. Safe for concurrent use.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[int]chan Event
	next int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan Event)}
}

// Subscribe registers a listener for the user's events. The returned cancel
// func must be called exactly once; the channel closes after cancellation.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 8)
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[int]chan Event)
	}
	id := h.next
	h.next++
	h.subs[userID][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[userID][id]; ok {
			delete(h.subs[userID], id)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber of the user. Slow
// subscribers are skipped rather than blocking the mutation path; a missed
// event only delays the refresh until the next explicit reload.
func (h *Hub) Publish(userID string, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs[userID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SubscriberCount reports how many listeners the user currently has.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
