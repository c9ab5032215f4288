package auth

import (
	"sync"
	"time"
)

// EventType 标识会话变化的种类
type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

const subscriberBuffer = 8

// Event is a session change for one user.
type Event struct {
	Type   EventType `json:"type"`
	UserID uint      `json:"user_id"`
	At     time.Time `json:"at"`
}

// Hub fans session changes out to subscribers of the affected user.
// Publish never blocks: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint]map[uint64]chan Event
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[uint]map[uint64]chan Event)}
}

// Subscribe registers interest in userID's session changes. The returned
// cancel func unregisters and closes the channel; calling it twice is safe.
func (h *Hub) Subscribe(userID uint) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[uint64]chan Event)
	}
	h.subs[userID][id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if group, ok := h.subs[userID]; ok {
				delete(group, id)
				if len(group) == 0 {
					delete(h.subs, userID)
				}
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber of ev.UserID and reports how many received it.
func (h *Hub) Publish(ev Event) int {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for _, ch := range h.subs[ev.UserID] {
		select {
		case ch <- ev:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers returns the number of live subscriptions for userID.
func (h *Hub) Subscribers(userID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}
