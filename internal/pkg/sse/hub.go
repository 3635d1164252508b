package sse

import (
	"sync"
)

// Event is a server-sent event delivered to topic subscribers.
type Event struct {
	Topic string
	Event string
	Data  interface{}
}

// Hub fans events out to topic subscribers. A topic is an audience
// identity: an employee id, a role topic ("role:hr"), or the broadcast
// topic ("broadcast:all"). One subscriber may listen on several topics
// through a single channel, which is how a client receives both personal
// and broadcast notifications.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a subscriber on the given topics and returns the
// event channel and a cleanup function.
func (h *Hub) Subscribe(topics ...string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)

	for _, topic := range topics {
		if h.subscribers[topic] == nil {
			h.subscribers[topic] = make(map[chan Event]struct{})
		}
		h.subscribers[topic][ch] = struct{}{}
	}

	subscribed := make([]string, len(topics))
	copy(subscribed, topics)

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for _, topic := range subscribed {
			delete(h.subscribers[topic], ch)
			if len(h.subscribers[topic]) == 0 {
				delete(h.subscribers, topic)
			}
		}
		close(ch)
	}

	return ch, cleanup
}

// Publish sends an event to all subscribers of a topic.
func (h *Hub) Publish(topic string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.Topic = topic
	if subs, ok := h.subscribers[topic]; ok {
		for ch := range subs {
			select {
			case ch <- event:
			default:
				// Skip if channel is full (non-blocking to prevent deadlock)
			}
		}
	}
}

// SubscriberCount returns the number of active subscribers for a topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if subs, ok := h.subscribers[topic]; ok {
		return len(subs)
	}
	return 0
}

// TotalSubscribers returns the total number of subscriptions across all topics.
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
