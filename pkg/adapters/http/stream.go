package http

import (
	"log/slog"
	"sync"
)

// Event is one server-sent event.
type Event struct {
	Name string
	Data []byte
}

// StreamManager handles active SSE connections. Subscribers pick a query
// kind; the empty kind receives every event.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- Event]struct{}
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- Event]struct{}),
	}
}

// Subscribe registers a listener for kind. The returned func unsubscribes
// and closes the channel.
func (sm *StreamManager) Subscribe(kind string) (<-chan Event, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Event, 10)
	if _, ok := sm.subscribers[kind]; !ok {
		sm.subscribers[kind] = make(map[chan<- Event]struct{})
	}
	sm.subscribers[kind][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[kind]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(sm.subscribers, kind)
				}
			}
		})
	}
}

// Count returns the number of active subscribers.
func (sm *StreamManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	n := 0
	for _, subs := range sm.subscribers {
		n += len(subs)
	}
	return n
}

// Broadcast sends an event to the subscribers of kind and to those of every kind.
func (sm *StreamManager) Broadcast(kind, name string, data []byte) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ev := Event{Name: name, Data: data}
	for _, key := range []string{kind, ""} {
		for ch := range sm.subscribers[key] {
			select {
			case ch <- ev:
			default:
				// Drop message if channel is full (slow client)
				slog.Warn("SSE: client buffer full, dropping event", "kind", kind)
			}
		}
		if kind == "" {
			break
		}
	}
}
