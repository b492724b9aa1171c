// Package hub fans out record events to live subscribers. Delivery is
// best-effort: there is no backlog or replay for connections that are not
// registered at publish time.
package hub

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/Kartik-coder753/prism-disaster-management/internal/models"
)

// ErrClosed is returned by a subscriber whose connection is gone.
var ErrClosed = errors.New("subscriber closed")

// Subscriber is one live connection. Send must not block indefinitely; a
// slow subscriber drops events rather than stalling the hub.
type Subscriber interface {
	Send(e models.Event) error
	Close()
}

type Hub struct {
	mu   sync.RWMutex
	subs map[Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[Subscriber]struct{}),
	}
}

func (h *Hub) Register(s Subscriber) {
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(s Subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		s.Close()
	}
	h.mu.Unlock()
}

// Publish sends e to every registered subscriber. A failing subscriber is
// dropped from the registry without affecting delivery to the others.
func (h *Hub) Publish(e models.Event) {
	h.mu.RLock()
	snapshot := make([]Subscriber, 0, len(h.subs))
	for s := range h.subs {
		snapshot = append(snapshot, s)
	}
	h.mu.RUnlock()

	var failed []Subscriber
	for _, s := range snapshot {
		if err := s.Send(e); err != nil {
			failed = append(failed, s)
		}
	}

	for _, s := range failed {
		slog.Debug("dropping failed subscriber", "event", e.Type)
		h.Unregister(s)
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close tears down every subscriber, letting their pumps exit gracefully.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		s.Close()
		delete(h.subs, s)
	}
}
