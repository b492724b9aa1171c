package hub

import (
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/Kartik-coder753/prism-disaster-management/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeSubscriber records events and can simulate a dead connection.
type fakeSubscriber struct {
	mu     sync.Mutex
	events []models.Event
	dead   bool
	closed bool
}

func (f *fakeSubscriber) Send(e models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dead {
		return ErrClosed
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakeSubscriber) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *fakeSubscriber) eventCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := NewHub()
	s := &fakeSubscriber{}

	h.Register(s)
	if h.SubscriberCount() != 1 {
		t.Errorf("expected 1 subscriber, got %d", h.SubscriberCount())
	}

	h.Unregister(s)
	if h.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", h.SubscriberCount())
	}
	if !s.closed {
		t.Error("expected subscriber to be closed on unregister")
	}
}

func TestHub_PublishDeliversToAll(t *testing.T) {
	h := NewHub()
	a, b := &fakeSubscriber{}, &fakeSubscriber{}
	h.Register(a)
	h.Register(b)

	h.Publish(models.Event{Type: models.EventNewDisaster, Data: "payload"})

	if a.eventCount() != 1 || b.eventCount() != 1 {
		t.Errorf("expected both subscribers to receive the event, got %d and %d",
			a.eventCount(), b.eventCount())
	}
}

func TestHub_PublishRemovesDeadSubscriber(t *testing.T) {
	h := NewHub()
	live1, live2 := &fakeSubscriber{}, &fakeSubscriber{}
	dead := &fakeSubscriber{dead: true}
	h.Register(live1)
	h.Register(dead)
	h.Register(live2)

	h.Publish(models.Event{Type: models.EventNewAlert})

	if live1.eventCount() != 1 || live2.eventCount() != 1 {
		t.Errorf("expected live subscribers to receive the event, got %d and %d",
			live1.eventCount(), live2.eventCount())
	}
	if h.SubscriberCount() != 2 {
		t.Errorf("expected dead subscriber removed, count %d", h.SubscriberCount())
	}

	// A later publish still reaches the survivors.
	h.Publish(models.Event{Type: models.EventAlertUpdated})
	if live1.eventCount() != 2 || live2.eventCount() != 2 {
		t.Errorf("expected 2 events each after second publish, got %d and %d",
			live1.eventCount(), live2.eventCount())
	}
}

func TestHub_ConcurrentRegisterPublish(t *testing.T) {
	h := NewHub()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := &fakeSubscriber{}
			h.Register(s)
			h.Unregister(s)
		}()
	}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Publish(models.Event{Type: models.EventNewDisaster})
		}()
	}
	wg.Wait()

	if h.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after cleanup, got %d", h.SubscriberCount())
	}
}

func TestHub_Close(t *testing.T) {
	h := NewHub()
	subs := make([]*fakeSubscriber, 5)
	for i := range subs {
		subs[i] = &fakeSubscriber{}
		h.Register(subs[i])
	}

	h.Close()

	if h.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after close, got %d", h.SubscriberCount())
	}
	for i, s := range subs {
		if !s.closed {
			t.Errorf("subscriber %d should be closed", i)
		}
	}
}

func TestWSClient_SendAfterCloseErrors(t *testing.T) {
	// A client constructed without a live connection is enough to exercise
	// the queueing logic; Close never touches the network twice.
	c := &WSClient{
		send: make(chan models.Event, 1),
		done: make(chan struct{}),
	}

	if err := c.Send(models.Event{Type: models.EventNewDisaster}); err != nil {
		t.Fatalf("expected send to queue, got %v", err)
	}
	// Full buffer drops rather than blocks.
	if err := c.Send(models.Event{Type: models.EventNewAlert}); err != nil {
		t.Fatalf("expected full buffer to drop, got %v", err)
	}

	close(c.done)
	if err := c.Send(models.Event{Type: models.EventNewAlert}); err != ErrClosed {
		t.Errorf("expected ErrClosed after close, got %v", err)
	}
}
