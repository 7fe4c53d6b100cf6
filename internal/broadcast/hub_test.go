package broadcast

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesAllUserSubscribers(t *testing.T) {
	h := NewHub()
	ch1, cancel1 := h.Subscribe("alice")
	defer cancel1()
	ch2, cancel2 := h.Subscribe("alice")
	defer cancel2()

	h.Publish("alice", Event{Type: EventCollectionChanged, Count: 5})

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, EventCollectionChanged, ev.Type)
			assert.Equal(t, 5, ev.Count)
			assert.False(t, ev.At.IsZero())
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestPublishIsScopedToUser(t *testing.T) {
	h := NewHub()
	aliceCh, cancelA := h.Subscribe("alice")
	defer cancelA()
	bobCh, cancelB := h.Subscribe("bob")
	defer cancelB()

	h.Publish("alice", Event{Type: EventCollectionChanged})

	select {
	case <-aliceCh:
	case <-time.After(time.Second):
		t.Fatal("alice did not receive her event")
	}
	select {
	case ev := <-bobCh:
		t.Fatalf("bob received alice's event: %+v", ev)
	default:
	}
}

func TestCancelClosesChannelAndUnregisters(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("alice")
	require.Equal(t, 1, h.SubscriberCount("alice"))

	cancel()
	assert.Equal(t, 0, h.SubscriberCount("alice"))

	_, open := <-ch
	assert.False(t, open)

	// Cancelling twice must not panic or double-close.
	cancel()

	// Publishing to a user with no subscribers is a no-op.
	h.Publish("alice", Event{Type: EventCollectionChanged})
}

func TestPublishSkipsSlowSubscriber(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("alice")
	defer cancel()

	// Fill the buffer and keep going; Publish must never block.
	for i := 0; i < 32; i++ {
		h.Publish("alice", Event{Type: EventCollectionChanged, Count: i})
	}

	// The buffered events are the earliest ones.
	ev := <-ch
	assert.Equal(t, 0, ev.Count)
}

func TestConcurrentPublishSubscribe(t *testing.T) {
	h := NewHub()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ch, cancel := h.Subscribe("alice")
			for n := 0; n < 3; n++ {
				select {
				case <-ch:
				case <-time.After(10 * time.Millisecond):
				}
			}
			cancel()
		}()
		go func() {
			defer wg.Done()
			for n := 0; n < 5; n++ {
				h.Publish("alice", Event{Type: EventCollectionChanged})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, h.SubscriberCount("alice"))
}
