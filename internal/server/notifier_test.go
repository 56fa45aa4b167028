package server

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotifier_SubscribeAndPublish(t *testing.T) {
	n := NewNotifier()

	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	n.Publish(ReloadEvent{Generation: 1, Langs: 4})

	select {
	case ev := <-ch:
		assert.Equal(t, ReloadEvent{Generation: 1, Langs: 4}, ev)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("expected to receive event")
	}
}

func TestNotifier_LatestWins(t *testing.T) {
	n := NewNotifier()

	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	n.Publish(ReloadEvent{Generation: 1})
	n.Publish(ReloadEvent{Generation: 2})
	n.Publish(ReloadEvent{Generation: 3})

	assert.Equal(t, uint64(3), (<-ch).Generation)
	select {
	case ev := <-ch:
		t.Fatalf("expected a single pending event, got %+v", ev)
	default:
	}
}

func TestNotifier_Unsubscribe(t *testing.T) {
	n := NewNotifier()

	ch := n.Subscribe()
	n.Unsubscribe(ch)

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")

	// Publishing after Unsubscribe must not send on the closed channel.
	assert.NotPanics(t, func() { n.Publish(ReloadEvent{Generation: 1}) })
}

func TestNotifier_Concurrent(t *testing.T) {
	n := NewNotifier()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := n.Subscribe()
			n.Publish(ReloadEvent{Generation: uint64(i)})
			<-ch
			n.Unsubscribe(ch)
		}()
	}
	wg.Wait()

	assert.NotPanics(t, func() { n.Publish(ReloadEvent{}) })
}
