package server

import "sync"

// ReloadEvent describes one successful reload.
type ReloadEvent struct {
	// Generation counts successful reloads, starting at 1 for the initial load.
	Generation uint64 `json:"generation"`
	// Langs is the number of nodes in the new network.
	Langs int `json:"langs"`
}

// Notifier fans reload events out to subscribers. Each subscriber holds at
// most one pending event; a newer event replaces an unread one.
type Notifier struct {
	mu   sync.Mutex
	subs map[chan ReloadEvent]struct{}
}

// NewNotifier creates a Notifier with no subscribers.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[chan ReloadEvent]struct{})}
}

// Subscribe registers a subscriber. Call Unsubscribe when done.
func (n *Notifier) Subscribe() chan ReloadEvent {
	ch := make(chan ReloadEvent, 1)
	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes ch and closes it.
func (n *Notifier) Unsubscribe(ch chan ReloadEvent) {
	n.mu.Lock()
	delete(n.subs, ch)
	n.mu.Unlock()
	close(ch)
}

// Publish delivers ev to every subscriber without blocking.
func (n *Notifier) Publish(ev ReloadEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.subs {
		// Only Publish sends, and it holds the lock, so after the drain the
		// buffer has room.
		select {
		case <-ch:
		default:
		}
		ch <- ev
	}
}
