package storage

import (
	"context"
	"sync"

	"github.com/jspargo/remind/internal/models"
)

// Broadcaster fans a change signal out to watch subscriptions. Backends call
// Notify after every successful mutation; subscribers coalesce pending signals
// so a slow reader sees at most one stale emission.
type Broadcaster struct {
	mu   sync.Mutex
	next int
	subs map[int]chan struct{}
}

// Subscribe registers a change listener. The returned cancel func must be
// called to release the subscription.
func (b *Broadcaster) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs == nil {
		b.subs = make(map[int]chan struct{})
	}

	id := b.next
	b.next++
	ch := make(chan struct{}, 1)
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Notify signals all subscribers that store state changed.
func (b *Broadcaster) Notify() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default: // subscriber already has a pending signal
		}
	}
}

// WatchReminders turns a point-in-time query into a live stream: the query
// result is emitted once immediately and again after every change signal, until
// ctx is cancelled. Query errors skip the emission rather than ending the
// stream; the next change retries.
func WatchReminders(ctx context.Context, b *Broadcaster, query func() ([]models.Reminder, error)) <-chan []models.Reminder {
	out := make(chan []models.Reminder, 1)
	signal, cancel := b.Subscribe()

	go func() {
		defer close(out)
		defer cancel()

		emit := func() {
			result, err := query()
			if err != nil {
				return
			}
			select {
			case out <- result:
			case <-ctx.Done():
			}
		}

		emit()
		for {
			select {
			case <-ctx.Done():
				return
			case <-signal:
				emit()
			}
		}
	}()

	return out
}
