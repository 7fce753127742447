package storage

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jspargo/remind/internal/models"
)

func TestBroadcasterNotifiesAllSubscribers(t *testing.T) {
	var b Broadcaster

	ch1, cancel1 := b.Subscribe()
	defer cancel1()
	ch2, cancel2 := b.Subscribe()
	defer cancel2()

	b.Notify()

	for i, ch := range []<-chan struct{}{ch1, ch2} {
		select {
		case <-ch:
		default:
			t.Errorf("subscriber %d did not receive the signal", i)
		}
	}
}

func TestBroadcasterCoalescesPendingSignals(t *testing.T) {
	var b Broadcaster

	ch, cancel := b.Subscribe()
	defer cancel()

	b.Notify()
	b.Notify()
	b.Notify()

	<-ch
	select {
	case <-ch:
		t.Error("expected pending signals to coalesce into one")
	default:
	}
}

func TestBroadcasterCancelStopsDelivery(t *testing.T) {
	var b Broadcaster

	ch, cancel := b.Subscribe()
	cancel()

	b.Notify()

	select {
	case <-ch:
		t.Error("cancelled subscriber received a signal")
	default:
	}
}

func TestWatchRemindersEmitsInitialAndOnChange(t *testing.T) {
	var b Broadcaster
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	items := []models.Reminder{{ID: 1, Title: "first"}}
	out := WatchReminders(ctx, &b, func() ([]models.Reminder, error) {
		return items, nil
	})

	got := <-out
	if len(got) != 1 || got[0].Title != "first" {
		t.Fatalf("unexpected initial emission: %+v", got)
	}

	items = []models.Reminder{{ID: 1, Title: "first"}, {ID: 2, Title: "second"}}
	b.Notify()

	got = <-out
	if len(got) != 2 {
		t.Fatalf("expected 2 items after change, got %d", len(got))
	}
}

func TestWatchRemindersSkipsFailedQueries(t *testing.T) {
	var b Broadcaster
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var fail atomic.Bool
	fail.Store(true)
	out := WatchReminders(ctx, &b, func() ([]models.Reminder, error) {
		if fail.Load() {
			return nil, errors.New("query failed")
		}
		return []models.Reminder{{ID: 7, Title: "recovered"}}, nil
	})

	fail.Store(false)
	b.Notify()

	got := <-out
	if len(got) != 1 || got[0].ID != 7 {
		t.Fatalf("expected the recovered emission, got %+v", got)
	}
}

func TestWatchRemindersClosesOnCancel(t *testing.T) {
	var b Broadcaster
	ctx, cancel := context.WithCancel(context.Background())

	out := WatchReminders(ctx, &b, func() ([]models.Reminder, error) {
		return nil, nil
	})

	<-out
	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected the stream to close, got an emission")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not close after cancel")
	}
}
