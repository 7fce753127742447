package alarm

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jspargo/remind/internal/models"
	"github.com/jspargo/remind/internal/storage"
)

// fakeReminders implements the reminder lookups the dispatcher uses; the
// embedded interface panics on anything else.
type fakeReminders struct {
	storage.ReminderStore
	mu        sync.Mutex
	reminders map[int64]models.Reminder
}

func newFakeReminders() *fakeReminders {
	return &fakeReminders{reminders: make(map[int64]models.Reminder)}
}

func (f *fakeReminders) put(r models.Reminder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders[r.ID] = r
}

func (f *fakeReminders) GetReminder(id int64) (*models.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reminders[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeReminders) GetActive() ([]models.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reminder
	for _, r := range f.reminders {
		if !r.IsCompleted {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeAlarms struct {
	mu   sync.Mutex
	byID map[int64]int64
}

func newFakeAlarms() *fakeAlarms {
	return &fakeAlarms{byID: make(map[int64]int64)}
}

func (f *fakeAlarms) UpsertAlarm(reminderID int64, dueAt int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[reminderID] = dueAt
	return nil
}

func (f *fakeAlarms) DeleteAlarm(reminderID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, reminderID)
	return nil
}

func (f *fakeAlarms) GetDueAlarms(now int64) ([]models.Alarm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Alarm
	for id, dueAt := range f.byID {
		if dueAt <= now {
			out = append(out, models.Alarm{ReminderID: id, DueAt: dueAt})
		}
	}
	return out, nil
}

func (f *fakeAlarms) GetAllAlarms() ([]models.Alarm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Alarm, 0, len(f.byID))
	for id, dueAt := range f.byID {
		out = append(out, models.Alarm{ReminderID: id, DueAt: dueAt})
	}
	return out, nil
}

func (f *fakeAlarms) dueAt(id int64) (int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byID[id]
	return d, ok
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (f *fakeNotifier) Notify(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("delivery failed")
	}
	f.sent = append(f.sent, text)
	return nil
}

func newTestDispatcher() (*Dispatcher, *fakeReminders, *fakeAlarms, *fakeNotifier) {
	reminders := newFakeReminders()
	alarms := newFakeAlarms()
	n := &fakeNotifier{}
	d := NewDispatcher(reminders, alarms, n, time.Minute)
	return d, reminders, alarms, n
}

func TestTickFiresDueAlarm(t *testing.T) {
	d, reminders, alarms, n := newTestDispatcher()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return now })

	due := now.Add(-time.Minute)
	reminders.put(models.Reminder{ID: 1, Title: "Standup", Notes: "room 4", DateTime: due.UnixMilli()})
	_ = alarms.UpsertAlarm(1, due.UnixMilli())

	d.Tick()

	if len(n.sent) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(n.sent))
	}
	if n.sent[0] != "Standup: room 4" {
		t.Errorf("notification text %q", n.sent[0])
	}
	if _, ok := alarms.dueAt(1); ok {
		t.Error("fired alarm should be cleared")
	}
}

func TestTickSkipsFutureAlarm(t *testing.T) {
	d, reminders, alarms, n := newTestDispatcher()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return now })

	due := now.Add(time.Hour)
	reminders.put(models.Reminder{ID: 1, Title: "Later", DateTime: due.UnixMilli()})
	_ = alarms.UpsertAlarm(1, due.UnixMilli())

	d.Tick()

	if len(n.sent) != 0 {
		t.Errorf("sent %d notifications, want 0", len(n.sent))
	}
	if _, ok := alarms.dueAt(1); !ok {
		t.Error("future alarm must remain registered")
	}
}

func TestTickDropsStaleAlarm(t *testing.T) {
	d, reminders, alarms, n := newTestDispatcher()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return now })

	// Completed reminder still has a registration (crash between store
	// mutation and alarm call).
	doneAt := now.UnixMilli()
	reminders.put(models.Reminder{ID: 1, Title: "Done", DateTime: doneAt - 1000, IsCompleted: true, CompletedAt: &doneAt})
	_ = alarms.UpsertAlarm(1, doneAt-1000)

	// Deleted reminder left a registration behind.
	_ = alarms.UpsertAlarm(2, doneAt-1000)

	d.Tick()

	if len(n.sent) != 0 {
		t.Errorf("stale alarms must not fire, sent %v", n.sent)
	}
	if _, ok := alarms.dueAt(1); ok {
		t.Error("completed reminder's registration should be dropped")
	}
	if _, ok := alarms.dueAt(2); ok {
		t.Error("deleted reminder's registration should be dropped")
	}
}

func TestTickResyncsMismatchedAlarm(t *testing.T) {
	d, reminders, alarms, n := newTestDispatcher()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return now })

	// Reminder was rescheduled but the registration kept the old time.
	newDue := now.Add(2 * time.Hour)
	reminders.put(models.Reminder{ID: 1, Title: "Moved", DateTime: newDue.UnixMilli()})
	_ = alarms.UpsertAlarm(1, now.Add(-time.Minute).UnixMilli())

	d.Tick()

	if len(n.sent) != 0 {
		t.Errorf("mismatched alarm must not fire, sent %v", n.sent)
	}
	if got, ok := alarms.dueAt(1); !ok || got != newDue.UnixMilli() {
		t.Errorf("registration should be re-derived to %d, got %d (ok=%v)", newDue.UnixMilli(), got, ok)
	}
}

func TestTickKeepsAlarmOnDeliveryFailure(t *testing.T) {
	d, reminders, alarms, n := newTestDispatcher()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return now })
	n.fail = true

	due := now.Add(-time.Minute)
	reminders.put(models.Reminder{ID: 1, Title: "Retry me", DateTime: due.UnixMilli()})
	_ = alarms.UpsertAlarm(1, due.UnixMilli())

	d.Tick()

	if _, ok := alarms.dueAt(1); !ok {
		t.Fatal("registration must survive a failed delivery")
	}

	n.fail = false
	d.Tick()
	if len(n.sent) != 1 {
		t.Errorf("retry should deliver, sent %d", len(n.sent))
	}
	if _, ok := alarms.dueAt(1); ok {
		t.Error("registration should clear after successful retry")
	}
}

func TestReconcileRebuildsRegistrations(t *testing.T) {
	d, reminders, alarms, _ := newTestDispatcher()

	due := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	reminders.put(models.Reminder{ID: 1, Title: "Active", DateTime: due.UnixMilli()})
	doneAt := due.UnixMilli()
	reminders.put(models.Reminder{ID: 2, Title: "Done", DateTime: due.UnixMilli(), IsCompleted: true, CompletedAt: &doneAt})

	// Registration 2 is orphaned, registration 1 has the wrong time, and
	// registration 3 points at nothing.
	_ = alarms.UpsertAlarm(1, due.Add(-time.Hour).UnixMilli())
	_ = alarms.UpsertAlarm(2, due.UnixMilli())
	_ = alarms.UpsertAlarm(3, due.UnixMilli())

	if err := d.Reconcile(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, ok := alarms.dueAt(1); !ok || got != due.UnixMilli() {
		t.Errorf("active reminder registration = %d (ok=%v), want %d", got, ok, due.UnixMilli())
	}
	if _, ok := alarms.dueAt(2); ok {
		t.Error("completed reminder's registration should be removed")
	}
	if _, ok := alarms.dueAt(3); ok {
		t.Error("dangling registration should be removed")
	}
}
