package alarm

import (
	"context"
	"fmt"
	"time"

	"github.com/jspargo/remind/internal/logger"
	"github.com/jspargo/remind/internal/models"
	"github.com/jspargo/remind/internal/storage"
)

// Notifier delivers a single alarm notification to the user.
type Notifier interface {
	Notify(text string) error
}

// Dispatcher polls the alarm registrations and fires notifications for due
// ones. Reminder state in the store is authoritative: every due registration
// is re-validated before firing, so stale alarms left behind by a crash
// between a store mutation and an alarm call are repaired rather than fired.
type Dispatcher struct {
	reminders storage.ReminderStore
	alarms    storage.AlarmStore
	port      Port
	notifier  Notifier
	interval  time.Duration
	now       func() time.Time
}

func NewDispatcher(reminders storage.ReminderStore, alarms storage.AlarmStore, notifier Notifier, interval time.Duration) *Dispatcher {
	return &Dispatcher{
		reminders: reminders,
		alarms:    alarms,
		port:      NewScheduler(alarms),
		notifier:  notifier,
		interval:  interval,
		now:       time.Now,
	}
}

// SetClock overrides the dispatcher's clock. Tests only.
func (d *Dispatcher) SetClock(now func() time.Time) {
	d.now = now
}

// Run reconciles once, then polls until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	if err := d.Reconcile(); err != nil {
		logger.Warn("Startup alarm reconciliation failed", "error", err)
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.Tick()
		}
	}
}

// Tick fires every due registration whose reminder is still active at the
// registered time. A failed notification keeps the registration so the next
// tick retries it.
func (d *Dispatcher) Tick() {
	due, err := d.alarms.GetDueAlarms(d.now().UnixMilli())
	if err != nil {
		logger.Error("Failed to query due alarms", "error", err)
		return
	}

	for _, a := range due {
		d.fire(a)
	}
}

func (d *Dispatcher) fire(a models.Alarm) {
	rem, err := d.reminders.GetReminder(a.ReminderID)
	if err != nil {
		logger.Error("Failed to load reminder for due alarm", "reminder_id", a.ReminderID, "error", err)
		return
	}

	// Stale registration: the reminder is gone or already completed.
	if rem == nil || rem.IsCompleted {
		if err := d.alarms.DeleteAlarm(a.ReminderID); err != nil {
			logger.Error("Failed to drop stale alarm", "reminder_id", a.ReminderID, "error", err)
		}
		return
	}

	// The reminder was rescheduled without its registration catching up
	// (crash between store mutation and alarm call). Re-derive instead of
	// firing at the wrong time.
	if rem.DateTime != a.DueAt {
		if err := d.port.Schedule(rem.ID, rem.DueTime()); err != nil {
			logger.Error("Failed to re-sync alarm", "reminder_id", rem.ID, "error", err)
		}
		return
	}

	text := rem.Title
	if rem.Notes != "" {
		text = fmt.Sprintf("%s: %s", rem.Title, rem.Notes)
	}
	if err := d.notifier.Notify(text); err != nil {
		logger.Warn("Failed to deliver notification, will retry", "reminder_id", rem.ID, "error", err)
		return
	}

	if err := d.alarms.DeleteAlarm(a.ReminderID); err != nil {
		logger.Error("Failed to clear fired alarm", "reminder_id", a.ReminderID, "error", err)
		return
	}

	logger.Info("Alarm fired", "reminder_id", rem.ID, "title", rem.Title)
}

// Reconcile rebuilds the registration set from the active reminders: every
// active reminder gets a registration at its due time, and registrations
// without a matching active reminder are removed.
func (d *Dispatcher) Reconcile() error {
	active, err := d.reminders.GetActive()
	if err != nil {
		return fmt.Errorf("failed to load active reminders: %w", err)
	}

	want := make(map[int64]struct{}, len(active))
	for _, r := range active {
		want[r.ID] = struct{}{}
		if err := d.port.Schedule(r.ID, r.DueTime()); err != nil {
			return fmt.Errorf("failed to register alarm for reminder %d: %w", r.ID, err)
		}
	}

	regs, err := d.alarms.GetAllAlarms()
	if err != nil {
		return fmt.Errorf("failed to list alarm registrations: %w", err)
	}
	for _, reg := range regs {
		if _, ok := want[reg.ReminderID]; !ok {
			if err := d.alarms.DeleteAlarm(reg.ReminderID); err != nil {
				return fmt.Errorf("failed to remove orphaned alarm %d: %w", reg.ReminderID, err)
			}
		}
	}

	logger.Debug("Alarm reconciliation complete", "active", len(active), "registrations", len(regs))
	return nil
}
