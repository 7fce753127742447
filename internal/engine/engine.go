// Package engine drives reminders through their lifecycle: creation, edits
// that cascade across a recurring group, snoozing with a hard cap, completion
// with next-occurrence spawning, and deletion. Storage and alarm scheduling
// are injected ports; the engine owns the ordering between them.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jspargo/remind/internal/alarm"
	"github.com/jspargo/remind/internal/constants"
	"github.com/jspargo/remind/internal/logger"
	"github.com/jspargo/remind/internal/models"
	"github.com/jspargo/remind/internal/recurrence"
	"github.com/jspargo/remind/internal/storage"
)

type Engine struct {
	store     storage.ReminderStore
	alarms    alarm.Port
	locks     *keyedMutex
	observers []Observer
	now       func() time.Time
}

func New(store storage.ReminderStore, alarms alarm.Port) *Engine {
	return &Engine{
		store:  store,
		alarms: alarms,
		locks:  newKeyedMutex(),
		now:    time.Now,
	}
}

// SetClock overrides the engine's clock. Tests only.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Subscribe registers an observer for lifecycle events. Not safe to call
// concurrently with engine operations.
func (e *Engine) Subscribe(obs Observer) {
	e.observers = append(e.observers, obs)
}

func (e *Engine) publish(fn func(Observer)) {
	for _, obs := range e.observers {
		fn(obs)
	}
}

// scheduleAlarm registers an alarm as a best-effort side effect: the store is
// authoritative, so a failure here is logged and repaired by the next
// reconciliation pass rather than rolled back.
func (e *Engine) scheduleAlarm(id int64, due time.Time) {
	if err := e.alarms.Schedule(id, due); err != nil {
		logger.Warn("Failed to schedule alarm", "reminder_id", id, "error", err)
	}
}

func (e *Engine) cancelAlarm(id int64) {
	if err := e.alarms.Cancel(id); err != nil {
		logger.Warn("Failed to cancel alarm", "reminder_id", id, "error", err)
	}
}

// Add persists a new reminder and registers its alarm. Recurring reminders
// are minted a fresh group token; lifecycle fields are forced to their initial
// state regardless of what the caller passed.
func (e *Engine) Add(rem models.Reminder) (models.Reminder, error) {
	if rem.MainCategory == "" {
		rem.MainCategory = constants.DefaultCategory
	}
	if rem.RecurrenceType == "" {
		rem.RecurrenceType = models.RecurrenceOneTime
	}
	if rem.RecurrenceInterval < 1 {
		rem.RecurrenceInterval = 1
	}

	if err := rem.Validate(); err != nil {
		return models.Reminder{}, err
	}

	rem.ID = 0
	rem.IsCompleted = false
	rem.CompletedAt = nil
	rem.DismissalReason = nil
	rem.SnoozeCount = 0

	if rem.RecurrenceType.IsRecurring() {
		token := uuid.New().String()
		rem.RecurringGroupID = &token
	} else {
		rem.RecurringGroupID = nil
	}

	id, err := e.store.InsertReminder(rem)
	if err != nil {
		return models.Reminder{}, err
	}
	rem.ID = id

	e.scheduleAlarm(id, rem.DueTime())
	e.publish(func(o Observer) { o.ReminderAdded(rem) })
	return rem, nil
}

// Update edits one reminder and, when it belongs to a recurring group,
// propagates the content fields (not the due time) to every future group
// member. Ordering is cancel-old, mutate, register-new so a crash mid-way
// leaves at most a stale alarm, never a lost one. Missing id is a no-op.
func (e *Engine) Update(id int64, title, notes string, dateTime int64, mainCategory string, subCategory *string) error {
	unlock := e.locks.Lock(id)
	defer unlock()

	rem, err := e.store.GetReminder(id)
	if err != nil {
		return err
	}
	if rem == nil {
		return nil
	}

	e.cancelAlarm(id)

	if rem.RecurringGroupID != nil {
		since := e.now().UnixMilli()
		if err := e.store.UpdateFutureInGroup(*rem.RecurringGroupID, since, title, notes, mainCategory, subCategory); err != nil {
			return err
		}
	}

	rem.Title = title
	rem.Notes = notes
	rem.DateTime = dateTime
	rem.MainCategory = mainCategory
	rem.SubCategory = subCategory
	if err := e.store.UpdateReminder(*rem); err != nil {
		return err
	}

	// Completed reminders never hold an alarm.
	if !rem.IsCompleted {
		e.scheduleAlarm(id, rem.DueTime())
	}
	e.publish(func(o Observer) { o.ReminderUpdated(*rem) })
	return nil
}

// Delete cancels the reminder's alarm and removes the record.
func (e *Engine) Delete(rem models.Reminder) error {
	unlock := e.locks.Lock(rem.ID)
	defer unlock()
	return e.deleteLocked(rem)
}

func (e *Engine) deleteLocked(rem models.Reminder) error {
	e.cancelAlarm(rem.ID)
	if err := e.store.DeleteReminder(rem.ID); err != nil {
		return err
	}

	e.publish(func(o Observer) { o.ReminderDeleted(rem.ID) })
	return nil
}

// DeleteWithRecurrenceCheck deletes the reminder and, when requested, every
// other future member of its recurring group. Alarms are cancelled per member
// before the bulk delete so no registration is orphaned.
func (e *Engine) DeleteWithRecurrenceCheck(rem models.Reminder, deleteAllFuture bool) error {
	if deleteAllFuture && rem.RecurringGroupID != nil {
		since := e.now().UnixMilli()

		members, err := e.store.GetFutureInGroup(*rem.RecurringGroupID, since)
		if err != nil {
			return err
		}
		for _, m := range members {
			if m.ID == rem.ID {
				continue
			}
			e.cancelAlarm(m.ID)
		}

		if err := e.store.DeleteFutureInGroup(*rem.RecurringGroupID, since, rem.ID); err != nil {
			return err
		}
	}

	return e.Delete(rem)
}

// MarkCompleted stamps the completion state and, for a completed recurring
// reminder, synchronously spawns the next occurrence. Missing id is a no-op,
// as is repeating the state the reminder is already in. Passing
// completed=false reopens the reminder and clears the completion fields
// without spawning anything.
func (e *Engine) MarkCompleted(id int64, completed bool, reason string) error {
	unlock := e.locks.Lock(id)
	defer unlock()

	rem, err := e.store.GetReminder(id)
	if err != nil {
		return err
	}
	if rem == nil {
		return nil
	}

	return e.markCompletedLocked(rem, completed, reason)
}

func (e *Engine) markCompletedLocked(rem *models.Reminder, completed bool, reason string) error {
	// Only transitions act. Completing an already-completed recurring
	// reminder must not spawn a second occurrence for the same slot.
	if rem.IsCompleted == completed {
		return nil
	}

	e.cancelAlarm(rem.ID)

	completedAt := e.now().UnixMilli()
	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	if err := e.store.MarkCompleted(rem.ID, completed, completedAt, reasonPtr); err != nil {
		return err
	}

	rem.IsCompleted = completed
	if completed {
		rem.CompletedAt = &completedAt
		rem.DismissalReason = reasonPtr
	} else {
		rem.CompletedAt = nil
		rem.DismissalReason = nil
		e.scheduleAlarm(rem.ID, rem.DueTime())
	}

	e.publish(func(o Observer) { o.ReminderCompleted(*rem) })

	if completed && rem.IsRecurring() {
		if _, err := e.spawnNextOccurrence(*rem); err != nil {
			return err
		}
	}
	return nil
}

// Snooze pushes the reminder forward by the fixed snooze offset. The third
// snooze completes the reminder with the AUTO_SNOOZED reason instead of
// rescheduling. Missing id is a no-op.
func (e *Engine) Snooze(id int64) error {
	unlock := e.locks.Lock(id)
	defer unlock()

	rem, err := e.store.GetReminder(id)
	if err != nil {
		return err
	}
	if rem == nil || rem.IsCompleted {
		return nil
	}

	newCount := rem.SnoozeCount + 1
	if newCount >= constants.MaxSnoozeCount {
		return e.markCompletedLocked(rem, true, constants.AutoSnoozedReason)
	}

	newTime := rem.DateTime + constants.SnoozeOffset.Milliseconds()
	if err := e.store.UpdateSnooze(id, newCount, newTime); err != nil {
		return err
	}

	rem.SnoozeCount = newCount
	rem.DateTime = newTime
	e.scheduleAlarm(id, rem.DueTime())
	e.publish(func(o Observer) { o.ReminderSnoozed(*rem) })
	return nil
}

// spawnNextOccurrence clones the completed reminder into the next instance of
// its group. The next due time is anchored to the completed reminder's own
// prior due time, never the wall clock, so late completions do not drift the
// chain.
func (e *Engine) spawnNextOccurrence(completed models.Reminder) (models.Reminder, error) {
	dayOfMonth := 0
	if completed.RecurrenceDayOfMonth != nil {
		dayOfMonth = *completed.RecurrenceDayOfMonth
	}

	next, err := recurrence.Next(completed.DueTime(), completed.RecurrenceType, completed.RecurrenceInterval, dayOfMonth)
	if err != nil {
		return models.Reminder{}, fmt.Errorf("failed to compute next occurrence: %w", err)
	}

	spawn := completed
	spawn.ID = 0
	spawn.DateTime = next.UnixMilli()
	spawn.IsCompleted = false
	spawn.CompletedAt = nil
	spawn.DismissalReason = nil
	spawn.SnoozeCount = 0

	id, err := e.store.InsertReminder(spawn)
	if err != nil {
		return models.Reminder{}, err
	}
	spawn.ID = id

	e.scheduleAlarm(id, next)
	e.publish(func(o Observer) { o.NextOccurrenceSpawned(completed, spawn) })
	return spawn, nil
}

// ClearAllCompleted bulk-deletes completed reminders. Completed reminders
// never hold an alarm, so there is nothing to cancel.
func (e *Engine) ClearAllCompleted() (int64, error) {
	return e.store.ClearCompleted()
}
