package engine

import (
	"github.com/jspargo/remind/internal/logger"
	"github.com/jspargo/remind/internal/models"
)

// Observer receives lifecycle events after each successful engine operation.
// Implementations must not call back into the engine from a callback; the
// per-reminder lock is still held when events fire.
type Observer interface {
	ReminderAdded(models.Reminder)
	ReminderUpdated(models.Reminder)
	ReminderCompleted(models.Reminder)
	ReminderSnoozed(models.Reminder)
	ReminderDeleted(id int64)
	NextOccurrenceSpawned(completed, next models.Reminder)
	CategoryDeleted(models.Category)
}

// NoopObserver implements Observer with empty methods, for embedding.
type NoopObserver struct{}

func (NoopObserver) ReminderAdded(models.Reminder)                  {}
func (NoopObserver) ReminderUpdated(models.Reminder)                {}
func (NoopObserver) ReminderCompleted(models.Reminder)              {}
func (NoopObserver) ReminderSnoozed(models.Reminder)                {}
func (NoopObserver) ReminderDeleted(int64)                          {}
func (NoopObserver) NextOccurrenceSpawned(_, _ models.Reminder)     {}
func (NoopObserver) CategoryDeleted(models.Category)                {}

// LogObserver writes a debug log line per lifecycle event.
type LogObserver struct {
	NoopObserver
}

func (LogObserver) ReminderAdded(r models.Reminder) {
	logger.Debug("Reminder added", "id", r.ID, "title", r.Title)
}

func (LogObserver) ReminderCompleted(r models.Reminder) {
	logger.Debug("Reminder completed", "id", r.ID, "title", r.Title)
}

func (LogObserver) NextOccurrenceSpawned(completed, next models.Reminder) {
	logger.Debug("Next occurrence spawned", "completed_id", completed.ID, "next_id", next.ID, "due", next.DueTime())
}

func (LogObserver) CategoryDeleted(c models.Category) {
	logger.Debug("Category deleted", "name", c.Name)
}
