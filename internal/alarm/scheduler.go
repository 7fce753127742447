package alarm

import (
	"time"

	"github.com/jspargo/remind/internal/storage"
)

// Scheduler is the store-backed Port implementation: a registration is a row
// in the alarms table, which survives restarts and lets the dispatcher resume
// where it left off.
type Scheduler struct {
	store storage.AlarmStore
}

func NewScheduler(store storage.AlarmStore) *Scheduler {
	return &Scheduler{store: store}
}

func (s *Scheduler) Schedule(reminderID int64, due time.Time) error {
	return s.store.UpsertAlarm(reminderID, due.UnixMilli())
}

func (s *Scheduler) Cancel(reminderID int64) error {
	return s.store.DeleteAlarm(reminderID)
}
