package models

import "time"

// Alarm is an outstanding wall-clock trigger registration. At most one exists
// per active reminder, keyed by the reminder id.
type Alarm struct {
	ReminderID int64 `json:"reminder_id"`
	DueAt      int64 `json:"due_at"` // epoch millis
}

// Due reports whether the registration has reached its trigger time.
func (a Alarm) Due(now time.Time) bool {
	return a.DueAt <= now.UnixMilli()
}
