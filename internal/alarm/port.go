// Package alarm manages wall-clock trigger registrations for active
// reminders. The lifecycle engine talks to the Port interface only; the
// default implementation persists registrations alongside the reminders and a
// dispatcher loop fires them.
package alarm

import "time"

// Port schedules and cancels wall-clock triggers keyed by reminder id. Both
// operations are idempotent: scheduling over an existing registration replaces
// it, cancelling a missing one is a no-op.
type Port interface {
	Schedule(reminderID int64, due time.Time) error
	Cancel(reminderID int64) error
}
