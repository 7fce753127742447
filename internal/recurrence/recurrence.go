package recurrence

import (
	"fmt"
	"time"

	"github.com/jspargo/remind/internal/models"
)

// Next computes the due time of the occurrence following current. The base is
// always the reminder's own prior due time, never the wall clock, so a late
// completion does not shift the rest of the chain.
//
// dayOfMonth only applies to MONTHLY recurrence: when positive it is the target
// day, clamped to the actual length of the resulting month. Calling Next for a
// non-recurring type is a contract violation and returns an error.
func Next(current time.Time, typ models.RecurrenceType, interval int, dayOfMonth int) (time.Time, error) {
	if interval < 1 {
		interval = 1
	}

	switch typ {
	case models.RecurrenceHourly:
		return current.Add(time.Duration(interval) * time.Hour), nil
	case models.RecurrenceDaily:
		return current.AddDate(0, 0, interval), nil
	case models.RecurrenceWeekly:
		return current.AddDate(0, 0, 7*interval), nil
	case models.RecurrenceMonthly:
		return addMonthsClamped(current, interval, dayOfMonth), nil
	case models.RecurrenceAnnual:
		return current.AddDate(interval, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("recurrence: cannot compute next occurrence for type %q", typ)
	}
}

// addMonthsClamped advances t by the given number of months, landing on the
// target day of month clamped to the length of the destination month. The
// addition is anchored on the first of the month so that time.AddDate's
// overflow normalization (Jan 31 + 1 month = Mar 3) never kicks in.
func addMonthsClamped(t time.Time, months int, dayOfMonth int) time.Time {
	anchor := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := anchor.AddDate(0, months, 0)

	day := dayOfMonth
	if day <= 0 {
		day = t.Day()
	}
	if max := daysInMonth(target.Year(), target.Month()); day > max {
		day = max
	}

	return time.Date(target.Year(), target.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysInMonth returns the number of days in the given month. Day zero of the
// following month normalizes to the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
