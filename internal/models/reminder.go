package models

import (
	"fmt"
	"strings"
	"time"
)

type RecurrenceType string

const (
	RecurrenceOneTime RecurrenceType = "ONE_TIME"
	RecurrenceHourly  RecurrenceType = "HOURLY"
	RecurrenceDaily   RecurrenceType = "DAILY"
	RecurrenceWeekly  RecurrenceType = "WEEKLY"
	RecurrenceMonthly RecurrenceType = "MONTHLY"
	RecurrenceAnnual  RecurrenceType = "ANNUAL"
)

// IsRecurring reports whether reminders of this type spawn follow-up occurrences.
func (t RecurrenceType) IsRecurring() bool {
	switch t {
	case RecurrenceHourly, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceAnnual:
		return true
	}
	return false
}

// ParseRecurrenceType converts user input like "daily" into a RecurrenceType.
func ParseRecurrenceType(s string) (RecurrenceType, error) {
	switch t := RecurrenceType(strings.ToUpper(strings.TrimSpace(s))); t {
	case RecurrenceOneTime, RecurrenceHourly, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceAnnual:
		return t, nil
	default:
		return "", fmt.Errorf("invalid recurrence type: %s (must be one_time, hourly, daily, weekly, monthly, or annual)", s)
	}
}

// Reminder is a single scheduled occurrence. Recurring reminders are represented
// as a chain of Reminder rows sharing one RecurringGroupID; completing the live
// instance spawns the next one.
type Reminder struct {
	ID                   int64          `json:"id"`
	Title                string         `json:"title"`
	Notes                string         `json:"notes,omitempty"`
	DateTime             int64          `json:"date_time"` // epoch millis of the due time
	IsCompleted          bool           `json:"is_completed"`
	CompletedAt          *int64         `json:"completed_at,omitempty"`
	DismissalReason      *string        `json:"dismissal_reason,omitempty"`
	RecurrenceType       RecurrenceType `json:"recurrence_type"`
	RecurrenceInterval   int            `json:"recurrence_interval"`
	RecurrenceDayOfWeek  *int           `json:"recurrence_day_of_week,omitempty"` // informational only
	RecurrenceDayOfMonth *int           `json:"recurrence_day_of_month,omitempty"`
	RecurringGroupID     *string        `json:"recurring_group_id,omitempty"`
	SnoozeCount          int            `json:"snooze_count"`
	MainCategory         string         `json:"main_category"`
	SubCategory          *string        `json:"sub_category,omitempty"`
	IsVoiceEnabled       bool           `json:"is_voice_enabled"`
}

func (r *Reminder) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("reminder title cannot be empty")
	}

	if r.DateTime <= 0 {
		return fmt.Errorf("reminder due time must be set")
	}

	if r.RecurrenceType != "" {
		if _, err := ParseRecurrenceType(string(r.RecurrenceType)); err != nil {
			return err
		}
	}

	if r.RecurrenceType.IsRecurring() && r.RecurrenceInterval < 1 {
		return fmt.Errorf("recurrence interval must be at least 1")
	}

	if r.RecurrenceDayOfMonth != nil {
		if d := *r.RecurrenceDayOfMonth; d < 1 || d > 31 {
			return fmt.Errorf("recurrence day of month must be between 1 and 31")
		}
	}

	return nil
}

// IsRecurring reports whether this reminder belongs to a recurring group.
func (r *Reminder) IsRecurring() bool {
	return r.RecurrenceType.IsRecurring() && r.RecurringGroupID != nil
}

// DueTime returns the due time as a time.Time in the local timezone.
func (r *Reminder) DueTime() time.Time {
	return time.UnixMilli(r.DateTime)
}

// FormatRecurrence returns a human-readable description of the recurrence rule.
func (r *Reminder) FormatRecurrence() string {
	if !r.RecurrenceType.IsRecurring() {
		return "once"
	}

	unit := map[RecurrenceType]string{
		RecurrenceHourly:  "hour",
		RecurrenceDaily:   "day",
		RecurrenceWeekly:  "week",
		RecurrenceMonthly: "month",
		RecurrenceAnnual:  "year",
	}[r.RecurrenceType]

	if r.RecurrenceInterval <= 1 {
		return fmt.Sprintf("every %s", unit)
	}
	return fmt.Sprintf("every %d %ss", r.RecurrenceInterval, unit)
}
