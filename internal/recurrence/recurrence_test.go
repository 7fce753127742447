package recurrence

import (
	"testing"
	"time"

	"github.com/jspargo/remind/internal/models"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("failed to parse time %q: %v", value, err)
	}
	return parsed
}

func TestNext_FixedShifts(t *testing.T) {
	tests := []struct {
		name     string
		typ      models.RecurrenceType
		interval int
		current  string
		want     string
	}{
		{"hourly", models.RecurrenceHourly, 1, "2026-03-15 09:30", "2026-03-15 10:30"},
		{"hourly interval 6", models.RecurrenceHourly, 6, "2026-03-15 22:00", "2026-03-16 04:00"},
		{"daily", models.RecurrenceDaily, 1, "2026-03-15 09:30", "2026-03-16 09:30"},
		{"daily interval 3 across month boundary", models.RecurrenceDaily, 3, "2026-01-30 08:00", "2026-02-02 08:00"},
		{"weekly", models.RecurrenceWeekly, 1, "2026-03-15 09:30", "2026-03-22 09:30"},
		{"weekly interval 2 across year boundary", models.RecurrenceWeekly, 2, "2026-12-25 18:00", "2027-01-08 18:00"},
		{"annual", models.RecurrenceAnnual, 1, "2026-07-04 12:00", "2027-07-04 12:00"},
		{"annual interval 5", models.RecurrenceAnnual, 5, "2026-07-04 12:00", "2031-07-04 12:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(mustTime(t, tt.current), tt.typ, tt.interval, 0)
			if err != nil {
				t.Fatalf("Next returned error: %v", err)
			}
			if want := mustTime(t, tt.want); !got.Equal(want) {
				t.Errorf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestNext_MonthlyClamping(t *testing.T) {
	tests := []struct {
		name       string
		current    string
		interval   int
		dayOfMonth int
		want       string
	}{
		{"31st into 28-day February", "2026-01-31 09:00", 1, 31, "2026-02-28 09:00"},
		{"31st into 29-day February", "2028-01-31 09:00", 1, 31, "2028-02-29 09:00"},
		{"31st into 30-day April", "2026-03-31 09:00", 1, 31, "2026-04-30 09:00"},
		{"clamped month recovers target day", "2026-02-28 09:00", 1, 31, "2026-03-31 09:00"},
		{"target 30 into February", "2026-01-30 09:00", 1, 30, "2026-02-28 09:00"},
		{"no clamping needed", "2026-01-15 09:00", 1, 15, "2026-02-15 09:00"},
		{"interval 2 skips short month", "2026-01-31 09:00", 2, 31, "2026-03-31 09:00"},
		{"interval 12 wraps a year", "2026-05-31 09:00", 12, 31, "2027-05-31 09:00"},
		{"no target day falls back to current day", "2026-01-15 09:00", 1, 0, "2026-02-15 09:00"},
		{"no target day still clamps", "2026-01-31 09:00", 1, 0, "2026-02-28 09:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(mustTime(t, tt.current), models.RecurrenceMonthly, tt.interval, tt.dayOfMonth)
			if err != nil {
				t.Fatalf("Next returned error: %v", err)
			}
			if want := mustTime(t, tt.want); !got.Equal(want) {
				t.Errorf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestNext_PreservesTimeOfDay(t *testing.T) {
	current := mustTime(t, "2026-01-31 23:45")
	got, err := Next(current, models.RecurrenceMonthly, 1, 31)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if got.Hour() != 23 || got.Minute() != 45 {
		t.Errorf("expected time of day 23:45 to be preserved, got %02d:%02d", got.Hour(), got.Minute())
	}
}

func TestNext_InvalidIntervalDefaultsToOne(t *testing.T) {
	current := mustTime(t, "2026-03-15 09:00")
	got, err := Next(current, models.RecurrenceDaily, 0, 0)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if want := mustTime(t, "2026-03-16 09:00"); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestNext_NonRecurringTypes(t *testing.T) {
	current := mustTime(t, "2026-03-15 09:00")

	if _, err := Next(current, models.RecurrenceOneTime, 1, 0); err == nil {
		t.Error("expected error for ONE_TIME recurrence, got nil")
	}
	if _, err := Next(current, models.RecurrenceType("BOGUS"), 1, 0); err == nil {
		t.Error("expected error for unknown recurrence type, got nil")
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2026, time.January, 31},
		{2026, time.February, 28},
		{2028, time.February, 29},
		{2100, time.February, 28}, // century non-leap year
		{2000, time.February, 29}, // 400-year leap year
		{2026, time.April, 30},
		{2026, time.December, 31},
	}

	for _, tt := range tests {
		if got := daysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("daysInMonth(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}
