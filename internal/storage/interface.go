package storage

import (
	"context"

	"github.com/jspargo/remind/internal/models"
)

// ReminderStore is the persistence contract the lifecycle engine depends on.
// Lookups addressed by id return (nil, nil) when no record exists; "already
// deleted elsewhere" is not an error.
type ReminderStore interface {
	InsertReminder(models.Reminder) (int64, error)
	UpdateReminder(models.Reminder) error
	DeleteReminder(id int64) error
	GetReminder(id int64) (*models.Reminder, error)

	// Group-scoped operations. "Future" members are those with date_time >= since.
	GetFutureInGroup(groupID string, since int64) ([]models.Reminder, error)
	UpdateFutureInGroup(groupID string, since int64, title, notes, mainCategory string, subCategory *string) error
	DeleteFutureInGroup(groupID string, since int64, excludingID int64) error

	UpdateSnooze(id int64, snoozeCount int, dateTime int64) error
	MarkCompleted(id int64, completed bool, completedAt int64, reason *string) error
	ClearCompleted() (int64, error)

	GetActive() ([]models.Reminder, error)
	GetCompleted() ([]models.Reminder, error)
	GetByCategory(mainCategory string) ([]models.Reminder, error)
}

// CategoryStore is the persistence contract for reminder categories.
type CategoryStore interface {
	InsertCategory(models.Category) (int64, error)
	UpdateCategory(models.Category) error
	DeleteCategory(id int64) error
	GetCategory(id int64) (*models.Category, error)
	GetCategoryByName(name string) (*models.Category, error)
	GetMainCategories() ([]models.Category, error)
	GetSubcategories(parentID int64) ([]models.Category, error)
	GetAllCategories() ([]models.Category, error)
}

// AlarmStore persists outstanding alarm registrations, one per reminder id.
type AlarmStore interface {
	UpsertAlarm(reminderID int64, dueAt int64) error
	DeleteAlarm(reminderID int64) error
	GetDueAlarms(now int64) ([]models.Alarm, error)
	GetAllAlarms() ([]models.Alarm, error)
}

// Watcher exposes reactive read streams: each channel emits the current query
// result at subscribe time and re-emits it after every store mutation. The
// streams exist for presentation; the engine never consumes them.
type Watcher interface {
	WatchActive(ctx context.Context) <-chan []models.Reminder
	WatchCompleted(ctx context.Context) <-chan []models.Reminder
}

// Provider is a full storage backend.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	ReminderStore
	CategoryStore
	AlarmStore
	Watcher

	// Utils
	GetConfigPath() string
}
