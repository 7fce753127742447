package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jspargo/remind/internal/models"
)

const reminderColumns = `id, title, notes, date_time, is_completed, completed_at, dismissal_reason,
	recurrence_type, recurrence_interval, recurrence_day_of_week, recurrence_day_of_month,
	recurring_group_id, snooze_count, main_category, sub_category, is_voice_enabled`

func scanReminder(row interface{ Scan(...any) error }) (models.Reminder, error) {
	var r models.Reminder
	var recType string
	var completedAt, recDayOfWeek, recDayOfMonth sql.NullInt64
	var dismissalReason, groupID, subCategory sql.NullString

	err := row.Scan(
		&r.ID, &r.Title, &r.Notes, &r.DateTime, &r.IsCompleted, &completedAt, &dismissalReason,
		&recType, &r.RecurrenceInterval, &recDayOfWeek, &recDayOfMonth,
		&groupID, &r.SnoozeCount, &r.MainCategory, &subCategory, &r.IsVoiceEnabled,
	)
	if err != nil {
		return models.Reminder{}, err
	}

	r.RecurrenceType = models.RecurrenceType(recType)
	if completedAt.Valid {
		r.CompletedAt = &completedAt.Int64
	}
	if dismissalReason.Valid {
		r.DismissalReason = &dismissalReason.String
	}
	if recDayOfWeek.Valid {
		dow := int(recDayOfWeek.Int64)
		r.RecurrenceDayOfWeek = &dow
	}
	if recDayOfMonth.Valid {
		dom := int(recDayOfMonth.Int64)
		r.RecurrenceDayOfMonth = &dom
	}
	if groupID.Valid {
		r.RecurringGroupID = &groupID.String
	}
	if subCategory.Valid {
		r.SubCategory = &subCategory.String
	}

	return r, nil
}

func collectReminders(rows *sql.Rows) ([]models.Reminder, error) {
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminders: %w", err)
	}
	return reminders, nil
}

func (s *Store) InsertReminder(r models.Reminder) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO reminders (
			title, notes, date_time, is_completed, completed_at, dismissal_reason,
			recurrence_type, recurrence_interval, recurrence_day_of_week, recurrence_day_of_month,
			recurring_group_id, snooze_count, main_category, sub_category, is_voice_enabled
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Title, r.Notes, r.DateTime, r.IsCompleted, r.CompletedAt, r.DismissalReason,
		string(r.RecurrenceType), r.RecurrenceInterval, r.RecurrenceDayOfWeek, r.RecurrenceDayOfMonth,
		r.RecurringGroupID, r.SnoozeCount, r.MainCategory, r.SubCategory, r.IsVoiceEnabled,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert reminder: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted reminder id: %w", err)
	}

	s.changes.Notify()
	return id, nil
}

func (s *Store) UpdateReminder(r models.Reminder) error {
	_, err := s.db.Exec(`
		UPDATE reminders SET
			title = ?, notes = ?, date_time = ?, is_completed = ?, completed_at = ?, dismissal_reason = ?,
			recurrence_type = ?, recurrence_interval = ?, recurrence_day_of_week = ?, recurrence_day_of_month = ?,
			recurring_group_id = ?, snooze_count = ?, main_category = ?, sub_category = ?, is_voice_enabled = ?
		WHERE id = ?`,
		r.Title, r.Notes, r.DateTime, r.IsCompleted, r.CompletedAt, r.DismissalReason,
		string(r.RecurrenceType), r.RecurrenceInterval, r.RecurrenceDayOfWeek, r.RecurrenceDayOfMonth,
		r.RecurringGroupID, r.SnoozeCount, r.MainCategory, r.SubCategory, r.IsVoiceEnabled,
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}

	s.changes.Notify()
	return nil
}

func (s *Store) DeleteReminder(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM reminders WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	s.changes.Notify()
	return nil
}

func (s *Store) GetReminder(id int64) (*models.Reminder, error) {
	row := s.db.QueryRow(`SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)

	r, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return &r, nil
}

func (s *Store) GetFutureInGroup(groupID string, since int64) ([]models.Reminder, error) {
	rows, err := s.db.Query(`
		SELECT `+reminderColumns+` FROM reminders
		WHERE recurring_group_id = ? AND date_time >= ?
		ORDER BY date_time ASC`, groupID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query group members: %w", err)
	}
	return collectReminders(rows)
}

func (s *Store) UpdateFutureInGroup(groupID string, since int64, title, notes, mainCategory string, subCategory *string) error {
	_, err := s.db.Exec(`
		UPDATE reminders SET title = ?, notes = ?, main_category = ?, sub_category = ?
		WHERE recurring_group_id = ? AND date_time >= ?`,
		title, notes, mainCategory, subCategory, groupID, since)
	if err != nil {
		return fmt.Errorf("failed to update group members: %w", err)
	}

	s.changes.Notify()
	return nil
}

func (s *Store) DeleteFutureInGroup(groupID string, since int64, excludingID int64) error {
	_, err := s.db.Exec(`
		DELETE FROM reminders
		WHERE recurring_group_id = ? AND date_time >= ? AND id != ?`,
		groupID, since, excludingID)
	if err != nil {
		return fmt.Errorf("failed to delete group members: %w", err)
	}

	s.changes.Notify()
	return nil
}

func (s *Store) UpdateSnooze(id int64, snoozeCount int, dateTime int64) error {
	_, err := s.db.Exec(`UPDATE reminders SET snooze_count = ?, date_time = ? WHERE id = ?`,
		snoozeCount, dateTime, id)
	if err != nil {
		return fmt.Errorf("failed to update snooze state: %w", err)
	}

	s.changes.Notify()
	return nil
}

func (s *Store) MarkCompleted(id int64, completed bool, completedAt int64, reason *string) error {
	var err error
	if completed {
		_, err = s.db.Exec(`
			UPDATE reminders SET is_completed = 1, completed_at = ?, dismissal_reason = ? WHERE id = ?`,
			completedAt, reason, id)
	} else {
		_, err = s.db.Exec(`
			UPDATE reminders SET is_completed = 0, completed_at = NULL, dismissal_reason = NULL WHERE id = ?`, id)
	}
	if err != nil {
		return fmt.Errorf("failed to mark reminder completed: %w", err)
	}

	s.changes.Notify()
	return nil
}

func (s *Store) ClearCompleted() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM reminders WHERE is_completed = 1`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear completed reminders: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	s.changes.Notify()
	return n, nil
}

func (s *Store) GetActive() ([]models.Reminder, error) {
	rows, err := s.db.Query(`
		SELECT ` + reminderColumns + ` FROM reminders
		WHERE is_completed = 0 ORDER BY date_time ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query active reminders: %w", err)
	}
	return collectReminders(rows)
}

func (s *Store) GetCompleted() ([]models.Reminder, error) {
	rows, err := s.db.Query(`
		SELECT ` + reminderColumns + ` FROM reminders
		WHERE is_completed = 1 ORDER BY completed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed reminders: %w", err)
	}
	return collectReminders(rows)
}

func (s *Store) GetByCategory(mainCategory string) ([]models.Reminder, error) {
	rows, err := s.db.Query(`
		SELECT `+reminderColumns+` FROM reminders
		WHERE main_category = ? ORDER BY date_time ASC`, mainCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders by category: %w", err)
	}
	return collectReminders(rows)
}
