package postgres

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
	var id int64
	err := s.db.QueryRow(`
		INSERT INTO reminders (
			title, notes, date_time, is_completed, completed_at, dismissal_reason,
			recurrence_type, recurrence_interval, recurrence_day_of_week, recurrence_day_of_month,
			recurring_group_id, snooze_count, main_category, sub_category, is_voice_enabled
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`,
		r.Title, r.Notes, r.DateTime, r.IsCompleted, r.CompletedAt, r.DismissalReason,
		string(r.RecurrenceType), r.RecurrenceInterval, r.RecurrenceDayOfWeek, r.RecurrenceDayOfMonth,
		r.RecurringGroupID, r.SnoozeCount, r.MainCategory, r.SubCategory, r.IsVoiceEnabled,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert reminder: %w", err)
	}

	s.changes.Notify()
	return id, nil
}

func (s *Store) UpdateReminder(r models.Reminder) error {
	_, err := s.db.Exec(`
		UPDATE reminders SET
			title = $1, notes = $2, date_time = $3, is_completed = $4, completed_at = $5, dismissal_reason = $6,
			recurrence_type = $7, recurrence_interval = $8, recurrence_day_of_week = $9, recurrence_day_of_month = $10,
			recurring_group_id = $11, snooze_count = $12, main_category = $13, sub_category = $14, is_voice_enabled = $15
		WHERE id = $16`,
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
	if _, err := s.db.Exec(`DELETE FROM reminders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	s.changes.Notify()
	return nil
}

func (s *Store) GetReminder(id int64) (*models.Reminder, error) {
	row := s.db.QueryRow(`SELECT `+reminderColumns+` FROM reminders WHERE id = $1`, id)

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
		WHERE recurring_group_id = $1 AND date_time >= $2
		ORDER BY date_time ASC`, groupID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query group members: %w", err)
	}
	return collectReminders(rows)
}

func (s *Store) UpdateFutureInGroup(groupID string, since int64, title, notes, mainCategory string, subCategory *string) error {
	_, err := s.db.Exec(`
		UPDATE reminders SET title = $1, notes = $2, main_category = $3, sub_category = $4
		WHERE recurring_group_id = $5 AND date_time >= $6`,
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
		WHERE recurring_group_id = $1 AND date_time >= $2 AND id != $3`,
		groupID, since, excludingID)
	if err != nil {
		return fmt.Errorf("failed to delete group members: %w", err)
	}

	s.changes.Notify()
	return nil
}

func (s *Store) UpdateSnooze(id int64, snoozeCount int, dateTime int64) error {
	_, err := s.db.Exec(`UPDATE reminders SET snooze_count = $1, date_time = $2 WHERE id = $3`,
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
			UPDATE reminders SET is_completed = TRUE, completed_at = $1, dismissal_reason = $2 WHERE id = $3`,
			completedAt, reason, id)
	} else {
		_, err = s.db.Exec(`
			UPDATE reminders SET is_completed = FALSE, completed_at = NULL, dismissal_reason = NULL WHERE id = $1`, id)
	}
	if err != nil {
		return fmt.Errorf("failed to mark reminder completed: %w", err)
	}

	s.changes.Notify()
	return nil
}

func (s *Store) ClearCompleted() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM reminders WHERE is_completed = TRUE`)
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
		WHERE is_completed = FALSE ORDER BY date_time ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query active reminders: %w", err)
	}
	return collectReminders(rows)
}

func (s *Store) GetCompleted() ([]models.Reminder, error) {
	rows, err := s.db.Query(`
		SELECT ` + reminderColumns + ` FROM reminders
		WHERE is_completed = TRUE ORDER BY completed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed reminders: %w", err)
	}
	return collectReminders(rows)
}

func (s *Store) GetByCategory(mainCategory string) ([]models.Reminder, error) {
	rows, err := s.db.Query(`
		SELECT `+reminderColumns+` FROM reminders
		WHERE main_category = $1 ORDER BY date_time ASC`, mainCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders by category: %w", err)
	}
	return collectReminders(rows)
}
