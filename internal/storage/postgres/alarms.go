package postgres

import (
	"database/sql"
	"fmt"

	"github.com/jspargo/remind/internal/models"
)

func (s *Store) UpsertAlarm(reminderID int64, dueAt int64) error {
	_, err := s.db.Exec(`
		INSERT INTO alarms (reminder_id, due_at) VALUES ($1, $2)
		ON CONFLICT (reminder_id) DO UPDATE SET due_at = EXCLUDED.due_at`,
		reminderID, dueAt)
	if err != nil {
		return fmt.Errorf("failed to upsert alarm: %w", err)
	}
	return nil
}

func (s *Store) DeleteAlarm(reminderID int64) error {
	// Cancelling a registration that does not exist is a no-op.
	if _, err := s.db.Exec(`DELETE FROM alarms WHERE reminder_id = $1`, reminderID); err != nil {
		return fmt.Errorf("failed to delete alarm: %w", err)
	}
	return nil
}

func (s *Store) GetDueAlarms(now int64) ([]models.Alarm, error) {
	rows, err := s.db.Query(`SELECT reminder_id, due_at FROM alarms WHERE due_at <= $1 ORDER BY due_at ASC`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due alarms: %w", err)
	}
	return collectAlarms(rows)
}

func (s *Store) GetAllAlarms() ([]models.Alarm, error) {
	rows, err := s.db.Query(`SELECT reminder_id, due_at FROM alarms ORDER BY due_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query alarms: %w", err)
	}
	return collectAlarms(rows)
}

func collectAlarms(rows *sql.Rows) ([]models.Alarm, error) {
	defer rows.Close()

	var alarms []models.Alarm
	for rows.Next() {
		var a models.Alarm
		if err := rows.Scan(&a.ReminderID, &a.DueAt); err != nil {
			return nil, fmt.Errorf("failed to scan alarm: %w", err)
		}
		alarms = append(alarms, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alarms: %w", err)
	}
	return alarms, nil
}
