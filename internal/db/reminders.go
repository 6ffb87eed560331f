package db

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/tgienger/zt/internal/models"
)

// AddReminder schedules a reminder for a task
func (db *DB) AddReminder(taskID int64, at time.Time) (*models.Reminder, error) {
	result, err := db.Exec(`
		INSERT INTO reminders (task_id, reminder_datetime) VALUES (?, ?)
	`, taskID, at.Local().Format(models.DateTimeLayout))
	if err != nil {
		return nil, fmt.Errorf("insert reminder for task %d: %w", taskID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Reminder{ID: id, TaskID: taskID, At: at.Truncate(time.Second)}, nil
}

// ListReminders returns a task's reminders, earliest first
func (db *DB) ListReminders(taskID int64) ([]models.Reminder, error) {
	rows, err := db.Query(`
		SELECT id, task_id, reminder_datetime
		FROM reminders
		WHERE task_id = ?
		ORDER BY reminder_datetime ASC
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		var (
			r  models.Reminder
			at sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.TaskID, &at); err != nil {
			return nil, err
		}
		t, err := parseDateTime(at)
		if err != nil {
			return nil, err
		}
		if t != nil {
			r.At = *t
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// DeleteReminder deletes one reminder
func (db *DB) DeleteReminder(id int64) error {
	_, err := db.Exec("DELETE FROM reminders WHERE id = ?", id)
	return err
}

// ReplaceReminders swaps all reminders of a task for the given times.
// Duplicate times are stored once.
func (db *DB) ReplaceReminders(taskID int64, times []time.Time) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = replaceReminders(tx, taskID, times); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceReminders(tx *sql.Tx, taskID int64, times []time.Time) error {
	if _, err := tx.Exec("DELETE FROM reminders WHERE task_id = ?", taskID); err != nil {
		return fmt.Errorf("clear reminders for task %d: %w", taskID, err)
	}

	seen := make(map[string]bool)
	var stamps []string
	for _, t := range times {
		s := t.Local().Format(models.DateTimeLayout)
		if !seen[s] {
			seen[s] = true
			stamps = append(stamps, s)
		}
	}
	sort.Strings(stamps)

	for _, s := range stamps {
		if _, err := tx.Exec("INSERT INTO reminders (task_id, reminder_datetime) VALUES (?, ?)", taskID, s); err != nil {
			return fmt.Errorf("insert reminder for task %d: %w", taskID, err)
		}
	}
	return nil
}

// DueReminders returns reminders at or before now whose task is not completed
func (db *DB) DueReminders(now time.Time) ([]models.DueReminder, error) {
	rows, err := db.Query(`
		SELECT r.id, r.reminder_datetime, t.id, t.title
		FROM reminders r
		JOIN tasks t ON r.task_id = t.id
		WHERE r.reminder_datetime <= ? AND t.is_completed = 0
		ORDER BY r.reminder_datetime ASC
	`, now.Local().Format(models.DateTimeLayout))
	if err != nil {
		return nil, fmt.Errorf("query due reminders: %w", err)
	}
	defer rows.Close()

	var due []models.DueReminder
	for rows.Next() {
		var (
			d  models.DueReminder
			at sql.NullString
		)
		if err := rows.Scan(&d.ReminderID, &at, &d.TaskID, &d.Title); err != nil {
			return nil, err
		}
		t, err := parseDateTime(at)
		if err != nil {
			return nil, err
		}
		if t != nil {
			d.At = *t
		}
		due = append(due, d)
	}
	return due, rows.Err()
}
