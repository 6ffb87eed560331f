package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tgienger/zt/internal/models"
)

const agendaColumns = "id, text, priority, reminder_datetime, completed, reminder_shown"

// CreateAgendaTask stores a new calendar task under a generated UUID
func (db *DB) CreateAgendaTask(text string, priority models.Priority, reminder *time.Time) (*models.AgendaTask, error) {
	if !priority.Valid() {
		priority = models.PriorityNone
	}
	t := &models.AgendaTask{
		ID:       uuid.New().String(),
		Text:     text,
		Priority: priority,
		Reminder: truncate(reminder),
	}
	_, err := db.Exec(`
		INSERT INTO agenda_tasks (id, text, priority, reminder_datetime, completed, reminder_shown)
		VALUES (?, ?, ?, ?, 0, 0)
	`, t.ID, t.Text, int(t.Priority), formatDateTime(t.Reminder))
	if err != nil {
		return nil, fmt.Errorf("insert agenda task: %w", err)
	}
	return t, nil
}

// GetAgendaTask retrieves a calendar task by ID
func (db *DB) GetAgendaTask(id string) (*models.AgendaTask, error) {
	t, err := scanAgenda(db.QueryRow("SELECT "+agendaColumns+" FROM agenda_tasks WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("agenda task %s: %w", id, ErrNotFound)
	}
	return t, err
}

// ListAgendaTasks returns every calendar task
func (db *DB) ListAgendaTasks() ([]models.AgendaTask, error) {
	rows, err := db.Query("SELECT " + agendaColumns + " FROM agenda_tasks ORDER BY reminder_datetime IS NULL, reminder_datetime ASC")
	if err != nil {
		return nil, fmt.Errorf("query agenda tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.AgendaTask
	for rows.Next() {
		t, err := scanAgenda(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// UpdateAgendaTask edits text, priority and reminder.
// Changing the reminder time re-arms it.
func (db *DB) UpdateAgendaTask(id, text string, priority models.Priority, reminder *time.Time) (*models.AgendaTask, error) {
	current, err := db.GetAgendaTask(id)
	if err != nil {
		return nil, err
	}
	if !priority.Valid() {
		priority = models.PriorityNone
	}

	reminder = truncate(reminder)
	shown := current.ReminderShown
	if !sameTime(current.Reminder, reminder) {
		shown = false
	}

	_, err = db.Exec(`
		UPDATE agenda_tasks SET text = ?, priority = ?, reminder_datetime = ?, reminder_shown = ?
		WHERE id = ?
	`, text, int(priority), formatDateTime(reminder), shown, id)
	if err != nil {
		return nil, fmt.Errorf("update agenda task %s: %w", id, err)
	}

	current.Text = text
	current.Priority = priority
	current.Reminder = reminder
	current.ReminderShown = shown
	return current, nil
}

// ToggleAgendaCompleted flips the completed flag. Reopening a task whose
// reminder already fired and has elapsed re-arms the reminder.
func (db *DB) ToggleAgendaCompleted(id string, now time.Time) (*models.AgendaTask, error) {
	t, err := db.GetAgendaTask(id)
	if err != nil {
		return nil, err
	}

	t.Completed = !t.Completed
	if !t.Completed && t.ReminderShown && t.Reminder != nil && !t.Reminder.After(now) {
		t.ReminderShown = false
	}

	_, err = db.Exec("UPDATE agenda_tasks SET completed = ?, reminder_shown = ? WHERE id = ?",
		t.Completed, t.ReminderShown, id)
	if err != nil {
		return nil, fmt.Errorf("update agenda task %s: %w", id, err)
	}
	return t, nil
}

// ResetReminderShown re-arms a reminder that has already been shown
func (db *DB) ResetReminderShown(id string) error {
	result, err := db.Exec("UPDATE agenda_tasks SET reminder_shown = 0 WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectRow(result, "agenda task", id)
}

// MarkRemindersShown flags the given tasks' reminders as shown
func (db *DB) MarkRemindersShown(ids []string) (err error) {
	if len(ids) == 0 {
		return nil
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare("UPDATE agenda_tasks SET reminder_shown = 1 WHERE id = ?")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err = stmt.Exec(id); err != nil {
			return fmt.Errorf("mark reminder shown for %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// DeleteAgendaTask deletes a calendar task
func (db *DB) DeleteAgendaTask(id string) error {
	_, err := db.Exec("DELETE FROM agenda_tasks WHERE id = ?", id)
	return err
}

func scanAgenda(s scanner) (*models.AgendaTask, error) {
	var (
		t        models.AgendaTask
		priority int
		reminder sql.NullString
	)
	if err := s.Scan(&t.ID, &t.Text, &priority, &reminder, &t.Completed, &t.ReminderShown); err != nil {
		return nil, err
	}
	t.Priority = models.Priority(priority)
	if !t.Priority.Valid() {
		t.Priority = models.PriorityNone
	}

	var err error
	if t.Reminder, err = parseDateTime(reminder); err != nil {
		return nil, err
	}
	return &t, nil
}

func truncate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.Truncate(time.Second)
	return &v
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
