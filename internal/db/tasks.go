package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tgienger/zt/internal/models"
)

// TaskInput holds the editable fields of a planner task
type TaskInput struct {
	Title       string
	Details     string
	Tags        string
	DueDate     *time.Time
	IsImportant bool
}

// FilterKind selects which planner tasks ListTasks returns
type FilterKind string

const (
	FilterAll       FilterKind = "all"
	FilterImportant FilterKind = "important"
	FilterCompleted FilterKind = "completed"
	FilterTag       FilterKind = "tag"
	FilterDate      FilterKind = "date"
	FilterDateRange FilterKind = "date_range"
)

// Filter describes a planner task query
type Filter struct {
	Kind  FilterKind
	Tag   string    // FilterTag
	Date  time.Time // FilterDate
	Start time.Time // FilterDateRange
	End   time.Time // FilterDateRange
}

const taskColumns = "id, title, details, tags, due_date, is_completed, is_important, created_at"

// CreateTask creates a new planner task
func (db *DB) CreateTask(in TaskInput) (*models.Task, error) {
	result, err := db.Exec(`
		INSERT INTO tasks (title, details, tags, due_date, is_important, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, in.Title, in.Details, CleanTags(in.Tags), formatDate(in.DueDate), in.IsImportant,
		db.now().Format(createdLayout))
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetTask(id)
}

// GetTask retrieves a task by ID with its reminders
func (db *DB) GetTask(id int64) (*models.Task, error) {
	t, err := scanTask(db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	reminders, err := db.ListReminders(id)
	if err != nil {
		return nil, err
	}
	t.Reminders = reminders

	return t, nil
}

// ListTasks returns tasks matching the filter.
// Every filter except completed, date_range and all hides completed tasks.
func (db *DB) ListTasks(f Filter) ([]models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks"
	var conditions []string
	var args []any

	switch f.Kind {
	case FilterImportant:
		conditions = append(conditions, "is_important = 1")
	case FilterCompleted:
		conditions = append(conditions, "is_completed = 1")
	case FilterTag:
		// whole-segment, case-sensitive match against the cleaned tag string
		conditions = append(conditions, "instr(',' || tags || ',', ',' || ? || ',') > 0")
		args = append(args, f.Tag)
	case FilterDate:
		conditions = append(conditions, "due_date = ?")
		args = append(args, f.Date.Format(models.DateLayout))
	case FilterDateRange:
		conditions = append(conditions, "due_date BETWEEN ? AND ?")
		args = append(args, f.Start.Format(models.DateLayout), f.End.Format(models.DateLayout))
	case FilterAll, "":
	default:
		return nil, fmt.Errorf("unknown filter %q", f.Kind)
	}

	switch f.Kind {
	case FilterCompleted, FilterDateRange, FilterAll, "":
	default:
		conditions = append(conditions, "is_completed = 0")
	}

	for i, c := range conditions {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}

	switch f.Kind {
	case FilterCompleted:
		query += " ORDER BY created_at DESC"
	case FilterDateRange:
		query += " ORDER BY due_date ASC, created_at DESC"
	default:
		query += " ORDER BY is_important DESC, due_date ASC, created_at DESC"
	}

	return db.queryTasks(query, args...)
}

// SearchTasks finds uncompleted tasks whose title, details or tags contain q
func (db *DB) SearchTasks(q string) ([]models.Task, error) {
	pattern := "%" + q + "%"
	return db.queryTasks(`
		SELECT `+taskColumns+` FROM tasks
		WHERE (title LIKE ? OR details LIKE ? OR tags LIKE ?) AND is_completed = 0
		ORDER BY is_important DESC, due_date ASC, created_at DESC
	`, pattern, pattern, pattern)
}

// UpdateTask replaces all editable fields of a task
func (db *DB) UpdateTask(id int64, in TaskInput) error {
	result, err := db.Exec(`
		UPDATE tasks SET title = ?, details = ?, tags = ?, due_date = ?, is_important = ?
		WHERE id = ?
	`, in.Title, in.Details, CleanTags(in.Tags), formatDate(in.DueDate), in.IsImportant, id)
	if err != nil {
		return fmt.Errorf("update task %d: %w", id, err)
	}
	return expectRow(result, "task", id)
}

// UpdateTaskWithReminders saves the fields and the reminder list of a
// task in one transaction
func (db *DB) UpdateTaskWithReminders(id int64, in TaskInput, times []time.Time) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	result, err := tx.Exec(`
		UPDATE tasks SET title = ?, details = ?, tags = ?, due_date = ?, is_important = ?
		WHERE id = ?
	`, in.Title, in.Details, CleanTags(in.Tags), formatDate(in.DueDate), in.IsImportant, id)
	if err != nil {
		return fmt.Errorf("update task %d: %w", id, err)
	}
	if err = expectRow(result, "task", id); err != nil {
		return err
	}
	if err = replaceReminders(tx, id, times); err != nil {
		return err
	}
	return tx.Commit()
}

// SetTaskCompleted updates the completion flag
func (db *DB) SetTaskCompleted(id int64, completed bool) error {
	result, err := db.Exec("UPDATE tasks SET is_completed = ? WHERE id = ?", completed, id)
	if err != nil {
		return fmt.Errorf("update task %d status: %w", id, err)
	}
	return expectRow(result, "task", id)
}

// SetTaskImportant updates the importance flag
func (db *DB) SetTaskImportant(id int64, important bool) error {
	result, err := db.Exec("UPDATE tasks SET is_important = ? WHERE id = ?", important, id)
	if err != nil {
		return fmt.Errorf("update task %d importance: %w", id, err)
	}
	return expectRow(result, "task", id)
}

// DeleteTask deletes a task; its reminders go with it
func (db *DB) DeleteTask(id int64) error {
	_, err := db.Exec("DELETE FROM tasks WHERE id = ?", id)
	return err
}

func (db *DB) queryTasks(query string, args ...any) ([]models.Task, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.Task, error) {
	var (
		t       models.Task
		due     sql.NullString
		created string
	)
	if err := s.Scan(&t.ID, &t.Title, &t.Details, &t.Tags, &due, &t.IsCompleted, &t.IsImportant, &created); err != nil {
		return nil, err
	}

	var err error
	if t.DueDate, err = parseDate(due); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = time.ParseInLocation(createdLayout, created, time.Local); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	return &t, nil
}

func expectRow(result sql.Result, what string, id any) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %v: %w", what, id, ErrNotFound)
	}
	return nil
}
