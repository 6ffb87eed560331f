package db

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/tgienger/zt/internal/models"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when a row does not exist
var ErrNotFound = errors.New("not found")

// createdLayout keeps sub-second precision so created_at sorts stably as text
const createdLayout = "2006-01-02T15:04:05.000000"

// DB wraps the database connection
type DB struct {
	*sql.DB

	// now is the clock used for created_at; replaced in tests
	now func() time.Time
}

// New opens (creating if needed) the database at path and initializes the schema
func New(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// a single connection keeps the foreign_keys pragma and serializes writes
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &DB{DB: conn, now: time.Now}, nil
}

// DefaultPath returns the database path under the XDG data directory
func DefaultPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "zt.db"), nil
}

// DataDir returns the application data directory
func DataDir() (string, error) {
	// Use XDG data directory or fallback to home directory
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "zt"), nil
}

// Seed adds a welcome task when the planner is empty
func (db *DB) Seed() error {
	var count int
	if err := db.QueryRow("SELECT COUNT(id) FROM tasks").Scan(&count); err != nil {
		return fmt.Errorf("count tasks: %w", err)
	}
	if count > 0 {
		return nil
	}
	_, err := db.CreateTask(TaskInput{
		Title:       "Say hello to zt!",
		Details:     "This is the first task in your planner. Press e to edit it or add reminders.",
		Tags:        "Start, zt",
		IsImportant: true,
	})
	return err
}

// GetSetting retrieves a setting value by key
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSetting sets a setting value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(models.DateLayout)
}

func parseDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(models.DateLayout, s.String, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", s.String, err)
	}
	return &t, nil
}

func formatDateTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Local().Format(models.DateTimeLayout)
}

func parseDateTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(models.DateTimeLayout, s.String, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parse datetime %q: %w", s.String, err)
	}
	return &t, nil
}
