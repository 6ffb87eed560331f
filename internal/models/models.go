package models

import (
	"strings"
	"time"
)

// Date and time layouts used for the ISO-8601 text columns
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05"
)

// Task is a planner task
type Task struct {
	ID          int64
	Title       string
	Details     string
	Tags        string     // cleaned, comma-joined
	DueDate     *time.Time // date only, nil if unset
	IsCompleted bool
	IsImportant bool
	CreatedAt   time.Time
	Reminders   []Reminder // populated when loading task details
}

// TagList splits the stored tag string into its segments
func (t Task) TagList() []string {
	if t.Tags == "" {
		return nil
	}
	return strings.Split(t.Tags, ",")
}

// HasTag reports whether the task carries the tag exactly
func (t Task) HasTag(tag string) bool {
	for _, s := range t.TagList() {
		if s == tag {
			return true
		}
	}
	return false
}

// Reminder is a single scheduled notification owned by a planner task
type Reminder struct {
	ID     int64
	TaskID int64
	At     time.Time
}

// DueReminder is a reminder joined with its task title
type DueReminder struct {
	ReminderID int64
	TaskID     int64
	Title      string
	At         time.Time
}

// Priority of an agenda task. Lower values are more urgent.
type Priority int

const (
	PriorityHigh Priority = iota + 1
	PriorityMedium
	PriorityLow
	PriorityNone
)

// Priorities lists all priorities from most to least urgent
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow, PriorityNone}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return "None"
	}
}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	return p >= PriorityHigh && p <= PriorityNone
}

// AgendaTask is a calendar task with a single optional reminder
type AgendaTask struct {
	ID            string // UUID
	Text          string
	Priority      Priority
	Reminder      *time.Time
	Completed     bool
	ReminderShown bool
}

// Day returns the calendar day of the reminder, or the zero time
func (t AgendaTask) Day() time.Time {
	if t.Reminder == nil {
		return time.Time{}
	}
	y, m, d := t.Reminder.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Reminder.Location())
}
