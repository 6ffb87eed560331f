package reminder

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tgienger/zt/internal/models"
)

// Kind tells the two reminder timers apart
type Kind int

const (
	Planner Kind = iota
	Agenda
)

func (k Kind) String() string {
	if k == Agenda {
		return "agenda"
	}
	return "planner"
}

// TickMsg is delivered to the UI loop once per interval
type TickMsg struct {
	Kind Kind
	Time time.Time
}

// Tick schedules the next check. The UI re-issues it after handling each
// TickMsg, so the timer stops with the program.
func Tick(kind Kind, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Kind: kind, Time: t}
	})
}

// Store is the part of the database the planner checker needs
type Store interface {
	DueReminders(now time.Time) ([]models.DueReminder, error)
	DeleteReminder(id int64) error
}

// Checker surfaces planner reminders. A reminder is deleted as soon as it
// has been returned, so each one is shown exactly once.
type Checker struct {
	store Store
	log   *zap.SugaredLogger
}

func NewChecker(store Store, log *zap.SugaredLogger) *Checker {
	return &Checker{store: store, log: log}
}

// Due returns the reminders at or before now and removes them from the store.
// Reminders that could not be deleted are still returned; the failure is logged.
func (c *Checker) Due(now time.Time) ([]models.DueReminder, error) {
	due, err := c.store.DueReminders(now)
	if err != nil {
		return nil, fmt.Errorf("check reminders: %w", err)
	}

	for _, r := range due {
		if err := c.store.DeleteReminder(r.ReminderID); err != nil {
			c.log.Errorw("delete shown reminder", "reminder_id", r.ReminderID, "task_id", r.TaskID, "error", err)
		}
	}
	if len(due) > 0 {
		c.log.Infow("planner reminders due", "count", len(due))
	}
	return due, nil
}

// DueAgenda scans tasks for reminders that have elapsed, are not completed
// and were not shown yet. Matching tasks are flagged shown in place; the
// caller persists the flag with MarkRemindersShown.
func DueAgenda(tasks []models.AgendaTask, now time.Time) []models.AgendaTask {
	var due []models.AgendaTask
	for i := range tasks {
		t := &tasks[i]
		if t.Reminder == nil || t.Completed || t.ReminderShown || t.Reminder.After(now) {
			continue
		}
		t.ReminderShown = true
		due = append(due, *t)
	}
	return due
}

// IDs returns the ids of the given agenda tasks
func IDs(tasks []models.AgendaTask) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

// PlannerMessage is the alert text for a due planner reminder
func PlannerMessage(r models.DueReminder) string {
	return fmt.Sprintf("%s\n\nscheduled for %s", r.Title, r.At.Format("2006-01-02 15:04"))
}

// AgendaMessage is the alert text for a due agenda reminder
func AgendaMessage(t models.AgendaTask) string {
	msg := t.Text
	if t.Priority != models.PriorityNone {
		msg = fmt.Sprintf("%s\n\npriority: %s", msg, t.Priority)
	}
	return msg
}
