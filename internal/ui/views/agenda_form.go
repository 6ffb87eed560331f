package views

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/zt/internal/models"
	"github.com/tgienger/zt/internal/ui/keys"
	"github.com/tgienger/zt/internal/ui/styles"
)

const (
	agendaText = iota
	agendaPriority
	agendaReminderOn
	agendaReminderAt
	agendaSave
)

var errEmptyText = errors.New("the task needs a description")

// agendaForm edits one calendar task
type agendaForm struct {
	active   bool
	original *models.AgendaTask // nil while creating

	text       textinput.Model
	at         textinput.Model
	priority   models.Priority
	reminderOn bool
	focus      int
}

// agendaInput is a validated form
type agendaInput struct {
	text     string
	priority models.Priority
	reminder *time.Time
}

func newAgendaForm() agendaForm {
	text := textinput.New()
	text.Placeholder = "What needs doing?"
	text.CharLimit = 500

	at := textinput.New()
	at.Placeholder = "YYYY-MM-DD HH:MM"
	at.CharLimit = 16

	return agendaForm{text: text, at: at, priority: models.PriorityNone}
}

// openNew starts a task. With a day the reminder is preset to 09:00 that
// day and switched on; otherwise it is an hour from now and off.
func (f *agendaForm) openNew(now time.Time, day *time.Time) {
	f.active = true
	f.original = nil
	f.text.Reset()
	f.priority = models.PriorityNone
	f.reminderOn = false
	f.at.SetValue(now.Add(time.Hour).Format(InputDateTime))
	if day != nil {
		f.reminderOn = true
		f.at.SetValue(startOfDay(*day).Add(9 * time.Hour).Format(InputDateTime))
	}
	f.focus = agendaText
	f.updateFocus()
}

func (f *agendaForm) openEdit(task models.AgendaTask, now time.Time) {
	f.openNew(now, nil)
	f.original = &task
	f.text.SetValue(task.Text)
	f.priority = task.Priority
	if task.Reminder != nil {
		f.reminderOn = true
		f.at.SetValue(task.Reminder.Format(InputDateTime))
	}
}

func (f *agendaForm) close() {
	f.active = false
	f.updateFocus()
}

func (f *agendaForm) updateFocus() {
	f.text.Blur()
	f.at.Blur()
	if !f.active {
		return
	}
	switch f.focus {
	case agendaText:
		f.text.Focus()
	case agendaReminderAt:
		f.at.Focus()
	}
}

func (f *agendaForm) move(dir int) {
	f.focus = (f.focus + dir + agendaSave + 1) % (agendaSave + 1)
	// the time field is skipped while the reminder is off
	if f.focus == agendaReminderAt && !f.reminderOn {
		f.focus = (f.focus + dir + agendaSave + 1) % (agendaSave + 1)
	}
	f.updateFocus()
}

// cyclePriority steps High → Medium → Low → None → High
func cyclePriority(p models.Priority) models.Priority {
	if p >= models.PriorityNone || !p.Valid() {
		return models.PriorityHigh
	}
	return p + 1
}

func (f *agendaForm) input() (agendaInput, error) {
	in := agendaInput{
		text:     strings.TrimSpace(f.text.Value()),
		priority: f.priority,
	}
	if in.text == "" {
		return in, errEmptyText
	}
	if f.reminderOn {
		at, err := parseDateTime(f.at.Value())
		if err != nil {
			return in, err
		}
		in.reminder = &at
	}
	return in, nil
}

// pastReminder reports whether saving would schedule a new or moved
// reminder at or before now
func (f *agendaForm) pastReminder(in agendaInput, now time.Time) bool {
	if in.reminder == nil || in.reminder.After(now) {
		return false
	}
	if f.original == nil || f.original.Reminder == nil {
		return true
	}
	return !f.original.Reminder.Truncate(time.Minute).Equal(in.reminder.Truncate(time.Minute))
}

// agendaSubmitMsg carries a validated form back to the view
type agendaSubmitMsg struct {
	in agendaInput
}

func (f *agendaForm) submit() tea.Cmd {
	in, err := f.input()
	if err != nil {
		return alert("Invalid task", err.Error())
	}
	return func() tea.Msg { return agendaSubmitMsg{in: in} }
}

func (f *agendaForm) update(msg tea.KeyMsg, km keys.KeyMap) tea.Cmd {
	switch {
	case key.Matches(msg, km.Back):
		f.close()
		return nil
	case key.Matches(msg, km.Save):
		return f.submit()
	case key.Matches(msg, km.Tab), msg.String() == "down":
		f.move(1)
		return nil
	case msg.String() == "shift+tab", msg.String() == "up":
		f.move(-1)
		return nil
	}

	switch f.focus {
	case agendaPriority:
		switch {
		case key.Matches(msg, km.Enter), msg.String() == " ", key.Matches(msg, km.Right), key.Matches(msg, km.Priority):
			f.priority = cyclePriority(f.priority)
		case key.Matches(msg, km.Left):
			for range 3 {
				f.priority = cyclePriority(f.priority)
			}
		}
		return nil

	case agendaReminderOn:
		if key.Matches(msg, km.Enter) || msg.String() == " " {
			f.reminderOn = !f.reminderOn
		}
		return nil

	case agendaSave:
		if key.Matches(msg, km.Enter) {
			return f.submit()
		}
		return nil
	}

	if key.Matches(msg, km.Enter) {
		f.move(1)
		return nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case agendaText:
		f.text, cmd = f.text.Update(msg)
	case agendaReminderAt:
		f.at, cmd = f.at.Update(msg)
	}
	return cmd
}

func (f *agendaForm) view(s *styles.Styles, width, height int) string {
	style := func(field int) lipgloss.Style {
		if f.focus == field {
			return s.InputFocused
		}
		return s.Input
	}

	heading := "New Calendar Task"
	if f.original != nil {
		heading = "Edit Calendar Task"
	}

	check := "[ ] remind me"
	if f.reminderOn {
		check = "[x] remind me"
	}
	at := f.at.View()
	if !f.reminderOn {
		at = s.TitleMuted.Render(f.at.Value())
	}

	btn := s.Button
	if f.focus == agendaSave {
		btn = s.ButtonFocused
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(heading),
		"",
		"Task:",
		style(agendaText).Width(clamp(width-6, 20, 50)).Render(f.text.View()),
		"Priority:",
		style(agendaPriority).Render("◀ "+s.Priority(f.priority, false).Render(f.priority.String())+" ▶"),
		style(agendaReminderOn).Render(check),
		style(agendaReminderAt).Width(20).Render(at),
		"",
		btn.Render(" Save "),
		"",
		s.TitleMuted.Render("Tab: next • Space: toggle • ←/→: priority • Ctrl+S: save • Esc: cancel"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, form)
}
