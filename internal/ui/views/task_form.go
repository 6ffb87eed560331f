package views

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/zt/internal/db"
	"github.com/tgienger/zt/internal/models"
	"github.com/tgienger/zt/internal/ui/keys"
	"github.com/tgienger/zt/internal/ui/styles"
)

// form fields in tab order
const (
	fieldTitle = iota
	fieldDetails
	fieldTags
	fieldDue
	fieldImportant
	fieldReminders
	fieldReminderInput
	fieldSave
)

var errEmptyTitle = errors.New("the task needs a title")

// taskForm creates and edits planner tasks. Reminders are only editable
// on existing tasks.
type taskForm struct {
	active bool
	editID int64 // 0 while creating

	title         textinput.Model
	details       textarea.Model
	tags          textinput.Model
	due           textinput.Model
	reminderInput textinput.Model

	important      bool
	reminders      []time.Time
	reminderCursor int
	focus          int
}

func newTaskForm() taskForm {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 200

	details := textarea.New()
	details.Placeholder = "Details"
	details.CharLimit = 5000
	details.SetWidth(50)
	details.SetHeight(4)
	details.ShowLineNumbers = false

	tags := textinput.New()
	tags.Placeholder = "Work, Home"
	tags.CharLimit = 200

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = 10

	reminderInput := textinput.New()
	reminderInput.Placeholder = "YYYY-MM-DD HH:MM"
	reminderInput.CharLimit = 16

	return taskForm{
		title:         title,
		details:       details,
		tags:          tags,
		due:           due,
		reminderInput: reminderInput,
	}
}

func (f *taskForm) reset(now time.Time) {
	f.active = true
	f.editID = 0
	f.title.Reset()
	f.details.Reset()
	f.tags.Reset()
	f.due.SetValue(now.Format(models.DateLayout))
	f.reminderInput.SetValue(now.Add(time.Hour).Format(InputDateTime))
	f.important = false
	f.reminders = nil
	f.reminderCursor = 0
	f.focus = fieldTitle
	f.updateFocus()
}

// openNew prepares an empty form. A due date of today and the given tag
// and star are preset.
func (f *taskForm) openNew(now time.Time, important bool, tag string) {
	f.reset(now)
	f.important = important
	f.tags.SetValue(tag)
}

func (f *taskForm) openEdit(task models.Task, now time.Time) {
	f.reset(now)
	f.editID = task.ID
	f.title.SetValue(task.Title)
	f.details.SetValue(task.Details)
	f.tags.SetValue(strings.ReplaceAll(task.Tags, ",", ", "))
	f.due.SetValue("")
	if task.DueDate != nil {
		f.due.SetValue(task.DueDate.Format(models.DateLayout))
	}
	f.important = task.IsImportant
	for _, r := range task.Reminders {
		f.reminders = append(f.reminders, r.At)
	}
}

func (f *taskForm) close() {
	f.active = false
	f.updateFocus()
}

func (f *taskForm) isNew() bool {
	return f.editID == 0
}

// skip reports whether a field is hidden in the current mode
func (f *taskForm) skip(field int) bool {
	return f.isNew() && (field == fieldReminders || field == fieldReminderInput)
}

func (f *taskForm) move(dir int) {
	n := fieldSave + 1
	for {
		f.focus = (f.focus + dir + n) % n
		if !f.skip(f.focus) {
			break
		}
	}
	f.updateFocus()
}

func (f *taskForm) updateFocus() {
	f.title.Blur()
	f.details.Blur()
	f.tags.Blur()
	f.due.Blur()
	f.reminderInput.Blur()
	if !f.active {
		return
	}

	switch f.focus {
	case fieldTitle:
		f.title.Focus()
	case fieldDetails:
		f.details.Focus()
	case fieldTags:
		f.tags.Focus()
	case fieldDue:
		f.due.Focus()
	case fieldReminderInput:
		f.reminderInput.Focus()
	}
}

func (f *taskForm) setWidth(width int) {
	f.details.SetWidth(width)
}

// addReminder adds the time in the reminder field, ignoring duplicates
func (f *taskForm) addReminder() error {
	at, err := parseDateTime(f.reminderInput.Value())
	if err != nil {
		return err
	}
	for _, r := range f.reminders {
		if r.Equal(at) {
			return nil
		}
	}
	f.reminders = append(f.reminders, at)
	sort.Slice(f.reminders, func(i, j int) bool { return f.reminders[i].Before(f.reminders[j]) })
	return nil
}

func (f *taskForm) removeReminder() {
	if f.reminderCursor >= len(f.reminders) {
		return
	}
	f.reminders = append(f.reminders[:f.reminderCursor], f.reminders[f.reminderCursor+1:]...)
	f.reminderCursor = clamp(f.reminderCursor, 0, max(len(f.reminders)-1, 0))
}

// input validates the form fields
func (f *taskForm) input() (db.TaskInput, error) {
	title := strings.TrimSpace(f.title.Value())
	if title == "" {
		return db.TaskInput{}, errEmptyTitle
	}
	due, err := parseDate(f.due.Value())
	if err != nil {
		return db.TaskInput{}, err
	}
	return db.TaskInput{
		Title:       title,
		Details:     strings.TrimSpace(f.details.Value()),
		Tags:        f.tags.Value(),
		DueDate:     due,
		IsImportant: f.important,
	}, nil
}

// taskSavedMsg is sent once the form has been written
type taskSavedMsg struct {
	id int64
}

// save writes the form and closes it. Invalid input keeps the form open.
func (f *taskForm) save(store *db.DB) tea.Cmd {
	in, err := f.input()
	if err != nil {
		return alert("Invalid task", err.Error())
	}

	if f.isNew() {
		task, err := store.CreateTask(in)
		if err != nil {
			return failed("create the task", err)
		}
		f.close()
		return func() tea.Msg { return taskSavedMsg{id: task.ID} }
	}

	id := f.editID
	if err := store.UpdateTaskWithReminders(id, in, f.reminders); err != nil {
		return failed("update the task", err)
	}
	f.close()
	return func() tea.Msg { return taskSavedMsg{id: id} }
}

func (f *taskForm) update(msg tea.KeyMsg, km keys.KeyMap, store *db.DB) tea.Cmd {
	switch {
	case key.Matches(msg, km.Back):
		f.close()
		return nil

	case key.Matches(msg, km.Save):
		return f.save(store)

	case key.Matches(msg, km.Tab):
		f.move(1)
		return nil

	case msg.String() == "shift+tab":
		f.move(-1)
		return nil
	}

	switch f.focus {
	case fieldTitle, fieldTags, fieldDue:
		if key.Matches(msg, km.Enter) {
			f.move(1)
			return nil
		}

	case fieldImportant:
		if key.Matches(msg, km.Enter) || msg.String() == " " {
			f.important = !f.important
		}
		return nil

	case fieldReminders:
		switch {
		case key.Matches(msg, km.Up):
			f.reminderCursor = max(f.reminderCursor-1, 0)
		case key.Matches(msg, km.Down):
			f.reminderCursor = clamp(f.reminderCursor+1, 0, max(len(f.reminders)-1, 0))
		case key.Matches(msg, km.Delete):
			f.removeReminder()
		}
		return nil

	case fieldReminderInput:
		if key.Matches(msg, km.Enter) {
			if err := f.addReminder(); err != nil {
				return alert("Invalid reminder", err.Error())
			}
			return nil
		}

	case fieldSave:
		if key.Matches(msg, km.Enter) {
			return f.save(store)
		}
		return nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDetails:
		f.details, cmd = f.details.Update(msg)
	case fieldTags:
		f.tags, cmd = f.tags.Update(msg)
	case fieldDue:
		f.due, cmd = f.due.Update(msg)
	case fieldReminderInput:
		f.reminderInput, cmd = f.reminderInput.Update(msg)
	}
	return cmd
}

func (f *taskForm) view(s *styles.Styles, width, height int) string {
	inputWidth := clamp(width-6, 20, 50)

	style := func(field int) lipgloss.Style {
		if f.focus == field {
			return s.InputFocused
		}
		return s.Input
	}

	heading := "New Task"
	if !f.isNew() {
		heading = "Edit Task"
	}

	star := "[ ] important"
	if f.important {
		star = "[★] important"
	}

	rows := []string{
		s.Title.Render(heading),
		"",
		"Title:",
		style(fieldTitle).Width(inputWidth).Render(f.title.View()),
		"Details:",
		style(fieldDetails).Render(f.details.View()),
		"Tags (comma separated):",
		style(fieldTags).Width(inputWidth).Render(f.tags.View()),
		"Due date:",
		style(fieldDue).Width(16).Render(f.due.View()),
		style(fieldImportant).Render(star),
	}

	if !f.isNew() {
		rows = append(rows, "Reminders:", style(fieldReminders).Width(inputWidth).Render(f.reminderList(s)))
		rows = append(rows, style(fieldReminderInput).Width(inputWidth).Render(f.reminderInput.View()))
	}

	btn := s.Button
	if f.focus == fieldSave {
		btn = s.ButtonFocused
	}
	hint := "Tab: next • Space: toggle • Ctrl+S: save • Esc: cancel"
	if !f.isNew() {
		hint = "Tab: next • ↵ on time: add reminder • d: remove • Ctrl+S: save • Esc: cancel"
	}
	rows = append(rows, btn.Render(" Save "), "", s.TitleMuted.Render(hint))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, form)
}

func (f *taskForm) reminderList(s *styles.Styles) string {
	if len(f.reminders) == 0 {
		return s.TitleMuted.Render("No reminders")
	}
	var lines []string
	for i, r := range f.reminders {
		line := fmt.Sprintf("⏰ %s", r.Format(InputDateTime))
		if f.focus == fieldReminders && i == f.reminderCursor {
			lines = append(lines, s.ListSelected.Render(line))
			continue
		}
		lines = append(lines, s.ListItem.Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
