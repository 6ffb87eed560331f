package views

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/zt/internal/calendar"
	"github.com/tgienger/zt/internal/models"
	"github.com/tgienger/zt/internal/reminder"
	"github.com/tgienger/zt/internal/ui/keys"
	"github.com/tgienger/zt/internal/ui/styles"
)

type calendarPane int

const (
	paneGrid calendarPane = iota
	paneDay
	paneUndated
)

// CalendarView shows agenda tasks on a month grid with the selected day's
// tasks beside it
type CalendarView struct {
	env    Env
	styles *styles.Styles
	keys   keys.KeyMap
	help   help.Model
	now    func() time.Time

	width  int
	height int

	tasks []models.AgendaTask
	month time.Time
	day   time.Time

	pane          calendarPane
	dayCursor     int
	undatedCursor int

	form    agendaForm
	confirm confirmDialog

	showHelpPopup bool
}

// NewCalendarView creates the calendar view
func NewCalendarView(env Env) *CalendarView {
	s := styles.NewStyles()
	v := &CalendarView{
		env:    env,
		styles: s,
		keys:   keys.DefaultKeyMap(),
		help:   newHelp(s),
		now:    time.Now,
		form:   newAgendaForm(),
	}
	v.day = startOfDay(v.now())
	v.month = firstOfMonth(v.day)
	return v
}

func (v *CalendarView) Init() tea.Cmd {
	return v.load()
}

// Capturing reports whether key presses are going into a form or dialog
func (v *CalendarView) Capturing() bool {
	return v.form.active || v.confirm.active
}

type agendaLoadedMsg struct {
	tasks []models.AgendaTask
}

func (v *CalendarView) load() tea.Cmd {
	store := v.env.DB
	return func() tea.Msg {
		tasks, err := store.ListAgendaTasks()
		if err != nil {
			return failure("load calendar tasks", err)
		}
		return agendaLoadedMsg{tasks: tasks}
	}
}

func (v *CalendarView) dayTasks() []models.AgendaTask {
	return calendar.TasksOn(v.tasks, v.day)
}

func (v *CalendarView) undated() []models.AgendaTask {
	return calendar.Undated(v.tasks)
}

// selected returns the task under the cursor of the focused list
func (v *CalendarView) selected() (models.AgendaTask, bool) {
	var (
		list   []models.AgendaTask
		cursor int
	)
	switch v.pane {
	case paneDay:
		list, cursor = v.dayTasks(), v.dayCursor
	case paneUndated:
		list, cursor = v.undated(), v.undatedCursor
	default:
		return models.AgendaTask{}, false
	}
	if cursor < 0 || cursor >= len(list) {
		return models.AgendaTask{}, false
	}
	return list[cursor], true
}

// Update handles messages
func (v *CalendarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case agendaLoadedMsg:
		v.tasks = msg.tasks
		v.clampCursors()
		return v, nil

	case agendaSubmitMsg:
		return v, v.submit(msg.in)

	case reminder.TickMsg:
		if msg.Kind != reminder.Agenda {
			return v, nil
		}
		return v, v.checkReminders(msg.Time)

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.confirm.active {
			return v, v.confirm.update(msg)
		}
		if v.form.active {
			return v, v.form.update(msg, v.keys)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

// checkReminders shows every elapsed reminder that was not shown yet and
// records that it was
func (v *CalendarView) checkReminders(now time.Time) tea.Cmd {
	due := reminder.DueAgenda(v.tasks, now)
	if len(due) == 0 {
		return nil
	}

	if err := v.env.DB.MarkRemindersShown(reminder.IDs(due)); err != nil {
		return tea.Batch(failed("record shown reminders", err), v.load())
	}
	v.env.Log.Infow("agenda reminders due", "count", len(due))

	alerts := make([]tea.Cmd, 0, len(due))
	for _, t := range due {
		alerts = append(alerts, alert("Reminder", reminder.AgendaMessage(t)))
	}
	return tea.Batch(tea.Sequence(alerts...), v.load())
}

// submit saves the form, asking first when the reminder is already due
func (v *CalendarView) submit(in agendaInput) tea.Cmd {
	if v.form.pastReminder(in, v.now()) {
		v.confirm.ask("Reminder in the past",
			fmt.Sprintf("%s has already passed and will be shown right away. Save anyway?", in.reminder.Format(InputDateTime)),
			func() tea.Cmd { return v.write(in) })
		return nil
	}
	return v.write(in)
}

func (v *CalendarView) write(in agendaInput) tea.Cmd {
	var (
		task *models.AgendaTask
		err  error
	)
	if v.form.original == nil {
		task, err = v.env.DB.CreateAgendaTask(in.text, in.priority, in.reminder)
	} else {
		task, err = v.env.DB.UpdateAgendaTask(v.form.original.ID, in.text, in.priority, in.reminder)
	}
	if err != nil {
		return failed("save the calendar task", err)
	}

	v.form.close()
	if task.Reminder != nil {
		v.day = task.Day()
		v.month = firstOfMonth(v.day)
	}
	return v.load()
}

func (v *CalendarView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.pane = (v.pane + 1) % 3
		return v, nil

	case msg.String() == "shift+tab":
		v.pane = (v.pane + 2) % 3
		return v, nil

	case key.Matches(msg, v.keys.Back):
		v.pane = paneGrid
		return v, nil

	case key.Matches(msg, v.keys.PrevMonth):
		v.showMonth(v.month.AddDate(0, -1, 0))
		return v, nil

	case key.Matches(msg, v.keys.NextMonth):
		v.showMonth(v.month.AddDate(0, 1, 0))
		return v, nil

	case key.Matches(msg, v.keys.Today):
		v.selectDay(startOfDay(v.now()))
		return v, nil

	case key.Matches(msg, v.keys.New):
		if v.pane == paneUndated {
			v.form.openNew(v.now(), nil)
		} else {
			day := v.day
			v.form.openNew(v.now(), &day)
		}
		return v, textinput.Blink
	}

	if v.pane == paneGrid {
		return v.updateGrid(msg)
	}
	return v.updateList(msg)
}

func (v *CalendarView) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Left):
		v.selectDay(v.day.AddDate(0, 0, -1))
	case key.Matches(msg, v.keys.Right):
		v.selectDay(v.day.AddDate(0, 0, 1))
	case key.Matches(msg, v.keys.Up):
		v.selectDay(v.day.AddDate(0, 0, -7))
	case key.Matches(msg, v.keys.Down):
		v.selectDay(v.day.AddDate(0, 0, 7))
	case key.Matches(msg, v.keys.Enter):
		if len(v.dayTasks()) > 0 {
			v.pane = paneDay
		}
	}
	return v, nil
}

func (v *CalendarView) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cursor := &v.dayCursor
	count := len(v.dayTasks())
	if v.pane == paneUndated {
		cursor = &v.undatedCursor
		count = len(v.undated())
	}

	switch {
	case key.Matches(msg, v.keys.Up):
		*cursor = max(*cursor-1, 0)
		return v, nil
	case key.Matches(msg, v.keys.Down):
		*cursor = clamp(*cursor+1, 0, max(count-1, 0))
		return v, nil
	}

	task, ok := v.selected()
	if !ok {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Edit):
		v.form.openEdit(task, v.now())
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Toggle):
		if _, err := v.env.DB.ToggleAgendaCompleted(task.ID, v.now()); err != nil {
			return v, failed("update the calendar task", err)
		}
		return v, v.load()

	case key.Matches(msg, v.keys.Priority):
		if _, err := v.env.DB.UpdateAgendaTask(task.ID, task.Text, cyclePriority(task.Priority), task.Reminder); err != nil {
			return v, failed("update the calendar task", err)
		}
		return v, v.load()

	case key.Matches(msg, v.keys.ResetShown):
		if task.Reminder == nil || !task.ReminderShown {
			return v, nil
		}
		if err := v.env.DB.ResetReminderShown(task.ID); err != nil {
			return v, failed("re-arm the reminder", err)
		}
		return v, tea.Batch(v.load(), alert("Reminder re-armed", fmt.Sprintf("%q will be shown again at its next check.", task.Text)))

	case key.Matches(msg, v.keys.Delete):
		id := task.ID
		v.confirm.ask("Delete Task?", fmt.Sprintf("Delete %q?", task.Text), func() tea.Cmd {
			if err := v.env.DB.DeleteAgendaTask(id); err != nil {
				return failed("delete the calendar task", err)
			}
			return v.load()
		})
		return v, nil
	}
	return v, nil
}

func (v *CalendarView) selectDay(day time.Time) {
	v.day = startOfDay(day)
	v.month = firstOfMonth(v.day)
	v.dayCursor = 0
}

func (v *CalendarView) showMonth(month time.Time) {
	v.month = firstOfMonth(month)
	// keep the day of month where the new month has it
	day := min(v.day.Day(), calendar.DaysIn(v.month.Year(), v.month.Month()))
	v.day = v.month.AddDate(0, 0, day-1)
	v.dayCursor = 0
}

func (v *CalendarView) clampCursors() {
	v.dayCursor = clamp(v.dayCursor, 0, max(len(v.dayTasks())-1, 0))
	v.undatedCursor = clamp(v.undatedCursor, 0, max(len(v.undated())-1, 0))
}

// View renders the view
func (v *CalendarView) View() string {
	contentWidth := styles.ContentWidth(v.width)

	var out string
	switch {
	case v.showHelpPopup:
		out = renderHelpPopup(v.styles, v.help, v.helpKeys(), contentWidth, v.height)
	case v.confirm.active:
		out = v.confirm.view(v.styles, contentWidth, v.height)
	case v.form.active:
		out = v.form.view(v.styles, contentWidth, v.height)
	default:
		out = v.renderMain(contentWidth)
	}
	return styles.CenterView(out, v.width, v.height)
}

func (v *CalendarView) renderMain(width int) string {
	s := v.styles
	paneHeight := max(v.height-3, 10)

	panel := func(p calendarPane) lipgloss.Style {
		if v.pane == p {
			return s.PanelFocused
		}
		return s.Panel
	}

	counts := calendar.CountsByDay(v.tasks, v.month.Year(), v.month.Month())
	grid := panel(paneGrid).Width(monthWidth - 2).Render(
		renderMonth(s, v.month, v.day, startOfDay(v.now()), counts, v.env.MondayFirst),
	)

	listWidth := max(width-monthWidth-4, 24)
	dayHeight := max(paneHeight*2/3, 5)

	day := panel(paneDay).Width(listWidth).Height(dayHeight - 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		s.PanelHeader.Render(v.day.Format("Monday, 2 January 2006")),
		"",
		v.renderTasks(v.dayTasks(), v.dayCursor, v.pane == paneDay, listWidth-2, true),
	))
	undated := panel(paneUndated).Width(listWidth).Height(max(paneHeight-dayHeight-2, 3)).Render(lipgloss.JoinVertical(lipgloss.Left,
		s.PanelHeader.Render("No reminder"),
		v.renderTasks(v.undated(), v.undatedCursor, v.pane == paneUndated, listWidth-2, false),
	))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, grid, lipgloss.JoinVertical(lipgloss.Left, day, undated)),
		v.renderHelp(width),
	)
}

func (v *CalendarView) renderTasks(tasks []models.AgendaTask, cursor int, focused bool, width int, withTime bool) string {
	s := v.styles
	if len(tasks) == 0 {
		return s.TitleMuted.Render("Nothing planned. Press 'n' to add a task.")
	}

	var rows []string
	for i, t := range tasks {
		check := "[ ]"
		if t.Completed {
			check = "[✔]"
		}

		line := check + " "
		if withTime && t.Reminder != nil {
			line += t.Reminder.Format("15:04") + " "
		}
		line += truncate(t.Text, max(width-16, 8))
		if t.ReminderShown && !t.Completed {
			line += " " + s.Meta.Render("(reminded)")
		}

		style := s.Priority(t.Priority, t.Completed).Padding(0, 1)
		if focused && i == cursor {
			style = style.Background(styles.Current.Selection).Bold(true)
		}
		rows = append(rows, style.Width(width).Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *CalendarView) helpKeys() keys.Help {
	k := v.keys
	return keys.Help{
		Short: []key.Binding{k.New, k.Edit, k.Toggle, k.Priority, k.Delete, k.PrevMonth, k.NextMonth, k.Help},
		Full: [][]key.Binding{
			{k.Up, k.Down, k.Left, k.Right, k.Tab, k.Back},
			{k.New, k.Edit, k.Delete, k.Toggle, k.Priority, k.ResetShown},
			{k.PrevMonth, k.NextMonth, k.Today, k.TabTasks, k.TabNotes, k.Quit},
		},
	}
}

func (v *CalendarView) renderHelp(width int) string {
	if width > 0 && width < 60 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	v.help.Width = width
	return v.styles.Help.Render(v.help.View(v.helpKeys()))
}
