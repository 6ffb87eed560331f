package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/zt/internal/config"
	"github.com/tgienger/zt/internal/reminder"
	"github.com/tgienger/zt/internal/ui/keys"
	"github.com/tgienger/zt/internal/ui/styles"
	"github.com/tgienger/zt/internal/ui/views"
)

// Tab is one of the top level screens
type Tab int

const (
	TabTasks Tab = iota
	TabCalendar
	TabNotes
)

var tabNames = [...]string{"tasks", "calendar", "notes"}
var tabTitles = [...]string{"Tasks", "Calendar", "Notes"}

func (t Tab) String() string {
	return tabNames[t]
}

// parseTab reads a tab name stored in settings
func parseTab(s string) (Tab, bool) {
	for i, name := range tabNames {
		if name == s {
			return Tab(i), true
		}
	}
	return TabTasks, false
}

const settingLastTab = "last_tab"

// tabBarHeight is the tab row plus its bottom border
const tabBarHeight = 2

// screen is what every tab implements
type screen interface {
	tea.Model
	Capturing() bool
}

type App struct {
	env       views.Env
	intervals config.RemindersConfig
	styles    *styles.Styles
	keys      keys.KeyMap

	planner  *views.TaskListView
	calendar *views.CalendarView
	notes    *views.NotesView
	active   Tab

	// alerts waiting to be dismissed, oldest first
	alerts      []views.AlertMsg
	confirmQuit bool

	width  int
	height int
}

// NewApp creates the application, reopening the tab used last
func NewApp(env views.Env, intervals config.RemindersConfig) *App {
	a := &App{
		env:       env,
		intervals: intervals,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		planner:   views.NewTaskListView(env),
		calendar:  views.NewCalendarView(env),
		notes:     views.NewNotesView(env),
	}

	if last, err := env.DB.GetSetting(settingLastTab); err != nil {
		env.Log.Warnw("read last tab", "error", err)
	} else if tab, ok := parseTab(last); ok {
		a.active = tab
	}
	return a
}

func (a *App) screens() []screen {
	return []screen{a.planner, a.calendar, a.notes}
}

func (a *App) current() screen {
	return a.screens()[a.active]
}

// checkNow delivers a reminder tick right away; the handler schedules
// the following ones
func checkNow(kind reminder.Kind) tea.Cmd {
	return func() tea.Msg {
		return reminder.TickMsg{Kind: kind, Time: time.Now()}
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{checkNow(reminder.Planner), checkNow(reminder.Agenda)}
	for _, s := range a.screens() {
		cmds = append(cmds, s.Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) interval(kind reminder.Kind) time.Duration {
	if kind == reminder.Agenda {
		return a.intervals.AgendaInterval
	}
	return a.intervals.TaskInterval
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-tabBarHeight, 0)}
		return a, a.broadcast(inner)

	case views.AlertMsg:
		if msg.Err != nil {
			a.env.Log.Errorw(msg.Body, "error", msg.Err)
		}
		a.alerts = append(a.alerts, msg)
		return a, nil

	case reminder.TickMsg:
		// both views see every tick and act on their own kind
		return a, tea.Batch(a.broadcast(msg), reminder.Tick(msg.Kind, a.interval(msg.Kind)))

	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	// loads and other results belong to whichever view issued them
	return a, a.broadcast(msg)
}

func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, s := range a.screens() {
		_, cmd := s.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if len(a.alerts) > 0 {
		switch msg.String() {
		case "enter", "esc", " ":
			a.alerts = a.alerts[1:]
		}
		return nil
	}

	if a.confirmQuit {
		switch msg.String() {
		case "y", "Y", "enter":
			return tea.Quit
		case "n", "N", "esc":
			a.confirmQuit = false
		}
		return nil
	}

	if msg.String() == "ctrl+c" {
		return a.quit()
	}

	switch {
	case key.Matches(msg, a.keys.NextTab):
		return a.switchTab((a.active + 1) % Tab(len(tabNames)))
	case key.Matches(msg, a.keys.PrevTab):
		return a.switchTab((a.active + Tab(len(tabNames)) - 1) % Tab(len(tabNames)))
	}

	if !a.current().Capturing() {
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a.quit()
		case key.Matches(msg, a.keys.TabTasks):
			return a.switchTab(TabTasks)
		case key.Matches(msg, a.keys.TabCalendar):
			return a.switchTab(TabCalendar)
		case key.Matches(msg, a.keys.TabNotes):
			return a.switchTab(TabNotes)
		}
	}

	_, cmd := a.current().Update(msg)
	return cmd
}

// quit asks first when a note has unsaved changes
func (a *App) quit() tea.Cmd {
	if a.notes.Dirty() {
		a.confirmQuit = true
		return nil
	}
	return tea.Quit
}

func (a *App) switchTab(t Tab) tea.Cmd {
	if t == a.active {
		return nil
	}
	a.active = t
	if err := a.env.DB.SetSetting(settingLastTab, t.String()); err != nil {
		a.env.Log.Warnw("save last tab", "tab", t.String(), "error", err)
	}
	return nil
}

func (a *App) View() string {
	bodyHeight := max(a.height-tabBarHeight, 0)

	var body string
	switch {
	case len(a.alerts) > 0:
		al := a.alerts[0]
		hint := "↵ ok"
		if n := len(a.alerts) - 1; n > 0 {
			hint = "↵ next"
		}
		body = views.RenderDialog(a.styles, al.Title, al.Body, hint, al.Err != nil, styles.ContentWidth(a.width), bodyHeight)
		body = styles.CenterView(body, a.width, bodyHeight)
	case a.confirmQuit:
		body = views.RenderDialog(a.styles, "Unsaved changes",
			"\""+a.notes.DirtyName()+"\" has unsaved changes. Quit anyway?",
			"y quit • n stay", true, styles.ContentWidth(a.width), bodyHeight)
		body = styles.CenterView(body, a.width, bodyHeight)
	default:
		body = a.current().View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.renderTabs(), body)
}

func (a *App) renderTabs() string {
	s := a.styles
	var tabs []string
	for i, title := range tabTitles {
		label := string(rune('1'+i)) + " " + title
		if Tab(i) == a.active {
			tabs = append(tabs, s.TabActive.Render(label))
			continue
		}
		tabs = append(tabs, s.Tab.Render(label))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if a.notes.Dirty() {
		row += "  " + s.Dirty.Render("●")
	}
	return s.TabBar.Width(styles.ContentWidth(a.width)).Render(row)
}
