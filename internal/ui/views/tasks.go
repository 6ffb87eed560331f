package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/zt/internal/calendar"
	"github.com/tgienger/zt/internal/db"
	"github.com/tgienger/zt/internal/models"
	"github.com/tgienger/zt/internal/reminder"
	"github.com/tgienger/zt/internal/ui/keys"
	"github.com/tgienger/zt/internal/ui/styles"
)

// FocusArea represents which pane of the planner has focus
type FocusArea int

const (
	FocusSidebar FocusArea = iota
	FocusTaskList
	FocusMonth
)

const (
	sidebarWidth = 28
	monthWidth   = 32
	recentLimit  = 5
)

// TaskListView is the planner: filters on the left, tasks in the middle
// and a month of due dates on the right
type TaskListView struct {
	env    Env
	styles *styles.Styles
	keys   keys.KeyMap
	help   help.Model
	now    func() time.Time

	width  int
	height int

	focus   FocusArea
	sidebar sidebar
	filter  db.Filter
	prev    db.Filter // filter to restore when leaving the completed view

	tasks   []models.Task
	recent  []models.Task
	cursor  int
	scrollY int
	follow  int64 // task to put the cursor on after the next load

	searching   bool
	searchInput textinput.Model

	month     time.Time
	day       time.Time
	dueCounts map[int]int

	form    taskForm
	report  reportForm
	confirm confirmDialog

	showHelpPopup bool
}

// NewTaskListView creates the planner view
func NewTaskListView(env Env) *TaskListView {
	s := styles.NewStyles()

	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100

	v := &TaskListView{
		env:         env,
		styles:      s,
		keys:        keys.DefaultKeyMap(),
		help:        newHelp(s),
		now:         time.Now,
		focus:       FocusTaskList,
		sidebar:     newSidebar(s),
		filter:      db.Filter{Kind: db.FilterAll},
		prev:        db.Filter{Kind: db.FilterAll},
		searchInput: search,
		form:        newTaskForm(),
		report:      newReportForm(env.ReportDir),
	}

	if saved, err := env.DB.GetSetting(settingPlannerFilter); err != nil {
		env.Log.Warnw("read planner filter", "error", err)
	} else if f, ok := parseFilterKey(saved); ok {
		v.filter = f
	}
	v.sidebar.selectFilter(v.filter)

	today := startOfDay(v.now())
	v.day = today
	v.month = firstOfMonth(today)
	return v
}

// Init loads the first page of data
func (v *TaskListView) Init() tea.Cmd {
	return v.load()
}

// Capturing reports whether key presses are going into a text field
// or dialog, so the app must not treat them as shortcuts
func (v *TaskListView) Capturing() bool {
	return v.searching || v.form.active || v.report.active || v.confirm.active
}

type plannerLoadedMsg struct {
	tasks  []models.Task
	tags   []db.TagCount
	recent []models.Task
	due    map[int]int
}

// load fetches the task list, the sidebar counts and the month's due
// dates in one go
func (v *TaskListView) load() tea.Cmd {
	store := v.env.DB
	filter := v.filter
	query := strings.TrimSpace(v.searchInput.Value())
	month := v.month

	return func() tea.Msg {
		var (
			msg plannerLoadedMsg
			err error
		)
		if query != "" {
			msg.tasks, err = store.SearchTasks(query)
		} else {
			msg.tasks, err = store.ListTasks(filter)
		}
		if err != nil {
			return failure("load tasks", err)
		}

		if msg.tags, err = store.TagCounts(); err != nil {
			return failure("load tags", err)
		}

		completed, err := store.ListTasks(db.Filter{Kind: db.FilterCompleted})
		if err != nil {
			return failure("load completed tasks", err)
		}
		msg.recent = completed[:min(len(completed), recentLimit)]

		due, err := store.ListTasks(db.Filter{
			Kind:  db.FilterDateRange,
			Start: month,
			End:   month.AddDate(0, 1, -1),
		})
		if err != nil {
			return failure("load due dates", err)
		}
		msg.due = calendar.DueCountsByDay(due, month.Year(), month.Month())
		return msg
	}
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.form.setWidth(clamp(contentWidth-10, 20, 50))
		v.sidebar.setSize(sidebarWidth-4, max(v.height-4, 4))
		return v, nil

	case plannerLoadedMsg:
		v.tasks = msg.tasks
		v.recent = msg.recent
		v.dueCounts = msg.due
		v.sidebar.setTags(msg.tags)
		v.sidebar.selectFilter(v.filter)
		if v.follow != 0 {
			for i, t := range v.tasks {
				if t.ID == v.follow {
					v.cursor = i
				}
			}
			v.follow = 0
		}
		v.cursor = clamp(v.cursor, 0, max(len(v.tasks)-1, 0))
		v.ensureVisible()
		return v, nil

	case taskSavedMsg:
		v.follow = msg.id
		return v, v.load()

	case reminder.TickMsg:
		if msg.Kind != reminder.Planner {
			return v, nil
		}
		return v, v.checkReminders(msg.Time)

	case tea.KeyMsg:
		// any key closes the help popup
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirm.active {
			return v, v.confirm.update(msg)
		}

		if v.form.active {
			return v, v.form.update(msg, v.keys, v.env.DB)
		}

		if v.report.active {
			return v, v.report.update(msg, v.keys, v.env.DB, v.env.Exporter)
		}

		if v.searching {
			return v.updateSearch(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

// checkReminders surfaces due reminders, oldest first, then refreshes
// the list
func (v *TaskListView) checkReminders(now time.Time) tea.Cmd {
	due, err := v.env.Checker.Due(now)
	if err != nil {
		return failed("check reminders", err)
	}
	if len(due) == 0 {
		return nil
	}

	alerts := make([]tea.Cmd, 0, len(due))
	for _, r := range due {
		alerts = append(alerts, alert("Reminder", reminder.PlannerMessage(r)))
	}
	return tea.Batch(tea.Sequence(alerts...), v.load())
}

func (v *TaskListView) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.searching = false
		v.searchInput.Blur()
		v.searchInput.Reset()
		v.cursor = 0
		return v, v.load()
	case key.Matches(msg, v.keys.Enter):
		v.searching = false
		v.searchInput.Blur()
		v.focus = FocusTaskList
		return v, nil
	}

	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	v.cursor = 0
	v.scrollY = 0
	return v, tea.Batch(cmd, v.load())
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil

	case key.Matches(msg, v.keys.Back):
		if v.searchInput.Value() != "" {
			v.searchInput.Reset()
			return v, v.load()
		}
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, nil

	case msg.String() == "shift+tab":
		v.cycleFocus(-1)
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.searching = true
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.New):
		v.form.openNew(v.now(), false, "")
		return v, textinput.Blink

	case key.Matches(msg, v.keys.NewImportant):
		v.form.openNew(v.now(), true, "")
		return v, textinput.Blink

	case key.Matches(msg, v.keys.NewPersonal):
		v.form.openNew(v.now(), false, PersonalTag)
		return v, textinput.Blink

	case key.Matches(msg, v.keys.ShowCompleted):
		if v.filter.Kind == db.FilterCompleted {
			return v, v.setFilter(v.prev)
		}
		v.prev = v.filter
		return v, v.setFilter(db.Filter{Kind: db.FilterCompleted})

	case key.Matches(msg, v.keys.Report):
		v.report.open(v.now())
		return v, textinput.Blink

	case key.Matches(msg, v.keys.PrevMonth):
		return v, v.showMonth(v.month.AddDate(0, -1, 0))

	case key.Matches(msg, v.keys.NextMonth):
		return v, v.showMonth(v.month.AddDate(0, 1, 0))

	case key.Matches(msg, v.keys.Today):
		v.day = startOfDay(v.now())
		return v, v.showMonth(firstOfMonth(v.day))
	}

	switch v.focus {
	case FocusSidebar:
		return v.updateSidebar(msg)
	case FocusMonth:
		return v.updateMonth(msg)
	}
	return v.updateList(msg)
}

func (v *TaskListView) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		v.sidebar.up()
	case key.Matches(msg, v.keys.Down):
		v.sidebar.down()
	case key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Right):
		v.focus = FocusTaskList
		v.sidebar.setFocused(false)
		return v, nil
	default:
		return v, nil
	}

	if f, ok := v.sidebar.selected(); ok {
		return v, v.setFilter(f)
	}
	return v, nil
}

func (v *TaskListView) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil
	}

	task, ok := v.selectedTask()
	if !ok {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Edit):
		full, err := v.env.DB.GetTask(task.ID)
		if err != nil {
			return v, failed("open the task", err)
		}
		v.form.openEdit(*full, v.now())
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Toggle):
		if err := v.env.DB.SetTaskCompleted(task.ID, !task.IsCompleted); err != nil {
			return v, failed("update the task", err)
		}
		return v, v.load()

	case key.Matches(msg, v.keys.Important):
		if err := v.env.DB.SetTaskImportant(task.ID, !task.IsImportant); err != nil {
			return v, failed("update the task", err)
		}
		v.follow = task.ID
		return v, v.load()

	case key.Matches(msg, v.keys.Delete):
		id := task.ID
		v.confirm.ask("Delete Task?", fmt.Sprintf("%q and its reminders will be removed.", task.Title), func() tea.Cmd {
			if err := v.env.DB.DeleteTask(id); err != nil {
				return failed("delete the task", err)
			}
			v.env.Log.Infow("task deleted", "task_id", id)
			return v.load()
		})
		return v, nil
	}
	return v, nil
}

// updateMonth moves the selected day; enter lists the tasks due on it
func (v *TaskListView) updateMonth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var day time.Time
	switch {
	case key.Matches(msg, v.keys.Left):
		day = v.day.AddDate(0, 0, -1)
	case key.Matches(msg, v.keys.Right):
		day = v.day.AddDate(0, 0, 1)
	case key.Matches(msg, v.keys.Up):
		day = v.day.AddDate(0, 0, -7)
	case key.Matches(msg, v.keys.Down):
		day = v.day.AddDate(0, 0, 7)
	case key.Matches(msg, v.keys.Enter):
		v.focus = FocusTaskList
		return v, v.setFilter(db.Filter{Kind: db.FilterDate, Date: v.day})
	default:
		return v, nil
	}

	v.day = day
	if first := firstOfMonth(day); !first.Equal(v.month) {
		return v, v.showMonth(first)
	}
	return v, nil
}

func (v *TaskListView) showMonth(month time.Time) tea.Cmd {
	v.month = firstOfMonth(month)
	if !firstOfMonth(v.day).Equal(v.month) {
		v.day = v.month
	}
	return v.load()
}

// setFilter switches the list and remembers the choice. Date filters are
// not persisted.
func (v *TaskListView) setFilter(f db.Filter) tea.Cmd {
	v.filter = f
	v.cursor = 0
	v.scrollY = 0
	v.searchInput.Reset()
	v.sidebar.selectFilter(f)

	if k := filterKey(f); k != "" {
		if err := v.env.DB.SetSetting(settingPlannerFilter, k); err != nil {
			v.env.Log.Warnw("save planner filter", "filter", k, "error", err)
		}
	}
	return v.load()
}

func (v *TaskListView) cycleFocus(dir int) {
	v.focus = FocusArea((int(v.focus) + dir + 3) % 3)
	v.sidebar.setFocused(v.focus == FocusSidebar)
}

func (v *TaskListView) selectedTask() (models.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return models.Task{}, false
	}
	return v.tasks[v.cursor], true
}

func (v *TaskListView) visibleItems() int {
	// two lines per task, header and help take the rest
	return max((v.height-8)/2, 1)
}

func (v *TaskListView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

// listTitle names what the task list currently shows
func (v *TaskListView) listTitle() string {
	if q := strings.TrimSpace(v.searchInput.Value()); q != "" {
		return fmt.Sprintf("Search: %s", q)
	}
	switch v.filter.Kind {
	case db.FilterDate:
		return "Due " + v.filter.Date.Format(models.DateLayout)
	case db.FilterTag:
		return "Tag: " + v.filter.Tag
	case db.FilterImportant:
		return "Important"
	case db.FilterCompleted:
		return "Completed"
	}
	return "All tasks"
}

// View renders the view
func (v *TaskListView) View() string {
	contentWidth := styles.ContentWidth(v.width)

	var out string
	switch {
	case v.showHelpPopup:
		out = renderHelpPopup(v.styles, v.help, v.helpKeys(), contentWidth, v.height)
	case v.confirm.active:
		out = v.confirm.view(v.styles, contentWidth, v.height)
	case v.form.active:
		out = v.form.view(v.styles, contentWidth, v.height)
	case v.report.active:
		out = v.report.view(v.styles, contentWidth, v.height)
	default:
		out = v.renderMain(contentWidth)
	}
	return styles.CenterView(out, v.width, v.height)
}

func (v *TaskListView) renderMain(width int) string {
	s := v.styles
	paneHeight := max(v.height-3, 6)
	wide := width >= sidebarWidth+monthWidth+40

	panel := func(area FocusArea) lipgloss.Style {
		if v.focus == area {
			return s.PanelFocused
		}
		return s.Panel
	}

	left := panel(FocusSidebar).Width(sidebarWidth - 2).Height(paneHeight - 2).Render(v.sidebar.view())

	listWidth := width - sidebarWidth - 2
	if wide {
		listWidth -= monthWidth + 2
	}
	middle := panel(FocusTaskList).Width(listWidth).Height(paneHeight - 2).Render(v.renderTaskList(listWidth - 2))

	panes := []string{left, middle}
	if wide {
		right := lipgloss.JoinVertical(lipgloss.Left,
			renderMonth(s, v.month, v.day, startOfDay(v.now()), v.dueCounts, v.env.MondayFirst),
			"",
			s.PanelHeader.Render("Recently completed"),
			v.renderRecent(monthWidth-4),
		)
		panes = append(panes, panel(FocusMonth).Width(monthWidth-2).Height(paneHeight-2).Render(right))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, panes...),
		v.renderHelp(width),
	)
}

func (v *TaskListView) renderTaskList(width int) string {
	s := v.styles

	header := s.PanelHeader.Render(v.listTitle()) + "  " + s.Count.Render(fmt.Sprintf("%d", len(v.tasks)))
	if v.searching {
		header = s.InputFocused.Width(clamp(width-4, 10, 40)).Render(v.searchInput.View())
	}

	if len(v.tasks) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, "", s.TitleMuted.Render("No tasks. Press 'n' to create one."))
	}

	items := []string{header, ""}
	end := min(v.scrollY+v.visibleItems(), len(v.tasks))
	for i := v.scrollY; i < end; i++ {
		items = append(items, v.renderTaskItem(v.tasks[i], i == v.cursor && v.focus == FocusTaskList, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool, width int) string {
	s := v.styles

	check := "[ ]"
	if task.IsCompleted {
		check = "[✔]"
	}
	star := " "
	if task.IsImportant {
		star = s.Star.Render("★")
	}

	title := task.Title
	if task.IsCompleted {
		title = s.Completed.Render(title)
	}

	var meta []string
	if tags := task.TagList(); len(tags) > 0 {
		meta = append(meta, strings.Join(tags, ", "))
	}
	if task.DueDate != nil {
		due := "due " + task.DueDate.Format(models.DateLayout)
		if !task.IsCompleted && task.DueDate.Before(startOfDay(v.now())) {
			due = lipgloss.NewStyle().Foreground(styles.Current.Error).Render(due)
		}
		meta = append(meta, due)
	}
	metaLine := s.Meta.Render("no tags • no due date")
	if len(meta) > 0 {
		metaLine = s.Meta.Render(strings.Join(meta, " • "))
	}

	style := s.ListItem
	if selected {
		style = s.ListSelected
	}
	style = style.Width(max(width, 20))
	return lipgloss.JoinVertical(lipgloss.Left,
		style.Render(check+" "+star+" "+title),
		style.Render("      "+metaLine),
	)
}

func (v *TaskListView) renderRecent(width int) string {
	if len(v.recent) == 0 {
		return v.styles.TitleMuted.Render("Nothing yet")
	}
	var lines []string
	for _, t := range v.recent {
		lines = append(lines, v.styles.Completed.Render("✔ "+truncate(t.Title, width-2)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *TaskListView) helpKeys() keys.Help {
	k := v.keys
	return keys.Help{
		Short: []key.Binding{k.New, k.Edit, k.Toggle, k.Important, k.Delete, k.Search, k.ShowCompleted, k.Help},
		Full: [][]key.Binding{
			{k.Up, k.Down, k.Tab, k.Enter, k.Back},
			{k.New, k.NewImportant, k.NewPersonal, k.Edit, k.Delete},
			{k.Toggle, k.Important, k.ShowCompleted, k.Search, k.Report},
			{k.PrevMonth, k.NextMonth, k.Today, k.TabCalendar, k.TabNotes, k.Quit},
		},
	}
}

func (v *TaskListView) renderHelp(width int) string {
	// at narrow widths only hint at the popup
	if width > 0 && width < 60 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	v.help.Width = width
	return v.styles.Help.Render(v.help.View(v.helpKeys()))
}
