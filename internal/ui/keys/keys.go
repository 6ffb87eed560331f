package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding shared by the views
type KeyMap struct {
	Quit   key.Binding
	Back   key.Binding
	Help   key.Binding
	Enter  key.Binding
	Tab    key.Binding
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Search key.Binding
	Save   key.Binding

	// planner
	Toggle        key.Binding
	Important     key.Binding
	NewImportant  key.Binding
	NewPersonal   key.Binding
	ShowCompleted key.Binding
	Report        key.Binding

	// calendar
	PrevMonth  key.Binding
	NextMonth  key.Binding
	Today      key.Binding
	ResetShown key.Binding
	Priority   key.Binding

	// notes
	NewFolder key.Binding
	Rename    key.Binding
	Revert    key.Binding

	// tabs
	NextTab     key.Binding
	PrevTab     key.Binding
	TabTasks    key.Binding
	TabCalendar key.Binding
	TabNotes    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("↵", "select")),
		Tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),

		Toggle:        key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle done")),
		Important:     key.NewBinding(key.WithKeys("s", "*"), key.WithHelp("s", "star")),
		NewImportant:  key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new important")),
		NewPersonal:   key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "new personal")),
		ShowCompleted: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "completed")),
		Report:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "report")),

		PrevMonth:  key.NewBinding(key.WithKeys("[", "pgup"), key.WithHelp("[", "prev month")),
		NextMonth:  key.NewBinding(key.WithKeys("]", "pgdown"), key.WithHelp("]", "next month")),
		Today:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		ResetShown: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "re-arm reminder")),
		Priority:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority")),

		NewFolder: key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new folder")),
		Rename:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Revert:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "revert")),

		NextTab:     key.NewBinding(key.WithKeys("ctrl+right"), key.WithHelp("ctrl+→", "next tab")),
		PrevTab:     key.NewBinding(key.WithKeys("ctrl+left"), key.WithHelp("ctrl+←", "prev tab")),
		TabTasks:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "tasks")),
		TabCalendar: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "calendar")),
		TabNotes:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "notes")),
	}
}

// Help is a subset of the bindings rendered by bubbles/help
type Help struct {
	Short []key.Binding
	Full  [][]key.Binding
}

func (h Help) ShortHelp() []key.Binding  { return h.Short }
func (h Help) FullHelp() [][]key.Binding { return h.Full }
