package views

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/zt/internal/notes"
	"github.com/tgienger/zt/internal/ui/keys"
	"github.com/tgienger/zt/internal/ui/styles"
)

const treeWidth = 34

type promptKind int

const (
	promptNote promptKind = iota
	promptFolder
	promptRename
)

// NotesView browses the vault on the left and edits one note on the right
type NotesView struct {
	env    Env
	styles *styles.Styles
	keys   keys.KeyMap
	help   help.Model

	width  int
	height int

	entries   []notes.Entry
	collapsed map[string]bool
	cursor    int
	scrollY   int
	follow    string // path to select after the next load

	editor   *notes.Editor
	textarea textarea.Model
	shown    string // editor content the textarea was last set from or edited to
	editing  bool   // editor has focus

	prompting  bool
	promptKind promptKind
	promptPath string // entry the prompt acts on
	prompt     textinput.Model

	confirm confirmDialog

	showHelpPopup bool
}

// NewNotesView creates the notes view
func NewNotesView(env Env) *NotesView {
	s := styles.NewStyles()

	ta := textarea.New()
	ta.Placeholder = "Select or create a note"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0

	prompt := textinput.New()
	prompt.CharLimit = 120

	return &NotesView{
		env:       env,
		styles:    s,
		keys:      keys.DefaultKeyMap(),
		help:      newHelp(s),
		collapsed: make(map[string]bool),
		editor:    notes.NewEditor(env.Vault),
		textarea:  ta,
		prompt:    prompt,
	}
}

func (v *NotesView) Init() tea.Cmd {
	cmds := []tea.Cmd{v.load()}
	if v.env.Watcher != nil {
		cmds = append(cmds, v.env.Watcher.Wait())
	}
	return tea.Batch(cmds...)
}

// Capturing reports whether key presses go to the editor, a prompt or a dialog
func (v *NotesView) Capturing() bool {
	return v.editing || v.prompting || v.confirm.active
}

// Dirty reports unsaved changes in the open note
func (v *NotesView) Dirty() bool {
	return v.editor.Dirty()
}

// DirtyName names the note with unsaved changes
func (v *NotesView) DirtyName() string {
	return v.editor.Name()
}

type treeLoadedMsg struct {
	entries []notes.Entry
}

func (v *NotesView) load() tea.Cmd {
	vault := v.env.Vault
	return func() tea.Msg {
		entries, err := vault.Tree()
		if err != nil {
			return failure("read the vault", err)
		}
		return treeLoadedMsg{entries: entries}
	}
}

// visible returns the tree rows that are not inside a collapsed folder
func (v *NotesView) visible() []notes.Entry {
	var (
		out  []notes.Entry
		hide = -1 // depth of the collapsed folder being skipped
	)
	for _, e := range v.entries {
		if hide >= 0 {
			if e.Depth > hide {
				continue
			}
			hide = -1
		}
		out = append(out, e)
		if e.IsDir && v.collapsed[e.Path] {
			hide = e.Depth
		}
	}
	return out
}

func (v *NotesView) selected() (notes.Entry, bool) {
	rows := v.visible()
	if v.cursor < 0 || v.cursor >= len(rows) {
		return notes.Entry{}, false
	}
	return rows[v.cursor], true
}

// selectedPath is the selected entry, or the vault root when the tree is empty
func (v *NotesView) selectedPath() string {
	if e, ok := v.selected(); ok {
		return e.Path
	}
	return v.env.Vault.Root()
}

// Update handles messages
func (v *NotesView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.textarea.SetWidth(max(contentWidth-treeWidth-6, 20))
		v.textarea.SetHeight(max(v.height-6, 3))
		return v, nil

	case treeLoadedMsg:
		v.entries = msg.entries
		if v.follow != "" {
			for i, e := range v.visible() {
				if e.Path == v.follow {
					v.cursor = i
				}
			}
			v.follow = ""
		}
		v.cursor = clamp(v.cursor, 0, max(len(v.visible())-1, 0))
		v.ensureVisible()
		return v, nil

	case notes.ChangedMsg:
		v.syncOpenNote()
		return v, tea.Batch(v.load(), v.env.Watcher.Wait())

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.confirm.active {
			return v, v.confirm.update(msg)
		}
		if v.prompting {
			return v, v.updatePrompt(msg)
		}
		if v.editing {
			return v, v.updateEditor(msg)
		}
		return v, v.updateTree(msg)
	}
	return v, nil
}

// syncOpenNote follows external edits of the open note. Unsaved changes
// win over the file on disk.
func (v *NotesView) syncOpenNote() {
	if !v.editor.IsOpen() || v.editor.Dirty() {
		return
	}
	err := v.editor.Revert()
	if errors.Is(err, fs.ErrNotExist) {
		v.closeEditor()
		return
	}
	if err != nil {
		v.env.Log.Warnw("reload open note", "path", v.editor.Path(), "error", err)
		return
	}
	if v.editor.Content() != v.shown {
		v.showContent()
	}
}

// showContent loads the editor buffer into the textarea. The textarea may
// render the text differently (tabs become spaces), so only edits made
// through it are written back to the buffer.
func (v *NotesView) showContent() {
	v.shown = v.editor.Content()
	v.textarea.SetValue(v.shown)
}

func (v *NotesView) updateTree(msg tea.KeyMsg) tea.Cmd {
	rows := v.visible()

	switch {
	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(rows)-1 {
			v.cursor++
			v.ensureVisible()
		}

	case key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Right):
		e, ok := v.selected()
		if !ok {
			return nil
		}
		if e.IsDir {
			v.collapsed[e.Path] = !v.collapsed[e.Path]
			return nil
		}
		return v.openNote(e.Path)

	case key.Matches(msg, v.keys.Left):
		if e, ok := v.selected(); ok && e.IsDir {
			v.collapsed[e.Path] = true
		}

	case key.Matches(msg, v.keys.Tab):
		if v.editor.IsOpen() {
			v.focusEditor()
			return textarea.Blink
		}

	case key.Matches(msg, v.keys.New):
		return v.ask(promptNote, v.selectedPath(), "")

	case key.Matches(msg, v.keys.NewFolder):
		return v.ask(promptFolder, v.selectedPath(), "")

	case key.Matches(msg, v.keys.Rename):
		if e, ok := v.selected(); ok {
			return v.ask(promptRename, e.Path, e.Name)
		}

	case key.Matches(msg, v.keys.Delete):
		if e, ok := v.selected(); ok {
			v.askDelete(e)
		}

	case key.Matches(msg, v.keys.Save):
		return v.save()

	case key.Matches(msg, v.keys.Revert):
		v.askRevert()
	}
	return nil
}

func (v *NotesView) updateEditor(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Tab):
		v.editing = false
		v.textarea.Blur()
		return nil
	case key.Matches(msg, v.keys.Save):
		return v.save()
	case key.Matches(msg, v.keys.Revert):
		v.askRevert()
		return nil
	}

	before := v.textarea.Value()
	var cmd tea.Cmd
	v.textarea, cmd = v.textarea.Update(msg)
	if value := v.textarea.Value(); value != before {
		v.editor.SetContent(value)
		v.shown = value
	}
	return cmd
}

func (v *NotesView) focusEditor() {
	v.editing = true
	v.textarea.Focus()
}

func (v *NotesView) closeEditor() {
	v.editor.Close()
	v.editing = false
	v.textarea.Blur()
	v.textarea.Reset()
	v.shown = ""
}

// openNote loads path into the editor, asking before unsaved changes to
// another note are dropped
func (v *NotesView) openNote(path string) tea.Cmd {
	if v.editor.Path() == path {
		v.focusEditor()
		return textarea.Blink
	}
	if v.editor.Dirty() {
		name := v.editor.Name()
		v.confirm.ask("Unsaved changes", fmt.Sprintf("Discard the changes to %q?", name), func() tea.Cmd {
			return v.open(path)
		})
		return nil
	}
	return v.open(path)
}

func (v *NotesView) open(path string) tea.Cmd {
	if err := v.editor.Open(path); err != nil {
		return failed("open the note", err)
	}
	v.showContent()
	v.focusEditor()
	if v.editor.HasTabs() {
		return tea.Batch(textarea.Blink, alert("Tabs in note", "Tabs are shown as spaces and are saved as spaces once the note is edited."))
	}
	return textarea.Blink
}

func (v *NotesView) save() tea.Cmd {
	if !v.editor.IsOpen() {
		return nil
	}
	if err := v.editor.Save(); err != nil {
		return failed("save the note", err)
	}
	v.env.Log.Debugw("note saved", "path", v.env.Vault.Rel(v.editor.Path()))
	return nil
}

func (v *NotesView) askRevert() {
	if !v.editor.Dirty() {
		return
	}
	v.confirm.ask("Revert note?", fmt.Sprintf("Drop the unsaved changes to %q?", v.editor.Name()), func() tea.Cmd {
		if err := v.editor.Revert(); err != nil {
			return failed("reload the note", err)
		}
		v.showContent()
		return nil
	})
}

func (v *NotesView) askDelete(e notes.Entry) {
	what := "note"
	if e.IsDir {
		what = "folder and everything in it"
	}
	body := fmt.Sprintf("Delete the %s %q?", what, e.Name)
	if v.editor.Affected(e.Path) && v.editor.Dirty() {
		body += "\nUnsaved changes to the open note will be lost."
	}

	path := e.Path
	v.confirm.ask("Delete?", body, func() tea.Cmd {
		if err := v.env.Vault.Delete(path); err != nil {
			return failed("delete "+notes.DisplayName(path), err)
		}
		if v.editor.Affected(path) {
			v.closeEditor()
		}
		v.env.Log.Infow("vault entry deleted", "path", v.env.Vault.Rel(path))
		return v.load()
	})
}

// ask opens the name prompt for a new note, new folder or rename
func (v *NotesView) ask(kind promptKind, path, value string) tea.Cmd {
	v.prompting = true
	v.promptKind = kind
	v.promptPath = path
	v.prompt.SetValue(value)
	v.prompt.CursorEnd()
	switch kind {
	case promptNote:
		v.prompt.Placeholder = "New note"
	case promptFolder:
		v.prompt.Placeholder = "New folder"
	default:
		v.prompt.Placeholder = "Name"
	}
	v.prompt.Focus()
	return textinput.Blink
}

func (v *NotesView) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.prompting = false
		v.prompt.Blur()
		return nil
	case key.Matches(msg, v.keys.Enter):
		v.prompting = false
		v.prompt.Blur()
		return v.applyPrompt(strings.TrimSpace(v.prompt.Value()))
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return cmd
}

func (v *NotesView) applyPrompt(name string) tea.Cmd {
	vault := v.env.Vault

	switch v.promptKind {
	case promptFolder:
		path, err := vault.CreateFolder(v.promptPath, name)
		if err != nil {
			return failed("create the folder", err)
		}
		v.env.Log.Infow("folder created", "path", vault.Rel(path))
		v.follow = path
		return v.load()

	case promptNote:
		path, err := vault.CreateNote(v.promptPath, name)
		if err != nil {
			return failed("create the note", err)
		}
		v.env.Log.Infow("note created", "path", vault.Rel(path))
		v.follow = path
		return tea.Batch(v.load(), v.openNote(path))

	default:
		if name == "" {
			return nil
		}
		from := v.promptPath
		to, err := vault.Rename(from, name)
		if err != nil {
			return failed("rename "+notes.DisplayName(from), err)
		}
		v.editor.Follow(from, to)
		if v.collapsed[from] {
			delete(v.collapsed, from)
			v.collapsed[to] = true
		}
		v.env.Log.Infow("vault entry renamed", "from", vault.Rel(from), "to", vault.Rel(to))
		v.follow = to
		return v.load()
	}
}

func (v *NotesView) ensureVisible() {
	visible := max(v.height-6, 1)
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

// View renders the view
func (v *NotesView) View() string {
	contentWidth := styles.ContentWidth(v.width)

	var out string
	switch {
	case v.showHelpPopup:
		out = renderHelpPopup(v.styles, v.help, v.helpKeys(), contentWidth, v.height)
	case v.confirm.active:
		out = v.confirm.view(v.styles, contentWidth, v.height)
	default:
		out = v.renderMain(contentWidth)
	}
	return styles.CenterView(out, v.width, v.height)
}

func (v *NotesView) renderMain(width int) string {
	s := v.styles
	paneHeight := max(v.height-3, 6)

	treeStyle, editorStyle := s.PanelFocused, s.Panel
	if v.editing {
		treeStyle, editorStyle = s.Panel, s.PanelFocused
	}

	tree := treeStyle.Width(treeWidth - 2).Height(paneHeight - 2).Render(v.renderTree(treeWidth - 4))
	editor := editorStyle.Width(max(width-treeWidth-2, 22)).Height(paneHeight - 2).Render(v.renderEditor())

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, tree, editor),
		v.renderHelp(width),
	)
}

func (v *NotesView) renderTree(width int) string {
	s := v.styles
	header := s.PanelHeader.Render("Vault")

	if v.prompting {
		label := map[promptKind]string{promptNote: "New note", promptFolder: "New folder", promptRename: "Rename"}[v.promptKind]
		header = lipgloss.JoinVertical(lipgloss.Left, header, s.TitleMuted.Render(label+":"), s.InputFocused.Width(width-2).Render(v.prompt.View()))
	}

	rows := v.visible()
	if len(rows) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, "", s.TitleMuted.Render("Empty. 'n' note, 'N' folder."))
	}

	lines := []string{header}
	end := min(v.scrollY+max(v.height-6, 1), len(rows))
	for i := v.scrollY; i < end; i++ {
		e := rows[i]
		icon := "  "
		switch {
		case e.IsDir && v.collapsed[e.Path]:
			icon = "▸ "
		case e.IsDir:
			icon = "▾ "
		}
		name := e.Name
		if !e.IsDir && e.Path == v.editor.Path() && v.editor.Dirty() {
			name += " ●"
		}
		line := strings.Repeat("  ", e.Depth) + icon + truncate(name, max(width-2*e.Depth-4, 4))

		style := s.ListItem
		if e.IsDir {
			style = style.Foreground(styles.Current.Secondary)
		}
		if i == v.cursor {
			if v.editing {
				style = style.Foreground(styles.Current.Primary)
			} else {
				style = s.ListSelected
			}
		}
		lines = append(lines, style.Width(width).Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *NotesView) renderEditor() string {
	s := v.styles
	if !v.editor.IsOpen() {
		return s.TitleMuted.Render("No note open. Select one and press ↵.")
	}

	title := s.PanelHeader.Render(v.editor.Name())
	if v.editor.Dirty() {
		title += " " + s.Dirty.Render("● modified")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		s.Meta.Render(v.env.Vault.Rel(v.editor.Path())),
		v.textarea.View(),
	)
}

func (v *NotesView) helpKeys() keys.Help {
	k := v.keys
	return keys.Help{
		Short: []key.Binding{k.Enter, k.New, k.NewFolder, k.Rename, k.Delete, k.Save, k.Revert, k.Help},
		Full: [][]key.Binding{
			{k.Up, k.Down, k.Left, k.Right, k.Enter, k.Tab, k.Back},
			{k.New, k.NewFolder, k.Rename, k.Delete},
			{k.Save, k.Revert, k.TabTasks, k.TabCalendar, k.Quit},
		},
	}
}

func (v *NotesView) renderHelp(width int) string {
	if width > 0 && width < 60 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	v.help.Width = width
	return v.styles.Help.Render(v.help.View(v.helpKeys()))
}
