package ui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/zt/internal/config"
	"github.com/tgienger/zt/internal/db"
	"github.com/tgienger/zt/internal/logging"
	"github.com/tgienger/zt/internal/notes"
	"github.com/tgienger/zt/internal/reminder"
	"github.com/tgienger/zt/internal/report"
	"github.com/tgienger/zt/internal/ui/views"
)

var intervals = config.RemindersConfig{TaskInterval: time.Minute, AgendaInterval: 30 * time.Second}

func newEnv(t *testing.T) views.Env {
	t.Helper()
	dir := t.TempDir()

	d, err := db.New(filepath.Join(dir, "zt.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	vault, err := notes.Open(filepath.Join(dir, "notes"))
	require.NoError(t, err)

	log := logging.Nop()
	return views.Env{
		DB:        d,
		Log:       log,
		Checker:   reminder.NewChecker(d, log),
		Exporter:  report.NewExporter(""),
		Vault:     vault,
		ReportDir: filepath.Join(dir, "reports"),
	}
}

// start runs the app's initial commands, the way the program would on
// startup, without following the ticks they schedule
func start(t *testing.T, a *App) {
	t.Helper()
	run(a, a.Init())
}

func run(a *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			run(a, c)
		}
		return
	}
	a.Update(msg)
}

func press(a *App, s string) tea.Cmd {
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestParseTab(t *testing.T) {
	for _, tab := range []Tab{TabTasks, TabCalendar, TabNotes} {
		got, ok := parseTab(tab.String())
		assert.True(t, ok)
		assert.Equal(t, tab, got)
	}
	_, ok := parseTab("projects")
	assert.False(t, ok)
}

func TestAppRestoresLastTab(t *testing.T) {
	env := newEnv(t)
	a := NewApp(env, intervals)
	assert.Equal(t, TabTasks, a.active)

	press(a, "2")
	assert.Equal(t, TabCalendar, a.active)
	a.Update(tea.KeyMsg{Type: tea.KeyCtrlRight})
	assert.Equal(t, TabNotes, a.active)

	last, err := env.DB.GetSetting(settingLastTab)
	require.NoError(t, err)
	assert.Equal(t, "notes", last)

	b := NewApp(env, intervals)
	assert.Equal(t, TabNotes, b.active)
}

func TestAppAlertsQueue(t *testing.T) {
	a := NewApp(newEnv(t), intervals)
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	a.Update(views.AlertMsg{Title: "Reminder", Body: "first"})
	a.Update(views.AlertMsg{Title: "Reminder", Body: "second"})
	require.Len(t, a.alerts, 2)
	assert.Contains(t, a.View(), "first")

	// keys other than dismiss are swallowed while an alert is up
	press(a, "2")
	assert.Equal(t, TabTasks, a.active)

	a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, a.alerts, 1)
	assert.Contains(t, a.View(), "second")

	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, a.alerts)
}

func TestAppDigitsReachCapturingView(t *testing.T) {
	a := NewApp(newEnv(t), intervals)
	start(t, a)

	press(a, "3")
	require.Equal(t, TabNotes, a.active)
	press(a, "n")
	require.True(t, a.notes.Capturing())

	press(a, "2")
	assert.Equal(t, TabNotes, a.active)
	assert.True(t, a.notes.Capturing())
}

func TestAppQuitGuardsUnsavedNote(t *testing.T) {
	env := newEnv(t)
	_, err := env.Vault.CreateNote(env.Vault.Root(), "Journal")
	require.NoError(t, err)

	a := NewApp(env, intervals)
	start(t, a)
	press(a, "3")
	a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	press(a, "x")
	require.True(t, a.notes.Dirty())
	a.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, press(a, "q"))
	assert.True(t, a.confirmQuit)
	assert.Contains(t, a.View(), "Journal")

	press(a, "n")
	assert.False(t, a.confirmQuit)

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd)
	assert.True(t, isQuit(press(a, "y")))
}

func TestAppQuitsWhenClean(t *testing.T) {
	a := NewApp(newEnv(t), intervals)
	assert.True(t, isQuit(press(a, "q")))
}
