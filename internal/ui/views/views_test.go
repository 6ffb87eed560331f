package views

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/zt/internal/db"
	"github.com/tgienger/zt/internal/logging"
	"github.com/tgienger/zt/internal/notes"
	"github.com/tgienger/zt/internal/reminder"
	"github.com/tgienger/zt/internal/report"
)

func newTestEnv(t *testing.T) Env {
	t.Helper()
	dir := t.TempDir()

	d, err := db.New(filepath.Join(dir, "zt.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	vault, err := notes.Open(filepath.Join(dir, "notes"))
	require.NoError(t, err)

	log := logging.Nop()
	return Env{
		DB:          d,
		Log:         log,
		Checker:     reminder.NewChecker(d, log),
		Exporter:    report.NewExporter(""),
		Vault:       vault,
		ReportDir:   filepath.Join(dir, "reports"),
		MondayFirst: true,
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	ctrlS    = tea.KeyMsg{Type: tea.KeyCtrlS}
	spaceKey = tea.KeyMsg{Type: tea.KeySpace}
)

// exec runs cmd and feeds its message back into m, the way the program
// loop would for a single message
func exec(m tea.Model, cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg != nil {
		m.Update(msg)
	}
	return msg
}
