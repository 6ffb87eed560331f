package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg", "config.yaml")

	m, err := NewManager(path, dir)
	require.NoError(t, err)
	assert.Equal(t, Default(dir), m.Config())
	assert.Equal(t, filepath.Join(dir, "reports"), m.Config().Report.Dir)
	assert.FileExists(t, path)

	// a second load reads the file back unchanged
	again, err := NewManager(path, dir)
	require.NoError(t, err)
	assert.Equal(t, m.Config(), again.Config())
}

func TestLoadKeepsDefaultsForUnsetKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
reminders:
  task_interval: 45s
notes:
  vault: /tmp/vault
`), 0644))

	m, err := NewManager(path, dir)
	require.NoError(t, err)
	cfg := m.Config()
	assert.Equal(t, 45*time.Second, cfg.Reminders.TaskInterval)
	assert.Equal(t, 15*time.Second, cfg.Reminders.AgendaInterval)
	assert.Equal(t, "/tmp/vault", cfg.Notes.Vault)
	assert.Equal(t, filepath.Join(dir, "zt.db"), cfg.Database.Path)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	require.NoError(t, os.WriteFile(path, []byte("reminders:\n  agenda_interval: 10ms\n"), 0644))
	_, err := NewManager(path, dir)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("database: [oops"), 0644))
	_, err = NewManager(path, dir)
	assert.Error(t, err)
}
