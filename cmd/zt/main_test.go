package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/zt/internal/db"
)

// seed writes tasks into the database the default config points at
func seed(t *testing.T, dataDir string, inputs ...db.TaskInput) {
	t.Helper()
	d, err := db.New(filepath.Join(dataDir, "zt.db"))
	require.NoError(t, err)
	defer d.Close()
	for _, in := range inputs {
		_, err := d.CreateTask(in)
		require.NoError(t, err)
	}
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestVersion(t *testing.T) {
	code, out, _ := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "zt dev")
}

func TestReportWritesFile(t *testing.T) {
	dir := t.TempDir()
	due := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	seed(t, dir,
		db.TaskInput{Title: "Quarterly review", Tags: "Work", DueDate: &due},
		db.TaskInput{Title: "No date"},
	)

	out := filepath.Join(dir, "out", "march")
	code, stdout, stderr := run(t,
		"--config", filepath.Join(dir, "config.yaml"),
		"--data-dir", dir,
		"report", "--from", "2025-03-01", "--to", "2025-03-31", "--out", out,
	)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "1 tasks written to")

	data, err := os.ReadFile(out + ".txt")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Task: Quarterly review")
	assert.NotContains(t, string(data), "No date")

	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	assert.NoError(t, err, "defaults are written on first run")
}

func TestReportEmptyRange(t *testing.T) {
	dir := t.TempDir()
	code, stdout, _ := run(t,
		"--config", filepath.Join(dir, "config.yaml"),
		"--data-dir", dir,
		"report", "--from", "2025-01-01", "--to", "2025-01-31",
	)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "No tasks")
}

func TestReportRejectsBadDate(t *testing.T) {
	dir := t.TempDir()
	code, _, stderr := run(t,
		"--config", filepath.Join(dir, "config.yaml"),
		"--data-dir", dir,
		"report", "--from", "03/01/2025",
	)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--from")
}
