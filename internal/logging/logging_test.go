package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/zt/internal/config"
)

func TestNewWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "zt.log")
	log, err := New(config.LogConfig{Path: path, Level: "info", MaxSizeMB: 1})
	require.NoError(t, err)

	log.Debugw("hidden")
	log.Infow("task created", "id", 7)
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"task created"`)
	assert.Contains(t, string(data), `"id":7`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LogConfig{Path: filepath.Join(t.TempDir(), "zt.log"), Level: "loud"})
	assert.Error(t, err)
}
