package notes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorDirtyTracking(t *testing.T) {
	v := newVault(t)
	path, err := v.CreateNote("", "journal")
	require.NoError(t, err)

	e := NewEditor(v)
	e.SetContent("ignored")
	assert.False(t, e.Dirty())

	require.NoError(t, e.Open(path))
	assert.Equal(t, "journal", e.Name())
	assert.False(t, e.Dirty())

	e.SetContent("day one")
	assert.True(t, e.Dirty())
	e.SetContent("")
	assert.False(t, e.Dirty())

	e.SetContent("day one")
	require.NoError(t, e.Save())
	assert.False(t, e.Dirty())

	e.SetContent("day one, edited")
	require.NoError(t, e.Revert())
	assert.Equal(t, "day one", e.Content())
	assert.False(t, e.Dirty())

	e.Close()
	assert.False(t, e.IsOpen())
	assert.NoError(t, e.Save())
}

func TestEditorFollowsRename(t *testing.T) {
	v := newVault(t)
	folder, err := v.CreateFolder("", "Work")
	require.NoError(t, err)
	path, err := v.CreateNote(folder, "plan")
	require.NoError(t, err)

	e := NewEditor(v)
	require.NoError(t, e.Open(path))

	assert.True(t, e.Affected(folder))
	assert.True(t, e.Affected(path))
	assert.False(t, e.Affected(filepath.Join(v.Root(), "Wor")))

	renamed, err := v.Rename(folder, "Office")
	require.NoError(t, err)
	e.Follow(folder, renamed)
	assert.Equal(t, filepath.Join(renamed, "plan.md"), e.Path())

	e.SetContent("kept")
	require.NoError(t, e.Save())

	newPath, err := v.Rename(e.Path(), "roadmap")
	require.NoError(t, err)
	e.Follow(e.Path(), newPath)
	assert.Equal(t, newPath, e.Path())

	content, err := v.Read(newPath)
	require.NoError(t, err)
	assert.Equal(t, "kept", content)
}

func TestEditorKeepsWindowsLineEndings(t *testing.T) {
	v := newVault(t)
	path := filepath.Join(v.Root(), "Tabs.md")
	require.NoError(t, os.WriteFile(path, []byte("a\tb\r\nline two\r\n"), 0644))

	e := NewEditor(v)
	require.NoError(t, e.Open(path))
	assert.Equal(t, "a\tb\nline two\n", e.Content())
	assert.True(t, e.HasTabs())
	assert.False(t, e.Dirty())

	require.NoError(t, e.Save())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\tb\r\nline two\r\n", string(data))

	e.SetContent("a\tb\nline two\nthree")
	require.NoError(t, e.Save())
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\tb\r\nline two\r\nthree", string(data))

	plain, err := v.CreateNote("", "plain")
	require.NoError(t, err)
	require.NoError(t, e.Open(plain))
	assert.False(t, e.HasTabs())
	e.SetContent("one\ntwo")
	require.NoError(t, e.Save())
	data, err = os.ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", string(data))
}
