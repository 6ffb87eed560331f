package notes

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVault(t *testing.T) *Vault {
	t.Helper()
	v, err := Open(filepath.Join(t.TempDir(), "vault"))
	require.NoError(t, err)
	return v
}

func TestCleanName(t *testing.T) {
	cases := []struct {
		in     string
		isFile bool
		want   string
	}{
		{"Shopping list", true, "Shopping list"},
		{`  a<b>c:d"e/f\g|h?i*j  `, true, "abcdefghij"},
		{"too    many \t spaces", false, "too many spaces"},
		{"", true, "New note"},
		{` <>?* `, true, "New note"},
		{"   ", false, "New folder"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CleanName(c.in, c.isFile), c.in)
	}
}

func TestCreateAndTree(t *testing.T) {
	v := newVault(t)

	work, err := v.CreateFolder("", "Work")
	require.NoError(t, err)
	_, err = v.CreateFolder("", "archive")
	require.NoError(t, err)

	note, err := v.CreateNote(work, "Ideas: 2025?")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, "Ideas 2025.md"), note)

	// a note selected as parent creates a sibling
	sibling, err := v.CreateNote(note, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, "New note.md"), sibling)

	_, err = v.CreateNote(work, "Ideas 2025")
	assert.True(t, errors.Is(err, ErrExists))
	_, err = v.CreateFolder("", "Work")
	assert.True(t, errors.Is(err, ErrExists))
	_, err = v.CreateFolder("", "..")
	assert.True(t, errors.Is(err, ErrInvalidName))

	_, err = v.CreateNote("", "top")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(v.Root(), "image.png"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(v.Root(), ".git"), 0755))

	tree, err := v.Tree()
	require.NoError(t, err)
	var names []string
	for _, e := range tree {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"archive", "Work", "Ideas 2025", "New note", "top"}, names)
	assert.Equal(t, 1, tree[2].Depth)
	assert.True(t, tree[1].IsDir)
}

func TestRename(t *testing.T) {
	v := newVault(t)

	folder, err := v.CreateFolder("", "Projects")
	require.NoError(t, err)
	note, err := v.CreateNote(folder, "draft")
	require.NoError(t, err)
	require.NoError(t, v.Write(note, "hello"))

	renamed, err := v.Rename(note, "final")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(folder, "final.md"), renamed)

	again, err := v.Rename(renamed, "FINAL.md")
	require.NoError(t, err)
	assert.Equal(t, renamed, again)

	other, err := v.CreateNote(folder, "other")
	require.NoError(t, err)
	_, err = v.Rename(other, "final")
	assert.True(t, errors.Is(err, ErrExists))

	moved, err := v.Rename(folder, "Done")
	require.NoError(t, err)
	content, err := v.Read(filepath.Join(moved, "final.md"))
	require.NoError(t, err)
	assert.Equal(t, "hello", content)

	_, err = v.Rename(v.Root(), "x")
	assert.True(t, errors.Is(err, ErrVaultRoot))
}

func TestDeleteAndBounds(t *testing.T) {
	v := newVault(t)

	folder, err := v.CreateFolder("", "Trash")
	require.NoError(t, err)
	_, err = v.CreateNote(folder, "gone")
	require.NoError(t, err)

	require.NoError(t, v.Delete(folder))
	assert.NoDirExists(t, folder)

	assert.True(t, errors.Is(v.Delete(""), ErrVaultRoot))
	assert.True(t, errors.Is(v.Write("../escape.md", "x"), ErrOutsideVault))
	_, err = v.Read(filepath.Join(v.Root(), "..", "other.md"))
	assert.True(t, errors.Is(err, ErrOutsideVault))
	assert.True(t, errors.Is(v.Write("plain.txt", "x"), ErrNotNote))
}
