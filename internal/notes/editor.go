package notes

import (
	"os"
	"path/filepath"
	"strings"
)

// Editor is the buffer of the currently open note
type Editor struct {
	vault   *Vault
	path    string
	saved   string
	content string
	crlf    bool // line endings of the file on disk
}

func NewEditor(v *Vault) *Editor {
	return &Editor{vault: v}
}

// Open loads a note, dropping whatever was in the buffer. CRLF line endings
// are kept as plain newlines in the buffer and restored by Save.
func (e *Editor) Open(path string) error {
	content, err := e.vault.Read(path)
	if err != nil {
		return err
	}
	e.path = filepath.Clean(path)
	e.crlf = strings.Contains(content, "\r\n")
	if e.crlf {
		content = strings.ReplaceAll(content, "\r\n", "\n")
	}
	e.saved = content
	e.content = content
	return nil
}

func (e *Editor) IsOpen() bool {
	return e.path != ""
}

func (e *Editor) Path() string {
	return e.path
}

func (e *Editor) Content() string {
	return e.content
}

func (e *Editor) Dirty() bool {
	return e.path != "" && e.content != e.saved
}

// HasTabs reports whether the note on disk contains tab characters
func (e *Editor) HasTabs() bool {
	return strings.Contains(e.saved, "\t")
}

func (e *Editor) Name() string {
	return DisplayName(e.path)
}

// SetContent replaces the buffer. It has no effect when no note is open.
func (e *Editor) SetContent(s string) {
	if e.path == "" {
		return
	}
	e.content = s
}

func (e *Editor) Save() error {
	if e.path == "" {
		return nil
	}
	out := e.content
	if e.crlf {
		out = strings.ReplaceAll(out, "\n", "\r\n")
	}
	if err := e.vault.Write(e.path, out); err != nil {
		return err
	}
	e.saved = e.content
	return nil
}

// Revert reloads the open note from disk
func (e *Editor) Revert() error {
	if e.path == "" {
		return nil
	}
	return e.Open(e.path)
}

func (e *Editor) Close() {
	e.path = ""
	e.saved = ""
	e.content = ""
	e.crlf = false
}

// Affected reports whether changing path touches the open note, either
// because it is the note or a folder containing it.
func (e *Editor) Affected(path string) bool {
	if e.path == "" {
		return false
	}
	path = filepath.Clean(path)
	return e.path == path || strings.HasPrefix(e.path, path+string(os.PathSeparator))
}

// Follow re-targets the open note after from was renamed to to
func (e *Editor) Follow(from, to string) {
	if !e.Affected(from) {
		return
	}
	from = filepath.Clean(from)
	if e.path == from {
		e.path = filepath.Clean(to)
		return
	}
	rel, err := filepath.Rel(from, e.path)
	if err != nil {
		return
	}
	e.path = filepath.Join(to, rel)
}
