// Package notes manages a vault of markdown notes on disk: the folder tree,
// name cleaning, the open-note editor buffer and a change watcher.
package notes

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the only file extension the vault shows and creates
const Ext = ".md"

const (
	defaultNoteName   = "New note"
	defaultFolderName = "New folder"
	invalidChars      = `<>:"/\|?*`
)

var (
	ErrExists       = errors.New("already exists")
	ErrOutsideVault = errors.New("path is outside the vault")
	ErrVaultRoot    = errors.New("cannot modify the vault root")
	ErrNotNote      = errors.New("not a note")
	ErrInvalidName  = errors.New("invalid name")
)

type Vault struct {
	root string
}

// Entry is one row of the flattened vault tree
type Entry struct {
	Path  string
	Name  string
	Depth int
	IsDir bool
}

// Open returns the vault rooted at root, creating the directory if needed
func Open(root string) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("create vault %s: %w", abs, err)
	}
	return &Vault{root: abs}, nil
}

func (v *Vault) Root() string {
	return v.root
}

// CleanName strips characters that are not allowed in file names and
// collapses runs of whitespace. An empty result becomes a default name.
func CleanName(name string, isFile bool) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidChars, r) {
			return -1
		}
		return r
	}, name)
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	if cleaned == "" {
		if isFile {
			return defaultNoteName
		}
		return defaultFolderName
	}
	return cleaned
}

// DisplayName is the base name of a path without the note extension
func DisplayName(path string) string {
	base := filepath.Base(path)
	if isNote(base) {
		return base[:len(base)-len(Ext)]
	}
	return base
}

func isNote(name string) bool {
	return strings.EqualFold(filepath.Ext(name), Ext)
}

// Tree walks the vault depth first. Folders come before notes and each
// level is sorted by name; hidden entries and non-note files are skipped.
func (v *Vault) Tree() ([]Entry, error) {
	var entries []Entry
	if err := v.walk(v.root, 0, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (v *Vault) walk(dir string, depth int, out *[]Entry) error {
	items, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IsDir() != items[j].IsDir() {
			return items[i].IsDir()
		}
		return strings.ToLower(items[i].Name()) < strings.ToLower(items[j].Name())
	})

	for _, item := range items {
		name := item.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)

		if item.IsDir() {
			*out = append(*out, Entry{Path: path, Name: name, Depth: depth, IsDir: true})
			if err := v.walk(path, depth+1, out); err != nil {
				return err
			}
			continue
		}
		if isNote(name) {
			*out = append(*out, Entry{Path: path, Name: DisplayName(name), Depth: depth})
		}
	}
	return nil
}

// resolve makes p absolute and checks that it lies inside the vault.
// Relative paths are taken relative to the vault root.
func (v *Vault) resolve(p string) (string, error) {
	if p == "" {
		return v.root, nil
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(v.root, p)
	}
	p = filepath.Clean(p)

	rel, err := filepath.Rel(v.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", p, ErrOutsideVault)
	}
	return p, nil
}

// BaseDir returns the folder new items are created in when path is
// selected: path itself for a folder, its parent for a note.
func (v *Vault) BaseDir(path string) (string, error) {
	p, err := v.resolve(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(p)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return p, nil
	}
	return filepath.Dir(p), nil
}

// CreateFolder makes a new folder named name under parent
func (v *Vault) CreateFolder(parent, name string) (string, error) {
	dir, err := v.BaseDir(parent)
	if err != nil {
		return "", err
	}

	name = CleanName(name, false)
	if err := checkName(name); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if exists(path) {
		return "", fmt.Errorf("folder %q: %w", filepath.Base(path), ErrExists)
	}
	if err := os.Mkdir(path, 0755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}
	return path, nil
}

// CreateNote creates an empty note named name under parent
func (v *Vault) CreateNote(parent, name string) (string, error) {
	dir, err := v.BaseDir(parent)
	if err != nil {
		return "", err
	}

	name = CleanName(name, true)
	if err := checkName(name); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+Ext)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return "", fmt.Errorf("note %q: %w", filepath.Base(path), ErrExists)
	}
	if err != nil {
		return "", fmt.Errorf("create note: %w", err)
	}
	return path, f.Close()
}

// Rename gives path a new name in the same folder and returns the new path.
// Notes keep their extension. Renaming to the same name, ignoring case, is
// a no-op.
func (v *Vault) Rename(path, newName string) (string, error) {
	old, err := v.resolve(path)
	if err != nil {
		return "", err
	}
	if old == v.root {
		return "", ErrVaultRoot
	}
	info, err := os.Stat(old)
	if err != nil {
		return "", err
	}

	name := CleanName(newName, !info.IsDir())
	if err := checkName(name); err != nil {
		return "", err
	}
	if !info.IsDir() && !isNote(name) {
		name += Ext
	}

	target := filepath.Join(filepath.Dir(old), name)
	if strings.EqualFold(old, target) {
		return old, nil
	}
	if exists(target) {
		return "", fmt.Errorf("%q: %w", name, ErrExists)
	}
	if err := os.Rename(old, target); err != nil {
		return "", fmt.Errorf("rename: %w", err)
	}
	return target, nil
}

// Delete removes a note, or a folder with everything in it
func (v *Vault) Delete(path string) error {
	p, err := v.resolve(path)
	if err != nil {
		return err
	}
	if p == v.root {
		return ErrVaultRoot
	}
	if _, err := os.Stat(p); err != nil {
		return err
	}
	return os.RemoveAll(p)
}

func (v *Vault) Read(path string) (string, error) {
	p, err := v.resolve(path)
	if err != nil {
		return "", err
	}
	if !isNote(p) {
		return "", fmt.Errorf("%s: %w", filepath.Base(p), ErrNotNote)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (v *Vault) Write(path, content string) error {
	p, err := v.resolve(path)
	if err != nil {
		return err
	}
	if !isNote(p) {
		return fmt.Errorf("%s: %w", filepath.Base(p), ErrNotNote)
	}
	return os.WriteFile(p, []byte(content), 0644)
}

// Rel returns path relative to the vault root, for display
func (v *Vault) Rel(path string) string {
	rel, err := filepath.Rel(v.root, path)
	if err != nil {
		return path
	}
	return rel
}

func checkName(name string) error {
	if name == "." || name == ".." {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
