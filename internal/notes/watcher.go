package notes

import (
	"io/fs"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ChangedMsg tells the notes view that something in the vault changed on disk
type ChangedMsg struct{}

// Watcher reports changes anywhere under the vault. fsnotify only watches
// single directories, so every folder is added and new ones are picked up
// as they appear.
type Watcher struct {
	fw      *fsnotify.Watcher
	changes chan struct{}
	done    chan struct{}
	log     *zap.SugaredLogger
}

func NewWatcher(root string, log *zap.SugaredLogger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fw:      fw,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
		log:     log,
	}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}

	go w.run()
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fw.Add(path)
	})
}

func (w *Watcher) run() {
	defer close(w.changes)
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if err := w.addTree(ev.Name); err != nil {
					// the path may already be gone again
					w.log.Debugw("watch new path", "path", ev.Name, "error", err)
				}
			}
			w.notify()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warnw("vault watcher", "error", err)
		}
	}
}

// notify coalesces bursts of events into a single pending change
func (w *Watcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

// Wait returns a command that blocks until the next change. The view
// issues it again after every ChangedMsg.
func (w *Watcher) Wait() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.changes; !ok {
			return nil
		}
		return ChangedMsg{}
	}
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}
