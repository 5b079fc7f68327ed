package history

import (
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// watcher wraps an fsnotify watcher on the store file so the browser
// refreshes when another process appends records.
type watcher struct {
	fs   *fsnotify.Watcher
	path string
}

// newWatcher watches the directory containing the store file. SQLite
// writes land in the main file and its -wal sidecar, so events are
// filtered by the store path prefix.
func newWatcher(path string) (*watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fs.Add(filepath.Dir(path)); err != nil {
		_ = fs.Close()
		return nil, err
	}

	return &watcher{fs: fs, path: path}, nil
}

// waitForChange returns a command that blocks until the store file is
// written to.
func (w *watcher) waitForChange() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.fs.Events:
				if !ok {
					return nil
				}
				if !strings.HasPrefix(event.Name, w.path) {
					continue
				}
				if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
					return ledgerChangedMsg{}
				}

			case _, ok := <-w.fs.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

func (w *watcher) close() {
	_ = w.fs.Close()
}
