package levels

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

var errNothingToWatch = errors.New("levels: no watchable directories on disk")

// Change is one reloadable file edit: a level yaml or a motion script.
type Change struct {
	Path   string
	Script bool
}

// Watcher reports edits to level files so a dev build can reload the running
// level without restarting. Editor save bursts are coalesced per file.
type Watcher struct {
	fs      *fsnotify.Watcher
	Changes chan Change
	Errors  chan error

	closeCh chan struct{}
	once    sync.Once
}

const debounce = 100 * time.Millisecond

// NewWatcher watches the given directories. Directories that do not exist are
// skipped so a build without disk levels still starts.
func NewWatcher(dirs ...string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watched := 0
	for _, dir := range dirs {
		if err := fs.Add(dir); err == nil {
			watched++
		}
	}
	if watched == 0 {
		_ = fs.Close()
		return nil, errNothingToWatch
	}

	w := &Watcher{
		fs:      fs,
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
		close(w.Changes)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	seen := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if change, ok := classify(event); ok && w.debounced(seen, event.Name) {
				w.Changes <- change
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.Errors <- err
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) debounced(seen map[string]time.Time, name string) bool {
	now := time.Now()
	if t, ok := seen[name]; ok && now.Sub(t) < debounce {
		return false
	}
	seen[name] = now
	return true
}

func classify(event fsnotify.Event) (Change, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return Change{}, false
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".yaml", ".yml":
		return Change{Path: event.Name}, true
	case ".tengo":
		return Change{Path: event.Name, Script: true}, true
	}
	return Change{}, false
}
