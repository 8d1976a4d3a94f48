//go:build !darwin

package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spiretechnology/go-replaysync/internal/logfields"
)

// Watcher is the fsnotify-backed recursive watch on a single root.
type Watcher struct {
	fsw    *fsnotify.Watcher
	root   string
	opts   Options
	events chan Event
	done   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// New installs a watch on root and every directory beneath it. Subdirectories that cannot
// be watched are skipped; failing to watch root itself is an error.
func New(root string, options Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:  fsw,
		root: root,
		opts: options.withDefaults(),
		done: make(chan struct{}),
	}
	w.events = make(chan Event, w.opts.Buffer)

	if err := w.addTree(root, false); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Events returns the channel of changes. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Root returns the directory the watch was installed on.
func (w *Watcher) Root() string {
	return w.root
}

// Close removes every OS watch and stops event delivery. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	close(w.events)
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.opts.Logger.Warn("Watch error", logfields.Dir(w.root), logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if err := w.addTree(event.Name, true); err != nil {
				w.opts.Logger.Warn("Failed to watch new directory", logfields.Dir(event.Name), logfields.Error(err))
			}
			return
		}
		w.emit(Event{Path: event.Name, Op: Create})
	case event.Has(fsnotify.Write):
		w.emit(Event{Path: event.Name, Op: Write})
	}
}

// addTree watches dir and all of its subdirectories. When report is set, regular files
// found along the way are emitted as created, since they may have landed before the
// watch on their directory existed.
func (w *Watcher) addTree(dir string, report bool) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			if report && d.Type().IsRegular() {
				if !w.emit(Event{Path: path, Op: Create}) {
					return filepath.SkipAll
				}
			}
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			if path == dir {
				return err
			}
			w.opts.Logger.Debug("Skipping unwatchable directory", logfields.Dir(path), logfields.Error(err))
			return filepath.SkipDir
		}
		return nil
	})
}

func (w *Watcher) emit(event Event) bool {
	select {
	case w.events <- event:
		return true
	case <-w.done:
		return false
	}
}
