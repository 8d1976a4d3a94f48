//go:build darwin

package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsevents"
)

const streamLatency = 100 * time.Millisecond

// startStream starts an FSEvents stream; replaced in tests.
var startStream = func(stream *fsevents.EventStream) error {
	return stream.Start()
}

// Watcher watches a directory tree using macOS FSEvents.
type Watcher struct {
	stream *fsevents.EventStream
	root   string
	// resolved is root with symlinks resolved; FSEvents reports resolved paths.
	resolved string
	opts     Options
	events   chan Event
	done     chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	closed   bool
}

// New starts an FSEvents stream rooted at root.
func New(root string, options Options) (*Watcher, error) {
	dev, err := fsevents.DeviceForPath(root)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:     root,
		resolved: resolved,
		opts:     options.withDefaults(),
		done:     make(chan struct{}),
	}
	w.events = make(chan Event, w.opts.Buffer)
	w.stream = &fsevents.EventStream{
		Paths:   []string{resolved},
		Latency: streamLatency,
		Device:  dev,
		Flags:   fsevents.FileEvents | fsevents.WatchRoot | fsevents.NoDefer,
	}
	if err := startStream(w.stream); err != nil {
		return nil, fmt.Errorf("starting event stream for %s: %w", root, err)
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

// Close stops the stream. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	w.stream.Stop()
	w.wg.Wait()
	close(w.events)
	return nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case batch, ok := <-w.stream.Events:
			if !ok {
				return
			}
			for _, event := range batch {
				if !w.handleEvent(event) {
					return
				}
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsevents.Event) bool {
	if event.Flags&fsevents.ItemIsFile == 0 {
		return true
	}

	var op Op
	switch {
	case event.Flags&(fsevents.ItemCreated|fsevents.ItemRenamed) != 0:
		op = Create
	case event.Flags&fsevents.ItemModified != 0:
		op = Write
	default:
		return true
	}

	select {
	case w.events <- Event{Path: w.unresolve(event.Path), Op: op}:
		return true
	case <-w.done:
		return false
	}
}

// unresolve maps a path reported under the resolved root back under the root the caller
// asked for, so callers can compare it against their own paths.
func (w *Watcher) unresolve(path string) string {
	if len(path) > 0 && path[0] != '/' {
		path = "/" + path
	}
	if rel, ok := strings.CutPrefix(path, w.resolved); ok && (rel == "" || rel[0] == '/') {
		return w.root + rel
	}
	return path
}
