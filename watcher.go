package replaysync

import (
	"log/slog"

	"github.com/spiretechnology/go-replaysync/internal/watcher"
)

// Watch is a live recursive watch installed on a directory.
type Watch interface {
	// Events delivers changes beneath the watched directory. Close must close it.
	Events() <-chan Event

	// Close releases the OS resources held by the watch.
	Close() error
}

// WatchFunc installs a recursive watch on dir.
type WatchFunc func(dir string) (Watch, error)

// NativeWatchFunc returns a WatchFunc backed by the operating system's notification API.
func NativeWatchFunc(logger *slog.Logger) WatchFunc {
	return func(dir string) (Watch, error) {
		w, err := watcher.New(dir, watcher.Options{Logger: logger})
		if err != nil {
			return nil, err
		}
		return w, nil
	}
}
