// Package watcher installs a recursive filesystem watch on a directory tree and reports
// file creations and writes on a channel.
//
// On darwin the watch is backed by FSEvents, which is natively recursive. Everywhere else
// it is backed by fsnotify, and directories created after the watch starts are added as
// they appear; files already inside such a directory are reported as created.
package watcher

import "log/slog"

// Op is the kind of change reported for a path.
type Op uint8

const (
	Create Op = 1 << 0
	Write  Op = 1 << 1
)

func (op Op) String() string {
	switch op {
	case Create:
		return "create"
	case Write:
		return "write"
	default:
		return "unknown"
	}
}

// Event represents a single filesystem change.
type Event struct {
	Path string
	Op   Op
}

// Options controls watcher behavior.
type Options struct {
	Logger *slog.Logger

	// Buffer is the capacity of the events channel.
	Buffer int
}

const defaultBuffer = 64

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Buffer <= 0 {
		o.Buffer = defaultBuffer
	}
	return o
}
