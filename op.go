package replaysync

import "github.com/spiretechnology/go-replaysync/internal/watcher"

// Op defines the kind of change a watch reported for a path
type Op = watcher.Op

const (
	Create = watcher.Create
	Write  = watcher.Write
)

// Event represents a single change reported by a watch
type Event = watcher.Event
