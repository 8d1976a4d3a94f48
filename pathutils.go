package replaysync

import (
	"os"
	"path/filepath"
	"strings"
)

// defaultReplayDir is where Slippi writes replays, relative to the user's home directory.
var defaultReplayDir = filepath.Join("Documents", "Slippi")

// DefaultWatchedPath returns the directory watched when the user has not chosen one. If the
// home directory cannot be resolved it returns the unexpanded "~" form.
func DefaultWatchedPath() string {
	return defaultWatchedPath(os.UserHomeDir)
}

func defaultWatchedPath(homeDir func() (string, error)) string {
	home, err := homeDir()
	if err != nil || home == "" {
		return filepath.Join("~", defaultReplayDir)
	}
	return filepath.Join(home, defaultReplayDir)
}

// normalizePath returns the identity used for a path in the baseline. Paths on file systems
// tied to the working directory are made absolute so watch events and snapshots agree.
func normalizePath(fsys FileSystem, name string) string {
	if a, ok := fsys.(absolutizer); ok {
		if abs, err := a.Abs(name); err == nil {
			return abs
		}
	}
	return filepath.Clean(name)
}

// isWithin reports whether path lies strictly beneath root. Both must be normalized.
func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
