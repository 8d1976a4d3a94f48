package replaysync

import "github.com/google/uuid"

// FoundFile represents a replay admitted for upload
type FoundFile struct {
	// ID correlates the log lines of one file's stabilize and upload steps
	ID string
	// Path is the normalized path of the replay
	Path string
	// Root is the watched directory the replay was found under
	Root string
}

func newFoundFile(root, path string) FoundFile {
	return FoundFile{
		ID:   uuid.NewString(),
		Path: path,
		Root: root,
	}
}
