package replaysync

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/spiretechnology/go-replaysync/internal/tree"
)

// CollectExisting walks root recursively and returns every regular file accepted by filter.
// Directories that cannot be read are skipped, so the result may be partial.
func CollectExisting(fsys FileSystem, root string, filter Filter) []string {
	return collectBaseline(fsys, normalizePath(fsys, root), filter).Paths()
}

func collectBaseline(fsys FileSystem, root string, filter Filter) *tree.Node {
	var (
		mu       sync.Mutex
		baseline = tree.NewTree()
		ctx      = context.Background()
	)
	visit := func(path string, d fs.DirEntry, err error) error {
		if err != nil || d == nil || !d.Type().IsRegular() {
			return nil
		}
		if !matches(ctx, filter, path) {
			return nil
		}
		mu.Lock()
		baseline.Insert(normalizePath(fsys, path))
		mu.Unlock()
		return nil
	}

	if w, ok := fsys.(walker); ok {
		_ = w.Walk(root, visit)
	} else {
		_ = walkFiles(fsys, root, visit)
	}
	return baseline
}

// walkFiles calls fn for every non-directory entry beneath dir. A directory that cannot be
// listed is reported to fn with a nil entry.
func walkFiles(fsys FileSystem, dir string, fn fs.WalkDirFunc) error {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return fn(dir, nil, err)
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := walkFiles(fsys, path, fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(path, entry, nil); err != nil {
			return err
		}
	}
	return nil
}
