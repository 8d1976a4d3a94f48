package replaysync

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charlievieth/fastwalk"
)

// FileSystem is an interface for the common file system functions needed by the service
type FileSystem interface {

	// ReadDir returns the entries of the directory at the given path.
	ReadDir(dir string) ([]fs.DirEntry, error)

	// Stat returns the file info for the file at the given path.
	Stat(path string) (fs.FileInfo, error)

	// Open opens the file at the given path for reading.
	Open(path string) (fs.File, error)
}

// walker is implemented by file systems that can walk a tree faster than repeated ReadDir
// calls. The callback may be invoked concurrently.
type walker interface {
	Walk(root string, fn fs.WalkDirFunc) error
}

// absolutizer is implemented by file systems whose relative paths depend on the process
// working directory.
type absolutizer interface {
	Abs(path string) (string, error)
}

// DefaultFileSystem is an implementation of FileSystem that uses the machine's native OS/runtime file system
type DefaultFileSystem struct{}

// ReadDir lists the entries in a directory on the file system
func (DefaultFileSystem) ReadDir(dir string) ([]fs.DirEntry, error) {
	return os.ReadDir(dir)
}

// Stat returns the file info for the file at the given path
func (DefaultFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Open opens the file at the given path
func (DefaultFileSystem) Open(path string) (fs.File, error) {
	return os.Open(path)
}

// Abs returns the absolute form of path
func (DefaultFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// Walk walks the tree rooted at root in parallel. Symlinks are not followed.
func (DefaultFileSystem) Walk(root string, fn fs.WalkDirFunc) error {
	return fastwalk.Walk(&fastwalk.Config{Follow: false}, root, fn)
}

// FromFS adapts an fs.FS into a FileSystem. Paths handed to the returned FileSystem are
// interpreted relative to the root of fsys; a leading separator is ignored.
func FromFS(fsys fs.FS) FileSystem {
	return ioFS{fsys: fsys}
}

type ioFS struct {
	fsys fs.FS
}

func (f ioFS) ReadDir(dir string) ([]fs.DirEntry, error) {
	return fs.ReadDir(f.fsys, toFSPath(dir))
}

func (f ioFS) Stat(path string) (fs.FileInfo, error) {
	return fs.Stat(f.fsys, toFSPath(path))
}

func (f ioFS) Open(path string) (fs.File, error) {
	return f.fsys.Open(toFSPath(path))
}

// toFSPath converts an OS-style path into the unrooted slash form io/fs expects.
func toFSPath(name string) string {
	name = strings.TrimLeft(filepath.ToSlash(filepath.Clean(name)), "/")
	if name == "" {
		return "."
	}
	return name
}
