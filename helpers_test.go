package replaysync_test

import (
	"io/fs"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spiretechnology/go-replaysync"
	"github.com/spiretechnology/go-replaysync/mocks"
	"github.com/stretchr/testify/mock"
)

// fakeWatch is a Watch whose events are fed by the test.
type fakeWatch struct {
	dir    string
	events chan replaysync.Event

	mu     sync.Mutex
	closed bool
}

func (w *fakeWatch) Events() <-chan replaysync.Event {
	return w.events
}

func (w *fakeWatch) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.events)
	}
	return nil
}

func (w *fakeWatch) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Emit blocks until the service has received the event.
func (w *fakeWatch) Emit(op replaysync.Op, path string) {
	w.events <- replaysync.Event{Path: path, Op: op}
}

// fakeWatches records every watch installed through WatchFunc.
type fakeWatches struct {
	mu      sync.Mutex
	watches []*fakeWatch
	err     error
}

func (f *fakeWatches) WatchFunc(dir string) (replaysync.Watch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	w := &fakeWatch{dir: dir, events: make(chan replaysync.Event)}
	f.watches = append(f.watches, w)
	return w, nil
}

func (f *fakeWatches) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeWatches) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.watches)
}

func (f *fakeWatches) Last() *fakeWatch {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.watches) == 0 {
		return nil
	}
	return f.watches[len(f.watches)-1]
}

// recordingUploader returns a mock uploader that reports every uploaded path on the channel.
func recordingUploader(err error) (*mocks.MockUploader, chan string) {
	uploads := make(chan string, 32)
	uploader := &mocks.MockUploader{}
	uploader.On("Upload", mock.Anything, mock.Anything).Return(err).Run(func(args mock.Arguments) {
		uploads <- args.String(1)
	})
	return uploader, uploads
}

func waitForUpload(t *testing.T, uploads <-chan string) string {
	t.Helper()
	select {
	case path := <-uploads:
		return path
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for upload")
		return ""
	}
}

// scriptedFS reports the given sizes, in order, for every Stat call. The last size repeats
// once the script runs out and a negative size is reported as a missing file.
type scriptedFS struct {
	replaysync.FileSystem

	mu    sync.Mutex
	sizes []int64
	calls int
}

func (f *scriptedFS) Stat(path string) (fs.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	size := f.sizes[min(f.calls, len(f.sizes)-1)]
	f.calls++
	if size < 0 {
		return nil, fs.ErrNotExist
	}
	return sizeInfo{name: filepath.Base(path), size: size}, nil
}

func (f *scriptedFS) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type sizeInfo struct {
	name string
	size int64
}

func (i sizeInfo) Name() string       { return i.name }
func (i sizeInfo) Size() int64        { return i.size }
func (i sizeInfo) Mode() fs.FileMode  { return 0o644 }
func (i sizeInfo) ModTime() time.Time { return time.Time{} }
func (i sizeInfo) IsDir() bool        { return false }
func (i sizeInfo) Sys() any           { return nil }
