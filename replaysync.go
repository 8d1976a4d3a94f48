// Package replaysync watches a directory tree for new Slippi replays and uploads each one to
// the ingestion server once it has finished being written.
//
// Files that already exist when a directory is armed form the baseline and are never
// uploaded. Every other qualifying file is uploaded at most once per watch.
package replaysync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/spiretechnology/go-replaysync/internal/logfields"
	"github.com/spiretechnology/go-replaysync/internal/metrics"
	"github.com/spiretechnology/go-replaysync/internal/tree"
)

var (
	// ErrNotFound is returned when the directory to watch does not exist or is not a directory.
	ErrNotFound = errors.New("watch directory not found")
	// ErrWatchRegistration is returned when the OS watch could not be installed.
	ErrWatchRegistration = errors.New("watch registration failed")
	// ErrClosed is returned when the service has been closed.
	ErrClosed = errors.New("service closed")
)

// DefaultExtension is the extension of Slippi replays.
const DefaultExtension = ".slp"

// Service arms a recursive watch on one directory at a time and uploads new replays found
// beneath it.
type Service struct {
	fs                FileSystem
	filter            Filter
	uploader          Uploader
	watchFunc         WatchFunc
	logger            *slog.Logger
	recorder          metrics.Recorder
	serverURL         string
	httpClient        *http.Client
	stabilityInterval time.Duration
	stabilityAttempts int
	probe             *StabilityProbe

	// armMu serializes re-arms and Close. It may be held across I/O; mu never is.
	armMu sync.Mutex

	mu       sync.Mutex
	dir      string
	watch    Watch
	baseline *tree.Node
	closed   bool

	consumers sync.WaitGroup
	workers   workerGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// New creates a service. Nothing is watched until SetWatchedPath is called.
func New(options ...Option) *Service {
	s := &Service{
		fs:       DefaultFileSystem{},
		filter:   ExtensionFilter(DefaultExtension),
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		baseline: tree.NewTree(),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.fs == nil {
		s.fs = DefaultFileSystem{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.recorder == nil {
		s.recorder = metrics.NoopRecorder{}
	}
	if s.watchFunc == nil {
		s.watchFunc = NativeWatchFunc(s.logger)
	}
	if s.uploader == nil {
		s.uploader = NewHTTPUploader(s.fs, s.serverURL).WithClient(s.httpClient)
	}
	s.probe = NewStabilityProbe(s.fs, s.stabilityInterval, s.stabilityAttempts)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// DefaultWatchedPath returns the directory used when the user has not picked one.
func (s *Service) DefaultWatchedPath() string {
	return DefaultWatchedPath()
}

// WatchedPath returns the directory of the most recent re-arm, even if its watch failed to
// install, and false if no directory has been set.
func (s *Service) WatchedPath() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir, s.dir != ""
}

// Watching reports whether a watch is currently installed.
func (s *Service) Watching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watch != nil
}

// SetWatchedPath tears down the current watch, records the qualifying files already present
// under dir as the new baseline, and installs a recursive watch on dir.
//
// A missing directory fails with ErrNotFound and leaves the service untouched. If the watch
// cannot be installed the error wraps ErrWatchRegistration and nothing is watched until the
// next successful call.
func (s *Service) SetWatchedPath(dir string) error {
	dir = normalizePath(s.fs, dir)
	info, err := s.fs.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return fmt.Errorf("%w: %s: %w", ErrNotFound, dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrNotFound, dir)
	}

	s.armMu.Lock()
	defer s.armMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	previous := s.watch
	s.watch = nil
	s.dir = dir
	s.mu.Unlock()

	if previous != nil {
		if err := previous.Close(); err != nil {
			s.logger.Warn("Failed to close previous watch", logfields.Error(err))
		}
	}

	baseline := collectBaseline(s.fs, dir, s.filter)
	s.mu.Lock()
	s.baseline = baseline
	s.mu.Unlock()
	s.recorder.SetBaselineSize(baseline.Len())

	w, err := s.watchFunc(dir)
	if err != nil {
		s.logger.Error("Failed to watch directory", logfields.Dir(dir), logfields.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrWatchRegistration, dir, err)
	}

	s.mu.Lock()
	s.watch = w
	s.mu.Unlock()

	s.consumers.Add(1)
	go s.consume(w)

	s.logger.Info("Watching directory", logfields.Dir(dir), logfields.Baseline(baseline.Len()))
	return nil
}

// Close tears down the watch and waits for in-flight uploads, bounded by ctx. Uploads still
// running when ctx is done are cancelled.
func (s *Service) Close(ctx context.Context) error {
	s.armMu.Lock()
	defer s.armMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	w := s.watch
	s.watch = nil
	s.mu.Unlock()

	var errs []error
	if w != nil {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing watch: %w", err))
		}
	}
	s.consumers.Wait()

	if err := s.workers.StopAndWait(ctx); err != nil {
		errs = append(errs, fmt.Errorf("waiting for uploads: %w", err))
	}
	s.cancel()
	return errors.Join(errs...)
}

// consume drains the events of one watch until it is closed.
func (s *Service) consume(w Watch) {
	defer s.consumers.Done()
	for event := range w.Events() {
		file, ok := s.admit(w, event.Path)
		if !ok {
			continue
		}
		s.dispatch(file)
	}
}

func (s *Service) dispatch(file FoundFile) {
	s.recorder.IncAdmitted()
	if !s.workers.Go(func() { s.process(file) }) {
		s.logger.Debug("Service closing, dropping replay", logfields.Path(file.Path))
	}
}

// process waits for the file to settle and uploads it. Failures are logged and dropped.
func (s *Service) process(file FoundFile) {
	s.recorder.IncInFlight()
	defer s.recorder.DecInFlight()

	logger := s.logger.With(logfields.FileID(file.ID), logfields.Path(file.Path))

	start := time.Now()
	size, stable := s.probe.WaitUntilStable(s.ctx, file.Path)
	s.recorder.ObserveStabilize(time.Since(start), stable)
	if !stable {
		logger.Debug("Replay size did not settle, uploading anyway", logfields.Size(size))
	}

	start = time.Now()
	err := s.uploader.Upload(s.ctx, file.Path)
	elapsed := time.Since(start)
	s.recorder.ObserveUpload(elapsed, err == nil)
	if err != nil {
		logger.Debug("Upload failed", logfields.Error(err), logfields.Duration(elapsed))
		return
	}
	logger.Info("Uploaded replay", logfields.Size(size), logfields.Stable(stable), logfields.Duration(elapsed))
}
