package replaysync

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/spiretechnology/go-replaysync/internal/metrics"
)

type Option func(s *Service)

// WithFileSystem sets the file system used for snapshots, stat checks and uploads.
func WithFileSystem(fsys FileSystem) Option {
	return func(s *Service) {
		s.fs = fsys
	}
}

// WithFilter replaces the extension filter.
func WithFilter(filter Filter) Option {
	return func(s *Service) {
		s.filter = filter
	}
}

// WithExtension sets the replay extension, matched case-insensitively.
func WithExtension(ext string) Option {
	return func(s *Service) {
		s.filter = ExtensionFilter(ext)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithRecorder(recorder metrics.Recorder) Option {
	return func(s *Service) {
		s.recorder = recorder
	}
}

// WithUploader replaces the HTTP uploader.
func WithUploader(uploader Uploader) Option {
	return func(s *Service) {
		s.uploader = uploader
	}
}

// WithServerURL sets the base URL of the default HTTP uploader, taking precedence over the
// environment.
func WithServerURL(serverURL string) Option {
	return func(s *Service) {
		s.serverURL = serverURL
	}
}

// WithHTTPClient sets the client of the default HTTP uploader.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.httpClient = client
	}
}

func WithStabilityInterval(interval time.Duration) Option {
	return func(s *Service) {
		s.stabilityInterval = interval
	}
}

func WithStabilityAttempts(attempts int) Option {
	return func(s *Service) {
		s.stabilityAttempts = attempts
	}
}

// WithWatchFunc replaces the OS watch backend.
func WithWatchFunc(watchFunc WatchFunc) Option {
	return func(s *Service) {
		s.watchFunc = watchFunc
	}
}
