package replaysync

import (
	"github.com/spiretechnology/go-replaysync/internal/logfields"
	"github.com/spiretechnology/go-replaysync/internal/metrics"
)

// admit decides whether an event reported by w is a new replay. A path is admitted at most
// once while it stays in the baseline.
func (s *Service) admit(w Watch, path string) (FoundFile, bool) {
	path = normalizePath(s.fs, path)
	if !s.qualifies(path) {
		s.reject(path, metrics.RejectNotQualifying)
		return FoundFile{}, false
	}

	s.mu.Lock()
	var reason metrics.RejectReason
	switch {
	case w == nil || s.watch != w:
		reason = metrics.RejectStale
	case !isWithin(s.dir, path):
		reason = metrics.RejectOutOfScope
	case !s.baseline.Insert(path):
		reason = metrics.RejectKnown
	}
	root, known := s.dir, s.baseline.Len()
	s.mu.Unlock()

	if reason != "" {
		s.reject(path, reason)
		return FoundFile{}, false
	}
	s.recorder.SetBaselineSize(known)
	return newFoundFile(root, path), true
}

// qualifies reports whether path is a regular file the filter accepts.
func (s *Service) qualifies(path string) bool {
	if !matches(s.ctx, s.filter, path) {
		return false
	}
	info, err := s.fs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (s *Service) reject(path string, reason metrics.RejectReason) {
	s.recorder.IncRejected(reason)
	s.logger.Debug("Ignoring event", logfields.Path(path), logfields.Reason(string(reason)))
}
