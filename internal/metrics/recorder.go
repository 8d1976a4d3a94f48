// Package metrics defines the observability hooks of the replay pipeline.
//
// Components receive a Recorder and default to NoopRecorder, so nothing has to nil-check.
// PrometheusRecorder forwards to client_golang collectors registered on a caller-supplied
// registry, and HTTPHandler exposes that registry for scraping.
package metrics

import "time"

// RejectReason enumerates why an event did not become an upload.
type RejectReason string

const (
	RejectNotQualifying RejectReason = "not_qualifying"
	RejectStale         RejectReason = "stale"
	RejectOutOfScope    RejectReason = "out_of_scope"
	RejectKnown         RejectReason = "known"
)

// Recorder defines observability hooks for the watch → stabilize → upload pipeline.
type Recorder interface {
	IncAdmitted()
	IncRejected(reason RejectReason)
	ObserveStabilize(d time.Duration, stable bool)
	ObserveUpload(d time.Duration, success bool)
	IncInFlight()
	DecInFlight()
	SetBaselineSize(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncAdmitted() {}
func (NoopRecorder) IncRejected(RejectReason) {}
func (NoopRecorder) ObserveStabilize(time.Duration, bool) {}
func (NoopRecorder) ObserveUpload(time.Duration, bool) {}
func (NoopRecorder) IncInFlight() {}
func (NoopRecorder) DecInFlight() {}
func (NoopRecorder) SetBaselineSize(int) {}
