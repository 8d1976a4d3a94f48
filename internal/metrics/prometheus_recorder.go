package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "replaysync"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	admitted       prom.Counter
	rejected       *prom.CounterVec
	stabilize      *prom.HistogramVec
	uploadDuration *prom.HistogramVec
	uploads        *prom.CounterVec
	inFlight       prom.Gauge
	baselineSize   prom.Gauge
}

// NewPrometheusRecorder constructs the pipeline metrics and registers them on reg.
// A nil registry gets a fresh private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		admitted: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "events_admitted_total",
			Help:      "Replay files admitted for upload",
		}),
		rejected: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "events_rejected_total",
			Help:      "Filesystem events discarded by the event filter, by reason",
		}, []string{"reason"}),
		stabilize: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stabilize_duration_seconds",
			Help:      "Time spent waiting for replay files to stop growing",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		uploadDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_duration_seconds",
			Help:      "Duration of replay upload requests",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		uploads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Replay uploads by result",
		}, []string{"result"}),
		inFlight: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "units_in_flight",
			Help:      "Admitted replay files currently stabilizing or uploading",
		}),
		baselineSize: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "baseline_size",
			Help:      "Paths known to the current watch",
		}),
	}
	reg.MustRegister(pr.admitted, pr.rejected, pr.stabilize, pr.uploadDuration, pr.uploads, pr.inFlight, pr.baselineSize)
	return pr
}

func (p *PrometheusRecorder) IncAdmitted() {
	if p == nil {
		return
	}
	p.admitted.Inc()
}

func (p *PrometheusRecorder) IncRejected(reason RejectReason) {
	if p == nil {
		return
	}
	p.rejected.WithLabelValues(string(reason)).Inc()
}

func (p *PrometheusRecorder) ObserveStabilize(d time.Duration, stable bool) {
	if p == nil {
		return
	}
	res := "exhausted"
	if stable {
		res = "stable"
	}
	p.stabilize.WithLabelValues(res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveUpload(d time.Duration, success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.uploadDuration.WithLabelValues(res).Observe(d.Seconds())
	p.uploads.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) IncInFlight() {
	if p == nil {
		return
	}
	p.inFlight.Inc()
}

func (p *PrometheusRecorder) DecInFlight() {
	if p == nil {
		return
	}
	p.inFlight.Dec()
}

func (p *PrometheusRecorder) SetBaselineSize(n int) {
	if p == nil {
		return
	}
	p.baselineSize.Set(float64(n))
}

// HTTPHandler returns an http.Handler that serves Prometheus metrics for the provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

var _ Recorder = (*PrometheusRecorder)(nil)
var _ Recorder = NoopRecorder{}
