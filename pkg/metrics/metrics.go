// Package metrics exposes the Prometheus collectors for click recording,
// store calls and HTTP traffic.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "xlist"

// Click recording outcomes.
const (
	ClickRecorded = "recorded"
	ClickFailed   = "failed"
	ClickDisabled = "disabled"

	ClickUnknownProfile = "unknown_profile"
)

// Recorder receives domain measurements from commands and queries.
type Recorder interface {
	ClickOutcome(outcome string)
	StoreCall(operation string, elapsed time.Duration, err error)
}

// Nop discards every measurement.
type Nop struct{}

// ClickOutcome implements Recorder.
func (Nop) ClickOutcome(string) {}

// StoreCall implements Recorder.
func (Nop) StoreCall(string, time.Duration, error) {}

// Ensure returns r, or Nop when r is nil.
func Ensure(r Recorder) Recorder {
	if r == nil {
		return Nop{}
	}
	return r
}

// Prometheus implements Recorder on a dedicated registry.
type Prometheus struct {
	registry *prometheus.Registry

	clicks          *prometheus.CounterVec
	storeCalls      *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	httpInFlight    prometheus.Gauge
	trackerInFlight prometheus.Gauge
}

// New registers the xlist collectors on a fresh registry, together with the
// Go runtime and process collectors.
func New() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		clicks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "click_recordings_total",
				Help:      "Click recording attempts by outcome",
			},
			[]string{"outcome"},
		),
		storeCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_calls_total",
				Help:      "Store calls by operation and status",
			},
			[]string{"operation", "status"},
		),
		storeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_call_duration_seconds",
				Help:      "Store call latency in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"operation"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		httpInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being processed",
			},
		),
		trackerInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "click_tracker_in_flight",
				Help:      "Click recordings running detached from their request",
			},
		),
	}
}

var _ Recorder = (*Prometheus)(nil)

// ClickOutcome implements Recorder.
func (p *Prometheus) ClickOutcome(outcome string) {
	p.clicks.WithLabelValues(outcome).Inc()
}

// StoreCall implements Recorder.
func (p *Prometheus) StoreCall(operation string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	p.storeCalls.WithLabelValues(operation, status).Inc()
	p.storeDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// HTTPRequest records one finished request. path should be the route pattern.
func (p *Prometheus) HTTPRequest(method, path string, status int, elapsed time.Duration) {
	p.httpRequests.WithLabelValues(method, path, statusLabel(status)).Inc()
	p.httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// HTTPInFlight moves the in-flight request gauge by delta.
func (p *Prometheus) HTTPInFlight(delta float64) {
	p.httpInFlight.Add(delta)
}

// TrackerInFlight moves the detached click recording gauge by delta.
func (p *Prometheus) TrackerInFlight(delta float64) {
	p.trackerInFlight.Add(delta)
}

// Registry exposes the underlying registry, mainly for tests.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
