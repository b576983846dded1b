// Package telemetry provides finding sinks that export scan activity to
// Prometheus and OpenTelemetry. Both are fire-and-forget from the
// recorder's point of view: export trouble never fails a scan.
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vantascan/vantascan/pkg/duration"
	"github.com/vantascan/vantascan/pkg/finding"
	"github.com/vantascan/vantascan/pkg/recorder"
)

// Compile-time interface check.
var _ recorder.Sink = (*MetricsSink)(nil)

// MetricsSink counts findings by category, severity and technique and
// serves them for Prometheus scraping.
type MetricsSink struct {
	registry *prometheus.Registry
	server   *http.Server

	findingsTotal  *prometheus.CounterVec
	detectionDelay *prometheus.HistogramVec

	mu     sync.Mutex
	closed bool
}

// MetricsOptions configures the metrics endpoint.
type MetricsOptions struct {
	// Port for the metrics server. Default 9090. Negative disables the
	// server; the registry still collects for embedding.
	Port int

	// Path for the metrics endpoint. Default "/metrics".
	Path string
}

// NewMetricsSink builds the sink and, unless disabled, starts the scrape
// endpoint.
func NewMetricsSink(opts MetricsOptions) *MetricsSink {
	if opts.Port == 0 {
		opts.Port = 9090
	}
	if opts.Path == "" {
		opts.Path = "/metrics"
	}

	registry := prometheus.NewRegistry()
	s := &MetricsSink{
		registry: registry,
		findingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vantascan_findings_total",
			Help: "Findings recorded, by category, severity and technique.",
		}, []string{"category", "severity", "technique"}),
		detectionDelay: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vantascan_timing_delay_seconds",
			Help:    "Injected delay observed by timing findings.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 6),
		}, []string{"category"}),
	}
	registry.MustRegister(s.findingsTotal, s.detectionDelay)

	if opts.Port > 0 {
		mux := http.NewServeMux()
		mux.Handle(opts.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		s.server = &http.Server{
			Addr:         fmt.Sprintf(":%d", opts.Port),
			Handler:      mux,
			ReadTimeout:  duration.TelemetryShutdown,
			WriteTimeout: duration.TelemetryConnect,
		}
		go func() {
			_ = s.server.ListenAndServe()
		}()
	}
	return s
}

// LogFinding implements recorder.Sink.
func (s *MetricsSink) LogFinding(ctx context.Context, f finding.Finding) error {
	s.findingsTotal.WithLabelValues(f.Category, string(f.Severity), f.Technique).Inc()
	if f.Timing > 0 {
		s.detectionDelay.WithLabelValues(f.Category).Observe(f.Timing.Seconds())
	}
	return nil
}

// Registry exposes the underlying registry for embedding in an existing
// metrics server.
func (s *MetricsSink) Registry() *prometheus.Registry {
	return s.registry
}

// Close shuts the scrape endpoint down.
func (s *MetricsSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.server == nil {
		s.closed = true
		return nil
	}
	s.closed = true

	ctx, cancel := context.WithTimeout(context.Background(), duration.TelemetryShutdown)
	defer cancel()
	return s.server.Shutdown(ctx)
}
