// Package observability provides metrics and tracing for the capability
// registry: Prometheus collectors for dispatch activity and an
// OpenTelemetry tracing provider with a dispatch span wrapper.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig configures the metrics provider
type MetricsConfig struct {
	// Service identification
	ServiceName    string
	ServiceVersion string
	Environment    string

	// Prometheus configuration
	MetricsPath string // HTTP path for metrics endpoint (default: /metrics)
	MetricsPort int    // Port for metrics server (default: 9090)

	// Metric options
	Namespace        string    // Prometheus namespace (default: mcpreg)
	HistogramBuckets []float64 // Custom histogram buckets for latency

	// Labels to add to all metrics
	ConstLabels prometheus.Labels

	// Registerer overrides the default registry, mainly for tests.
	Registerer prometheus.Registerer
}

// MetricsProvider records registry and dispatch activity
type MetricsProvider interface {
	// RecordDispatch records one capability invocation.
	RecordDispatch(ctx context.Context, kind, name, status string, duration time.Duration)

	// RecordNotification records one bus publish by message kind.
	RecordNotification(ctx context.Context, kind string)

	// SetRegisteredCapabilities tracks the live table size per kind.
	SetRegisteredCapabilities(kind string, count int)

	// Management
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// PrometheusMetricsProvider implements MetricsProvider using Prometheus
type PrometheusMetricsProvider struct {
	config MetricsConfig
	server *http.Server
	mu     sync.Mutex

	dispatchDuration  *prometheus.HistogramVec
	dispatchTotal     *prometheus.CounterVec
	notificationTotal *prometheus.CounterVec
	capabilitiesLive  *prometheus.GaugeVec
}

// Dispatch status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// NewMetricsProvider creates a new Prometheus metrics provider
func NewMetricsProvider(config MetricsConfig) (*PrometheusMetricsProvider, error) {
	if config.Namespace == "" {
		config.Namespace = "mcpreg"
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}
	if config.MetricsPort == 0 {
		config.MetricsPort = 9090
	}
	if config.HistogramBuckets == nil {
		// Default buckets for milliseconds
		config.HistogramBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}
	}
	if config.Registerer == nil {
		config.Registerer = prometheus.DefaultRegisterer
	}

	if config.ConstLabels == nil {
		config.ConstLabels = prometheus.Labels{}
	}
	if config.ServiceName != "" {
		config.ConstLabels["service"] = config.ServiceName
	}
	if config.ServiceVersion != "" {
		config.ConstLabels["version"] = config.ServiceVersion
	}
	if config.Environment != "" {
		config.ConstLabels["environment"] = config.Environment
	}

	p := &PrometheusMetricsProvider{config: config}

	p.dispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "dispatch_duration_milliseconds",
			Help:        "Duration of capability dispatches in milliseconds",
			Buckets:     config.HistogramBuckets,
			ConstLabels: config.ConstLabels,
		},
		[]string{"kind", "capability", "status"},
	)

	p.dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "dispatch_total",
			Help:        "Total number of capability dispatches",
			ConstLabels: config.ConstLabels,
		},
		[]string{"kind", "capability", "status"},
	)

	p.notificationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "notification_total",
			Help:        "Total number of notifications published on the bus",
			ConstLabels: config.ConstLabels,
		},
		[]string{"kind"},
	)

	p.capabilitiesLive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "capabilities_registered",
			Help:        "Number of currently registered capabilities per kind",
			ConstLabels: config.ConstLabels,
		},
		[]string{"kind"},
	)

	collectors := []prometheus.Collector{
		p.dispatchDuration,
		p.dispatchTotal,
		p.notificationTotal,
		p.capabilitiesLive,
	}
	for _, c := range collectors {
		if err := config.Registerer.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	return p, nil
}

// RecordDispatch records one capability invocation
func (p *PrometheusMetricsProvider) RecordDispatch(_ context.Context, kind, name, status string, duration time.Duration) {
	labels := prometheus.Labels{"kind": kind, "capability": name, "status": status}
	p.dispatchTotal.With(labels).Inc()
	p.dispatchDuration.With(labels).Observe(float64(duration.Milliseconds()))
}

// RecordNotification records one bus publish
func (p *PrometheusMetricsProvider) RecordNotification(_ context.Context, kind string) {
	p.notificationTotal.With(prometheus.Labels{"kind": kind}).Inc()
}

// SetRegisteredCapabilities tracks the live table size per kind
func (p *PrometheusMetricsProvider) SetRegisteredCapabilities(kind string, count int) {
	p.capabilitiesLive.With(prometheus.Labels{"kind": kind}).Set(float64(count))
}

// Start serves the metrics endpoint. It returns once the listener is
// running; serving continues in the background until Shutdown.
func (p *PrometheusMetricsProvider) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.server != nil {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(p.config.MetricsPath, promhttp.Handler())

	p.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", p.config.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server error: %v\n", err)
		}
	}()

	return nil
}

// Shutdown stops the metrics endpoint
func (p *PrometheusMetricsProvider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.server == nil {
		return nil
	}
	err := p.server.Shutdown(ctx)
	p.server = nil
	return err
}

// NoopMetricsProvider discards all measurements
type NoopMetricsProvider struct{}

func (NoopMetricsProvider) RecordDispatch(context.Context, string, string, string, time.Duration) {}
func (NoopMetricsProvider) RecordNotification(context.Context, string)                            {}
func (NoopMetricsProvider) SetRegisteredCapabilities(string, int)                                 {}
func (NoopMetricsProvider) Start(context.Context) error                                           { return nil }
func (NoopMetricsProvider) Shutdown(context.Context) error                                        { return nil }
