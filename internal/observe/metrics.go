// Package observe provides application-wide observability primitives for
// ttsdeck: OpenTelemetry metrics, distributed tracing, and a trace-aware
// logger.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all ttsdeck metrics.
const meterName = "github.com/MrWong99/ttsdeck"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// GenerationDuration tracks wall-clock client latency of a generation
	// request. Use with attribute:
	//   attribute.String("operation", ...)
	GenerationDuration metric.Float64Histogram

	// ServerGenerationDuration tracks the server-reported synthesis time
	// taken from the X-Generation-Time response header.
	ServerGenerationDuration metric.Float64Histogram

	// --- Output gauges recorded per request ---

	// AudioDuration tracks the length of returned audio in seconds, as
	// reported via the X-Audio-Duration header.
	AudioDuration metric.Float64Histogram

	// --- Counters ---

	// Requests counts API calls. Use with attributes:
	//   attribute.String("operation", ...), attribute.String("status", ...)
	Requests metric.Int64Counter

	// Errors counts failed API calls. Use with attributes:
	//   attribute.String("operation", ...), attribute.String("kind", ...)
	Errors metric.Int64Counter

	// CacheLookups counts server cache outcomes reported via the
	// X-Cache-Status header. Use with attribute:
	//   attribute.String("status", "hit"|"miss")
	CacheLookups metric.Int64Counter
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// speech-synthesis latencies.
var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
}

// audioBuckets defines bucket boundaries (in seconds) for generated audio
// length.
var audioBuckets = []float64{
	0.5, 1, 2, 5, 10, 20, 45, 90, 180,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.GenerationDuration, err = m.Float64Histogram("ttsdeck.generation.duration",
		metric.WithDescription("Client-observed latency of generation requests by operation."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ServerGenerationDuration, err = m.Float64Histogram("ttsdeck.generation.server_duration",
		metric.WithDescription("Server-reported synthesis time."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.AudioDuration, err = m.Float64Histogram("ttsdeck.audio.duration",
		metric.WithDescription("Length of generated audio."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(audioBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.Requests, err = m.Int64Counter("ttsdeck.requests",
		metric.WithDescription("Total API requests by operation and status."),
	); err != nil {
		return nil, err
	}
	if met.Errors, err = m.Int64Counter("ttsdeck.errors",
		metric.WithDescription("Total failed API requests by operation and error kind."),
	); err != nil {
		return nil, err
	}
	if met.CacheLookups, err = m.Int64Counter("ttsdeck.cache.lookups",
		metric.WithDescription("Server cache outcomes by status."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordRequest is a convenience method that records a request counter
// increment with the standard attribute set.
func (m *Metrics) RecordRequest(ctx context.Context, operation, status string) {
	m.Requests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// RecordError is a convenience method that records an error counter increment
// with the standard attribute set.
func (m *Metrics) RecordError(ctx context.Context, operation, kind string) {
	m.Errors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("kind", kind),
		),
	)
}

// RecordCacheLookup is a convenience method that records a cache lookup with
// its outcome.
func (m *Metrics) RecordCacheLookup(ctx context.Context, status string) {
	m.CacheLookups.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}
