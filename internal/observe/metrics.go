// Package observe provides application-wide observability primitives for
// Ishara: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Instruments live in [Metrics] and are recorded through the Record*
// helpers so attribute names stay consistent. [InitProvider] exports them
// to Prometheus. Tests should build their own [Metrics] with [NewMetrics]
// and a ManualReader rather than share [DefaultMetrics].
package observe

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/MrWong99/ishara"

// Metrics holds the application's metric instruments. All fields are safe
// for concurrent use.
type Metrics struct {
	// ── Matching and translation ──

	MatchDuration metric.Float64Histogram // seconds per phrase lookup
	MatchOutcomes metric.Int64Counter     // tier, language
	Translations  metric.Int64Counter     // direction, status
	LogErrors     metric.Int64Counter     // failed translation log writes

	// ── Recognizers ──

	RecognizerDuration metric.Float64Histogram // kind
	RecognizerRequests metric.Int64Counter     // kind, status
	BreakerTransitions metric.Int64Counter     // breaker, to

	// ── Animation ──

	AnimationsPublished  metric.Int64Counter
	AnimationSubscribers metric.Int64UpDownCounter

	// ── MCP tools ──

	ToolExecutionDuration metric.Float64Histogram // tool
	ToolCalls             metric.Int64Counter     // tool, status

	// ── HTTP ──

	HTTPRequestDuration metric.Float64Histogram // method, route, status_class
}

// Recognizer round trips go over the network.
var latencyBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Matching is an in-memory scan and finishes in microseconds.
var matchBuckets = []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01}

// builder creates instruments on one meter and keeps every creation error.
type builder struct {
	meter metric.Meter
	errs  []error
}

func (b *builder) seconds(name, desc string, buckets []float64) metric.Float64Histogram {
	opts := []metric.Float64HistogramOption{metric.WithDescription(desc), metric.WithUnit("s")}
	if len(buckets) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(buckets...))
	}
	h, err := b.meter.Float64Histogram(name, opts...)
	b.errs = append(b.errs, err)
	return h
}

func (b *builder) counter(name, desc string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc))
	b.errs = append(b.errs, err)
	return c
}

func (b *builder) upDown(name, desc string) metric.Int64UpDownCounter {
	c, err := b.meter.Int64UpDownCounter(name, metric.WithDescription(desc))
	b.errs = append(b.errs, err)
	return c
}

// NewMetrics creates every instrument on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	b := &builder{meter: mp.Meter(meterName)}
	m := &Metrics{
		MatchDuration: b.seconds("ishara.match.duration", "Latency of phrase to gesture matching.", matchBuckets),
		MatchOutcomes: b.counter("ishara.match.outcomes", "Match results by tier and language."),
		Translations:  b.counter("ishara.translations", "Translation attempts by direction and status."),
		LogErrors:     b.counter("ishara.translog.errors", "Failed translation log writes."),

		RecognizerDuration: b.seconds("ishara.recognizer.duration", "Latency of gesture and speech recognition.", latencyBuckets),
		RecognizerRequests: b.counter("ishara.recognizer.requests", "Recognizer calls by kind and status."),
		BreakerTransitions: b.counter("ishara.breaker.transitions", "Circuit breaker state changes by breaker and target state."),

		AnimationsPublished:  b.counter("ishara.animations.published", "Animation events handed to the hub."),
		AnimationSubscribers: b.upDown("ishara.animation.subscribers", "Connected animation websocket clients."),

		ToolExecutionDuration: b.seconds("ishara.tool_execution.duration", "Latency of MCP tool execution.", latencyBuckets),
		ToolCalls:             b.counter("ishara.tool.calls", "MCP tool invocations by tool and status."),

		HTTPRequestDuration: b.seconds("ishara.http.request.duration", "HTTP request latency by route.", nil),
	}
	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}
	return m, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns instruments bound to the global meter provider,
// created on first use. It panics if creation fails.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		if defaultMetrics, err = NewMetrics(otel.GetMeterProvider()); err != nil {
			panic("observe: create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

func attrs(kv ...string) metric.MeasurementOption {
	set := make([]attribute.KeyValue, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		set = append(set, attribute.String(kv[i], kv[i+1]))
	}
	return metric.WithAttributes(set...)
}

// RecordMatch records one matcher result and its latency.
func (m *Metrics) RecordMatch(ctx context.Context, tier, language string, seconds float64) {
	m.MatchOutcomes.Add(ctx, 1, attrs("tier", tier, "language", language))
	m.MatchDuration.Record(ctx, seconds)
}

// RecordTranslation counts one translation attempt.
func (m *Metrics) RecordTranslation(ctx context.Context, direction, status string) {
	m.Translations.Add(ctx, 1, attrs("direction", direction, "status", status))
}

// RecordRecognizer records a recognizer call and its latency.
func (m *Metrics) RecordRecognizer(ctx context.Context, kind, status string, seconds float64) {
	m.RecognizerRequests.Add(ctx, 1, attrs("kind", kind, "status", status))
	m.RecognizerDuration.Record(ctx, seconds, attrs("kind", kind))
}

// RecordToolCall counts one MCP tool invocation.
func (m *Metrics) RecordToolCall(ctx context.Context, tool, status string) {
	m.ToolCalls.Add(ctx, 1, attrs("tool", tool, "status", status))
}

// RecordToolLatency records how long an MCP tool handler ran.
func (m *Metrics) RecordToolLatency(ctx context.Context, tool string, seconds float64) {
	m.ToolExecutionDuration.Record(ctx, seconds, attrs("tool", tool))
}

// RecordBreakerTransition records a circuit breaker moving into state to.
func (m *Metrics) RecordBreakerTransition(ctx context.Context, breaker, to string) {
	m.BreakerTransitions.Add(ctx, 1, attrs("breaker", breaker, "to", to))
}
