package observe

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumWhere adds up every data point of a counter whose attributes include
// all of want.
func sumWhere(t *testing.T, rm metricdata.ResourceMetrics, name string, want map[string]string) int64 {
	t.Helper()
	met := findMetric(rm, name)
	if met == nil {
		t.Fatalf("metric %q not found", name)
	}
	sum, ok := met.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %q is %T, want a sum", name, met.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		if hasAttrs(dp.Attributes.ToSlice(), want) {
			total += dp.Value
		}
	}
	return total
}

// samplesWhere counts histogram observations whose attributes include all
// of want.
func samplesWhere(t *testing.T, rm metricdata.ResourceMetrics, name string, want map[string]string) uint64 {
	t.Helper()
	met := findMetric(rm, name)
	if met == nil {
		t.Fatalf("metric %q not found", name)
	}
	hist, ok := met.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("metric %q is %T, want a histogram", name, met.Data)
	}
	var n uint64
	for _, dp := range hist.DataPoints {
		if hasAttrs(dp.Attributes.ToSlice(), want) {
			n += dp.Count
		}
	}
	return n
}

func hasAttrs(got []attribute.KeyValue, want map[string]string) bool {
	m := attrMap(got)
	for k, v := range want {
		if m[k].AsString() != v {
			return false
		}
	}
	return true
}

func TestMetrics_Recorders(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordMatch(ctx, "exact", "urdu", 0.00002)
	m.RecordMatch(ctx, "exact", "urdu", 0.00003)
	m.RecordMatch(ctx, "none", "english", 0.00001)
	m.RecordTranslation(ctx, "text_to_sign", "matched")
	m.RecordTranslation(ctx, "text_to_sign", "matched")
	m.RecordTranslation(ctx, "speech_to_sign", "error")
	m.RecordRecognizer(ctx, "gesture", "ok", 0.2)
	m.RecordRecognizer(ctx, "speech", "error", 1.5)
	m.RecordToolCall(ctx, "match_gesture", "ok")
	m.RecordToolCall(ctx, "match_gesture", "error")
	m.RecordToolLatency(ctx, "match_gesture", 0.004)
	m.RecordBreakerTransition(ctx, "gesture/remote", "open")
	m.AnimationsPublished.Add(ctx, 3)
	m.LogErrors.Add(ctx, 1)

	rm := collect(t, reader)

	counters := []struct {
		metric string
		where  map[string]string
		want   int64
	}{
		{"ishara.match.outcomes", map[string]string{"tier": "exact", "language": "urdu"}, 2},
		{"ishara.match.outcomes", map[string]string{"tier": "none"}, 1},
		{"ishara.translations", map[string]string{"direction": "text_to_sign"}, 2},
		{"ishara.translations", map[string]string{"status": "error"}, 1},
		{"ishara.recognizer.requests", map[string]string{"kind": "gesture", "status": "ok"}, 1},
		{"ishara.tool.calls", map[string]string{"tool": "match_gesture"}, 2},
		{"ishara.tool.calls", map[string]string{"status": "ok"}, 1},
		{"ishara.breaker.transitions", map[string]string{"breaker": "gesture/remote", "to": "open"}, 1},
		{"ishara.animations.published", nil, 3},
		{"ishara.translog.errors", nil, 1},
	}
	for _, tt := range counters {
		if got := sumWhere(t, rm, tt.metric, tt.where); got != tt.want {
			t.Errorf("%s%v = %d, want %d", tt.metric, tt.where, got, tt.want)
		}
	}

	histograms := []struct {
		metric string
		where  map[string]string
		want   uint64
	}{
		{"ishara.match.duration", nil, 3},
		{"ishara.recognizer.duration", map[string]string{"kind": "speech"}, 1},
		{"ishara.recognizer.duration", nil, 2},
		{"ishara.tool_execution.duration", map[string]string{"tool": "match_gesture"}, 1},
	}
	for _, tt := range histograms {
		if got := samplesWhere(t, rm, tt.metric, tt.where); got != tt.want {
			t.Errorf("%s%v samples = %d, want %d", tt.metric, tt.where, got, tt.want)
		}
	}
}

func TestMetrics_MatchBuckets(t *testing.T) {
	m, reader := newTestMetrics(t)
	m.RecordMatch(context.Background(), "fuzzy", "roman_urdu", 0.00007)

	met := findMetric(collect(t, reader), "ishara.match.duration")
	hist := met.Data.(metricdata.Histogram[float64])
	bounds := hist.DataPoints[0].Bounds
	if len(bounds) != len(matchBuckets) || bounds[0] != matchBuckets[0] {
		t.Errorf("bounds = %v, want %v", bounds, matchBuckets)
	}
}

func TestMetrics_SubscriberGauge(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	for _, d := range []int64{1, 1, 1, -1} {
		m.AnimationSubscribers.Add(ctx, d)
	}
	if got := sumWhere(t, collect(t, reader), "ishara.animation.subscribers", nil); got != 2 {
		t.Errorf("subscribers = %d, want 2", got)
	}
}

func TestBuilder_CollectsErrors(t *testing.T) {
	t.Parallel()
	mp := sdkmetric.NewMeterProvider()
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	b := &builder{meter: mp.Meter("test")}
	b.counter("ishara.ok", "")
	b.counter("1-not-a-valid-name", "")
	b.seconds("ishara.ok.duration", "", nil)

	var failed int
	for _, err := range b.errs {
		if err != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("errors = %v, want exactly one", b.errs)
	}
}

func TestDefaultMetrics_Singleton(t *testing.T) {
	if DefaultMetrics() != DefaultMetrics() {
		t.Error("DefaultMetrics returned different instances")
	}
}
