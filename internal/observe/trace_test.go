package observe

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestTracerProvider(t *testing.T) (*sdktrace.TracerProvider, *tracetest.InMemoryExporter) {
	t.Helper()
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, exp
}

// captureLogs redirects the default logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestCorrelationID(t *testing.T) {
	if got := CorrelationID(context.Background()); got != "" {
		t.Errorf("CorrelationID(background) = %q, want empty", got)
	}

	tp, _ := newTestTracerProvider(t)
	seen := make(map[string]bool, 50)
	for range 50 {
		ctx, span := tp.Tracer("test").Start(context.Background(), "op")
		cid := CorrelationID(ctx)
		span.End()
		if len(cid) != 32 || strings.Trim(cid, "0123456789abcdef") != "" {
			t.Fatalf("correlation ID = %q, want 32 lowercase hex chars", cid)
		}
		if seen[cid] {
			t.Fatalf("duplicate correlation ID %s", cid)
		}
		seen[cid] = true
	}
}

func TestStartSpan_UsesGlobalProvider(t *testing.T) {
	tp, exp := newTestTracerProvider(t)
	orig := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(orig) })

	_, span := StartSpan(context.Background(), "translate.TextToSign")
	span.End()

	spans := exp.GetSpans()
	if len(spans) != 1 || spans[0].Name != "translate.TextToSign" {
		t.Fatalf("spans = %v", spans)
	}
	if spans[0].InstrumentationScope.Name != tracerName {
		t.Errorf("scope = %q, want %q", spans[0].InstrumentationScope.Name, tracerName)
	}
}

func TestWithSession(t *testing.T) {
	tp, exp := newTestTracerProvider(t)

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	ctx = WithSession(ctx, "kiosk-7")
	span.End()

	if got := SessionID(ctx); got != "kiosk-7" {
		t.Errorf("SessionID = %q, want kiosk-7", got)
	}
	found := false
	for _, kv := range exp.GetSpans()[0].Attributes {
		if kv.Key == SessionAttr && kv.Value.AsString() == "kiosk-7" {
			found = true
		}
	}
	if !found {
		t.Error("span missing session attribute")
	}

	base := context.Background()
	if WithSession(base, "") != base {
		t.Error("empty session id should leave ctx unchanged")
	}
	if SessionID(base) != "" {
		t.Error("SessionID(background) should be empty")
	}
}

func TestLogger(t *testing.T) {
	tp, _ := newTestTracerProvider(t)

	tests := []struct {
		name    string
		ctx     func() context.Context
		want    []string
		notWant []string
	}{
		{
			name:    "bare context",
			ctx:     context.Background,
			notWant: []string{"trace_id", "span_id", "session_id"},
		},
		{
			name: "span only",
			ctx: func() context.Context {
				ctx, _ := tp.Tracer("test").Start(context.Background(), "op")
				return ctx
			},
			want:    []string{"trace_id=", "span_id="},
			notWant: []string{"session_id"},
		},
		{
			name: "span and session",
			ctx: func() context.Context {
				ctx, _ := tp.Tracer("test").Start(context.Background(), "op")
				return WithSession(ctx, "s1")
			},
			want: []string{"trace_id=", "span_id=", "session_id=s1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)
			Logger(tt.ctx()).Info("translation failed")
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("log %q missing %q", out, w)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(out, nw) {
					t.Errorf("log %q should not contain %q", out, nw)
				}
			}
		})
	}
}
