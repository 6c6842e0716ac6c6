package app_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/MrWong99/ishara/internal/app"
	"github.com/MrWong99/ishara/internal/config"
	"github.com/MrWong99/ishara/internal/observe"
	"github.com/MrWong99/ishara/internal/translate"
	"github.com/MrWong99/ishara/internal/translog"
	tlmock "github.com/MrWong99/ishara/internal/translog/mock"
)

// testConfig returns a defaulted in-memory config with seeded random
// recognizers.
func testConfig() *config.Config {
	cfg := &config.Config{
		Server: config.ServerConfig{
			ListenAddr:      "127.0.0.1:0",
			ShutdownTimeout: 2 * time.Second,
		},
		Recognizers: config.RecognizersConfig{
			Gesture: config.RecognizerEntry{Name: "random", Seed: 7},
			Speech:  config.RecognizerEntry{Name: "random", Seed: 7},
		},
	}
	config.ApplyDefaults(cfg)
	return cfg
}

func testMetrics(t *testing.T) *observe.Metrics {
	t.Helper()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func newApp(t *testing.T, cfg *config.Config, opts ...app.Option) *app.App {
	t.Helper()
	opts = append([]app.Option{app.WithMetrics(testMetrics(t))}, opts...)
	a, err := app.New(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	return rec
}

// ── New ──

func TestNew_Defaults(t *testing.T) {
	t.Parallel()
	a := newApp(t, testConfig())
	h := a.Handler()

	for _, path := range []string{"/api/", "/api/gestures", "/healthz", "/readyz", "/metrics"} {
		if rec := get(t, h, path); rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200 (body %s)", path, rec.Code, rec.Body.String())
		}
	}

	if rec := get(t, h, "/mcp"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /mcp with MCP disabled = %d, want 404", rec.Code)
	}

	st, err := a.Service().Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.ModelStatus != "loaded" {
		t.Errorf("model_status = %q, want loaded", st.ModelStatus)
	}
}

// withGlobalTelemetry installs a real provider as the OTel global for the
// test so spans carry trace IDs. Callers must not run in parallel.
func withGlobalTelemetry(t *testing.T) *observe.Provider {
	t.Helper()
	prevTP, prevMP, prevProp := otel.GetTracerProvider(), otel.GetMeterProvider(), otel.GetTextMapPropagator()
	p, err := observe.InitProvider(context.Background(), observe.ProviderConfig{Global: true})
	if err != nil {
		t.Fatalf("InitProvider: %v", err)
	}
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
		otel.SetTextMapPropagator(prevProp)
		_ = p.Shutdown(context.Background())
	})
	return p
}

func TestNew_TextToSignEndToEnd(t *testing.T) {
	a := newApp(t, testConfig(), app.WithTelemetry(withGlobalTelemetry(t)))

	sub := a.Hub().Subscribe()
	defer sub.Close()

	rec := postJSON(t, a.Handler(), "/api/text-to-sign", map[string]string{"text": "سلام", "language": "urdu", "session_id": "e2e"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Correlation-ID") == "" {
		t.Error("observe middleware did not set X-Correlation-ID")
	}

	select {
	case ev := <-sub.C:
		if ev.GestureID != "salam" || ev.SessionID != "e2e" {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no animation event published")
	}

	recs, err := a.Service().History(context.Background(), "e2e", 0)
	if err != nil || len(recs) != 1 {
		t.Fatalf("history = %v, %v", recs, err)
	}
}

func TestNew_MCPEnabled(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.MCP.Enabled = true
	a := newApp(t, cfg)

	if rec := get(t, a.Handler(), cfg.MCP.Path); rec.Code == http.StatusNotFound {
		t.Errorf("GET %s = 404, want the MCP endpoint mounted", cfg.MCP.Path)
	}
}

func TestNew_CatalogueFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "gestures.yaml")
	yaml := `gestures:
  - id: chai
    urdu: "چائے"
    pashto: "چای"
    english: "Tea"
    category: food
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig()
	cfg.Catalogue.File = path
	a := newApp(t, cfg)

	if n := a.Service().Catalogue().Len(); n != 1 {
		t.Fatalf("catalogue size = %d, want 1", n)
	}
	rec := postJSON(t, a.Handler(), "/api/text-to-sign", map[string]string{"text": "tea", "language": "english"})
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`"gesture":"chai"`)) {
		t.Errorf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown recognizer", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig()
		cfg.Recognizers.Speech.Name = "whisper"
		_, err := app.New(context.Background(), cfg, app.WithMetrics(testMetrics(t)))
		if !errors.Is(err, config.ErrRecognizerNotRegistered) {
			t.Errorf("err = %v, want ErrRecognizerNotRegistered", err)
		}
	})

	t.Run("missing catalogue file", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig()
		cfg.Catalogue.File = filepath.Join(t.TempDir(), "absent.yaml")
		if _, err := app.New(context.Background(), cfg, app.WithMetrics(testMetrics(t))); err == nil {
			t.Error("expected error for missing catalogue file")
		}
	})

	t.Run("remote without url", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig()
		cfg.Recognizers.Gesture = config.RecognizerEntry{Name: "remote"}
		if _, err := app.New(context.Background(), cfg, app.WithMetrics(testMetrics(t))); err == nil {
			t.Error("expected error for remote recognizer without base_url")
		}
	})
}

// ── Resilience ──

func TestNew_RecognizerFallback(t *testing.T) {
	t.Parallel()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	t.Cleanup(down.Close)

	image := base64.StdEncoding.EncodeToString([]byte("jpeg"))

	cfg := testConfig()
	cfg.Recognizers.Gesture = config.RecognizerEntry{Name: "remote", BaseURL: down.URL, Timeout: time.Second}
	strict := newApp(t, cfg)
	if rec := postJSON(t, strict.Handler(), "/api/detect-gesture", map[string]string{"image_data": image}); rec.Code != http.StatusBadGateway {
		t.Errorf("without fallback: status = %d, want 502", rec.Code)
	}
	if rec := get(t, strict.Handler(), "/readyz"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("without fallback: /readyz = %d, want 503 while the model is down", rec.Code)
	}

	cfg = testConfig()
	cfg.Recognizers.Gesture = config.RecognizerEntry{Name: "remote", BaseURL: down.URL, Timeout: time.Second, Seed: 3}
	cfg.Recognizers.FallbackToRandom = true
	lenient := newApp(t, cfg)
	if rec := postJSON(t, lenient.Handler(), "/api/detect-gesture", map[string]string{"image_data": image}); rec.Code != http.StatusOK {
		t.Errorf("with fallback: status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	rec := get(t, lenient.Handler(), "/readyz")
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`"status":"degraded"`)) {
		t.Errorf("with fallback: /readyz = %d %s, want 200 degraded", rec.Code, rec.Body.String())
	}
}

func TestNew_StorageBreakerOpens(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Storage.CircuitBreaker = config.BreakerConfig{MaxFailures: 2, ResetTimeout: time.Hour}
	log := &tlmock.Log{AppendErr: &translog.StorageError{Op: "append", Err: errors.New("connection refused")}}
	a := newApp(t, cfg, app.WithTranslationLog(log))
	h := a.Handler()

	for range 3 {
		rec := postJSON(t, h, "/api/text-to-sign", map[string]string{"text": "hello", "language": "english"})
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}
	}
	// The third request is rejected by the open breaker before reaching the log.
	if got := log.CallCount("Append"); got != 2 {
		t.Errorf("Append calls = %d, want 2", got)
	}
	if rec := get(t, h, "/readyz"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("/readyz = %d, want 503 while the breaker is open", rec.Code)
	}

	_, err := a.Service().TextToSign(context.Background(), translate.TextRequest{Text: "hello", Language: "en"})
	if !errors.Is(err, translog.ErrStorage) {
		t.Errorf("err = %v, want ErrStorage", err)
	}
}

// ── Lifecycle ──

func TestApp_ServeAndShutdown(t *testing.T) {
	t.Parallel()
	a := newApp(t, testConfig())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- a.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("/healthz = %d", resp.StatusCode)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Serve() returned unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return within 5s after context cancellation")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
	// Idempotent.
	if err := a.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("second Shutdown() error: %v", err)
	}
}

func TestRegistry_Builtins(t *testing.T) {
	t.Parallel()
	reg := app.NewRegistry()
	for _, kind := range []string{"gesture", "speech"} {
		names := reg.Names(kind)
		if len(names) != 2 || names[0] != app.RecognizerRandom || names[1] != app.RecognizerRemote {
			t.Errorf("Names(%q) = %v", kind, names)
		}
	}
}
