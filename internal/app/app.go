// Package app wires all Ishara subsystems into a running application.
//
// The App struct owns the full lifecycle: New loads the catalogue, connects
// the translation log and builds the recognizers, Run serves HTTP until the
// context is cancelled, and Shutdown tears everything down in order.
//
// For testing, inject test doubles via functional options (WithTranslationLog,
// WithRegistry, etc.). When an option is not provided, New creates real
// implementations from the config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/ishara/internal/animate"
	"github.com/MrWong99/ishara/internal/api"
	"github.com/MrWong99/ishara/internal/config"
	"github.com/MrWong99/ishara/internal/gesture"
	"github.com/MrWong99/ishara/internal/health"
	"github.com/MrWong99/ishara/internal/match"
	"github.com/MrWong99/ishara/internal/mcptool"
	"github.com/MrWong99/ishara/internal/observe"
	"github.com/MrWong99/ishara/internal/resilience"
	"github.com/MrWong99/ishara/internal/translate"
	"github.com/MrWong99/ishara/internal/translog"
	"github.com/MrWong99/ishara/internal/translog/postgres"
	"github.com/MrWong99/ishara/pkg/recognizer"
)

// Version is reported by the MCP endpoint and telemetry.
const Version = "1.0.0"

const readHeaderTimeout = 10 * time.Second

// App owns all subsystem lifetimes and serves the Ishara HTTP surface.
type App struct {
	cfg       *config.Config
	registry  *config.Registry
	metrics   *observe.Metrics
	telemetry *observe.Provider

	// Subsystems, initialised in New and torn down in Shutdown.
	catalogue *gesture.Catalogue
	log       translog.Log
	breaker   *translog.Breaker
	pinger    health.Pinger
	models    []health.Checker
	gestures  recognizer.GestureRecognizer
	speech    recognizer.SpeechRecognizer
	hub       *animate.Hub
	svc       *translate.Service
	handler   http.Handler
	server    *http.Server

	// closers are called in order during Shutdown.
	closers []func() error

	// stopOnce guards the Shutdown path.
	stopOnce sync.Once
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithTranslationLog injects a translation log instead of creating one from
// config. The storage circuit breaker still wraps it.
func WithTranslationLog(l translog.Log) Option {
	return func(a *App) { a.log = l }
}

// WithCatalogue injects a catalogue instead of loading one from config.
func WithCatalogue(c *gesture.Catalogue) Option {
	return func(a *App) { a.catalogue = c }
}

// WithRegistry sets the recognizer registry. Default: [NewRegistry].
func WithRegistry(r *config.Registry) Option {
	return func(a *App) { a.registry = r }
}

// WithMetrics sets the metric instruments. Default: the telemetry
// provider's instruments, else [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithTelemetry serves /metrics from p's registry and records into its
// instruments.
func WithTelemetry(p *observe.Provider) Option {
	return func(a *App) { a.telemetry = p }
}

// ─── New ─────────────────────────────────────────────────────────────────────

// New creates an App by wiring all subsystems together. cfg must already have
// defaults applied and be valid.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg}
	for _, o := range opts {
		o(a)
	}
	if a.registry == nil {
		a.registry = NewRegistry()
	}
	if a.metrics == nil && a.telemetry != nil {
		a.metrics = a.telemetry.Metrics()
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}

	// ── 1. Gesture catalogue ─────────────────────────────────────────────
	if err := a.initCatalogue(); err != nil {
		return nil, fmt.Errorf("app: init catalogue: %w", err)
	}

	// ── 2. Translation log ───────────────────────────────────────────────
	if err := a.initLog(ctx); err != nil {
		return nil, fmt.Errorf("app: init translation log: %w", err)
	}

	// ── 3. Recognizers ───────────────────────────────────────────────────
	if err := a.initRecognizers(); err != nil {
		a.closeAll()
		return nil, fmt.Errorf("app: init recognizers: %w", err)
	}

	// ── 4. Animation hub + translation service ───────────────────────────
	a.hub = animate.NewHub(
		animate.WithSubscriberBuffer(cfg.Animation.SubscriberBuffer),
		animate.WithOriginPatterns(cfg.Animation.OriginPatterns...),
		animate.WithMetrics(a.metrics),
	)
	a.closers = append(a.closers, func() error { a.hub.Close(); return nil })

	var animOpts []animate.AnimatorOption
	if cfg.Animation.Speed > 0 {
		animOpts = append(animOpts, animate.WithSpeed(cfg.Animation.Speed))
	}
	svcOpts := []translate.Option{
		translate.WithPublisher(a.hub, animate.NewAnimator(animOpts...)),
		translate.WithAnimation(cfg.Animation.Duration, cfg.Animation.FPS),
		translate.WithMetrics(a.metrics),
		translate.WithHistoryLimit(cfg.Storage.HistoryLimit),
	}
	if a.gestures != nil {
		svcOpts = append(svcOpts, translate.WithGestureRecognizer(a.gestures))
	}
	if a.speech != nil {
		svcOpts = append(svcOpts, translate.WithSpeechRecognizer(a.speech))
	}
	a.svc = translate.New(match.New(a.catalogue), a.log, svcOpts...)

	// ── 5. HTTP routes ───────────────────────────────────────────────────
	a.handler = a.routes()

	slog.Info("application initialised",
		"gestures", a.catalogue.Len(),
		"storage", cfg.Storage.Backend,
		"gesture_recognizer", cfg.Recognizers.Gesture.Name,
		"speech_recognizer", cfg.Recognizers.Speech.Name,
		"mcp", cfg.MCP.Enabled,
	)
	return a, nil
}

// initCatalogue loads the gesture table from file or falls back to the
// built-in one.
func (a *App) initCatalogue() error {
	if a.catalogue != nil {
		return nil
	}
	if path := a.cfg.Catalogue.File; path != "" {
		cat, err := gesture.LoadFile(path)
		if err != nil {
			return err
		}
		a.catalogue = cat
		slog.Info("gesture catalogue loaded", "file", path, "gestures", cat.Len())
		return nil
	}
	a.catalogue = gesture.Builtin()
	return nil
}

// initLog connects the configured backend and wraps it in a circuit breaker.
func (a *App) initLog(ctx context.Context) error {
	if a.log == nil {
		switch a.cfg.Storage.Backend {
		case config.StoragePostgres:
			store, err := postgres.NewStore(ctx, a.cfg.Storage.PostgresDSN,
				postgres.WithDatabase(a.cfg.Storage.Database))
			if err != nil {
				return err
			}
			a.log = store
			a.pinger = store
			a.closers = append(a.closers, func() error { store.Close(); return nil })
			slog.Info("translation log connected", "backend", "postgres")
		default:
			a.log = translog.NewMemStore()
			slog.Info("translation log in memory; records are lost on restart")
		}
	}

	bc := a.cfg.Storage.CircuitBreaker
	a.breaker = translog.NewBreaker(a.log, resilience.CircuitBreakerConfig{
		Name:          "translog",
		MaxFailures:   bc.MaxFailures,
		ResetTimeout:  bc.ResetTimeout,
		HalfOpenMax:   bc.HalfOpenMax,
		OnStateChange: a.onBreakerChange,
	})
	a.log = a.breaker
	return nil
}

// initRecognizers builds the configured backends. With FallbackToRandom a
// non-random primary is backed by the random recognizer.
func (a *App) initRecognizers() error {
	rc := a.cfg.Recognizers
	randomEntry := func(e config.RecognizerEntry) config.RecognizerEntry {
		return config.RecognizerEntry{Name: RecognizerRandom, Seed: e.Seed}
	}

	if rc.Gesture.Name != "" {
		g, err := a.registry.CreateGesture(rc.Gesture, a.catalogue)
		if err != nil {
			return fmt.Errorf("gesture recognizer %q: %w", rc.Gesture.Name, err)
		}
		a.watchModel("gesture_model", g)
		if rc.FallbackToRandom && rc.Gesture.Name != RecognizerRandom {
			fb := resilience.NewGestureFallback(g, rc.Gesture.Name, a.fallbackConfig("gesture"))
			r, err := a.registry.CreateGesture(randomEntry(rc.Gesture), a.catalogue)
			if err != nil {
				return fmt.Errorf("gesture fallback: %w", err)
			}
			fb.AddFallback(RecognizerRandom, r)
			g = fb
		}
		a.gestures = g
	}

	if rc.Speech.Name != "" {
		s, err := a.registry.CreateSpeech(rc.Speech)
		if err != nil {
			return fmt.Errorf("speech recognizer %q: %w", rc.Speech.Name, err)
		}
		a.watchModel("speech_model", s)
		if rc.FallbackToRandom && rc.Speech.Name != RecognizerRandom {
			fb := resilience.NewSpeechFallback(s, rc.Speech.Name, a.fallbackConfig("speech"))
			r, err := a.registry.CreateSpeech(randomEntry(rc.Speech))
			if err != nil {
				return fmt.Errorf("speech fallback: %w", err)
			}
			fb.AddFallback(RecognizerRandom, r)
			s = fb
		}
		a.speech = s
	}
	return nil
}

// watchModel adds a readiness check for recognizers that can be pinged. The
// check is optional when the random fallback would take over.
func (a *App) watchModel(name string, r any) {
	p, ok := r.(health.Pinger)
	if !ok {
		return
	}
	c := health.Ping(name, p)
	c.Optional = a.cfg.Recognizers.FallbackToRandom
	a.models = append(a.models, c)
}

func (a *App) fallbackConfig(kind string) resilience.FallbackConfig {
	return resilience.FallbackConfig{CircuitBreaker: resilience.CircuitBreakerConfig{
		Name:          kind,
		OnStateChange: a.onBreakerChange,
	}}
}

// onBreakerChange runs with the breaker's lock held; it must not call back
// into the breaker.
func (a *App) onBreakerChange(name string, from, to resilience.State) {
	a.metrics.RecordBreakerTransition(context.Background(), name, to.String())
	if to == resilience.StateOpen {
		slog.Warn("circuit breaker opened", "breaker", name, "from", from.String())
		return
	}
	slog.Info("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
}

// routes assembles the full HTTP surface behind the observe middleware.
func (a *App) routes() http.Handler {
	mux := http.NewServeMux()

	api.New(a.svc,
		api.WithAnimationStream(a.hub),
		api.WithMaxBodyBytes(a.cfg.Server.MaxBodyBytes),
		api.WithCORSOrigins(a.cfg.Server.CORSOrigins...),
	).Register(mux)

	checkers := []health.Checker{
		health.NonEmpty("catalogue", a.catalogue.Len),
		health.NotOpen("translog_breaker", func() string { return a.breaker.State().String() }),
	}
	if a.pinger != nil {
		checkers = append(checkers, health.Ping("storage", a.pinger))
	}
	checkers = append(checkers, a.models...)
	health.New(checkers...).Register(mux)

	metricsHandler := promhttp.Handler()
	if a.telemetry != nil {
		metricsHandler = a.telemetry.MetricsHandler()
	}
	mux.Handle("GET "+a.cfg.Telemetry.MetricsPath, metricsHandler)

	if a.cfg.MCP.Enabled {
		server := mcptool.NewServer(a.svc, mcptool.WithVersion(Version), mcptool.WithMetrics(a.metrics))
		mux.Handle(a.cfg.MCP.Path, mcptool.Handler(server))
		slog.Info("mcp endpoint mounted", "path", a.cfg.MCP.Path)
	}

	return observe.Middleware(a.metrics)(mux)
}

// ─── Accessors ───────────────────────────────────────────────────────────────

// Handler returns the complete HTTP handler.
func (a *App) Handler() http.Handler { return a.handler }

// Service returns the translation service.
func (a *App) Service() *translate.Service { return a.svc }

// Hub returns the animation hub.
func (a *App) Hub() *animate.Hub { return a.hub }

// ─── Run ─────────────────────────────────────────────────────────────────────

// Run listens on the configured address and serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Server.ListenAddr)
	if err != nil {
		return fmt.Errorf("app: listen: %w", err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves HTTP on ln until ctx is cancelled, then drains in-flight
// requests for up to the configured shutdown timeout. ln is closed on
// return.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	a.server = &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("http server listening", "addr", ln.Addr().String(), "tls", a.cfg.Server.TLS != nil)
		var err error
		if tlsCfg := a.cfg.Server.TLS; tlsCfg != nil {
			err = a.server.ServeTLS(ln, tlsCfg.CertFile, tlsCfg.KeyFile)
		} else {
			err = a.server.Serve(ln)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		// Websocket streams are hijacked and ignored by Shutdown; closing the
		// hub ends them.
		a.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("app: serve: %w", err)
	}
	return nil
}

// ─── Shutdown ────────────────────────────────────────────────────────────────

// Shutdown tears down all subsystems in reverse-init order. It respects the
// context deadline: if ctx expires before all closers finish, remaining
// closers are skipped and the context error is returned.
func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error
	a.stopOnce.Do(func() {
		slog.Info("shutting down", "closers", len(a.closers))
		for i := len(a.closers) - 1; i >= 0; i-- {
			select {
			case <-ctx.Done():
				slog.Warn("shutdown deadline exceeded", "remaining", i+1)
				shutdownErr = ctx.Err()
				return
			default:
			}
			if err := a.closers[i](); err != nil {
				slog.Warn("closer error", "index", i, "err", err)
			}
		}
		slog.Info("shutdown complete")
	})
	return shutdownErr
}

// closeAll releases whatever New managed to open before failing.
func (a *App) closeAll() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}
