// Command ishara is the main entry point for the Ishara sign language
// translation server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/MrWong99/ishara/internal/app"
	"github.com/MrWong99/ishara/internal/config"
	"github.com/MrWong99/ishara/internal/observe"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "path to the YAML configuration file (optional)")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	if err := config.LoadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "ishara: %v\n", err)
		return 1
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "ishara: config file %q not found; copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "ishara: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("ishara starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	telemetry, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: app.Version,
		Global:         true,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		if err := telemetry.Shutdown(context.Background()); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	application, err := app.New(ctx, cfg, app.WithTelemetry(telemetry))
	if err != nil {
		slog.Error("failed to initialise application", "err", err)
		return 1
	}

	// ── Startup summary ───────────────────────────────────────────────────────
	printStartupSummary(cfg, application)

	slog.Info("server ready; press Ctrl+C to shut down")

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	slog.Info("shutdown signal received, stopping…")
	if err := application.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// loadConfig reads path (or starts from defaults when path is empty), then
// overlays the environment and validates the result.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg, err = config.LoadFromReader(strings.NewReader(""))
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config, a *app.App) {
	title := color.New(color.FgCyan, color.Bold)
	title.Println("╔═══════════════════════════════════════╗")
	title.Println("║         Ishara startup summary        ║")
	title.Println("╠═══════════════════════════════════════╣")
	printRow("Gestures", fmt.Sprintf("%d", a.Service().Catalogue().Len()), true)
	printRow("Catalogue", orDefault(cfg.Catalogue.File, "(built-in)"), true)
	printRow("Storage", string(cfg.Storage.Backend), cfg.Storage.Backend == config.StoragePostgres)
	printRow("Gesture model", recognizerLabel(cfg.Recognizers.Gesture, cfg.Recognizers.FallbackToRandom), cfg.Recognizers.Gesture.Name != app.RecognizerRandom)
	printRow("Speech model", recognizerLabel(cfg.Recognizers.Speech, cfg.Recognizers.FallbackToRandom), cfg.Recognizers.Speech.Name != app.RecognizerRandom)
	if cfg.MCP.Enabled {
		printRow("MCP", cfg.MCP.Path, true)
	} else {
		printRow("MCP", "(disabled)", false)
	}
	printRow("Listen addr", cfg.Server.ListenAddr, true)
	title.Println("╚═══════════════════════════════════════╝")
}

// printRow prints one summary line, yellow for placeholder or disabled
// components.
func printRow(label, value string, active bool) {
	value = truncate(value, 19)
	c := color.New(color.FgGreen)
	if !active {
		c = color.New(color.FgYellow)
	}
	fmt.Printf("║  %-14s  : ", label)
	c.Printf("%-19s", value)
	fmt.Println(" ║")
}

// truncate shortens s to at most n runes, ending in an ellipsis when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func recognizerLabel(e config.RecognizerEntry, fallback bool) string {
	if e.Name == app.RecognizerRandom {
		return "random (demo)"
	}
	if fallback {
		return e.Name + " +random"
	}
	return e.Name
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
