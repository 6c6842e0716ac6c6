package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidRecognizerNames lists known recognizer backends per input kind.
// Used by [Validate] to warn about unrecognised names.
var ValidRecognizerNames = map[string][]string{
	"gesture": {"random", "remote"},
	"speech":  {"random", "remote"},
}

// Load reads the YAML configuration file at path and returns a validated
// [Config] with defaults applied. It is a convenience wrapper around
// [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults, and
// validates the result. An empty document yields the default configuration.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Errorf("server.max_body_bytes %d must not be negative", cfg.Server.MaxBodyBytes))
	}
	for i, o := range cfg.Server.CORSOrigins {
		if strings.TrimSpace(o) == "" {
			errs = append(errs, fmt.Errorf("server.cors_origins[%d] is empty", i))
		}
	}
	if tls := cfg.Server.TLS; tls != nil && (tls.CertFile == "" || tls.KeyFile == "") {
		errs = append(errs, errors.New("server.tls requires both cert_file and key_file"))
	}

	// Storage
	if cfg.Storage.Backend != "" && !cfg.Storage.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("storage.backend %q is invalid; valid values: memory, postgres", cfg.Storage.Backend))
	}
	if cfg.Storage.Backend == StoragePostgres && cfg.Storage.PostgresDSN == "" {
		errs = append(errs, errors.New("storage.postgres_dsn is required when backend is postgres"))
	}
	if cfg.Storage.Backend == StorageMemory && cfg.Storage.PostgresDSN != "" {
		slog.Warn("storage.postgres_dsn is set but storage.backend is memory; records will not be persisted")
	}
	if cfg.Storage.HistoryLimit < 0 {
		errs = append(errs, fmt.Errorf("storage.history_limit %d must not be negative", cfg.Storage.HistoryLimit))
	}

	// Recognizers
	validateRecognizer("gesture", cfg.Recognizers.Gesture, &errs)
	validateRecognizer("speech", cfg.Recognizers.Speech, &errs)

	// Animation
	if cfg.Animation.FPS < 0 || cfg.Animation.FPS > 240 {
		errs = append(errs, fmt.Errorf("animation.fps %d is out of range [0, 240]", cfg.Animation.FPS))
	}
	if cfg.Animation.Duration < 0 {
		errs = append(errs, fmt.Errorf("animation.duration %s must not be negative", cfg.Animation.Duration))
	}
	if cfg.Animation.Speed < 0 {
		errs = append(errs, fmt.Errorf("animation.speed %.2f must not be negative", cfg.Animation.Speed))
	}

	// MCP
	if cfg.MCP.Enabled && !strings.HasPrefix(cfg.MCP.Path, "/") {
		errs = append(errs, fmt.Errorf("mcp.path %q must start with /", cfg.MCP.Path))
	}

	return errors.Join(errs...)
}

// validateRecognizer checks one recognizer entry. Unknown names only warn so
// third-party backends can be registered without touching this package.
func validateRecognizer(kind string, e RecognizerEntry, errs *[]error) {
	if e.Name == "remote" && e.BaseURL == "" {
		*errs = append(*errs, fmt.Errorf("recognizers.%s.base_url is required when name is remote", kind))
	}
	if e.Timeout < 0 {
		*errs = append(*errs, fmt.Errorf("recognizers.%s.timeout %s must not be negative", kind, e.Timeout))
	}
	if e.Name == "" {
		return
	}
	known := ValidRecognizerNames[kind]
	if slices.Contains(known, e.Name) {
		return
	}
	slog.Warn("unknown recognizer name, may be a typo or third-party backend",
		"kind", kind,
		"name", e.Name,
		"known", known,
	)
}
