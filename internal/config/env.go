package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables recognised by [ApplyEnv]. They override YAML values.
const (
	EnvListenAddr        = "ISHARA_LISTEN_ADDR"
	EnvLogLevel          = "ISHARA_LOG_LEVEL"
	EnvCORSOrigins       = "ISHARA_CORS_ORIGINS"
	EnvStorageBackend    = "ISHARA_STORAGE_BACKEND"
	EnvPostgresDSN       = "ISHARA_POSTGRES_DSN"
	EnvDatabase          = "ISHARA_DB_NAME"
	EnvCatalogueFile     = "ISHARA_CATALOGUE_FILE"
	EnvGestureRecognizer = "ISHARA_GESTURE_RECOGNIZER"
	EnvSpeechRecognizer  = "ISHARA_SPEECH_RECOGNIZER"
	EnvRecognizerURL     = "ISHARA_RECOGNIZER_URL"
	EnvMCPEnabled        = "ISHARA_MCP_ENABLED"
)

// Unprefixed names accepted for deployments that predate the ISHARA_ prefix.
// The prefixed variable wins when both are set.
var envAliases = map[string]string{
	EnvCORSOrigins: "CORS_ORIGINS",
	EnvDatabase:    "DB_NAME",
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env")
// into the process environment without overriding variables that are
// already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load %q: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays environment variables onto cfg. lookup is usually
// [os.LookupEnv]; nil selects it. Setting ISHARA_POSTGRES_DSN without
// ISHARA_STORAGE_BACKEND switches storage to postgres.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return strings.TrimSpace(v), true
		}
		if alias, ok := envAliases[key]; ok {
			if v, ok := lookup(alias); ok {
				return strings.TrimSpace(v), true
			}
		}
		return "", false
	}

	var errs []error

	if v, ok := get(EnvListenAddr); ok {
		cfg.Server.ListenAddr = v
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.Server.LogLevel = LogLevel(strings.ToLower(v))
	}
	if v, ok := get(EnvCORSOrigins); ok {
		cfg.Server.CORSOrigins = splitList(v)
	}

	if v, ok := get(EnvPostgresDSN); ok {
		cfg.Storage.PostgresDSN = v
		if _, set := get(EnvStorageBackend); !set && v != "" {
			cfg.Storage.Backend = StoragePostgres
		}
	}
	if v, ok := get(EnvStorageBackend); ok {
		cfg.Storage.Backend = StorageBackend(strings.ToLower(v))
	}
	if v, ok := get(EnvDatabase); ok {
		cfg.Storage.Database = v
	}

	if v, ok := get(EnvCatalogueFile); ok {
		cfg.Catalogue.File = v
	}

	if v, ok := get(EnvGestureRecognizer); ok {
		cfg.Recognizers.Gesture.Name = v
	}
	if v, ok := get(EnvSpeechRecognizer); ok {
		cfg.Recognizers.Speech.Name = v
	}
	if v, ok := get(EnvRecognizerURL); ok {
		cfg.Recognizers.Gesture.BaseURL = v
		cfg.Recognizers.Speech.BaseURL = v
	}

	if v, ok := get(EnvMCPEnabled); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", EnvMCPEnabled, err))
		} else {
			cfg.MCP.Enabled = b
		}
	}

	return errors.Join(errs...)
}

// splitList splits a comma-separated value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
