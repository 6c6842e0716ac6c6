package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrAllFailed matches the error returned when no backend in a
// [FallbackGroup] produced a result. The concrete error is an
// [*AllFailedError].
var ErrAllFailed = errors.New("all backends failed")

// FallbackConfig configures a [FallbackGroup].
type FallbackConfig struct {
	// CircuitBreaker is the template for every backend's breaker. Its Name,
	// when set, prefixes the backend names: "gesture" yields breakers named
	// "gesture/remote" and "gesture/random".
	CircuitBreaker CircuitBreakerConfig
}

// BackendError is one backend's failure inside an [AllFailedError].
type BackendError struct {
	Backend string
	Err     error
}

// AllFailedError reports every backend that was tried, in order.
type AllFailedError struct {
	Failures []BackendError
}

func (e *AllFailedError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Backend + ": " + f.Err.Error()
	}
	return fmt.Sprintf("%v (%s)", ErrAllFailed, strings.Join(parts, "; "))
}

// Is reports whether target is [ErrAllFailed].
func (e *AllFailedError) Is(target error) bool { return target == ErrAllFailed }

// Unwrap exposes the backend errors to [errors.Is] and [errors.As].
func (e *AllFailedError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

type backend[T any] struct {
	name    string
	value   T
	breaker *CircuitBreaker
}

// FallbackGroup holds a primary backend and its fallbacks, each behind its
// own [CircuitBreaker]. Calls go to the first backend whose breaker admits
// them and move on when it fails.
//
// Backends must be added before the group is used concurrently.
type FallbackGroup[T any] struct {
	cfg      FallbackConfig
	backends []backend[T]
}

// NewFallbackGroup creates a [FallbackGroup] with primary as the preferred
// backend.
func NewFallbackGroup[T any](primary T, primaryName string, cfg FallbackConfig) *FallbackGroup[T] {
	fg := &FallbackGroup[T]{cfg: cfg}
	fg.AddFallback(primaryName, primary)
	return fg
}

// AddFallback appends a backend tried after all previously added ones.
func (fg *FallbackGroup[T]) AddFallback(name string, value T) {
	cbCfg := fg.cfg.CircuitBreaker
	if cbCfg.Name != "" {
		cbCfg.Name += "/" + name
	} else {
		cbCfg.Name = name
	}
	fg.backends = append(fg.backends, backend[T]{
		name:    name,
		value:   value,
		breaker: NewCircuitBreaker(cbCfg),
	})
}

// Names returns the backend names in the order they are tried.
func (fg *FallbackGroup[T]) Names() []string {
	names := make([]string, len(fg.backends))
	for i, b := range fg.backends {
		names[i] = b.name
	}
	return names
}

// Execute runs fn against each backend in turn until one succeeds.
func (fg *FallbackGroup[T]) Execute(fn func(T) error) error {
	_, err := ExecuteWithResult(fg, func(v T) (struct{}, error) {
		return struct{}{}, fn(v)
	})
	return err
}

// ExecuteWithResult is [FallbackGroup.Execute] for calls that produce a
// value. Backends with an open breaker are skipped. A cancelled context
// stops the walk: the remaining backends would fail the same way.
func ExecuteWithResult[T, R any](fg *FallbackGroup[T], fn func(T) (R, error)) (R, error) {
	var (
		zero     R
		failures []BackendError
	)
	for i := range fg.backends {
		b := &fg.backends[i]
		var out R
		err := b.breaker.Execute(func() error {
			var err error
			out, err = fn(b.value)
			return err
		})
		if err == nil {
			if len(failures) > 0 {
				slog.Info("served by fallback backend", "backend", b.name, "skipped", len(failures))
			}
			return out, nil
		}
		failures = append(failures, BackendError{Backend: b.name, Err: err})
		if errors.Is(err, context.Canceled) {
			break
		}
		if errors.Is(err, ErrCircuitOpen) {
			slog.Debug("backend skipped, circuit open", "backend", b.name)
			continue
		}
		slog.Warn("backend failed, trying next", "backend", b.name, "err", err)
	}
	return zero, &AllFailedError{Failures: failures}
}
