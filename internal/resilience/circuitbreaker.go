// Package resilience provides circuit breaker and backend failover primitives.
//
// [CircuitBreaker] is a three-state breaker (closed → open → half-open) used
// to fail fast while the translation log's database is down. [FallbackGroup]
// pairs a primary recognizer backend with fallbacks, each behind its own
// breaker, so an unreachable inference server is bypassed in favour of the
// random backend.
//
// All types are safe for concurrent use.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrCircuitOpen matches every rejection by an open or saturated breaker.
// The concrete error is an [*OpenError].
var ErrCircuitOpen = errors.New("circuit breaker is open")

// OpenError is returned by [CircuitBreaker.Execute] when a call is rejected.
type OpenError struct {
	// Breaker is the name of the rejecting breaker.
	Breaker string

	// RetryIn is the time left until the breaker admits a probe. It is zero
	// when the breaker is half-open and its probe budget is spent.
	RetryIn time.Duration
}

func (e *OpenError) Error() string {
	if e.RetryIn > 0 {
		return fmt.Sprintf("%s: %v (retry in %s)", e.Breaker, ErrCircuitOpen, e.RetryIn.Round(time.Millisecond))
	}
	return fmt.Sprintf("%s: %v", e.Breaker, ErrCircuitOpen)
}

// Is reports whether target is [ErrCircuitOpen].
func (e *OpenError) Is(target error) bool { return target == ErrCircuitOpen }

// State represents the current operating mode of a [CircuitBreaker].
type State int

const (
	// StateClosed forwards every call.
	StateClosed State = iota

	// StateOpen rejects every call until the reset timeout has elapsed since
	// the breaker tripped.
	StateOpen

	// StateHalfOpen admits up to HalfOpenMax probes. All of them succeeding
	// closes the breaker; any one failing re-opens it.
	StateHalfOpen
)

// String returns the human-readable name of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Breaker defaults applied by [NewCircuitBreaker] to zero config fields.
const (
	DefaultMaxFailures  = 5
	DefaultResetTimeout = 30 * time.Second
	DefaultHalfOpenMax  = 3
)

// CircuitBreakerConfig holds tuning knobs for a [CircuitBreaker].
type CircuitBreakerConfig struct {
	// Name labels the breaker in logs and errors.
	Name string

	// MaxFailures is the number of consecutive failures that trips a closed
	// breaker. Default: [DefaultMaxFailures].
	MaxFailures int

	// ResetTimeout is how long a tripped breaker stays open. Default:
	// [DefaultResetTimeout].
	ResetTimeout time.Duration

	// HalfOpenMax is the number of probes admitted while half-open.
	// Default: [DefaultHalfOpenMax].
	HalfOpenMax int

	// IsFailure decides whether an error returned by the guarded call counts
	// against the breaker. Errors it rejects are passed through and treated
	// like success. Default: [CountsAsFailure].
	IsFailure func(error) bool

	// OnStateChange, if set, is called after every state transition. It runs
	// with the breaker's lock held and must not call back into the breaker.
	OnStateChange func(name string, from, to State)

	// Now overrides the clock; nil uses [time.Now].
	Now func() time.Time
}

// CountsAsFailure is the default failure classifier: every non-nil error
// except the caller giving up.
func CountsAsFailure(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled)
}

// CircuitBreaker implements the three-state circuit breaker pattern.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu        sync.Mutex
	state     State
	failures  int       // consecutive failures while closed
	trippedAt time.Time // when the breaker last opened
	probes    int       // probes admitted in the current half-open window
	passed    int       // probes that succeeded in that window
}

// NewCircuitBreaker creates a [CircuitBreaker] from cfg, filling zero fields
// with the package defaults.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = DefaultMaxFailures
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = DefaultResetTimeout
	}
	if cfg.HalfOpenMax <= 0 {
		cfg.HalfOpenMax = DefaultHalfOpenMax
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = CountsAsFailure
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &CircuitBreaker{cfg: cfg}
}

// Name returns the breaker's label.
func (cb *CircuitBreaker) Name() string { return cb.cfg.Name }

// Execute runs fn if the breaker admits it and records the outcome. A
// rejected call returns an [*OpenError] without running fn.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	probe, err := cb.admit()
	if err != nil {
		return err
	}
	err = fn()
	cb.settle(probe, cb.cfg.IsFailure(err))
	return err
}

// State returns the current [State]. An open breaker whose reset timeout has
// elapsed reports [StateHalfOpen]; the transition itself happens on the
// next [CircuitBreaker.Execute].
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == StateOpen && cb.cooledLocked() {
		return StateHalfOpen
	}
	return cb.state
}

// Reset forces the breaker closed and clears its counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.moveLocked(StateClosed)
	slog.Info("circuit breaker manually reset", "name", cb.cfg.Name)
}

// admit decides whether a call may proceed and whether it is a probe.
func (cb *CircuitBreaker) admit() (probe bool, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if !cb.cooledLocked() {
			return false, &OpenError{
				Breaker: cb.cfg.Name,
				RetryIn: cb.cfg.ResetTimeout - cb.cfg.Now().Sub(cb.trippedAt),
			}
		}
		cb.moveLocked(StateHalfOpen)
		slog.Info("circuit breaker half-open; probing", "name", cb.cfg.Name)
	}
	if cb.state == StateHalfOpen {
		if cb.probes >= cb.cfg.HalfOpenMax {
			return false, &OpenError{Breaker: cb.cfg.Name}
		}
		cb.probes++
		return true, nil
	}
	return false, nil
}

// settle records the outcome of an admitted call.
func (cb *CircuitBreaker) settle(probe, failed bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch {
	case probe && cb.state != StateHalfOpen:
		// A Reset or another probe already decided this window.
	case probe && failed:
		cb.trip()
		slog.Warn("circuit breaker probe failed; re-opened", "name", cb.cfg.Name)
	case probe:
		cb.passed++
		if cb.passed >= cb.cfg.HalfOpenMax {
			cb.moveLocked(StateClosed)
			slog.Info("circuit breaker closed after successful probes", "name", cb.cfg.Name)
		}
	case failed:
		cb.failures++
		if cb.state == StateClosed && cb.failures >= cb.cfg.MaxFailures {
			cb.trip()
			slog.Warn("circuit breaker opened",
				"name", cb.cfg.Name,
				"consecutive_failures", cb.failures)
		}
	default:
		cb.failures = 0
	}
}

// trip opens the breaker now. Must be called with cb.mu held.
func (cb *CircuitBreaker) trip() {
	cb.moveLocked(StateOpen)
	cb.trippedAt = cb.cfg.Now()
}

// moveLocked switches state, clears the counters and notifies the hook.
func (cb *CircuitBreaker) moveLocked(to State) {
	from := cb.state
	cb.state = to
	cb.failures, cb.probes, cb.passed = 0, 0, 0
	if from != to && cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(cb.cfg.Name, from, to)
	}
}

func (cb *CircuitBreaker) cooledLocked() bool {
	return cb.cfg.Now().Sub(cb.trippedAt) >= cb.cfg.ResetTimeout
}
