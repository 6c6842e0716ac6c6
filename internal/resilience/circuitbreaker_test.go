package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

var errTest = errors.New("test error")

// fakeClock is a manually advanced clock for breaker tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func fail() error    { return errTest }
func succeed() error { return nil }

// tripped returns a breaker that has just opened after MaxFailures failures.
func tripped(t *testing.T, clock *fakeClock, halfOpenMax int) *CircuitBreaker {
	t.Helper()
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:         "translog",
		MaxFailures:  2,
		ResetTimeout: time.Minute,
		HalfOpenMax:  halfOpenMax,
		Now:          clock.Now,
	})
	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	if cb.State() != StateOpen {
		t.Fatalf("state = %v after 2 failures, want open", cb.State())
	}
	return cb
}

func TestNewCircuitBreaker_Defaults(t *testing.T) {
	t.Parallel()
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "test"})
	if cb.cfg.MaxFailures != DefaultMaxFailures {
		t.Errorf("MaxFailures = %d, want %d", cb.cfg.MaxFailures, DefaultMaxFailures)
	}
	if cb.cfg.ResetTimeout != DefaultResetTimeout {
		t.Errorf("ResetTimeout = %v, want %v", cb.cfg.ResetTimeout, DefaultResetTimeout)
	}
	if cb.cfg.HalfOpenMax != DefaultHalfOpenMax {
		t.Errorf("HalfOpenMax = %d, want %d", cb.cfg.HalfOpenMax, DefaultHalfOpenMax)
	}
	if cb.State() != StateClosed {
		t.Errorf("initial state = %v, want closed", cb.State())
	}
}

func TestCircuitBreaker_ClosedPassesResult(t *testing.T) {
	t.Parallel()
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "test", MaxFailures: 3})
	calls := 0
	if err := cb.Execute(func() error { calls++; return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cb.Execute(fail); !errors.Is(err, errTest) {
		t.Fatalf("err = %v, want the call's own error", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestCircuitBreaker_OpensAndRejects(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	cb := tripped(t, clock, 1)

	clock.Advance(20 * time.Second)
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	if called {
		t.Error("fn ran while the breaker was open")
	}
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
	var oe *OpenError
	if !errors.As(err, &oe) {
		t.Fatalf("err = %T, want *OpenError", err)
	}
	if oe.Breaker != "translog" || oe.RetryIn != 40*time.Second {
		t.Errorf("OpenError = %+v, want translog retry in 40s", oe)
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	t.Parallel()
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "test", MaxFailures: 3})

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	_ = cb.Execute(succeed)
	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	if cb.State() != StateClosed {
		t.Fatalf("state = %v, want closed: failures were not consecutive", cb.State())
	}
	_ = cb.Execute(fail)
	if cb.State() != StateOpen {
		t.Fatalf("state = %v, want open after 3 consecutive failures", cb.State())
	}
}

func TestCircuitBreaker_IgnoredErrors(t *testing.T) {
	t.Parallel()

	t.Run("context canceled by default", func(t *testing.T) {
		t.Parallel()
		cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "test", MaxFailures: 1})
		canceled := fmt.Errorf("query: %w", context.Canceled)
		if err := cb.Execute(func() error { return canceled }); !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want it passed through", err)
		}
		if cb.State() != StateClosed {
			t.Errorf("state = %v, want closed: cancellation is not a backend failure", cb.State())
		}
	})

	t.Run("custom classifier", func(t *testing.T) {
		t.Parallel()
		errBadInput := errors.New("bad input")
		cb := NewCircuitBreaker(CircuitBreakerConfig{
			Name:        "test",
			MaxFailures: 1,
			IsFailure:   func(err error) bool { return err != nil && !errors.Is(err, errBadInput) },
		})
		_ = cb.Execute(func() error { return errBadInput })
		if cb.State() != StateClosed {
			t.Fatalf("state = %v, want closed after ignored error", cb.State())
		}
		_ = cb.Execute(fail)
		if cb.State() != StateOpen {
			t.Fatalf("state = %v, want open after counted error", cb.State())
		}
	})
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	t.Parallel()

	t.Run("reports half-open once cooled", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		cb := tripped(t, clock, 2)
		clock.Advance(time.Minute)
		if cb.State() != StateHalfOpen {
			t.Fatalf("state = %v, want half-open", cb.State())
		}
	})

	t.Run("successful probes close", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		cb := tripped(t, clock, 2)
		clock.Advance(time.Minute)
		for i := range 2 {
			if err := cb.Execute(succeed); err != nil {
				t.Fatalf("probe %d: %v", i, err)
			}
		}
		if cb.State() != StateClosed {
			t.Fatalf("state = %v, want closed", cb.State())
		}
	})

	t.Run("failed probe re-opens", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		cb := tripped(t, clock, 3)
		clock.Advance(time.Minute)
		_ = cb.Execute(succeed)
		if err := cb.Execute(fail); !errors.Is(err, errTest) {
			t.Fatalf("err = %v, want the probe's error", err)
		}
		if cb.State() != StateOpen {
			t.Fatalf("state = %v, want open", cb.State())
		}
		// The reset timeout restarts from the failed probe.
		clock.Advance(59 * time.Second)
		if err := cb.Execute(succeed); !errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("err = %v, want ErrCircuitOpen", err)
		}
	})

	t.Run("probe budget", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		cb := tripped(t, clock, 1)
		clock.Advance(time.Minute)

		release := make(chan struct{})
		done := make(chan error, 1)
		started := make(chan struct{})
		go func() {
			done <- cb.Execute(func() error {
				close(started)
				<-release
				return nil
			})
		}()
		<-started

		err := cb.Execute(succeed)
		var oe *OpenError
		if !errors.As(err, &oe) || oe.RetryIn != 0 {
			t.Fatalf("second probe err = %v, want OpenError without retry hint", err)
		}
		close(release)
		if err := <-done; err != nil {
			t.Fatalf("first probe: %v", err)
		}
		if cb.State() != StateClosed {
			t.Fatalf("state = %v, want closed", cb.State())
		}
	})
}

func TestCircuitBreaker_Reset(t *testing.T) {
	t.Parallel()
	cb := tripped(t, newFakeClock(), 1)

	cb.Reset()
	if cb.State() != StateClosed {
		t.Fatalf("state = %v, want closed after reset", cb.State())
	}
	if err := cb.Execute(succeed); err != nil {
		t.Fatalf("unexpected error after reset: %v", err)
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half-open"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	t.Parallel()
	type transition struct{ from, to State }
	var got []transition

	clock := newFakeClock()
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:         "translog",
		MaxFailures:  1,
		ResetTimeout: time.Second,
		HalfOpenMax:  1,
		Now:          clock.Now,
		OnStateChange: func(name string, from, to State) {
			if name != "translog" {
				t.Errorf("hook name = %q, want translog", name)
			}
			got = append(got, transition{from, to})
		},
	})

	_ = cb.Execute(fail)
	clock.Advance(time.Second)
	_ = cb.Execute(succeed)

	want := []transition{
		{StateClosed, StateOpen},
		{StateOpen, StateHalfOpen},
		{StateHalfOpen, StateClosed},
	}
	if len(got) != len(want) {
		t.Fatalf("transitions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transition[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
