package translog

import (
	"context"
	"errors"

	"github.com/MrWong99/ishara/internal/resilience"
)

// Compile-time interface assertion.
var _ Log = (*Breaker)(nil)

// Breaker wraps a [Log] with a [resilience.CircuitBreaker]. After repeated
// storage failures it rejects calls immediately with an error matching both
// [ErrStorage] and [resilience.ErrCircuitOpen] until the reset timeout
// elapses. Nothing is retried.
type Breaker struct {
	next Log
	cb   *resilience.CircuitBreaker
}

// NewBreaker returns a [Breaker] guarding next.
func NewBreaker(next Log, cfg resilience.CircuitBreakerConfig) *Breaker {
	if cfg.Name == "" {
		cfg.Name = "translog"
	}
	return &Breaker{next: next, cb: resilience.NewCircuitBreaker(cfg)}
}

// State returns the breaker state, for readiness reporting.
func (b *Breaker) State() resilience.State { return b.cb.State() }

// Append implements [Log].
func (b *Breaker) Append(ctx context.Context, rec Record) error {
	return b.guard("append", func() error {
		return b.next.Append(ctx, rec)
	})
}

// ListBySession implements [Log].
func (b *Breaker) ListBySession(ctx context.Context, sessionID string, limit int) ([]Record, error) {
	var out []Record
	err := b.guard("list by session", func() error {
		var err error
		out, err = b.next.ListBySession(ctx, sessionID, limit)
		return err
	})
	return out, err
}

// CountByDirection implements [Log].
func (b *Breaker) CountByDirection(ctx context.Context, dir Direction) (int, error) {
	var n int
	err := b.guard("count by direction", func() error {
		var err error
		n, err = b.next.CountByDirection(ctx, dir)
		return err
	})
	return n, err
}

// Count implements [Log].
func (b *Breaker) Count(ctx context.Context) (int, error) {
	var n int
	err := b.guard("count", func() error {
		var err error
		n, err = b.next.Count(ctx)
		return err
	})
	return n, err
}

func (b *Breaker) guard(op string, fn func() error) error {
	err := b.cb.Execute(fn)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return &StorageError{Op: op, Err: err}
	}
	return err
}
