// Package mock provides a call-recording test double for [translog.Log].
//
// The mock records every method call for assertion in tests and exposes
// exported fields that control what it returns. It is safe for concurrent use
// via an internal [sync.Mutex].
//
// Typical usage:
//
//	log := &mock.Log{}
//	log.AppendErr = translog.ErrStorage
//
//	// inject log into the system under test …
//
//	if got := log.CallCount("Append"); got != 1 {
//	    t.Errorf("expected 1 Append call, got %d", got)
//	}
package mock

import (
	"context"
	"sync"

	"github.com/MrWong99/ishara/internal/translog"
)

// Call records the name and arguments of a single method invocation.
type Call struct {
	// Method is the name of the interface method that was called.
	Method string

	// Args holds the non-context arguments passed to the method, in order.
	Args []any
}

// Compile-time interface assertion.
var _ translog.Log = (*Log)(nil)

// Log is a configurable test double for [translog.Log]. Appended records are
// kept in Appended; *Err fields default to nil (success).
type Log struct {
	mu    sync.Mutex
	calls []Call

	// Appended holds every record passed to a successful Append.
	Appended []translog.Record

	// AppendErr is returned by [Log.Append] when non-nil.
	AppendErr error

	// ListResult is returned by [Log.ListBySession]. When nil, the records in
	// Appended matching the session are returned.
	ListResult []translog.Record

	// ListErr is returned by [Log.ListBySession] when non-nil.
	ListErr error

	// CountByDirectionResult overrides [Log.CountByDirection] per direction.
	// Missing directions are counted from Appended.
	CountByDirectionResult map[translog.Direction]int

	// CountErr is returned by [Log.Count] and [Log.CountByDirection] when
	// non-nil.
	CountErr error
}

// Calls returns a copy of all recorded method invocations.
func (m *Log) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times the named method was invoked.
func (m *Log) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Records returns a copy of every appended record.
func (m *Log) Records() []translog.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]translog.Record, len(m.Appended))
	copy(out, m.Appended)
	return out
}

// Append implements [translog.Log].
func (m *Log) Append(_ context.Context, rec translog.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Method: "Append", Args: []any{rec}})
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.Appended = append(m.Appended, rec)
	return nil
}

// ListBySession implements [translog.Log].
func (m *Log) ListBySession(_ context.Context, sessionID string, limit int) ([]translog.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Method: "ListBySession", Args: []any{sessionID, limit}})
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if m.ListResult != nil {
		out := make([]translog.Record, len(m.ListResult))
		copy(out, m.ListResult)
		return out, nil
	}
	limit = translog.EffectiveLimit(limit)
	out := []translog.Record{}
	for _, r := range m.Appended {
		if r.SessionID == sessionID && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

// CountByDirection implements [translog.Log].
func (m *Log) CountByDirection(_ context.Context, dir translog.Direction) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Method: "CountByDirection", Args: []any{dir}})
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	if n, ok := m.CountByDirectionResult[dir]; ok {
		return n, nil
	}
	n := 0
	for _, r := range m.Appended {
		if r.Direction == dir {
			n++
		}
	}
	return n, nil
}

// Count implements [translog.Log].
func (m *Log) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Method: "Count"})
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	return len(m.Appended), nil
}
