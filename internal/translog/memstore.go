package translog

import (
	"context"
	"sync"
)

// Compile-time interface assertion.
var _ Log = (*MemStore)(nil)

// MemStore is an in-process [Log] backed by an append-only slice. Records are
// lost when the process exits.
//
// All methods are safe for concurrent use.
type MemStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemStore returns an empty [MemStore].
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Append implements [Log].
func (s *MemStore) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return &StorageError{Op: "append", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// ListBySession implements [Log].
func (s *MemStore) ListBySession(ctx context.Context, sessionID string, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StorageError{Op: "list by session", Err: err}
	}
	limit = EffectiveLimit(limit)

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Record{}
	for _, r := range s.records {
		if r.SessionID != sessionID {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// CountByDirection implements [Log].
func (s *MemStore) CountByDirection(ctx context.Context, dir Direction) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, &StorageError{Op: "count by direction", Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.records {
		if r.Direction == dir {
			n++
		}
	}
	return n, nil
}

// Count implements [Log].
func (s *MemStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, &StorageError{Op: "count", Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}
