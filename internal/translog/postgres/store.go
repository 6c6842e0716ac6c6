package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MrWong99/ishara/internal/translog"
)

// Compile-time interface assertion.
var _ translog.Log = (*Store)(nil)

// Store is a [translog.Log] backed by the translation_records table.
// All methods are safe for concurrent use; each append is a single-row
// INSERT, so concurrent appends never interleave.
type Store struct {
	pool *pgxpool.Pool
}

// Option is a functional option for [NewStore].
type Option func(*pgxpool.Config)

// WithDatabase connects to database name instead of the one named in the DSN.
func WithDatabase(name string) Option {
	return func(cfg *pgxpool.Config) {
		if name != "" {
			cfg.ConnConfig.Database = name
		}
	}
}

// NewStore connects to the PostgreSQL database at dsn, verifies the
// connection and runs [Migrate].
func NewStore(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres store: parse dsn: %w", err)
	}
	for _, o := range opts {
		o(cfg)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres store: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: ping: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: migrate: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Ping checks that the database is reachable. Used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases all pooled connections.
func (s *Store) Close() {
	s.pool.Close()
}

// Append implements [translog.Log].
func (s *Store) Append(ctx context.Context, rec translog.Record) error {
	const q = `
		INSERT INTO translation_records
		    (id, session_id, direction, input, output, language, confidence, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.pool.Exec(ctx, q,
		rec.ID,
		rec.SessionID,
		string(rec.Direction),
		rec.Input,
		rec.Output,
		rec.Language,
		rec.Confidence,
		rec.Timestamp,
	)
	if err != nil {
		return &translog.StorageError{Op: "append", Err: err}
	}
	return nil
}

// ListBySession implements [translog.Log].
func (s *Store) ListBySession(ctx context.Context, sessionID string, limit int) ([]translog.Record, error) {
	const q = `
		SELECT id, session_id, direction, input, output, language, confidence, timestamp
		FROM   translation_records
		WHERE  session_id = $1
		ORDER  BY seq
		LIMIT  $2`

	rows, err := s.pool.Query(ctx, q, sessionID, translog.EffectiveLimit(limit))
	if err != nil {
		return nil, &translog.StorageError{Op: "list by session", Err: err}
	}
	return collectRecords(rows)
}

// CountByDirection implements [translog.Log].
func (s *Store) CountByDirection(ctx context.Context, dir translog.Direction) (int, error) {
	const q = `SELECT count(*) FROM translation_records WHERE direction = $1`

	var n int64
	if err := s.pool.QueryRow(ctx, q, string(dir)).Scan(&n); err != nil {
		return 0, &translog.StorageError{Op: "count by direction", Err: err}
	}
	return int(n), nil
}

// Count implements [translog.Log].
func (s *Store) Count(ctx context.Context) (int, error) {
	const q = `SELECT count(*) FROM translation_records`

	var n int64
	if err := s.pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, &translog.StorageError{Op: "count", Err: err}
	}
	return int(n), nil
}

// collectRecords scans pgx rows into a non-nil slice of records.
func collectRecords(rows pgx.Rows) ([]translog.Record, error) {
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (translog.Record, error) {
		var (
			r   translog.Record
			dir string
		)
		if err := row.Scan(
			&r.ID,
			&r.SessionID,
			&dir,
			&r.Input,
			&r.Output,
			&r.Language,
			&r.Confidence,
			&r.Timestamp,
		); err != nil {
			return translog.Record{}, err
		}
		r.Direction = translog.Direction(dir)
		r.Timestamp = r.Timestamp.UTC()
		return r, nil
	})
	if err != nil {
		return nil, &translog.StorageError{Op: "scan rows", Err: err}
	}
	if records == nil {
		records = []translog.Record{}
	}
	return records, nil
}
