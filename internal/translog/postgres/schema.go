// Package postgres provides a PostgreSQL-backed [translog.Log].
//
// Records live in a single append-only translation_records table. A BIGSERIAL
// seq column preserves insertion order, which is the order
// [Store.ListBySession] returns. [Migrate] creates the table on start.
//
// Usage:
//
//	store, err := postgres.NewStore(ctx, dsn)
//	if err != nil { … }
//	defer store.Close()
//
//	_ = store.Append(ctx, rec)
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const ddlTranslationRecords = `
CREATE TABLE IF NOT EXISTS translation_records (
    seq          BIGSERIAL    PRIMARY KEY,
    id           UUID         NOT NULL UNIQUE,
    session_id   TEXT         NOT NULL,
    direction    TEXT         NOT NULL,
    input        TEXT         NOT NULL DEFAULT '',
    output       TEXT         NOT NULL DEFAULT '',
    language     TEXT         NOT NULL DEFAULT '',
    confidence   DOUBLE PRECISION,
    timestamp    TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_translation_records_session_seq
    ON translation_records (session_id, seq);

CREATE INDEX IF NOT EXISTS idx_translation_records_direction
    ON translation_records (direction);
`

// Migrate creates the translation_records table and its indexes. It is
// idempotent and safe to call on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, ddlTranslationRecords); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}
