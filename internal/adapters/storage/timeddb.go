package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

// SQLDB is the database interface used by the document store.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

// DefaultSlowQuery is the threshold used when NewTimedDB gets a zero threshold.
const DefaultSlowQuery = 50 * time.Millisecond

// TimedDB wraps a *sql.DB and logs statements slower than a threshold.
type TimedDB struct {
	db        *sql.DB
	threshold time.Duration
	log       *slog.Logger
}

// Compile-time check that *TimedDB satisfies SQLDB.
var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps db with slow-statement logging.
// PRE: db is a valid database connection
// POST: Returns a TimedDB; a nil logger falls back to slog.Default()
func NewTimedDB(db *sql.DB, threshold time.Duration, logger *slog.Logger) *TimedDB {
	if threshold <= 0 {
		threshold = DefaultSlowQuery
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TimedDB{db: db, threshold: threshold, log: logger}
}

// RawDB returns the underlying *sql.DB.
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

func (t *TimedDB) observe(op, query string, start time.Time) {
	elapsed := time.Since(start)
	durationMs := float64(elapsed.Microseconds()) / 1000.0
	if elapsed >= t.threshold {
		t.log.Warn("slow_query", "op", op, "query", firstLine(query), "duration_ms", durationMs)
		return
	}
	t.log.Debug("query", "op", op, "duration_ms", durationMs)
}

// ExecContext wraps sql.DB.ExecContext with timing.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	defer t.observe("exec", query, start)
	return t.db.ExecContext(ctx, query, args...)
}

// QueryContext wraps sql.DB.QueryContext with timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	defer t.observe("query", query, start)
	return t.db.QueryContext(ctx, query, args...)
}

// QueryRowContext wraps sql.DB.QueryRowContext with timing.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	defer t.observe("query_row", query, start)
	return t.db.QueryRowContext(ctx, query, args...)
}

// BeginTx wraps sql.DB.BeginTx with timing.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	defer t.observe("begin_tx", "BEGIN", start)
	return t.db.BeginTx(ctx, opts)
}

// PingContext verifies the database connection.
func (t *TimedDB) PingContext(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}

func firstLine(query string) string {
	for i, r := range query {
		if r == '\n' {
			return query[:i]
		}
	}
	return query
}
