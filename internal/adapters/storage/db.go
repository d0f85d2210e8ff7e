package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DSN builds the SQLite connection string with WAL mode and a busy timeout.
func DSN(path string) string {
	return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
}

// Open opens the SQLite database at path and applies the schema.
// PRE: path is a writable file path or ":memory:"
// POST: Returns a pinged, migrated *sql.DB
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := DSN(path)
	if path == ":memory:" {
		dsn = path
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	if err := InitDB(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// InitDB creates the document table. Every collection lives in the same table;
// seq preserves insertion order for list operations.
// PRE: db is a valid database connection
// POST: Schema exists; calling again is a no-op
func InitDB(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS document (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		data TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		UNIQUE (collection, id)
	);

	CREATE INDEX IF NOT EXISTS idx_document_collection ON document (collection, seq);
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
