package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gymdesk/internal/adapters/http/perf"
	"gymdesk/internal/adapters/storage"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store on a single SQLite table holding JSON documents.
type SQLiteStore struct {
	db        storage.SQLDB
	collector *perf.Collector
	tracer    trace.Tracer
	newID     func() string
	now       func() time.Time
}

// Compile-time check that *SQLiteStore satisfies Store.
var _ Store = (*SQLiteStore)(nil)

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithCollector records every operation as a perf sample.
func WithCollector(c *perf.Collector) Option {
	return func(s *SQLiteStore) { s.collector = c }
}

// WithIDGenerator overrides UUID generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *SQLiteStore) { s.newID = fn }
}

// WithClock overrides the time source for created_at/updated_at.
func WithClock(fn func() time.Time) Option {
	return func(s *SQLiteStore) { s.now = fn }
}

// NewSQLiteStore creates a document store.
// PRE: db has the document schema (storage.InitDB)
func NewSQLiteStore(db storage.SQLDB, opts ...Option) *SQLiteStore {
	s := &SQLiteStore{
		db:     db,
		tracer: otel.Tracer("gymdesk/docstore"),
		newID:  func() string { return uuid.New().String() },
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// begin starts a span and returns a finish func that records the outcome.
func (s *SQLiteStore) begin(ctx context.Context, op, collection string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "docstore."+op,
		trace.WithAttributes(attribute.String("collection", collection)))
	return ctx, func(err error) {
		if err != nil && !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		s.collector.Record(perf.Sample{
			Kind:       perf.KindStoreOp,
			Key:        collection + "." + op,
			DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
			At:         start,
		})
	}
}

// Insert stores record as a new document and returns the assigned id.
// PRE: record marshals to a JSON object
// POST: Document persisted with a fresh UUID
func (s *SQLiteStore) Insert(ctx context.Context, collection string, record any) (id string, err error) {
	ctx, finish := s.begin(ctx, "insert", collection)
	defer func() { finish(err) }()

	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", collection, err)
	}
	id = s.newID()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO document (collection, id, data, created_at) VALUES (?, ?, ?, ?)`,
		collection, id, string(data), s.now().UTC().Format(timeLayout))
	if err != nil {
		return "", fmt.Errorf("insert %s document: %w", collection, err)
	}
	return id, nil
}

// Get returns one document by id.
// POST: Returns ErrNotFound if no such document exists
func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (doc Document, err error) {
	ctx, finish := s.begin(ctx, "get", collection)
	defer func() { finish(err) }()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, data, created_at FROM document WHERE collection = ? AND id = ?`, collection, id)
	doc, err = scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// ListAll returns every document in a collection in insertion order.
func (s *SQLiteStore) ListAll(ctx context.Context, collection string) (docs []Document, err error) {
	ctx, finish := s.begin(ctx, "listAll", collection)
	defer func() { finish(err) }()

	return s.query(ctx,
		`SELECT id, data, created_at FROM document WHERE collection = ? ORDER BY seq`, collection)
}

// ListWhere returns documents whose top-level field equals value, in insertion order.
// PRE: field matches [A-Za-z_][A-Za-z0-9_]*
func (s *SQLiteStore) ListWhere(ctx context.Context, collection, field string, value any) (docs []Document, err error) {
	ctx, finish := s.begin(ctx, "listWhere", collection)
	defer func() { finish(err) }()

	if !ValidField(field) {
		return nil, ErrInvalidField
	}
	return s.query(ctx,
		`SELECT id, data, created_at FROM document
		 WHERE collection = ? AND json_extract(data, ?) = ? ORDER BY seq`,
		collection, "$."+field, value)
}

// Update merges patch into the stored document (JSON merge patch: a nil
// value removes the field).
// PRE: patch is non-empty
// POST: Returns ErrNotFound if the document does not exist
func (s *SQLiteStore) Update(ctx context.Context, collection, id string, patch map[string]any) (err error) {
	ctx, finish := s.begin(ctx, "update", collection)
	defer func() { finish(err) }()

	if len(patch) == 0 {
		return ErrEmptyPatch
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("encode %s patch: %w", collection, err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE document SET data = json_patch(data, ?), updated_at = ? WHERE collection = ? AND id = ?`,
		string(data), s.now().UTC().Format(timeLayout), collection, id)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) (err error) {
	ctx, finish := s.begin(ctx, "delete", collection)
	defer func() { finish(err) }()

	if _, err = s.db.ExecContext(ctx,
		`DELETE FROM document WHERE collection = ? AND id = ?`, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Count returns the number of documents in a collection.
func (s *SQLiteStore) Count(ctx context.Context, collection string) (n int, err error) {
	ctx, finish := s.begin(ctx, "count", collection)
	defer func() { finish(err) }()

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM document WHERE collection = ?`, collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func scanDocument(scan func(dest ...any) error) (Document, error) {
	var (
		doc       Document
		data      string
		createdAt string
	)
	if err := scan(&doc.ID, &data, &createdAt); err != nil {
		return Document{}, err
	}
	doc.Data = json.RawMessage(data)
	doc.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return doc, nil
}
