// Package docstore is the persistence client: a minimal document store with
// named collections, store-assigned identifiers and equality filters.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"time"
)

// Collection names used by the application.
const (
	CollectionMembers       = "members"
	CollectionBills         = "bills"
	CollectionNotifications = "notifications"
	CollectionAccounts      = "accounts"
)

// Errors
var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidField = errors.New("field name must match [A-Za-z_][A-Za-z0-9_]*")
	ErrEmptyPatch   = errors.New("update patch is empty")
)

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Document is a stored record: its identifier plus raw JSON data.
type Document struct {
	ID        string
	Data      json.RawMessage
	CreatedAt time.Time
}

// Decode unmarshals the document data into v.
func (d Document) Decode(v any) error {
	return json.Unmarshal(d.Data, v)
}

// Store is the persistence client. There is no compare-and-swap and no
// cross-collection transaction.
type Store interface {
	Insert(ctx context.Context, collection string, record any) (string, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	ListAll(ctx context.Context, collection string) ([]Document, error)
	ListWhere(ctx context.Context, collection, field string, value any) ([]Document, error)
	Update(ctx context.Context, collection, id string, patch map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Count(ctx context.Context, collection string) (int, error)
}

// ValidField reports whether name can be used in ListWhere.
func ValidField(name string) bool {
	return fieldPattern.MatchString(name)
}
