package notification

import (
	"context"
	"fmt"
	"time"

	"gymdesk/internal/adapters/storage/docstore"
	domain "gymdesk/internal/domain/notification"
)

type document struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Date    string `json:"date"`
	Type    string `json:"type"`
}

// DocStore implements Store on the document store.
type DocStore struct {
	docs docstore.Store
}

// Compile-time check that *DocStore satisfies Store.
var _ Store = (*DocStore)(nil)

// NewDocStore creates a new notification Store.
func NewDocStore(docs docstore.Store) *DocStore {
	return &DocStore{docs: docs}
}

// Create persists a new Notification and returns the store-assigned id.
// PRE: value.Validate() == nil
func (s *DocStore) Create(ctx context.Context, value domain.Notification) (string, error) {
	id, err := s.docs.Insert(ctx, docstore.CollectionNotifications, document{
		Title:   value.Title,
		Message: value.Message,
		Date:    value.Date.UTC().Format(time.RFC3339Nano),
		Type:    value.Type,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create notification: %w", err)
	}
	return id, nil
}

// List returns all notifications in insertion order.
func (s *DocStore) List(ctx context.Context) ([]domain.Notification, error) {
	docs, err := s.docs.ListAll(ctx, docstore.CollectionNotifications)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	out := make([]domain.Notification, 0, len(docs))
	for _, doc := range docs {
		var d document
		if err := doc.Decode(&d); err != nil {
			return nil, fmt.Errorf("failed to decode notification %s: %w", doc.ID, err)
		}
		n := domain.Notification{ID: doc.ID, Title: d.Title, Message: d.Message, Type: d.Type}
		if t, err := time.Parse(time.RFC3339Nano, d.Date); err == nil {
			n.Date = t
		} else {
			n.Date = doc.CreatedAt
		}
		out = append(out, n)
	}
	return out, nil
}
