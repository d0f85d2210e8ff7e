package notification

import (
	"context"

	domain "gymdesk/internal/domain/notification"
)

// Store persists Notification state. Notifications are append-only.
type Store interface {
	Create(ctx context.Context, value domain.Notification) (string, error)
	List(ctx context.Context) ([]domain.Notification, error)
}
