package projections

import (
	"context"
	"errors"

	billstore "gymdesk/internal/adapters/storage/bill"
	"gymdesk/internal/adapters/storage/docstore"
	memberstore "gymdesk/internal/adapters/storage/member"
	domainBill "gymdesk/internal/domain/bill"
	domainMember "gymdesk/internal/domain/member"
	domainNotification "gymdesk/internal/domain/notification"
)

// MemberStore interface for member queries.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (domainMember.Member, error)
	GetByIdentityID(ctx context.Context, identityID string) (domainMember.Member, error)
	GetByEmail(ctx context.Context, email string) (domainMember.Member, error)
	List(ctx context.Context, filter memberstore.ListFilter) ([]domainMember.Member, error)
	Count(ctx context.Context) (int, error)
}

// BillStore interface for bill queries.
type BillStore interface {
	GetByID(ctx context.Context, id string) (domainBill.Bill, error)
	List(ctx context.Context, filter billstore.ListFilter) ([]domainBill.Bill, error)
}

// NotificationStore interface for notification queries.
type NotificationStore interface {
	List(ctx context.Context) ([]domainNotification.Notification, error)
}

// isNotFound reports whether err is a store miss.
func isNotFound(err error) bool {
	return errors.Is(err, docstore.ErrNotFound)
}
