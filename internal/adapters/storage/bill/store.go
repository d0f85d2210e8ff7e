package bill

import (
	"context"

	domain "gymdesk/internal/domain/bill"
)

// Store persists Bill state. Bills are never deleted.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Bill, error)
	Create(ctx context.Context, value domain.Bill) (string, error)
	SavePayment(ctx context.Context, value domain.Bill) error
	List(ctx context.Context, filter ListFilter) ([]domain.Bill, error)
}

// ListFilter carries filtering parameters for List operations.
// At most one of MemberID and Status is pushed down to the store; the
// other is applied in memory.
type ListFilter struct {
	MemberID string
	Status   string
}
