package member

import (
	"context"

	domain "gymdesk/internal/domain/member"
)

// Store persists Member state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	GetByIdentityID(ctx context.Context, identityID string) (domain.Member, error)
	GetByEmail(ctx context.Context, email string) (domain.Member, error)
	Create(ctx context.Context, value domain.Member) (string, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Member, error)
	Count(ctx context.Context) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Search string
	Status string
}
