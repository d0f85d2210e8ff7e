package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/adapters/storage"
	"gymdesk/internal/adapters/storage/docstore"
	domain "gymdesk/internal/domain/account"
)

func newStore(t *testing.T) *DocStore {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDocStore(docstore.NewSQLiteStore(db))
}

func TestCreateGetByEmail_Normalized(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	id, err := s.Create(ctx, domain.Account{
		Email:        "  Asha@X.com ",
		PasswordHash: "hash",
		Role:         domain.RoleMember,
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	got, err := s.GetByEmail(ctx, "asha@x.COM")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "asha@x.com", got.Email)

	byID, err := s.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, got, byID)
}

func TestSave_LockoutRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	id, err := s.Create(ctx, domain.Account{Email: "a@x.com", PasswordHash: "h", Role: domain.RoleAdmin})
	require.NoError(t, err)

	a, err := s.GetByID(ctx, id)
	require.NoError(t, err)
	locked := time.Date(2024, 1, 1, 12, 15, 0, 0, time.UTC)
	a.FailedLogins = 5
	a.LockedUntil = locked
	require.NoError(t, s.Save(ctx, a))

	a, err = s.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 5, a.FailedLogins)
	assert.True(t, a.LockedUntil.Equal(locked))

	a.ResetFailedLogins()
	require.NoError(t, s.Save(ctx, a))
	a, err = s.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, a.FailedLogins)
	assert.True(t, a.LockedUntil.IsZero())
}

func TestListByRoleAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	adminID, err := s.Create(ctx, domain.Account{Email: "admin@x.com", Role: domain.RoleAdmin})
	require.NoError(t, err)
	_, err = s.Create(ctx, domain.Account{Email: "m@x.com", Role: domain.RoleMember})
	require.NoError(t, err)

	admins, err := s.List(ctx, ListFilter{Role: domain.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, adminID, admins[0].ID)

	require.NoError(t, s.Delete(ctx, adminID))
	_, err = s.GetByID(ctx, adminID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	all, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
