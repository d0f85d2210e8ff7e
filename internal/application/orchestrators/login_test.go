package orchestrators

import (
	"context"
	"errors"
	"testing"

	"gymdesk/internal/adapters/identity"
)

// TestExecuteLogin tests role-gated sign-in.
func TestExecuteLogin(t *testing.T) {
	tests := []struct {
		name        string
		role        string
		requireRole string
		signInErr   error
		wantErr     error
		wantSignOut bool
	}{
		{"admin portal, admin", "admin", "admin", nil, nil, false},
		{"member portal, any role", "member", "", nil, nil, false},
		{"admin portal, member", "member", "admin", nil, ErrWrongPortal, true},
		{"bad credentials", "", "admin", identity.ErrInvalidCredentials, identity.ErrInvalidCredentials, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idp := newMockIdentity()
			idp.signInRole = tt.role
			idp.signInErr = tt.signInErr

			id, err := ExecuteLogin(context.Background(), LoginInput{
				Email:       "a@x.com",
				Password:    "secret123",
				RequireRole: tt.requireRole,
			}, LoginDeps{Identity: idp})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if err == nil && id.Token != "primary-token" {
				t.Errorf("expected session token, got %q", id.Token)
			}
			if signedOut := len(idp.signedOut) > 0; signedOut != tt.wantSignOut {
				t.Errorf("signed out=%v, want %v", signedOut, tt.wantSignOut)
			}
		})
	}
}

type mockSeeder struct {
	created  bool
	password string
}

func (m *mockSeeder) SeedAdmin(_ context.Context, _, password string) (bool, error) {
	m.password = password
	return m.created, nil
}

// TestExecuteSeedAdmin_GeneratesPassword tests the empty-password fallback.
func TestExecuteSeedAdmin_GeneratesPassword(t *testing.T) {
	seeder := &mockSeeder{created: true}
	if err := ExecuteSeedAdmin(context.Background(), "admin@gym.com", "", SeedAdminDeps{Identity: seeder}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seeder.password) < 8 {
		t.Errorf("expected generated password of at least 8 chars, got %q", seeder.password)
	}

	seeder = &mockSeeder{}
	if err := ExecuteSeedAdmin(context.Background(), "admin@gym.com", "given-password", SeedAdminDeps{Identity: seeder}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seeder.password != "given-password" {
		t.Errorf("expected given password passed through, got %q", seeder.password)
	}
}
