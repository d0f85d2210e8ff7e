package orchestrators

import (
	"context"
	"errors"
	"testing"

	"gymdesk/internal/adapters/identity"
	"gymdesk/internal/domain/member"
)

func ashaInput() CreateMemberInput {
	return CreateMemberInput{
		Name:     "Asha",
		Email:    "asha@x.com",
		Phone:    "9999",
		JoinDate: "2024-01-01",
		Package:  "Gold",
	}
}

// TestExecuteCreateMember_Simple tests the record-only variant.
func TestExecuteCreateMember_Simple(t *testing.T) {
	store := newMockMemberStore()
	m, err := ExecuteCreateMember(context.Background(), ashaInput(), CreateMemberDeps{
		MemberStore: store,
		Now:         fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != "member-1" {
		t.Errorf("expected ID=member-1, got %s", m.ID)
	}
	if m.Status != member.StatusActive || m.Role != member.RoleMember {
		t.Errorf("expected Active member, got status=%s role=%s", m.Status, m.Role)
	}
	if !m.CreatedAt.Equal(fixedTime) {
		t.Errorf("expected CreatedAt=%v, got %v", fixedTime, m.CreatedAt)
	}
	if m.HasIdentity() {
		t.Error("expected no identity link without password")
	}
	stored := store.members["member-1"]
	if stored.Name != "Asha" || stored.Package != "Gold" || stored.JoinDate != "2024-01-01" {
		t.Errorf("stored member mismatch: %+v", stored)
	}
}

// TestExecuteCreateMember_WithLogin tests identity provisioning and linkage.
func TestExecuteCreateMember_WithLogin(t *testing.T) {
	store := newMockMemberStore()
	idp := newMockIdentity()
	in := ashaInput()
	in.Password = "membersecret"

	m, err := ExecuteCreateMember(context.Background(), in, CreateMemberDeps{
		MemberStore: store,
		Identity:    idp,
		Now:         fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.IdentityID != "uid-1" {
		t.Errorf("expected IdentityID=uid-1, got %q", m.IdentityID)
	}
	if len(idp.signedOut) != 1 || idp.signedOut[0] != "secondary-token" {
		t.Errorf("expected secondary session signed out, got %v", idp.signedOut)
	}
	if len(idp.deleted) != 0 {
		t.Errorf("expected no compensation, got %v", idp.deleted)
	}
}

// TestExecuteCreateMember_CompensatesOnWriteFailure tests that the identity
// account is removed when the member record cannot be written.
func TestExecuteCreateMember_CompensatesOnWriteFailure(t *testing.T) {
	writeErr := errors.New("store unavailable")
	store := newMockMemberStore()
	store.createErr = writeErr
	idp := newMockIdentity()
	in := ashaInput()
	in.Password = "membersecret"

	_, err := ExecuteCreateMember(context.Background(), in, CreateMemberDeps{
		MemberStore: store,
		Identity:    idp,
		Now:         fixedNow,
	})
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if len(idp.deleted) != 1 || idp.deleted[0] != "uid-1" {
		t.Errorf("expected uid-1 deleted, got %v", idp.deleted)
	}
}

// TestExecuteCreateMember_CompensationFailureKeepsOriginalError tests that a
// failed rollback does not mask the write error.
func TestExecuteCreateMember_CompensationFailureKeepsOriginalError(t *testing.T) {
	writeErr := errors.New("store unavailable")
	store := newMockMemberStore()
	store.createErr = writeErr
	idp := newMockIdentity()
	idp.deleteErr = errors.New("identity unavailable")
	in := ashaInput()
	in.Password = "membersecret"

	_, err := ExecuteCreateMember(context.Background(), in, CreateMemberDeps{
		MemberStore: store,
		Identity:    idp,
		Now:         fixedNow,
	})
	if !errors.Is(err, writeErr) {
		t.Errorf("expected store error, got %v", err)
	}
}

// TestExecuteCreateMember_Errors tests validation and provisioning failures.
func TestExecuteCreateMember_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateMemberInput)
		idp     *mockIdentity
		wantErr error
	}{
		{"empty name", func(in *CreateMemberInput) { in.Name = "  " }, nil, member.ErrEmptyName},
		{"bad email", func(in *CreateMemberInput) { in.Email = "asha" }, nil, member.ErrInvalidEmail},
		{"bad join date", func(in *CreateMemberInput) { in.JoinDate = "01/01/2024" }, nil, member.ErrInvalidJoinDate},
		{"password without provisioner", func(in *CreateMemberInput) { in.Password = "membersecret" }, nil, ErrProvisioningUnavailable},
		{"email in use", func(in *CreateMemberInput) { in.Password = "membersecret" }, &mockIdentity{createErr: identity.ErrEmailInUse}, identity.ErrEmailInUse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockMemberStore()
			in := ashaInput()
			tt.mutate(&in)
			deps := CreateMemberDeps{MemberStore: store, Now: fixedNow}
			if tt.idp != nil {
				deps.Identity = tt.idp
			}
			_, err := ExecuteCreateMember(context.Background(), in, deps)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if len(store.members) != 0 {
				t.Error("expected nothing stored")
			}
		})
	}
}
