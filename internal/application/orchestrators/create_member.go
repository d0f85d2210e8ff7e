package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gymdesk/internal/adapters/identity"
	"gymdesk/internal/domain/member"
)

// MemberStoreForCreate defines the store interface needed by CreateMember.
type MemberStoreForCreate interface {
	Create(ctx context.Context, m member.Member) (string, error)
}

// IdentityProvisioner creates and removes member identity accounts.
type IdentityProvisioner interface {
	CreateAccount(ctx context.Context, email, password string) (identity.Identity, error)
	SignOut(ctx context.Context, token string)
	DeleteAccount(ctx context.Context, accountID string) error
}

// ErrProvisioningUnavailable is returned when a password is supplied but no
// identity provisioner is configured.
var ErrProvisioningUnavailable = errors.New("member login accounts cannot be created on this server")

// CreateMemberInput carries input for the create member orchestrator.
type CreateMemberInput struct {
	Name     string
	Email    string
	Phone    string
	JoinDate string
	Package  string
	// Password, when set, also provisions a login for the member.
	Password string
}

// CreateMemberDeps holds dependencies for CreateMember.
type CreateMemberDeps struct {
	MemberStore MemberStoreForCreate
	Identity    IdentityProvisioner
	Now         func() time.Time
	Logger      *slog.Logger
}

// ExecuteCreateMember registers a new active member, optionally with a login.
// PRE: Name, Email and JoinDate are set
// POST: Member stored with status Active and role member; with a password the
// member is linked to a new identity account through its uid
// INVARIANT: A failed member write never leaves a provisioned identity behind
// unless compensation itself fails (logged)
func ExecuteCreateMember(ctx context.Context, input CreateMemberInput, deps CreateMemberDeps) (member.Member, error) {
	log := loggerOr(deps.Logger)

	m := member.Member{
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		JoinDate:  strings.TrimSpace(input.JoinDate),
		Package:   strings.TrimSpace(input.Package),
		Role:      member.RoleMember,
		Status:    member.StatusActive,
		CreatedAt: deps.Now(),
	}
	if err := m.Validate(); err != nil {
		return member.Member{}, err
	}

	if input.Password != "" {
		if deps.Identity == nil {
			return member.Member{}, ErrProvisioningUnavailable
		}
		ident, err := deps.Identity.CreateAccount(ctx, m.Email, input.Password)
		if err != nil {
			return member.Member{}, err
		}
		// The secondary session only exists to create the account.
		deps.Identity.SignOut(ctx, ident.Token)
		m.IdentityID = ident.ID
	}

	id, err := deps.MemberStore.Create(ctx, m)
	if err != nil {
		if m.IdentityID != "" {
			if cerr := deps.Identity.DeleteAccount(ctx, m.IdentityID); cerr != nil {
				log.Error("member_event", "event", "compensation_failed", "account_id", m.IdentityID, "error", cerr)
			} else {
				log.Warn("member_event", "event", "identity_rolled_back", "account_id", m.IdentityID)
			}
		}
		return member.Member{}, fmt.Errorf("save member: %w", err)
	}
	m.ID = id

	log.Info("member_event", "event", "member_created", "member_id", m.ID, "linked", m.HasIdentity())
	return m, nil
}
