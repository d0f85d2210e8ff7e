package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"gymdesk/internal/domain/member"
)

// ErrNotConfirmed is returned when a destructive action lacks confirmation.
var ErrNotConfirmed = errors.New("deletion must be confirmed")

// MemberStoreForDelete defines the store interface needed by DeleteMember.
type MemberStoreForDelete interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
	Delete(ctx context.Context, id string) error
}

// DeleteMemberInput carries input for the delete member orchestrator.
type DeleteMemberInput struct {
	MemberID  string
	Confirmed bool
}

// DeleteMemberDeps holds dependencies for DeleteMember.
type DeleteMemberDeps struct {
	MemberStore MemberStoreForDelete
	Logger      *slog.Logger
}

// ExecuteDeleteMember removes a member record.
// PRE: Confirmed is true; MemberID exists
// POST: Member document deleted. Bills and identity accounts referencing the
// member are left in place.
func ExecuteDeleteMember(ctx context.Context, input DeleteMemberInput, deps DeleteMemberDeps) error {
	if !input.Confirmed {
		return ErrNotConfirmed
	}
	if input.MemberID == "" {
		return errors.New("member ID is required")
	}

	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return err
	}
	if err := deps.MemberStore.Delete(ctx, m.ID); err != nil {
		return err
	}

	loggerOr(deps.Logger).Info("member_event", "event", "member_deleted", "member_id", m.ID, "had_identity", m.HasIdentity())
	return nil
}
