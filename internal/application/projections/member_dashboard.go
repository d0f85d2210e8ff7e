package projections

import (
	"context"
	"strings"
	"time"

	domainMember "gymdesk/internal/domain/member"
)

// MemberIdentity is the signed-in principal a member record is resolved for.
type MemberIdentity struct {
	IdentityID string
	Email      string
}

// ResolveMember finds the member record for a signed-in identity: first by
// linked identity ID, then by email for records created without a login.
// POST: found is false (with a nil error) when no record matches
func ResolveMember(ctx context.Context, who MemberIdentity, store MemberStore) (m domainMember.Member, found bool, err error) {
	if who.IdentityID != "" {
		m, err = store.GetByIdentityID(ctx, who.IdentityID)
		if err == nil {
			return m, true, nil
		}
		if !isNotFound(err) {
			return domainMember.Member{}, false, err
		}
	}
	email := strings.TrimSpace(who.Email)
	if email == "" {
		return domainMember.Member{}, false, nil
	}
	m, err = store.GetByEmail(ctx, email)
	if isNotFound(err) {
		return domainMember.Member{}, false, nil
	}
	if err != nil {
		return domainMember.Member{}, false, err
	}
	return m, true, nil
}

// MemberProfile holds the derived display fields of the member dashboard.
type MemberProfile struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Package     string
	Status      string
	MemberSince string
	DaysActive  int
}

// MemberDashboardResult carries the query result. When Found is false the
// other fields are empty and the page shows the profile-not-found state.
type MemberDashboardResult struct {
	Found         bool
	Profile       MemberProfile
	Bills         []BillRow
	TotalPaid     string
	Notifications []NotificationView
}

// MemberDashboardDeps holds dependencies for MemberDashboard.
type MemberDashboardDeps struct {
	MemberStore       MemberStore
	BillStore         BillStore
	NotificationStore NotificationStore
	Now               func() time.Time
}

// QueryMemberDashboard assembles the member portal for a signed-in identity.
// PRE: who describes an authenticated identity
// POST: A missing member record is reported through Found, not an error
// INVARIANT: Display fields are derived from stored fields only
func QueryMemberDashboard(ctx context.Context, who MemberIdentity, deps MemberDashboardDeps) (MemberDashboardResult, error) {
	m, found, err := ResolveMember(ctx, who, deps.MemberStore)
	if err != nil {
		return MemberDashboardResult{}, err
	}
	if !found {
		return MemberDashboardResult{}, nil
	}

	result := MemberDashboardResult{
		Found: true,
		Profile: MemberProfile{
			ID:          m.ID,
			Name:        m.Name,
			Email:       m.Email,
			Phone:       m.DisplayPhone(),
			Package:     m.DisplayPackage(),
			Status:      m.Status,
			MemberSince: m.MemberSince(),
			DaysActive:  m.DaysActive(deps.Now()),
		},
	}

	bills, err := QueryListBills(ctx, ListBillsQuery{MemberID: m.ID}, ListBillsDeps{BillStore: deps.BillStore})
	if err != nil {
		return MemberDashboardResult{}, err
	}
	result.Bills = bills.Bills
	result.TotalPaid = bills.TotalPaid

	result.Notifications, err = QueryListNotifications(ctx, ListNotificationsDeps{NotificationStore: deps.NotificationStore})
	if err != nil {
		return MemberDashboardResult{}, err
	}
	return result, nil
}
