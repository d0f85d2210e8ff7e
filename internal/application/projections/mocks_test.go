package projections

import (
	"context"
	"fmt"
	"time"

	billstore "gymdesk/internal/adapters/storage/bill"
	"gymdesk/internal/adapters/storage/docstore"
	memberstore "gymdesk/internal/adapters/storage/member"
	domainBill "gymdesk/internal/domain/bill"
	domainMember "gymdesk/internal/domain/member"
	domainNotification "gymdesk/internal/domain/notification"
)

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func notFound(kind string) error {
	return fmt.Errorf("%s not found: %w", kind, docstore.ErrNotFound)
}

type mockMemberStore struct {
	members []domainMember.Member
	err     error
}

// GetByID returns a seeded member by ID.
func (m *mockMemberStore) GetByID(_ context.Context, id string) (domainMember.Member, error) {
	for _, mem := range m.members {
		if mem.ID == id {
			return mem, nil
		}
	}
	return domainMember.Member{}, notFound("member")
}

// GetByIdentityID returns the seeded member linked to identityID.
func (m *mockMemberStore) GetByIdentityID(_ context.Context, identityID string) (domainMember.Member, error) {
	if m.err != nil {
		return domainMember.Member{}, m.err
	}
	for _, mem := range m.members {
		if identityID != "" && mem.IdentityID == identityID {
			return mem, nil
		}
	}
	return domainMember.Member{}, notFound("member")
}

// GetByEmail returns the first seeded member with email.
func (m *mockMemberStore) GetByEmail(_ context.Context, email string) (domainMember.Member, error) {
	for _, mem := range m.members {
		if mem.Email == email {
			return mem, nil
		}
	}
	return domainMember.Member{}, notFound("member")
}

// List returns seeded members matching the search term.
func (m *mockMemberStore) List(_ context.Context, filter memberstore.ListFilter) ([]domainMember.Member, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domainMember.Member
	for _, mem := range m.members {
		if mem.Matches(filter.Search) {
			out = append(out, mem)
		}
	}
	return out, nil
}

// Count returns the number of seeded members.
func (m *mockMemberStore) Count(_ context.Context) (int, error) {
	return len(m.members), m.err
}

type mockBillStore struct {
	bills []domainBill.Bill
}

// GetByID returns a seeded bill by ID.
func (m *mockBillStore) GetByID(_ context.Context, id string) (domainBill.Bill, error) {
	for _, b := range m.bills {
		if b.ID == id {
			return b, nil
		}
	}
	return domainBill.Bill{}, notFound("bill")
}

// List returns seeded bills for the filtered member.
func (m *mockBillStore) List(_ context.Context, filter billstore.ListFilter) ([]domainBill.Bill, error) {
	var out []domainBill.Bill
	for _, b := range m.bills {
		if filter.MemberID != "" && b.MemberID != filter.MemberID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

type mockNotificationStore struct {
	notes []domainNotification.Notification
}

// List returns seeded notifications.
func (m *mockNotificationStore) List(_ context.Context) ([]domainNotification.Notification, error) {
	return m.notes, nil
}

func asha() domainMember.Member {
	return domainMember.Member{
		ID:         "m1",
		IdentityID: "uid-1",
		Name:       "Asha",
		Email:      "asha@x.com",
		Phone:      "9999",
		JoinDate:   "2024-01-01",
		Package:    "Gold",
		Role:       domainMember.RoleMember,
		Status:     domainMember.StatusActive,
	}
}

func januaryFee(id, memberID, status string) domainBill.Bill {
	b := domainBill.Bill{
		ID:          id,
		MemberID:    memberID,
		Amount:      50000,
		Description: "January fee",
		IssuedAt:    time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC),
		Status:      status,
	}
	if status == domainBill.StatusPaid {
		b.PaidAt = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	}
	return b
}
