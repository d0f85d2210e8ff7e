package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"time"

	emailAdapter "gymdesk/internal/adapters/email"
	"gymdesk/internal/adapters/identity"
	memberstore "gymdesk/internal/adapters/storage/member"
	"gymdesk/internal/domain/bill"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/notification"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

var errNotFound = errors.New("not found")

// mockMemberStore implements the member store interfaces for testing.
type mockMemberStore struct {
	members   map[string]member.Member
	order     []string
	createErr error
}

func newMockMemberStore() *mockMemberStore {
	return &mockMemberStore{members: make(map[string]member.Member)}
}

func (m *mockMemberStore) Create(_ context.Context, v member.Member) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	v.ID = fmt.Sprintf("member-%d", len(m.order)+1)
	m.members[v.ID] = v
	m.order = append(m.order, v.ID)
	return v.ID, nil
}

func (m *mockMemberStore) GetByID(_ context.Context, id string) (member.Member, error) {
	v, ok := m.members[id]
	if !ok {
		return member.Member{}, errNotFound
	}
	return v, nil
}

func (m *mockMemberStore) Delete(_ context.Context, id string) error {
	delete(m.members, id)
	return nil
}

func (m *mockMemberStore) List(_ context.Context, filter memberstore.ListFilter) ([]member.Member, error) {
	var out []member.Member
	for _, id := range m.order {
		v, ok := m.members[id]
		if ok && v.Matches(filter.Search) {
			out = append(out, v)
		}
	}
	return out, nil
}

// mockIdentity implements IdentityProvisioner and Authenticator.
type mockIdentity struct {
	accounts   map[string]identity.Identity // by email
	signedOut  []string
	deleted    []string
	createErr  error
	deleteErr  error
	signInErr  error
	signInRole string
}

func newMockIdentity() *mockIdentity {
	return &mockIdentity{accounts: make(map[string]identity.Identity)}
}

func (m *mockIdentity) CreateAccount(_ context.Context, email, _ string) (identity.Identity, error) {
	if m.createErr != nil {
		return identity.Identity{}, m.createErr
	}
	id := identity.Identity{
		ID:    fmt.Sprintf("uid-%d", len(m.accounts)+1),
		Email: email,
		Role:  "member",
		Token: "secondary-token",
	}
	m.accounts[email] = id
	return id, nil
}

func (m *mockIdentity) SignOut(_ context.Context, token string) {
	m.signedOut = append(m.signedOut, token)
}

func (m *mockIdentity) DeleteAccount(_ context.Context, accountID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, accountID)
	return nil
}

func (m *mockIdentity) SignIn(_ context.Context, email, _ string) (identity.Identity, error) {
	if m.signInErr != nil {
		return identity.Identity{}, m.signInErr
	}
	return identity.Identity{ID: "uid-1", Email: email, Role: m.signInRole, Token: "primary-token"}, nil
}

// mockBillStore implements the bill store interfaces for testing.
type mockBillStore struct {
	bills   map[string]bill.Bill
	saveErr error
	saves   int
}

func newMockBillStore() *mockBillStore {
	return &mockBillStore{bills: make(map[string]bill.Bill)}
}

func (m *mockBillStore) Create(_ context.Context, b bill.Bill) (string, error) {
	b.ID = fmt.Sprintf("bill-%d", len(m.bills)+1)
	m.bills[b.ID] = b
	return b.ID, nil
}

func (m *mockBillStore) GetByID(_ context.Context, id string) (bill.Bill, error) {
	b, ok := m.bills[id]
	if !ok {
		return bill.Bill{}, errNotFound
	}
	return b, nil
}

func (m *mockBillStore) SavePayment(_ context.Context, b bill.Bill) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.bills[b.ID] = b
	return nil
}

// mockNotificationStore implements NotificationStoreForBroadcast.
type mockNotificationStore struct {
	created []notification.Notification
	err     error
}

func (m *mockNotificationStore) Create(_ context.Context, n notification.Notification) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	n.ID = fmt.Sprintf("notification-%d", len(m.created)+1)
	m.created = append(m.created, n)
	return n.ID, nil
}

// recordingSender implements emailAdapter.Sender.
type recordingSender struct {
	reqs []emailAdapter.SendRequest
	err  error
}

func (s *recordingSender) Send(_ context.Context, req emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	s.reqs = append(s.reqs, req)
	return emailAdapter.SendResult{}, s.err
}

func (s *recordingSender) SendBatch(_ context.Context, reqs []emailAdapter.SendRequest) ([]emailAdapter.SendResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.reqs = append(s.reqs, reqs...)
	return make([]emailAdapter.SendResult, len(reqs)), nil
}
