package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/notification"
)

func membersWithEmails(emails ...string) *mockMemberStore {
	store := newMockMemberStore()
	for _, e := range emails {
		store.Create(context.Background(), member.Member{Name: "M", Email: e})
	}
	return store
}

// TestExecuteBroadcast_HolidayHours tests storing and mailing a broadcast.
func TestExecuteBroadcast_HolidayHours(t *testing.T) {
	notifications := &mockNotificationStore{}
	sender := &recordingSender{}

	res, err := ExecuteBroadcast(context.Background(), BroadcastInput{
		Title:   "Holiday Hours",
		Message: "Closed on the **25th**",
	}, BroadcastDeps{
		NotificationStore: notifications,
		MemberStore:       membersWithEmails("a@x.com", "b@x.com", "A@x.com", ""),
		EmailSender:       sender,
		FromAddress:       "GymRats <noreply@gymrats.local>",
		GymName:           "GymRats",
		Now:               fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := res.Notification
	if n.ID != "notification-1" || n.Type != notification.TypeBroadcast || !n.Date.Equal(fixedTime) {
		t.Errorf("unexpected notification: %+v", n)
	}
	if len(notifications.created) != 1 {
		t.Fatalf("expected 1 stored notification, got %d", len(notifications.created))
	}

	if res.Emailed != 2 || len(sender.reqs) != 2 {
		t.Fatalf("expected 2 distinct recipients, got emailed=%d reqs=%d", res.Emailed, len(sender.reqs))
	}
	req := sender.reqs[0]
	if req.Subject != "GymRats: Holiday Hours" {
		t.Errorf("unexpected subject %q", req.Subject)
	}
	if !strings.Contains(req.HTML, "<strong>25th</strong>") {
		t.Errorf("expected rendered markdown, got %q", req.HTML)
	}
	if req.Text != "Closed on the **25th**" {
		t.Errorf("expected raw text body, got %q", req.Text)
	}
}

// TestExecuteBroadcast_EmailFailureDoesNotFail tests that delivery errors are
// swallowed after the notification is stored.
func TestExecuteBroadcast_EmailFailureDoesNotFail(t *testing.T) {
	notifications := &mockNotificationStore{}
	res, err := ExecuteBroadcast(context.Background(), BroadcastInput{Title: "T", Message: "M"}, BroadcastDeps{
		NotificationStore: notifications,
		MemberStore:       membersWithEmails("a@x.com"),
		EmailSender:       &recordingSender{err: errors.New("provider down")},
		Now:               fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Emailed != 0 || len(notifications.created) != 1 {
		t.Errorf("expected stored notification and no emails, got %+v", res)
	}
}

// TestExecuteBroadcast_WithoutSender tests the store-only path.
func TestExecuteBroadcast_WithoutSender(t *testing.T) {
	notifications := &mockNotificationStore{}
	if _, err := ExecuteBroadcast(context.Background(), BroadcastInput{Title: "T", Message: "M"}, BroadcastDeps{
		NotificationStore: notifications,
		Now:               fixedNow,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifications.created) != 1 {
		t.Error("expected notification stored")
	}
}

// TestExecuteBroadcast_Errors tests validation and store failures.
func TestExecuteBroadcast_Errors(t *testing.T) {
	storeErr := errors.New("write failed")
	tests := []struct {
		name    string
		input   BroadcastInput
		store   *mockNotificationStore
		wantErr error
	}{
		{"no title", BroadcastInput{Message: "M"}, &mockNotificationStore{}, notification.ErrEmptyTitle},
		{"no message", BroadcastInput{Title: "T", Message: "  "}, &mockNotificationStore{}, notification.ErrEmptyMessage},
		{"store failure", BroadcastInput{Title: "T", Message: "M"}, &mockNotificationStore{err: storeErr}, storeErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &recordingSender{}
			_, err := ExecuteBroadcast(context.Background(), tt.input, BroadcastDeps{
				NotificationStore: tt.store,
				MemberStore:       membersWithEmails("a@x.com"),
				EmailSender:       sender,
				Now:               fixedNow,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if len(sender.reqs) != 0 {
				t.Error("expected no email on failure")
			}
		})
	}
}
