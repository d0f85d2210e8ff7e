package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	emailAdapter "gymdesk/internal/adapters/email"
	memberstore "gymdesk/internal/adapters/storage/member"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/notification"
)

// NotificationStoreForBroadcast defines the store interface needed by Broadcast.
type NotificationStoreForBroadcast interface {
	Create(ctx context.Context, n notification.Notification) (string, error)
}

// MemberStoreForBroadcast lists the members a broadcast is mailed to.
type MemberStoreForBroadcast interface {
	List(ctx context.Context, filter memberstore.ListFilter) ([]member.Member, error)
}

// BroadcastInput carries input for the broadcast orchestrator.
type BroadcastInput struct {
	Title   string
	Message string // Markdown
}

// BroadcastResult reports what a broadcast did.
type BroadcastResult struct {
	Notification notification.Notification
	Emailed      int
}

// BroadcastDeps holds dependencies for Broadcast. EmailSender and
// MemberStore are optional; without them nothing is mailed.
type BroadcastDeps struct {
	NotificationStore NotificationStoreForBroadcast
	MemberStore       MemberStoreForBroadcast
	EmailSender       emailAdapter.Sender
	FromAddress       string
	GymName           string
	Now               func() time.Time
	Logger            *slog.Logger
}

// ExecuteBroadcast publishes a notification to every member.
// PRE: Title and Message are non-empty
// POST: Notification stored with type broadcast and the current date; then
// one email per member address is handed to the sender
// INVARIANT: Email failures are logged and never fail the broadcast
func ExecuteBroadcast(ctx context.Context, input BroadcastInput, deps BroadcastDeps) (BroadcastResult, error) {
	log := loggerOr(deps.Logger)

	n := notification.Notification{
		Title:   strings.TrimSpace(input.Title),
		Message: strings.TrimSpace(input.Message),
		Date:    deps.Now(),
		Type:    notification.TypeBroadcast,
	}
	if err := n.Validate(); err != nil {
		return BroadcastResult{}, err
	}

	id, err := deps.NotificationStore.Create(ctx, n)
	if err != nil {
		return BroadcastResult{}, err
	}
	n.ID = id
	log.Info("notification_event", "event", "broadcast_created", "notification_id", n.ID)

	result := BroadcastResult{Notification: n}
	if deps.EmailSender == nil || deps.MemberStore == nil {
		return result, nil
	}

	reqs, err := broadcastEmails(ctx, n, deps)
	if err != nil {
		log.Error("notification_event", "event", "broadcast_email_skipped", "notification_id", n.ID, "error", err)
		return result, nil
	}
	if len(reqs) == 0 {
		return result, nil
	}

	sent, err := deps.EmailSender.SendBatch(ctx, reqs)
	result.Emailed = len(sent)
	if err != nil {
		log.Error("notification_event", "event", "broadcast_email_failed", "notification_id", n.ID, "sent", len(sent), "recipients", len(reqs), "error", err)
		return result, nil
	}
	log.Info("notification_event", "event", "broadcast_emailed", "notification_id", n.ID, "recipients", len(reqs))
	return result, nil
}

// broadcastEmails builds one request per distinct member address.
func broadcastEmails(ctx context.Context, n notification.Notification, deps BroadcastDeps) ([]emailAdapter.SendRequest, error) {
	members, err := deps.MemberStore.List(ctx, memberstore.ListFilter{})
	if err != nil {
		return nil, err
	}
	html, err := notification.RenderHTML(n.Message)
	if err != nil {
		return nil, err
	}

	subject := n.Title
	if deps.GymName != "" {
		subject = deps.GymName + ": " + n.Title
	}

	seen := make(map[string]bool, len(members))
	var reqs []emailAdapter.SendRequest
	for _, m := range members {
		addr := strings.ToLower(strings.TrimSpace(m.Email))
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		reqs = append(reqs, emailAdapter.SendRequest{
			To:      []string{m.Email},
			From:    deps.FromAddress,
			Subject: subject,
			HTML:    html,
			Text:    n.Message,
		})
	}
	return reqs, nil
}
